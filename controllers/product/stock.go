package productControllers

import (
	"errors"
	"net/http"

	"github.com/Diana725/thriftify/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type UpdateStockRequest struct {
	StockQuantity *int `json:"stock_quantity" binding:"required,min=0"`
}

// UpdateStockHandler is the manual admin stock edit, the only mutation of
// stock_quantity outside the payment-confirmation path.
func UpdateStockHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateStockRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var product models.Product
		if err := db.First(&product, "id = ?", c.Param("productID")).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		if err := db.Model(&product).Update("stock_quantity", *req.StockQuantity).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update stock"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Stock updated successfully",
			"product": product,
		})
	}
}
