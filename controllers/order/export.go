package orderControllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/Diana725/thriftify/models"
	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
	"gorm.io/gorm"
)

// ExportOrdersToExcel streams all orders as an XLSX download for back-office use.
func ExportOrdersToExcel(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var orders []models.Order
		if err := db.Preload("User").Preload("Items").Preload("Payment").
			Order("created_at DESC").Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
			return
		}

		file := xlsx.NewFile()
		sheet, err := file.AddSheet("Orders")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel sheet"})
			return
		}

		// Header row
		headers := []string{
			"ID", "UserEmail", "Status", "TotalAmount", "DiscountAmount",
			"AppliedDiscounts", "DeliveryFee", "PaymentStatus",
			"ShippingAddress", "ShippingPhone", "ReservedUntil", "CreatedAt",
		}
		headerRow := sheet.AddRow()
		for _, h := range headers {
			headerRow.AddCell().SetValue(h)
		}

		// Data rows
		for _, o := range orders {
			row := sheet.AddRow()

			row.AddCell().SetValue(o.ID)
			row.AddCell().SetValue(o.User.Email)
			row.AddCell().SetValue(string(o.OrderStatus))
			row.AddCell().SetValue(o.TotalAmount)
			row.AddCell().SetValue(o.DiscountAmount)
			row.AddCell().SetValue(strings.Join(o.AppliedDiscounts, "; "))
			row.AddCell().SetValue(o.DeliveryFee)
			if o.Payment != nil {
				row.AddCell().SetValue(o.Payment.PaymentStatus)
			} else {
				row.AddCell().SetValue("")
			}
			row.AddCell().SetValue(o.ShippingAddress)
			row.AddCell().SetValue(o.ShippingPhone)
			if o.ReservedUntil != nil {
				row.AddCell().SetValue(o.ReservedUntil.Format(time.RFC3339))
			} else {
				row.AddCell().SetValue("")
			}
			row.AddCell().SetValue(o.CreatedAt.Format("2006-01-02 15:04:05"))
		}

		// Set response headers for download
		c.Header("Content-Disposition", "attachment; filename=orders.xlsx")
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Transfer-Encoding", "binary")
		c.Header("Expires", "0")

		if err := file.Write(c.Writer); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write Excel file"})
			return
		}
	}
}
