package routes

import (
	orderControllers "github.com/Diana725/thriftify/controllers/order"
	productControllers "github.com/Diana725/thriftify/controllers/product"
	"github.com/Diana725/thriftify/middleware"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func SetupAdminRoutes(r *gin.Engine, db *gorm.DB, hub *orderControllers.Hub) {
	admin := r.Group("/admin", middleware.ValidateAPIKey)
	{
		// Fetch all orders
		admin.GET("/orders", orderControllers.GetAllOrdersHandler(db))

		// Export all orders as XLSX
		admin.GET("/orders/export", orderControllers.ExportOrdersToExcel(db))

		// Fetch one order with customer details
		admin.GET("/orders/:orderID", orderControllers.GetOrderForAdminHandler(db))

		// Override order status (broadcasts to the owner)
		admin.PUT("/orders/:orderID", orderControllers.UpdateOrderStatusHandler(db, hub))

		// Manual stock edit
		admin.PUT("/products/:productID/stock", productControllers.UpdateStockHandler(db))
	}
}
