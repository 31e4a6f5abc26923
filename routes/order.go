package routes

import (
	orderControllers "github.com/Diana725/thriftify/controllers/order"
	paymentControllers "github.com/Diana725/thriftify/controllers/payment"
	"github.com/Diana725/thriftify/middleware"
	"github.com/Diana725/thriftify/notify"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func SetupOrderRoutes(r *gin.Engine, db *gorm.DB, hub *orderControllers.Hub, provider paymentControllers.Provider, notifier notify.Notifier) {
	orders := r.Group("/orders", middleware.ValidateToken)
	{
		// Create a new order (soft-reserves stock for 10 minutes)
		orders.POST("", orderControllers.PlaceOrderHandler(db))

		// Fetch the caller's orders
		orders.GET("", orderControllers.GetUserOrdersHandler(db))

		// Fetch one order
		orders.GET("/:orderID", orderControllers.GetOrderByIDHandler(db))

		// Re-open payment for a still-pending order
		orders.POST("/:orderID/resume", paymentControllers.ResumeOrderHandler(db, provider))

		// Ask an operator to cancel
		orders.POST("/:orderID/request-cancel", orderControllers.RequestCancelHandler(db, notifier))
	}

	// websocket endpoint for real-time order status updates
	r.GET("/ws/orders", middleware.ValidateToken, hub.WebSocketHandler())
}
