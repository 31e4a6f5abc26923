package routes

import (
	orderControllers "github.com/Diana725/thriftify/controllers/order"
	paymentControllers "github.com/Diana725/thriftify/controllers/payment"
	"github.com/Diana725/thriftify/middleware"
	"github.com/Diana725/thriftify/notify"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func SetupPaymentRoutes(r *gin.Engine, db *gorm.DB, hub *orderControllers.Hub, provider paymentControllers.Provider, notifier notify.Notifier) {
	payments := r.Group("/payments")
	{
		// Open a hosted checkout session for a pending order
		payments.POST("/initiate",
			middleware.ValidateToken,
			paymentControllers.InitiatePaymentHandler(db, provider),
		)

		// Provider webhook: no auth, matched via correlation key only
		payments.POST("/callback", paymentControllers.PaymentCallbackHandler(db, hub, notifier))
	}
}
