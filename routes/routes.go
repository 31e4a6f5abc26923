package routes

import (
	orderControllers "github.com/Diana725/thriftify/controllers/order"
	paymentControllers "github.com/Diana725/thriftify/controllers/payment"
	"github.com/Diana725/thriftify/notify"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRoutes is the single entry-point that wires up the order, payment and
// admin route groups with their collaborators.
func SetupRoutes(r *gin.Engine, db *gorm.DB, hub *orderControllers.Hub, provider paymentControllers.Provider, notifier notify.Notifier) {
	// 1️⃣ User order routes (JWT-protected)
	SetupOrderRoutes(r, db, hub, provider, notifier)

	// 2️⃣ Payment routes (initiate is JWT-protected, the callback is not)
	SetupPaymentRoutes(r, db, hub, provider, notifier)

	// 3️⃣ Admin routes (API-key-protected)
	SetupAdminRoutes(r, db, hub)
}
