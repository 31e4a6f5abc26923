package orderControllers

import (
	"errors"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/Diana725/thriftify/models"
	"github.com/Diana725/thriftify/notify"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// reservationWindow is how long a pending order holds its soft reservation.
const reservationWindow = 10 * time.Minute

// -------- Request Structs --------

type OrderItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

type PlaceOrderRequest struct {
	Items           []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
	ShippingAddress string             `json:"shipping_address" binding:"max=500"`
	ShippingPhone   string             `json:"shipping_phone" binding:"max=20"`
}

type UpdateOrderStatusRequest struct {
	OrderStatus string `json:"order_status" binding:"required"`
}

// -------- Helpers --------

// Map string to OrderStatus
func mapOrderStatus(status string) (models.OrderStatus, error) {
	switch strings.ToLower(status) {
	case string(models.OrderStatusPending):
		return models.OrderStatusPending, nil
	case string(models.OrderStatusProcessing):
		return models.OrderStatusProcessing, nil
	case string(models.OrderStatusShipped):
		return models.OrderStatusShipped, nil
	case string(models.OrderStatusDelivered):
		return models.OrderStatusDelivered, nil
	case string(models.OrderStatusCancelled):
		return models.OrderStatusCancelled, nil
	default:
		return "", errors.New("invalid order status")
	}
}

func operatorEmail() string {
	if email := os.Getenv("OPERATOR_EMAIL"); email != "" {
		return email
	}
	return "thriftify999@gmail.com"
}

// -------- Core Logic --------

// CreateOrder prices the cart and creates the order, its items and the
// discount usage log in one transaction. Stock is only checked here; nothing
// is decremented until the payment callback confirms. Any failure, including
// a stock shortfall on a later line, rolls the whole attempt back.
func CreateOrder(db *gorm.DB, userID string, req PlaceOrderRequest) (*models.Order, error) {
	var priorOrders int64
	if err := db.Model(&models.Order{}).Where("user_id = ?", userID).Count(&priorOrders).Error; err != nil {
		return nil, err
	}

	var discounts []models.Discount
	if err := db.Where("active = ?", true).Find(&discounts).Error; err != nil {
		return nil, err
	}

	usedFirstOrder := false
	if d := firstActiveByScope(discounts, models.DiscountScopeFirstOrder); d != nil {
		var logCount int64
		if err := db.Model(&models.DiscountUserLog{}).
			Where("user_id = ? AND discount_id = ?", userID, d.ID).
			Count(&logCount).Error; err != nil {
			return nil, err
		}
		usedFirstOrder = logCount > 0
	}

	lines := make([]CartLine, 0, len(req.Items))
	for _, item := range req.Items {
		var product models.Product
		if err := db.First(&product, "id = ?", item.ProductID).Error; err != nil {
			return nil, err
		}
		lines = append(lines, CartLine{Product: product, Quantity: item.Quantity})
	}

	quote := PriceCart(PricingInput{
		Lines:                  lines,
		ShippingAddress:        req.ShippingAddress,
		IsFirstOrder:           priorOrders == 0,
		UsedFirstOrderDiscount: usedFirstOrder,
		Discounts:              discounts,
	})

	reservedUntil := time.Now().Add(reservationWindow)
	order := models.Order{
		UserID:           userID,
		OrderStatus:      models.OrderStatusPending,
		TotalAmount:      quote.TotalAmount,
		DiscountAmount:   quote.DiscountAmount,
		AppliedDiscounts: quote.AppliedDiscounts,
		DeliveryFee:      quote.DeliveryFee,
		ShippingAddress:  req.ShippingAddress,
		ShippingPhone:    req.ShippingPhone,
		ReservedUntil:    &reservedUntil,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		if err := snapshotItems(tx, order.ID, lines); err != nil {
			return err
		}
		if quote.FirstOrderDiscountID != 0 {
			usage := models.DiscountUserLog{UserID: userID, DiscountID: quote.FirstOrderDiscountID}
			if err := tx.Where(&usage).FirstOrCreate(&usage).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := db.Preload("Items").First(&order, order.ID).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// -------- Handlers --------

// Place order (user)
func PlaceOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req PlaceOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		order, err := CreateOrder(db, c.GetString("user_id"), req)
		if err != nil {
			var stockErr *InsufficientStockError
			if errors.As(err, &stockErr) {
				c.JSON(http.StatusUnprocessableEntity, gin.H{"error": stockErr.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, gin.H{
			"message": "Order placed successfully",
			"order":   order,
		})
	}
}

// Fetch the authenticated user's orders
func GetUserOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var orders []models.Order
		if err := db.
			Where("user_id = ?", c.GetString("user_id")).
			Preload("Items").
			Preload("Items.Product").
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// Fetch one order, owner only
func GetOrderByIDHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var order models.Order
		if err := db.
			Preload("Items").
			Preload("Items.Product").
			Preload("Payment").
			Where("id = ? AND user_id = ?", c.Param("orderID"), c.GetString("user_id")).
			First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

// RequestCancelHandler lets a user ask an operator to cancel; the status
// itself only changes when the operator acts through the admin endpoint.
func RequestCancelHandler(db *gorm.DB, notifier notify.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		var order models.Order
		if err := db.Preload("User").
			Where("id = ? AND user_id = ?", c.Param("orderID"), c.GetString("user_id")).
			First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		if order.OrderStatus != models.OrderStatusPending && order.OrderStatus != models.OrderStatusProcessing {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "You can only request cancellation for pending or processing orders.",
			})
			return
		}

		if err := notifier.Notify(operatorEmail(), "order_cancellation_requested", map[string]interface{}{
			"order_id":   order.ID,
			"user_id":    order.UserID,
			"user_email": order.User.Email,
		}); err != nil {
			log.Printf("📧 Cancellation-request notification failed for order %d: %v", order.ID, err)
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Cancellation request received. We will update you shortly.",
		})
	}
}

// -------- Admin Handlers --------

func GetAllOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var orders []models.Order
		if err := db.
			Preload("User").
			Preload("Items").
			Preload("Items.Product").
			Preload("Payment").
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

func GetOrderForAdminHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var order models.Order
		if err := db.
			Preload("User").
			Preload("Items").
			Preload("Items.Product").
			Preload("Payment").
			First(&order, "id = ?", c.Param("orderID")).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

// UpdateOrderStatusHandler is the admin override: any of the five statuses can
// be set unconditionally. The owner is told over the realtime channel;
// delivery there is fire-and-forget.
func UpdateOrderStatusHandler(db *gorm.DB, publisher StatusPublisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		newStatus, err := mapOrderStatus(req.OrderStatus)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var order models.Order
		if err := db.First(&order, "id = ?", c.Param("orderID")).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		if err := db.Model(&order).Update("order_status", newStatus).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update order status"})
			return
		}

		publisher.PublishStatus(order.UserID, order.ID, newStatus)

		c.JSON(http.StatusOK, gin.H{
			"message": "Order status updated successfully",
			"order":   order,
		})
	}
}
