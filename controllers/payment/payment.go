package paymentControllers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	orderControllers "github.com/Diana725/thriftify/controllers/order"
	"github.com/Diana725/thriftify/models"
	"github.com/Diana725/thriftify/notify"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// reservationWindow is the fresh soft-reservation granted when payment starts.
const reservationWindow = 10 * time.Minute

// stateComplete is the provider's success signal; only this state moves the
// order forward and decrements stock.
const stateComplete = "COMPLETE"

// ErrPaymentInitiation means the provider rejected or failed the
// checkout-session call. The pending Payment row is left behind on purpose;
// it is inert until a callback references it.
var ErrPaymentInitiation = errors.New("payment initiation failed")

// -------- Request Structs --------

type InitiatePaymentRequest struct {
	OrderID uint `json:"order_id" binding:"required"`
}

// CallbackPayload is what the provider POSTs back asynchronously.
type CallbackPayload struct {
	APIRef    string `json:"api_ref"`
	InvoiceID string `json:"invoice_id"`
	State     string `json:"state"`
}

// -------- Core Logic --------

// generateAPIRef builds the correlation key the provider echoes back. The
// uuid suffix keeps refs unique when a resume re-initiates within the same
// second (api_ref carries a unique index).
func generateAPIRef(orderID uint) string {
	return fmt.Sprintf("ORDER-%d-%d-%s", orderID, time.Now().Unix(), uuid.NewString()[:8])
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// initiateForOrder extends the reservation window, records the pending
// Payment keyed on a fresh correlation ref, and asks the provider for a
// hosted checkout URL. The Payment row is written before the provider call so
// a late callback can always be matched, even if the call itself fails.
func initiateForOrder(db *gorm.DB, provider Provider, order *models.Order) (string, error) {
	reservedUntil := time.Now().Add(reservationWindow)
	if err := db.Model(order).Update("reserved_until", reservedUntil).Error; err != nil {
		return "", err
	}

	apiRef := generateAPIRef(order.ID)

	var payment models.Payment
	err := db.Where("order_id = ?", order.ID).First(&payment).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		payment = models.Payment{
			OrderID:       order.ID,
			Amount:        order.TotalAmount,
			PaymentStatus: models.PaymentStatusPending,
			APIRef:        apiRef,
		}
		if err := db.Create(&payment).Error; err != nil {
			return "", err
		}
	case err != nil:
		return "", err
	default:
		// Re-initiation (resume): the order keeps its single Payment row, the
		// correlation ref is rotated to the new session.
		if err := db.Model(&payment).Updates(map[string]interface{}{
			"api_ref":        apiRef,
			"amount":         order.TotalAmount,
			"payment_status": models.PaymentStatusPending,
		}).Error; err != nil {
			return "", err
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	session, err := provider.CreateCheckoutSession(ctx, CheckoutRequest{
		Amount:      order.TotalAmount,
		Currency:    "KES",
		FirstName:   order.User.Name,
		Email:       order.User.Email,
		APIRef:      apiRef,
		CallbackURL: strings.TrimSpace(envOr("PAYMENT_CALLBACK_URL", "")),
		RedirectURL: strings.TrimSpace(envOr("PAYMENT_REDIRECT_URL", "")),
	})
	if err != nil {
		log.Printf("❌ IntaSend checkout failed for order %d: %v", order.ID, err)
		return "", fmt.Errorf("%w: %v", ErrPaymentInitiation, err)
	}

	if session.InvoiceID != "" {
		if err := db.Model(&payment).Update("invoice_id", session.InvoiceID).Error; err != nil {
			return "", err
		}
	}

	return session.URL, nil
}

// ConfirmPaidOrder applies a successful payment to the order exactly once:
// pending -> processing, reservation cleared, stock decremented. The
// conditional UPDATE on the status is the whole idempotency and race guard. A
// replayed callback, or a callback that lost the race to the expiry sweeper,
// matches zero rows and changes nothing.
func ConfirmPaidOrder(db *gorm.DB, publisher orderControllers.StatusPublisher, notifier notify.Notifier, orderID uint) error {
	confirmed := false
	var order models.Order

	err := db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Order{}).
			Where("id = ? AND order_status = ?", orderID, models.OrderStatusPending).
			Updates(map[string]interface{}{
				"order_status":   models.OrderStatusProcessing,
				"reserved_until": nil,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Already processing (replay) or already cancelled by the sweeper.
			return nil
		}
		if err := tx.Preload("Items").Preload("User").First(&order, orderID).Error; err != nil {
			return err
		}
		if err := orderControllers.ConfirmStock(tx, &order); err != nil {
			return err
		}
		confirmed = true
		return nil
	})
	if err != nil || !confirmed {
		return err
	}

	publisher.PublishStatus(order.UserID, order.ID, models.OrderStatusProcessing)

	if err := notifier.Notify(order.User.Email, notify.TemplateOrderPaid, map[string]interface{}{
		"order_id":     order.ID,
		"total_amount": order.TotalAmount,
	}); err != nil {
		log.Printf("📧 Order-paid notification failed for order %d: %v", order.ID, err)
	}
	return nil
}

// -------- Handlers --------

// InitiatePaymentHandler opens a hosted checkout session for a pending order
// owned by the caller.
func InitiatePaymentHandler(db *gorm.DB, provider Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req InitiatePaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		startCheckout(c, db, provider, req.OrderID)
	}
}

// ResumeOrderHandler re-opens payment for a still-pending order: same
// ownership and state checks, fresh reservation window, new checkout session.
func ResumeOrderHandler(db *gorm.DB, provider Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		startCheckout(c, db, provider, c.Param("orderID"))
	}
}

func startCheckout(c *gin.Context, db *gorm.DB, provider Provider, orderID interface{}) {
	var order models.Order
	if err := db.Preload("User").First(&order, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if order.UserID != c.GetString("user_id") {
		c.JSON(http.StatusForbidden, gin.H{"error": "order does not belong to this user"})
		return
	}
	if order.OrderStatus != models.OrderStatusPending {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "order is not pending"})
		return
	}

	checkoutURL, err := initiateForOrder(db, provider, &order)
	if err != nil {
		if errors.Is(err, ErrPaymentInitiation) {
			c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to initiate payment"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":      "Payment initiated",
		"checkout_url": checkoutURL,
	})
}

// PaymentCallbackHandler reconciles the provider's asynchronous webhook. It
// is unauthenticated by design and validates only through the correlation
// key. The payment status write must be durable before the 200 goes out;
// everything after it (order flip, stock, notification) never turns a
// processed callback into a retry-storm.
func PaymentCallbackHandler(db *gorm.DB, publisher orderControllers.StatusPublisher, notifier notify.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		var payload CallbackPayload
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid callback payload"})
			return
		}
		if payload.APIRef == "" && payload.InvoiceID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing api_ref"})
			return
		}

		// api_ref first, invoice_id as fallback
		var payment models.Payment
		err := gorm.ErrRecordNotFound
		if payload.APIRef != "" {
			err = db.Where("api_ref = ?", payload.APIRef).First(&payment).Error
		}
		if errors.Is(err, gorm.ErrRecordNotFound) && payload.InvoiceID != "" {
			err = db.Where("invoice_id = ?", payload.InvoiceID).First(&payment).Error
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("⚠️ Payment record not found for api_ref=%q invoice_id=%q", payload.APIRef, payload.InvoiceID)
			c.JSON(http.StatusNotFound, gin.H{"error": "Payment record not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		// Record whatever state the provider reports, terminal failures included.
		state := strings.ToUpper(payload.State)
		updates := map[string]interface{}{"payment_status": strings.ToLower(state)}
		if payload.InvoiceID != "" {
			updates["invoice_id"] = payload.InvoiceID
		}
		if err := db.Model(&payment).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		if state == stateComplete {
			if err := ConfirmPaidOrder(db, publisher, notifier, payment.OrderID); err != nil {
				// Payment state is durable; ack anyway and leave this for reconciliation.
				log.Printf("❌ Order confirmation failed for order %d: %v", payment.OrderID, err)
			}
		}

		c.JSON(http.StatusOK, gin.H{"message": "Callback processed"})
	}
}
