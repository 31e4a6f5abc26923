package models

import "time"

// Payment statuses mirror the provider's states lowercased; only "complete"
// has local meaning (it triggers the stock decrement exactly once).
const (
	PaymentStatusPending  = "pending"
	PaymentStatusComplete = "complete"
	PaymentStatusFailed   = "failed"
)

type Payment struct {
	ID            uint    `gorm:"primaryKey" json:"id"`
	OrderID       uint    `gorm:"uniqueIndex;not null" json:"order_id"`
	Amount        float64 `json:"amount"`
	PaymentStatus string  `gorm:"type:VARCHAR(30);default:'pending'" json:"payment_status"`
	// APIRef is the locally generated correlation key echoed back by the
	// provider; InvoiceID is the provider's own reference, filled in once known.
	APIRef    string    `gorm:"uniqueIndex;size:64" json:"api_ref"`
	InvoiceID string    `gorm:"size:64;index" json:"invoice_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
