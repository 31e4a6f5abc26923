package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

type OrderStatus string

const (
	// Order statuses (pending -> processing -> shipped -> delivered; cancelled is
	// the only off-ramp, taken by the expiry sweeper or an admin)
	OrderStatusPending    OrderStatus = "pending"    // Placed, payment not confirmed yet
	OrderStatusProcessing OrderStatus = "processing" // Payment confirmed, being prepared
	OrderStatusShipped    OrderStatus = "shipped"    // Out for delivery
	OrderStatusDelivered  OrderStatus = "delivered"  // Customer received the item
	OrderStatusCancelled  OrderStatus = "cancelled"  // Expired or cancelled by admin
)

// StringList is stored as a JSON text column so the applied-discount narratives
// round-trip on both postgres and sqlite.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	data, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return errors.New("unsupported type for StringList")
	}
}

type Order struct {
	ID               uint        `gorm:"primaryKey" json:"id"`
	UserID           string      `gorm:"not null;index" json:"user_id"`
	User             User        `gorm:"foreignKey:UserID" json:"user"`
	Items            []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	OrderStatus      OrderStatus `gorm:"type:VARCHAR(20);default:'pending';index" json:"order_status"`
	TotalAmount      float64     `json:"total_amount"`
	DiscountAmount   float64     `json:"discount_amount"`
	AppliedDiscounts StringList  `gorm:"type:text" json:"applied_discounts"`
	DeliveryFee      float64     `json:"delivery_fee"`
	ShippingAddress  string      `gorm:"size:500" json:"shipping_address"`
	ShippingPhone    string      `gorm:"size:20" json:"shipping_phone"`
	// ReservedUntil is the soft-reservation deadline: stock is only checked, not
	// decremented, while the order is pending. Cleared once payment is confirmed.
	ReservedUntil *time.Time `json:"reserved_until"`
	Payment       *Payment   `gorm:"foreignKey:OrderID" json:"payment,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// OrderItem snapshots the unit price at order-creation time; later product
// price changes never affect an existing order.
type OrderItem struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	OrderID   uint    `gorm:"index" json:"order_id"`
	ProductID uint    `json:"product_id"`
	Product   Product `gorm:"foreignKey:ProductID" json:"product"`
	Quantity  int     `gorm:"not null" json:"quantity"`
	Price     float64 `gorm:"not null" json:"price"`
}
