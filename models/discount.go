package models

import "time"

type DiscountType string
type DiscountScope string

const (
	DiscountTypePercentage   DiscountType = "percentage"
	DiscountTypeFixed        DiscountType = "fixed"
	DiscountTypeFreeShipping DiscountType = "free_shipping"

	DiscountScopeFirstOrder    DiscountScope = "first_order"
	DiscountScopeMinOrderValue DiscountScope = "min_order_value"
	DiscountScopeMinCartItems  DiscountScope = "min_cart_items"
)

// Discount is read-only input to the pricing engine; the order flow never
// mutates these rows.
type Discount struct {
	ID            uint          `gorm:"primaryKey" json:"id"`
	Name          string        `json:"name"`
	Type          DiscountType  `gorm:"type:VARCHAR(20);not null" json:"type"`
	Scope         DiscountScope `gorm:"type:VARCHAR(20);not null" json:"scope"`
	Value         float64       `json:"value"`
	MinOrderValue float64       `json:"min_order_value"`
	MinCartItems  int           `json:"min_cart_items"`
	Active        bool          `gorm:"default:true;index" json:"active"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// DiscountUserLog records that a one-time discount has been consumed by a
// user. At most one row per (user, discount); written with FirstOrCreate.
type DiscountUserLog struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     string    `gorm:"not null;uniqueIndex:idx_discount_user" json:"user_id"`
	DiscountID uint      `gorm:"not null;uniqueIndex:idx_discount_user" json:"discount_id"`
	CreatedAt  time.Time `json:"created_at"`
}
