package orderControllers

import (
	"fmt"

	"github.com/Diana725/thriftify/models"
)

const (
	// CBDDeliveryAddress is the flagged delivery option; it is the only one
	// that ever computes a nonzero delivery fee. Other addresses fall through
	// with fee 0 and no narrative (kept as-is from the original storefront).
	CBDDeliveryAddress = "CBD Delivery"

	cbdDeliveryFee = 50.0
)

// CartLine is one priced line of the cart being checked out.
type CartLine struct {
	Product  models.Product
	Quantity int
}

// PricingInput carries everything the engine needs so it stays a pure
// function: the caller resolves products, order history and usage logs first.
type PricingInput struct {
	Lines           []CartLine
	ShippingAddress string
	// IsFirstOrder is true when the user has zero prior orders.
	IsFirstOrder bool
	// UsedFirstOrderDiscount is true when a usage log already exists for the
	// active first-order discount.
	UsedFirstOrderDiscount bool
	Discounts              []models.Discount
}

// Quote is the priced result of a cart.
type Quote struct {
	Subtotal         float64
	DiscountAmount   float64
	AppliedDiscounts []string
	DeliveryFee      float64
	TotalAmount      float64
	// FirstOrderDiscountID is nonzero when the first-order discount applied;
	// the caller writes the usage log inside the order transaction.
	FirstOrderDiscountID uint
}

// firstActiveByScope mirrors the storefront rule that at most one active
// discount per scope is ever considered.
func firstActiveByScope(discounts []models.Discount, scope models.DiscountScope) *models.Discount {
	for i := range discounts {
		if discounts[i].Active && discounts[i].Scope == scope {
			return &discounts[i]
		}
	}
	return nil
}

// discountValue resolves the amount a rule takes off a given subtotal,
// matched exhaustively on the discount type.
func discountValue(d *models.Discount, subtotal float64) float64 {
	switch d.Type {
	case models.DiscountTypePercentage:
		return d.Value / 100 * subtotal
	case models.DiscountTypeFixed:
		return d.Value
	case models.DiscountTypeFreeShipping:
		return 0
	default:
		return 0
	}
}

// PriceCart computes subtotal, discounts, delivery fee and total for a cart.
// Rules run in a fixed order (bulk, first-order, delivery fee) because the
// order of the narrative lines is part of the contract; the amounts themselves
// are independent and additive. A cart with no applicable discounts yields a
// zero discount amount and an empty narrative, never an error.
func PriceCart(in PricingInput) Quote {
	var q Quote
	totalItems := 0
	for _, line := range in.Lines {
		q.Subtotal += line.Product.Price * float64(line.Quantity)
		totalItems += line.Quantity
	}

	// 1. Bulk-items discount
	if d := firstActiveByScope(in.Discounts, models.DiscountScopeMinCartItems); d != nil && totalItems >= d.MinCartItems {
		q.DiscountAmount += discountValue(d, q.Subtotal)
		q.AppliedDiscounts = append(q.AppliedDiscounts,
			fmt.Sprintf("Bulk Discount - Ksh %v off", d.Value))
	}

	// 2. First-order discount, applied to the pre-discount subtotal
	if d := firstActiveByScope(in.Discounts, models.DiscountScopeFirstOrder); d != nil &&
		in.IsFirstOrder && !in.UsedFirstOrderDiscount {
		q.DiscountAmount += discountValue(d, q.Subtotal)
		q.AppliedDiscounts = append(q.AppliedDiscounts,
			fmt.Sprintf("WELCOME10 - %v%% Off First Order", d.Value))
		q.FirstOrderDiscountID = d.ID
	}

	// 3. Delivery fee, CBD only
	if in.ShippingAddress == CBDDeliveryAddress {
		if d := firstActiveByScope(in.Discounts, models.DiscountScopeMinOrderValue); d != nil &&
			q.Subtotal >= d.MinOrderValue {
			q.DeliveryFee = 0
			q.AppliedDiscounts = append(q.AppliedDiscounts,
				"Free CBD Delivery - Orders above Ksh 1000")
		} else {
			q.DeliveryFee = cbdDeliveryFee
		}
	}

	q.TotalAmount = q.Subtotal - q.DiscountAmount + q.DeliveryFee
	if q.TotalAmount < 0 {
		q.TotalAmount = 0
	}
	return q
}
