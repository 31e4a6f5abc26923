package orderControllers

import (
	"testing"

	"github.com/Diana725/thriftify/models"
	"github.com/stretchr/testify/assert"
)

func bulkDiscount(value float64, minItems int) models.Discount {
	return models.Discount{
		ID:           1,
		Name:         "Bulk Discount",
		Type:         models.DiscountTypeFixed,
		Scope:        models.DiscountScopeMinCartItems,
		Value:        value,
		MinCartItems: minItems,
		Active:       true,
	}
}

func welcomeDiscount(percent float64) models.Discount {
	return models.Discount{
		ID:     2,
		Name:   "WELCOME10",
		Type:   models.DiscountTypePercentage,
		Scope:  models.DiscountScopeFirstOrder,
		Value:  percent,
		Active: true,
	}
}

func freeDeliveryDiscount(minOrder float64) models.Discount {
	return models.Discount{
		ID:            3,
		Name:          "Free CBD Delivery",
		Type:          models.DiscountTypeFreeShipping,
		Scope:         models.DiscountScopeMinOrderValue,
		MinOrderValue: minOrder,
		Active:        true,
	}
}

func line(price float64, qty int) CartLine {
	return CartLine{Product: models.Product{Price: price}, Quantity: qty}
}

func TestPriceCartNoDiscounts(t *testing.T) {
	q := PriceCart(PricingInput{
		Lines: []CartLine{line(100, 2)},
	})

	assert.Equal(t, 200.0, q.Subtotal)
	assert.Equal(t, 0.0, q.DiscountAmount)
	assert.Empty(t, q.AppliedDiscounts)
	assert.Equal(t, 0.0, q.DeliveryFee)
	assert.Equal(t, 200.0, q.TotalAmount)
}

func TestPriceCartBulkDiscount(t *testing.T) {
	q := PriceCart(PricingInput{
		Lines:     []CartLine{line(300, 3)},
		Discounts: []models.Discount{bulkDiscount(50, 3)},
	})

	assert.Equal(t, 900.0, q.Subtotal)
	assert.Equal(t, 50.0, q.DiscountAmount)
	assert.Equal(t, []string{"Bulk Discount - Ksh 50 off"}, q.AppliedDiscounts)
	assert.Equal(t, 850.0, q.TotalAmount)
}

func TestPriceCartBulkDiscountBelowThreshold(t *testing.T) {
	q := PriceCart(PricingInput{
		Lines:     []CartLine{line(300, 2)},
		Discounts: []models.Discount{bulkDiscount(50, 3)},
	})

	assert.Equal(t, 0.0, q.DiscountAmount)
	assert.Empty(t, q.AppliedDiscounts)
}

func TestPriceCartFirstOrderDiscount(t *testing.T) {
	in := PricingInput{
		Lines:        []CartLine{line(500, 2)},
		IsFirstOrder: true,
		Discounts:    []models.Discount{welcomeDiscount(10)},
	}

	q := PriceCart(in)
	assert.Equal(t, 100.0, q.DiscountAmount)
	assert.Equal(t, []string{"WELCOME10 - 10% Off First Order"}, q.AppliedDiscounts)
	assert.Equal(t, uint(2), q.FirstOrderDiscountID)
	assert.Equal(t, 900.0, q.TotalAmount)

	// Not a first order: nothing applies
	in.IsFirstOrder = false
	q = PriceCart(in)
	assert.Equal(t, 0.0, q.DiscountAmount)
	assert.Zero(t, q.FirstOrderDiscountID)

	// First order but the discount was consumed before
	in.IsFirstOrder = true
	in.UsedFirstOrderDiscount = true
	q = PriceCart(in)
	assert.Equal(t, 0.0, q.DiscountAmount)
	assert.Zero(t, q.FirstOrderDiscountID)
}

func TestPriceCartFreeCBDDelivery(t *testing.T) {
	q := PriceCart(PricingInput{
		Lines:           []CartLine{line(600, 2)},
		ShippingAddress: CBDDeliveryAddress,
		Discounts:       []models.Discount{freeDeliveryDiscount(1000)},
	})

	assert.Equal(t, 1200.0, q.Subtotal)
	assert.Equal(t, 0.0, q.DeliveryFee)
	assert.Contains(t, q.AppliedDiscounts, "Free CBD Delivery - Orders above Ksh 1000")
	assert.Equal(t, 1200.0, q.TotalAmount)
}

func TestPriceCartCBDDeliveryBelowMinimum(t *testing.T) {
	q := PriceCart(PricingInput{
		Lines:           []CartLine{line(200, 2)},
		ShippingAddress: CBDDeliveryAddress,
		Discounts:       []models.Discount{freeDeliveryDiscount(1000)},
	})

	assert.Equal(t, 50.0, q.DeliveryFee)
	assert.Empty(t, q.AppliedDiscounts)
	assert.Equal(t, 450.0, q.TotalAmount)
}

// Non-CBD addresses never accrue a delivery fee and get no narrative line.
// Kept as-is from the original storefront behaviour.
func TestPriceCartNonCBDDeliveryIsFree(t *testing.T) {
	q := PriceCart(PricingInput{
		Lines:           []CartLine{line(200, 2)},
		ShippingAddress: "Upcountry",
		Discounts:       []models.Discount{freeDeliveryDiscount(1000)},
	})

	assert.Equal(t, 0.0, q.DeliveryFee)
	assert.Empty(t, q.AppliedDiscounts)
}

func TestPriceCartDiscountsAreAdditive(t *testing.T) {
	q := PriceCart(PricingInput{
		Lines:        []CartLine{line(300, 3)},
		IsFirstOrder: true,
		Discounts: []models.Discount{
			bulkDiscount(50, 3),
			welcomeDiscount(10),
		},
	})

	// 900 - 50 (bulk) - 90 (10% of pre-discount subtotal)
	assert.Equal(t, 140.0, q.DiscountAmount)
	assert.Equal(t, []string{
		"Bulk Discount - Ksh 50 off",
		"WELCOME10 - 10% Off First Order",
	}, q.AppliedDiscounts)
	assert.Equal(t, 760.0, q.TotalAmount)
}

func TestPriceCartTotalClampedAtZero(t *testing.T) {
	q := PriceCart(PricingInput{
		Lines:     []CartLine{line(10, 3)},
		Discounts: []models.Discount{bulkDiscount(500, 3)},
	})

	assert.Equal(t, 0.0, q.TotalAmount)
}

func TestPriceCartOnlyFirstActiveRulePerScope(t *testing.T) {
	inactive := bulkDiscount(500, 3)
	inactive.Active = false
	second := bulkDiscount(25, 3)
	second.ID = 9

	q := PriceCart(PricingInput{
		Lines:     []CartLine{line(100, 3)},
		Discounts: []models.Discount{inactive, second},
	})

	assert.Equal(t, 25.0, q.DiscountAmount)
}
