package orderControllers

import (
	"log"

	"github.com/Diana725/thriftify/models"
	"gorm.io/gorm"
)

// snapshotItems verifies stock and creates the order's items inside the
// caller's transaction. Stock is checked, not decremented: the real decrement
// happens once, at payment confirmation. Any shortfall aborts the whole
// transaction so no partial order ever persists.
func snapshotItems(tx *gorm.DB, orderID uint, lines []CartLine) error {
	for _, line := range lines {
		var product models.Product
		if err := tx.First(&product, "id = ?", line.Product.ID).Error; err != nil {
			return err
		}
		if product.StockQuantity < line.Quantity {
			return &InsufficientStockError{ProductName: product.Name}
		}
		item := models.OrderItem{
			OrderID:   orderID,
			ProductID: product.ID,
			Quantity:  line.Quantity,
			Price:     product.Price,
		}
		if err := tx.Create(&item).Error; err != nil {
			return err
		}
	}
	return nil
}

// ConfirmStock performs the real decrement for a paid order. The caller must
// have already won the pending->processing status flip, which makes this run
// at most once per order. Each decrement is conditional on sufficient stock;
// a shortfall at this point means the customer already paid, so it is logged
// as a reconciliation anomaly instead of failing the transition.
func ConfirmStock(tx *gorm.DB, order *models.Order) error {
	for _, item := range order.Items {
		res := tx.Model(&models.Product{}).
			Where("id = ? AND stock_quantity >= ?", item.ProductID, item.Quantity).
			UpdateColumn("stock_quantity", gorm.Expr("stock_quantity - ?", item.Quantity))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			log.Printf("⚠️ Reconciliation anomaly: order %d paid but product %d has less than %d in stock",
				order.ID, item.ProductID, item.Quantity)
		}
	}
	return nil
}
