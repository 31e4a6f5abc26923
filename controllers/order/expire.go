package orderControllers

import (
	"log"
	"time"

	"github.com/Diana725/thriftify/models"
	"gorm.io/gorm"
)

// ExpirePendingOrders cancels pending orders whose reservation deadline has
// passed and reports how many it touched. The status filter in the UPDATE is
// what makes the sweep safe against a racing payment callback: an order the
// callback already flipped to processing is excluded at update time, and a
// second run over the same data finds nothing.
func ExpirePendingOrders(db *gorm.DB) (int64, error) {
	res := db.Model(&models.Order{}).
		Where("order_status = ? AND reserved_until IS NOT NULL AND reserved_until < ?",
			models.OrderStatusPending, time.Now()).
		Update("order_status", models.OrderStatusCancelled)
	return res.RowsAffected, res.Error
}

// StartExpirySweeper runs ExpirePendingOrders on a fixed interval until the
// stop channel closes.
func StartExpirySweeper(db *gorm.DB, interval time.Duration, stop <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				n, err := ExpirePendingOrders(db)
				if err != nil {
					log.Printf("❌ Expiry sweep failed: %v", err)
					continue
				}
				if n > 0 {
					log.Printf("🧹 Expiry sweep cancelled %d stale pending orders", n)
				}
			}
		}
	}()
}
