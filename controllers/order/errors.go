package orderControllers

import "fmt"

// InsufficientStockError fails the whole order-creation transaction and
// surfaces the offending product's name to the caller.
type InsufficientStockError struct {
	ProductName string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Not enough stock for %s", e.ProductName)
}
