package order

import "fmt"

// StaleItemError reports the first cart line that no longer resolves in
// the catalog at confirmation time. The cart is left untouched.
type StaleItemError struct {
	Name     string
	Category string
}

func (e *StaleItemError) Error() string {
	return fmt.Sprintf("item %q in category %q no longer exists in the catalog", e.Name, e.Category)
}

// BelowMinimumError reports an order total under the settlement floor.
// The cart is left untouched.
type BelowMinimumError struct {
	Total   float64
	Minimum float64
}

func (e *BelowMinimumError) Error() string {
	return fmt.Sprintf("the minimum order is $%.2f; cart total is $%.2f", e.Minimum, e.Total)
}
