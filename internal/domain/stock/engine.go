// internal/domain/stock/engine.go
package stock

import (
	"github.com/your-org/butcher-storefront/internal/domain/catalog"
)

// RemainingStock returns nil for unlimited stock, otherwise
// max(0, stock - cartQty)
func RemainingStock(p catalog.Product, cartQty int) *int {
	if p.HasUnlimitedStock() {
		return nil
	}
	remaining := *p.Stock - cartQty
	if remaining < 0 {
		remaining = 0
	}
	return &remaining
}

// IsSoldOut is true when the product has a finite stock of zero or less,
// whatever the cart holds
func IsSoldOut(p catalog.Product) bool {
	return p.Stock != nil && *p.Stock <= 0
}

// ClampQuantity bounds desired to [1, remaining]; nil remaining only
// enforces the lower bound
func ClampQuantity(desired int, remaining *int) int {
	qty := desired
	if remaining != nil && qty > *remaining {
		qty = *remaining
	}
	if qty < 1 {
		qty = 1
	}
	return qty
}

// Availability is what a product card needs to render its controls
type Availability struct {
	ProductID    string `json:"product_id"`
	Remaining    *int   `json:"remaining"`
	InCart       int    `json:"in_cart"`
	SoldOut      bool   `json:"sold_out"`
	CanAdd       bool   `json:"can_add"`
	CanIncrement bool   `json:"can_increment"`
	// MaxAddable is nil when unlimited
	MaxAddable *int `json:"max_addable"`
}

// AvailabilityFor derives control state independent of any staged input
func AvailabilityFor(p catalog.Product, cartQty int) Availability {
	remaining := RemainingStock(p, cartQty)
	soldOut := IsSoldOut(p)
	open := !soldOut && (remaining == nil || *remaining > 0)

	a := Availability{
		ProductID:    p.ID,
		Remaining:    remaining,
		InCart:       cartQty,
		SoldOut:      soldOut,
		CanAdd:       open,
		CanIncrement: open,
	}
	if remaining != nil {
		max := *remaining
		a.MaxAddable = &max
	}
	return a
}

// Reclamp re-bounds staged quantity inputs against the current remaining
// stock so none is left above a limit that moved. Staged entries for
// products with nothing remaining are dropped.
func Reclamp(staged map[string]int, products map[string]catalog.Product, cartQty map[string]int) map[string]int {
	out := make(map[string]int, len(staged))
	for id, qty := range staged {
		p, ok := products[id]
		if !ok {
			continue
		}
		remaining := RemainingStock(p, cartQty[id])
		if IsSoldOut(p) || (remaining != nil && *remaining == 0) {
			continue
		}
		out[id] = ClampQuantity(qty, remaining)
	}
	return out
}
