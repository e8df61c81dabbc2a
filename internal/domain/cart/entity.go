// internal/domain/cart/entity.go
package cart

import (
	"github.com/shopspring/decimal"
	"github.com/your-org/butcher-storefront/internal/domain/catalog"
	"github.com/your-org/butcher-storefront/internal/domain/stock"
)

// StorageKey is the fixed key the line list is persisted under
const StorageKey = "cart"

// Line is one product in the cart. Product is a snapshot taken when the
// line was added; price and stock may have drifted since.
type Line struct {
	Product  catalog.Product `json:"product"`
	Quantity int             `json:"quantity"`
}

// ProductID returns the id of the product on this line
func (l Line) ProductID() string {
	return l.Product.ID
}

// Total returns unit price times quantity
func (l Line) Total() decimal.Decimal {
	return l.Product.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Totals represents calculated cart totals
type Totals struct {
	ItemCount     int             `json:"item_count"`     // Number of unique items
	TotalQuantity int             `json:"total_quantity"` // Sum of all quantities
	SubTotal      decimal.Decimal `json:"sub_total"`
	// Weight-priced lines are estimated per pack until the order is weighed
	HasWeightItems bool `json:"has_weight_items"`
}

// StockLines converts cart lines to the stock-check payload
func StockLines(lines []Line) []stock.Line {
	out := make([]stock.Line, 0, len(lines))
	for _, l := range lines {
		out = append(out, stock.Line{ProductID: l.Product.ID, Qty: l.Quantity})
	}
	return out
}
