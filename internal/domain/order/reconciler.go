// internal/domain/order/reconciler.go
package order

import (
	"github.com/shopspring/decimal"
)

// WeightsComplete is true when every weight-based item has a recorded
// weight; an order without weight-based items is complete
func WeightsComplete(items []Item) bool {
	for i := range items {
		if items[i].IsWeightBased() && !items[i].Weight.Valid {
			return false
		}
	}
	return true
}

// ReconcileItem derives the line total. Pack items are price times
// quantity; weight items are price times measured weight, or zero and
// not ready while the weight is missing.
func ReconcileItem(item *Item) {
	if !item.IsWeightBased() {
		item.LineTotal = item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		item.Ready = true
		return
	}
	if !item.Weight.Valid {
		item.LineTotal = decimal.Zero
		item.Ready = false
		return
	}
	item.LineTotal = item.UnitPrice.Mul(item.Weight.Value)
	item.Ready = true
}

// Reconcile recomputes every line total, the subtotal and the
// weights-complete flag. There is no tax or shipping stage, so the
// subtotal is the order total once weights are complete.
func Reconcile(o *Order) {
	subtotal := decimal.Zero
	for i := range o.Items {
		ReconcileItem(&o.Items[i])
		subtotal = subtotal.Add(o.Items[i].LineTotal)
	}
	o.Subtotal = subtotal
	o.WeightsComplete = WeightsComplete(o.Items)
}

// FinalTotal returns the reconciled total and whether it is final. A
// total is withheld until every weight is recorded.
func FinalTotal(o *Order) (decimal.Decimal, bool) {
	if !o.WeightsComplete {
		return decimal.Zero, false
	}
	return o.Subtotal, true
}

// ReconcileAll reconciles a batch of orders in place
func ReconcileAll(orders []Order) {
	for i := range orders {
		Reconcile(&orders[i])
	}
}
