// internal/domain/order/book.go
package order

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	// ErrInvalidWeight is returned for a non-positive measured weight
	ErrInvalidWeight = errors.New("weight must be greater than zero")
	// ErrOrderNotFound is returned when an order is not in the loaded book
	ErrOrderNotFound = errors.New("order not found")
)

// API is the admin order surface of the storefront API
type API interface {
	ListOrders(ctx context.Context) ([]Order, error)
	RecordWeight(ctx context.Context, itemID string, weight Weight) error
	UpdateStatus(ctx context.Context, orderID string, status OrderStatus) error
}

// Book is the admin's working copy of orders. Local edits are applied
// optimistically under a new generation and sent to the API at once; the
// following authoritative load replaces them wholesale. A load that
// started before a newer local edit is discarded so it cannot roll the
// edit back.
type Book struct {
	api API
	log *logrus.Entry

	mu     sync.Mutex
	orders []Order
	gen    uint64
}

// NewBook creates an empty order book
func NewBook(api API, log *logrus.Entry) *Book {
	return &Book{api: api, log: log}
}

// Load fetches orders from the API and, unless a local edit overtook the
// request, replaces the working copy. It always returns the current view.
func (b *Book) Load(ctx context.Context) ([]Order, error) {
	b.mu.Lock()
	start := b.gen
	b.mu.Unlock()

	orders, err := b.api.ListOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load orders: %w", err)
	}
	ReconcileAll(orders)

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.gen != start {
		b.log.WithFields(logrus.Fields{
			"started_at": start,
			"current":    b.gen,
		}).Debug("discarding order load overtaken by local edit")
		return b.snapshotLocked(), nil
	}
	b.orders = orders
	return b.snapshotLocked(), nil
}

// Orders returns a copy of the working copy
func (b *Book) Orders() []Order {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.snapshotLocked()
}

// Find returns a copy of one order
func (b *Book) Find(orderID string) (*Order, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.orders {
		if b.orders[i].ID == orderID {
			o := cloneOrder(b.orders[i])
			return &o, nil
		}
	}
	return nil, ErrOrderNotFound
}

// RecordWeight patches the item's weight locally, recomputes its order's
// totals, sends the weight to the API and then reloads. The returned
// order reflects the newest known state; an API error is returned for
// the caller to surface.
func (b *Book) RecordWeight(ctx context.Context, itemID string, weight Weight) (*Order, error) {
	if weight.Valid && !weight.Value.IsPositive() {
		return nil, ErrInvalidWeight
	}

	b.mu.Lock()
	b.gen++
	orderID := ""
	for oi := range b.orders {
		for ii := range b.orders[oi].Items {
			if b.orders[oi].Items[ii].ID == itemID {
				b.orders[oi].Items[ii].Weight = weight
				Reconcile(&b.orders[oi])
				orderID = b.orders[oi].ID
			}
		}
	}
	b.mu.Unlock()

	if err := b.api.RecordWeight(ctx, itemID, weight); err != nil {
		return nil, fmt.Errorf("failed to record weight: %w", err)
	}

	b.refresh(ctx)
	if orderID == "" {
		orderID = b.orderIDForItem(itemID)
	}
	if orderID == "" {
		return nil, ErrOrderNotFound
	}
	return b.Find(orderID)
}

// UpdateStatus moves an order to status, optimistically, then reloads
func (b *Book) UpdateStatus(ctx context.Context, orderID string, status OrderStatus) (*Order, error) {
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid order status %q", status)
	}

	b.mu.Lock()
	b.gen++
	for i := range b.orders {
		if b.orders[i].ID == orderID {
			b.orders[i].Status = status
		}
	}
	b.mu.Unlock()

	if err := b.api.UpdateStatus(ctx, orderID, status); err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	b.refresh(ctx)
	return b.Find(orderID)
}

func (b *Book) refresh(ctx context.Context) {
	if _, err := b.Load(ctx); err != nil {
		b.log.WithError(err).Warn("order reload after edit failed, keeping local state")
	}
}

func (b *Book) orderIDForItem(itemID string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, o := range b.orders {
		for _, it := range o.Items {
			if it.ID == itemID {
				return o.ID
			}
		}
	}
	return ""
}

func (b *Book) snapshotLocked() []Order {
	out := make([]Order, len(b.orders))
	for i := range b.orders {
		out[i] = cloneOrder(b.orders[i])
	}
	return out
}

func cloneOrder(o Order) Order {
	o.Items = append([]Item(nil), o.Items...)
	return o
}
