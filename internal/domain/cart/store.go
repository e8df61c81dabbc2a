// internal/domain/cart/store.go
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/your-org/butcher-storefront/internal/domain/catalog"
	"github.com/your-org/butcher-storefront/internal/infrastructure/storage"
)

// Store holds one shopper's cart lines and persists them on every mutation.
// It performs no stock validation; callers clamp against the stock engine
// before calling Add or SetQuantity.
type Store struct {
	kv  storage.KV
	log *logrus.Entry

	mu       sync.Mutex
	lines    []Line
	revision uint64

	subtotalRev uint64
	subtotal    decimal.Decimal
}

// NewStore creates a cart store and loads any persisted lines. Absent or
// corrupt storage yields an empty cart.
func NewStore(ctx context.Context, kv storage.KV, log *logrus.Entry) *Store {
	s := &Store{
		kv:          kv,
		log:         log,
		subtotalRev: ^uint64(0),
	}
	s.lines = s.load(ctx)
	return s
}

func (s *Store) load(ctx context.Context) []Line {
	raw, err := s.kv.Get(ctx, StorageKey)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		s.log.WithError(err).Warn("cart storage unavailable, starting empty")
		return nil
	}

	var lines []Line
	if err := json.Unmarshal([]byte(raw), &lines); err != nil {
		s.log.WithError(err).Warn("persisted cart is corrupt, starting empty")
		return nil
	}

	kept := lines[:0]
	for _, l := range lines {
		if l.Product.ID == "" || l.Quantity <= 0 {
			continue
		}
		kept = append(kept, l)
	}
	return kept
}

// Add increments the line for product by qty, inserting it when absent.
// A non-positive qty is ignored.
func (s *Store) Add(ctx context.Context, product catalog.Product, qty int) error {
	if qty <= 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(product.ID); i >= 0 {
		s.lines[i].Quantity += qty
	} else {
		s.lines = append(s.lines, Line{Product: product, Quantity: qty})
	}
	return s.commit(ctx)
}

// Remove deletes the line for productID; no-op when absent
func (s *Store) Remove(ctx context.Context, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(productID)
	if i < 0 {
		return nil
	}
	s.lines = append(s.lines[:i], s.lines[i+1:]...)
	return s.commit(ctx)
}

// SetQuantity replaces the line's quantity; qty <= 0 removes the line
func (s *Store) SetQuantity(ctx context.Context, productID string, qty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(productID)
	if i < 0 {
		return nil
	}
	if qty <= 0 {
		s.lines = append(s.lines[:i], s.lines[i+1:]...)
	} else {
		s.lines[i].Quantity = qty
	}
	return s.commit(ctx)
}

// Clear empties the cart, e.g. after a successful checkout
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lines = nil
	return s.commit(ctx)
}

// Lines returns a copy of the current lines
func (s *Store) Lines() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Line, len(s.lines))
	copy(out, s.lines)
	return out
}

// Quantity returns the quantity held for productID, zero when absent
func (s *Store) Quantity(productID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(productID); i >= 0 {
		return s.lines[i].Quantity
	}
	return 0
}

// Quantities maps product id to cart quantity
func (s *Store) Quantities() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]int, len(s.lines))
	for _, l := range s.lines {
		out[l.Product.ID] = l.Quantity
	}
	return out
}

// Subtotal is the sum of price times quantity over the current lines,
// memoised until the next mutation
func (s *Store) Subtotal() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.subtotalLocked()
}

func (s *Store) subtotalLocked() decimal.Decimal {
	if s.subtotalRev == s.revision {
		return s.subtotal
	}
	sum := decimal.Zero
	for _, l := range s.lines {
		sum = sum.Add(l.Total())
	}
	s.subtotal = sum
	s.subtotalRev = s.revision
	return sum
}

// Totals summarises the cart
func (s *Store) Totals() Totals {
	s.mu.Lock()
	defer s.mu.Unlock()

	totals := Totals{ItemCount: len(s.lines), SubTotal: s.subtotalLocked()}
	for _, l := range s.lines {
		totals.TotalQuantity += l.Quantity
		if l.Product.Unit.IsWeight() {
			totals.HasWeightItems = true
		}
	}
	return totals
}

func (s *Store) indexOf(productID string) int {
	for i := range s.lines {
		if s.lines[i].Product.ID == productID {
			return i
		}
	}
	return -1
}

// commit bumps the revision and writes the full line list. The in-memory
// cart keeps the mutation even if the write fails.
func (s *Store) commit(ctx context.Context) error {
	s.revision++

	lines := s.lines
	if lines == nil {
		lines = []Line{}
	}
	data, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}
	if err := s.kv.Set(ctx, StorageKey, string(data)); err != nil {
		s.log.WithError(err).Error("failed to persist cart")
		return fmt.Errorf("failed to persist cart: %w", err)
	}
	return nil
}
