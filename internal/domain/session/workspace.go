// internal/domain/session/workspace.go
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/butcher-storefront/internal/domain/admin"
	"github.com/your-org/butcher-storefront/internal/domain/cart"
	"github.com/your-org/butcher-storefront/internal/domain/catalog"
	"github.com/your-org/butcher-storefront/internal/domain/order"
	"github.com/your-org/butcher-storefront/internal/domain/preferences"
	"github.com/your-org/butcher-storefront/internal/domain/stock"
	"github.com/your-org/butcher-storefront/internal/infrastructure/remote"
)

var (
	// ErrSoldOut is returned when nothing more of a product can be added
	ErrSoldOut = errors.New("product is sold out")
	// ErrNotInCart is returned when editing a line that does not exist
	ErrNotInCart = errors.New("product is not in the cart")
)

// Workspace is everything one browser session owns
type Workspace struct {
	ID          string
	Cart        *cart.Store
	Checker     *stock.Checker
	Preferences *preferences.Store
	Admin       *admin.Session
	Orders      *order.Book
	AdminAPI    *remote.AdminAPI

	catalog      *catalog.Service
	adminService *admin.Service
	log          *logrus.Entry

	mu       sync.Mutex
	lastSeen time.Time
}

// Credentials returns what admin and catalog calls attach upstream
func (w *Workspace) Credentials(context.Context) remote.Credentials {
	return remote.Credentials{
		Cookie:       w.Admin.Cookie(),
		WholesalePin: w.Preferences.WholesalePin(),
	}
}

// AdminService returns the admin operations bound to this session
func (w *Workspace) AdminService() *admin.Service {
	return w.adminService
}

// Products returns the catalog priced for this session
func (w *Workspace) Products(ctx context.Context) ([]catalog.Product, error) {
	return w.catalog.Products(ctx, w.Preferences.WholesalePin())
}

// Availability returns control state for every product against the cart
func (w *Workspace) Availability(products []catalog.Product) []stock.Availability {
	quantities := w.Cart.Quantities()
	out := make([]stock.Availability, 0, len(products))
	for _, p := range products {
		out = append(out, stock.AvailabilityFor(p, quantities[p.ID]))
	}
	return out
}

// ReclampStaged re-bounds the view layer's staged quantity inputs after
// the catalog or the cart moved. Entries for unknown or exhausted
// products are dropped.
func (w *Workspace) ReclampStaged(ctx context.Context, staged map[string]int) (map[string]int, error) {
	products, err := w.Products(ctx)
	if err != nil {
		return nil, err
	}
	return stock.Reclamp(staged, catalog.Index(products), w.Cart.Quantities()), nil
}

// AddProduct adds qty of a product, clamped to what remains. Sold-out
// products and products with nothing left to add are rejected.
func (w *Workspace) AddProduct(ctx context.Context, productID string, qty int) (int, error) {
	pin := w.Preferences.WholesalePin()
	p, err := w.catalog.Find(ctx, pin, productID)
	if err != nil {
		return 0, err
	}

	remaining := stock.RemainingStock(*p, w.Cart.Quantity(productID))
	if stock.IsSoldOut(*p) || (remaining != nil && *remaining == 0) {
		return 0, ErrSoldOut
	}

	added := stock.ClampQuantity(qty, remaining)
	snapshot := *p
	snapshot.Price = p.EffectivePrice(pin != "")
	if err := w.Cart.Add(ctx, snapshot, added); err != nil {
		w.scheduleCheck()
		return added, fmt.Errorf("failed to save cart: %w", err)
	}

	w.scheduleCheck()
	return added, nil
}

// SetQuantity replaces a line's quantity, clamped to the product's stock;
// qty <= 0 removes the line. Products that left the catalog keep the
// requested quantity so the stock check can report them.
func (w *Workspace) SetQuantity(ctx context.Context, productID string, qty int) (int, error) {
	if w.Cart.Quantity(productID) == 0 {
		return 0, ErrNotInCart
	}
	if qty <= 0 {
		return 0, w.Remove(ctx, productID)
	}

	p, err := w.catalog.Find(ctx, w.Preferences.WholesalePin(), productID)
	switch {
	case err == nil:
		qty = stock.ClampQuantity(qty, stock.RemainingStock(*p, 0))
	case errors.Is(err, catalog.ErrProductNotFound):
	default:
		return 0, err
	}

	err = w.Cart.SetQuantity(ctx, productID, qty)
	w.scheduleCheck()
	if err != nil {
		return qty, fmt.Errorf("failed to save cart: %w", err)
	}
	return qty, nil
}

// Remove drops a line from the cart
func (w *Workspace) Remove(ctx context.Context, productID string) error {
	err := w.Cart.Remove(ctx, productID)
	w.scheduleCheck()
	if err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

// ClearCart empties the cart and its issues
func (w *Workspace) ClearCart(ctx context.Context) error {
	err := w.Cart.Clear(ctx)
	w.Checker.Reset()
	if err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

func (w *Workspace) scheduleCheck() {
	w.Checker.Schedule(cart.StockLines(w.Cart.Lines()))
}

// Unresolved returns the stock issues still blocking checkout
func (w *Workspace) Unresolved() []stock.Issue {
	return w.Checker.Issues().Unresolved(cart.StockLines(w.Cart.Lines()))
}

func (w *Workspace) touch(now time.Time) {
	w.mu.Lock()
	w.lastSeen = now
	w.mu.Unlock()
}

func (w *Workspace) idleSince(now time.Time) time.Duration {
	w.mu.Lock()
	defer w.mu.Unlock()
	return now.Sub(w.lastSeen)
}

// Close stops background stock checks
func (w *Workspace) Close() {
	w.Checker.Close()
}
