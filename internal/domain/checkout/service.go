// internal/domain/checkout/service.go
package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"github.com/your-org/butcher-storefront/internal/domain/cart"
	"github.com/your-org/butcher-storefront/internal/domain/delivery"
	"github.com/your-org/butcher-storefront/internal/domain/order"
	"github.com/your-org/butcher-storefront/internal/domain/stock"
	"github.com/your-org/butcher-storefront/internal/infrastructure/events"
	"github.com/your-org/butcher-storefront/internal/infrastructure/remote"
)

var (
	ErrEmptyCart         = errors.New("cart is empty")
	ErrOrderWindowClosed = errors.New("ordering is currently closed")
	ErrTrackingRequired  = errors.New("order number and contact are required")
)

// API is the public order surface of the storefront API
type API interface {
	OrderWindow(ctx context.Context) (*delivery.OrderWindow, error)
	DropoffLocations(ctx context.Context) ([]delivery.DropoffLocation, error)
	PlaceOrder(ctx context.Context, req remote.PlaceOrderRequest) (*order.Order, error)
	TrackOrder(ctx context.Context, req remote.TrackOrderRequest) (*order.Order, error)
}

// Cart is the part of the cart store checkout needs
type Cart interface {
	Lines() []cart.Line
	Clear(ctx context.Context) error
}

// StockChecker is the part of the stock checker checkout needs
type StockChecker interface {
	Issues() *stock.Issues
	CheckNow(ctx context.Context, lines []stock.Line) error
	Apply(issues []stock.Issue)
	Reset()
}

// Form is the checkout form
type Form struct {
	CustomerName      string `json:"customer_name" validate:"required,max=120"`
	Email             string `json:"email" validate:"omitempty,email,max=254"`
	Phone             string `json:"phone" validate:"required,max=40"`
	DropoffLocationID string `json:"dropoff_location_id" validate:"required"`
	Notes             string `json:"notes" validate:"max=1000"`
}

func (f *Form) normalize() {
	f.CustomerName = strings.TrimSpace(f.CustomerName)
	f.Email = strings.TrimSpace(f.Email)
	f.Phone = strings.TrimSpace(f.Phone)
	f.DropoffLocationID = strings.TrimSpace(f.DropoffLocationID)
	f.Notes = strings.TrimSpace(f.Notes)
}

// Tracked is an order as shown on the tracking page
type Tracked struct {
	Order    *order.Order   `json:"order"`
	Progress order.Progress `json:"progress"`
}

// Service places and tracks orders
type Service struct {
	api      API
	validate *validator.Validate
	events   events.Publisher
	log      *logrus.Logger
	now      func() time.Time
}

// NewService creates a new checkout service
func NewService(api API, log *logrus.Logger) *Service {
	return &Service{
		api:      api,
		validate: validator.New(),
		events:   events.Noop{},
		log:      log,
		now:      time.Now,
	}
}

// WithEvents publishes an order.placed event for every accepted order
func (s *Service) WithEvents(p events.Publisher) *Service {
	s.events = p
	return s
}

// Validate applies the form rules without touching the network
func (s *Service) Validate(form *Form) error {
	form.normalize()
	if err := s.validate.Struct(form); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			return newValidationError(fieldErrs)
		}
		return err
	}
	return nil
}

// Submit validates the form, re-checks stock and places the order. On
// success the cart and the issue set are cleared.
func (s *Service) Submit(ctx context.Context, c Cart, checker StockChecker, form Form) (*order.Order, error) {
	if err := s.Validate(&form); err != nil {
		return nil, err
	}

	lines := cart.StockLines(c.Lines())
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	window, err := s.api.OrderWindow(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load order window: %w", err)
	}
	if !window.Open(s.now()) {
		return nil, ErrOrderWindowClosed
	}

	if err := s.checkLocation(ctx, form.DropoffLocationID); err != nil {
		return nil, err
	}

	if unresolved := checker.Issues().Unresolved(lines); len(unresolved) > 0 {
		return nil, &stock.ConflictError{Issues: unresolved}
	}
	if err := checker.CheckNow(ctx, lines); err != nil {
		return nil, err
	}

	placed, err := s.api.PlaceOrder(ctx, remote.PlaceOrderRequest{
		CustomerName:      form.CustomerName,
		Email:             form.Email,
		Phone:             form.Phone,
		DropoffLocationID: form.DropoffLocationID,
		Notes:             form.Notes,
		Items:             lines,
	})
	if err != nil {
		var conflict *stock.ConflictError
		if errors.As(err, &conflict) {
			checker.Apply(conflict.Issues)
			return nil, conflict
		}
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	if err := c.Clear(ctx); err != nil {
		s.log.WithError(err).Warn("order placed but cart could not be cleared")
	}
	checker.Reset()
	order.Reconcile(placed)

	s.log.WithFields(logrus.Fields{
		"order_number": placed.OrderNumber,
		"lines":        len(lines),
	}).Info("order placed")

	s.publishPlaced(ctx, placed, form.DropoffLocationID, lines)
	return placed, nil
}

// publishPlaced is best effort; the order already exists upstream
func (s *Service) publishPlaced(ctx context.Context, placed *order.Order, locationID string, lines []stock.Line) {
	units := 0
	for _, l := range lines {
		units += l.Qty
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	err := s.events.Publish(ctx, placed.OrderNumber, events.Envelope{
		Type:       events.TypeOrderPlaced,
		OccurredAt: s.now().UTC(),
		Payload: events.OrderPlaced{
			OrderID:           placed.ID,
			OrderNumber:       placed.OrderNumber,
			DropoffLocationID: locationID,
			Lines:             len(lines),
			Units:             units,
		},
	})
	if err != nil {
		s.log.WithError(err).WithField("order_number", placed.OrderNumber).Warn("failed to publish order event")
	}
}

func (s *Service) checkLocation(ctx context.Context, id string) error {
	locations, err := s.api.DropoffLocations(ctx)
	if err != nil {
		return fmt.Errorf("failed to load drop-off locations: %w", err)
	}
	location, ok := delivery.FindLocation(locations, id)
	if !ok || !location.AcceptsOrders(s.now()) {
		return &ValidationError{Fields: map[string]string{
			"dropoff_location_id": "drop-off location is not accepting orders",
		}}
	}
	return nil
}

// Track looks up an order by number and the email or phone used on it
func (s *Service) Track(ctx context.Context, orderNumber, contact string) (*Tracked, error) {
	orderNumber = strings.TrimSpace(orderNumber)
	contact = strings.TrimSpace(contact)
	if orderNumber == "" || contact == "" {
		return nil, ErrTrackingRequired
	}

	found, err := s.api.TrackOrder(ctx, remote.TrackOrderRequest{OrderNumber: orderNumber, Contact: contact})
	if err != nil {
		return nil, err
	}
	order.Reconcile(found)
	return &Tracked{Order: found, Progress: found.GetProgress()}, nil
}
