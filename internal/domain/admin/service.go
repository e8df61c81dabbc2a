// internal/domain/admin/service.go
package admin

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/your-org/butcher-storefront/internal/domain/catalog"
	"github.com/your-org/butcher-storefront/internal/domain/delivery"
	"github.com/your-org/butcher-storefront/internal/domain/order"
	"golang.org/x/sync/errgroup"
)

// Backend is the admin surface of the storefront API
type Backend interface {
	order.API

	ListProducts(ctx context.Context) ([]catalog.Product, error)
	CreateProduct(ctx context.Context, in catalog.ProductInput) (*catalog.Product, error)
	UpdateProduct(ctx context.Context, id string, in catalog.ProductInput) (*catalog.Product, error)
	DeleteProduct(ctx context.Context, id string) error

	ListCategories(ctx context.Context) ([]catalog.Category, error)
	CreateCategory(ctx context.Context, in catalog.CategoryInput) (*catalog.Category, error)
	UpdateCategory(ctx context.Context, id string, in catalog.CategoryInput) (*catalog.Category, error)
	DeleteCategory(ctx context.Context, id string) error

	ListWindows(ctx context.Context) ([]delivery.Window, error)
	CreateWindow(ctx context.Context, in delivery.WindowInput) (*delivery.Window, error)
	UpdateWindow(ctx context.Context, id string, in delivery.WindowInput) (*delivery.Window, error)
	DeleteWindow(ctx context.Context, id string) error

	ListDropoffLocations(ctx context.Context) ([]delivery.DropoffLocation, error)
	CreateDropoffLocation(ctx context.Context, in delivery.DropoffLocationInput) (*delivery.DropoffLocation, error)
	UpdateDropoffLocation(ctx context.Context, id string, in delivery.DropoffLocationInput) (*delivery.DropoffLocation, error)
	DeleteDropoffLocation(ctx context.Context, id string) error

	ReportsSummary(ctx context.Context) (json.RawMessage, error)
}

// Dashboard is everything the back office shows on first load
type Dashboard struct {
	Products         []catalog.Product          `json:"products"`
	Categories       []catalog.Category         `json:"categories"`
	Windows          []delivery.Window          `json:"windows"`
	Orders           []order.Order              `json:"orders"`
	DropoffLocations []delivery.DropoffLocation `json:"dropoff_locations"`
}

// Service runs admin operations for one browser session. Every upstream
// error passes through the session so a 401 signs the browser out.
type Service struct {
	api     Backend
	book    *order.Book
	catalog *catalog.Service
	session *Session
	log     *logrus.Entry
}

// NewService creates a new admin service
func NewService(api Backend, book *order.Book, catalogService *catalog.Service, session *Session, log *logrus.Entry) *Service {
	return &Service{
		api:     api,
		book:    book,
		catalog: catalogService,
		session: session,
		log:     log,
	}
}

func (s *Service) guard() error {
	if !s.session.Authenticated() {
		return ErrNotAuthenticated
	}
	return nil
}

// Dashboard loads every admin collection concurrently. One failure fails
// the whole batch and is reported once.
func (s *Service) Dashboard(ctx context.Context) (*Dashboard, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}

	var d Dashboard
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		d.Products, err = s.api.ListProducts(gctx)
		return err
	})
	g.Go(func() (err error) {
		d.Categories, err = s.api.ListCategories(gctx)
		return err
	})
	g.Go(func() (err error) {
		d.Windows, err = s.api.ListWindows(gctx)
		return err
	})
	g.Go(func() (err error) {
		d.Orders, err = s.book.Load(gctx)
		return err
	})
	g.Go(func() (err error) {
		d.DropoffLocations, err = s.api.ListDropoffLocations(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		s.log.WithError(err).Warn("admin dashboard load failed")
		return nil, s.session.Observe(ctx, fmt.Errorf("failed to load dashboard: %w", err))
	}
	return &d, nil
}

// Orders reloads the order book
func (s *Service) Orders(ctx context.Context) ([]order.Order, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	orders, err := s.book.Load(ctx)
	return orders, s.session.Observe(ctx, err)
}

// Load satisfies analytics.OrderSource
func (s *Service) Load(ctx context.Context) ([]order.Order, error) {
	return s.Orders(ctx)
}

// RecordWeight stores a measured weight through the order book
func (s *Service) RecordWeight(ctx context.Context, itemID string, weight order.Weight) (*order.Order, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	o, err := s.book.RecordWeight(ctx, itemID, weight)
	return o, s.session.Observe(ctx, err)
}

// UpdateStatus moves an order through fulfilment
func (s *Service) UpdateStatus(ctx context.Context, orderID string, status order.OrderStatus) (*order.Order, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	o, err := s.book.UpdateStatus(ctx, orderID, status)
	return o, s.session.Observe(ctx, err)
}

// catalogChanged drops the shopper-facing product cache after an edit
func (s *Service) catalogChanged(ctx context.Context, err error) error {
	if err != nil {
		return s.session.Observe(ctx, err)
	}
	s.catalog.Invalidate()
	return nil
}

func (s *Service) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	products, err := s.api.ListProducts(ctx)
	return products, s.session.Observe(ctx, err)
}

func (s *Service) CreateProduct(ctx context.Context, in catalog.ProductInput) (*catalog.Product, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	p, err := s.api.CreateProduct(ctx, in)
	return p, s.catalogChanged(ctx, err)
}

func (s *Service) UpdateProduct(ctx context.Context, id string, in catalog.ProductInput) (*catalog.Product, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	p, err := s.api.UpdateProduct(ctx, id, in)
	return p, s.catalogChanged(ctx, err)
}

func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	if err := s.guard(); err != nil {
		return err
	}
	return s.catalogChanged(ctx, s.api.DeleteProduct(ctx, id))
}

func (s *Service) ListCategories(ctx context.Context) ([]catalog.Category, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	categories, err := s.api.ListCategories(ctx)
	return categories, s.session.Observe(ctx, err)
}

func (s *Service) CreateCategory(ctx context.Context, in catalog.CategoryInput) (*catalog.Category, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	c, err := s.api.CreateCategory(ctx, in)
	return c, s.catalogChanged(ctx, err)
}

func (s *Service) UpdateCategory(ctx context.Context, id string, in catalog.CategoryInput) (*catalog.Category, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	c, err := s.api.UpdateCategory(ctx, id, in)
	return c, s.catalogChanged(ctx, err)
}

func (s *Service) DeleteCategory(ctx context.Context, id string) error {
	if err := s.guard(); err != nil {
		return err
	}
	return s.catalogChanged(ctx, s.api.DeleteCategory(ctx, id))
}

func (s *Service) ListWindows(ctx context.Context) ([]delivery.Window, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	windows, err := s.api.ListWindows(ctx)
	return windows, s.session.Observe(ctx, err)
}

func (s *Service) CreateWindow(ctx context.Context, in delivery.WindowInput) (*delivery.Window, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	w, err := s.api.CreateWindow(ctx, in)
	return w, s.session.Observe(ctx, err)
}

func (s *Service) UpdateWindow(ctx context.Context, id string, in delivery.WindowInput) (*delivery.Window, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	w, err := s.api.UpdateWindow(ctx, id, in)
	return w, s.session.Observe(ctx, err)
}

func (s *Service) DeleteWindow(ctx context.Context, id string) error {
	if err := s.guard(); err != nil {
		return err
	}
	return s.session.Observe(ctx, s.api.DeleteWindow(ctx, id))
}

func (s *Service) ListDropoffLocations(ctx context.Context) ([]delivery.DropoffLocation, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	locations, err := s.api.ListDropoffLocations(ctx)
	return locations, s.session.Observe(ctx, err)
}

func (s *Service) CreateDropoffLocation(ctx context.Context, in delivery.DropoffLocationInput) (*delivery.DropoffLocation, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	l, err := s.api.CreateDropoffLocation(ctx, in)
	return l, s.session.Observe(ctx, err)
}

func (s *Service) UpdateDropoffLocation(ctx context.Context, id string, in delivery.DropoffLocationInput) (*delivery.DropoffLocation, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	l, err := s.api.UpdateDropoffLocation(ctx, id, in)
	return l, s.session.Observe(ctx, err)
}

func (s *Service) DeleteDropoffLocation(ctx context.Context, id string) error {
	if err := s.guard(); err != nil {
		return err
	}
	return s.session.Observe(ctx, s.api.DeleteDropoffLocation(ctx, id))
}

// ReportsSummary returns the API's own report summary
func (s *Service) ReportsSummary(ctx context.Context) (json.RawMessage, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	raw, err := s.api.ReportsSummary(ctx)
	return raw, s.session.Observe(ctx, err)
}
