// internal/domain/catalog/service.go
package catalog

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Source fetches the published product list from the storefront API
type Source interface {
	ListProducts(ctx context.Context, wholesalePin string) ([]Product, error)
}

type cacheEntry struct {
	products  []Product
	fetchedAt time.Time
}

// Service caches the product list the shopper sees at page load. The cached
// stock figures are a hint for clamping; the API stays authoritative.
type Service struct {
	source Source
	ttl    time.Duration
	log    *logrus.Logger
	now    func() time.Time

	mu      sync.Mutex
	entries map[string]cacheEntry
}

// NewService creates a new catalog service
func NewService(source Source, ttl time.Duration, log *logrus.Logger) *Service {
	return &Service{
		source:  source,
		ttl:     ttl,
		log:     log,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
}

// Products returns active products, from cache when fresh
func (s *Service) Products(ctx context.Context, wholesalePin string) ([]Product, error) {
	s.mu.Lock()
	entry, ok := s.entries[wholesalePin]
	s.mu.Unlock()

	if ok && s.now().Sub(entry.fetchedAt) < s.ttl {
		return entry.products, nil
	}

	products, err := s.source.ListProducts(ctx, wholesalePin)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}

	active := make([]Product, 0, len(products))
	for _, p := range products {
		if p.Active {
			active = append(active, p)
		}
	}
	sort.SliceStable(active, func(i, j int) bool {
		return active[i].Name < active[j].Name
	})

	s.mu.Lock()
	s.entries[wholesalePin] = cacheEntry{products: active, fetchedAt: s.now()}
	s.mu.Unlock()

	s.log.WithFields(logrus.Fields{
		"count":     len(active),
		"wholesale": wholesalePin != "",
	}).Debug("catalog refreshed")

	return active, nil
}

// Find looks up one product by id in the current product list
func (s *Service) Find(ctx context.Context, wholesalePin, id string) (*Product, error) {
	products, err := s.Products(ctx, wholesalePin)
	if err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].ID == id {
			p := products[i]
			return &p, nil
		}
	}
	return nil, ErrProductNotFound
}

// Invalidate drops every cached product list, e.g. after an admin edit
func (s *Service) Invalidate() {
	s.mu.Lock()
	s.entries = make(map[string]cacheEntry)
	s.mu.Unlock()
}

// Index maps product id to product
func Index(products []Product) map[string]Product {
	idx := make(map[string]Product, len(products))
	for _, p := range products {
		idx[p.ID] = p
	}
	return idx
}
