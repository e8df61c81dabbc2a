package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/butcher-storefront/internal/pkg/logger"
)

type stubSource struct {
	products []Product
	err      error
	calls    int
	lastPin  string
}

func (s *stubSource) ListProducts(_ context.Context, pin string) ([]Product, error) {
	s.calls++
	s.lastPin = pin
	return s.products, s.err
}

func TestService_ProductsCachesAndFiltersInactive(t *testing.T) {
	src := &stubSource{products: []Product{
		{ID: "2", Name: "Ribeye", Active: true},
		{ID: "1", Name: "Brisket", Active: true},
		{ID: "3", Name: "Retired", Active: false},
	}}
	svc := NewService(src, time.Minute, logger.Discard())

	got, err := svc.Products(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Brisket", got[0].Name)

	_, err = svc.Products(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 1, src.calls)

	_, err = svc.Products(context.Background(), "1234")
	require.NoError(t, err)
	assert.Equal(t, 2, src.calls)
	assert.Equal(t, "1234", src.lastPin)
}

func TestService_ProductsRefetchesAfterTTL(t *testing.T) {
	src := &stubSource{products: []Product{{ID: "1", Name: "Brisket", Active: true}}}
	svc := NewService(src, time.Minute, logger.Discard())
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	_, err := svc.Products(context.Background(), "")
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	_, err = svc.Products(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 2, src.calls)

	svc.Invalidate()
	_, err = svc.Products(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 3, src.calls)
}

func TestService_FindAndErrors(t *testing.T) {
	src := &stubSource{products: []Product{{ID: "1", Name: "Brisket", Active: true}}}
	svc := NewService(src, time.Minute, logger.Discard())

	p, err := svc.Find(context.Background(), "", "1")
	require.NoError(t, err)
	assert.Equal(t, "Brisket", p.Name)

	_, err = svc.Find(context.Background(), "", "missing")
	assert.ErrorIs(t, err, ErrProductNotFound)

	failing := NewService(&stubSource{err: errors.New("boom")}, time.Minute, logger.Discard())
	_, err = failing.Products(context.Background(), "")
	assert.Error(t, err)
}

func TestProduct_EffectivePriceAndUnit(t *testing.T) {
	p := Product{
		Price:          decimal.RequireFromString("12.50"),
		WholesalePrice: decimal.NewNullDecimal(decimal.RequireFromString("9.00")),
		Unit:           UnitPound,
	}
	assert.True(t, p.EffectivePrice(false).Equal(decimal.RequireFromString("12.50")))
	assert.True(t, p.EffectivePrice(true).Equal(decimal.RequireFromString("9")))
	assert.True(t, p.Unit.IsWeight())
	assert.False(t, UnitPack.IsWeight())

	retailOnly := Product{Price: decimal.NewFromInt(5)}
	assert.True(t, retailOnly.EffectivePrice(true).Equal(decimal.NewFromInt(5)))
}
