package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/butcher-storefront/internal/domain/catalog"
	"github.com/your-org/butcher-storefront/internal/domain/order"
)

var now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func weighed(v string) order.Weight { return order.NewWeight(dec(v)) }

func sampleOrders() []order.Order {
	return []order.Order{
		{
			ID: "o1", CustomerName: "Ada", Email: "ada@example.com", Status: order.OrderStatusDelivered,
			CreatedAt: now.Add(-48 * time.Hour),
			Items: []order.Item{
				{ID: "i1", ProductID: "steak", Name: "Steak", Unit: catalog.UnitPound, Quantity: 2, UnitPrice: dec("20"), Weight: weighed("1.5")},
				{ID: "i2", ProductID: "sausage", Name: "Sausage", Unit: catalog.UnitPack, Quantity: 3, UnitPrice: dec("10")},
			},
		},
		{
			ID: "o2", CustomerName: "Bo", Phone: "555", Status: order.OrderStatusProcessing,
			CreatedAt: now.Add(-24 * time.Hour),
			Items: []order.Item{
				{ID: "i3", ProductID: "steak", Name: "Steak", Unit: catalog.UnitPound, Quantity: 1, UnitPrice: dec("20")},
			},
		},
		{
			ID: "old", CustomerName: "Cy", Status: order.OrderStatusDelivered,
			CreatedAt: now.AddDate(0, 0, -90),
			Items: []order.Item{
				{ID: "i4", ProductID: "sausage", Name: "Sausage", Unit: catalog.UnitPack, Quantity: 1, UnitPrice: dec("10")},
			},
		},
	}
}

func TestSummarize_WithholdsIncompleteWeights(t *testing.T) {
	s := Summarize(sampleOrders(), now, 30)

	assert.Equal(t, int64(2), s.OrderCount)
	assert.Equal(t, int64(1), s.PendingCount)
	// 20*1.5 + 10*3
	assert.True(t, s.Revenue.Equal(dec("60")), s.Revenue.String())
	assert.True(t, s.AvgOrderValue.Equal(dec("60")))
	assert.Equal(t, int64(6), s.ItemsSold)
}

func TestSummarize_BestSellersCountEveryOrder(t *testing.T) {
	s := Summarize(sampleOrders(), now, 30)

	require.Len(t, s.BestSellers, 2)
	assert.Equal(t, "steak", s.BestSellers[0].ProductID)
	assert.Equal(t, int64(3), s.BestSellers[0].TotalSold)
	assert.Equal(t, int64(2), s.BestSellers[0].OrderCount)
	assert.True(t, s.BestSellers[0].Revenue.Equal(dec("30")))
}

func TestSummarize_GroupsByDayAndCustomer(t *testing.T) {
	s := Summarize(sampleOrders(), now, 30)

	require.Len(t, s.RevenueByDay, 2)
	assert.Equal(t, "2026-03-08", s.RevenueByDay[0].Date)
	assert.True(t, s.RevenueByDay[0].Value.Equal(dec("60")))
	assert.True(t, s.RevenueByDay[1].Value.IsZero())

	require.Len(t, s.TopCustomers, 2)
	assert.Equal(t, "Ada", s.TopCustomers[0].CustomerName)

	require.Len(t, s.SalesByStatus, 2)
	assert.Equal(t, "processing", s.SalesByStatus[0].Status)
	assert.Equal(t, "delivered", s.SalesByStatus[1].Status)
}

func TestSummarize_UndatedPendingOrderStillCounted(t *testing.T) {
	orders := []order.Order{{
		ID: "u1", CustomerName: "Di", Status: order.OrderStatusProcessing,
		Items: []order.Item{
			{ID: "p", ProductID: "sausage", Name: "Sausage", Unit: catalog.UnitPack, Quantity: 3, UnitPrice: dec("10")},
			{ID: "w", ProductID: "steak", Name: "Steak", Unit: catalog.UnitPound, Quantity: 1, UnitPrice: dec("20")},
		},
	}}

	s := Summarize(orders, now, 30)

	assert.Equal(t, int64(1), s.OrderCount)
	assert.Equal(t, int64(1), s.PendingCount)
	assert.Equal(t, int64(4), s.ItemsSold)
	assert.True(t, s.Revenue.IsZero())
	assert.Empty(t, s.RevenueByDay)
	require.Len(t, s.TopCustomers, 1)
	assert.Nil(t, s.TopCustomers[0].LastOrder)
}

func TestSummarize_DefaultWindowAndInputUntouched(t *testing.T) {
	orders := sampleOrders()
	s := Summarize(orders, now, 0)

	assert.Equal(t, defaultDays, s.Days)
	assert.True(t, orders[0].Items[0].LineTotal.IsZero())
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil, now, 7)
	assert.Zero(t, s.OrderCount)
	assert.True(t, s.Revenue.IsZero())
	assert.Empty(t, s.BestSellers)
}

type stubOrders struct {
	orders []order.Order
	err    error
}

func (s stubOrders) Load(context.Context) ([]order.Order, error) { return s.orders, s.err }

type stubReports struct{ raw json.RawMessage }

func (s stubReports) ReportsSummary(context.Context) (json.RawMessage, error) { return s.raw, nil }

func TestService_Rollup(t *testing.T) {
	svc := NewService(stubOrders{orders: sampleOrders()}, stubReports{})
	svc.now = func() time.Time { return now }

	s, err := svc.Rollup(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(2), s.OrderCount)

	svc = NewService(stubOrders{err: errors.New("boom")}, stubReports{})
	_, err = svc.Rollup(context.Background(), 7)
	assert.Error(t, err)
}

func TestService_ServerSummaryPassesThrough(t *testing.T) {
	svc := NewService(stubOrders{}, stubReports{raw: json.RawMessage(`{"revenue":"12.00"}`)})

	raw, err := svc.ServerSummary(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, `{"revenue":"12.00"}`, string(raw))
}
