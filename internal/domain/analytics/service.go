// internal/domain/analytics/service.go
package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/your-org/butcher-storefront/internal/domain/order"
)

const (
	defaultDays = 30
	topN        = 10
)

// OrderSource loads the admin's orders
type OrderSource interface {
	Load(ctx context.Context) ([]order.Order, error)
}

// ReportSource returns the server-computed summary
type ReportSource interface {
	ReportsSummary(ctx context.Context) (json.RawMessage, error)
}

// Service builds report views for the admin dashboard
type Service struct {
	orders  OrderSource
	reports ReportSource
	now     func() time.Time
}

// NewService creates a new analytics service
func NewService(orders OrderSource, reports ReportSource) *Service {
	return &Service{
		orders:  orders,
		reports: reports,
		now:     time.Now,
	}
}

// Rollup re-groups the fetched orders for the last days
func (s *Service) Rollup(ctx context.Context, days int) (*Summary, error) {
	orders, err := s.orders.Load(ctx)
	if err != nil {
		return nil, err
	}
	return Summarize(orders, s.now(), days), nil
}

// ServerSummary passes the API's own summary through unchanged
func (s *Service) ServerSummary(ctx context.Context) (json.RawMessage, error) {
	raw, err := s.reports.ReportsSummary(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load report summary: %w", err)
	}
	return raw, nil
}

// Summarize aggregates orders created within days of now. Every order
// counts towards volumes; money only comes from orders whose weights are
// complete, the rest are reported as pending.
func Summarize(orders []order.Order, now time.Time, days int) *Summary {
	if days <= 0 {
		days = defaultDays
	}
	since := now.AddDate(0, 0, -days)

	summary := &Summary{
		Days:    days,
		Revenue: decimal.Zero,
	}

	byDay := make(map[string]*TimeSeriesData)
	byProduct := make(map[string]*ProductSalesData)
	byCustomer := make(map[string]*CustomerData)
	byStatus := make(map[order.OrderStatus]*StatusData)
	completed := 0

	for i := range orders {
		o := orders[i]
		// undated orders are counted, never dropped
		dated := !o.CreatedAt.IsZero()
		if dated && o.CreatedAt.Before(since) {
			continue
		}
		o.Items = append([]order.Item(nil), o.Items...)
		order.Reconcile(&o)

		summary.OrderCount++
		total, final := order.FinalTotal(&o)
		if final {
			completed++
			summary.Revenue = summary.Revenue.Add(total)
		} else {
			summary.PendingCount++
		}

		st, ok := byStatus[o.Status]
		if !ok {
			st = &StatusData{Status: string(o.Status), Value: decimal.Zero}
			byStatus[o.Status] = st
		}
		st.Count++
		st.Value = st.Value.Add(total)

		if dated {
			date := o.CreatedAt.In(now.Location()).Format("2006-01-02")
			day, ok := byDay[date]
			if !ok {
				day = &TimeSeriesData{Date: date, Value: decimal.Zero}
				byDay[date] = day
			}
			day.Count++
			day.Value = day.Value.Add(total)
		}

		key := o.CustomerKey()
		customer, ok := byCustomer[key]
		if !ok {
			customer = &CustomerData{CustomerName: o.CustomerName, Email: o.Email, TotalSpent: decimal.Zero}
			byCustomer[key] = customer
		}
		customer.OrderCount++
		customer.TotalSpent = customer.TotalSpent.Add(total)
		if dated && (customer.LastOrder == nil || o.CreatedAt.After(*customer.LastOrder)) {
			created := o.CreatedAt
			customer.LastOrder = &created
		}

		seen := make(map[string]bool)
		for _, item := range o.Items {
			summary.ItemsSold += int64(item.Quantity)

			p, ok := byProduct[item.ProductID]
			if !ok {
				p = &ProductSalesData{ProductID: item.ProductID, ProductName: item.Name, Revenue: decimal.Zero}
				byProduct[item.ProductID] = p
			}
			p.TotalSold += int64(item.Quantity)
			if final {
				p.Revenue = p.Revenue.Add(item.LineTotal)
			}
			if !seen[item.ProductID] {
				seen[item.ProductID] = true
				p.OrderCount++
			}
		}
	}

	if completed > 0 {
		summary.AvgOrderValue = summary.Revenue.Div(decimal.NewFromInt(int64(completed))).Round(2)
	} else {
		summary.AvgOrderValue = decimal.Zero
	}

	summary.RevenueByDay = make([]TimeSeriesData, 0, len(byDay))
	for _, d := range byDay {
		summary.RevenueByDay = append(summary.RevenueByDay, *d)
	}
	sort.Slice(summary.RevenueByDay, func(i, j int) bool {
		return summary.RevenueByDay[i].Date < summary.RevenueByDay[j].Date
	})

	summary.BestSellers = make([]ProductSalesData, 0, len(byProduct))
	for _, p := range byProduct {
		summary.BestSellers = append(summary.BestSellers, *p)
	}
	sort.Slice(summary.BestSellers, func(i, j int) bool {
		a, b := summary.BestSellers[i], summary.BestSellers[j]
		if a.TotalSold != b.TotalSold {
			return a.TotalSold > b.TotalSold
		}
		if a.OrderCount != b.OrderCount {
			return a.OrderCount > b.OrderCount
		}
		if !a.Revenue.Equal(b.Revenue) {
			return a.Revenue.GreaterThan(b.Revenue)
		}
		return a.ProductName < b.ProductName
	})
	if len(summary.BestSellers) > topN {
		summary.BestSellers = summary.BestSellers[:topN]
	}

	summary.TopCustomers = make([]CustomerData, 0, len(byCustomer))
	for _, c := range byCustomer {
		summary.TopCustomers = append(summary.TopCustomers, *c)
	}
	sort.Slice(summary.TopCustomers, func(i, j int) bool {
		a, b := summary.TopCustomers[i], summary.TopCustomers[j]
		if !a.TotalSpent.Equal(b.TotalSpent) {
			return a.TotalSpent.GreaterThan(b.TotalSpent)
		}
		if a.OrderCount != b.OrderCount {
			return a.OrderCount > b.OrderCount
		}
		return a.CustomerName < b.CustomerName
	})
	if len(summary.TopCustomers) > topN {
		summary.TopCustomers = summary.TopCustomers[:topN]
	}

	summary.SalesByStatus = make([]StatusData, 0, len(byStatus))
	for _, status := range order.Statuses {
		if st, ok := byStatus[status]; ok {
			summary.SalesByStatus = append(summary.SalesByStatus, *st)
		}
	}

	return summary
}
