// internal/domain/analytics/entity.go
package analytics

import (
	"time"

	"github.com/shopspring/decimal"
)

// Summary is the client-side report rollup
type Summary struct {
	Days          int             `json:"days"`
	OrderCount    int64           `json:"order_count"`
	PendingCount  int64           `json:"pending_count"` // orders still waiting on weights
	Revenue       decimal.Decimal `json:"revenue"`
	AvgOrderValue decimal.Decimal `json:"avg_order_value"`
	ItemsSold     int64           `json:"items_sold"`

	RevenueByDay  []TimeSeriesData   `json:"revenue_by_day"`
	BestSellers   []ProductSalesData `json:"best_sellers"`
	TopCustomers  []CustomerData     `json:"top_customers"`
	SalesByStatus []StatusData       `json:"sales_by_status"`
}

type TimeSeriesData struct {
	Date  string          `json:"date"`
	Value decimal.Decimal `json:"value"`
	Count int64           `json:"count,omitempty"`
}

type ProductSalesData struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	TotalSold   int64           `json:"total_sold"`
	Revenue     decimal.Decimal `json:"revenue"`
	OrderCount  int64           `json:"order_count"`
}

type CustomerData struct {
	CustomerName string          `json:"customer_name"`
	Email        string          `json:"email,omitempty"`
	TotalSpent   decimal.Decimal `json:"total_spent"`
	OrderCount   int64           `json:"order_count"`
	LastOrder    *time.Time      `json:"last_order"`
}

type StatusData struct {
	Status string          `json:"status"`
	Count  int64           `json:"count"`
	Value  decimal.Decimal `json:"value"`
}
