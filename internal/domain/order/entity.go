// internal/domain/order/entity.go
package order

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/your-org/butcher-storefront/internal/domain/catalog"
)

// OrderStatus represents the order status
type OrderStatus string

const (
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusPacked     OrderStatus = "packed"
	OrderStatusShipping   OrderStatus = "shipping"
	OrderStatusDelivered  OrderStatus = "delivered"
)

// Statuses lists every status in fulfilment order
var Statuses = []OrderStatus{
	OrderStatusProcessing,
	OrderStatusPacked,
	OrderStatusShipping,
	OrderStatusDelivered,
}

// Index returns the position of s in the fulfilment order, -1 if unknown
func (s OrderStatus) Index() int {
	for i, st := range Statuses {
		if st == s {
			return i
		}
	}
	return -1
}

// IsValid reports whether s is one of the known statuses
func (s OrderStatus) IsValid() bool {
	return s.Index() >= 0
}

// Next returns the following status; delivered has none
func (s OrderStatus) Next() (OrderStatus, bool) {
	i := s.Index()
	if i < 0 || i == len(Statuses)-1 {
		return "", false
	}
	return Statuses[i+1], true
}

// ParseStatus validates a status string
func ParseStatus(v string) (OrderStatus, error) {
	s := OrderStatus(strings.ToLower(strings.TrimSpace(v)))
	if !s.IsValid() {
		return "", fmt.Errorf("invalid order status %q", v)
	}
	return s, nil
}

// Weight is a measured weight that may not be recorded yet. JSON null,
// an empty string and whitespace all decode as absent.
type Weight struct {
	Value decimal.Decimal
	Valid bool
}

// NewWeight returns a recorded weight
func NewWeight(v decimal.Decimal) Weight {
	return Weight{Value: v, Valid: true}
}

func (w Weight) MarshalJSON() ([]byte, error) {
	if !w.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(w.Value.String())
}

func (w *Weight) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*w = Weight{}
		return nil
	}

	raw := string(trimmed)
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(s)
		if raw == "" {
			*w = Weight{}
			return nil
		}
	}

	v, err := decimal.NewFromString(raw)
	if err != nil {
		return fmt.Errorf("invalid weight %q: %w", raw, err)
	}
	*w = NewWeight(v)
	return nil
}

// Item represents a line of an order
type Item struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Unit      catalog.Unit    `json:"unit"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Weight    Weight          `json:"weight"`

	// Derived by Reconcile
	LineTotal decimal.Decimal `json:"line_total"`
	Ready     bool            `json:"ready"`
}

// IsWeightBased reports whether the line is priced per measured weight
func (i *Item) IsWeightBased() bool {
	return i.Unit.IsWeight()
}

// Order is a placed order as returned by the storefront API
type Order struct {
	ID                string          `json:"id"`
	OrderNumber       string          `json:"order_number"`
	CustomerName      string          `json:"customer_name"`
	Email             string          `json:"email,omitempty"`
	Phone             string          `json:"phone,omitempty"`
	DropoffLocationID string          `json:"dropoff_location_id"`
	Status            OrderStatus     `json:"status"`
	Notes             string          `json:"notes,omitempty"`
	Items             []Item          `json:"items"`
	Total             decimal.Decimal `json:"total"` // server-computed
	CreatedAt         time.Time       `json:"created_at"`

	// Derived by Reconcile
	Subtotal        decimal.Decimal `json:"subtotal"`
	WeightsComplete bool            `json:"weights_complete"`
}

// CustomerKey identifies the customer for per-customer rollups
func (o *Order) CustomerKey() string {
	if e := strings.ToLower(strings.TrimSpace(o.Email)); e != "" {
		return e
	}
	if p := strings.TrimSpace(o.Phone); p != "" {
		return p
	}
	return strings.ToLower(strings.TrimSpace(o.CustomerName))
}

// Progress describes where an order sits in the fulfilment sequence
type Progress struct {
	Status   OrderStatus   `json:"status"`
	Step     int           `json:"step"`
	Steps    []OrderStatus `json:"steps"`
	Complete bool          `json:"complete"`
}

// GetProgress returns the tracking view's progress for the order
func (o *Order) GetProgress() Progress {
	idx := o.Status.Index()
	return Progress{
		Status:   o.Status,
		Step:     idx + 1,
		Steps:    Statuses,
		Complete: o.Status == OrderStatusDelivered,
	}
}
