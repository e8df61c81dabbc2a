// internal/infrastructure/events/events.go
package events

import (
	"context"
	"time"
)

// Event types
const (
	TypeOrderPlaced = "order.placed"
)

// Publisher emits storefront events keyed for partitioning
type Publisher interface {
	Publish(ctx context.Context, key string, event Envelope) error
	Close() error
}

// Envelope wraps every published payload
type Envelope struct {
	Type       string      `json:"type"`
	OccurredAt time.Time   `json:"occurred_at"`
	Payload    interface{} `json:"payload"`
}

// OrderPlaced is published after the storefront API accepts an order
type OrderPlaced struct {
	OrderID           string `json:"order_id"`
	OrderNumber       string `json:"order_number"`
	DropoffLocationID string `json:"dropoff_location_id"`
	Lines             int    `json:"lines"`
	Units             int    `json:"units"`
}

// Noop discards events; used when no broker is configured
type Noop struct{}

func (Noop) Publish(context.Context, string, Envelope) error { return nil }

func (Noop) Close() error { return nil }
