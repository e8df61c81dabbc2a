// internal/domain/delivery/entity.go
package delivery

import (
	"sort"
	"strings"
	"time"
)

// Window is a configured period during which orders are accepted
type Window struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	StartsAt  *time.Time `json:"starts_at"`
	EndsAt    *time.Time `json:"ends_at"`
	Active    bool       `json:"active"`
	Permanent bool       `json:"permanent"` // always open regardless of dates
}

// IsOpen reports whether orders are accepted at now
func (w *Window) IsOpen(now time.Time) bool {
	if w == nil || !w.Active {
		return false
	}
	if w.Permanent {
		return true
	}
	if w.StartsAt == nil || w.EndsAt == nil {
		return false
	}
	return !now.Before(*w.StartsAt) && now.Before(*w.EndsAt)
}

// OrderWindow is the public order-window response
type OrderWindow struct {
	Window *Window `json:"window"`
}

// Open reports whether checkout is currently possible
func (o *OrderWindow) Open(now time.Time) bool {
	return o != nil && o.Window.IsOpen(now)
}

// WindowInput is the admin create/update payload
type WindowInput struct {
	Name      string     `json:"name" binding:"required"`
	StartsAt  *time.Time `json:"starts_at"`
	EndsAt    *time.Time `json:"ends_at"`
	Active    bool       `json:"active"`
	Permanent bool       `json:"permanent"`
}

// DropoffLocation is a pickup point chosen at checkout
type DropoffLocation struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Description    string     `json:"description,omitempty"`
	Active         bool       `json:"active"`
	SortOrder      int        `json:"sort_order"`
	CutoffAt       *time.Time `json:"cutoff_at"`
	NextDeliveryAt *time.Time `json:"next_delivery_at"`
}

// AcceptsOrders is false once the location's cutoff has passed
func (l *DropoffLocation) AcceptsOrders(now time.Time) bool {
	if !l.Active {
		return false
	}
	return l.CutoffAt == nil || now.Before(*l.CutoffAt)
}

// DropoffLocationInput is the admin create/update payload
type DropoffLocationInput struct {
	Name           string     `json:"name" binding:"required"`
	Description    string     `json:"description"`
	Active         bool       `json:"active"`
	SortOrder      int        `json:"sort_order"`
	CutoffAt       *time.Time `json:"cutoff_at"`
	NextDeliveryAt *time.Time `json:"next_delivery_at"`
}

// ActiveLocations returns active locations by sort order, then name
func ActiveLocations(locations []DropoffLocation) []DropoffLocation {
	out := make([]DropoffLocation, 0, len(locations))
	for _, l := range locations {
		if l.Active {
			out = append(out, l)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out
}

// FindLocation returns the location with id
func FindLocation(locations []DropoffLocation, id string) (*DropoffLocation, bool) {
	for i := range locations {
		if locations[i].ID == id {
			l := locations[i]
			return &l, true
		}
	}
	return nil, false
}
