// internal/infrastructure/remote/public.go
package remote

import (
	"context"
	"net/http"

	"github.com/your-org/butcher-storefront/internal/domain/catalog"
	"github.com/your-org/butcher-storefront/internal/domain/delivery"
	"github.com/your-org/butcher-storefront/internal/domain/order"
	"github.com/your-org/butcher-storefront/internal/domain/stock"
)

// PlaceOrderRequest is the checkout submission
type PlaceOrderRequest struct {
	CustomerName      string       `json:"customer_name"`
	Email             string       `json:"email,omitempty"`
	Phone             string       `json:"phone"`
	DropoffLocationID string       `json:"dropoff_location_id"`
	Notes             string       `json:"notes,omitempty"`
	Items             []stock.Line `json:"items"`
}

// TrackOrderRequest looks an order up by number and contact detail
type TrackOrderRequest struct {
	OrderNumber string `json:"order_number"`
	Contact     string `json:"contact"`
}

type stockCheckRequest struct {
	Items []stock.Line `json:"items"`
}

type stockConflictBody struct {
	Issues []stock.Issue `json:"issues"`
}

// ListProducts fetches the published products; a wholesale pin switches
// the API to wholesale prices
func (c *Client) ListProducts(ctx context.Context, wholesalePin string) ([]catalog.Product, error) {
	var products []catalog.Product
	err := c.call(ctx, http.MethodGet, "/api/public/products", Credentials{WholesalePin: wholesalePin}, nil, &products)
	return products, err
}

// OrderWindow fetches the currently configured order window
func (c *Client) OrderWindow(ctx context.Context) (*delivery.OrderWindow, error) {
	var window delivery.OrderWindow
	if err := c.call(ctx, http.MethodGet, "/api/public/order-window", Credentials{}, nil, &window); err != nil {
		return nil, err
	}
	return &window, nil
}

// DropoffLocations fetches the public drop-off locations
func (c *Client) DropoffLocations(ctx context.Context) ([]delivery.DropoffLocation, error) {
	var locations []delivery.DropoffLocation
	err := c.call(ctx, http.MethodGet, "/api/public/dropoff-locations", Credentials{}, nil, &locations)
	return locations, err
}

// CheckStock asks the API whether every line can be served. A 409 comes
// back as *stock.ConflictError.
func (c *Client) CheckStock(ctx context.Context, lines []stock.Line) error {
	resp, err := c.do(ctx, http.MethodPost, "/api/public/orders/stock-check", Credentials{}, stockCheckRequest{Items: lines})
	if err != nil {
		return err
	}
	if conflict := conflictFrom(resp); conflict != nil {
		return conflict
	}
	if resp.status < 200 || resp.status >= 300 {
		return newError(resp)
	}
	return nil
}

// PlaceOrder submits an order. A 409 with issues comes back as
// *stock.ConflictError.
func (c *Client) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*order.Order, error) {
	resp, err := c.do(ctx, http.MethodPost, "/api/public/orders", Credentials{}, req)
	if err != nil {
		return nil, err
	}
	if conflict := conflictFrom(resp); conflict != nil {
		return nil, conflict
	}
	if resp.status < 200 || resp.status >= 300 {
		return nil, newError(resp)
	}

	var placed order.Order
	if err := decode(resp.body, &placed); err != nil {
		return nil, err
	}
	return &placed, nil
}

// TrackOrder fetches an order for the public tracking view
func (c *Client) TrackOrder(ctx context.Context, req TrackOrderRequest) (*order.Order, error) {
	var tracked order.Order
	if err := c.call(ctx, http.MethodPost, "/api/public/orders/track", Credentials{}, req, &tracked); err != nil {
		return nil, err
	}
	return &tracked, nil
}

// conflictFrom parses a 409 carrying stock issues, bare or inside a
// {"data": ...} envelope; other 409s stay generic errors
func conflictFrom(resp *response) *stock.ConflictError {
	if resp.status != http.StatusConflict {
		return nil
	}
	var body stockConflictBody
	if err := decode(resp.body, &body); err != nil || len(body.Issues) == 0 {
		return nil
	}
	return &stock.ConflictError{Issues: body.Issues}
}
