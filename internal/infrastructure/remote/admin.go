// internal/infrastructure/remote/admin.go
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/your-org/butcher-storefront/internal/domain/catalog"
	"github.com/your-org/butcher-storefront/internal/domain/delivery"
	"github.com/your-org/butcher-storefront/internal/domain/order"
)

// ErrNoSessionCookie is returned when a login succeeds without a cookie
var ErrNoSessionCookie = errors.New("storefront api: login returned no session cookie")

// CredentialsFunc resolves the credentials for an admin call
type CredentialsFunc func(ctx context.Context) Credentials

// LoginRequest is the admin login body
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AdminUser is the identity returned by /api/admin/me
type AdminUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name,omitempty"`
}

// AdminAPI is the cookie-gated admin surface scoped to one browser session
type AdminAPI struct {
	client *Client
	creds  CredentialsFunc
}

// Admin returns an admin client that asks creds for the cookie and pin
func (c *Client) Admin(creds CredentialsFunc) *AdminAPI {
	return &AdminAPI{client: c, creds: creds}
}

// Login authenticates against the API and returns the session cookie
// header to replay on later calls
func (c *Client) Login(ctx context.Context, req LoginRequest) (string, *AdminUser, error) {
	resp, err := c.do(ctx, http.MethodPost, "/api/admin/auth/login", Credentials{}, req)
	if err != nil {
		return "", nil, err
	}
	if resp.status < 200 || resp.status >= 300 {
		return "", nil, newError(resp)
	}

	cookie := cookieHeader(resp.cookies)
	if cookie == "" {
		return "", nil, ErrNoSessionCookie
	}

	var user AdminUser
	if err := decode(resp.body, &user); err != nil {
		// some deployments answer login with a bare message
		user = AdminUser{Username: req.Username}
	}
	return cookie, &user, nil
}

func cookieHeader(cookies []*http.Cookie) string {
	parts := make([]string, 0, len(cookies))
	for _, ck := range cookies {
		if ck.Value == "" || ck.MaxAge < 0 {
			continue
		}
		parts = append(parts, ck.Name+"="+ck.Value)
	}
	return strings.Join(parts, "; ")
}

func (a *AdminAPI) call(ctx context.Context, method, path string, in, out interface{}) error {
	return a.client.call(ctx, method, path, a.creds(ctx), in, out)
}

// Logout ends the upstream session
func (a *AdminAPI) Logout(ctx context.Context) error {
	return a.call(ctx, http.MethodPost, "/api/admin/auth/logout", nil, nil)
}

// Me returns the signed-in admin; a 401 means the session is gone
func (a *AdminAPI) Me(ctx context.Context) (*AdminUser, error) {
	var user AdminUser
	if err := a.call(ctx, http.MethodGet, "/api/admin/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func list[T any](ctx context.Context, a *AdminAPI, path string) ([]T, error) {
	var out []T
	err := a.call(ctx, http.MethodGet, path, nil, &out)
	return out, err
}

func create[T any](ctx context.Context, a *AdminAPI, path string, in interface{}) (*T, error) {
	var out T
	if err := a.call(ctx, http.MethodPost, path, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func update[T any](ctx context.Context, a *AdminAPI, path, id string, in interface{}) (*T, error) {
	var out T
	if err := a.call(ctx, http.MethodPut, path+"/"+url.PathEscape(id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *AdminAPI) remove(ctx context.Context, path, id string) error {
	return a.call(ctx, http.MethodDelete, path+"/"+url.PathEscape(id), nil, nil)
}

const (
	productsPath  = "/api/admin/products"
	categoryPath  = "/api/admin/categories"
	windowsPath   = "/api/admin/windows"
	locationsPath = "/api/admin/dropoff-locations"
	ordersPath    = "/api/admin/orders"
)

// ListProducts returns every product including inactive ones
func (a *AdminAPI) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	return list[catalog.Product](ctx, a, productsPath)
}

func (a *AdminAPI) CreateProduct(ctx context.Context, in catalog.ProductInput) (*catalog.Product, error) {
	return create[catalog.Product](ctx, a, productsPath, in)
}

func (a *AdminAPI) UpdateProduct(ctx context.Context, id string, in catalog.ProductInput) (*catalog.Product, error) {
	return update[catalog.Product](ctx, a, productsPath, id, in)
}

func (a *AdminAPI) DeleteProduct(ctx context.Context, id string) error {
	return a.remove(ctx, productsPath, id)
}

func (a *AdminAPI) ListCategories(ctx context.Context) ([]catalog.Category, error) {
	return list[catalog.Category](ctx, a, categoryPath)
}

func (a *AdminAPI) CreateCategory(ctx context.Context, in catalog.CategoryInput) (*catalog.Category, error) {
	return create[catalog.Category](ctx, a, categoryPath, in)
}

func (a *AdminAPI) UpdateCategory(ctx context.Context, id string, in catalog.CategoryInput) (*catalog.Category, error) {
	return update[catalog.Category](ctx, a, categoryPath, id, in)
}

func (a *AdminAPI) DeleteCategory(ctx context.Context, id string) error {
	return a.remove(ctx, categoryPath, id)
}

func (a *AdminAPI) ListWindows(ctx context.Context) ([]delivery.Window, error) {
	return list[delivery.Window](ctx, a, windowsPath)
}

func (a *AdminAPI) CreateWindow(ctx context.Context, in delivery.WindowInput) (*delivery.Window, error) {
	return create[delivery.Window](ctx, a, windowsPath, in)
}

func (a *AdminAPI) UpdateWindow(ctx context.Context, id string, in delivery.WindowInput) (*delivery.Window, error) {
	return update[delivery.Window](ctx, a, windowsPath, id, in)
}

func (a *AdminAPI) DeleteWindow(ctx context.Context, id string) error {
	return a.remove(ctx, windowsPath, id)
}

func (a *AdminAPI) ListDropoffLocations(ctx context.Context) ([]delivery.DropoffLocation, error) {
	return list[delivery.DropoffLocation](ctx, a, locationsPath)
}

func (a *AdminAPI) CreateDropoffLocation(ctx context.Context, in delivery.DropoffLocationInput) (*delivery.DropoffLocation, error) {
	return create[delivery.DropoffLocation](ctx, a, locationsPath, in)
}

func (a *AdminAPI) UpdateDropoffLocation(ctx context.Context, id string, in delivery.DropoffLocationInput) (*delivery.DropoffLocation, error) {
	return update[delivery.DropoffLocation](ctx, a, locationsPath, id, in)
}

func (a *AdminAPI) DeleteDropoffLocation(ctx context.Context, id string) error {
	return a.remove(ctx, locationsPath, id)
}

// ListOrders returns all orders as stored by the API
func (a *AdminAPI) ListOrders(ctx context.Context) ([]order.Order, error) {
	return list[order.Order](ctx, a, ordersPath)
}

// RecordWeight stores the measured weight of one order item
func (a *AdminAPI) RecordWeight(ctx context.Context, itemID string, weight order.Weight) error {
	body := struct {
		Weight order.Weight `json:"weight"`
	}{Weight: weight}
	return a.call(ctx, http.MethodPut, "/api/admin/order-items/"+url.PathEscape(itemID)+"/weight", body, nil)
}

// UpdateStatus moves an order to status
func (a *AdminAPI) UpdateStatus(ctx context.Context, orderID string, status order.OrderStatus) error {
	body := struct {
		Status order.OrderStatus `json:"status"`
	}{Status: status}
	return a.call(ctx, http.MethodPut, ordersPath+"/"+url.PathEscape(orderID)+"/status", body, nil)
}

// ReportsSummary returns the server-computed report untouched
func (a *AdminAPI) ReportsSummary(ctx context.Context) (json.RawMessage, error) {
	var raw json.RawMessage
	err := a.call(ctx, http.MethodGet, "/api/admin/reports/summary", nil, &raw)
	return raw, err
}

var _ order.API = (*AdminAPI)(nil)
