// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/butcher-storefront/internal/domain/cart"
	"github.com/your-org/butcher-storefront/internal/domain/session"
	"github.com/your-org/butcher-storefront/internal/domain/stock"
	"github.com/your-org/butcher-storefront/internal/interfaces/http/middleware"
)

// CartHandler handles cart endpoints
type CartHandler struct {
	log *logrus.Logger
}

// NewCartHandler creates a new cart handler
func NewCartHandler(log *logrus.Logger) *CartHandler {
	return &CartHandler{log: log}
}

// AddToCartRequest is the body of POST /cart/items
type AddToCartRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

// UpdateCartItemRequest is the body of PUT /cart/items/:id
type UpdateCartItemRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// CartResponse is the cart as the view layer renders it
type CartResponse struct {
	Lines       []cart.Line   `json:"lines"`
	Totals      cart.Totals   `json:"totals"`
	Issues      []stock.Issue `json:"issues"`
	Unresolved  []stock.Issue `json:"unresolved"`
	CanCheckout bool          `json:"can_checkout"`
}

func cartResponse(ws *session.Workspace) CartResponse {
	lines := ws.Cart.Lines()
	unresolved := ws.Unresolved()
	return CartResponse{
		Lines:       lines,
		Totals:      ws.Cart.Totals(),
		Issues:      ws.Checker.Issues().Snapshot(),
		Unresolved:  unresolved,
		CanCheckout: len(lines) > 0 && len(unresolved) == 0,
	}
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Cart retrieved successfully",
		"data":    cartResponse(middleware.GetWorkspace(c)),
	})
}

// AddToCart handles POST /cart/items
func (h *CartHandler) AddToCart(c *gin.Context) {
	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	ws := middleware.GetWorkspace(c)
	added, err := ws.AddProduct(c.Request.Context(), req.ProductID, req.Quantity)
	if err != nil {
		respondError(c, h.log, "Failed to add item to cart", err)
		return
	}

	message := "Item added to cart successfully"
	if added < req.Quantity {
		message = "Only the remaining stock was added to your cart"
	}
	c.JSON(http.StatusOK, gin.H{
		"message": message,
		"added":   added,
		"data":    cartResponse(ws),
	})
}

// UpdateCartItem handles PUT /cart/items/:id
func (h *CartHandler) UpdateCartItem(c *gin.Context) {
	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	ws := middleware.GetWorkspace(c)
	qty, err := ws.SetQuantity(c.Request.Context(), c.Param("id"), *req.Quantity)
	if err != nil {
		respondError(c, h.log, "Failed to update cart item", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Cart item updated successfully",
		"quantity": qty,
		"data":     cartResponse(ws),
	})
}

// RemoveFromCart handles DELETE /cart/items/:id
func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	ws := middleware.GetWorkspace(c)
	if err := ws.Remove(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.log, "Failed to remove cart item", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item removed from cart successfully",
		"data":    cartResponse(ws),
	})
}

// ClearCart handles DELETE /cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	ws := middleware.GetWorkspace(c)
	if err := ws.ClearCart(c.Request.Context()); err != nil {
		respondError(c, h.log, "Failed to clear cart", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart cleared successfully",
		"data":    cartResponse(ws),
	})
}

// CheckStock handles GET /cart/stock, running the check immediately
func (h *CartHandler) CheckStock(c *gin.Context) {
	ws := middleware.GetWorkspace(c)

	// a conflict is recorded on the issue set and rendered below
	_ = ws.Checker.CheckNow(c.Request.Context(), cart.StockLines(ws.Cart.Lines()))

	c.JSON(http.StatusOK, gin.H{
		"message": "Stock checked",
		"data":    cartResponse(ws),
	})
}
