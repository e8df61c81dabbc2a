// internal/interfaces/http/handlers/checkout.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/butcher-storefront/internal/domain/checkout"
	"github.com/your-org/butcher-storefront/internal/interfaces/http/middleware"
)

// CheckoutHandler handles order placement and tracking
type CheckoutHandler struct {
	checkoutService *checkout.Service
	log             *logrus.Logger
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(checkoutService *checkout.Service, log *logrus.Logger) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: checkoutService, log: log}
}

// TrackOrderRequest is the body of POST /orders/track
type TrackOrderRequest struct {
	OrderNumber string `json:"order_number"`
	Contact     string `json:"contact"`
}

// PlaceOrder handles POST /checkout
func (h *CheckoutHandler) PlaceOrder(c *gin.Context) {
	var form checkout.Form
	if err := c.ShouldBindJSON(&form); err != nil {
		bindError(c, err)
		return
	}

	ws := middleware.GetWorkspace(c)
	placed, err := h.checkoutService.Submit(c.Request.Context(), ws.Cart, ws.Checker, form)
	if err != nil {
		respondError(c, h.log, "Failed to place order", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Order placed successfully",
		"data":    placed,
	})
}

// TrackOrder handles POST /orders/track
func (h *CheckoutHandler) TrackOrder(c *gin.Context) {
	var req TrackOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	tracked, err := h.checkoutService.Track(c.Request.Context(), req.OrderNumber, req.Contact)
	if err != nil {
		respondError(c, h.log, "Failed to track order", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order retrieved successfully",
		"data":    tracked,
	})
}
