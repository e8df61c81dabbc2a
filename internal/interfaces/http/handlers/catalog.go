// internal/interfaces/http/handlers/catalog.go
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/butcher-storefront/internal/domain/catalog"
	"github.com/your-org/butcher-storefront/internal/domain/delivery"
	"github.com/your-org/butcher-storefront/internal/domain/stock"
	"github.com/your-org/butcher-storefront/internal/infrastructure/remote"
	"github.com/your-org/butcher-storefront/internal/interfaces/http/middleware"
)

// CatalogHandler handles the public storefront endpoints
type CatalogHandler struct {
	client *remote.Client
	log    *logrus.Logger
	now    func() time.Time
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(client *remote.Client, log *logrus.Logger) *CatalogHandler {
	return &CatalogHandler{client: client, log: log, now: time.Now}
}

type catalogEntry struct {
	catalog.Product
	Availability stock.Availability `json:"availability"`
}

// GetCatalog handles GET /catalog
func (h *CatalogHandler) GetCatalog(c *gin.Context) {
	ws := middleware.GetWorkspace(c)

	products, err := ws.Products(c.Request.Context())
	if err != nil {
		respondError(c, h.log, "Failed to retrieve products", err)
		return
	}

	availability := ws.Availability(products)
	entries := make([]catalogEntry, len(products))
	for i := range products {
		entries[i] = catalogEntry{Product: products[i], Availability: availability[i]}
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Products retrieved successfully",
		"data": gin.H{
			"products":  entries,
			"wholesale": ws.Preferences.WholesalePin() != "",
		},
	})
}

type stagedRequest struct {
	Staged map[string]int `json:"staged" binding:"required"`
}

// ReclampStaged handles POST /catalog/staged
func (h *CatalogHandler) ReclampStaged(c *gin.Context) {
	var req stagedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	staged, err := middleware.GetWorkspace(c).ReclampStaged(c.Request.Context(), req.Staged)
	if err != nil {
		respondError(c, h.log, "Failed to check staged quantities", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Staged quantities checked",
		"data":    gin.H{"staged": staged},
	})
}

// GetOrderWindow handles GET /order-window
func (h *CatalogHandler) GetOrderWindow(c *gin.Context) {
	window, err := h.client.OrderWindow(c.Request.Context())
	if err != nil {
		respondError(c, h.log, "Failed to retrieve order window", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order window retrieved successfully",
		"data": gin.H{
			"window": window.Window,
			"open":   window.Open(h.now()),
		},
	})
}

// GetDropoffLocations handles GET /dropoff-locations
func (h *CatalogHandler) GetDropoffLocations(c *gin.Context) {
	locations, err := h.client.DropoffLocations(c.Request.Context())
	if err != nil {
		respondError(c, h.log, "Failed to retrieve drop-off locations", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Drop-off locations retrieved successfully",
		"data":    delivery.ActiveLocations(locations),
	})
}
