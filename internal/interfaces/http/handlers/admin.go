// internal/interfaces/http/handlers/admin.go
package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/butcher-storefront/internal/config"
	"github.com/your-org/butcher-storefront/internal/domain/admin"
	"github.com/your-org/butcher-storefront/internal/domain/analytics"
	"github.com/your-org/butcher-storefront/internal/domain/catalog"
	"github.com/your-org/butcher-storefront/internal/domain/delivery"
	"github.com/your-org/butcher-storefront/internal/domain/order"
	"github.com/your-org/butcher-storefront/internal/infrastructure/remote"
	"github.com/your-org/butcher-storefront/internal/interfaces/http/middleware"
	"github.com/your-org/butcher-storefront/internal/pkg/auth"
)

// AdminHandler handles the back-office endpoints
type AdminHandler struct {
	client     *remote.Client
	jwtManager *auth.JWTManager
	config     *config.Config
	log        *logrus.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(client *remote.Client, jwtManager *auth.JWTManager, cfg *config.Config, log *logrus.Logger) *AdminHandler {
	return &AdminHandler{
		client:     client,
		jwtManager: jwtManager,
		config:     cfg,
		log:        log,
	}
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

type weightRequest struct {
	Weight order.Weight `json:"weight"`
}

func (h *AdminHandler) setAdminCookie(c *gin.Context, token string, maxAge int) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     h.config.Session.AdminCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.config.Security.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

// fail drops the admin cookie on a 401 before answering
func (h *AdminHandler) fail(c *gin.Context, fallback string, err error) {
	if remote.IsUnauthorized(err) {
		h.setAdminCookie(c, "", -1)
	}
	respondError(c, h.log, fallback, err)
}

// Login handles POST /admin/login
func (h *AdminHandler) Login(c *gin.Context) {
	var req remote.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	ws := middleware.GetWorkspace(c)
	user, err := ws.Admin.Login(c.Request.Context(), h.client, req)
	if err != nil {
		if remote.IsUnauthorized(err) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
			return
		}
		respondError(c, h.log, "Failed to sign in", err)
		return
	}

	token, err := h.jwtManager.GenerateAdminToken(ws.ID, user.Username)
	if err != nil {
		h.log.WithError(err).Error("failed to sign admin token")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to sign in"})
		return
	}
	h.setAdminCookie(c, token, int(h.config.JWT.AdminExpiry.Seconds()))

	c.JSON(http.StatusOK, gin.H{
		"message": "Signed in successfully",
		"data":    user,
	})
}

// Logout handles POST /admin/logout
func (h *AdminHandler) Logout(c *gin.Context) {
	ws := middleware.GetWorkspace(c)
	ws.Admin.Logout(c.Request.Context(), ws.AdminAPI)
	h.setAdminCookie(c, "", -1)

	c.JSON(http.StatusOK, gin.H{"message": "Signed out successfully"})
}

// Me handles GET /admin/me
func (h *AdminHandler) Me(c *gin.Context) {
	ws := middleware.GetWorkspace(c)
	user, err := ws.Admin.Verify(c.Request.Context(), ws.AdminAPI)
	if err != nil {
		h.fail(c, "Failed to verify admin session", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Admin session is valid",
		"data":    user,
	})
}

// Dashboard handles GET /admin/dashboard
func (h *AdminHandler) Dashboard(c *gin.Context) {
	svc := middleware.GetWorkspace(c).AdminService()
	dashboard, err := svc.Dashboard(c.Request.Context())
	if err != nil {
		h.fail(c, "Failed to load dashboard", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Dashboard retrieved successfully",
		"data":    dashboard,
	})
}

func listResource[T any](h *AdminHandler, what string, list func(*admin.Service, context.Context) ([]T, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := list(middleware.GetWorkspace(c).AdminService(), c.Request.Context())
		if err != nil {
			h.fail(c, "Failed to retrieve "+what, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message": "Retrieved " + what + " successfully",
			"data":    items,
		})
	}
}

func createResource[In, Out any](h *AdminHandler, what string, create func(*admin.Service, context.Context, In) (*Out, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in In
		if err := c.ShouldBindJSON(&in); err != nil {
			bindError(c, err)
			return
		}
		out, err := create(middleware.GetWorkspace(c).AdminService(), c.Request.Context(), in)
		if err != nil {
			h.fail(c, "Failed to create "+what, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{
			"message": "Created " + what + " successfully",
			"data":    out,
		})
	}
}

func updateResource[In, Out any](h *AdminHandler, what string, update func(*admin.Service, context.Context, string, In) (*Out, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in In
		if err := c.ShouldBindJSON(&in); err != nil {
			bindError(c, err)
			return
		}
		out, err := update(middleware.GetWorkspace(c).AdminService(), c.Request.Context(), c.Param("id"), in)
		if err != nil {
			h.fail(c, "Failed to update "+what, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message": "Updated " + what + " successfully",
			"data":    out,
		})
	}
}

func deleteResource(h *AdminHandler, what string, remove func(*admin.Service, context.Context, string) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := remove(middleware.GetWorkspace(c).AdminService(), c.Request.Context(), c.Param("id")); err != nil {
			h.fail(c, "Failed to delete "+what, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Deleted " + what + " successfully"})
	}
}

func (h *AdminHandler) ListProducts() gin.HandlerFunc {
	return listResource[catalog.Product](h, "products", (*admin.Service).ListProducts)
}

func (h *AdminHandler) CreateProduct() gin.HandlerFunc {
	return createResource[catalog.ProductInput, catalog.Product](h, "product", (*admin.Service).CreateProduct)
}

func (h *AdminHandler) UpdateProduct() gin.HandlerFunc {
	return updateResource[catalog.ProductInput, catalog.Product](h, "product", (*admin.Service).UpdateProduct)
}

func (h *AdminHandler) DeleteProduct() gin.HandlerFunc {
	return deleteResource(h, "product", (*admin.Service).DeleteProduct)
}

func (h *AdminHandler) ListCategories() gin.HandlerFunc {
	return listResource[catalog.Category](h, "categories", (*admin.Service).ListCategories)
}

func (h *AdminHandler) CreateCategory() gin.HandlerFunc {
	return createResource[catalog.CategoryInput, catalog.Category](h, "category", (*admin.Service).CreateCategory)
}

func (h *AdminHandler) UpdateCategory() gin.HandlerFunc {
	return updateResource[catalog.CategoryInput, catalog.Category](h, "category", (*admin.Service).UpdateCategory)
}

func (h *AdminHandler) DeleteCategory() gin.HandlerFunc {
	return deleteResource(h, "category", (*admin.Service).DeleteCategory)
}

func (h *AdminHandler) ListWindows() gin.HandlerFunc {
	return listResource[delivery.Window](h, "delivery windows", (*admin.Service).ListWindows)
}

func (h *AdminHandler) CreateWindow() gin.HandlerFunc {
	return createResource[delivery.WindowInput, delivery.Window](h, "delivery window", (*admin.Service).CreateWindow)
}

func (h *AdminHandler) UpdateWindow() gin.HandlerFunc {
	return updateResource[delivery.WindowInput, delivery.Window](h, "delivery window", (*admin.Service).UpdateWindow)
}

func (h *AdminHandler) DeleteWindow() gin.HandlerFunc {
	return deleteResource(h, "delivery window", (*admin.Service).DeleteWindow)
}

func (h *AdminHandler) ListDropoffLocations() gin.HandlerFunc {
	return listResource[delivery.DropoffLocation](h, "drop-off locations", (*admin.Service).ListDropoffLocations)
}

func (h *AdminHandler) CreateDropoffLocation() gin.HandlerFunc {
	return createResource[delivery.DropoffLocationInput, delivery.DropoffLocation](h, "drop-off location", (*admin.Service).CreateDropoffLocation)
}

func (h *AdminHandler) UpdateDropoffLocation() gin.HandlerFunc {
	return updateResource[delivery.DropoffLocationInput, delivery.DropoffLocation](h, "drop-off location", (*admin.Service).UpdateDropoffLocation)
}

func (h *AdminHandler) DeleteDropoffLocation() gin.HandlerFunc {
	return deleteResource(h, "drop-off location", (*admin.Service).DeleteDropoffLocation)
}

// ListOrders handles GET /admin/orders
func (h *AdminHandler) ListOrders(c *gin.Context) {
	orders, err := middleware.GetWorkspace(c).AdminService().Orders(c.Request.Context())
	if err != nil {
		h.fail(c, "Failed to retrieve orders", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Orders retrieved successfully",
		"data":    orders,
	})
}

// UpdateOrderStatus handles PUT /admin/orders/:id/status
func (h *AdminHandler) UpdateOrderStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	status, err := order.ParseStatus(req.Status)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := middleware.GetWorkspace(c).AdminService().UpdateStatus(c.Request.Context(), c.Param("id"), status)
	if err != nil {
		h.fail(c, "Failed to update order status", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order status updated successfully",
		"data":    updated,
	})
}

// RecordWeight handles PUT /admin/order-items/:id/weight
func (h *AdminHandler) RecordWeight(c *gin.Context) {
	var req weightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	updated, err := middleware.GetWorkspace(c).AdminService().RecordWeight(c.Request.Context(), c.Param("id"), req.Weight)
	if err != nil {
		h.fail(c, "Failed to record weight", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Weight recorded successfully",
		"data":    updated,
	})
}

func (h *AdminHandler) reports(c *gin.Context) *analytics.Service {
	svc := middleware.GetWorkspace(c).AdminService()
	return analytics.NewService(svc, svc)
}

// ReportsSummary handles GET /admin/reports/summary
func (h *AdminHandler) ReportsSummary(c *gin.Context) {
	raw, err := h.reports(c).ServerSummary(c.Request.Context())
	if err != nil {
		h.fail(c, "Failed to retrieve report summary", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Report summary retrieved successfully",
		"data":    raw,
	})
}

// ReportsRollup handles GET /admin/reports/rollup?days=N
func (h *AdminHandler) ReportsRollup(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))

	summary, err := h.reports(c).Rollup(c.Request.Context(), days)
	if err != nil {
		h.fail(c, "Failed to build report", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Report built successfully",
		"data":    summary,
	})
}
