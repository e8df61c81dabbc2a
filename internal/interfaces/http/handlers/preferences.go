// internal/interfaces/http/handlers/preferences.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/butcher-storefront/internal/domain/preferences"
	"github.com/your-org/butcher-storefront/internal/interfaces/http/middleware"
)

// PreferencesHandler handles theme and wholesale pin
type PreferencesHandler struct {
	log *logrus.Logger
}

// NewPreferencesHandler creates a new preferences handler
func NewPreferencesHandler(log *logrus.Logger) *PreferencesHandler {
	return &PreferencesHandler{log: log}
}

type themeRequest struct {
	Theme string `json:"theme" binding:"required"`
}

type wholesalePinRequest struct {
	Pin string `json:"pin" binding:"required"`
}

// GetTheme handles GET /preferences/theme
func (h *PreferencesHandler) GetTheme(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Theme retrieved successfully",
		"data":    gin.H{"theme": middleware.GetWorkspace(c).Preferences.Theme()},
	})
}

// SetTheme handles PUT /preferences/theme
func (h *PreferencesHandler) SetTheme(c *gin.Context) {
	var req themeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	theme, err := preferences.ParseTheme(req.Theme)
	if err != nil {
		respondError(c, h.log, "Failed to update theme", err)
		return
	}

	prefs := middleware.GetWorkspace(c).Preferences
	if err := prefs.SetTheme(c.Request.Context(), theme); err != nil {
		respondError(c, h.log, "Failed to update theme", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Theme updated successfully",
		"data":    gin.H{"theme": prefs.Theme()},
	})
}

// SetWholesalePin handles PUT /preferences/wholesale-pin
func (h *PreferencesHandler) SetWholesalePin(c *gin.Context) {
	var req wholesalePinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	prefs := middleware.GetWorkspace(c).Preferences
	if err := prefs.SetWholesalePin(c.Request.Context(), req.Pin); err != nil {
		respondError(c, h.log, "Failed to save wholesale pin", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Wholesale pricing enabled",
		"data":    gin.H{"wholesale": prefs.WholesalePin() != ""},
	})
}

// ClearWholesalePin handles DELETE /preferences/wholesale-pin
func (h *PreferencesHandler) ClearWholesalePin(c *gin.Context) {
	prefs := middleware.GetWorkspace(c).Preferences
	if err := prefs.ClearWholesalePin(c.Request.Context()); err != nil {
		respondError(c, h.log, "Failed to clear wholesale pin", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Wholesale pricing disabled",
		"data":    gin.H{"wholesale": false},
	})
}
