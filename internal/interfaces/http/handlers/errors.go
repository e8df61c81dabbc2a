// internal/interfaces/http/handlers/errors.go
package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/butcher-storefront/internal/domain/admin"
	"github.com/your-org/butcher-storefront/internal/domain/catalog"
	"github.com/your-org/butcher-storefront/internal/domain/checkout"
	"github.com/your-org/butcher-storefront/internal/domain/order"
	"github.com/your-org/butcher-storefront/internal/domain/preferences"
	"github.com/your-org/butcher-storefront/internal/domain/session"
	"github.com/your-org/butcher-storefront/internal/domain/stock"
	"github.com/your-org/butcher-storefront/internal/infrastructure/remote"
	"github.com/your-org/butcher-storefront/internal/interfaces/http/middleware"
)

// respondError maps domain and upstream errors onto HTTP responses
func respondError(c *gin.Context, log *logrus.Logger, fallback string, err error) {
	var (
		validation *checkout.ValidationError
		conflict   *stock.ConflictError
		apiErr     *remote.Error
		netErr     *url.Error
	)

	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": validation.Fields,
		})
	case errors.As(err, &conflict):
		c.JSON(http.StatusConflict, gin.H{
			"error":  "Some items in your cart need attention",
			"issues": conflict.Issues,
		})
	case errors.Is(err, admin.ErrNotAuthenticated), remote.IsUnauthorized(err):
		middleware.Unauthorized(c, "Admin session ended")
	case errors.Is(err, catalog.ErrProductNotFound),
		errors.Is(err, session.ErrNotInCart),
		errors.Is(err, order.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, session.ErrSoldOut),
		errors.Is(err, checkout.ErrOrderWindowClosed):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, checkout.ErrEmptyCart),
		errors.Is(err, checkout.ErrTrackingRequired),
		errors.Is(err, order.ErrInvalidWeight),
		errors.Is(err, preferences.ErrInvalidTheme):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &apiErr):
		switch {
		case apiErr.Status == http.StatusNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": apiErr.Message})
		case apiErr.Status >= 400 && apiErr.Status < 500:
			c.JSON(apiErr.Status, gin.H{"error": apiErr.Message})
		default:
			log.WithError(err).Warn(fallback)
			c.JSON(http.StatusBadGateway, gin.H{"error": fallback})
		}
	case errors.As(err, &netErr), errors.Is(err, context.DeadlineExceeded):
		log.WithError(err).Warn(fallback)
		c.JSON(http.StatusBadGateway, gin.H{"error": fallback})
	default:
		log.WithError(err).Error(fallback)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

func bindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "Invalid request data",
		"details": err.Error(),
	})
}
