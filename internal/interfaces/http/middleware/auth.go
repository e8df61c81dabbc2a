// internal/interfaces/http/middleware/auth.go
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/butcher-storefront/internal/config"
	"github.com/your-org/butcher-storefront/internal/pkg/auth"
)

const (
	// AdminLoginPath is where the view layer sends a signed-out admin
	AdminLoginPath = "/admin/login"

	AdminUsernameKey = "admin_username"
)

// AdminMiddleware requires a valid admin cookie issued to this browser
// session and a live upstream admin session
func AdminMiddleware(cfg *config.Config, jwtManager *auth.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(cfg.Session.AdminCookie)
		if err != nil || token == "" {
			Unauthorized(c, "Admin sign-in required")
			return
		}

		claims, err := jwtManager.ValidateAdminToken(token, GetSessionID(c))
		if err != nil {
			Unauthorized(c, "Invalid or expired admin session")
			return
		}

		if !GetWorkspace(c).Admin.Authenticated() {
			Unauthorized(c, "Admin session ended")
			return
		}

		c.Set(AdminUsernameKey, claims.Username)
		c.Next()
	}
}

// Unauthorized aborts with 401 and points the client at the login page
func Unauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, gin.H{
		"error":    message,
		"redirect": AdminLoginPath,
	})
	c.Abort()
}
