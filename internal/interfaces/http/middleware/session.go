// internal/interfaces/http/middleware/session.go
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/your-org/butcher-storefront/internal/config"
	"github.com/your-org/butcher-storefront/internal/domain/session"
)

const (
	SessionIDKey = "session_id"
	workspaceKey = "workspace"
)

// Session attaches the browser's workspace, issuing a session cookie on
// first visit or when the cookie is not a valid id
func Session(cfg *config.Config, manager *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(cfg.Session.CookieName)
		if _, parseErr := uuid.Parse(id); err != nil || parseErr != nil {
			id = uuid.New().String()
		}

		// refreshed on every request so the cookie slides with activity
		http.SetCookie(c.Writer, &http.Cookie{
			Name:     cfg.Session.CookieName,
			Value:    id,
			Path:     "/",
			MaxAge:   cfg.Session.CookieMaxAge,
			HttpOnly: true,
			Secure:   cfg.Security.SecureCookies,
			SameSite: http.SameSiteLaxMode,
		})

		c.Set(SessionIDKey, id)
		c.Set(workspaceKey, manager.Get(c.Request.Context(), id))
		c.Next()
	}
}

// GetWorkspace returns the workspace attached by Session
func GetWorkspace(c *gin.Context) *session.Workspace {
	ws, _ := c.Get(workspaceKey)
	return ws.(*session.Workspace)
}

// GetSessionID returns the session id attached by Session
func GetSessionID(c *gin.Context) string {
	return c.GetString(SessionIDKey)
}
