// internal/interfaces/http/middleware/logger.go
package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// quietPaths are probed constantly and only logged at debug
var quietPaths = map[string]bool{
	"/health": true,
	"/ready":  true,
}

// Logger logs one entry per request once the handler chain returns
func Logger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		status := c.Writer.Status()
		fields := logrus.Fields{
			"request_id":    c.GetString(RequestIDKey),
			"method":        c.Request.Method,
			"path":          path,
			"route":         c.FullPath(),
			"status_code":   status,
			"latency":       time.Since(start),
			"client_ip":     c.ClientIP(),
			"response_size": c.Writer.Size(),
		}
		if id := c.GetString(SessionIDKey); id != "" {
			fields["session_id"] = id
		}
		if user := c.GetString(AdminUsernameKey); user != "" {
			fields["admin"] = user
		}
		entry := logger.WithFields(fields)

		if errs := c.Errors.ByType(gin.ErrorTypePrivate).String(); errs != "" {
			entry = entry.WithField("error", errs)
		}

		switch {
		case status >= 500:
			entry.Error("request failed")
		case status >= 400:
			entry.Warn("request rejected")
		case quietPaths[path]:
			entry.Debug("probe served")
		default:
			entry.Info("request served")
		}
	}
}
