package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/dmitrijs2005/accounts/internal/logging"
	"github.com/gin-gonic/gin"
)

// RequestTimeout bounds the context handed to the services. A non-positive
// duration disables the limit.
func RequestTimeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if d <= 0 {
			c.Next()
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequestLogger logs one line per request.
func RequestLogger(logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		args := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
		}
		if status >= http.StatusInternalServerError {
			logger.Warn(c.Request.Context(), "request", args...)
			return
		}
		logger.Info(c.Request.Context(), "request", args...)
	}
}
