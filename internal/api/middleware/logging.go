package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
)

// LogApi emits one structured access-log line per request.
func LogApi() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		attrs := []any{
			"status", c.Writer.Status(),
			"method", c.Request.Method,
			"path", path,
			"ip", c.ClientIP(),
			"latency", time.Since(start),
		}
		if userID := c.GetUint("user_id"); userID != 0 {
			attrs = append(attrs, "userId", userID)
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, "errors", c.Errors.String())
			slog.Error("request", attrs...)
			return
		}
		slog.Info("request", attrs...)
	}
}
