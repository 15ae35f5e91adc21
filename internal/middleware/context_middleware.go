package middleware

import (
	"time"

	"go-hrportal/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ContextLogger stores a logger tagged with the request id on the request
// context and writes one access line per request once it completes. It runs
// after RequestID.
func ContextLogger(logger *zap.Logger) gin.HandlerFunc {
	base := logger.Named("http.access")
	return func(c *gin.Context) {
		start := time.Now()

		reqLogger := base.With(zap.String("request_id", c.GetString("request_id")))
		c.Request = c.Request.WithContext(contextutil.WithLogger(c.Request.Context(), reqLogger))

		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("route", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		}
		if uid := c.GetString("user_id"); uid != "" {
			fields = append(fields, zap.String("user_id", uid))
		}

		switch status := c.Writer.Status(); {
		case status >= 500:
			reqLogger.Error("request completed", fields...)
		case status >= 400:
			reqLogger.Warn("request completed", fields...)
		default:
			reqLogger.Info("request completed", fields...)
		}
	}
}
