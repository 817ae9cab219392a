package middlewares

import (
	"time"

	gin "github.com/gin-gonic/gin"
	zap "go.uber.org/zap"
)

// LoggingMiddleware returns a gin middleware that logs every request with the
// provided logger, optionally skipping health check requests to keep probe
// noise out of the logs.
func LoggingMiddleware(logger *zap.Logger, disableHealthcheckLog bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if disableHealthcheckLog && c.Request.URL.Path == "/health" {
			c.Next()
			return
		}

		startTime := time.Now()

		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status_code", c.Writer.Status()),
			zap.Duration("duration", time.Since(startTime)),
			zap.String("client_ip", c.ClientIP()))
	}
}
