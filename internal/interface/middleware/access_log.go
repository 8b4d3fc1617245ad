package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// AccessLog writes one structured line per request.
func AccessLog(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := logger.WithFields(logrus.Fields{
			"request_id": c.GetString(CtxRequestIDKey),
			"method":     c.Request.Method,
			"path":       normalizePath(c),
			"status":     c.Writer.Status(),
			"latency":    time.Since(start).String(),
			"ip":         ipFromCtx(c),
		})
		switch s := c.Writer.Status(); {
		case s >= 500:
			entry.Error("http request")
		case s >= 400:
			entry.Warn("http request")
		default:
			entry.Info("http request")
		}
	}
}
