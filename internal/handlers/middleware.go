package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const RequestIDHeader = "X-Request-ID"

// RequestLogger tags every request with an id and logs it once it completes.
func RequestLogger(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("requestId", id)
		c.Header(RequestIDHeader, id)

		c.Next()

		status := c.Writer.Status()
		entry := log.WithFields(logrus.Fields{
			"requestId": id,
			"method":    c.Request.Method,
			"path":      c.Request.URL.Path,
			"status":    status,
			"latency":   time.Since(start).String(),
			"clientIp":  c.ClientIP(),
		})
		switch {
		case status >= http.StatusInternalServerError:
			entry.Error("request completed")
		case status >= http.StatusBadRequest:
			entry.Warn("request completed")
		default:
			entry.Info("request completed")
		}
	}
}
