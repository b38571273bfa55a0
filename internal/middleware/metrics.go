package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/samudata/samudata-api/internal/service"
)

// ActionKey holds the dispatcher action resolved by a handler. Only recognised actions are stored
// so the metrics label set stays bounded.
const ActionKey = "dispatch_action"

// Metrics returns middleware that captures request metrics using the provided service.
func Metrics(metricsSvc *service.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metricsSvc == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()
		duration := time.Since(start)
		status := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metricsSvc.ObserveHTTPRequest(c.Request.Method, path, c.GetString(ActionKey), status, duration)
	}
}
