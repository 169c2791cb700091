package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/campusforge/ttcore/internal/metrics"
)

// Metrics returns middleware that records request latency and outcome
// using the provided service. A nil service makes this a no-op.
func Metrics(svc *metrics.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if svc == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		svc.ObserveHTTPRequest(c.Request.Method, path, fmt.Sprintf("%d", c.Writer.Status()), time.Since(start).Seconds())
	}
}
