package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/quirkbeesdevtech/amberisle-be/internal/observability"
)

// Metrics records request count and latency per method/route/status. The
// route template is used rather than the raw path so ids don't explode the
// label cardinality.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())

		observability.HTTPRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		observability.HTTPRequestDuration.WithLabelValues(c.Request.Method, path, status).
			Observe(time.Since(start).Seconds())
	}
}
