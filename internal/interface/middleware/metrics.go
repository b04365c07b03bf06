package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/alnnovate/academy/pkg/metrics"
)

// Metrics records request count, latency and the in-flight gauge labelled
// by route template.
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	if m == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		start := time.Now()
		m.InFlight(1)
		defer m.InFlight(-1)

		c.Next()

		m.ObserveRequest(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}
