package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
)

// unmatchedRoute labels requests that matched no route
const unmatchedRoute = "unmatched"

// Metrics records request count and duration per route. A nil recorder
// turns the middleware into a pass-through.
func Metrics(m *telemetry.HTTPMetrics) gin.HandlerFunc {
	if m == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		m.Record(c.Request.Context(), c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
