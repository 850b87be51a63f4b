// Package middleware holds gin middleware, adapted from the project's
// existing request-context and Prometheus middleware.
package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"corebank/internal/telemetry"
)

// Metrics records request duration, count, and in-flight gauge for every
// request, labeled by method, route, and status code.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		telemetry.HTTPRequestsInFlight.Inc()
		defer telemetry.HTTPRequestsInFlight.Dec()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		telemetry.HTTPDuration.WithLabelValues(c.Request.Method, route, status).Observe(time.Since(start).Seconds())
		telemetry.HTTPRequestsTotal.WithLabelValues(c.Request.Method, route, status).Inc()
	}
}
