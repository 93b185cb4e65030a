package middleware

import (
	"strconv"
	"time"

	"procurement-service/prometheus"

	"github.com/labstack/echo/v4"
)

// MetricsMiddleware records request count and latency per method, route
// template and status. The route template (c.Path) keeps the label
// cardinality bounded.
func MetricsMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)

		labels := []string{
			c.Request().Method,
			c.Path(),
			strconv.Itoa(c.Response().Status),
		}
		prometheus.HttpRequestsTotal.WithLabelValues(labels...).Inc()
		prometheus.HttpRequestDuration.WithLabelValues(labels...).Observe(time.Since(start).Seconds())
		return err
	}
}
