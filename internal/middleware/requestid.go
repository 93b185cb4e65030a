package middleware

import (
	"procurement-service/pkg/logger"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// RequestIDMiddleware tags every request with a generated id, echoes it back
// in the X-Request-ID header, and puts a request-scoped logger carrying the
// id into the context for handlers to pick up via logger.FromContext.
func RequestIDMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		id := c.Request().Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Response().Header().Set("X-Request-ID", id)
		c.Set("request_id", id)
		c.Set("logger", logger.GetLogger().With(zap.String("request_id", id)))
		return next(c)
	}
}
