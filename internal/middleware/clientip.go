package middleware

import (
	"taskhub-service/internal/audit"

	"github.com/labstack/echo/v4"
)

// ClientIPMiddleware carries the client address into the request context
// so audit entries can record it
func ClientIPMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		c.SetRequest(req.WithContext(audit.WithIP(req.Context(), c.RealIP())))
		return next(c)
	}
}
