package logger

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// contextKeyLogger is the echo context key holding the request logger
const contextKeyLogger = "logger"

// FromContext retrieves the logger from the echo context
func FromContext(c echo.Context) *zap.Logger {
	if l, ok := c.Get(contextKeyLogger).(*zap.Logger); ok {
		return l
	}
	// Fall back to default logger
	return GetLogger()
}

// SetContextLogger replaces the request logger, e.g. after identity fields are known
func SetContextLogger(c echo.Context, l *zap.Logger) {
	c.Set(contextKeyLogger, l)
}
