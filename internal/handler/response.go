package handler

import (
	"errors"
	"net/http"

	"taskhub-service/internal/access"
	"taskhub-service/internal/apperror"
	"taskhub-service/internal/middleware"
	"taskhub-service/pkg/logger"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Response is the JSON envelope of every API reply
type Response struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Reason  apperror.Reason `json:"reason,omitempty"`
	Data    interface{}     `json:"data,omitempty"`
}

func ok(c echo.Context, status int, message string, data interface{}) error {
	return c.JSON(status, Response{Success: true, Message: message, Data: data})
}

// HTTPErrorHandler is the error boundary for handlers and the framework.
// Internal failures are logged and answered without details.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, body := errorResponse(err)
	if status >= http.StatusInternalServerError {
		logger.FromContext(c).Error("Request failed", zap.Error(err))
	}

	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(status)
	} else {
		writeErr = c.JSON(status, body)
	}
	if writeErr != nil {
		logger.FromContext(c).Error("Failed to write error response", zap.Error(writeErr))
	}
}

func errorResponse(err error) (int, Response) {
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		message := http.StatusText(httpErr.Code)
		if m, isText := httpErr.Message.(string); isText && m != "" {
			message = m
		}
		return httpErr.Code, Response{Message: message}
	}

	appErr := apperror.From(err)
	if appErr.Kind == apperror.KindInternal {
		return http.StatusInternalServerError, Response{Message: "Internal server error"}
	}
	return appErr.Kind.Status(), Response{Message: appErr.Message, Reason: appErr.Reason}
}

// bind decodes the request into dst, reporting malformed input as a validation error
func bind(c echo.Context, dst interface{}) error {
	if err := c.Bind(dst); err != nil {
		return apperror.Validation("Invalid request body")
	}
	return nil
}

// pathID reads a UUID path parameter; anything else cannot name an existing row
func pathID(c echo.Context, name, what string) (string, error) {
	id := c.Param(name)
	if uuid.Validate(id) != nil {
		return "", apperror.NotFound(what + " not found")
	}
	return id, nil
}

// caller returns the authenticated identity of the request
func caller(c echo.Context) (access.Caller, error) {
	who, found := middleware.CallerFrom(c)
	if !found {
		return access.Caller{}, apperror.Unauthenticated("", "Authentication required")
	}
	return who, nil
}
