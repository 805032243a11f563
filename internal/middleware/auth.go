package middleware

import (
	"strings"

	"taskhub-service/internal/access"
	"taskhub-service/internal/apperror"
	"taskhub-service/internal/model"
	"taskhub-service/pkg/jwtutil"
	"taskhub-service/pkg/logger"
	"taskhub-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const callerKey = "caller"

// TokenValidator checks a session token and returns its claims
type TokenValidator interface {
	ValidateToken(tokenString string) (*jwtutil.UserClaims, error)
}

// AuthMiddleware validates the Bearer token and stores the caller identity
// in the echo context
func AuthMiddleware(tokens TokenValidator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromContext(c)

			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				prometheus.RecordAuthError("missing_token")
				return apperror.Unauthenticated("", "Missing authorization token")
			}

			parts := strings.Fields(authHeader)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				prometheus.RecordAuthError("invalid_auth_format")
				return apperror.Unauthenticated("", "Invalid authorization format, expected Bearer token")
			}

			claims, err := tokens.ValidateToken(parts[1])
			if err != nil {
				log.Debug("Rejected session token", zap.Error(err))
				prometheus.RecordAuthError("invalid_token")
				return apperror.Unauthenticated("", "Invalid or expired token")
			}

			role := model.Role(claims.Role)
			if !role.Valid() || claims.UserID == "" || (role != model.RoleSuperAdmin && claims.TenantID == "") {
				prometheus.RecordAuthError("invalid_claims")
				return apperror.Unauthenticated("", "Invalid or expired token")
			}

			caller := access.Caller{UserID: claims.UserID, TenantID: claims.TenantID, Role: role}
			c.Set(callerKey, caller)
			logger.SetContextLogger(c, log.With(
				zap.String("user_id", caller.UserID),
				zap.String("tenant_id", caller.TenantID),
				zap.String("role", string(caller.Role))))

			return next(c)
		}
	}
}

// CallerFrom returns the identity stored by AuthMiddleware
func CallerFrom(c echo.Context) (access.Caller, bool) {
	caller, ok := c.Get(callerKey).(access.Caller)
	return caller, ok
}
