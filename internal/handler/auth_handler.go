package handler

import (
	"net/http"

	"taskhub-service/internal/service"
	"taskhub-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type AuthHandler struct {
	auth service.AuthService
}

func NewAuthHandler(auth service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// RegisterTenant handles POST /auth/register-tenant
func (h *AuthHandler) RegisterTenant(c echo.Context) error {
	var req service.RegisterTenantInput
	if err := bind(c, &req); err != nil {
		return err
	}

	reg, err := h.auth.RegisterTenant(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return ok(c, http.StatusCreated, "Tenant registered successfully", reg)
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c echo.Context) error {
	log := logger.FromContext(c)

	var req service.LoginInput
	if err := bind(c, &req); err != nil {
		return err
	}

	session, err := h.auth.Login(c.Request().Context(), req)
	if err != nil {
		log.Info("Login rejected", zap.String("email", req.Email), zap.String("subdomain", req.TenantSubdomain), zap.Error(err))
		return err
	}

	log.Info("User logged in",
		zap.String("user_id", session.User.ID),
		zap.String("role", string(session.User.Role)))
	return ok(c, http.StatusOK, "", session)
}

// Me handles GET /auth/me
func (h *AuthHandler) Me(c echo.Context) error {
	who, err := caller(c)
	if err != nil {
		return err
	}

	profile, err := h.auth.Me(c.Request().Context(), who)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, "", profile)
}

// Logout handles POST /auth/logout
func (h *AuthHandler) Logout(c echo.Context) error {
	who, err := caller(c)
	if err != nil {
		return err
	}

	if err := h.auth.Logout(c.Request().Context(), who); err != nil {
		return err
	}
	return ok(c, http.StatusOK, "Logged out successfully", nil)
}
