package handler

import (
	"net/http"

	"taskhub-service/internal/service"

	"github.com/labstack/echo/v4"
)

type TenantHandler struct {
	tenants service.TenantService
}

func NewTenantHandler(tenants service.TenantService) *TenantHandler {
	return &TenantHandler{tenants: tenants}
}

// ListTenants handles GET /tenants
func (h *TenantHandler) ListTenants(c echo.Context) error {
	who, err := caller(c)
	if err != nil {
		return err
	}

	var query service.ListTenantsInput
	if err := bind(c, &query); err != nil {
		return err
	}

	page, err := h.tenants.List(c.Request().Context(), who, query)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, "", page)
}

// GetTenant handles GET /tenants/:id
func (h *TenantHandler) GetTenant(c echo.Context) error {
	who, err := caller(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id", "Tenant")
	if err != nil {
		return err
	}

	details, err := h.tenants.Get(c.Request().Context(), who, id)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, "", details)
}

// UpdateTenant handles PUT /tenants/:id
func (h *TenantHandler) UpdateTenant(c echo.Context) error {
	who, err := caller(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id", "Tenant")
	if err != nil {
		return err
	}

	var req service.UpdateTenantInput
	if err := bind(c, &req); err != nil {
		return err
	}

	tenant, err := h.tenants.Update(c.Request().Context(), who, id, req)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, "Tenant updated successfully", tenant)
}
