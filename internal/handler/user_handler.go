package handler

import (
	"net/http"

	"taskhub-service/internal/service"

	"github.com/labstack/echo/v4"
)

type UserHandler struct {
	users service.UserService
}

func NewUserHandler(users service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// AddUser handles POST /tenants/:id/users
func (h *UserHandler) AddUser(c echo.Context) error {
	who, err := caller(c)
	if err != nil {
		return err
	}
	tenantID, err := pathID(c, "id", "Tenant")
	if err != nil {
		return err
	}

	var req service.AddUserInput
	if err := bind(c, &req); err != nil {
		return err
	}

	user, err := h.users.Add(c.Request().Context(), who, tenantID, req)
	if err != nil {
		return err
	}
	return ok(c, http.StatusCreated, "User created successfully", user)
}

// ListUsers handles GET /tenants/:id/users
func (h *UserHandler) ListUsers(c echo.Context) error {
	who, err := caller(c)
	if err != nil {
		return err
	}
	tenantID, err := pathID(c, "id", "Tenant")
	if err != nil {
		return err
	}

	var query service.ListUsersInput
	if err := bind(c, &query); err != nil {
		return err
	}

	list, err := h.users.List(c.Request().Context(), who, tenantID, query)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, "", list)
}

// UpdateUser handles PUT /users/:id
func (h *UserHandler) UpdateUser(c echo.Context) error {
	who, err := caller(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id", "User")
	if err != nil {
		return err
	}

	var req service.UpdateUserInput
	if err := bind(c, &req); err != nil {
		return err
	}

	user, err := h.users.Update(c.Request().Context(), who, id, req)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, "User updated successfully", user)
}

// DeleteUser handles DELETE /users/:id
func (h *UserHandler) DeleteUser(c echo.Context) error {
	who, err := caller(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id", "User")
	if err != nil {
		return err
	}

	if err := h.users.Delete(c.Request().Context(), who, id); err != nil {
		return err
	}
	return ok(c, http.StatusOK, "User deleted successfully", nil)
}
