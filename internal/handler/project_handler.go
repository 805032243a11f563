package handler

import (
	"net/http"

	"taskhub-service/internal/service"

	"github.com/labstack/echo/v4"
)

type ProjectHandler struct {
	projects service.ProjectService
}

func NewProjectHandler(projects service.ProjectService) *ProjectHandler {
	return &ProjectHandler{projects: projects}
}

// CreateProject handles POST /projects
func (h *ProjectHandler) CreateProject(c echo.Context) error {
	who, err := caller(c)
	if err != nil {
		return err
	}

	var req service.CreateProjectInput
	if err := bind(c, &req); err != nil {
		return err
	}

	project, err := h.projects.Create(c.Request().Context(), who, req)
	if err != nil {
		return err
	}
	return ok(c, http.StatusCreated, "Project created successfully", project)
}

// ListProjects handles GET /projects
func (h *ProjectHandler) ListProjects(c echo.Context) error {
	who, err := caller(c)
	if err != nil {
		return err
	}

	var query service.ListProjectsInput
	if err := bind(c, &query); err != nil {
		return err
	}

	list, err := h.projects.List(c.Request().Context(), who, query)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, "", list)
}

// GetProject handles GET /projects/:id
func (h *ProjectHandler) GetProject(c echo.Context) error {
	who, err := caller(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id", "Project")
	if err != nil {
		return err
	}

	project, err := h.projects.Get(c.Request().Context(), who, id)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, "", project)
}

// UpdateProject handles PUT /projects/:id
func (h *ProjectHandler) UpdateProject(c echo.Context) error {
	who, err := caller(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id", "Project")
	if err != nil {
		return err
	}

	var req service.UpdateProjectInput
	if err := bind(c, &req); err != nil {
		return err
	}

	project, err := h.projects.Update(c.Request().Context(), who, id, req)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, "Project updated successfully", project)
}

// DeleteProject handles DELETE /projects/:id
func (h *ProjectHandler) DeleteProject(c echo.Context) error {
	who, err := caller(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id", "Project")
	if err != nil {
		return err
	}

	if err := h.projects.Delete(c.Request().Context(), who, id); err != nil {
		return err
	}
	return ok(c, http.StatusOK, "Project deleted successfully", nil)
}
