package handler

import (
	"net/http"

	"taskhub-service/internal/service"

	"github.com/labstack/echo/v4"
)

type TaskHandler struct {
	tasks service.TaskService
}

func NewTaskHandler(tasks service.TaskService) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

// CreateTask handles POST /projects/:id/tasks
func (h *TaskHandler) CreateTask(c echo.Context) error {
	who, err := caller(c)
	if err != nil {
		return err
	}
	projectID, err := pathID(c, "id", "Project")
	if err != nil {
		return err
	}

	var req service.CreateTaskInput
	if err := bind(c, &req); err != nil {
		return err
	}

	task, err := h.tasks.Create(c.Request().Context(), who, projectID, req)
	if err != nil {
		return err
	}
	return ok(c, http.StatusCreated, "Task created successfully", task)
}

// ListTasks handles GET /projects/:id/tasks
func (h *TaskHandler) ListTasks(c echo.Context) error {
	who, err := caller(c)
	if err != nil {
		return err
	}
	projectID, err := pathID(c, "id", "Project")
	if err != nil {
		return err
	}

	var query service.ListTasksInput
	if err := bind(c, &query); err != nil {
		return err
	}

	list, err := h.tasks.List(c.Request().Context(), who, projectID, query)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, "", list)
}

// UpdateTaskStatus handles PATCH /tasks/:id/status
func (h *TaskHandler) UpdateTaskStatus(c echo.Context) error {
	who, err := caller(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id", "Task")
	if err != nil {
		return err
	}

	var req service.UpdateTaskStatusInput
	if err := bind(c, &req); err != nil {
		return err
	}

	task, err := h.tasks.UpdateStatus(c.Request().Context(), who, id, req)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, "Task status updated successfully", task)
}

// UpdateTask handles PUT /tasks/:id
func (h *TaskHandler) UpdateTask(c echo.Context) error {
	who, err := caller(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id", "Task")
	if err != nil {
		return err
	}

	var req service.UpdateTaskInput
	if err := bind(c, &req); err != nil {
		return err
	}

	task, err := h.tasks.Update(c.Request().Context(), who, id, req)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, "Task updated successfully", task)
}
