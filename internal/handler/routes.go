package handler

import (
	"github.com/labstack/echo/v4"
)

// Handlers groups the resource handlers mounted by RegisterRoutes
type Handlers struct {
	Auth     *AuthHandler
	Tenants  *TenantHandler
	Users    *UserHandler
	Projects *ProjectHandler
	Tasks    *TaskHandler
}

// RegisterRoutes mounts the API under /api; requireAuth guards everything
// except health, registration and login
func RegisterRoutes(e *echo.Echo, h Handlers, requireAuth echo.MiddlewareFunc) {
	api := e.Group("/api")
	api.GET("/health", HealthCheck)

	auth := api.Group("/auth")
	auth.POST("/register-tenant", h.Auth.RegisterTenant)
	auth.POST("/login", h.Auth.Login)
	auth.GET("/me", h.Auth.Me, requireAuth)
	auth.POST("/logout", h.Auth.Logout, requireAuth)

	tenants := api.Group("/tenants", requireAuth)
	tenants.GET("", h.Tenants.ListTenants)
	tenants.GET("/:id", h.Tenants.GetTenant)
	tenants.PUT("/:id", h.Tenants.UpdateTenant)
	tenants.POST("/:id/users", h.Users.AddUser)
	tenants.GET("/:id/users", h.Users.ListUsers)

	users := api.Group("/users", requireAuth)
	users.PUT("/:id", h.Users.UpdateUser)
	users.DELETE("/:id", h.Users.DeleteUser)

	projects := api.Group("/projects", requireAuth)
	projects.POST("", h.Projects.CreateProject)
	projects.GET("", h.Projects.ListProjects)
	projects.GET("/:id", h.Projects.GetProject)
	projects.PUT("/:id", h.Projects.UpdateProject)
	projects.DELETE("/:id", h.Projects.DeleteProject)
	projects.POST("/:id/tasks", h.Tasks.CreateTask)
	projects.GET("/:id/tasks", h.Tasks.ListTasks)

	tasks := api.Group("/tasks", requireAuth)
	tasks.PATCH("/:id/status", h.Tasks.UpdateTaskStatus)
	tasks.PUT("/:id", h.Tasks.UpdateTask)
}
