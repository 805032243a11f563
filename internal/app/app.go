// Package app assembles the HTTP server from configuration and a database handle.
package app

import (
	"taskhub-service/internal/audit"
	"taskhub-service/internal/handler"
	mid "taskhub-service/internal/middleware"
	"taskhub-service/internal/service"
	"taskhub-service/internal/store"
	"taskhub-service/pkg/config"
	"taskhub-service/pkg/jwtutil"
	"taskhub-service/pkg/logger"
	"taskhub-service/pkg/password"
	"taskhub-service/prometheus"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App is the wired service: the echo router plus what startup tasks need
type App struct {
	Echo   *echo.Echo
	Store  *store.Store
	Hasher *password.Hasher
}

// New wires stores, services, handlers and middleware
func New(cfg *config.Config, db *gorm.DB, log *zap.Logger) *App {
	stores := store.New(db)
	hasher := password.NewHasher(cfg.Auth.BcryptCost)
	tokens := jwtutil.NewJWTUtil(&cfg.JWT)
	recorder := audit.NewRecorder(stores.AuditLogs(), log)

	handlers := handler.Handlers{
		Auth:     handler.NewAuthHandler(service.NewAuthService(stores, stores, hasher, tokens, recorder, log)),
		Tenants:  handler.NewTenantHandler(service.NewTenantService(stores, recorder, log)),
		Users:    handler.NewUserHandler(service.NewUserService(stores, stores, hasher, recorder, log)),
		Projects: handler.NewProjectHandler(service.NewProjectService(stores, stores, recorder, log)),
		Tasks:    handler.NewTaskHandler(service.NewTaskService(stores, recorder, log)),
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = handler.HTTPErrorHandler

	// Middleware
	e.Use(middleware.Recover())
	e.Use(mid.RequestIDMiddleware)
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.Server.AllowedOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, echo.HeaderXRequestID},
	}))
	if cfg.Metrics.Enabled {
		e.Use(prometheus.MetricsMiddleware())
		e.GET(cfg.Metrics.Path, echo.WrapHandler(prometheus.GetPrometheusHandler()))
	}
	e.Use(logger.Middleware(log))
	e.Use(mid.ClientIPMiddleware)

	handler.RegisterRoutes(e, handlers, mid.AuthMiddleware(tokens))

	return &App{Echo: e, Store: stores, Hasher: hasher}
}
