package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taskhub-service/internal/app"
	"taskhub-service/internal/service"
	"taskhub-service/pkg/config"
	"taskhub-service/pkg/database"
	"taskhub-service/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		// Can't use structured logger yet since it's not initialized
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	logger.InitLogger(appConfig)
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting taskhub-service", appConfig.LogConfig()...)

	// Initialize database
	db, err := database.InitDB(&appConfig.DB)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to migrate database", zap.Error(err))
	}
	log.Info("Database connection established")

	server := app.New(appConfig, db, log)

	// Seed the super admin account when configured
	if appConfig.Auth.SuperAdminEmail != "" && appConfig.Auth.SuperAdminPassword != "" {
		created, err := service.EnsureSuperAdmin(context.Background(), server.Store.Users(), server.Hasher, service.SuperAdminInput{
			Email:    appConfig.Auth.SuperAdminEmail,
			Password: appConfig.Auth.SuperAdminPassword,
			FullName: appConfig.Auth.SuperAdminName,
		}, log)
		if err != nil {
			log.Fatal("Failed to bootstrap super admin", zap.Error(err))
		}
		log.Info("Super admin bootstrap finished", zap.Bool("created", created))
	}

	// Start server
	port := appConfig.Server.Port
	go func() {
		log.Info("Starting server", zap.String("port", port))
		if err := server.Echo.Start(":" + port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Echo.Shutdown(ctx); err != nil {
		log.Error("Graceful shutdown failed", zap.Error(err))
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
