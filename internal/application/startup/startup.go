// Package startup prepares the application server
package startup

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Win2WinFormation/win2win-go/internal/application/container"
	"github.com/Win2WinFormation/win2win-go/internal/infrastructure/backend"
	"github.com/Win2WinFormation/win2win-go/internal/infrastructure/email"
	"github.com/Win2WinFormation/win2win-go/internal/infrastructure/messaging"
	"github.com/Win2WinFormation/win2win-go/internal/infrastructure/observability/logging"
	"github.com/Win2WinFormation/win2win-go/internal/infrastructure/observability/performance"
	"github.com/Win2WinFormation/win2win-go/internal/presentation/http/server"
	"github.com/Win2WinFormation/win2win-go/pkg/config"
	"github.com/gin-gonic/gin"
)

// Initialize performs the complete startup sequence
func Initialize() error {
	setupLogging()

	start := time.Now().UTC()

	ctx, cancelBackgroundTasks := context.WithCancel(context.Background())
	defer cancelBackgroundTasks()

	log.Println("Win2Win backend starting...")

	// Step 1: Channeled logging
	loggerConfig := logging.DefaultLoggerConfig()
	loggerConfig.LogDirectory = config.LogDirectory
	logger, err := logging.NewChanneledLogger(loggerConfig)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	logger.Startup().Info("Channeled logging initialized", "logDirectory", config.LogDirectory)

	// Step 2: Backend client
	backendClient := backend.NewClient(config.BackendBaseURL, config.BackendTimeout, logger)
	logger.Startup().Info("Backend client initialized", "baseUrl", config.BackendBaseURL)

	// Step 3: Email service (optional; the newsletter works without it)
	emailService, err := email.NewService()
	if err != nil {
		logger.Startup().Warn("Email service unavailable, confirmation emails disabled", "reason", err.Error())
		emailService = nil
	} else {
		logger.Startup().Info("Email service initialized")
	}

	// Step 4: Admin activity feed
	broadcaster := messaging.NewActivityBroadcaster(config.ActivityHeartbeatInterval, config.MaxActivityClients, logger)
	go broadcaster.Run(ctx)
	logger.Startup().Info("Activity broadcaster started")

	// Step 5: Dependency injection container
	perfTracker := performance.NewTracker()
	appContainer := container.NewContainer(logger, perfTracker, backendClient, emailService, broadcaster)
	logger.Startup().Info("Dependency injection container created with singleton services")

	if config.JWTSecret == "" || config.AdminPassword == "" {
		logger.Startup().Warn("JWT_SECRET or ADMIN_PASSWORD not configured, back-office endpoints will reject all logins")
	}

	// Step 6: HTTP server
	httpServer := server.New(config.Port, appContainer)

	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.System().Info("Starting HTTP server", "address", ":"+config.Port)
		if err := httpServer.Start(); err != nil {
			logger.System().Error("HTTP server failed", "error", err.Error())
		}
	}()

	logger.Startup().Info("Application startup complete",
		"totalDuration", time.Since(start),
		"port", config.Port)

	// Wait for shutdown signal
	<-gracefulShutdown
	logger.Shutdown().Info("Shutdown signal received, starting graceful shutdown...")

	shutdownStart := time.Now()

	// Cancel background tasks (activity broadcaster)
	cancelBackgroundTasks()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger.Shutdown().Info("Stopping HTTP server...")
	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Shutdown().Error("Error during server shutdown", "error", err.Error())
	} else {
		logger.Shutdown().Info("HTTP server stopped successfully")
	}

	// Let in-flight fire-and-forget forwards finish before exit
	logger.Shutdown().Info("Flushing detached backend tasks...")
	backendClient.Flush()

	logger.Shutdown().Info("Application shutdown complete",
		"totalUptime", time.Since(start),
		"shutdownDuration", time.Since(shutdownStart))

	return nil
}

// setupLogging configures application logging
func setupLogging() {
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	log.SetFlags(log.LstdFlags | log.Lshortfile)
}
