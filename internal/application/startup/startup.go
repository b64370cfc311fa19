// Package startup prepares the devstack backend server.
package startup

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/NaijaReels/naijareels-go/internal/devstack/store"
	"github.com/NaijaReels/naijareels-go/internal/infrastructure/observability/logging"
	"github.com/NaijaReels/naijareels-go/internal/infrastructure/security"
	"github.com/NaijaReels/naijareels-go/internal/presentation/http/server"
	"github.com/NaijaReels/naijareels-go/pkg/config"
)

// Initialize performs the complete devstack startup sequence and blocks until
// a shutdown signal arrives.
func Initialize() error {
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	start := time.Now().UTC()

	logger, err := logging.NewChanneledLogger(logging.EnvLoggerConfig())
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	logger.Startup().Info("Starting devstack backend")

	db, err := store.NewStore(config.DevstackDBPath, logger)
	if err != nil {
		return fmt.Errorf("failed to open devstack store: %w", err)
	}
	defer db.Close()

	issuer := security.NewTokenIssuer(config.DevstackJWTSecret,
		config.DevstackAccessTTL, config.DevstackRefreshTTL)

	httpServer := server.New(config.DevstackPort, db, issuer, logger)

	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := httpServer.Start(); err != nil {
			logger.System().Error("HTTP server failed", "error", err.Error())
		}
	}()

	logger.Startup().Info("Devstack startup complete",
		"port", config.DevstackPort,
		"database", config.DevstackDBPath,
		"totalDuration", time.Since(start))

	<-gracefulShutdown
	logger.Shutdown().Info("Shutdown signal received, starting graceful shutdown")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Shutdown().Error("Error during server shutdown", "error", err.Error())
	}

	logger.Shutdown().Info("Devstack shutdown complete", "totalUptime", time.Since(start))
	return nil
}
