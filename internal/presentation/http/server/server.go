// Package server provides HTTP server initialization and management for the
// devstack backend.
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/NaijaReels/naijareels-go/internal/devstack/store"
	"github.com/NaijaReels/naijareels-go/internal/infrastructure/observability/logging"
	"github.com/NaijaReels/naijareels-go/internal/infrastructure/security"
	"github.com/NaijaReels/naijareels-go/internal/presentation/http/routes"
	"github.com/NaijaReels/naijareels-go/pkg/config"
)

// Server wraps the HTTP server with configuration and dependency injection.
type Server struct {
	httpServer *http.Server
	logger     *logging.ChanneledLogger
}

// New creates a new HTTP server instance for the devstack backend.
func New(port string, db *store.Store, issuer *security.TokenIssuer, logger *logging.ChanneledLogger) *Server {
	router := routes.SetupRoutes(db, issuer, logger)

	httpServer := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  config.DevstackReadTimeout,
		WriteTimeout: config.DevstackWriteTimeout,
	}

	return &Server{httpServer: httpServer, logger: logger}
}

// Start begins listening for HTTP requests.
func (s *Server) Start() error {
	s.logger.System().Info("Starting devstack HTTP server", "address", s.httpServer.Addr)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}
	return nil
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Shutdown().Info("Shutting down devstack HTTP server")
	return s.httpServer.Shutdown(ctx)
}
