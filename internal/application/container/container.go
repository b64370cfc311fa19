// Package container provides dependency injection for all singleton services
package container

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/NaijaReels/naijareels-go/internal/application/services"
	"github.com/NaijaReels/naijareels-go/internal/infrastructure/caching/cleanup"
	"github.com/NaijaReels/naijareels-go/internal/infrastructure/caching/manager"
	"github.com/NaijaReels/naijareels-go/internal/infrastructure/observability/logging"
	"github.com/NaijaReels/naijareels-go/internal/infrastructure/session"
	"github.com/NaijaReels/naijareels-go/internal/infrastructure/transport"
	"github.com/NaijaReels/naijareels-go/pkg/config"
)

// Container holds all singleton services and infrastructure dependencies
type Container struct {
	// Application services (stateless singletons over shared infrastructure)
	AuthService      *services.AuthService
	MovieService     *services.MovieService
	InventoryService *services.InventoryService
	RentalService    *services.RentalService
	AdminService     *services.AdminService
	CustomerService  *services.CustomerService

	// Infrastructure dependencies
	Logger       *logging.ChanneledLogger
	SessionStore *session.Store
	Coordinator  *session.Coordinator
	Gateway      *transport.Gateway
	CacheManager *manager.Manager

	cancelBackground context.CancelFunc
}

// Options overrides container defaults; zero values fall back to pkg/config.
type Options struct {
	BaseURL     string
	Persistence session.Persistence
	HTTPClient  *http.Client
	Logger      *logging.ChanneledLogger
}

// NewContainer creates and wires all singleton services
func NewContainer(opts Options) (*Container, error) {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = config.BackendBaseURL
	}

	logger := opts.Logger
	if logger == nil {
		var err error
		logger, err = logging.NewChanneledLogger(logging.EnvLoggerConfig())
		if err != nil {
			return nil, fmt.Errorf("failed to create logger: %w", err)
		}
	}

	persistence := opts.Persistence
	if persistence == nil {
		persistence = session.NewFilePersistence(config.StateDirectory,
			config.TokensFileName, config.UserFileName)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: config.RequestTimeout}
	}

	sessionStore := session.NewStore(persistence, logger)
	coordinator := session.NewCoordinator(sessionStore,
		transport.NewRefreshFunc(baseURL, httpClient), logger)
	gateway := transport.NewGateway(baseURL, httpClient, sessionStore, coordinator, logger)

	cacheManager := manager.NewManager(logger)

	ctx, cancel := context.WithCancel(context.Background())
	cleanupWorker := cleanup.NewWorker(cacheManager, cleanup.NewConfig(), logger)
	go cleanupWorker.Start(ctx)

	c := &Container{
		AuthService:      services.NewAuthService(gateway, cacheManager, sessionStore, logger),
		MovieService:     services.NewMovieService(gateway, cacheManager),
		InventoryService: services.NewInventoryService(gateway, cacheManager),
		RentalService:    services.NewRentalService(gateway, cacheManager, logger),
		AdminService:     services.NewAdminService(gateway, cacheManager),
		CustomerService:  services.NewCustomerService(gateway, cacheManager),

		Logger:       logger,
		SessionStore: sessionStore,
		Coordinator:  coordinator,
		Gateway:      gateway,
		CacheManager: cacheManager,

		cancelBackground: cancel,
	}

	// A session the backend no longer honors is cleared everywhere at once.
	sessionStore.OnSessionExpired(func() {
		cacheManager.Reset()
	})

	logger.Startup().Info("Container initialization complete",
		"baseUrl", baseURL, "timeout", config.RequestTimeout)
	return c, nil
}

// Close stops background workers.
func (c *Container) Close() error {
	start := time.Now()
	if c.cancelBackground != nil {
		c.cancelBackground()
	}
	c.Logger.Shutdown().Info("Container closed", "duration", time.Since(start))
	return nil
}
