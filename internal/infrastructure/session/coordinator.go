package session

import (
	"context"
	"fmt"

	"golang.org/x/sync/singleflight"

	"github.com/NaijaReels/naijareels-go/internal/infrastructure/observability/logging"
)

// RefreshFunc performs the raw token/refresh call against the backend and
// returns the new access token. It must not route back through the
// authenticated gateway, or a dying session would recurse into itself.
type RefreshFunc func(ctx context.Context, refreshToken string) (string, error)

// Coordinator serializes token refresh. However many requests hit a 401 at
// once, exactly one refresh call goes upstream; every concurrent caller
// shares its result. A second refresh after settlement starts a new flight.
type Coordinator struct {
	store   *Store
	refresh RefreshFunc
	group   singleflight.Group
	logger  *logging.ChanneledLogger
}

// NewCoordinator creates a refresh coordinator bound to the session store.
func NewCoordinator(store *Store, refresh RefreshFunc, logger *logging.ChanneledLogger) *Coordinator {
	return &Coordinator{
		store:   store,
		refresh: refresh,
		logger:  logger,
	}
}

// Refresh obtains a fresh access token, single-flight. On success the store
// rotates the access token before any waiter is released. On failure the
// session is expired and ErrSessionExpired is returned to every waiter; the
// coordinator never retries on its own.
func (c *Coordinator) Refresh(ctx context.Context) (string, error) {
	result, err, shared := c.group.Do("token_refresh", func() (any, error) {
		refreshToken := c.store.RefreshToken()
		if refreshToken == "" {
			return nil, ErrSessionExpired
		}

		if c.logger != nil {
			c.logger.Auth().Info("Refreshing access token")
		}

		access, err := c.refresh(ctx, refreshToken)
		if err != nil {
			c.store.Expire()
			return nil, fmt.Errorf("token refresh rejected: %w", ErrSessionExpired)
		}

		c.store.RotateAccessToken(access)
		return access, nil
	})
	if err != nil {
		return "", err
	}

	if shared && c.logger != nil {
		c.logger.Auth().Debug("Refresh result shared with concurrent caller")
	}
	return result.(string), nil
}
