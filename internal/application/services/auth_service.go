package services

import (
	"context"
	"net/http"

	"github.com/NaijaReels/naijareels-go/internal/domain/user"
	"github.com/NaijaReels/naijareels-go/internal/infrastructure/caching/manager"
	"github.com/NaijaReels/naijareels-go/internal/infrastructure/caching/types"
	"github.com/NaijaReels/naijareels-go/internal/infrastructure/observability/logging"
	"github.com/NaijaReels/naijareels-go/internal/infrastructure/session"
	"github.com/NaijaReels/naijareels-go/internal/infrastructure/transport"
)

// AuthService handles login, registration, profile, and logout workflows.
type AuthService struct {
	gateway *transport.Gateway
	cache   *manager.Manager
	store   *session.Store
	logger  *logging.ChanneledLogger
}

// NewAuthService creates a new authentication service.
func NewAuthService(gateway *transport.Gateway, cache *manager.Manager, store *session.Store, logger *logging.ChanneledLogger) *AuthService {
	return &AuthService{
		gateway: gateway,
		cache:   cache,
		store:   store,
		logger:  logger,
	}
}

// Login authenticates against auth/login, installs the session, and resolves
// the profile. The entity cache is reset first so nothing cached under a
// previous user context survives into the new session.
func (s *AuthService) Login(ctx context.Context, creds user.LoginCredentials) (*user.Identity, error) {
	var tokens user.Tokens
	err := s.gateway.DoJSON(ctx, transport.Spec{
		Method: http.MethodPost,
		Path:   "auth/login/",
		Body:   creds,
	}, &tokens)
	if err != nil {
		if s.logger != nil {
			s.logger.LogAuthOperation("login", creds.Username, false)
		}
		return nil, err
	}

	s.cache.Reset()
	s.store.SetSession(tokens, nil)

	identity, err := s.Profile(ctx)
	if err != nil {
		// Tokens are valid even if the profile fetch failed; the session
		// stands and the profile resolves on a later read.
		if s.logger != nil {
			s.logger.Auth().Warn("Profile fetch after login failed", "error", err)
		}
		return nil, nil
	}

	if s.logger != nil {
		s.logger.LogAuthOperation("login", creds.Username, true)
	}
	return identity, nil
}

// Register creates an account via auth/register and then logs it in.
func (s *AuthService) Register(ctx context.Context, reg user.Registration) (*user.Identity, error) {
	err := s.gateway.DoJSON(ctx, transport.Spec{
		Method: http.MethodPost,
		Path:   "auth/register/",
		Body:   reg,
	}, nil)
	if err != nil {
		if s.logger != nil {
			s.logger.LogAuthOperation("register", reg.Username, false)
		}
		return nil, err
	}

	return s.Login(ctx, user.LoginCredentials{Username: reg.Username, Password: reg.Password})
}

// Profile returns the signed-in user's identity, cache-first. A fresh fetch
// also replaces the session's resolved identity.
func (s *AuthService) Profile(ctx context.Context) (*user.Identity, error) {
	return cacheRead(ctx, s.cache, types.ProfileKey(), []types.Tag{types.TagProfile},
		func(ctx context.Context) (*user.Identity, []types.Tag, error) {
			var identity user.Identity
			err := s.gateway.DoJSON(ctx, transport.Spec{
				Method:       http.MethodGet,
				Path:         "users/me/",
				RequiresAuth: true,
			}, &identity)
			if err != nil {
				return nil, nil, err
			}
			s.store.SetIdentity(&identity)
			return &identity, nil, nil
		})
}

// UpdateProfile patches users/me and replaces the identity wholesale. The
// profile tag is invalidated before the result is returned to the caller.
func (s *AuthService) UpdateProfile(ctx context.Context, update user.ProfileUpdate) (*user.Identity, error) {
	var identity user.Identity
	err := s.gateway.DoJSON(ctx, transport.Spec{
		Method:       http.MethodPatch,
		Path:         "users/me/",
		Body:         update,
		RequiresAuth: true,
	}, &identity)
	if err != nil {
		return nil, err
	}

	s.store.SetIdentity(&identity)
	s.cache.Invalidate(MutationTags(MutationProfileUpdate, 0)...)
	return &identity, nil
}

// ChangePassword posts users/me/change-password.
func (s *AuthService) ChangePassword(ctx context.Context, change user.PasswordChange) error {
	return s.gateway.DoJSON(ctx, transport.Spec{
		Method:       http.MethodPost,
		Path:         "users/me/change-password/",
		Body:         change,
		RequiresAuth: true,
	}, nil)
}

// Logout destroys the session and drops the entire entity cache.
func (s *AuthService) Logout() {
	s.store.ClearSession()
	s.cache.Reset()
	if s.logger != nil {
		s.logger.Auth().Info("Logged out")
	}
}
