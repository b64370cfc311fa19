package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/NaijaReels/naijareels-go/internal/domain/user"
	"github.com/NaijaReels/naijareels-go/internal/infrastructure/observability/logging"
)

// ErrSessionExpired signals that the refresh token was rejected and the
// session has been torn down. It is raised at most once per expiry.
var ErrSessionExpired = errors.New("session expired")

// Session is the current authentication state. Authenticated is true exactly
// when an access token is held; User stays nil until the profile is resolved
// even if tokens exist.
type Session struct {
	AccessToken   string
	RefreshToken  string
	User          *user.Identity
	Authenticated bool
}

// Store owns the session for the lifetime of the client process. It hydrates
// synchronously from persistence at construction and persists every change.
type Store struct {
	mu              sync.RWMutex
	session         Session
	persistence     Persistence
	logger          *logging.ChanneledLogger
	expiredHandlers []func()
	expiredOnce     bool
}

// NewStore creates a session store hydrated from the given persistence layer.
func NewStore(persistence Persistence, logger *logging.ChanneledLogger) *Store {
	s := &Store{
		persistence: persistence,
		logger:      logger,
	}

	tokens, err := persistence.LoadTokens()
	if err != nil && logger != nil {
		logger.Auth().Warn("Session hydration failed, starting unauthenticated", "error", err)
	}
	if tokens != nil {
		s.session.AccessToken = tokens.Access
		s.session.RefreshToken = tokens.Refresh
		s.session.Authenticated = true

		if identity, err := persistence.LoadIdentity(); err == nil && identity != nil {
			s.session.User = identity
		}
		if logger != nil {
			logger.Auth().Info("Session hydrated from persisted state", "hasIdentity", s.session.User != nil)
		}
	}

	return s
}

// Snapshot returns a copy of the current session.
func (s *Store) Snapshot() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

// AccessToken returns the current access token, or "" when unauthenticated.
func (s *Store) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.AccessToken
}

// RefreshToken returns the current refresh token, or "" when unauthenticated.
func (s *Store) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.RefreshToken
}

// SetSession installs a new token pair (and identity when already known) after
// login or register, and persists both keys.
func (s *Store) SetSession(tokens user.Tokens, identity *user.Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session.AccessToken = tokens.Access
	s.session.RefreshToken = tokens.Refresh
	s.session.Authenticated = true
	s.expiredOnce = false
	if identity != nil {
		s.session.User = identity
	}

	if err := s.persistence.SaveTokens(&tokens); err != nil && s.logger != nil {
		s.logger.Auth().Warn("Failed to persist tokens", "error", err)
	}
	if identity != nil {
		if err := s.persistence.SaveIdentity(identity); err != nil && s.logger != nil {
			s.logger.Auth().Warn("Failed to persist identity", "error", err)
		}
	}
}

// SetIdentity replaces the resolved identity wholesale after a profile fetch
// or update.
func (s *Store) SetIdentity(identity *user.Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session.User = identity
	if err := s.persistence.SaveIdentity(identity); err != nil && s.logger != nil {
		s.logger.Auth().Warn("Failed to persist identity", "error", err)
	}
}

// RotateAccessToken swaps in a freshly refreshed access token. The refresh
// token is retained; the backend does not rotate it on refresh.
func (s *Store) RotateAccessToken(access string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session.AccessToken = access
	s.session.Authenticated = true

	tokens := user.Tokens{Access: access, Refresh: s.session.RefreshToken}
	if err := s.persistence.SaveTokens(&tokens); err != nil && s.logger != nil {
		s.logger.Auth().Warn("Failed to persist refreshed token", "error", err)
	}
}

// ClearSession destroys the session on explicit logout.
func (s *Store) ClearSession() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearLocked()
}

// OnSessionExpired registers a handler invoked once when the session dies of
// an unrecoverable refresh failure. Handlers run outside the store lock.
func (s *Store) OnSessionExpired(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expiredHandlers = append(s.expiredHandlers, fn)
}

// Expire tears the session down after a failed refresh and fires the
// session-expired handlers exactly once per expiry.
func (s *Store) Expire() {
	s.mu.Lock()
	if s.expiredOnce {
		s.mu.Unlock()
		return
	}
	s.expiredOnce = true
	s.clearLocked()
	handlers := make([]func(), len(s.expiredHandlers))
	copy(handlers, s.expiredHandlers)
	s.mu.Unlock()

	if s.logger != nil {
		s.logger.Auth().Warn("Session expired, forcing logout")
	}
	for _, fn := range handlers {
		fn()
	}
}

func (s *Store) clearLocked() {
	s.session = Session{}
	if err := s.persistence.Clear(); err != nil && s.logger != nil {
		s.logger.Auth().Warn("Failed to clear persisted session", "error", err)
	}
}

// TokenClaims are the identity claims the client reads out of an access
// token. The token is parsed unverified: the client holds no signing key and
// the backend remains the authority on every request.
type TokenClaims struct {
	UserID    int
	Username  string
	Role      user.Role
	ExpiresAt time.Time
}

// DecodeClaims extracts identity claims from a JWT access token.
func DecodeClaims(token string) (*TokenClaims, error) {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("failed to decode access token: %w", err)
	}

	out := &TokenClaims{}
	if v, ok := claims["user_id"].(float64); ok {
		out.UserID = int(v)
	}
	if v, ok := claims["username"].(string); ok {
		out.Username = v
	}
	if v, ok := claims["role"].(string); ok {
		out.Role = user.Role(v)
	}
	if v, ok := claims["exp"].(float64); ok {
		out.ExpiresAt = time.Unix(int64(v), 0)
	}
	return out, nil
}
