package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NaijaReels/naijareels-go/internal/domain/user"
	"github.com/NaijaReels/naijareels-go/internal/infrastructure/caching/manager"
	"github.com/NaijaReels/naijareels-go/internal/infrastructure/caching/types"
	"github.com/NaijaReels/naijareels-go/internal/infrastructure/observability/logging"
	"github.com/NaijaReels/naijareels-go/internal/infrastructure/session"
	"github.com/NaijaReels/naijareels-go/internal/infrastructure/transport"
)

func newAuthRig(t *testing.T, handler http.Handler) (*AuthService, *manager.Manager, *session.Store) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	logger := logging.Silent()
	store := session.NewStore(session.NewMemoryPersistence(), logger)
	coordinator := session.NewCoordinator(store, transport.NewRefreshFunc(server.URL+"/api/", server.Client()), logger)
	gateway := transport.NewGateway(server.URL+"/api/", server.Client(), store, coordinator, logger)
	cache := manager.NewManager(logger)
	return NewAuthService(gateway, cache, store, logger), cache, store
}

func TestLoginInstallsSessionAndResetsCache(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, user.Tokens{Access: "access-1", Refresh: "refresh-1"})
	})
	mux.HandleFunc("GET /api/users/me/", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer access-1", r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, user.Identity{ID: 3, Username: "ade", Role: user.RoleCustomer})
	})

	service, cache, store := newAuthRig(t, mux)

	// Something cached under no/another session context.
	_, _ = cache.Read(context.Background(), "movies?page=1", []types.Tag{types.TagMoviesList},
		func(ctx context.Context) (any, []types.Tag, error) { return "stale-user-data", nil, nil })

	identity, err := service.Login(context.Background(), user.LoginCredentials{Username: "ade", Password: "secret123"})
	require.NoError(t, err)
	require.NotNil(t, identity)
	assert.Equal(t, "ade", identity.Username)

	snapshot := store.Snapshot()
	assert.True(t, snapshot.Authenticated)
	assert.Equal(t, "access-1", snapshot.AccessToken)
	require.NotNil(t, snapshot.User)
	assert.Equal(t, user.RoleCustomer, snapshot.User.Role)

	_, cachedBefore := cache.Entry("movies?page=1")
	assert.False(t, cachedBefore, "login must drop entries cached under the previous context")

	profile, cachedProfile := cache.Entry(types.ProfileKey())
	require.True(t, cachedProfile, "the post-login profile fetch lands in the cache")
	assert.Equal(t, types.StateFresh, profile.State)
}

func TestLoginToleratesProfileFetchFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, user.Tokens{Access: "access-1", Refresh: "refresh-1"})
	})
	mux.HandleFunc("GET /api/users/me/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "boom"})
	})

	service, _, store := newAuthRig(t, mux)

	identity, err := service.Login(context.Background(), user.LoginCredentials{Username: "ade", Password: "secret123"})
	require.NoError(t, err, "valid tokens stand even when the profile fetch fails")
	assert.Nil(t, identity)
	assert.True(t, store.Snapshot().Authenticated)
}

func TestLoginRejectedLeavesSessionUntouched(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized,
			map[string]string{"detail": "No active account found with the given credentials"})
	})

	service, _, store := newAuthRig(t, mux)

	_, err := service.Login(context.Background(), user.LoginCredentials{Username: "ade", Password: "nope"})
	require.ErrorIs(t, err, transport.ErrUnauthorized)
	assert.False(t, store.Snapshot().Authenticated)
}

func TestLogoutClearsSessionAndCache(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, user.Tokens{Access: "access-1", Refresh: "refresh-1"})
	})
	mux.HandleFunc("GET /api/users/me/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, user.Identity{ID: 3, Username: "ade", Role: user.RoleCustomer})
	})

	service, cache, store := newAuthRig(t, mux)
	_, err := service.Login(context.Background(), user.LoginCredentials{Username: "ade", Password: "secret123"})
	require.NoError(t, err)

	service.Logout()
	assert.False(t, store.Snapshot().Authenticated)
	assert.Equal(t, 0, cache.Len())
}
