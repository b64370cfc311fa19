package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NaijaReels/naijareels-go/internal/domain/catalog"
	"github.com/NaijaReels/naijareels-go/internal/domain/user"
	"github.com/NaijaReels/naijareels-go/internal/infrastructure/caching/manager"
	"github.com/NaijaReels/naijareels-go/internal/infrastructure/caching/types"
	"github.com/NaijaReels/naijareels-go/internal/infrastructure/observability/logging"
	"github.com/NaijaReels/naijareels-go/internal/infrastructure/session"
	"github.com/NaijaReels/naijareels-go/internal/infrastructure/transport"
)

func newRentalRig(t *testing.T, handler http.Handler) (*RentalService, *manager.Manager) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	logger := logging.Silent()
	store := session.NewStore(session.NewMemoryPersistence(), logger)
	store.SetSession(
		user.Tokens{Access: "access-1", Refresh: "refresh-1"},
		&user.Identity{ID: 1, Username: "ade", Role: user.RoleCustomer},
	)
	coordinator := session.NewCoordinator(store, transport.NewRefreshFunc(server.URL+"/api/", server.Client()), logger)
	gateway := transport.NewGateway(server.URL+"/api/", server.Client(), store, coordinator, logger)
	cache := manager.NewManager(logger)
	return NewRentalService(gateway, cache, logger), cache
}

// seedInventory installs a fresh per-movie inventory entry the way
// InventoryService.ForMovie would have cached it.
func seedInventory(cache *manager.Manager, movieID, total, available int) *catalog.Inventory {
	record := &catalog.Inventory{
		ID:              movieID,
		Movie:           movieID,
		TotalCopies:     total,
		AvailableCopies: available,
		RentedOut:       total - available,
	}
	key := types.MovieInventoryKey(movieID)
	_, _ = cache.Read(context.Background(), key, []types.Tag{types.InventoryItemTag(movieID)},
		func(ctx context.Context) (any, []types.Tag, error) {
			return record, nil, nil
		})
	return record
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func TestRentAppliesDeltaThenInvalidatesOnSuccess(t *testing.T) {
	var sawRequest atomic.Bool
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/rentals/", func(w http.ResponseWriter, r *http.Request) {
		sawRequest.Store(true)
		var payload map[string]int
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, 3, payload["movie"])
		writeJSON(w, http.StatusCreated, catalog.Rental{ID: 11, MovieTitle: "Jagun Jagun", Status: "active"})
	})

	service, cache := newRentalRig(t, mux)
	seedInventory(cache, 3, 5, 2)

	rental, err := service.Rent(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, 11, rental.ID)
	assert.True(t, sawRequest.Load())

	// Committed: the provisional entry stays but is stale, so the next read
	// replaces it with server truth.
	entry, ok := cache.Entry(types.MovieInventoryKey(3))
	require.True(t, ok)
	inventory, ok := entry.Data.(*catalog.Inventory)
	require.True(t, ok)
	assert.Equal(t, 1, inventory.AvailableCopies)
	assert.Equal(t, 4, inventory.RentedOut)
	assert.NotEqual(t, types.StateFresh, entry.State)
}

func TestRentRollsBackExactSnapshotOnFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/rentals/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusConflict, map[string]string{"detail": "No copies available"})
	})

	service, cache := newRentalRig(t, mux)
	seedInventory(cache, 7, 4, 1)
	before, ok := cache.Entry(types.MovieInventoryKey(7))
	require.True(t, ok)

	_, err := service.Rent(context.Background(), 7)
	require.ErrorIs(t, err, transport.ErrConflict)

	after, ok := cache.Entry(types.MovieInventoryKey(7))
	require.True(t, ok)
	assert.Equal(t, before.Data, after.Data, "rollback must restore the exact pre-mutation value")
	assert.Equal(t, before.State, after.State)
	assert.Equal(t, before.FetchedAt, after.FetchedAt)
}

func TestRentFailsFastOnFreshZeroCopies(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected backend call %s %s", r.Method, r.URL.Path)
	})

	service, cache := newRentalRig(t, mux)
	seedInventory(cache, 9, 2, 0)

	_, err := service.Rent(context.Background(), 9)
	require.ErrorIs(t, err, ErrNoCopiesAvailable)
	assert.ErrorIs(t, err, transport.ErrConflict)
}

func TestRentWithStaleZeroCopiesDefersToServer(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/rentals/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, catalog.Rental{ID: 21, Status: "active"})
	})

	service, cache := newRentalRig(t, mux)
	seedInventory(cache, 4, 2, 0)
	cache.Invalidate(types.InventoryItemTag(4))

	rental, err := service.Rent(context.Background(), 4)
	require.NoError(t, err, "a stale zero-copies entry must not short-circuit the rent")
	assert.Equal(t, 21, rental.ID)
}

func TestRentRejectsConcurrentMutationForSameMovie(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/rentals/", func(w http.ResponseWriter, r *http.Request) {
		close(entered)
		<-release
		writeJSON(w, http.StatusCreated, catalog.Rental{ID: 31, Status: "active"})
	})

	service, cache := newRentalRig(t, mux)
	seedInventory(cache, 5, 3, 3)

	done := make(chan error, 1)
	go func() {
		_, err := service.Rent(context.Background(), 5)
		done <- err
	}()

	<-entered
	_, err := service.Rent(context.Background(), 5)
	assert.ErrorIs(t, err, ErrRentalBusy)

	close(release)
	require.NoError(t, <-done)
}

func TestReturnWithoutMovieIDSkipsOptimisticDelta(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/rentals/17/return_movie/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, catalog.Rental{ID: 17, Status: "returned"})
	})

	service, cache := newRentalRig(t, mux)
	seedInventory(cache, 2, 3, 1)

	rental, err := service.Return(context.Background(), 17, 0)
	require.NoError(t, err)
	assert.Equal(t, "returned", rental.Status)

	// Without a movie ID the cached counts are untouched; only the list
	// tags were dirtied.
	entry, ok := cache.Entry(types.MovieInventoryKey(2))
	require.True(t, ok)
	inventory := entry.Data.(*catalog.Inventory)
	assert.Equal(t, 1, inventory.AvailableCopies)
	assert.Equal(t, types.StateFresh, entry.State)
}

func TestReturnIncrementsAvailableCopies(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/rentals/17/return_movie/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, catalog.Rental{ID: 17, Status: "returned"})
	})

	service, cache := newRentalRig(t, mux)
	seedInventory(cache, 6, 3, 1)

	_, err := service.Return(context.Background(), 17, 6)
	require.NoError(t, err)

	entry, ok := cache.Entry(types.MovieInventoryKey(6))
	require.True(t, ok)
	inventory := entry.Data.(*catalog.Inventory)
	assert.Equal(t, 2, inventory.AvailableCopies)
	assert.Equal(t, 1, inventory.RentedOut)
}

func TestRentInvalidatesRentalViewsBeforeReturning(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/rentals/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, catalog.Paginated[catalog.Rental]{Count: 0})
	})
	mux.HandleFunc("POST /api/rentals/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, catalog.Rental{ID: 41, Status: "active"})
	})

	service, cache := newRentalRig(t, mux)
	_, err := service.MyRentals(context.Background(), 1)
	require.NoError(t, err)

	_, err = service.Rent(context.Background(), 8)
	require.NoError(t, err)

	entry, ok := cache.Entry(types.MyRentalsKey(1))
	require.True(t, ok)
	assert.Equal(t, types.StateStale, entry.State,
		"the rental list must already be stale when the rent result reaches the caller")
}
