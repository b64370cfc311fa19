package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/NaijaReels/naijareels-go/internal/domain/catalog"
	"github.com/NaijaReels/naijareels-go/internal/infrastructure/caching/manager"
	"github.com/NaijaReels/naijareels-go/internal/infrastructure/caching/types"
	"github.com/NaijaReels/naijareels-go/internal/infrastructure/observability/logging"
	"github.com/NaijaReels/naijareels-go/internal/infrastructure/transport"
)

// ErrRentalBusy rejects a rent/return for a movie that already has an
// optimistic mutation in flight. Racing two provisional deltas against an
// unknown server outcome would corrupt the cached counts.
var ErrRentalBusy = errors.New("a rental operation is already pending for this movie")

// ErrNoCopiesAvailable is the local conflict raised when a rent is issued
// against a fresh inventory entry showing zero available copies.
var ErrNoCopiesAvailable = fmt.Errorf("no copies available: %w", transport.ErrConflict)

// MutationStatus is the lifecycle of an optimistic mutation record.
type MutationStatus string

const (
	MutationPending    MutationStatus = "pending"
	MutationCommitted  MutationStatus = "committed"
	MutationRolledBack MutationStatus = "rolledback"
)

// MutationRecord tracks one in-flight optimistic mutation. It exists only
// between apply and settle and is owned exclusively by the rental service.
type MutationRecord struct {
	ID        string
	TargetKey string
	Previous  types.Entry
	Status    MutationStatus
}

// RentalService orchestrates rental queries and the optimistic rent/return
// protocol against the per-movie inventory entries.
type RentalService struct {
	gateway *transport.Gateway
	cache   *manager.Manager
	logger  *logging.ChanneledLogger

	mu      sync.Mutex
	pending map[int]*MutationRecord
	entropy *ulid.MonotonicEntropy
}

// NewRentalService creates a new rental application service.
func NewRentalService(gateway *transport.Gateway, cache *manager.Manager, logger *logging.ChanneledLogger) *RentalService {
	return &RentalService{
		gateway: gateway,
		cache:   cache,
		logger:  logger,
		pending: make(map[int]*MutationRecord),
		entropy: ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0),
	}
}

// MyRentals returns one page of the signed-in customer's rentals.
func (s *RentalService) MyRentals(ctx context.Context, page int) (*catalog.Paginated[catalog.Rental], error) {
	return s.rentalPage(ctx, types.MyRentalsKey(page), "rentals/", page, types.TagRentalsList)
}

// AllRentals returns one page of rentals across customers.
func (s *RentalService) AllRentals(ctx context.Context, page int) (*catalog.Paginated[catalog.Rental], error) {
	return s.rentalPage(ctx, types.AllRentalsKey(page), "rentals/", page, types.TagRentalsList)
}

// VendorRentals returns one page of the vendor-facing rental list.
func (s *RentalService) VendorRentals(ctx context.Context, page int) (*catalog.Paginated[catalog.Rental], error) {
	return s.rentalPage(ctx, types.VendorRentalsKey(page), "rentals/vendor/", page, types.TagRentalsVendor)
}

func (s *RentalService) rentalPage(ctx context.Context, key, path string, page int, tag types.Tag) (*catalog.Paginated[catalog.Rental], error) {
	if page < 1 {
		page = 1
	}
	return cacheRead(ctx, s.cache, key, []types.Tag{tag},
		func(ctx context.Context) (*catalog.Paginated[catalog.Rental], []types.Tag, error) {
			query := url.Values{}
			query.Set("page", fmt.Sprint(page))

			var result catalog.Paginated[catalog.Rental]
			err := s.gateway.DoJSON(ctx, transport.Spec{
				Method:       http.MethodGet,
				Path:         path,
				Query:        query,
				RequiresAuth: true,
			}, &result)
			if err != nil {
				return nil, nil, err
			}
			return &result, nil, nil
		})
}

// Rent rents one copy of a movie. The cached inventory entry is decremented
// provisionally before the backend call; on success the affected tags are
// invalidated so server truth replaces the provisional value, on failure the
// pre-mutation snapshot is restored exactly.
func (s *RentalService) Rent(ctx context.Context, movieID int) (*catalog.Rental, error) {
	record, err := s.begin(movieID)
	if err != nil {
		return nil, err
	}
	defer s.finish(movieID)

	key := types.MovieInventoryKey(movieID)
	snapshot, cached := s.cache.Entry(key)

	// Local conflict: a fresh entry showing zero copies fails fast without a
	// round trip. A stale or missing entry defers to the server.
	if inventory, ok := inventoryData(snapshot, cached); ok {
		if inventory.AvailableCopies <= 0 && snapshot.State == types.StateFresh {
			return nil, ErrNoCopiesAvailable
		}
	}

	applied := s.applyDelta(record, key, snapshot, cached, -1)

	var rental catalog.Rental
	err = s.gateway.DoJSON(ctx, transport.Spec{
		Method:       http.MethodPost,
		Path:         "rentals/",
		Body:         map[string]int{"movie": movieID},
		RequiresAuth: true,
	}, &rental)
	if err != nil {
		s.rollback(record, key, applied)
		return nil, err
	}

	s.commit(record, key, applied, MutationRent, movieID)
	return &rental, nil
}

// Return returns a rented copy. movieID scopes the optimistic increment and
// the per-record invalidation; pass 0 when unknown (the rental list carries
// only titles) and the list-level tags still invalidate.
func (s *RentalService) Return(ctx context.Context, rentalID, movieID int) (*catalog.Rental, error) {
	var record *MutationRecord
	if movieID != 0 {
		var err error
		record, err = s.begin(movieID)
		if err != nil {
			return nil, err
		}
		defer s.finish(movieID)
	}

	key := types.MovieInventoryKey(movieID)
	applied := false
	if movieID != 0 {
		snapshot, cached := s.cache.Entry(key)
		applied = s.applyDelta(record, key, snapshot, cached, +1)
	}

	var rental catalog.Rental
	err := s.gateway.DoJSON(ctx, transport.Spec{
		Method:       http.MethodPost,
		Path:         fmt.Sprintf("rentals/%d/return_movie/", rentalID),
		RequiresAuth: true,
	}, &rental)
	if err != nil {
		s.rollback(record, key, applied)
		return nil, err
	}

	s.commit(record, key, applied, MutationReturn, movieID)
	return &rental, nil
}

// begin claims the per-movie mutation slot.
func (s *RentalService) begin(movieID int) (*MutationRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, busy := s.pending[movieID]; busy {
		return nil, ErrRentalBusy
	}
	record := &MutationRecord{
		ID:     ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String(),
		Status: MutationPending,
	}
	s.pending[movieID] = record
	return record, nil
}

func (s *RentalService) finish(movieID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, movieID)
}

// applyDelta installs the provisional inventory value and pins the key so
// concurrent reads serve it instead of racing a fetch. Returns whether a
// delta was applied; without a cached record there is nothing to adjust.
func (s *RentalService) applyDelta(record *MutationRecord, key string, snapshot types.Entry, cached bool, delta int) bool {
	inventory, ok := inventoryData(snapshot, cached)
	if !ok {
		return false
	}

	updated := *inventory
	updated.AvailableCopies += delta
	if updated.AvailableCopies < 0 {
		updated.AvailableCopies = 0
	}
	if updated.AvailableCopies > updated.TotalCopies {
		updated.AvailableCopies = updated.TotalCopies
	}
	updated.RentedOut = updated.TotalCopies - updated.AvailableCopies

	record.TargetKey = key
	record.Previous = snapshot

	s.cache.Pin(key)
	s.cache.ApplyOptimistic(key, &updated)

	if s.logger != nil {
		s.logger.Cache().Debug("Optimistic delta applied",
			"mutationId", record.ID, "key", key, "delta", delta)
	}
	return true
}

func (s *RentalService) rollback(record *MutationRecord, key string, applied bool) {
	if record == nil {
		return
	}
	record.Status = MutationRolledBack
	if !applied {
		return
	}

	s.cache.Unpin(key)
	s.cache.RestoreEntry(record.Previous)

	if s.logger != nil {
		s.logger.Cache().Info("Optimistic mutation rolled back",
			"mutationId", record.ID, "key", key)
	}
}

// commit settles a successful mutation: unpin, then invalidate the affected
// tags before the result reaches the caller, so any follow-up read observes
// post-mutation entries as stale.
func (s *RentalService) commit(record *MutationRecord, key string, applied bool, kind MutationKind, movieID int) {
	if record != nil {
		record.Status = MutationCommitted
	}
	if applied {
		s.cache.Unpin(key)
	}
	s.cache.Invalidate(MutationTags(kind, movieID)...)
}

func inventoryData(entry types.Entry, cached bool) (*catalog.Inventory, bool) {
	if !cached {
		return nil, false
	}
	inventory, ok := entry.Data.(*catalog.Inventory)
	if !ok || inventory == nil {
		return nil, false
	}
	return inventory, true
}
