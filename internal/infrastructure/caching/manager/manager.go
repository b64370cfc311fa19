// Package manager provides the centralized entity cache: tagged reads with
// per-key fetch deduplication, tag-driven invalidation, and optimistic
// snapshot/restore for the mutation runner.
package manager

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/NaijaReels/naijareels-go/internal/infrastructure/caching/interfaces"
	"github.com/NaijaReels/naijareels-go/internal/infrastructure/caching/stores"
	"github.com/NaijaReels/naijareels-go/internal/infrastructure/caching/types"
	"github.com/NaijaReels/naijareels-go/internal/infrastructure/observability/logging"
)

// Interface assertions to ensure Manager implements the cache contracts.
var (
	_ interfaces.EntityCache      = (*Manager)(nil)
	_ interfaces.MaintenanceCache = (*Manager)(nil)
)

type fetchRecord struct {
	tags    []types.Tag
	fetcher types.Fetcher
}

// Manager coordinates the entity store, read deduplication, and the
// invalidation engine. It is a process-wide singleton owned by the container.
type Manager struct {
	store  *stores.EntityStore
	group  singleflight.Group
	logger *logging.ChanneledLogger

	mu          sync.Mutex
	fetchers    map[string]fetchRecord
	generations map[string]uint64
	pinned      map[string]struct{}
}

// NewManager creates the entity cache manager.
func NewManager(logger *logging.ChanneledLogger) *Manager {
	if logger != nil {
		logger.Cache().Info("Initializing entity cache manager")
	}

	return &Manager{
		store:       stores.NewEntityStore(),
		logger:      logger,
		fetchers:    make(map[string]fetchRecord),
		generations: make(map[string]uint64),
		pinned:      make(map[string]struct{}),
	}
}

// Read returns cached data for key immediately when fresh; otherwise it runs
// the fetcher, deduplicated so concurrent reads of the same key share one
// backend call. The fetcher and tags are remembered so invalidation can
// refetch subscribed entries on its own.
func (m *Manager) Read(ctx context.Context, key string, tags []types.Tag, fetcher types.Fetcher) (any, error) {
	start := time.Now()
	m.remember(key, tags, fetcher)

	if entry, ok := m.store.Get(key); ok {
		if entry.State == types.StateFresh {
			if m.logger != nil {
				m.logger.LogCacheOperation("read", key, true, time.Since(start))
			}
			return entry.Data, nil
		}
		// An optimistic mutation holds this entry; serve its provisional
		// value rather than racing a fetch against the pending commit.
		if m.isPinned(key) {
			return entry.Data, nil
		}
	}

	if m.logger != nil {
		m.logger.LogCacheOperation("read", key, false, time.Since(start))
	}
	return m.fetch(ctx, key)
}

// Invalidate marks every entry whose tag set intersects tags as stale. Keys
// with live subscribers are refetched immediately in the background;
// unsubscribed keys refetch lazily on their next read. The stale marking is
// synchronous, so a caller that invalidates before resolving its mutation
// guarantees no subsequent read observes pre-mutation data as fresh.
func (m *Manager) Invalidate(tags ...types.Tag) {
	affected := m.store.MarkStaleByTags(tags)
	if m.logger != nil {
		m.logger.Cache().Debug("Invalidation applied", "tags", tags, "affectedKeys", len(affected))
	}

	for _, key := range affected {
		m.bumpGeneration(key)
		if m.store.HasSubscribers(key) && !m.isPinned(key) {
			go func(key string) {
				if _, err := m.fetch(context.Background(), key); err != nil && m.logger != nil {
					m.logger.Cache().Warn("Background refetch failed", "key", key, "error", err)
				}
			}(key)
		}
	}
}

// Subscribe registers for entry change notifications on key.
func (m *Manager) Subscribe(key string) (int, <-chan types.Entry) {
	return m.store.Subscribe(key)
}

// Unsubscribe removes a subscription.
func (m *Manager) Unsubscribe(key string, id int) {
	m.store.Unsubscribe(key, id)
}

// Entry returns a copy of the current entry for key, if cached.
func (m *Manager) Entry(key string) (types.Entry, bool) {
	return m.store.Get(key)
}

// ApplyOptimistic installs a provisional value for key and marks it fetching.
func (m *Manager) ApplyOptimistic(key string, data any) {
	m.store.ApplyOptimistic(key, data)
}

// RestoreEntry rolls a key back to an exact pre-mutation snapshot.
func (m *Manager) RestoreEntry(entry types.Entry) {
	m.store.SetEntry(entry)
}

// Pin shields a key while an optimistic mutation is pending: reads serve the
// provisional value and invalidation skips the immediate refetch.
func (m *Manager) Pin(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pinned[key] = struct{}{}
}

// Unpin releases a pinned key.
func (m *Manager) Unpin(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.pinned, key)
}

// Reset drops the whole cache. Called on logout and login so entries bound to
// one user context are never served to another.
func (m *Manager) Reset() {
	m.mu.Lock()
	for key := range m.generations {
		m.generations[key]++
	}
	m.mu.Unlock()

	m.store.Reset()
	if m.logger != nil {
		m.logger.Cache().Info("Entity cache reset")
	}
}

// MarkStaleOlderThan ages out entries fetched before the cutoff.
func (m *Manager) MarkStaleOlderThan(maxAge time.Duration) int {
	return m.store.MarkStaleOlderThan(maxAge)
}

// Len returns the number of cached entries.
func (m *Manager) Len() int {
	return m.store.Len()
}

// fetch runs the remembered fetcher for key inside a single-flight group
// scoped to the key's current generation: concurrent reads share one call,
// while a post-invalidation refetch starts a new flight instead of joining a
// doomed one.
func (m *Manager) fetch(ctx context.Context, key string) (any, error) {
	record, ok := m.fetcherFor(key)
	if !ok {
		return nil, fmt.Errorf("no fetcher registered for cache key %s", key)
	}

	generation := m.generationOf(key)
	flightKey := fmt.Sprintf("%s#%d", key, generation)

	data, err, shared := m.group.Do(flightKey, func() (any, error) {
		m.store.MarkFetching(key, record.tags)

		data, extraTags, err := record.fetcher(ctx)
		if err != nil {
			m.store.SetError(key)
			return nil, fmt.Errorf("fetch for %s failed: %w", key, err)
		}
		tags := record.tags
		if len(extraTags) > 0 {
			tags = append(append([]types.Tag{}, record.tags...), extraTags...)
		}

		// A fetch finishing after an invalidation for its key still carries
		// pre-mutation data; record it stale so no reader sees it as fresh.
		if m.generationOf(key) == generation {
			m.store.SetFresh(key, data, tags)
		} else {
			m.store.SetStaleData(key, data, tags)
		}
		return data, nil
	})

	if shared && m.logger != nil {
		m.logger.Cache().Debug("Fetch shared between concurrent readers", "key", key)
	}
	return data, err
}

func (m *Manager) remember(key string, tags []types.Tag, fetcher types.Fetcher) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fetchers[key] = fetchRecord{tags: tags, fetcher: fetcher}
}

func (m *Manager) fetcherFor(key string) (fetchRecord, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	record, ok := m.fetchers[key]
	return record, ok
}

func (m *Manager) generationOf(key string) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.generations[key]
}

func (m *Manager) bumpGeneration(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.generations[key]++
}

func (m *Manager) isPinned(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.pinned[key]
	return ok
}
