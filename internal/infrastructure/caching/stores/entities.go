// Package stores provides the concrete cache store for backend entities
package stores

import (
	"sync"
	"time"

	"github.com/NaijaReels/naijareels-go/internal/infrastructure/caching/types"
)

// subscriberBuffer bounds per-subscriber notification channels. A slow
// consumer drops notifications rather than blocking cache writes; the entry
// state is always re-readable.
const subscriberBuffer = 8

// EntityStore holds every cached entry keyed by resource key, with a
// per-key subscriber registry for the explicit publish/subscribe contract.
type EntityStore struct {
	mu          sync.RWMutex
	entries     map[string]*types.Entry
	subscribers map[string]map[int]chan types.Entry
	nextSubID   int
}

// NewEntityStore creates an empty entity cache store.
func NewEntityStore() *EntityStore {
	return &EntityStore{
		entries:     make(map[string]*types.Entry),
		subscribers: make(map[string]map[int]chan types.Entry),
	}
}

// Get returns a copy of the entry for key.
func (s *EntityStore) Get(key string) (types.Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, exists := s.entries[key]
	if !exists {
		return types.Entry{}, false
	}
	return *entry, true
}

// SetFresh installs server truth for key and notifies subscribers.
func (s *EntityStore) SetFresh(key string, data any, tags []types.Tag) {
	s.setData(key, data, tags, types.StateFresh)
}

// SetStaleData installs data that is already known to be outdated (a fetch
// superseded by an invalidation landed). Readers may serve it but the next
// read refetches.
func (s *EntityStore) SetStaleData(key string, data any, tags []types.Tag) {
	s.setData(key, data, tags, types.StateStale)
}

func (s *EntityStore) setData(key string, data any, tags []types.Tag, state types.State) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = &types.Entry{
		Key:       key,
		Tags:      tags,
		Data:      data,
		State:     state,
		FetchedAt: time.Now().UTC(),
	}
	s.notifyLocked(key)
}

// MarkFetching flags a fetch in flight for key, creating the entry if it does
// not exist yet. Existing data is kept so readers can serve it meanwhile.
func (s *EntityStore) MarkFetching(key string, tags []types.Tag) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, exists := s.entries[key]
	if !exists {
		entry = &types.Entry{Key: key, Tags: tags}
		s.entries[key] = entry
	}
	entry.State = types.StateFetching
}

// SetError records a failed fetch. The next read retries.
func (s *EntityStore) SetError(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry, exists := s.entries[key]; exists {
		entry.State = types.StateError
		s.notifyLocked(key)
	}
}

// SetEntry restores an exact entry snapshot (optimistic rollback) and
// notifies subscribers.
func (s *EntityStore) SetEntry(entry types.Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := entry
	s.entries[entry.Key] = &stored
	s.notifyLocked(entry.Key)
}

// ApplyOptimistic installs a provisional value for key and marks the entry
// fetching, so readers see the optimistic data without treating it as
// durably fresh.
func (s *EntityStore) ApplyOptimistic(key string, data any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, exists := s.entries[key]
	if !exists {
		entry = &types.Entry{Key: key}
		s.entries[key] = entry
	}
	entry.Data = data
	entry.State = types.StateFetching
	s.notifyLocked(key)
}

// MarkStaleByTags marks every entry whose tag set intersects tags as stale
// and returns the affected keys.
func (s *EntityStore) MarkStaleByTags(tags []types.Tag) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var affected []string
	for key, entry := range s.entries {
		if entry.HasAnyTag(tags) && entry.State != types.StateStale {
			entry.State = types.StateStale
			affected = append(affected, key)
			s.notifyLocked(key)
		}
	}
	return affected
}

// MarkStaleOlderThan marks entries fetched before the age cutoff as stale and
// returns how many were affected.
func (s *EntityStore) MarkStaleOlderThan(maxAge time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().UTC().Add(-maxAge)
	count := 0
	for key, entry := range s.entries {
		if entry.State == types.StateFresh && entry.FetchedAt.Before(cutoff) {
			entry.State = types.StateStale
			count++
			s.notifyLocked(key)
		}
	}
	return count
}

// Reset drops every entry. Subscriptions survive; subscribers are notified
// with a zero entry so they refetch under the new session context.
func (s *EntityStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make(map[string]*types.Entry)
	for key := range s.subscribers {
		s.notifyLocked(key)
	}
}

// Len returns the number of cached entries.
func (s *EntityStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Subscribe registers a notification channel for key. Every state or data
// change of the entry emits a copy on the channel.
func (s *EntityStore) Subscribe(key string) (int, <-chan types.Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextSubID++
	id := s.nextSubID
	ch := make(chan types.Entry, subscriberBuffer)
	if s.subscribers[key] == nil {
		s.subscribers[key] = make(map[int]chan types.Entry)
	}
	s.subscribers[key][id] = ch
	return id, ch
}

// Unsubscribe removes a subscription and closes its channel.
func (s *EntityStore) Unsubscribe(key string, id int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if subs, exists := s.subscribers[key]; exists {
		if ch, ok := subs[id]; ok {
			delete(subs, id)
			close(ch)
		}
		if len(subs) == 0 {
			delete(s.subscribers, key)
		}
	}
}

// HasSubscribers reports whether any consumer is subscribed to key.
func (s *EntityStore) HasSubscribers(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subscribers[key]) > 0
}

func (s *EntityStore) notifyLocked(key string) {
	subs := s.subscribers[key]
	if len(subs) == 0 {
		return
	}

	var snapshot types.Entry
	if entry, exists := s.entries[key]; exists {
		snapshot = *entry
	} else {
		snapshot = types.Entry{Key: key}
	}

	for _, ch := range subs {
		select {
		case ch <- snapshot:
		default:
		}
	}
}
