package manager

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NaijaReels/naijareels-go/internal/infrastructure/caching/types"
	"github.com/NaijaReels/naijareels-go/internal/infrastructure/observability/logging"
)

func countingFetcher(calls *atomic.Int64, data any) types.Fetcher {
	return func(ctx context.Context) (any, []types.Tag, error) {
		calls.Add(1)
		return data, nil, nil
	}
}

func TestReadServesFreshWithoutRefetching(t *testing.T) {
	m := NewManager(logging.Silent())
	var calls atomic.Int64

	first, err := m.Read(context.Background(), "movies?page=1", []types.Tag{types.TagMoviesList}, countingFetcher(&calls, "page-one"))
	require.NoError(t, err)
	assert.Equal(t, "page-one", first)

	second, err := m.Read(context.Background(), "movies?page=1", []types.Tag{types.TagMoviesList}, countingFetcher(&calls, "never-used"))
	require.NoError(t, err)
	assert.Equal(t, "page-one", second)
	assert.Equal(t, int64(1), calls.Load(), "fresh entry must be served without a backend call")

	entry, ok := m.Entry("movies?page=1")
	require.True(t, ok)
	assert.Equal(t, types.StateFresh, entry.State)
}

func TestConcurrentReadsShareOneFetch(t *testing.T) {
	m := NewManager(logging.Silent())

	var calls atomic.Int64
	started := make(chan struct{})
	release := make(chan struct{})
	var startOnce sync.Once

	fetcher := func(ctx context.Context) (any, []types.Tag, error) {
		calls.Add(1)
		startOnce.Do(func() { close(started) })
		<-release
		return "shared", nil, nil
	}

	const readers = 8
	results := make(chan any, readers)
	var wg sync.WaitGroup
	for i := 0; i < readers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			data, err := m.Read(context.Background(), "inventory?movie=4", []types.Tag{types.InventoryItemTag(4)}, fetcher)
			require.NoError(t, err)
			results <- data
		}()
	}

	<-started
	time.Sleep(100 * time.Millisecond) // let the remaining readers join the flight
	close(release)
	wg.Wait()
	close(results)

	assert.Equal(t, int64(1), calls.Load(), "concurrent reads of one key must share a single fetch")
	for data := range results {
		assert.Equal(t, "shared", data)
	}
}

func TestInvalidateMarksStaleSynchronously(t *testing.T) {
	m := NewManager(logging.Silent())
	var calls atomic.Int64

	_, err := m.Read(context.Background(), "rentals?page=1", []types.Tag{types.TagRentalsList}, countingFetcher(&calls, "rentals"))
	require.NoError(t, err)

	m.Invalidate(types.TagRentalsList)

	entry, ok := m.Entry("rentals?page=1")
	require.True(t, ok)
	assert.Equal(t, types.StateStale, entry.State, "staleness must be visible before Invalidate returns")

	_, err = m.Read(context.Background(), "rentals?page=1", []types.Tag{types.TagRentalsList}, countingFetcher(&calls, "rentals-v2"))
	require.NoError(t, err)
	assert.Equal(t, int64(2), calls.Load(), "a stale entry refetches on the next read")
}

func TestInvalidateRefetchesSubscribedKeys(t *testing.T) {
	m := NewManager(logging.Silent())

	var version atomic.Int64
	fetcher := func(ctx context.Context) (any, []types.Tag, error) {
		return fmt.Sprintf("v%d", version.Add(1)), nil, nil
	}

	_, err := m.Read(context.Background(), "movies?page=1", []types.Tag{types.TagMoviesList}, fetcher)
	require.NoError(t, err)

	id, _ := m.Subscribe("movies?page=1")
	defer m.Unsubscribe("movies?page=1", id)

	m.Invalidate(types.TagMoviesList)

	require.Eventually(t, func() bool {
		entry, ok := m.Entry("movies?page=1")
		return ok && entry.State == types.StateFresh && entry.Data == "v2"
	}, 2*time.Second, 10*time.Millisecond, "subscribed keys must refetch in the background after invalidation")
}

func TestFetchSupersededByInvalidationLandsStale(t *testing.T) {
	m := NewManager(logging.Silent())

	started := make(chan struct{})
	release := make(chan struct{})
	fetcher := func(ctx context.Context) (any, []types.Tag, error) {
		close(started)
		<-release
		return "pre-mutation", nil, nil
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		data, err := m.Read(context.Background(), "inventory?movie=9", []types.Tag{types.InventoryItemTag(9)}, fetcher)
		assert.NoError(t, err)
		assert.Equal(t, "pre-mutation", data)
	}()

	<-started
	m.Invalidate(types.InventoryItemTag(9))
	close(release)
	<-done

	entry, ok := m.Entry("inventory?movie=9")
	require.True(t, ok)
	assert.Equal(t, types.StateStale, entry.State, "a fetch finishing after invalidation carries outdated data")
}

func TestPinnedKeyServesOptimisticValue(t *testing.T) {
	m := NewManager(logging.Silent())
	var calls atomic.Int64

	_, err := m.Read(context.Background(), "inventory?movie=2", []types.Tag{types.InventoryItemTag(2)}, countingFetcher(&calls, "3 copies"))
	require.NoError(t, err)

	snapshot, ok := m.Entry("inventory?movie=2")
	require.True(t, ok)

	m.Pin("inventory?movie=2")
	m.ApplyOptimistic("inventory?movie=2", "2 copies")

	data, err := m.Read(context.Background(), "inventory?movie=2", []types.Tag{types.InventoryItemTag(2)}, countingFetcher(&calls, "never-used"))
	require.NoError(t, err)
	assert.Equal(t, "2 copies", data, "reads during a pinned mutation window serve the provisional value")
	assert.Equal(t, int64(1), calls.Load(), "pinned keys must not race a fetch against the pending commit")

	m.Unpin("inventory?movie=2")
	m.RestoreEntry(snapshot)

	restored, ok := m.Entry("inventory?movie=2")
	require.True(t, ok)
	assert.Equal(t, snapshot.Data, restored.Data)
	assert.Equal(t, snapshot.State, restored.State)
	assert.Equal(t, snapshot.FetchedAt, restored.FetchedAt)
}

func TestInvalidateSkipsRefetchForPinnedKeys(t *testing.T) {
	m := NewManager(logging.Silent())
	var calls atomic.Int64

	_, err := m.Read(context.Background(), "inventory?movie=5", []types.Tag{types.InventoryItemTag(5)}, countingFetcher(&calls, "stock"))
	require.NoError(t, err)

	id, _ := m.Subscribe("inventory?movie=5")
	defer m.Unsubscribe("inventory?movie=5", id)

	m.Pin("inventory?movie=5")
	defer m.Unpin("inventory?movie=5")
	m.Invalidate(types.InventoryItemTag(5))

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int64(1), calls.Load(), "pinned keys are not refetched behind the pending mutation")
}

func TestResultDerivedTagsInvalidate(t *testing.T) {
	m := NewManager(logging.Silent())
	var calls atomic.Int64

	fetcher := func(ctx context.Context) (any, []types.Tag, error) {
		calls.Add(1)
		// A list page reports the per-record tags of the movies it contains.
		return "page", []types.Tag{types.MovieItemTag(7), types.MovieItemTag(8)}, nil
	}

	_, err := m.Read(context.Background(), "movies?page=1", []types.Tag{types.TagMoviesList}, fetcher)
	require.NoError(t, err)

	m.Invalidate(types.MovieItemTag(7))

	entry, ok := m.Entry("movies?page=1")
	require.True(t, ok)
	assert.Equal(t, types.StateStale, entry.State, "a list page must go stale when one of its records is dirtied")
}

func TestFetchErrorRetriesOnNextRead(t *testing.T) {
	m := NewManager(logging.Silent())

	var calls atomic.Int64
	fetcher := func(ctx context.Context) (any, []types.Tag, error) {
		if calls.Add(1) == 1 {
			return nil, nil, errors.New("backend unavailable")
		}
		return "recovered", nil, nil
	}

	_, err := m.Read(context.Background(), "analytics", []types.Tag{types.TagSystemAnalytics}, fetcher)
	require.Error(t, err)

	entry, ok := m.Entry("analytics")
	require.True(t, ok)
	assert.Equal(t, types.StateError, entry.State)

	data, err := m.Read(context.Background(), "analytics", []types.Tag{types.TagSystemAnalytics}, fetcher)
	require.NoError(t, err)
	assert.Equal(t, "recovered", data)
	assert.Equal(t, int64(2), calls.Load())
}

func TestResetDropsEntriesAndNotifiesSubscribers(t *testing.T) {
	m := NewManager(logging.Silent())
	var calls atomic.Int64

	_, err := m.Read(context.Background(), "profile", []types.Tag{types.TagProfile}, countingFetcher(&calls, "alice"))
	require.NoError(t, err)

	id, updates := m.Subscribe("profile")
	defer m.Unsubscribe("profile", id)

	m.Reset()
	assert.Equal(t, 0, m.Len())

	select {
	case entry := <-updates:
		assert.Nil(t, entry.Data, "reset notifies subscribers with a zero entry so they refetch")
	case <-time.After(time.Second):
		t.Fatal("expected a reset notification")
	}

	_, err = m.Read(context.Background(), "profile", []types.Tag{types.TagProfile}, countingFetcher(&calls, "bob"))
	require.NoError(t, err)
	assert.Equal(t, int64(2), calls.Load(), "a read after reset must hit the backend again")
}
