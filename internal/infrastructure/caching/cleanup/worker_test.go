package cleanup

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/NaijaReels/naijareels-go/internal/infrastructure/caching/manager"
	"github.com/NaijaReels/naijareels-go/internal/infrastructure/caching/types"
	"github.com/NaijaReels/naijareels-go/internal/infrastructure/observability/logging"
)

func TestWorkerAgesOutOldEntries(t *testing.T) {
	cache := manager.NewManager(logging.Silent())
	_, err := cache.Read(context.Background(), "movies?page=1", []types.Tag{types.TagMoviesList},
		func(ctx context.Context) (any, []types.Tag, error) { return "page", nil, nil })
	require.NoError(t, err)

	worker := NewWorker(cache, &Config{
		CleanupInterval: 10 * time.Millisecond,
		EntryTTL:        0, // everything is immediately past the TTL
	}, logging.Silent())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go worker.Start(ctx)

	require.Eventually(t, func() bool {
		entry, ok := cache.Entry("movies?page=1")
		return ok && entry.State == types.StateStale
	}, 2*time.Second, 10*time.Millisecond, "the sweep must age fresh entries past the TTL to stale")
}

func TestWorkerStopsOnContextCancel(t *testing.T) {
	cache := manager.NewManager(logging.Silent())
	worker := NewWorker(cache, &Config{CleanupInterval: 5 * time.Millisecond, EntryTTL: time.Hour}, logging.Silent())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		worker.Start(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker must return once its context is cancelled")
	}
}
