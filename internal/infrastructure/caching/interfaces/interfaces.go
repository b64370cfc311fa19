// Package interfaces defines cache operation contracts for the entity cache.
package interfaces

import (
	"context"
	"time"

	"github.com/NaijaReels/naijareels-go/internal/infrastructure/caching/types"
)

// EntityCache is the consistency surface the application layer programs
// against: tagged reads with deduplicated fetches, tag-driven invalidation,
// optimistic snapshots, and the publish/subscribe contract.
type EntityCache interface {
	Read(ctx context.Context, key string, tags []types.Tag, fetcher types.Fetcher) (any, error)
	Invalidate(tags ...types.Tag)
	Subscribe(key string) (int, <-chan types.Entry)
	Unsubscribe(key string, id int)
	Entry(key string) (types.Entry, bool)
	ApplyOptimistic(key string, data any)
	RestoreEntry(entry types.Entry)
	Pin(key string)
	Unpin(key string)
	Reset()
}

// MaintenanceCache is the surface the background cleanup worker needs.
type MaintenanceCache interface {
	MarkStaleOlderThan(maxAge time.Duration) int
	Len() int
}
