package services

import (
	"context"
	"fmt"

	"github.com/NaijaReels/naijareels-go/internal/infrastructure/caching/manager"
	"github.com/NaijaReels/naijareels-go/internal/infrastructure/caching/types"
)

// cacheRead is the typed read-through helper every service query uses: cache
// hit or deduplicated fetch via the manager, with the stored any asserted
// back to the caller's type.
func cacheRead[T any](ctx context.Context, cache *manager.Manager, key string, tags []types.Tag, fetch func(context.Context) (T, []types.Tag, error)) (T, error) {
	var zero T

	data, err := cache.Read(ctx, key, tags, func(ctx context.Context) (any, []types.Tag, error) {
		return fetch(ctx)
	})
	if err != nil {
		return zero, err
	}

	typed, ok := data.(T)
	if !ok {
		return zero, fmt.Errorf("cache entry %s holds unexpected type %T", key, data)
	}
	return typed, nil
}
