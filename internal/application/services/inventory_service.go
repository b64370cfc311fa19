package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/NaijaReels/naijareels-go/internal/domain/catalog"
	"github.com/NaijaReels/naijareels-go/internal/infrastructure/caching/manager"
	"github.com/NaijaReels/naijareels-go/internal/infrastructure/caching/types"
	"github.com/NaijaReels/naijareels-go/internal/infrastructure/transport"
)

// InventoryService orchestrates inventory queries and copy-count updates.
type InventoryService struct {
	gateway *transport.Gateway
	cache   *manager.Manager
}

// NewInventoryService creates a new inventory application service.
func NewInventoryService(gateway *transport.Gateway, cache *manager.Manager) *InventoryService {
	return &InventoryService{gateway: gateway, cache: cache}
}

// List returns the full inventory listing. The entry carries the list tag
// plus one item tag per record, so a rent against any single movie dirties
// this listing too.
func (s *InventoryService) List(ctx context.Context) (*catalog.Paginated[catalog.Inventory], error) {
	return cacheRead(ctx, s.cache, types.InventoryListKey(), []types.Tag{types.TagInventoryList},
		func(ctx context.Context) (*catalog.Paginated[catalog.Inventory], []types.Tag, error) {
			var result catalog.Paginated[catalog.Inventory]
			err := s.gateway.DoJSON(ctx, transport.Spec{
				Method:       http.MethodGet,
				Path:         "inventory/",
				RequiresAuth: true,
			}, &result)
			if err != nil {
				return nil, nil, err
			}

			itemTags := make([]types.Tag, 0, len(result.Results))
			for _, record := range result.Results {
				itemTags = append(itemTags, types.InventoryItemTag(record.Movie))
			}
			return &result, itemTags, nil
		})
}

// ForMovie returns the inventory record of one movie, or nil when the movie
// has no inventory yet. The backend exposes this as a filtered list; the
// first result wins.
func (s *InventoryService) ForMovie(ctx context.Context, movieID int) (*catalog.Inventory, error) {
	return cacheRead(ctx, s.cache, types.MovieInventoryKey(movieID), []types.Tag{types.InventoryItemTag(movieID)},
		func(ctx context.Context) (*catalog.Inventory, []types.Tag, error) {
			query := url.Values{}
			query.Set("movie", fmt.Sprint(movieID))

			var result catalog.Paginated[catalog.Inventory]
			err := s.gateway.DoJSON(ctx, transport.Spec{
				Method:       http.MethodGet,
				Path:         "inventory/",
				Query:        query,
				RequiresAuth: true,
			}, &result)
			if err != nil {
				return nil, nil, err
			}
			if len(result.Results) == 0 {
				return nil, nil, nil
			}
			record := result.Results[0]
			return &record, nil, nil
		})
}

// Update patches an inventory record's copy counts and invalidates the
// inventory views before returning.
func (s *InventoryService) Update(ctx context.Context, inventoryID, movieID int, update catalog.InventoryUpdate) (*catalog.Inventory, error) {
	if update.AvailableCopies > update.TotalCopies {
		return nil, fmt.Errorf("available copies %d cannot exceed total copies %d",
			update.AvailableCopies, update.TotalCopies)
	}

	var record catalog.Inventory
	err := s.gateway.DoJSON(ctx, transport.Spec{
		Method:       http.MethodPatch,
		Path:         fmt.Sprintf("inventory/%d/", inventoryID),
		Body:         update,
		RequiresAuth: true,
	}, &record)
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(MutationTags(MutationInventoryUpdate, movieID)...)
	return &record, nil
}
