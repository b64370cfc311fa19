// Package services provides application-level orchestration: one service per
// backend resource family, all reads flowing through the entity cache and all
// mutations invalidating through a single closed mutation→tags table.
package services

import (
	"fmt"

	"github.com/NaijaReels/naijareels-go/internal/infrastructure/caching/types"
)

// MutationKind enumerates every mutation the client can issue. The set is
// closed: MutationTags switches over it exhaustively and panics on an
// unknown kind, so adding a mutation without declaring its invalidation set
// fails loudly instead of silently leaving views stale.
type MutationKind int

const (
	MutationMovieCreate MutationKind = iota
	MutationMovieUpdate
	MutationMovieDelete
	MutationRent
	MutationReturn
	MutationInventoryUpdate
	MutationProfileUpdate
	MutationUserRoleUpdate
	MutationUserDelete

	// mutationKindCount must stay last; tests enumerate kinds against it.
	mutationKindCount
)

// MutationTags returns the consistency tags dirtied by a mutation. movieID
// scopes the per-record tags and may be 0 when the affected movie is unknown
// (a return issued from the rental list, which only carries titles); the
// list-level tags still invalidate in that case.
func MutationTags(kind MutationKind, movieID int) []types.Tag {
	withItem := func(tags []types.Tag, item types.Tag) []types.Tag {
		if movieID == 0 {
			return tags
		}
		return append(tags, item)
	}

	switch kind {
	case MutationMovieCreate, MutationMovieUpdate, MutationMovieDelete:
		return withItem([]types.Tag{types.TagMoviesList}, types.MovieItemTag(movieID))
	case MutationRent, MutationReturn:
		return withItem([]types.Tag{
			types.TagRentalsList,
			types.TagRentalsVendor,
			types.TagInventoryList,
			types.TagSystemAnalytics,
		}, types.InventoryItemTag(movieID))
	case MutationInventoryUpdate:
		return withItem([]types.Tag{types.TagInventoryList}, types.InventoryItemTag(movieID))
	case MutationProfileUpdate:
		return []types.Tag{types.TagProfile}
	case MutationUserRoleUpdate, MutationUserDelete:
		return []types.Tag{types.TagAdminUsers}
	default:
		panic(fmt.Sprintf("unhandled mutation kind %d", kind))
	}
}
