package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NaijaReels/naijareels-go/internal/infrastructure/caching/types"
)

func TestMutationTagsCoversEveryKind(t *testing.T) {
	for kind := MutationKind(0); kind < mutationKindCount; kind++ {
		assert.NotPanics(t, func() {
			tags := MutationTags(kind, 1)
			assert.NotEmpty(t, tags, "every mutation kind must dirty at least one tag")
		}, "kind %d", kind)
	}
}

func TestMutationTagsPanicsOnUnknownKind(t *testing.T) {
	assert.Panics(t, func() { MutationTags(mutationKindCount, 1) })
}

func TestRentDirtiesInventoryAndRentalViews(t *testing.T) {
	tags := MutationTags(MutationRent, 42)
	assert.Contains(t, tags, types.TagRentalsList)
	assert.Contains(t, tags, types.TagRentalsVendor)
	assert.Contains(t, tags, types.TagInventoryList)
	assert.Contains(t, tags, types.TagSystemAnalytics)
	assert.Contains(t, tags, types.InventoryItemTag(42))
	assert.NotContains(t, tags, types.TagMoviesList, "renting does not change the catalog")
}

func TestZeroMovieIDSkipsItemTags(t *testing.T) {
	tags := MutationTags(MutationReturn, 0)
	require.NotEmpty(t, tags)
	assert.Contains(t, tags, types.TagRentalsList)
	for _, tag := range tags {
		assert.NotEqual(t, types.InventoryItemTag(0), tag)
	}
}

func TestMovieMutationsScopeToCatalog(t *testing.T) {
	tags := MutationTags(MutationMovieUpdate, 7)
	assert.ElementsMatch(t, []types.Tag{types.TagMoviesList, types.MovieItemTag(7)}, tags)
}
