// Package types defines the cache entry model shared by the cache stores and
// manager: keyed entries carrying consistency tags and a freshness state.
package types

import (
	"context"
	"fmt"
	"time"
)

// Fetcher loads an entry's data from the backend when the cache cannot serve
// it fresh. Concurrent reads of the same key share one fetcher invocation.
// The returned tags are appended to the entry's declared tags, so a list
// entry can pin the per-record tags of the results it contains.
type Fetcher func(ctx context.Context) (any, []Tag, error)

// State is the freshness lifecycle of a cache entry.
type State string

const (
	StateFresh    State = "fresh"    // served without a fetch
	StateStale    State = "stale"    // served data is outdated, refetch pending
	StateFetching State = "fetching" // a fetch or optimistic write is in flight
	StateError    State = "error"    // last fetch failed; next read retries
)

// Tag is an opaque invalidation-domain label. Entries carry the tags they
// depend on; mutations declare the tags they dirty.
type Tag string

// Entry is one cached resource collection or record.
type Entry struct {
	Key       string
	Tags      []Tag
	Data      any
	State     State
	FetchedAt time.Time
}

// HasAnyTag reports whether the entry carries at least one of the given tags.
func (e *Entry) HasAnyTag(tags []Tag) bool {
	for _, candidate := range tags {
		for _, tag := range e.Tags {
			if tag == candidate {
				return true
			}
		}
	}
	return false
}

// Consistency tags. List tags cover every page of a collection; item tags
// pin a single record by its stable ID.
const (
	TagMoviesList      Tag = "movies:list"
	TagInventoryList   Tag = "inventory:list"
	TagRentalsList     Tag = "rentals:list"
	TagRentalsVendor   Tag = "rentals:vendor"
	TagAdminUsers      Tag = "admin:users"
	TagCustomers       Tag = "customers:list"
	TagProfile         Tag = "profile"
	TagSystemAnalytics Tag = "analytics:system"
)

// MovieItemTag pins a single movie record.
func MovieItemTag(movieID int) Tag {
	return Tag(fmt.Sprintf("movies:item:%d", movieID))
}

// InventoryItemTag pins the inventory record of one movie.
func InventoryItemTag(movieID int) Tag {
	return Tag(fmt.Sprintf("inventory:item:%d", movieID))
}
