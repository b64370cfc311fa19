package types

import (
	"fmt"
	"net/url"
)

// Cache keys are derived from the resource type plus the query parameters
// that shape the response, so each page/search/filter combination caches
// independently.

// MoviesListKey keys one page of the movie catalog.
func MoviesListKey(page int, search, genre string) string {
	params := url.Values{}
	params.Set("page", fmt.Sprint(page))
	if search != "" {
		params.Set("search", search)
	}
	if genre != "" {
		params.Set("genre", genre)
	}
	return "movies:list:" + params.Encode()
}

// MovieKey keys a single movie record.
func MovieKey(movieID int) string {
	return fmt.Sprintf("movies:item:%d", movieID)
}

// InventoryListKey keys the full inventory listing.
func InventoryListKey() string {
	return "inventory:list"
}

// MovieInventoryKey keys the inventory record of one movie.
func MovieInventoryKey(movieID int) string {
	return fmt.Sprintf("inventory:item:%d", movieID)
}

// MyRentalsKey keys one page of the signed-in customer's rentals.
func MyRentalsKey(page int) string {
	return fmt.Sprintf("rentals:mine:page=%d", page)
}

// AllRentalsKey keys one page of the cross-customer rental list.
func AllRentalsKey(page int) string {
	return fmt.Sprintf("rentals:all:page=%d", page)
}

// VendorRentalsKey keys one page of the vendor rental list.
func VendorRentalsKey(page int) string {
	return fmt.Sprintf("rentals:vendor:page=%d", page)
}

// AdminUsersKey keys one page of the admin user listing.
func AdminUsersKey(page int) string {
	return fmt.Sprintf("admin:users:page=%d", page)
}

// CustomersKey keys one page of the vendor-facing customer listing.
func CustomersKey(page int) string {
	return fmt.Sprintf("customers:page=%d", page)
}

// ProfileKey keys the signed-in user's profile.
func ProfileKey() string {
	return "profile:me"
}

// AnalyticsKey keys the admin analytics rollup.
func AnalyticsKey() string {
	return "analytics:system"
}
