// Package handlers provides HTTP request handlers for the devstack backend.
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/NaijaReels/naijareels-go/internal/devstack/store"
	"github.com/NaijaReels/naijareels-go/internal/domain/catalog"
)

const defaultPageSize = 10

// pageParam reads the DRF-style ?page= parameter, defaulting to 1.
func pageParam(c *gin.Context) int {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func idParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
		return 0, false
	}
	return id, true
}

// paginated wraps a page of results in the count/next/previous envelope the
// client's list decoding expects.
func paginated[T any](c *gin.Context, results []T, count, page int) catalog.Paginated[T] {
	out := catalog.Paginated[T]{Count: count, Results: results}

	base := c.Request.URL.Path
	if page*defaultPageSize < count {
		next := fmt.Sprintf("%s?page=%d", base, page+1)
		out.Next = &next
	}
	if page > 1 {
		previous := fmt.Sprintf("%s?page=%d", base, page-1)
		out.Previous = &previous
	}
	return out
}

// writeStoreError maps storage sentinels onto DRF-shaped error responses.
func writeStoreError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
	case errors.Is(err, store.ErrNoCopies):
		c.JSON(http.StatusBadRequest, gin.H{"error": "No copies available"})
	case errors.Is(err, store.ErrDuplicate):
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
	case errors.Is(err, store.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "No active account found with the given credentials"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error."})
	}
}
