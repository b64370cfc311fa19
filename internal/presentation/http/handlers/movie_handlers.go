package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/NaijaReels/naijareels-go/internal/devstack/store"
	"github.com/NaijaReels/naijareels-go/internal/domain/catalog"
	"github.com/NaijaReels/naijareels-go/internal/infrastructure/observability/logging"
)

// MovieHandlers contains catalog and inventory endpoints.
type MovieHandlers struct {
	store  *store.Store
	logger *logging.ChanneledLogger
}

// NewMovieHandlers creates movie handlers with injected dependencies.
func NewMovieHandlers(store *store.Store, logger *logging.ChanneledLogger) *MovieHandlers {
	return &MovieHandlers{store: store, logger: logger}
}

// GetMovies handles GET /api/movies/ with search and genre filters.
func (h *MovieHandlers) GetMovies(c *gin.Context) {
	page := pageParam(c)
	movies, count, err := h.store.Movies(page, defaultPageSize, c.Query("search"), c.Query("genre"))
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, paginated(c, movies, count, page))
}

// GetMovie handles GET /api/movies/:id/.
func (h *MovieHandlers) GetMovie(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	movie, err := h.store.Movie(id)
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, movie)
}

// PostMovie handles POST /api/movies/ for vendors.
func (h *MovieHandlers) PostMovie(c *gin.Context) {
	var form catalog.MovieForm
	if err := c.ShouldBindJSON(&form); err != nil || form.Title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"title": []string{"This field is required."}})
		return
	}

	movie, err := h.store.CreateMovie(form)
	if err != nil {
		writeStoreError(c, err)
		return
	}

	h.logger.System().Info("Movie created", "movieId", movie.ID, "title", movie.Title)
	c.JSON(http.StatusCreated, movie)
}

// PatchMovie handles PATCH /api/movies/:id/ for vendors.
func (h *MovieHandlers) PatchMovie(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var form catalog.MovieForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid request format"})
		return
	}

	movie, err := h.store.UpdateMovie(id, form)
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, movie)
}

// DeleteMovie handles DELETE /api/movies/:id/ for vendors.
func (h *MovieHandlers) DeleteMovie(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.store.DeleteMovie(id); err != nil {
		writeStoreError(c, err)
		return
	}

	h.logger.System().Info("Movie deleted", "movieId", id)
	c.Status(http.StatusNoContent)
}

// GetInventories handles GET /api/inventory/ with an optional movie filter.
func (h *MovieHandlers) GetInventories(c *gin.Context) {
	page := pageParam(c)
	movieID := 0
	if raw := c.Query("movie"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			// Bad filter values mean an empty result, not an error.
			c.JSON(http.StatusOK, paginated(c, []catalog.Inventory{}, 0, page))
			return
		}
		movieID = parsed
	}

	records, count, err := h.store.Inventories(page, defaultPageSize, movieID)
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, paginated(c, records, count, page))
}

// PatchInventory handles PATCH /api/inventory/:id/ for vendors.
func (h *MovieHandlers) PatchInventory(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var update catalog.InventoryUpdate
	if err := c.ShouldBindJSON(&update); err != nil || update.TotalCopies < 0 || update.AvailableCopies < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid request format"})
		return
	}

	record, err := h.store.UpdateInventory(id, update)
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}
