package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/NaijaReels/naijareels-go/internal/devstack/store"
	"github.com/NaijaReels/naijareels-go/internal/domain/user"
	"github.com/NaijaReels/naijareels-go/internal/infrastructure/observability/logging"
	"github.com/NaijaReels/naijareels-go/internal/presentation/http/middleware"
)

// RentalHandlers contains rental and analytics endpoints.
type RentalHandlers struct {
	store  *store.Store
	logger *logging.ChanneledLogger
}

// NewRentalHandlers creates rental handlers with injected dependencies.
func NewRentalHandlers(store *store.Store, logger *logging.ChanneledLogger) *RentalHandlers {
	return &RentalHandlers{store: store, logger: logger}
}

// GetRentals handles GET /api/rentals/. Customers see their own rentals;
// vendors and admins see everything.
func (h *RentalHandlers) GetRentals(c *gin.Context) {
	page := pageParam(c)
	userID := middleware.CallerID(c)
	if role := middleware.CallerRole(c); role == user.RoleVendor || role == user.RoleAdmin {
		userID = 0
	}

	rentals, count, err := h.store.Rentals(page, defaultPageSize, userID)
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, paginated(c, rentals, count, page))
}

// GetVendorRentals handles GET /api/rentals/vendor/.
func (h *RentalHandlers) GetVendorRentals(c *gin.Context) {
	page := pageParam(c)
	rentals, count, err := h.store.Rentals(page, defaultPageSize, 0)
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, paginated(c, rentals, count, page))
}

// PostRental handles POST /api/rentals/ and claims one copy.
func (h *RentalHandlers) PostRental(c *gin.Context) {
	var body struct {
		Movie int `json:"movie" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"movie": []string{"This field is required."}})
		return
	}

	rental, err := h.store.Rent(middleware.CallerID(c), body.Movie)
	if err != nil {
		writeStoreError(c, err)
		return
	}

	h.logger.System().Info("Rental created", "rentalId", rental.ID, "movieId", body.Movie)
	c.JSON(http.StatusCreated, rental)
}

// PostReturn handles POST /api/rentals/:id/return_movie/.
func (h *RentalHandlers) PostReturn(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	role := middleware.CallerRole(c)
	anyOwner := role == user.RoleVendor || role == user.RoleAdmin
	rental, err := h.store.Return(id, middleware.CallerID(c), anyOwner)
	if err != nil {
		writeStoreError(c, err)
		return
	}

	h.logger.System().Info("Rental returned", "rentalId", id)
	c.JSON(http.StatusOK, rental)
}

// GetAnalytics handles GET /api/admin/analytics/.
func (h *RentalHandlers) GetAnalytics(c *gin.Context) {
	analytics, err := h.store.Analytics()
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, analytics)
}
