package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/NaijaReels/naijareels-go/internal/devstack/store"
	"github.com/NaijaReels/naijareels-go/internal/domain/user"
	"github.com/NaijaReels/naijareels-go/internal/infrastructure/observability/logging"
	"github.com/NaijaReels/naijareels-go/internal/presentation/http/middleware"
)

// UserHandlers contains profile, customer, and admin user endpoints.
type UserHandlers struct {
	store  *store.Store
	logger *logging.ChanneledLogger
}

// NewUserHandlers creates user handlers with injected dependencies.
func NewUserHandlers(store *store.Store, logger *logging.ChanneledLogger) *UserHandlers {
	return &UserHandlers{store: store, logger: logger}
}

// GetMe handles GET /api/users/me/.
func (h *UserHandlers) GetMe(c *gin.Context) {
	identity, err := h.store.UserByID(middleware.CallerID(c))
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, identity)
}

// PatchMe handles PATCH /api/users/me/.
func (h *UserHandlers) PatchMe(c *gin.Context) {
	var update user.ProfileUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid request format"})
		return
	}

	identity, err := h.store.UpdateProfile(middleware.CallerID(c), update)
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, identity)
}

// PostChangePassword handles POST /api/users/me/change-password/.
func (h *UserHandlers) PostChangePassword(c *gin.Context) {
	var change user.PasswordChange
	if err := c.ShouldBindJSON(&change); err != nil || change.NewPassword == "" {
		c.JSON(http.StatusBadRequest, gin.H{"new_password": []string{"This field is required."}})
		return
	}

	err := h.store.ChangePassword(middleware.CallerID(c), change.OldPassword, change.NewPassword)
	if err != nil {
		if err == store.ErrInvalidCredentials {
			c.JSON(http.StatusBadRequest, gin.H{"old_password": []string{"Wrong password."}})
			return
		}
		writeStoreError(c, err)
		return
	}

	h.logger.LogAuthOperation("change_password", "", true)
	c.JSON(http.StatusOK, gin.H{"detail": "Password updated."})
}

// GetCustomers handles GET /api/customers/ for vendors.
func (h *UserHandlers) GetCustomers(c *gin.Context) {
	page := pageParam(c)
	customers, count, err := h.store.Users(page, defaultPageSize, user.RoleCustomer)
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, paginated(c, customers, count, page))
}

// GetUsers handles GET /api/admin/users/.
func (h *UserHandlers) GetUsers(c *gin.Context) {
	page := pageParam(c)
	users, count, err := h.store.Users(page, defaultPageSize, "")
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, paginated(c, users, count, page))
}

// PatchUser handles PATCH /api/admin/users/:id/ for role changes.
func (h *UserHandlers) PatchUser(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var body struct {
		Role user.Role `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || !body.Role.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"role": []string{"Invalid role."}})
		return
	}

	identity, err := h.store.UpdateUserRole(id, body.Role)
	if err != nil {
		writeStoreError(c, err)
		return
	}

	h.logger.Auth().Info("Role updated", "userId", id, "role", body.Role)
	c.JSON(http.StatusOK, identity)
}

// DeleteUser handles DELETE /api/admin/users/:id/.
func (h *UserHandlers) DeleteUser(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if id == middleware.CallerID(c) {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Cannot delete your own account."})
		return
	}

	if err := h.store.DeleteUser(id); err != nil {
		writeStoreError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
