package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/NaijaReels/naijareels-go/internal/devstack/store"
	"github.com/NaijaReels/naijareels-go/internal/domain/user"
	"github.com/NaijaReels/naijareels-go/internal/infrastructure/observability/logging"
	"github.com/NaijaReels/naijareels-go/internal/infrastructure/security"
)

// AuthHandlers contains the authentication endpoints.
type AuthHandlers struct {
	store  *store.Store
	issuer *security.TokenIssuer
	logger *logging.ChanneledLogger
}

// NewAuthHandlers creates auth handlers with injected dependencies.
func NewAuthHandlers(store *store.Store, issuer *security.TokenIssuer, logger *logging.ChanneledLogger) *AuthHandlers {
	return &AuthHandlers{store: store, issuer: issuer, logger: logger}
}

// PostLogin handles POST /api/auth/login/ and returns a token pair.
func (h *AuthHandlers) PostLogin(c *gin.Context) {
	start := time.Now()

	var creds user.LoginCredentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid request format"})
		return
	}

	identity, err := h.store.Authenticate(creds.Username, creds.Password)
	if err != nil {
		h.logger.LogAuthOperation("login", creds.Username, false)
		writeStoreError(c, err)
		return
	}

	tokens, err := h.issuer.IssuePair(identity)
	if err != nil {
		h.logger.LogError(logging.ChannelAuth, "login", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error."})
		return
	}

	h.logger.Auth().Info("Login succeeded",
		"username", creds.Username, "role", identity.Role, "duration", time.Since(start))
	c.JSON(http.StatusOK, tokens)
}

// PostRegister handles POST /api/auth/register/ and creates a customer account.
func (h *AuthHandlers) PostRegister(c *gin.Context) {
	var reg user.Registration
	if err := c.ShouldBindJSON(&reg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid request format"})
		return
	}
	if reg.Username == "" || reg.Password == "" || reg.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"username": []string{"This field is required."},
		})
		return
	}

	identity, err := h.store.CreateUser(reg)
	if err != nil {
		writeStoreError(c, err)
		return
	}

	h.logger.LogAuthOperation("register", reg.Username, true)
	c.JSON(http.StatusCreated, identity)
}

// PostRefresh handles POST /api/token/refresh/ and rotates the access token.
func (h *AuthHandlers) PostRefresh(c *gin.Context) {
	var body struct {
		Refresh string `json:"refresh" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid request format"})
		return
	}

	claims, err := h.issuer.Validate(body.Refresh, "refresh")
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Token is invalid or expired"})
		return
	}
	id, err := security.SubjectID(claims)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Token is invalid or expired"})
		return
	}

	identity, err := h.store.UserByID(id)
	if err != nil {
		writeStoreError(c, err)
		return
	}

	access, err := h.issuer.IssueAccess(identity)
	if err != nil {
		h.logger.LogError(logging.ChannelAuth, "refresh", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error."})
		return
	}

	h.logger.Auth().Debug("Access token rotated", "userId", id)
	c.JSON(http.StatusOK, gin.H{"access": access})
}
