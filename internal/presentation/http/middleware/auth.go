// Package middleware provides gin middleware for the devstack backend.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/NaijaReels/naijareels-go/internal/domain/user"
	"github.com/NaijaReels/naijareels-go/internal/infrastructure/security"
)

const (
	contextUserID = "devstack_user_id"
	contextRole   = "devstack_role"
)

// RequireAuth validates the bearer access token and stores the caller's
// identity on the request context.
func RequireAuth(issuer *security.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Authentication credentials were not provided."})
			return
		}

		claims, err := issuer.Validate(strings.TrimPrefix(header, "Bearer "), "access")
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Given token not valid for any token type"})
			return
		}
		id, err := security.SubjectID(claims)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Given token not valid for any token type"})
			return
		}

		role, _ := claims["role"].(string)
		c.Set(contextUserID, id)
		c.Set(contextRole, user.Role(role))
		c.Next()
	}
}

// RequireRole rejects callers whose role is not in the allowed set. Admins
// pass every role gate.
func RequireRole(roles ...user.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := CallerRole(c)
		if role == user.RoleAdmin {
			c.Next()
			return
		}
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"detail": "You do not have permission to perform this action."})
	}
}

// CallerID returns the authenticated user's id, or 0 when unauthenticated.
func CallerID(c *gin.Context) int {
	if id, ok := c.Get(contextUserID); ok {
		return id.(int)
	}
	return 0
}

// CallerRole returns the authenticated user's role.
func CallerRole(c *gin.Context) user.Role {
	if role, ok := c.Get(contextRole); ok {
		return role.(user.Role)
	}
	return ""
}
