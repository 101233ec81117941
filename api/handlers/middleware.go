package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"go-bookstore/internal/models"
	"go-bookstore/internal/services"
)

const (
	ctxUserID = "user_id"
	ctxRole   = "role"
)

// AuthRequired validates the bearer token and stores the caller's
// identity on the context.
func AuthRequired(users *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		claims, err := users.ParseToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": services.ErrInvalidToken.Error()})
			return
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxRole, claims.Role)
		c.Next()
	}
}

// AdminRequired must run after AuthRequired.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ctxRole) != models.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "this is allowed only for admins"})
			return
		}
		c.Next()
	}
}

func currentUserID(c *gin.Context) uint {
	return c.GetUint(ctxUserID)
}
