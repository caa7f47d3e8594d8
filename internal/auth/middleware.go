package auth

import (
	"net/http"
	"strings"

	"pontotaxi/backend/internal/models"

	"github.com/gin-gonic/gin"
)

// ContextUserKey is where the middleware stores the authenticated account.
const ContextUserKey = "auth_user"

// Middleware validates the bearer token and puts the account on the gin
// context.
func (s *Service) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization token missing"})
			return
		}

		user, err := s.Authenticate(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(ContextUserKey, user)
		c.Next()
	}
}

// RequirePermission gates a route on one permission string. Must run after
// Middleware.
func RequirePermission(perm string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := UserFrom(c)
		if !HasPermission(user, perm) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "permission denied", "permission": perm})
			return
		}
		c.Next()
	}
}

// UserFrom returns the authenticated account, or nil outside the middleware.
func UserFrom(c *gin.Context) *models.User {
	v, ok := c.Get(ContextUserKey)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}
