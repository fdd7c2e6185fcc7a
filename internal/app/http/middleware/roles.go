package middleware

import (
	"net/http"

	"eduplus-app/internal/domain/users"

	"github.com/gin-gonic/gin"
)

// RequireRole gates a route group on a capability of the caller's role rather
// than an exact role match, so admins pass instructor checks too.
func RequireRole(allowed func(users.Role) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		value, exists := c.Get("role")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Role not found in token"})
			c.Abort()
			return
		}

		roleStr, _ := value.(string)
		if !allowed(users.Role(roleStr)) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
			c.Abort()
			return
		}

		c.Next()
	}
}

func RequireInstructor() gin.HandlerFunc {
	return RequireRole(users.Role.CanTeach)
}

func RequireAdmin() gin.HandlerFunc {
	return RequireRole(users.Role.CanAdministrate)
}
