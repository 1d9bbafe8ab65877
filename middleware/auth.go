package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"electionwatch/database"
	"electionwatch/models"
)

// AuthMiddleware validates JWT bearer tokens for protected routes.
func AuthMiddleware(service *database.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, models.Fail("missing authorization header"))
			c.Abort()
			return
		}

		tokenString := extractToken(authHeader)
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, models.Fail("invalid authorization format"))
			c.Abort()
			return
		}

		userID, role, err := service.ValidateToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, models.Fail("invalid or expired token"))
			c.Abort()
			return
		}

		c.Set("user_id", userID)
		c.Set("role", role)
		c.Set("token", tokenString)
		c.Next()
	}
}

// RequireRole restricts a route to the given roles. Must run after
// AuthMiddleware.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *gin.Context) {
		if !allowed[c.GetString("role")] {
			c.JSON(http.StatusForbidden, models.Fail("insufficient role"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// extractToken extracts the token from the Authorization header.
func extractToken(authHeader string) string {
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return ""
	}
	return parts[1]
}
