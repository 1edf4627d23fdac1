package middleware

import (
	"net/http"
	"strings"

	"roamly/models"
	"roamly/utils"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware validates the bearer token and stores the caller's
// principal in the request context.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		sub, role, err := utils.ExtractPrincipalFromToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set("userID", sub)
		c.Set("role", role)
		c.Next()
	}
}

// CurrentPrincipal reads the authenticated principal set by AuthMiddleware.
func CurrentPrincipal(c *gin.Context) models.Principal {
	return models.Principal{
		ID:   c.GetString("userID"),
		Role: c.GetString("role"),
	}
}
