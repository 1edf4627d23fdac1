package middleware

import (
	"net/http"

	"roamly/models"

	"github.com/gin-gonic/gin"
)

// AdminOnlyMiddleware rejects callers whose token does not carry the admin
// role. Must run after AuthMiddleware.
func AdminOnlyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString("role") != models.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Administrator access required"})
			return
		}
		c.Next()
	}
}
