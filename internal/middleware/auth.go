package middleware

import (
	"net/http"
	"strings"

	"github.com/MackG7/TP-Final-Integrador-Back-End/internal/database"
	"github.com/MackG7/TP-Final-Integrador-Back-End/internal/models"
	"github.com/MackG7/TP-Final-Integrador-Back-End/pkg/utils"
	"github.com/gin-gonic/gin"
)

// AuthMiddleware resolves the caller to a trusted userId before any core
// operation runs. Core handlers only check authorization, never identity.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Authorization header required"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid authorization header format"})
			c.Abort()
			return
		}

		claims, err := utils.ValidateToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid or expired token"})
			c.Abort()
			return
		}

		// Verify the user still exists in the identity projection
		var user models.User
		if err := database.DB.Select("id").First(&user, "id = ?", claims.UserID).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not found or inactive"})
			c.Abort()
			return
		}

		c.Set("userId", claims.UserID)
		c.Next()
	}
}
