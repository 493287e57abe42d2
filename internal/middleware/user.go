package middleware

import (
	"errors"   // Error inspection
	"net/http" // HTTP status codes

	"onesi/internal/domain"     // Domain error kinds
	"onesi/internal/repository" // User lookups

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// UserExistsMiddleware checks on each request that the token's user still exists
func UserExistsMiddleware(users repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := UserID(c) // Get userID from context
		// Check if userID exists in context
		if !exists {
			// If not, abort with unauthorized status
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Not authorized, no token"})
			return
		}
		// Fetch user from the repository
		if _, err := users.FindByID(c.Request.Context(), userID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				// Token outlived its account
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Not authorized, user not found"})
				return
			}
			logrus.WithFields(logrus.Fields{
				"user_id": userID,      // User ID
				"error":   err.Error(), // Error message
			}).Error("User lookup failed") // Log lookup failure
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Server Error"})
			return
		}
		// User exists, proceed to the next handler
		c.Next()
	}
}
