package middleware

import (
	"net/http"                   // HTTP status codes
	"storefront/internal/domain" // Importing domain models
	"storefront/internal/store"  // Store facade

	"github.com/gin-gonic/gin" // Gin web framework
)

// AdminOnlyMiddleware checks the user's role from the store on each request
func AdminOnlyMiddleware(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := CurrentUserID(c) // Get currentUserId from context
		// Check if userID exists in context
		if !exists {
			// If not, abort with unauthorized status
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		user, err := s.Users().GetByID(c.Request.Context(), userID) // Fetch user from the store
		// If user not found, disabled or not an admin, abort with forbidden status
		if err != nil || user == nil || !user.IsAdmin() || user.Status != domain.UserActive {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}
		// If admin, proceed to the next handler
		c.Next()
	}
}
