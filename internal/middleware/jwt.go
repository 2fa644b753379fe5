package middleware

import (
	"net/http"                  // HTTP status codes
	"storefront/internal/utils" // JWT utility functions
	"strings"                   // String manipulation

	"github.com/gin-gonic/gin" // Gin web framework
)

// CurrentUserKey is the gin context key holding the session's user id
const CurrentUserKey = "currentUserID"

// JWTAuthMiddleware validates JWT tokens and supplies currentUserId
func JWTAuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization") // Get Authorization header
		// Browsers cannot set headers on a WebSocket handshake
		if authHeader == "" && strings.EqualFold(c.GetHeader("Upgrade"), "websocket") && c.Query("token") != "" {
			authHeader = "Bearer " + c.Query("token")
		}
		// Check if the Authorization header is present and properly formatted
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			// If not, abort with unauthorized status
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		tokenStr := strings.TrimPrefix(authHeader, "Bearer ") // Extract the token string and parse it
		claims, err := utils.ParseJWT(tokenStr, secret)       // Parse the JWT token
		if err != nil {
			// If parsing fails, abort with unauthorized status
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}
		c.Set(CurrentUserKey, claims.UserID) // Store currentUserId in context
		c.Next()                             // Proceed to the next handler
	}
}

// CurrentUserID reads the id set by JWTAuthMiddleware
func CurrentUserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(CurrentUserKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}
