package api

import (
	"net/http"                   // HTTP status codes
	"storefront/internal/domain" // Importing domain models
	"storefront/internal/store"  // Store facade
	"storefront/internal/utils"  // Utility functions
	"time"                       // Token lifetime

	"github.com/gin-gonic/gin" // Gin web framework
)

// Request struct for registration
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`           // Name must be provided
	Email    string `json:"email" binding:"required,email"`    // Email must be provided and valid
	Phone    string `json:"phone"`                             // Optional phone number
	Password string `json:"password" binding:"required,min=8"` // Password must be at least 8 characters
}

// Request struct for login
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`    // Email must be provided
	Password string `json:"password" binding:"required"` // Password must be provided
}

// Response struct for authentication
type AuthResponse struct {
	Token string `json:"token"` // JWT token
}

// RegisterHandler creates a customer account
func RegisterHandler(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// Public registration always yields a customer
		user, err := s.RegisterUser(c.Request.Context(), store.Registration{
			Name:     req.Name,
			Email:    req.Email,
			Phone:    req.Phone,
			Password: req.Password,
			Role:     domain.RoleCustomer,
		})
		if err != nil {
			writeError(c, err, "Registration") // Duplicate email maps to 409
			return
		}
		// Return success response
		c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully", "id": user.ID})
	}
}

// LoginHandler exchanges credentials for a JWT
func LoginHandler(s *store.Store, secret string, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		user, err := s.Authenticate(c.Request.Context(), req.Email, req.Password) // Check password hash
		if err != nil {
			writeError(c, err, "Login")
			return
		}
		// Generate JWT token for the user
		token, err := utils.GenerateJWT(user.ID, string(user.Role), secret, ttl)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
			return
		}
		c.JSON(http.StatusOK, AuthResponse{Token: token}) // Return the token in response
	}
}
