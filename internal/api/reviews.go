package api

import (
	"net/http"                   // HTTP status codes
	"storefront/internal/domain" // Importing domain models
	"storefront/internal/store"  // Store facade

	"github.com/gin-gonic/gin" // Gin web framework
)

// Request struct for posting a review
type ReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"` // 1 to 5 stars
	Comment string `json:"comment"`                               // Optional text
}

// ListReviewsHandler returns a product's reviews, newest first
func ListReviewsHandler(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, ok := idParam(c, "id")
		if !ok {
			return
		}
		reviews, err := s.Reviews().ListByProduct(c.Request.Context(), productID)
		if err != nil {
			writeError(c, err, "List reviews")
			return
		}
		c.JSON(http.StatusOK, reviews)
	}
}

// CreateReviewHandler posts a review. Only buyers may review, once per product.
func CreateReviewHandler(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		productID, ok := idParam(c, "id")
		if !ok {
			return
		}
		var req ReviewRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		ctx := c.Request.Context()
		purchased, err := s.Aggregates().HasUserPurchasedProduct(ctx, userID, productID)
		if err != nil {
			writeError(c, err, "Create review")
			return
		}
		if !purchased {
			c.JSON(http.StatusForbidden, gin.H{"error": "Only customers who bought this product can review it"})
			return
		}
		existing, err := s.Reviews().FindByUserAndProduct(ctx, userID, productID)
		if err != nil {
			writeError(c, err, "Create review")
			return
		}
		if existing != nil {
			c.JSON(http.StatusConflict, gin.H{"error": "Product already reviewed"})
			return
		}
		review := &domain.Review{UserID: userID, ProductID: productID, Rating: req.Rating, Comment: req.Comment}
		if _, err := s.Reviews().Create(ctx, review); err != nil {
			writeError(c, err, "Create review")
			return
		}
		c.JSON(http.StatusCreated, review)
	}
}
