package api

import (
	"net/http"                  // HTTP status codes
	"storefront/internal/store" // Store facade

	"github.com/gin-gonic/gin" // Gin web framework
)

// Request struct for wishlisting a product
type WishlistRequest struct {
	ProductID uint `json:"product_id" binding:"required"` // Product to wishlist
}

// ListWishlistHandler returns the session user's wishlist
func ListWishlistHandler(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		entries, err := s.Wishlists().ListByUser(c.Request.Context(), userID)
		if err != nil {
			writeError(c, err, "List wishlist")
			return
		}
		c.JSON(http.StatusOK, entries)
	}
}

// AddToWishlistHandler wishlists a product; a repeat add is a conflict
func AddToWishlistHandler(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		var req WishlistRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		if err := s.Wishlists().Add(c.Request.Context(), userID, req.ProductID); err != nil {
			writeError(c, err, "Add to wishlist")
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "Added to wishlist"})
	}
}

// RemoveFromWishlistHandler drops a wishlist entry
func RemoveFromWishlistHandler(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		productID, ok := idParam(c, "product_id")
		if !ok {
			return
		}
		if err := s.Wishlists().Remove(c.Request.Context(), userID, productID); err != nil {
			writeError(c, err, "Remove from wishlist")
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// MoveWishlistHandler moves one wishlisted product into the cart
func MoveWishlistHandler(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		productID, ok := idParam(c, "product_id")
		if !ok {
			return
		}
		if err := s.MoveWishlistToCart(c.Request.Context(), userID, productID, 1); err != nil {
			writeError(c, err, "Move to cart")
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Moved to cart"})
	}
}
