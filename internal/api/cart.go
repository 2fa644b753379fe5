package api

import (
	"net/http"                  // HTTP status codes
	"storefront/internal/store" // Store facade

	"github.com/gin-gonic/gin" // Gin web framework
)

// Request struct for adding a product to the cart
type CartRequest struct {
	ProductID uint `json:"product_id" binding:"required"` // Product to add
	Quantity  int  `json:"quantity" binding:"required"`   // Units to add
}

// Request struct for changing a cart line's quantity
type QuantityRequest struct {
	Quantity int `json:"quantity" binding:"required"` // New quantity
}

// GetCartHandler returns the session user's cart with totals
func GetCartHandler(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		view, err := s.Aggregates().CartView(c.Request.Context(), userID)
		if err != nil {
			writeError(c, err, "Get cart")
			return
		}
		c.JSON(http.StatusOK, view)
	}
}

// AddToCartHandler adds units of a product, merging with an existing line
func AddToCartHandler(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		var req CartRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		if err := s.Carts().Add(c.Request.Context(), userID, req.ProductID, req.Quantity); err != nil {
			writeError(c, err, "Add to cart")
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "Added to cart"})
	}
}

// UpdateCartHandler sets the quantity of an existing cart line
func UpdateCartHandler(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		productID, ok := idParam(c, "product_id")
		if !ok {
			return
		}
		var req QuantityRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		if err := s.Carts().UpdateQuantity(c.Request.Context(), userID, productID, req.Quantity); err != nil {
			writeError(c, err, "Update cart")
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart updated"})
	}
}

// RemoveFromCartHandler drops one cart line
func RemoveFromCartHandler(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		productID, ok := idParam(c, "product_id")
		if !ok {
			return
		}
		if err := s.Carts().Remove(c.Request.Context(), userID, productID); err != nil {
			writeError(c, err, "Remove from cart")
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// ClearCartHandler empties the session user's cart
func ClearCartHandler(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		if err := s.Carts().ClearUser(c.Request.Context(), userID); err != nil {
			writeError(c, err, "Clear cart")
			return
		}
		c.Status(http.StatusNoContent)
	}
}
