package api

import (
	"net/http"                      // HTTP status codes
	"storefront/internal/aggregate" // Order filters
	"storefront/internal/domain"    // Importing domain models
	"storefront/internal/store"     // Store facade

	"github.com/gin-gonic/gin" // Gin web framework
)

// Request struct for checkout
type PlaceOrderRequest struct {
	ShippingAddressID *uint `json:"shipping_address_id"` // Falls back to the default address
}

// PlaceOrderHandler turns the session user's cart into an order
func PlaceOrderHandler(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		var req PlaceOrderRequest
		// An empty body is allowed
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
				return
			}
		}
		order, err := s.PlaceOrder(c.Request.Context(), store.PlaceOrderRequest{
			UserID:            userID,
			ShippingAddressID: req.ShippingAddressID,
		})
		if err != nil {
			writeError(c, err, "Place order")
			return
		}
		c.JSON(http.StatusCreated, order)
	}
}

// ListOrdersHandler lists the session user's orders, newest first
func ListOrdersHandler(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		summaries, err := s.Aggregates().OrderSummaries(c.Request.Context(), aggregate.OrderFilter{UserID: &userID})
		if err != nil {
			writeError(c, err, "List orders")
			return
		}
		c.JSON(http.StatusOK, summaries)
	}
}

// GetOrderHandler returns one of the session user's orders with its items
func GetOrderHandler(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		orderID, ok := idParam(c, "id")
		if !ok {
			return
		}
		detail, err := s.Aggregates().OrderDetail(c.Request.Context(), orderID)
		if err != nil {
			writeError(c, err, "Get order")
			return
		}
		// Other users' orders look absent
		if detail == nil || detail.Order.UserID != userID {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		c.JSON(http.StatusOK, detail)
	}
}

// CancelOrderHandler cancels a pending or confirmed order of the session user
func CancelOrderHandler(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		orderID, ok := idParam(c, "id")
		if !ok {
			return
		}
		order, err := s.CancelOrder(c.Request.Context(), userID, orderID)
		if err != nil {
			writeError(c, err, "Cancel order")
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

// OrderStatsHandler returns per-status counts and lifetime spend for the session user
func OrderStatsHandler(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		ctx := c.Request.Context()
		stats, err := s.Aggregates().OrderStats(ctx, &userID)
		if err != nil {
			writeError(c, err, "Order stats")
			return
		}
		spent, err := s.Aggregates().TotalSpent(ctx, userID)
		if err != nil {
			writeError(c, err, "Order stats")
			return
		}
		c.JSON(http.StatusOK, gin.H{"stats": stats, "total_spent": spent})
	}
}

// statusQuery parses the optional ?status= filter
func statusQuery(c *gin.Context) (*domain.OrderStatus, bool) {
	raw := c.Query("status")
	if raw == "" {
		return nil, true
	}
	status, err := domain.ParseOrderStatus(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	return &status, true
}
