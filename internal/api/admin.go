package api

import (
	"net/http"                      // HTTP status codes
	"storefront/internal/aggregate" // Order filters
	"storefront/internal/domain"    // Importing domain models
	"storefront/internal/store"     // Store facade
	"strconv"                       // Query parsing

	"github.com/gin-gonic/gin" // Gin web framework
)

// Request struct for an order status change
type StatusRequest struct {
	Status string `json:"status" binding:"required"` // Target status
}

// Request struct for a user status change
type UserStatusRequest struct {
	Status domain.UserStatus `json:"status" binding:"required"` // active or disabled
}

// AdminListOrdersHandler lists every order, optionally filtered by ?status=
func AdminListOrdersHandler(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		status, ok := statusQuery(c)
		if !ok {
			return
		}
		summaries, err := s.Aggregates().OrderSummaries(c.Request.Context(), aggregate.OrderFilter{Status: status})
		if err != nil {
			writeError(c, err, "List orders")
			return
		}
		c.JSON(http.StatusOK, summaries)
	}
}

// UpdateOrderStatusHandler moves an order along its lifecycle
func UpdateOrderStatusHandler(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, ok := idParam(c, "id")
		if !ok {
			return
		}
		var req StatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		next, err := domain.ParseOrderStatus(req.Status)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		order, err := s.TransitionOrder(c.Request.Context(), orderID, next)
		if err != nil {
			writeError(c, err, "Update order status")
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

// AdminDeleteOrderHandler removes an order and its items
func AdminDeleteOrderHandler(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		adminID, ok := currentUser(c)
		if !ok {
			return
		}
		orderID, ok := idParam(c, "id")
		if !ok {
			return
		}
		if err := s.DeleteOrder(c.Request.Context(), adminID, orderID); err != nil {
			writeError(c, err, "Delete order")
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// AdminStatsHandler returns store-wide order counts and products running low
func AdminStatsHandler(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		threshold, err := strconv.Atoi(c.DefaultQuery("low_stock", "5"))
		if err != nil || threshold < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid low_stock"})
			return
		}
		ctx := c.Request.Context()
		stats, err := s.Aggregates().OrderStats(ctx, nil)
		if err != nil {
			writeError(c, err, "Stats")
			return
		}
		low, err := s.Products().LowStock(ctx, threshold)
		if err != nil {
			writeError(c, err, "Stats")
			return
		}
		c.JSON(http.StatusOK, gin.H{"orders": stats, "completed": stats.Completed(), "low_stock": low})
	}
}

// SetUserStatusHandler enables or disables an account
func SetUserStatusHandler(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := idParam(c, "id")
		if !ok {
			return
		}
		var req UserStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		if err := s.Users().SetStatus(c.Request.Context(), userID, req.Status); err != nil {
			writeError(c, err, "Set user status")
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "User status updated"})
	}
}

// PurgeUserHandler hard-deletes a user and everything they own
func PurgeUserHandler(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		adminID, ok := currentUser(c)
		if !ok {
			return
		}
		userID, ok := idParam(c, "id")
		if !ok {
			return
		}
		if err := s.PurgeUser(c.Request.Context(), adminID, userID); err != nil {
			writeError(c, err, "Purge user")
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// ListUsersHandler lists every account
func ListUsersHandler(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		users, err := s.Users().List(c.Request.Context())
		if err != nil {
			writeError(c, err, "List users")
			return
		}
		c.JSON(http.StatusOK, users)
	}
}
