package store

import (
	"context" // Request context

	"storefront/internal/domain" // Importing domain models

	"github.com/sirupsen/logrus" // Logging library
)

// TransitionOrder moves an order one step along its lifecycle:
// pending -> confirmed -> shipped -> delivered, with pending or confirmed ->
// cancelled. Cancelling returns the items to stock.
func (s *Store) TransitionOrder(ctx context.Context, orderID uint, next domain.OrderStatus) (*domain.Order, error) {
	var order *domain.Order
	err := s.Atomic(ctx, func(ctx context.Context) error {
		var err error
		order, err = s.repos.Orders.GetByID(ctx, orderID) // Load the order
		if err != nil {
			return err
		}
		if order == nil {
			return &domain.NotFoundError{Entity: "order", Key: orderID} // Unknown order
		}
		return s.transition(ctx, order, next)
	})
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"order_id": orderID,     // Order
			"to":       next,        // Requested status
			"error":    err.Error(), // Error message
		}).Warn("Order transition rejected")
		return nil, err
	}
	return order, nil
}

// CancelOrder is the customer-facing cancellation; the order must be the user's
func (s *Store) CancelOrder(ctx context.Context, userID, orderID uint) (*domain.Order, error) {
	var order *domain.Order
	err := s.Atomic(ctx, func(ctx context.Context) error {
		var err error
		order, err = s.repos.Orders.GetByID(ctx, orderID)
		if err != nil {
			return err
		}
		// Someone else's order looks absent
		if order == nil || order.UserID != userID {
			return &domain.NotFoundError{Entity: "order", Key: orderID}
		}
		return s.transition(ctx, order, domain.OrderCancelled)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (s *Store) transition(ctx context.Context, order *domain.Order, next domain.OrderStatus) error {
	// Check the lifecycle allows the step
	if !order.Status.CanTransitionTo(next) {
		return &domain.InvalidTransitionError{From: order.Status, To: next}
	}
	if err := s.repos.Orders.UpdateStatus(ctx, order.ID, next); err != nil {
		return err
	}
	// Cancelling puts every item back on the shelf
	if next == domain.OrderCancelled {
		items, err := s.repos.OrderItems.GetByOrderID(ctx, order.ID)
		if err != nil {
			return err
		}
		for _, item := range items {
			if err := s.repos.Products.AdjustStock(ctx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}
	}
	s.log.WithFields(logrus.Fields{
		"order_id": order.ID,     // Order
		"from":     order.Status, // Previous status
		"to":       next,         // New status
	}).Info("Order status changed")
	order.Status = next // Reflect the committed status
	return nil
}

// DeleteOrder is the admin cleanup path: the order and its items go together
func (s *Store) DeleteOrder(ctx context.Context, adminID, orderID uint) error {
	return s.Atomic(ctx, func(ctx context.Context) error {
		if err := s.requireAdmin(ctx, adminID); err != nil {
			return err
		}
		return s.repos.Orders.Delete(ctx, orderID) // Items cascade in the same unit
	})
}
