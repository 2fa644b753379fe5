package store

import (
	"context" // Request context
	"fmt"     // Error formatting

	"storefront/internal/domain" // Importing domain models

	"github.com/shopspring/decimal" // Money amounts
	"github.com/sirupsen/logrus"    // Logging library
	"gorm.io/gorm/clause"           // Row locking
)

// PlaceOrderRequest is the checkout input. Without a ShippingAddressID the
// user's default address, if any, is used.
type PlaceOrderRequest struct {
	UserID            uint  // Ordering user
	ShippingAddressID *uint // Optional, must belong to the user
}

// PlaceOrder turns the user's current cart into an order. Every line is
// validated before anything is written; then the order, its items, the stock
// decrements and the cart clear commit as one unit. Any failure leaves no
// trace.
func (s *Store) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*domain.Order, error) {
	var order *domain.Order
	err := s.Atomic(ctx, func(ctx context.Context) error {
		user, err := s.repos.Users.GetByID(ctx, req.UserID) // Load the buyer
		if err != nil {
			return err
		}
		if user == nil {
			return &domain.ReferentialIntegrityError{Entity: "order", Field: "user_id", ID: req.UserID}
		}
		// Disabled accounts cannot buy
		if user.Status != domain.UserActive {
			return &domain.ValidationError{Field: "user_id", Reason: "user is disabled"}
		}

		lines, err := s.repos.Carts.ListByUser(ctx, req.UserID) // Current cart lines
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return &domain.ValidationError{Field: "cart", Reason: "cart is empty"}
		}

		items, total, err := s.snapshotLines(ctx, lines) // Validate everything before the first write
		if err != nil {
			return err
		}

		shipTo := req.ShippingAddressID
		// Fall back to the default address when none was given
		if shipTo == nil {
			def, err := s.repos.Addresses.DefaultFor(ctx, req.UserID)
			if err != nil {
				return err
			}
			if def != nil {
				shipTo = &def.ID
			}
		}

		order = &domain.Order{
			UserID:            req.UserID,
			ShippingAddressID: shipTo,
			OrderDate:         s.now(),             // Store clock, UTC
			Status:            domain.OrderPending, // Every order starts pending
			TotalAmount:       total,               // Sum of snapshot subtotals
		}
		// Create the order row, which assigns the order number
		if _, err := s.repos.Orders.Create(ctx, order); err != nil {
			return err
		}
		for i := range items {
			items[i].OrderID = order.ID // Link the item to its order
			if _, err := s.repos.OrderItems.Create(ctx, &items[i]); err != nil {
				return err
			}
			// Decrement stock by the quantity sold
			if err := s.repos.Products.AdjustStock(ctx, items[i].ProductID, -items[i].Quantity); err != nil {
				return err
			}
		}
		// Empty the cart in the same unit
		if err := s.repos.Carts.ClearUser(ctx, req.UserID); err != nil {
			return err
		}
		order.Items = items
		return nil
	})
	if err != nil {
		// Log the failure; nothing was written
		s.log.WithFields(logrus.Fields{
			"user_id": req.UserID,  // Buyer
			"error":   err.Error(), // Error message
		}).Warn("Place order failed")
		return nil, err
	}
	s.log.WithFields(logrus.Fields{
		"user_id":      req.UserID,                       // Buyer
		"order_id":     order.ID,                         // New order
		"order_number": order.OrderNumber,                // Human readable number
		"items":        len(order.Items),                 // Line count
		"total":        order.TotalAmount.StringFixed(2), // Order total
	}).Info("Order placed")
	return order, nil
}

// snapshotLines locks each cart line's product, checks it can be sold and
// captures its current price
func (s *Store) snapshotLines(ctx context.Context, lines []domain.Cart) ([]domain.OrderItem, decimal.Decimal, error) {
	db := s.DB(ctx)
	lock := db.Dialector.Name() != "sqlite" // SQLite serializes writers at the file level
	items := make([]domain.OrderItem, 0, len(lines))
	total := decimal.Zero
	for _, line := range lines {
		q := db.Where("id = ?", line.ProductID)
		if lock {
			q = q.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		var products []domain.Product // Find leaves the slice empty on a miss
		if err := q.Limit(1).Find(&products).Error; err != nil {
			return nil, decimal.Zero, fmt.Errorf("load product %d: %w", line.ProductID, err)
		}
		// Gone or deactivated products cannot be sold
		if len(products) == 0 || !products[0].Active {
			return nil, decimal.Zero, &domain.ValidationError{
				Field:  "product_id",
				Reason: fmt.Sprintf("product %d is no longer available", line.ProductID),
			}
		}
		product := products[0]
		// Check stock covers the line
		if product.Stock < line.Quantity {
			return nil, decimal.Zero, &domain.ValidationError{
				Field:  "quantity",
				Reason: fmt.Sprintf("insufficient stock for %s: requested %d, available %d", product.Name, line.Quantity, product.Stock),
			}
		}
		item := domain.OrderItem{
			ProductID:       product.ID,
			Quantity:        line.Quantity,
			PriceAtPurchase: product.Price, // Snapshot of the current price
		}
		total = total.Add(item.Subtotal())
		items = append(items, item)
	}
	return items, total, nil
}
