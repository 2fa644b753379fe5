package store

import (
	"context" // Request context

	"storefront/internal/domain" // Importing domain models
)

// MoveWishlistToCart puts a wishlisted product into the cart and drops it
// from the wishlist in one unit
func (s *Store) MoveWishlistToCart(ctx context.Context, userID, productID uint, quantity int) error {
	return s.Atomic(ctx, func(ctx context.Context) error {
		found, err := s.repos.Wishlists.Contains(ctx, userID, productID) // Check the wishlist entry
		if err != nil {
			return err
		}
		if !found {
			return &domain.NotFoundError{Entity: "wishlist entry", Key: productID}
		}
		// Merge into the cart, then drop the entry
		if err := s.repos.Carts.Add(ctx, userID, productID, quantity); err != nil {
			return err
		}
		return s.repos.Wishlists.Remove(ctx, userID, productID)
	})
}
