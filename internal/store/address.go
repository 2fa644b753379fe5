package store

import (
	"context" // Request context

	"storefront/internal/domain" // Importing domain models

	"github.com/sirupsen/logrus" // Logging library
)

// SetDefaultAddress makes addressID the user's only default address. The
// clear and the set commit together; if the address is not the user's,
// nothing changes.
func (s *Store) SetDefaultAddress(ctx context.Context, userID, addressID uint) error {
	err := s.Atomic(ctx, func(ctx context.Context) error {
		// Clear the current default; rolled back if the new one is rejected
		if err := s.repos.Addresses.ClearDefault(ctx, userID); err != nil {
			return err
		}
		address, err := s.repos.Addresses.GetByID(ctx, addressID) // Load the new default
		if err != nil {
			return err
		}
		// The address must exist and be the user's
		if address == nil || address.UserID != userID {
			return &domain.ValidationError{Field: "address_id", Reason: "address does not belong to user"}
		}
		return s.repos.Addresses.MarkDefault(ctx, addressID)
	})
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"user_id":    userID,      // Owner
			"address_id": addressID,   // Requested default
			"error":      err.Error(), // Error message
		}).Warn("Set default address failed")
		return err
	}
	return nil
}

// DefaultAddress returns the user's default address, or nil if none is set
func (s *Store) DefaultAddress(ctx context.Context, userID uint) (*domain.Address, error) {
	return s.repos.Addresses.DefaultFor(ctx, userID)
}

// RequireDefaultAddress is DefaultAddress for callers that need one to exist
func (s *Store) RequireDefaultAddress(ctx context.Context, userID uint) (*domain.Address, error) {
	address, err := s.repos.Addresses.DefaultFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	if address == nil {
		return nil, &domain.NotFoundError{Entity: "default address for user", Key: userID} // None set
	}
	return address, nil
}
