package store

import (
	"context" // Request context
	"errors"  // Sentinel errors

	"storefront/internal/domain" // Importing domain models
	"storefront/internal/utils"  // Password hashing

	"github.com/sirupsen/logrus" // Logging library
)

// ErrInvalidCredentials is returned by Authenticate for any mismatch
var ErrInvalidCredentials = errors.New("invalid credentials")

// Registration is the input for RegisterUser
type Registration struct {
	Name     string          // Display name
	Email    string          // Login identity, stored lowercase
	Phone    string          // Contact phone
	Password string          // Plain text, hashed before storage
	Role     domain.UserRole // customer or admin
}

// RegisterUser hashes the password and creates the user
func (s *Store) RegisterUser(ctx context.Context, reg Registration) (*domain.User, error) {
	// Enforce the minimum password length
	if len(reg.Password) < 8 {
		return nil, &domain.ValidationError{Field: "password", Reason: "must be at least 8 characters"}
	}
	hash, err := utils.HashPassword(reg.Password) // Hash password
	if err != nil {
		return nil, err
	}
	user := &domain.User{
		Name:         reg.Name,
		Email:        reg.Email,
		Phone:        reg.Phone,
		PasswordHash: hash,
		Role:         reg.Role,
		Status:       domain.UserActive, // New accounts are active
	}
	if _, err := s.repos.Users.Create(ctx, user); err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"user_id": user.ID, "role": user.Role}).Info("User registered")
	return user, nil
}

// Authenticate checks an email and password against the stored hash.
// Disabled users cannot authenticate.
func (s *Store) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.repos.Users.GetByEmail(ctx, email) // Find user by email
	if err != nil {
		return nil, err
	}
	// Unknown, disabled and wrong password all look the same
	if user == nil || user.Status != domain.UserActive || !utils.CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// PurgeUser hard-deletes a user and every row they own. Only admins may
// purge, and never themselves.
func (s *Store) PurgeUser(ctx context.Context, adminID, userID uint) error {
	err := s.Atomic(ctx, func(ctx context.Context) error {
		if err := s.requireAdmin(ctx, adminID); err != nil {
			return err
		}
		if adminID == userID {
			return &domain.ValidationError{Field: "user_id", Reason: "admins cannot purge themselves"}
		}
		// Owned rows first, the user row last
		if err := s.repos.Carts.ClearUser(ctx, userID); err != nil {
			return err
		}
		if err := s.repos.Wishlists.ClearUser(ctx, userID); err != nil {
			return err
		}
		if err := s.repos.Reviews.DeleteByUser(ctx, userID); err != nil {
			return err
		}
		if err := s.repos.Orders.DeleteByUser(ctx, userID); err != nil { // Items go with their orders
			return err
		}
		if err := s.repos.Addresses.DeleteByUser(ctx, userID); err != nil {
			return err
		}
		return s.repos.Users.Delete(ctx, userID)
	})
	if err != nil {
		return err
	}
	s.log.WithFields(logrus.Fields{"admin_id": adminID, "user_id": userID}).Warn("User purged")
	return nil
}

func (s *Store) requireAdmin(ctx context.Context, userID uint) error {
	user, err := s.repos.Users.GetByID(ctx, userID) // Load the acting user
	if err != nil {
		return err
	}
	if user == nil || !user.IsAdmin() || user.Status != domain.UserActive {
		return &domain.ValidationError{Field: "admin_id", Reason: "admin role required"}
	}
	return nil
}
