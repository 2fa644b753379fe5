package repository

import (
	"context" // Request context
	"strings" // Field trimming

	"storefront/internal/domain" // Importing domain models
)

// AddressRepository manages the address book; at most one address per user
// is the default
type AddressRepository interface {
	// Create inserts an address. A default address replaces the user's previous default.
	Create(ctx context.Context, address *domain.Address) (uint, error)
	Update(ctx context.Context, address *domain.Address) error
	Delete(ctx context.Context, id uint) error
	GetByID(ctx context.Context, id uint) (*domain.Address, error)
	ListByUser(ctx context.Context, userID uint) ([]domain.Address, error)
	DefaultFor(ctx context.Context, userID uint) (*domain.Address, error)
	ClearDefault(ctx context.Context, userID uint) error
	MarkDefault(ctx context.Context, id uint) error
	DeleteByUser(ctx context.Context, userID uint) error
}

type addressRepository struct {
	conn Conn
}

func NewAddressRepository(conn Conn) AddressRepository {
	return &addressRepository{conn: conn}
}

func validateAddress(a *domain.Address) error {
	a.Recipient = strings.TrimSpace(a.Recipient) // Normalize required fields
	a.Line1 = strings.TrimSpace(a.Line1)
	a.City = strings.TrimSpace(a.City)
	switch {
	case a.Recipient == "":
		return &domain.ValidationError{Field: "recipient", Reason: "must not be empty"}
	case a.Line1 == "":
		return &domain.ValidationError{Field: "line1", Reason: "must not be empty"}
	case a.City == "":
		return &domain.ValidationError{Field: "city", Reason: "must not be empty"}
	}
	return nil
}

func (r *addressRepository) Create(ctx context.Context, address *domain.Address) (uint, error) {
	if err := validateAddress(address); err != nil {
		return 0, err
	}
	err := r.conn.Atomic(ctx, func(ctx context.Context) error {
		db := r.conn.DB(ctx)
		if err := requireRef(db, "address", "user_id", &domain.User{}, address.UserID); err != nil {
			return err
		}
		// A new default replaces the old one in the same unit
		if address.IsDefault {
			if err := r.ClearDefault(ctx, address.UserID); err != nil {
				return err
			}
		}
		return translate(db.Create(address).Error, "address", "id") // Insert address
	})
	if err != nil {
		return 0, err
	}
	return address.ID, nil
}

// Update rewrites an address in place. Ownership cannot change.
func (r *addressRepository) Update(ctx context.Context, address *domain.Address) error {
	if err := validateAddress(address); err != nil {
		return err
	}
	return r.conn.Atomic(ctx, func(ctx context.Context) error {
		db := r.conn.DB(ctx)
		current, err := r.GetByID(ctx, address.ID) // Load the stored row
		if err != nil {
			return err
		}
		if current == nil {
			return &domain.NotFoundError{Entity: "address", Key: address.ID}
		}
		// Ownership is fixed at creation
		if current.UserID != address.UserID {
			return &domain.ValidationError{Field: "user_id", Reason: "address belongs to another user"}
		}
		if address.IsDefault && !current.IsDefault {
			if err := r.ClearDefault(ctx, address.UserID); err != nil {
				return err
			}
		}
		return db.Model(address).
			Select("recipient", "phone", "line1", "line2", "city", "postal_code", "country", "is_default"). // Zero values included
			Updates(address).Error
	})
}

func (r *addressRepository) Delete(ctx context.Context, id uint) error {
	return r.conn.Atomic(ctx, func(ctx context.Context) error {
		db := r.conn.DB(ctx)
		if err := requireRow(db, "address", &domain.Address{}, id); err != nil {
			return err
		}
		// orders keep their history but lose the link to a removed address
		if err := db.Model(&domain.Order{}).Where("shipping_address_id = ?", id).
			Update("shipping_address_id", nil).Error; err != nil {
			return err
		}
		return db.Delete(&domain.Address{}, id).Error
	})
}

func (r *addressRepository) GetByID(ctx context.Context, id uint) (*domain.Address, error) {
	return findOne[domain.Address](r.conn.DB(ctx).Where("id = ?", id))
}

func (r *addressRepository) ListByUser(ctx context.Context, userID uint) ([]domain.Address, error) {
	var addresses []domain.Address
	err := r.conn.DB(ctx).Where("user_id = ?", userID).
		Order("is_default desc").Order("id asc").Find(&addresses).Error // Default first
	return addresses, err
}

func (r *addressRepository) DefaultFor(ctx context.Context, userID uint) (*domain.Address, error) {
	return findOne[domain.Address](r.conn.DB(ctx).
		Where("user_id = ? AND is_default = ?", userID, true).Order("id asc"))
}

func (r *addressRepository) ClearDefault(ctx context.Context, userID uint) error {
	return r.conn.Atomic(ctx, func(ctx context.Context) error {
		return r.conn.DB(ctx).Model(&domain.Address{}).
			Where("user_id = ? AND is_default = ?", userID, true).
			Update("is_default", false).Error
	})
}

func (r *addressRepository) MarkDefault(ctx context.Context, id uint) error {
	return r.conn.Atomic(ctx, func(ctx context.Context) error {
		return r.conn.DB(ctx).Model(&domain.Address{ID: id}).Update("is_default", true).Error // Caller clears the old default first
	})
}

func (r *addressRepository) DeleteByUser(ctx context.Context, userID uint) error {
	return r.conn.Atomic(ctx, func(ctx context.Context) error {
		return r.conn.DB(ctx).Where("user_id = ?", userID).Delete(&domain.Address{}).Error
	})
}
