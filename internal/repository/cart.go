package repository

import (
	"context" // Request context
	"fmt"     // Key formatting
	"time"    // Line timestamps

	"storefront/internal/domain" // Importing domain models

	"gorm.io/gorm"        // GORM ORM library
	"gorm.io/gorm/clause" // Upsert clauses
)

// CartRepository manages cart lines, one per (user, product) pair
type CartRepository interface {
	// Create inserts a new line and fails if the (user, product) pair exists.
	Create(ctx context.Context, line *domain.Cart) error
	// Upsert inserts a line or replaces the existing one for the same pair.
	Upsert(ctx context.Context, line *domain.Cart) error
	// Add merges quantity into an existing line, creating it if absent.
	Add(ctx context.Context, userID, productID uint, quantity int) error
	UpdateQuantity(ctx context.Context, userID, productID uint, quantity int) error
	Remove(ctx context.Context, userID, productID uint) error
	ClearUser(ctx context.Context, userID uint) error
	Get(ctx context.Context, userID, productID uint) (*domain.Cart, error)
	ListByUser(ctx context.Context, userID uint) ([]domain.Cart, error)
	Count(ctx context.Context, userID uint) (int64, error)
}

type cartRepository struct {
	conn Conn
}

func NewCartRepository(conn Conn) CartRepository {
	return &cartRepository{conn: conn}
}

func cartKey(userID, productID uint) string {
	return fmt.Sprintf("user %d product %d", userID, productID)
}

func validQuantity(quantity int) error {
	if quantity < 1 {
		return &domain.ValidationError{Field: "quantity", Reason: "must be at least 1"}
	}
	return nil
}

func (r *cartRepository) checkRefs(db *gorm.DB, userID, productID uint) error {
	if err := requireRef(db, "cart", "user_id", &domain.User{}, userID); err != nil {
		return err
	}
	return requireRef(db, "cart", "product_id", &domain.Product{}, productID)
}

func (r *cartRepository) Create(ctx context.Context, line *domain.Cart) error {
	if err := validQuantity(line.Quantity); err != nil {
		return err
	}
	return r.conn.Atomic(ctx, func(ctx context.Context) error {
		db := r.conn.DB(ctx)
		if err := r.checkRefs(db, line.UserID, line.ProductID); err != nil {
			return err
		}
		existing, err := r.Get(ctx, line.UserID, line.ProductID) // Check for an existing line
		if err != nil {
			return err
		}
		if existing != nil {
			return &domain.UniquenessViolation{Entity: "cart", Key: cartKey(line.UserID, line.ProductID)}
		}
		if line.AddedAt.IsZero() {
			line.AddedAt = time.Now().UTC() // Stamp new lines
		}
		return translate(db.Create(line).Error, "cart", cartKey(line.UserID, line.ProductID))
	})
}

func (r *cartRepository) Upsert(ctx context.Context, line *domain.Cart) error {
	if err := validQuantity(line.Quantity); err != nil {
		return err
	}
	return r.conn.Atomic(ctx, func(ctx context.Context) error {
		db := r.conn.DB(ctx)
		if err := r.checkRefs(db, line.UserID, line.ProductID); err != nil {
			return err
		}
		if line.AddedAt.IsZero() {
			line.AddedAt = time.Now().UTC()
		}
		// Replace quantity and timestamp when the pair exists
		return db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "product_id"}}, // Composite key
			DoUpdates: clause.AssignmentColumns([]string{"quantity", "added_at"}),
		}).Create(line).Error
	})
}

func (r *cartRepository) Add(ctx context.Context, userID, productID uint, quantity int) error {
	if err := validQuantity(quantity); err != nil {
		return err
	}
	return r.conn.Atomic(ctx, func(ctx context.Context) error {
		existing, err := r.Get(ctx, userID, productID)
		if err != nil {
			return err
		}
		if existing == nil {
			return r.Create(ctx, &domain.Cart{UserID: userID, ProductID: productID, Quantity: quantity}) // First add
		}
		// Merge into the existing line
		return r.conn.DB(ctx).Model(&domain.Cart{}).
			Where("user_id = ? AND product_id = ?", userID, productID).
			Update("quantity", existing.Quantity+quantity).Error
	})
}

func (r *cartRepository) UpdateQuantity(ctx context.Context, userID, productID uint, quantity int) error {
	if err := validQuantity(quantity); err != nil {
		return err
	}
	return r.conn.Atomic(ctx, func(ctx context.Context) error {
		res := r.conn.DB(ctx).Model(&domain.Cart{}).
			Where("user_id = ? AND product_id = ?", userID, productID).
			Update("quantity", quantity)
		if res.Error != nil {
			return res.Error
		}
		// Zero rows is either a missing line or an unchanged quantity
		if res.RowsAffected == 0 {
			existing, err := r.Get(ctx, userID, productID)
			if err != nil {
				return err
			}
			if existing == nil {
				return &domain.NotFoundError{Entity: "cart line", Key: cartKey(userID, productID)}
			}
		}
		return nil
	})
}

func (r *cartRepository) Remove(ctx context.Context, userID, productID uint) error {
	return r.conn.Atomic(ctx, func(ctx context.Context) error {
		return r.conn.DB(ctx).Where("user_id = ? AND product_id = ?", userID, productID).
			Delete(&domain.Cart{}).Error
	})
}

func (r *cartRepository) ClearUser(ctx context.Context, userID uint) error {
	return r.conn.Atomic(ctx, func(ctx context.Context) error {
		return r.conn.DB(ctx).Where("user_id = ?", userID).Delete(&domain.Cart{}).Error
	})
}

func (r *cartRepository) Get(ctx context.Context, userID, productID uint) (*domain.Cart, error) {
	return findOne[domain.Cart](r.conn.DB(ctx).Where("user_id = ? AND product_id = ?", userID, productID))
}

func (r *cartRepository) ListByUser(ctx context.Context, userID uint) ([]domain.Cart, error) {
	var lines []domain.Cart
	err := r.conn.DB(ctx).Where("user_id = ?", userID).
		Order("added_at asc").Order("product_id asc").Find(&lines).Error // Oldest line first
	return lines, err
}

func (r *cartRepository) Count(ctx context.Context, userID uint) (int64, error) {
	var n int64
	err := r.conn.DB(ctx).Model(&domain.Cart{}).Where("user_id = ?", userID).Count(&n).Error
	return n, err
}
