package repository

import (
	"context"
	"fmt"
	"time"

	"storefront/internal/domain"
)

type WishlistRepository interface {
	Add(ctx context.Context, userID, productID uint) error
	Remove(ctx context.Context, userID, productID uint) error
	Contains(ctx context.Context, userID, productID uint) (bool, error)
	ListByUser(ctx context.Context, userID uint) ([]domain.Wishlist, error)
	ClearUser(ctx context.Context, userID uint) error
}

type wishlistRepository struct {
	conn Conn
}

func NewWishlistRepository(conn Conn) WishlistRepository {
	return &wishlistRepository{conn: conn}
}

func (r *wishlistRepository) Add(ctx context.Context, userID, productID uint) error {
	return r.conn.Atomic(ctx, func(ctx context.Context) error {
		db := r.conn.DB(ctx)
		if err := requireRef(db, "wishlist", "user_id", &domain.User{}, userID); err != nil {
			return err
		}
		if err := requireRef(db, "wishlist", "product_id", &domain.Product{}, productID); err != nil {
			return err
		}
		key := fmt.Sprintf("user %d product %d", userID, productID)
		found, err := r.Contains(ctx, userID, productID)
		if err != nil {
			return err
		}
		if found {
			return &domain.UniquenessViolation{Entity: "wishlist", Key: key}
		}
		row := domain.Wishlist{UserID: userID, ProductID: productID, AddedAt: time.Now().UTC()}
		return translate(db.Create(&row).Error, "wishlist", key)
	})
}

func (r *wishlistRepository) Remove(ctx context.Context, userID, productID uint) error {
	return r.conn.Atomic(ctx, func(ctx context.Context) error {
		return r.conn.DB(ctx).
			Where("user_id = ? AND product_id = ?", userID, productID).
			Delete(&domain.Wishlist{}).Error
	})
}

func (r *wishlistRepository) Contains(ctx context.Context, userID, productID uint) (bool, error) {
	var n int64
	err := r.conn.DB(ctx).Model(&domain.Wishlist{}).
		Where("user_id = ? AND product_id = ?", userID, productID).Count(&n).Error
	return n > 0, err
}

func (r *wishlistRepository) ListByUser(ctx context.Context, userID uint) ([]domain.Wishlist, error) {
	var rows []domain.Wishlist
	err := r.conn.DB(ctx).Where("user_id = ?", userID).
		Order("added_at desc").Order("product_id asc").Find(&rows).Error
	return rows, err
}

func (r *wishlistRepository) ClearUser(ctx context.Context, userID uint) error {
	return r.conn.Atomic(ctx, func(ctx context.Context) error {
		return r.conn.DB(ctx).Where("user_id = ?", userID).Delete(&domain.Wishlist{}).Error
	})
}
