package repository

import (
	"context" // Request context

	"storefront/internal/domain" // Importing domain models
)

type ReviewRepository interface {
	Create(ctx context.Context, review *domain.Review) (uint, error)
	Delete(ctx context.Context, id uint) error
	GetByID(ctx context.Context, id uint) (*domain.Review, error)
	FindByUserAndProduct(ctx context.Context, userID, productID uint) (*domain.Review, error)
	ListByProduct(ctx context.Context, productID uint) ([]domain.Review, error)
	ListByUser(ctx context.Context, userID uint) ([]domain.Review, error)
	DeleteByUser(ctx context.Context, userID uint) error
}

type reviewRepository struct {
	conn Conn
}

func NewReviewRepository(conn Conn) ReviewRepository {
	return &reviewRepository{conn: conn}
}

func (r *reviewRepository) Create(ctx context.Context, review *domain.Review) (uint, error) {
	// Validate rating range
	if review.Rating < 1 || review.Rating > 5 {
		return 0, &domain.ValidationError{Field: "rating", Reason: "must be between 1 and 5"}
	}
	err := r.conn.Atomic(ctx, func(ctx context.Context) error {
		db := r.conn.DB(ctx)
		// Both the author and the product must exist
		if err := requireRef(db, "review", "user_id", &domain.User{}, review.UserID); err != nil {
			return err
		}
		if err := requireRef(db, "review", "product_id", &domain.Product{}, review.ProductID); err != nil {
			return err
		}
		return translate(db.Create(review).Error, "review", "id") // Insert review
	})
	if err != nil {
		return 0, err
	}
	return review.ID, nil
}

func (r *reviewRepository) Delete(ctx context.Context, id uint) error {
	return r.conn.Atomic(ctx, func(ctx context.Context) error {
		db := r.conn.DB(ctx)
		if err := requireRow(db, "review", &domain.Review{}, id); err != nil {
			return err
		}
		return db.Delete(&domain.Review{}, id).Error
	})
}

func (r *reviewRepository) GetByID(ctx context.Context, id uint) (*domain.Review, error) {
	return findOne[domain.Review](r.conn.DB(ctx).Where("id = ?", id))
}

func (r *reviewRepository) FindByUserAndProduct(ctx context.Context, userID, productID uint) (*domain.Review, error) {
	return findOne[domain.Review](r.conn.DB(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Order("created_at desc").Order("id desc"))
}

func (r *reviewRepository) ListByProduct(ctx context.Context, productID uint) ([]domain.Review, error) {
	var reviews []domain.Review
	err := r.conn.DB(ctx).Where("product_id = ?", productID).
		Order("created_at desc"). // Newest first
		Order("id desc").Find(&reviews).Error
	return reviews, err
}

func (r *reviewRepository) ListByUser(ctx context.Context, userID uint) ([]domain.Review, error) {
	var reviews []domain.Review
	err := r.conn.DB(ctx).Where("user_id = ?", userID).
		Order("created_at desc").Order("id desc").Find(&reviews).Error
	return reviews, err
}

func (r *reviewRepository) DeleteByUser(ctx context.Context, userID uint) error {
	return r.conn.Atomic(ctx, func(ctx context.Context) error {
		return r.conn.DB(ctx).Where("user_id = ?", userID).Delete(&domain.Review{}).Error
	})
}
