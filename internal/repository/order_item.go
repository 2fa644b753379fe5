package repository

import (
	"context"

	"storefront/internal/domain"
)

type OrderItemRepository interface {
	Create(ctx context.Context, item *domain.OrderItem) (uint, error)
	GetByID(ctx context.Context, id uint) (*domain.OrderItem, error)
	GetByOrderID(ctx context.Context, orderID uint) ([]domain.OrderItem, error)
}

type orderItemRepository struct {
	conn Conn
}

func NewOrderItemRepository(conn Conn) OrderItemRepository {
	return &orderItemRepository{conn: conn}
}

func (r *orderItemRepository) Create(ctx context.Context, item *domain.OrderItem) (uint, error) {
	if err := validQuantity(item.Quantity); err != nil {
		return 0, err
	}
	if item.PriceAtPurchase.IsNegative() {
		return 0, &domain.ValidationError{Field: "price_at_purchase", Reason: "must be >= 0"}
	}
	err := r.conn.Atomic(ctx, func(ctx context.Context) error {
		db := r.conn.DB(ctx)
		if err := requireRef(db, "order_item", "order_id", &domain.Order{}, item.OrderID); err != nil {
			return err
		}
		if err := requireRef(db, "order_item", "product_id", &domain.Product{}, item.ProductID); err != nil {
			return err
		}
		return translate(db.Create(item).Error, "order_item", "id")
	})
	if err != nil {
		return 0, err
	}
	return item.ID, nil
}

func (r *orderItemRepository) GetByID(ctx context.Context, id uint) (*domain.OrderItem, error) {
	return findOne[domain.OrderItem](r.conn.DB(ctx).Where("id = ?", id))
}

func (r *orderItemRepository) GetByOrderID(ctx context.Context, orderID uint) ([]domain.OrderItem, error) {
	var items []domain.OrderItem
	err := r.conn.DB(ctx).Where("order_id = ?", orderID).Order("id asc").Find(&items).Error
	return items, err
}
