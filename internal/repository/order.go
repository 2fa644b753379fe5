package repository

import (
	"context" // Request context
	"time"    // Order dates

	"storefront/internal/domain" // Importing domain models

	"github.com/google/uuid" // Order number suffix
	"gorm.io/gorm/clause"    // Association control
)

// OrderRepository manages order rows; state machine rules live in the store
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) (uint, error)
	GetByID(ctx context.Context, id uint) (*domain.Order, error)
	ListByUser(ctx context.Context, userID uint) ([]domain.Order, error)
	ListByStatus(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error)
	GetAll(ctx context.Context) ([]domain.Order, error)
	// UpdateStatus writes the status column without checking the state machine.
	UpdateStatus(ctx context.Context, id uint, status domain.OrderStatus) error
	// Delete removes the order together with its items.
	Delete(ctx context.Context, id uint) error
	DeleteByUser(ctx context.Context, userID uint) error
}

type orderRepository struct {
	conn Conn
}

func NewOrderRepository(conn Conn) OrderRepository {
	return &orderRepository{conn: conn}
}

// NewOrderNumber returns a sortable, unique order reference
func NewOrderNumber(now time.Time) string {
	return now.UTC().Format("20060102150405") + "-" + uuid.NewString()
}

func (r *orderRepository) Create(ctx context.Context, order *domain.Order) (uint, error) {
	// Validate total
	if order.TotalAmount.IsNegative() {
		return 0, &domain.ValidationError{Field: "total_amount", Reason: "must be >= 0"}
	}
	err := r.conn.Atomic(ctx, func(ctx context.Context) error {
		db := r.conn.DB(ctx)
		if err := requireRef(db, "order", "user_id", &domain.User{}, order.UserID); err != nil {
			return err
		}
		// A shipping address must exist and belong to the buyer
		if order.ShippingAddressID != nil {
			address, err := findOne[domain.Address](db.Where("id = ?", *order.ShippingAddressID))
			if err != nil {
				return err
			}
			if address == nil {
				return &domain.ReferentialIntegrityError{Entity: "order", Field: "shipping_address_id", ID: *order.ShippingAddressID}
			}
			if address.UserID != order.UserID {
				return &domain.ValidationError{Field: "shipping_address_id", Reason: "address belongs to another user"}
			}
		}
		if order.OrderDate.IsZero() {
			order.OrderDate = time.Now().UTC() // Default to now
		}
		if order.OrderNumber == "" {
			order.OrderNumber = NewOrderNumber(order.OrderDate) // Generate order number
		}
		if order.Status == "" {
			order.Status = domain.OrderPending // Default status
		}
		// Items are written by their own repository
		return translate(db.Omit(clause.Associations).Create(order).Error, "order", "order_number "+order.OrderNumber)
	})
	if err != nil {
		return 0, err
	}
	return order.ID, nil
}

func (r *orderRepository) GetByID(ctx context.Context, id uint) (*domain.Order, error) {
	return findOne[domain.Order](r.conn.DB(ctx).Where("id = ?", id))
}

func (r *orderRepository) ListByUser(ctx context.Context, userID uint) ([]domain.Order, error) {
	var orders []domain.Order
	err := r.conn.DB(ctx).Where("user_id = ?", userID).
		Order("order_date desc").Order("id desc").Find(&orders).Error
	return orders, err
}

func (r *orderRepository) ListByStatus(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error) {
	var orders []domain.Order
	err := r.conn.DB(ctx).Where("status = ?", status).
		Order("order_date desc").Order("id desc").Find(&orders).Error
	return orders, err
}

func (r *orderRepository) GetAll(ctx context.Context) ([]domain.Order, error) {
	var orders []domain.Order
	err := r.conn.DB(ctx).Order("order_date desc").Order("id desc").Find(&orders).Error
	return orders, err
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id uint, status domain.OrderStatus) error {
	return r.conn.Atomic(ctx, func(ctx context.Context) error {
		db := r.conn.DB(ctx)
		if err := requireRow(db, "order", &domain.Order{}, id); err != nil {
			return err
		}
		return db.Model(&domain.Order{ID: id}).Update("status", status).Error // Update status
	})
}

func (r *orderRepository) Delete(ctx context.Context, id uint) error {
	return r.conn.Atomic(ctx, func(ctx context.Context) error {
		db := r.conn.DB(ctx)
		if err := requireRow(db, "order", &domain.Order{}, id); err != nil {
			return err
		}
		// Items first, then the order
		if err := db.Where("order_id = ?", id).Delete(&domain.OrderItem{}).Error; err != nil {
			return err
		}
		return db.Delete(&domain.Order{}, id).Error
	})
}

func (r *orderRepository) DeleteByUser(ctx context.Context, userID uint) error {
	return r.conn.Atomic(ctx, func(ctx context.Context) error {
		db := r.conn.DB(ctx)
		ids := db.Model(&domain.Order{}).Select("id").Where("user_id = ?", userID) // Subquery of the user's orders
		if err := db.Where("order_id IN (?)", ids).Delete(&domain.OrderItem{}).Error; err != nil {
			return err
		}
		return db.Where("user_id = ?", userID).Delete(&domain.Order{}).Error
	})
}
