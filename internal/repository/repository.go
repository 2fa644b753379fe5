// Package repository holds the per-entity data access objects. Every write
// validates its foreign keys before touching the table and runs inside a
// unit of work obtained from Conn.
package repository

import (
	"context" // Unit of work carrier
	"errors"  // Error matching
	"fmt"     // Error wrapping

	"storefront/internal/domain" // Importing domain models

	"gorm.io/gorm" // GORM ORM library
)

// Conn hands out gorm handles bound to the caller's unit of work.
type Conn interface {
	// DB returns the transaction carried by ctx, or the shared handle.
	DB(ctx context.Context) *gorm.DB
	// Atomic runs fn in one serialized transaction. Nested calls join the
	// transaction already carried by ctx.
	Atomic(ctx context.Context, fn func(ctx context.Context) error) error
}

// findOne returns nil, nil when the query matches nothing
func findOne[T any](q *gorm.DB) (*T, error) {
	var out T
	err := q.Take(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil // Absence is not an error here
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// exists reports whether a row of model with the given id is present
func exists(db *gorm.DB, model any, id uint) (bool, error) {
	var n int64
	if err := db.Model(model).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// requireRef fails with a ReferentialIntegrityError if the referenced row is absent
func requireRef(db *gorm.DB, entity, field string, model any, id uint) error {
	ok, err := exists(db, model, id)
	if err != nil {
		return fmt.Errorf("check %s.%s: %w", entity, field, err)
	}
	if !ok {
		return &domain.ReferentialIntegrityError{Entity: entity, Field: field, ID: id}
	}
	return nil
}

// requireRow fails with a NotFoundError if the row being changed is absent
func requireRow(db *gorm.DB, entity string, model any, id uint) error {
	ok, err := exists(db, model, id)
	if err != nil {
		return fmt.Errorf("load %s: %w", entity, err)
	}
	if !ok {
		return &domain.NotFoundError{Entity: entity, Key: id}
	}
	return nil
}

// translate maps driver constraint errors that slipped past the explicit
// checks onto the domain taxonomy
func translate(err error, entity, key string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return &domain.UniquenessViolation{Entity: entity, Key: key}
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return &domain.ReferentialIntegrityError{Entity: entity, Field: key}
	default:
		return fmt.Errorf("write %s: %w", entity, err)
	}
}

// Repositories bundles one of each repository over a single Conn.
type Repositories struct {
	Categories CategoryRepository
	Users      UserRepository
	Products   ProductRepository
	Reviews    ReviewRepository
	Wishlists  WishlistRepository
	Addresses  AddressRepository
	Carts      CartRepository
	Orders     OrderRepository
	OrderItems OrderItemRepository
}

// New wires every repository to conn
func New(conn Conn) *Repositories {
	return &Repositories{
		Categories: NewCategoryRepository(conn),
		Users:      NewUserRepository(conn),
		Products:   NewProductRepository(conn),
		Reviews:    NewReviewRepository(conn),
		Wishlists:  NewWishlistRepository(conn),
		Addresses:  NewAddressRepository(conn),
		Carts:      NewCartRepository(conn),
		Orders:     NewOrderRepository(conn),
		OrderItems: NewOrderItemRepository(conn),
	}
}
