package repository

import (
	"context" // Request context
	"strings" // Name normalization

	"storefront/internal/domain" // Importing domain models

	"gorm.io/gorm" // GORM ORM library
)

// ProductFilter narrows product listings. Zero value lists every active product.
type ProductFilter struct {
	CategoryID      *uint  // Only this category
	Query           string // case-insensitive name substring
	IncludeInactive bool   // Admin listings
}

// ProductRepository manages the catalog
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) (uint, error)
	Update(ctx context.Context, product *domain.Product) error
	// Delete is a soft delete: the product is deactivated.
	Delete(ctx context.Context, id uint) error
	Activate(ctx context.Context, id uint) error
	GetByID(ctx context.Context, id uint) (*domain.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]domain.Product, error)
	LowStock(ctx context.Context, threshold int) ([]domain.Product, error)
	AdjustStock(ctx context.Context, id uint, delta int) error
}

type productRepository struct {
	conn Conn
}

func NewProductRepository(conn Conn) ProductRepository {
	return &productRepository{conn: conn}
}

func validateProduct(p *domain.Product) error {
	p.Name = strings.TrimSpace(p.Name) // Normalize name
	if p.Name == "" {
		return &domain.ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if p.Price.IsNegative() {
		return &domain.ValidationError{Field: "price", Reason: "must be >= 0"}
	}
	if p.Stock < 0 {
		return &domain.ValidationError{Field: "stock", Reason: "must be >= 0"}
	}
	return nil
}

// Create inserts a product; new products always start active
func (r *productRepository) Create(ctx context.Context, product *domain.Product) (uint, error) {
	product.Active = true // Deactivation is a separate step
	if err := validateProduct(product); err != nil {
		return 0, err
	}
	err := r.conn.Atomic(ctx, func(ctx context.Context) error {
		db := r.conn.DB(ctx)
		// The category must exist
		if err := requireRef(db, "product", "category_id", &domain.Category{}, product.CategoryID); err != nil {
			return err
		}
		return translate(db.Create(product).Error, "product", "id") // Insert product
	})
	if err != nil {
		return 0, err
	}
	return product.ID, nil
}

func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	if err := validateProduct(product); err != nil {
		return err
	}
	return r.conn.Atomic(ctx, func(ctx context.Context) error {
		db := r.conn.DB(ctx)
		if err := requireRow(db, "product", &domain.Product{}, product.ID); err != nil {
			return err
		}
		if err := requireRef(db, "product", "category_id", &domain.Category{}, product.CategoryID); err != nil {
			return err
		}
		err := db.Model(product).
			Select("name", "description", "price", "stock", "category_id", "image_url", "active", "updated_at"). // Write zero values too
			Updates(product).Error
		return translate(err, "product", "id")
	})
}

func (r *productRepository) Delete(ctx context.Context, id uint) error {
	return r.setActive(ctx, id, false)
}

func (r *productRepository) Activate(ctx context.Context, id uint) error {
	return r.setActive(ctx, id, true)
}

func (r *productRepository) setActive(ctx context.Context, id uint, active bool) error {
	return r.conn.Atomic(ctx, func(ctx context.Context) error {
		db := r.conn.DB(ctx)
		if err := requireRow(db, "product", &domain.Product{}, id); err != nil {
			return err
		}
		return db.Model(&domain.Product{ID: id}).Update("active", active).Error // Flip the flag, keep the row
	})
}

func (r *productRepository) GetByID(ctx context.Context, id uint) (*domain.Product, error) {
	return findOne[domain.Product](r.conn.DB(ctx).Where("id = ?", id))
}

func (r *productRepository) List(ctx context.Context, filter ProductFilter) ([]domain.Product, error) {
	q := r.conn.DB(ctx).Model(&domain.Product{})
	if !filter.IncludeInactive {
		q = q.Where("active = ?", true) // Storefront listings hide inactive products
	}
	if filter.CategoryID != nil {
		q = q.Where("category_id = ?", *filter.CategoryID)
	}
	if s := strings.TrimSpace(filter.Query); s != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(s)+"%") // Portable case folding
	}
	var products []domain.Product
	err := q.Order("name asc").Order("id asc").Find(&products).Error
	return products, err
}

func (r *productRepository) LowStock(ctx context.Context, threshold int) ([]domain.Product, error) {
	var products []domain.Product
	err := r.conn.DB(ctx).
		Where("active = ? AND stock <= ?", true, threshold).
		Order("stock asc").Order("id asc"). // Emptiest first
		Find(&products).Error
	return products, err
}

// AdjustStock adds delta to the stock count; the result may not go below zero
func (r *productRepository) AdjustStock(ctx context.Context, id uint, delta int) error {
	return r.conn.Atomic(ctx, func(ctx context.Context) error {
		db := r.conn.DB(ctx)
		product, err := r.GetByID(ctx, id) // Read current stock
		if err != nil {
			return err
		}
		if product == nil {
			return &domain.NotFoundError{Entity: "product", Key: id}
		}
		// Stock never goes negative
		if product.Stock+delta < 0 {
			return &domain.ValidationError{Field: "stock", Reason: "insufficient stock"}
		}
		return db.Model(&domain.Product{ID: id}).Update("stock", gorm.Expr("stock + ?", delta)).Error // Relative update
	})
}
