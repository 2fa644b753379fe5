package repository

import (
	"context" // Request context
	"strings" // Name trimming

	"storefront/internal/domain" // Importing domain models
)

// CategoryRepository manages the category tree
type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) (uint, error)
	Update(ctx context.Context, category *domain.Category) error
	Delete(ctx context.Context, id uint) error
	GetByID(ctx context.Context, id uint) (*domain.Category, error)
	List(ctx context.Context) ([]domain.Category, error)
	Roots(ctx context.Context) ([]domain.Category, error)
	Children(ctx context.Context, parentID uint) ([]domain.Category, error)
}

type categoryRepository struct {
	conn Conn
}

func NewCategoryRepository(conn Conn) CategoryRepository {
	return &categoryRepository{conn: conn}
}

func (r *categoryRepository) Create(ctx context.Context, category *domain.Category) (uint, error) {
	category.Name = strings.TrimSpace(category.Name) // Normalize name
	if category.Name == "" {
		return 0, &domain.ValidationError{Field: "name", Reason: "must not be empty"}
	}
	err := r.conn.Atomic(ctx, func(ctx context.Context) error {
		db := r.conn.DB(ctx)
		// A parent must exist
		if category.ParentID != nil {
			if err := requireRef(db, "category", "parent_id", &domain.Category{}, *category.ParentID); err != nil {
				return err
			}
		}
		return translate(db.Create(category).Error, "category", "id") // Insert category
	})
	if err != nil {
		return 0, err
	}
	return category.ID, nil
}

func (r *categoryRepository) Update(ctx context.Context, category *domain.Category) error {
	category.Name = strings.TrimSpace(category.Name)
	if category.Name == "" {
		return &domain.ValidationError{Field: "name", Reason: "must not be empty"}
	}
	return r.conn.Atomic(ctx, func(ctx context.Context) error {
		db := r.conn.DB(ctx)
		if err := requireRow(db, "category", &domain.Category{}, category.ID); err != nil {
			return err
		}
		if category.ParentID != nil {
			if err := requireRef(db, "category", "parent_id", &domain.Category{}, *category.ParentID); err != nil {
				return err
			}
			// Reject moves under its own subtree
			if err := r.checkCycle(ctx, category.ID, *category.ParentID); err != nil {
				return err
			}
		}
		return translate(db.Model(category).Select("name", "parent_id").Updates(category).Error, "category", "id")
	})
}

// checkCycle walks up from parentID and rejects a chain that reaches id
func (r *categoryRepository) checkCycle(ctx context.Context, id, parentID uint) error {
	seen := map[uint]bool{}
	for cur := &parentID; cur != nil; {
		if *cur == id {
			return &domain.ValidationError{Field: "parent_id", Reason: "category cannot be its own ancestor"}
		}
		if seen[*cur] {
			return nil // Pre-existing loop above us, not ours to report
		}
		seen[*cur] = true
		parent, err := r.GetByID(ctx, *cur)
		if err != nil {
			return err
		}
		if parent == nil {
			return nil
		}
		cur = parent.ParentID
	}
	return nil
}

// Delete removes a category that no product or subcategory still references
func (r *categoryRepository) Delete(ctx context.Context, id uint) error {
	return r.conn.Atomic(ctx, func(ctx context.Context) error {
		db := r.conn.DB(ctx)
		if err := requireRow(db, "category", &domain.Category{}, id); err != nil {
			return err
		}
		var refs int64 // Products first, then subcategories
		if err := db.Model(&domain.Product{}).Where("category_id = ?", id).Count(&refs).Error; err != nil {
			return err
		}
		if refs == 0 {
			if err := db.Model(&domain.Category{}).Where("parent_id = ?", id).Count(&refs).Error; err != nil {
				return err
			}
		}
		if refs > 0 {
			return &domain.ReferentialIntegrityError{Entity: "category", Field: "id", ID: id}
		}
		return db.Delete(&domain.Category{}, id).Error // Delete category
	})
}

func (r *categoryRepository) GetByID(ctx context.Context, id uint) (*domain.Category, error) {
	return findOne[domain.Category](r.conn.DB(ctx).Where("id = ?", id))
}

func (r *categoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	var categories []domain.Category
	err := r.conn.DB(ctx).Order("name asc").Order("id asc").Find(&categories).Error // Alphabetical
	return categories, err
}

func (r *categoryRepository) Roots(ctx context.Context) ([]domain.Category, error) {
	var categories []domain.Category
	err := r.conn.DB(ctx).Where("parent_id IS NULL").Order("name asc").Order("id asc").Find(&categories).Error // Top level only
	return categories, err
}

func (r *categoryRepository) Children(ctx context.Context, parentID uint) ([]domain.Category, error) {
	var categories []domain.Category
	err := r.conn.DB(ctx).Where("parent_id = ?", parentID).Order("name asc").Order("id asc").Find(&categories).Error
	return categories, err
}
