package repository_test

import (
	"context"
	"testing"

	"storefront/internal/domain"
	"storefront/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryTree(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	root := mkCategory(t, s, "Home", nil)
	kitchen := mkCategory(t, s, "Kitchen", &root.ID)
	mkCategory(t, s, "Bath", &root.ID)

	roots, err := s.Categories().Roots(ctx)
	require.NoError(t, err)
	require.Len(t, roots, 1)
	assert.Equal(t, root.ID, roots[0].ID)

	children, err := s.Categories().Children(ctx, root.ID)
	require.NoError(t, err)
	require.Len(t, children, 2)
	assert.Equal(t, "Bath", children[0].Name)

	// A category may not become its own ancestor
	root.ParentID = &kitchen.ID
	assert.ErrorIs(t, s.Categories().Update(ctx, root), domain.ErrValidation)

	_, err = s.Categories().Create(ctx, &domain.Category{Name: "Orphan", ParentID: ptr(uint(404))})
	assert.ErrorIs(t, err, domain.ErrReferentialIntegrity)
}

func TestCategoryDeleteRefusesReferenced(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	c := mkCategory(t, s, "Books", nil)
	mkProduct(t, s, c.ID, "Go", "10.00", 1)
	empty := mkCategory(t, s, "Empty", nil)

	assert.ErrorIs(t, s.Categories().Delete(ctx, c.ID), domain.ErrReferentialIntegrity)
	require.NoError(t, s.Categories().Delete(ctx, empty.ID))
	assert.ErrorIs(t, s.Categories().Delete(ctx, empty.ID), domain.ErrNotFound)
}

func TestProductCreateRequiresCategory(t *testing.T) {
	s := openStore(t)
	_, err := s.Products().Create(context.Background(), &domain.Product{Name: "Ghost", Price: decimal.NewFromInt(1), CategoryID: 77})
	var ref *domain.ReferentialIntegrityError
	require.ErrorAs(t, err, &ref)
	assert.Equal(t, "category_id", ref.Field)
}

func TestProductSoftDeleteAndFilters(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	books := mkCategory(t, s, "Books", nil)
	kitchen := mkCategory(t, s, "Kitchen", nil)
	goBook := mkProduct(t, s, books.ID, "Go Programming", "39.99", 3)
	mkProduct(t, s, books.ID, "Rust Programming", "41.00", 20)
	mkProduct(t, s, kitchen.ID, "Espresso Cup", "7.25", 80)
	assert.True(t, goBook.Active)

	list, err := s.Products().List(ctx, repository.ProductFilter{CategoryID: &books.ID})
	require.NoError(t, err)
	assert.Len(t, list, 2)

	list, err = s.Products().List(ctx, repository.ProductFilter{Query: "programming"})
	require.NoError(t, err)
	assert.Len(t, list, 2)

	require.NoError(t, s.Products().Delete(ctx, goBook.ID))
	got, err := s.Products().GetByID(ctx, goBook.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.False(t, got.Active)

	list, err = s.Products().List(ctx, repository.ProductFilter{CategoryID: &books.ID})
	require.NoError(t, err)
	assert.Len(t, list, 1)
	list, err = s.Products().List(ctx, repository.ProductFilter{CategoryID: &books.ID, IncludeInactive: true})
	require.NoError(t, err)
	assert.Len(t, list, 2)

	require.NoError(t, s.Products().Activate(ctx, goBook.ID))
	low, err := s.Products().LowStock(ctx, 5)
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, goBook.ID, low[0].ID)
}

func TestProductAdjustStock(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	c := mkCategory(t, s, "Books", nil)
	p := mkProduct(t, s, c.ID, "Go", "10.00", 2)

	require.NoError(t, s.Products().AdjustStock(ctx, p.ID, 3))
	assert.ErrorIs(t, s.Products().AdjustStock(ctx, p.ID, -6), domain.ErrValidation)
	got, err := s.Products().GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Stock)
}

func TestProductGetMissingIsNil(t *testing.T) {
	s := openStore(t)
	got, err := s.Products().GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestReviewValidation(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	u := mkUser(t, s, "a@example.com")
	c := mkCategory(t, s, "Books", nil)
	p := mkProduct(t, s, c.ID, "Go", "10.00", 2)

	_, err := s.Reviews().Create(ctx, &domain.Review{UserID: u.ID, ProductID: p.ID, Rating: 6})
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = s.Reviews().Create(ctx, &domain.Review{UserID: u.ID, ProductID: 99, Rating: 4})
	assert.ErrorIs(t, err, domain.ErrReferentialIntegrity)

	id, err := s.Reviews().Create(ctx, &domain.Review{UserID: u.ID, ProductID: p.ID, Rating: 4, Comment: "solid"})
	require.NoError(t, err)
	found, err := s.Reviews().FindByUserAndProduct(ctx, u.ID, p.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, id, found.ID)
}

func ptr[T any](v T) *T { return &v }
