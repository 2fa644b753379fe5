package repository_test

import (
	"context"
	"testing"

	"storefront/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartCreateRejectsDuplicateLine(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	u := mkUser(t, s, "a@example.com")
	c := mkCategory(t, s, "Books", nil)
	p := mkProduct(t, s, c.ID, "Go", "10.00", 5)

	require.NoError(t, s.Carts().Create(ctx, &domain.Cart{UserID: u.ID, ProductID: p.ID, Quantity: 1}))
	err := s.Carts().Create(ctx, &domain.Cart{UserID: u.ID, ProductID: p.ID, Quantity: 2})
	assert.ErrorIs(t, err, domain.ErrUniqueness)

	n, err := s.Carts().Count(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestCartUpsertReplacesAndAddMerges(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	u := mkUser(t, s, "a@example.com")
	c := mkCategory(t, s, "Books", nil)
	p := mkProduct(t, s, c.ID, "Go", "10.00", 5)

	require.NoError(t, s.Carts().Upsert(ctx, &domain.Cart{UserID: u.ID, ProductID: p.ID, Quantity: 2}))
	require.NoError(t, s.Carts().Upsert(ctx, &domain.Cart{UserID: u.ID, ProductID: p.ID, Quantity: 4}))
	line, err := s.Carts().Get(ctx, u.ID, p.ID)
	require.NoError(t, err)
	require.NotNil(t, line)
	assert.Equal(t, 4, line.Quantity)

	require.NoError(t, s.Carts().Add(ctx, u.ID, p.ID, 3))
	line, err = s.Carts().Get(ctx, u.ID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, line.Quantity)

	n, err := s.Carts().Count(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestCartRejectsMissingReferences(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	u := mkUser(t, s, "a@example.com")

	err := s.Carts().Add(ctx, u.ID, 999, 1)
	var ref *domain.ReferentialIntegrityError
	require.ErrorAs(t, err, &ref)
	assert.Equal(t, "product_id", ref.Field)
	assert.Equal(t, uint(999), ref.ID)

	lines, err := s.Carts().ListByUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestCartQuantityValidation(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	u := mkUser(t, s, "a@example.com")
	c := mkCategory(t, s, "Books", nil)
	p := mkProduct(t, s, c.ID, "Go", "10.00", 5)

	assert.ErrorIs(t, s.Carts().Add(ctx, u.ID, p.ID, 0), domain.ErrValidation)
	require.NoError(t, s.Carts().Add(ctx, u.ID, p.ID, 1))
	assert.ErrorIs(t, s.Carts().UpdateQuantity(ctx, u.ID, p.ID, -1), domain.ErrValidation)
	assert.ErrorIs(t, s.Carts().UpdateQuantity(ctx, u.ID, 12345, 2), domain.ErrNotFound)
	require.NoError(t, s.Carts().UpdateQuantity(ctx, u.ID, p.ID, 2))
}

func TestCartClearUserLeavesOthers(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	a := mkUser(t, s, "a@example.com")
	b := mkUser(t, s, "b@example.com")
	c := mkCategory(t, s, "Books", nil)
	p := mkProduct(t, s, c.ID, "Go", "10.00", 5)

	require.NoError(t, s.Carts().Add(ctx, a.ID, p.ID, 1))
	require.NoError(t, s.Carts().Add(ctx, b.ID, p.ID, 2))
	require.NoError(t, s.Carts().ClearUser(ctx, a.ID))

	n, err := s.Carts().Count(ctx, a.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
	line, err := s.Carts().Get(ctx, b.ID, p.ID)
	require.NoError(t, err)
	require.NotNil(t, line)
	assert.Equal(t, 2, line.Quantity)
}
