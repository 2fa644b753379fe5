package store

import (
	"context"
	"testing"

	"storefront/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func placeOne(t *testing.T, s *Store, userID uint, p *domain.Product, qty int) *domain.Order {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, s.Carts().Add(ctx, userID, p.ID, qty))
	order, err := s.PlaceOrder(ctx, PlaceOrderRequest{UserID: userID})
	require.NoError(t, err)
	return order
}

func TestTransitionOrderFollowsLifecycle(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	u := register(t, s, "a@example.com", domain.RoleCustomer)
	p := product(t, s, "A", "5.00", 10)
	order := placeOne(t, s, u.ID, p, 1)

	_, err := s.TransitionOrder(ctx, order.ID, domain.OrderShipped)
	var terr *domain.InvalidTransitionError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, domain.OrderPending, terr.From)

	for _, next := range []domain.OrderStatus{domain.OrderConfirmed, domain.OrderShipped, domain.OrderDelivered} {
		got, err := s.TransitionOrder(ctx, order.ID, next)
		require.NoError(t, err)
		assert.Equal(t, next, got.Status)
	}
	_, err = s.TransitionOrder(ctx, order.ID, domain.OrderCancelled)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	stored, err := s.Orders().GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderDelivered, stored.Status)

	_, err = s.TransitionOrder(ctx, 404, domain.OrderConfirmed)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCancelOrderRestocksAndChecksOwner(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	u := register(t, s, "a@example.com", domain.RoleCustomer)
	other := register(t, s, "b@example.com", domain.RoleCustomer)
	p := product(t, s, "A", "5.00", 10)
	order := placeOne(t, s, u.ID, p, 4)

	_, err := s.CancelOrder(ctx, other.ID, order.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	got, err := s.CancelOrder(ctx, u.ID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderCancelled, got.Status)
	stock, err := s.Products().GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, stock.Stock)

	_, err = s.CancelOrder(ctx, u.ID, order.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	stock, err = s.Products().GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, stock.Stock)
}

func TestDeleteOrderRequiresAdmin(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	admin := register(t, s, "admin@example.com", domain.RoleAdmin)
	u := register(t, s, "a@example.com", domain.RoleCustomer)
	p := product(t, s, "A", "5.00", 10)
	order := placeOne(t, s, u.ID, p, 1)

	assert.ErrorIs(t, s.DeleteOrder(ctx, u.ID, order.ID), domain.ErrValidation)
	require.NoError(t, s.DeleteOrder(ctx, admin.ID, order.ID))

	gone, err := s.Orders().GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
	items, err := s.OrderItems().GetByOrderID(ctx, order.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.ErrorIs(t, s.DeleteOrder(ctx, admin.ID, order.ID), domain.ErrNotFound)
}
