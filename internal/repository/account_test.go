package repository_test

import (
	"context"
	"testing"

	"storefront/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserEmailIsUniqueIgnoringCase(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	mkUser(t, s, "Ann@Example.com")

	_, err := s.Users().Create(ctx, &domain.User{Name: "Other", Email: "ann@example.COM", PasswordHash: "x"})
	var dup *domain.UniquenessViolation
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "user", dup.Entity)

	got, err := s.Users().GetByEmail(ctx, "ANN@example.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "ann@example.com", got.Email)
	assert.Equal(t, domain.RoleCustomer, got.Role)
	assert.Equal(t, domain.UserActive, got.Status)
}

func TestUserStatusAndRole(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	u := mkUser(t, s, "a@example.com")

	require.NoError(t, s.Users().SetStatus(ctx, u.ID, domain.UserDisabled))
	require.NoError(t, s.Users().SetRole(ctx, u.ID, domain.RoleAdmin))
	assert.ErrorIs(t, s.Users().SetStatus(ctx, u.ID, "frozen"), domain.ErrValidation)
	assert.ErrorIs(t, s.Users().SetStatus(ctx, 999, domain.UserActive), domain.ErrNotFound)

	got, err := s.Users().GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.UserDisabled, got.Status)
	assert.True(t, got.IsAdmin())
}

func TestAddressDefaultOrderingAndUniqueness(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	u := mkUser(t, s, "a@example.com")

	first := &domain.Address{UserID: u.ID, Recipient: "A", Line1: "1 Main St", City: "Springfield", IsDefault: true}
	_, err := s.Addresses().Create(ctx, first)
	require.NoError(t, err)
	second := &domain.Address{UserID: u.ID, Recipient: "A", Line1: "2 Side St", City: "Springfield"}
	_, err = s.Addresses().Create(ctx, second)
	require.NoError(t, err)
	third := &domain.Address{UserID: u.ID, Recipient: "A", Line1: "3 High St", City: "Springfield", IsDefault: true}
	_, err = s.Addresses().Create(ctx, third)
	require.NoError(t, err)

	list, err := s.Addresses().ListByUser(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, third.ID, list[0].ID)
	assert.True(t, list[0].IsDefault)
	assert.Equal(t, []uint{first.ID, second.ID}, []uint{list[1].ID, list[2].ID})
	assert.False(t, list[1].IsDefault)
	assert.False(t, list[2].IsDefault)

	_, err = s.Addresses().Create(ctx, &domain.Address{UserID: 404, Recipient: "X", Line1: "x", City: "x"})
	assert.ErrorIs(t, err, domain.ErrReferentialIntegrity)
}

func TestAddressDeleteUnlinksOrders(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	u := mkUser(t, s, "a@example.com")
	addr := &domain.Address{UserID: u.ID, Recipient: "A", Line1: "1 Main St", City: "Springfield"}
	_, err := s.Addresses().Create(ctx, addr)
	require.NoError(t, err)
	order := &domain.Order{UserID: u.ID, ShippingAddressID: &addr.ID, TotalAmount: decimal.Zero}
	_, err = s.Orders().Create(ctx, order)
	require.NoError(t, err)

	require.NoError(t, s.Addresses().Delete(ctx, addr.ID))
	got, err := s.Orders().GetByID(ctx, order.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Nil(t, got.ShippingAddressID)
}

func TestWishlistDuplicateAndRemove(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	u := mkUser(t, s, "a@example.com")
	c := mkCategory(t, s, "Books", nil)
	p := mkProduct(t, s, c.ID, "Go", "10.00", 2)

	require.NoError(t, s.Wishlists().Add(ctx, u.ID, p.ID))
	assert.ErrorIs(t, s.Wishlists().Add(ctx, u.ID, p.ID), domain.ErrUniqueness)
	assert.ErrorIs(t, s.Wishlists().Add(ctx, u.ID, 404), domain.ErrReferentialIntegrity)

	found, err := s.Wishlists().Contains(ctx, u.ID, p.ID)
	require.NoError(t, err)
	assert.True(t, found)

	require.NoError(t, s.Wishlists().Remove(ctx, u.ID, p.ID))
	rows, err := s.Wishlists().ListByUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestOrderCreateChecksReferences(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	a := mkUser(t, s, "a@example.com")
	b := mkUser(t, s, "b@example.com")
	addr := &domain.Address{UserID: b.ID, Recipient: "B", Line1: "1 Main St", City: "Springfield"}
	_, err := s.Addresses().Create(ctx, addr)
	require.NoError(t, err)

	_, err = s.Orders().Create(ctx, &domain.Order{UserID: 404})
	assert.ErrorIs(t, err, domain.ErrReferentialIntegrity)
	_, err = s.Orders().Create(ctx, &domain.Order{UserID: a.ID, ShippingAddressID: &addr.ID})
	assert.ErrorIs(t, err, domain.ErrValidation)

	order := &domain.Order{UserID: a.ID}
	_, err = s.Orders().Create(ctx, order)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderPending, order.Status)
	assert.NotEmpty(t, order.OrderNumber)

	_, err = s.OrderItems().Create(ctx, &domain.OrderItem{OrderID: order.ID, ProductID: 404, Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrReferentialIntegrity)
	_, err = s.OrderItems().Create(ctx, &domain.OrderItem{OrderID: 404, ProductID: 1, Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrReferentialIntegrity)

	orders, err := s.Orders().ListByUser(ctx, a.ID)
	require.NoError(t, err)
	assert.Len(t, orders, 1)
}
