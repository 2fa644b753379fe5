package aggregate_test

import (
	"context"
	"path/filepath"
	"testing"

	"storefront/internal/aggregate"
	"storefront/internal/db"
	"storefront/internal/domain"
	"storefront/internal/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	s        *store.Store
	user     *domain.User
	cheap    *domain.Product
	pricey   *domain.Product
	category *domain.Category
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	s, err := store.Open(db.Options{Driver: db.DriverSQLite, Path: filepath.Join(t.TempDir(), "agg.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	f := &fixture{s: s}
	f.user = &domain.User{Name: "Ann", Email: "ann@example.com", Phone: "555-0100", PasswordHash: "x"}
	_, err = s.Users().Create(ctx, f.user)
	require.NoError(t, err)
	f.category = &domain.Category{Name: "Books"}
	_, err = s.Categories().Create(ctx, f.category)
	require.NoError(t, err)
	f.cheap = &domain.Product{Name: "Pamphlet", Price: decimal.RequireFromString("5.00"), Stock: 10, CategoryID: f.category.ID}
	_, err = s.Products().Create(ctx, f.cheap)
	require.NoError(t, err)
	f.pricey = &domain.Product{Name: "Atlas", Price: decimal.RequireFromString("7.50"), Stock: 10, CategoryID: f.category.ID}
	_, err = s.Products().Create(ctx, f.pricey)
	require.NoError(t, err)
	return f
}

func (f *fixture) order(t *testing.T, lines map[uint]int) *domain.Order {
	t.Helper()
	ctx := context.Background()
	for productID, qty := range lines {
		require.NoError(t, f.s.Carts().Add(ctx, f.user.ID, productID, qty))
	}
	order, err := f.s.PlaceOrder(ctx, store.PlaceOrderRequest{UserID: f.user.ID})
	require.NoError(t, err)
	return order
}

func TestCartViewTotalsSkipStaleLines(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.s.Carts().Add(ctx, f.user.ID, f.cheap.ID, 3))
	require.NoError(t, f.s.Carts().Add(ctx, f.user.ID, f.pricey.ID, 2))

	view, err := f.s.Aggregates().CartView(ctx, f.user.ID)
	require.NoError(t, err)
	require.Len(t, view.Lines, 2)
	assert.True(t, view.Total.Equal(decimal.RequireFromString("30.00")), view.Total.String())
	assert.Equal(t, 5, view.ItemCount)

	require.NoError(t, f.s.Products().Delete(ctx, f.pricey.ID))
	view, err = f.s.Aggregates().CartView(ctx, f.user.ID)
	require.NoError(t, err)
	require.Len(t, view.Lines, 2)
	assert.True(t, view.Total.Equal(decimal.RequireFromString("15.00")), view.Total.String())
	assert.Equal(t, 3, view.ItemCount)
	for _, line := range view.Lines {
		assert.Equal(t, line.ProductID == f.pricey.ID, line.Stale)
	}
}

func TestCartViewEmpty(t *testing.T) {
	f := newFixture(t)
	view, err := f.s.Aggregates().CartView(context.Background(), f.user.ID)
	require.NoError(t, err)
	assert.Empty(t, view.Lines)
	assert.True(t, view.Total.IsZero())
}

func TestOrderSummariesJoinCustomerAndItems(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	first := f.order(t, map[uint]int{f.cheap.ID: 2, f.pricey.ID: 1})
	second := f.order(t, map[uint]int{f.cheap.ID: 1})

	summaries, err := f.s.Aggregates().OrderSummaries(ctx, aggregate.OrderFilter{UserID: &f.user.ID})
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	// newest first
	assert.Equal(t, second.ID, summaries[0].ID)
	assert.Equal(t, first.ID, summaries[1].ID)

	got := summaries[1]
	assert.Equal(t, "Ann", got.CustomerName)
	assert.Equal(t, "ann@example.com", got.CustomerEmail)
	assert.Equal(t, "555-0100", got.CustomerPhone)
	assert.Equal(t, 2, got.ItemCount)
	assert.Equal(t, 3, got.Quantity)
	assert.True(t, got.ItemsTotal.Equal(decimal.RequireFromString("17.50")), got.ItemsTotal.String())
	assert.True(t, got.TotalAmount.Equal(got.ItemsTotal))

	pending := domain.OrderPending
	summaries, err = f.s.Aggregates().OrderSummaries(ctx, aggregate.OrderFilter{Status: &pending})
	require.NoError(t, err)
	assert.Len(t, summaries, 2)
	shipped := domain.OrderShipped
	summaries, err = f.s.Aggregates().OrderSummaries(ctx, aggregate.OrderFilter{Status: &shipped})
	require.NoError(t, err)
	assert.Empty(t, summaries)
}

func TestOrderDetailUsesPriceSnapshot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	order := f.order(t, map[uint]int{f.pricey.ID: 2})

	f.pricey.Price = decimal.RequireFromString("99.00")
	require.NoError(t, f.s.Products().Update(ctx, f.pricey))

	detail, err := f.s.Aggregates().OrderDetail(ctx, order.ID)
	require.NoError(t, err)
	require.NotNil(t, detail)
	assert.Equal(t, order.ID, detail.Order.ID)
	assert.Equal(t, order.OrderNumber, detail.Order.OrderNumber)
	assert.Equal(t, domain.OrderPending, detail.Order.Status)
	assert.True(t, detail.Order.TotalAmount.Equal(order.TotalAmount))
	require.Len(t, detail.Items, 1)
	item := detail.Items[0]
	assert.Equal(t, order.ID, item.OrderID)
	assert.Equal(t, f.pricey.ID, item.ProductID)
	assert.Equal(t, "Atlas", item.ProductName)
	assert.True(t, item.PriceAtPurchase.Equal(decimal.RequireFromString("7.50")))
	assert.True(t, item.Subtotal.Equal(decimal.RequireFromString("15.00")))

	missing, err := f.s.Aggregates().OrderDetail(ctx, 404)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestRatingSummary(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	none, err := f.s.Aggregates().RatingSummary(ctx, f.cheap.ID)
	require.NoError(t, err)
	assert.Zero(t, none.Count)
	assert.Nil(t, none.Average)

	other := &domain.User{Name: "Bob", Email: "bob@example.com", PasswordHash: "x"}
	_, err = f.s.Users().Create(ctx, other)
	require.NoError(t, err)
	_, err = f.s.Reviews().Create(ctx, &domain.Review{UserID: f.user.ID, ProductID: f.cheap.ID, Rating: 5})
	require.NoError(t, err)
	_, err = f.s.Reviews().Create(ctx, &domain.Review{UserID: other.ID, ProductID: f.cheap.ID, Rating: 3})
	require.NoError(t, err)

	got, err := f.s.Aggregates().RatingSummary(ctx, f.cheap.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Count)
	require.NotNil(t, got.Average)
	assert.InDelta(t, 4.0, *got.Average, 1e-9)
}

func TestOrderStatsAndSpend(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.order(t, map[uint]int{f.cheap.ID: 1})  // 5.00
	b := f.order(t, map[uint]int{f.pricey.ID: 2}) // 15.00
	f.order(t, map[uint]int{f.cheap.ID: 2})       // 10.00

	_, err := f.s.TransitionOrder(ctx, a.ID, domain.OrderConfirmed)
	require.NoError(t, err)
	_, err = f.s.TransitionOrder(ctx, b.ID, domain.OrderCancelled)
	require.NoError(t, err)

	stats, err := f.s.Aggregates().OrderStats(ctx, &f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Pending)
	assert.Equal(t, int64(1), stats.Confirmed)
	assert.Equal(t, int64(1), stats.Cancelled)
	assert.Equal(t, int64(3), stats.Total)

	all, err := f.s.Aggregates().OrderStats(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, stats, all)

	spent, err := f.s.Aggregates().TotalSpent(ctx, f.user.ID)
	require.NoError(t, err)
	assert.True(t, spent.Equal(decimal.RequireFromString("15.00")), spent.String())

	bought, err := f.s.Aggregates().HasUserPurchasedProduct(ctx, f.user.ID, f.cheap.ID)
	require.NoError(t, err)
	assert.True(t, bought)
	bought, err = f.s.Aggregates().HasUserPurchasedProduct(ctx, f.user.ID, f.pricey.ID)
	require.NoError(t, err)
	assert.False(t, bought)
}
