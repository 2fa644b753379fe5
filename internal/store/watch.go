package store

import (
	"context"
	"sync"

	"storefront/internal/aggregate"
	"storefront/internal/domain"
	"storefront/internal/repository"
)

// Snapshot is one delivery of a live query
type Snapshot[T any] struct {
	Value T
	Err   error
}

// Live is a cancellable live query. It delivers the current result first and
// a fresh result after each committed write to the watched tables.
type Live[T any] struct {
	sub      *Subscription
	out      chan Snapshot[T]
	finished chan struct{}
	once     sync.Once
}

// Updates delivers snapshots; it is closed after Cancel or store shutdown
func (l *Live[T]) Updates() <-chan Snapshot[T] { return l.out }

// Cancel stops the live query. When Cancel returns no further snapshot will
// be delivered.
func (l *Live[T]) Cancel() {
	l.once.Do(func() {
		l.sub.Cancel()
		<-l.finished
	})
}

// Subscribe returns a raw change signal for the given tables
func (s *Store) Subscribe(tables ...string) (*Subscription, error) {
	if s.closed.Load() {
		return nil, ErrClosed
	}
	return s.hub.subscribe(tables), nil
}

// OnCommit registers hook to run after every committed unit of work that
// wrote at least one table. Hooks run under the write lock, before Atomic
// returns, so they must not write through the store. The returned func
// unregisters the hook.
func (s *Store) OnCommit(hook CommitHook) (func(), error) {
	if s.closed.Load() {
		return nil, ErrClosed
	}
	return s.hub.addHook(hook), nil
}

// Watch runs query now and again after every commit touching tables. The
// goroutine stops when the Live is cancelled, ctx ends or the store closes.
func Watch[T any](ctx context.Context, s *Store, query func(ctx context.Context) (T, error), tables ...string) (*Live[T], error) {
	sub, err := s.Subscribe(tables...) // Subscribe before the first query so no commit is missed
	if err != nil {
		return nil, err
	}
	l := &Live[T]{
		sub:      sub,
		out:      make(chan Snapshot[T]), // Unbuffered: run waits for the reader
		finished: make(chan struct{}),    // Closed when run exits
	}
	go l.run(ctx, query)
	return l, nil
}

func (l *Live[T]) run(ctx context.Context, query func(ctx context.Context) (T, error)) {
	defer close(l.finished)
	defer close(l.out)
	for {
		v, err := query(ctx) // Fresh result
		select {
		case l.out <- Snapshot[T]{Value: v, Err: err}:
		case <-l.sub.Done():
			return
		case <-ctx.Done():
			return
		}
		// Wait for the next relevant commit
		select {
		case <-l.sub.C():
		case <-l.sub.Done():
			return
		case <-ctx.Done():
			return
		}
	}
}

// WatchCart follows a user's cart view
func (s *Store) WatchCart(ctx context.Context, userID uint) (*Live[*domain.CartView], error) {
	return Watch(ctx, s, func(ctx context.Context) (*domain.CartView, error) {
		return s.agg.CartView(ctx, userID)
	}, domain.TableCarts, domain.TableProducts) // Prices and availability come from products
}

// WatchOrders follows a user's order summaries
func (s *Store) WatchOrders(ctx context.Context, userID uint) (*Live[[]domain.OrderSummary], error) {
	return Watch(ctx, s, func(ctx context.Context) ([]domain.OrderSummary, error) {
		return s.agg.OrderSummaries(ctx, aggregate.OrderFilter{UserID: &userID})
	}, domain.TableOrders, domain.TableOrderItems, domain.TableUsers) // Customer columns come from users
}

// WatchAddresses follows a user's address book
func (s *Store) WatchAddresses(ctx context.Context, userID uint) (*Live[[]domain.Address], error) {
	return Watch(ctx, s, func(ctx context.Context) ([]domain.Address, error) {
		return s.repos.Addresses.ListByUser(ctx, userID)
	}, domain.TableAddresses)
}

// WatchWishlist follows a user's wishlist
func (s *Store) WatchWishlist(ctx context.Context, userID uint) (*Live[[]domain.Wishlist], error) {
	return Watch(ctx, s, func(ctx context.Context) ([]domain.Wishlist, error) {
		return s.repos.Wishlists.ListByUser(ctx, userID)
	}, domain.TableWishlists)
}

// WatchProducts follows a filtered product listing
func (s *Store) WatchProducts(ctx context.Context, filter repository.ProductFilter) (*Live[[]domain.Product], error) {
	return Watch(ctx, s, func(ctx context.Context) ([]domain.Product, error) {
		return s.repos.Products.List(ctx, filter)
	}, domain.TableProducts)
}
