// Package store is the single entry point to the storefront's persistence
// layer. A Store is constructed once at process start and passed to every
// consumer; it serializes writes, exposes the repositories and aggregators,
// and notifies subscribers after each committed write.
package store

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"storefront/internal/aggregate"
	"storefront/internal/db"
	"storefront/internal/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ErrClosed is returned by operations on a closed Store
var ErrClosed = errors.New("store is closed")

// Store owns the database handle and everything built on it
type Store struct {
	db    *gorm.DB                 // Shared handle
	log   *logrus.Entry            // Component logger
	now   func() time.Time         // Clock for order dates
	hub   *hub                     // Commit fan-out
	repos *repository.Repositories // Per-entity repositories
	agg   *aggregate.Aggregator    // Joined read views

	writeMu sync.Mutex  // One unit of work at a time
	closed  atomic.Bool // Set once by Close
}

type Option func(*Store)

// WithLogger replaces the default logrus entry
func WithLogger(log *logrus.Entry) Option {
	return func(s *Store) { s.log = log }
}

// WithClock overrides the time source used for order dates
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Open connects to the configured database, migrates the schema and returns
// a ready Store.
func Open(opts db.Options, options ...Option) (*Store, error) {
	gdb, err := db.Open(opts) // Connect with the configured dialect
	if err != nil {
		return nil, err
	}
	// Bring the schema up to date
	if err := db.Migrate(gdb); err != nil {
		closeHandle(gdb)
		return nil, err
	}
	s, err := New(gdb, options...)
	if err != nil {
		closeHandle(gdb)
		return nil, err
	}
	return s, nil
}

// New wraps an already migrated gorm handle
func New(gdb *gorm.DB, options ...Option) (*Store, error) {
	s := &Store{
		db:  gdb,
		log: logrus.WithField("component", "store"),
		now: func() time.Time { return time.Now().UTC() },
		hub: newHub(),
	}
	for _, opt := range options {
		opt(s)
	}
	if err := registerChangeTracking(gdb); err != nil {
		return nil, fmt.Errorf("register change tracking: %w", err)
	}
	s.repos = repository.New(s) // Repositories run their statements through the store
	s.agg = aggregate.New(s)
	return s, nil
}

// Close cancels every live subscription and releases the database handle.
// No operation is valid afterwards.
func (s *Store) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}
	s.writeMu.Lock() // Wait for the running unit of work
	defer s.writeMu.Unlock()
	s.hub.close() // Ends every subscription and live query
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func closeHandle(gdb *gorm.DB) {
	if sqlDB, err := gdb.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func (s *Store) Categories() repository.CategoryRepository { return s.repos.Categories }
func (s *Store) Users() repository.UserRepository          { return s.repos.Users }
func (s *Store) Products() repository.ProductRepository    { return s.repos.Products }
func (s *Store) Reviews() repository.ReviewRepository      { return s.repos.Reviews }
func (s *Store) Wishlists() repository.WishlistRepository  { return s.repos.Wishlists }
func (s *Store) Addresses() repository.AddressRepository   { return s.repos.Addresses }
func (s *Store) Carts() repository.CartRepository          { return s.repos.Carts }
func (s *Store) Orders() repository.OrderRepository        { return s.repos.Orders }
func (s *Store) OrderItems() repository.OrderItemRepository {
	return s.repos.OrderItems
}

// Aggregates exposes the read-only joined views
func (s *Store) Aggregates() *aggregate.Aggregator { return s.agg }
