package store

import (
	"context"
	"sync"

	"gorm.io/gorm"
)

type unitKey struct{}

// unit is one open unit of work: the transaction and the tables it wrote
type unit struct {
	tx *gorm.DB

	mu     sync.Mutex
	tables []string
}

func unitFrom(ctx context.Context) *unit {
	if ctx == nil {
		return nil
	}
	u, _ := ctx.Value(unitKey{}).(*unit)
	return u
}

func (u *unit) touch(table string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	for _, t := range u.tables {
		if t == table {
			return
		}
	}
	u.tables = append(u.tables, table)
}

func (u *unit) touched() []string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]string(nil), u.tables...)
}

// DB returns the transaction carried by ctx, or the shared handle. After
// Close every statement built on it fails with ErrClosed.
func (s *Store) DB(ctx context.Context) *gorm.DB {
	if u := unitFrom(ctx); u != nil && u.tx != nil {
		return u.tx
	}
	db := s.db.WithContext(ctx)
	if s.closed.Load() {
		_ = db.AddError(ErrClosed)
	}
	return db
}

// Atomic runs fn as one serialized transaction: either every write inside
// it commits or none does. Calls nested in fn join the same transaction.
// Once started the transaction ignores cancellation of ctx.
func (s *Store) Atomic(ctx context.Context, fn func(ctx context.Context) error) error {
	if unitFrom(ctx) != nil {
		return fn(ctx)
	}
	if s.closed.Load() {
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if s.closed.Load() {
		return ErrClosed
	}

	u := &unit{}
	base := context.WithoutCancel(ctx)
	ctx = context.WithValue(base, unitKey{}, u)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		u.tx = tx
		return fn(ctx)
	})
	if err != nil {
		return err
	}
	// under the write lock so hooks and subscribers see commit order
	s.hub.commit(base, u.touched())
	return nil
}

// registerChangeTracking records the table of every successful write
// statement in the unit of work that issued it
func registerChangeTracking(gdb *gorm.DB) error {
	track := func(tx *gorm.DB) {
		if tx.Error != nil || tx.Statement.Table == "" {
			return
		}
		if u := unitFrom(tx.Statement.Context); u != nil {
			u.touch(tx.Statement.Table)
		}
	}
	cb := gdb.Callback()
	if err := cb.Create().After("gorm:create").Register("storefront:track_create", track); err != nil {
		return err
	}
	if err := cb.Update().After("gorm:update").Register("storefront:track_update", track); err != nil {
		return err
	}
	return cb.Delete().After("gorm:delete").Register("storefront:track_delete", track)
}
