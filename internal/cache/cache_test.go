package cache

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"storefront/internal/db"
	"storefront/internal/domain"
	"storefront/internal/store"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return New(rdb, time.Minute), mr
}

func TestCacheGetSet(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	var got domain.Category
	hit, err := c.Get(ctx, CategoryPrefix, &got)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, c.Set(ctx, CategoryPrefix, domain.Category{ID: 3, Name: "Books"}))
	hit, err = c.Get(ctx, CategoryPrefix, &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "Books", got.Name)
	assert.Equal(t, time.Minute, mr.TTL(CategoryPrefix))

	require.NoError(t, c.Delete(ctx, CategoryPrefix))
	assert.False(t, mr.Exists(CategoryPrefix))
}

func TestBumpAdvancesGenerations(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	gen, err := c.Generation(ctx, domain.TableProducts)
	require.NoError(t, err)
	assert.Zero(t, gen)

	require.NoError(t, c.Bump(ctx, domain.TableProducts, domain.TableCategories))
	require.NoError(t, c.Bump(ctx, domain.TableProducts))
	gen, err = c.Generation(ctx, domain.TableProducts)
	require.NoError(t, err)
	assert.Equal(t, int64(2), gen)
	gen, err = c.Generation(ctx, domain.TableCategories)
	require.NoError(t, err)
	assert.Equal(t, int64(1), gen)
}

func TestFetchReadsThrough(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	loads := 0
	load := func(ctx context.Context) (string, bool, error) {
		loads++
		return "Books", true, nil
	}

	for i := 0; i < 3; i++ {
		v, err := Fetch(ctx, c, domain.TableCategories, CategoryPrefix, load)
		require.NoError(t, err)
		assert.Equal(t, "Books", v)
	}
	assert.Equal(t, 1, loads)
	assert.True(t, mr.Exists(CategoryPrefix+"@0"))

	// uncacheable results are returned but not stored
	_, err := Fetch(ctx, c, domain.TableProducts, ProductPrefix+"9", func(ctx context.Context) (*domain.Product, bool, error) {
		return nil, false, nil
	})
	require.NoError(t, err)
	assert.False(t, mr.Exists(ProductPrefix+"9@0"))
}

func TestNilCacheAlwaysMisses(t *testing.T) {
	var c *Cache
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "k", 1))
	var v int
	hit, err := c.Get(ctx, "k", &v)
	require.NoError(t, err)
	assert.False(t, hit)
	require.NoError(t, c.Bump(ctx, domain.TableProducts))

	loads := 0
	for i := 0; i < 2; i++ {
		v, err := Fetch(ctx, c, domain.TableProducts, "k", func(ctx context.Context) (int, bool, error) {
			loads++
			return 7, true, nil
		})
		require.NoError(t, err)
		assert.Equal(t, 7, v)
	}
	assert.Equal(t, 2, loads)
}

func openCachedStore(t *testing.T, c *Cache) *store.Store {
	t.Helper()
	s, err := store.Open(db.Options{Driver: db.DriverSQLite, Path: filepath.Join(t.TempDir(), "cache.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	inv, err := StartInvalidator(s, c)
	require.NoError(t, err)
	t.Cleanup(inv.Stop)
	return s
}

func TestInvalidatorBumpsBeforeWriteReturns(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()
	s := openCachedStore(t, c)

	category := &domain.Category{Name: "Books"}
	_, err := s.Categories().Create(ctx, category)
	require.NoError(t, err)
	gen, err := c.Generation(ctx, domain.TableCategories)
	require.NoError(t, err)
	assert.Equal(t, int64(1), gen)

	_, err = s.Products().Create(ctx, &domain.Product{Name: "Go", Price: decimal.NewFromInt(10), CategoryID: category.ID})
	require.NoError(t, err)
	gen, err = c.Generation(ctx, domain.TableProducts)
	require.NoError(t, err)
	assert.Equal(t, int64(1), gen)

	// writes outside the catalog leave it alone
	u := &domain.User{Name: "Ann", Email: "ann@example.com", PasswordHash: "x"}
	_, err = s.Users().Create(ctx, u)
	require.NoError(t, err)
	gen, err = c.Generation(ctx, domain.TableProducts)
	require.NoError(t, err)
	assert.Equal(t, int64(1), gen)
}

func TestFetchDropsLoadsOverlappingACommit(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()
	s := openCachedStore(t, c)

	category := &domain.Category{Name: "Books"}
	_, err := s.Categories().Create(ctx, category)
	require.NoError(t, err)
	p := &domain.Product{Name: "Go", Price: decimal.NewFromInt(10), CategoryID: category.ID}
	_, err = s.Products().Create(ctx, p)
	require.NoError(t, err)
	key := ProductPrefix + "1"

	// the read loads the row, then a deactivation commits before it caches
	before, err := Fetch(ctx, c, domain.TableProducts, key, func(ctx context.Context) (*domain.Product, bool, error) {
		row, err := s.Products().GetByID(ctx, p.ID)
		if err != nil {
			return nil, false, err
		}
		if err := s.Products().Delete(ctx, p.ID); err != nil {
			return nil, false, err
		}
		return row, row != nil, nil
	})
	require.NoError(t, err)
	require.NotNil(t, before)
	assert.True(t, before.Active)

	after, err := Fetch(ctx, c, domain.TableProducts, key, func(ctx context.Context) (*domain.Product, bool, error) {
		row, err := s.Products().GetByID(ctx, p.ID)
		return row, row != nil, err
	})
	require.NoError(t, err)
	require.NotNil(t, after)
	assert.False(t, after.Active)
}
