package api

import (
	"net/http"
	"testing"
	"time"

	"storefront/internal/cache"
	"storefront/internal/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCachedTestServer(t *testing.T) *testServer {
	t.Helper()
	ts := newTestServer(t)
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	cc := cache.New(rdb, time.Hour)
	inv, err := cache.StartInvalidator(ts.store, cc)
	require.NoError(t, err)
	t.Cleanup(inv.Stop)
	ts.router = NewRouter(Deps{Store: ts.store, Cache: cc, JWTSecret: testSecret, TokenTTL: time.Hour})
	return ts
}

func TestCachedProductFollowsWrites(t *testing.T) {
	ts := newCachedTestServer(t)
	adminToken := ts.admin()
	product := ts.catalogProduct(adminToken, "Go")
	path := "/products/" + itoa(product.ID)

	w := ts.do(http.MethodGet, path, "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Go", decode[ProductResponse](t, w).Name)

	w = ts.do(http.MethodPut, "/admin"+path, adminToken, gin.H{
		"name": "Go 2e", "price": "14.00", "stock": 3, "category_id": product.CategoryID,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Go 2e", decode[ProductResponse](t, ts.do(http.MethodGet, path, "", nil)).Name)

	require.Equal(t, http.StatusNoContent, ts.do(http.MethodDelete, "/admin"+path, adminToken, nil).Code)
	assert.Equal(t, http.StatusNotFound, ts.do(http.MethodGet, path, "", nil).Code)
}

func TestCachedCategoriesFollowWrites(t *testing.T) {
	ts := newCachedTestServer(t)
	adminToken := ts.admin()

	assert.Empty(t, decode[[]domain.Category](t, ts.do(http.MethodGet, "/categories", "", nil)))
	require.Equal(t, http.StatusCreated, ts.do(http.MethodPost, "/admin/categories", adminToken, gin.H{"name": "Books"}).Code)
	categories := decode[[]domain.Category](t, ts.do(http.MethodGet, "/categories", "", nil))
	require.Len(t, categories, 1)
	assert.Equal(t, "Books", categories[0].Name)
}
