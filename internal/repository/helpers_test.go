package repository_test

import (
	"context"
	"path/filepath"
	"testing"

	"storefront/internal/db"
	"storefront/internal/domain"
	"storefront/internal/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(db.Options{Driver: db.DriverSQLite, Path: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func mkUser(t *testing.T, s *store.Store, email string) *domain.User {
	t.Helper()
	u := &domain.User{Name: "Test User", Email: email, PasswordHash: "x"}
	_, err := s.Users().Create(context.Background(), u)
	require.NoError(t, err)
	return u
}

func mkCategory(t *testing.T, s *store.Store, name string, parent *uint) *domain.Category {
	t.Helper()
	c := &domain.Category{Name: name, ParentID: parent}
	_, err := s.Categories().Create(context.Background(), c)
	require.NoError(t, err)
	return c
}

func mkProduct(t *testing.T, s *store.Store, categoryID uint, name, price string, stock int) *domain.Product {
	t.Helper()
	p := &domain.Product{Name: name, Price: decimal.RequireFromString(price), Stock: stock, CategoryID: categoryID}
	_, err := s.Products().Create(context.Background(), p)
	require.NoError(t, err)
	return p
}
