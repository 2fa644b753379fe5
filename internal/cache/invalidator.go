package cache

import (
	"context"
	"time"

	"storefront/internal/domain"
	"storefront/internal/store"

	"github.com/sirupsen/logrus"
)

// bumpTimeout bounds the Redis round trip made while the write lock is held
const bumpTimeout = 2 * time.Second

// Invalidator bumps catalog generations as part of each committing write
type Invalidator struct {
	remove func()
}

// StartInvalidator hooks c into s's commit path. When Redis cannot be reached
// the bump is logged and entries may be served until CACHE_TTL expires.
func StartInvalidator(s *store.Store, c *Cache) (*Invalidator, error) {
	remove, err := s.OnCommit(func(ctx context.Context, tables []string) {
		var catalog []string
		for _, table := range tables {
			if table == domain.TableProducts || table == domain.TableCategories {
				catalog = append(catalog, table)
			}
		}
		if len(catalog) == 0 {
			return // Nothing mirrored was written
		}
		ctx, cancel := context.WithTimeout(ctx, bumpTimeout)
		defer cancel()
		if err := c.Bump(ctx, catalog...); err != nil {
			logrus.WithFields(logrus.Fields{"tables": catalog, "error": err.Error()}).Warn("Cache invalidation failed")
		}
	})
	if err != nil {
		return nil, err
	}
	return &Invalidator{remove: remove}, nil
}

// Stop unhooks the invalidator; later commits leave the cache untouched
func (inv *Invalidator) Stop() {
	inv.remove()
}
