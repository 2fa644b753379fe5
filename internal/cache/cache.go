// Package cache is a Redis read-through cache for catalog rows. Every entry
// is keyed by the generation of the table it mirrors, and a commit to that
// table bumps the generation before the write returns.
package cache

import (
	"context"       // Context for Redis operations
	"encoding/json" // JSON encoding/decoding
	"errors"        // Error matching
	"fmt"           // Key formatting
	"time"          // Time durations

	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
)

// Key prefixes, one per mirrored table
const (
	ProductPrefix  = "catalog:product:"
	CategoryPrefix = "catalog:categories"
	genPrefix      = "catalog:gen:" // Followed by the table name
)

// Cache wraps a Redis client with a default TTL. A nil *Cache is a valid,
// always-missing cache.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

// New returns a cache over rdb
func New(rdb *redis.Client, ttl time.Duration) *Cache {
	return &Cache{rdb: rdb, ttl: ttl}
}

// Get retrieves a value from Redis and unmarshals it into dest
func (c *Cache) Get(ctx context.Context, key string, dest any) (bool, error) {
	if c == nil {
		return false, nil
	}
	val, err := c.rdb.Get(ctx, key).Result() // Get value from Redis
	if errors.Is(err, redis.Nil) {
		return false, nil // Key does not exist
	} else if err != nil {
		return false, err // Other Redis error
	}
	return true, json.Unmarshal([]byte(val), dest) // Unmarshal JSON into dest
}

// Set stores a value in Redis with the default TTL
func (c *Cache) Set(ctx context.Context, key string, value any) error {
	if c == nil {
		return nil
	}
	b, err := json.Marshal(value) // Marshal value to JSON
	if err != nil {
		return err // Return error if marshaling fails
	}
	return c.rdb.Set(ctx, key, b, c.ttl).Err() // Set value in Redis with TTL
}

// Delete deletes a key from Redis
func (c *Cache) Delete(ctx context.Context, key string) error {
	if c == nil {
		return nil
	}
	return c.rdb.Del(ctx, key).Err() // Delete key from Redis
}

// Generation returns the current generation of table, zero before any bump
func (c *Cache) Generation(ctx context.Context, table string) (int64, error) {
	if c == nil {
		return 0, nil
	}
	gen, err := c.rdb.Get(ctx, genPrefix+table).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil // Never bumped
	}
	return gen, err
}

// Bump advances the generation of each table, orphaning its cached entries
// until their TTL runs out
func (c *Cache) Bump(ctx context.Context, tables ...string) error {
	if c == nil || len(tables) == 0 {
		return nil
	}
	_, err := c.rdb.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, table := range tables {
			pipe.Incr(ctx, genPrefix+table) // One counter per table
		}
		return nil
	})
	return err
}

// Fetch reads key through the cache under table's current generation. On a
// miss load runs and, when it reports the value cacheable, the result is
// stored under the generation read before load started: a commit to table
// while load runs makes that entry unreachable. Redis failures fall back to
// load.
func Fetch[T any](ctx context.Context, c *Cache, table, key string, load func(ctx context.Context) (T, bool, error)) (T, error) {
	if c == nil {
		v, _, err := load(ctx)
		return v, err
	}
	gen, err := c.Generation(ctx, table)
	if err != nil {
		logrus.WithFields(logrus.Fields{"table": table, "error": err.Error()}).Warn("Cache generation read failed")
		v, _, err := load(ctx)
		return v, err
	}
	versioned := fmt.Sprintf("%s@%d", key, gen)

	var cached T
	hit, err := c.Get(ctx, versioned, &cached)
	if err == nil && hit {
		return cached, nil // Served from cache
	}
	if err != nil {
		logrus.WithFields(logrus.Fields{"key": versioned, "error": err.Error()}).Warn("Cache read failed")
	}

	v, cacheable, err := load(ctx)
	if err != nil || !cacheable {
		return v, err
	}
	if err := c.Set(ctx, versioned, v); err != nil {
		logrus.WithFields(logrus.Fields{"key": versioned, "error": err.Error()}).Warn("Cache write failed")
	}
	return v, nil
}
