package config

import (
	"testing"
	"time"

	"storefront/internal/db"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	t.Setenv("APP_PORT", "")
	t.Setenv("CORS_ORIGINS", "")
	cfg := LoadConfig()
	assert.Equal(t, db.DriverSQLite, cfg.DB.Driver)
	assert.Equal(t, "storefront.db", cfg.DB.Path)
	assert.Equal(t, "8080", cfg.AppPort)
	assert.Equal(t, 60*time.Second, cfg.CacheTTL)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, []string{"*"}, cfg.Origins)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "5432")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("IS_PROD", "true")
	t.Setenv("CORS_ORIGINS", "https://shop.example, https://admin.example,")
	cfg := LoadConfig()
	assert.Equal(t, db.DriverPostgres, cfg.DB.Driver)
	assert.Equal(t, "db.internal", cfg.DB.Host)
	assert.Equal(t, "5432", cfg.DB.Port)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 2, cfg.RedisDB)
	assert.True(t, cfg.IsProd)
	assert.Equal(t, []string{"https://shop.example", "https://admin.example"}, cfg.Origins)
}
