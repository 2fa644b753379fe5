package config

import (
	"strings" // Origin list parsing
	"time"    // Durations

	"storefront/internal/db" // Store connection options

	"github.com/joho/godotenv" // For loading .env files
	"github.com/spf13/viper"   // Typed environment lookup with defaults
)

// Config holds the application configuration
type Config struct {
	AppPort   string        // Application port
	DB        db.Options    // Relational store settings
	JWTSecret string        // JWT secret key
	TokenTTL  time.Duration // Session token lifetime
	RedisAddr string        // Redis server address, empty disables the cache
	RedisPass string        // Redis password
	RedisDB   int           // Redis database number
	CacheTTL  time.Duration // Catalog cache entry lifetime
	Origins   []string      // CORS allowed origins
	LogLevel  string        // logrus level
	IsProd    bool          // Is production environment
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present

	v := viper.New()
	v.AutomaticEnv() // Every key below is read from the environment
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("DB_DRIVER", db.DriverSQLite)
	v.SetDefault("DB_PATH", "storefront.db")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_LOG_LEVEL", "silent")
	v.SetDefault("JWT_SECRET", "change-me")
	v.SetDefault("TOKEN_TTL", "24h")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CACHE_TTL", "60s")
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("IS_PROD", false)

	return &Config{
		AppPort: v.GetString("APP_PORT"), // Application port
		DB: db.Options{
			Driver:   v.GetString("DB_DRIVER"),    // sqlite, mysql or postgres
			Path:     v.GetString("DB_PATH"),      // SQLite file
			User:     v.GetString("DB_USER"),      // Database user
			Password: v.GetString("DB_PASSWORD"),  // Database password
			Host:     v.GetString("DB_HOST"),      // Database host
			Port:     v.GetString("DB_PORT"),      // Database port
			Name:     v.GetString("DB_NAME"),      // Database name
			LogLevel: v.GetString("DB_LOG_LEVEL"), // GORM log level
		},
		JWTSecret: v.GetString("JWT_SECRET"),              // JWT secret key
		TokenTTL:  v.GetDuration("TOKEN_TTL"),             // Session token lifetime
		RedisAddr: v.GetString("REDIS_ADDR"),              // Redis server address
		RedisPass: v.GetString("REDIS_PASS"),              // Redis password
		RedisDB:   v.GetInt("REDIS_DB"),                   // Redis database number
		CacheTTL:  v.GetDuration("CACHE_TTL"),             // Cache entry lifetime
		Origins:   splitList(v.GetString("CORS_ORIGINS")), // Comma separated
		LogLevel:  v.GetString("LOG_LEVEL"),               // logrus level
		IsProd:    v.GetBool("IS_PROD"),                   // Is production environment
	}
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
