package db

import (
	"fmt"     // Error wrapping
	"strings" // DSN assembly
	"time"    // UTC timestamps

	"github.com/glebarez/sqlite" // Pure-Go SQLite driver for GORM
	"gorm.io/driver/mysql"       // MySQL driver for GORM
	"gorm.io/driver/postgres"    // PostgreSQL driver for GORM
	"gorm.io/gorm"               // GORM ORM library
	"gorm.io/gorm/logger"        // GORM logger levels
)

// Supported storage drivers
const (
	DriverSQLite   = "sqlite"
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

// Options describes where the relational store lives
type Options struct {
	Driver   string // sqlite, mysql or postgres
	Path     string // SQLite file path
	User     string // Database user
	Password string // Database password
	Host     string // Database host
	Port     string // Database port
	Name     string // Database name
	LogLevel string // silent, error, warn or info
}

// sqlitePragmas turns on foreign keys, WAL and a busy timeout for the local file
const sqlitePragmas = "_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"

// DSN builds the driver-specific data source name
func (o Options) DSN() (string, error) {
	switch o.Driver {
	case DriverSQLite, "":
		sep := "?"
		if strings.Contains(o.Path, "?") {
			sep = "&" // Path already carries query parameters
		}
		return o.Path + sep + sqlitePragmas, nil
	case DriverMySQL:
		return o.User + ":" + o.Password + "@tcp(" + o.Host + ":" + o.Port + ")/" + o.Name + "?parseTime=true", nil
	case DriverPostgres:
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			o.Host, o.Port, o.User, o.Password, o.Name), nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", o.Driver)
	}
}

// Open connects to the configured store
func Open(o Options) (*gorm.DB, error) {
	dsn, err := o.DSN() // Build DSN for the selected driver
	if err != nil {
		return nil, err
	}
	var dialector gorm.Dialector // Dialector for the selected driver
	switch o.Driver {
	case DriverMySQL:
		dialector = mysql.Open(dsn)
	case DriverPostgres:
		dialector = postgres.Open(dsn)
	default:
		dialector = sqlite.Open(dsn)
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel(o.LogLevel)), // GORM statement logging
		TranslateError: true,                                         // Map driver constraint errors to gorm errors
		NowFunc:        func() time.Time { return time.Now().UTC() }, // Store timestamps in UTC
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// logLevel maps the configured name onto a GORM log level
func logLevel(name string) logger.LogLevel {
	switch strings.ToLower(name) {
	case "info":
		return logger.Info
	case "warn":
		return logger.Warn
	case "error":
		return logger.Error
	default:
		return logger.Silent
	}
}
