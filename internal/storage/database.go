package storage

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"           // PostgreSQL driver
	_ "github.com/mattn/go-sqlite3" // SQLite driver

	storageconfig "github.com/zcrawl/zcrawl/internal/config/storage"
)

const (
	// DefaultMaxOpenConns is the default maximum number of open connections
	DefaultMaxOpenConns = 25
	// DefaultMaxIdleConns is the default maximum number of idle connections
	DefaultMaxIdleConns = 5
	// DefaultConnMaxLifetime is the default maximum connection lifetime
	DefaultConnMaxLifetime = 5 * time.Minute
)

// Connect opens the progress database for the configured driver.
func Connect(cfg *storageconfig.ProgressConfig) (*sqlx.DB, error) {
	db, err := sqlx.Connect(cfg.Driver, cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to progress database: %w", err)
	}

	if cfg.Driver == "postgres" {
		db.SetMaxOpenConns(DefaultMaxOpenConns)
		db.SetMaxIdleConns(DefaultMaxIdleConns)
		db.SetConnMaxLifetime(DefaultConnMaxLifetime)
	} else {
		// A second sqlite connection to a :memory: DSN would open a second
		// database.
		db.SetMaxOpenConns(1)
	}
	return db, nil
}
