package common

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/zcrawl/zcrawl/internal/config"
	"github.com/zcrawl/zcrawl/internal/storage"
)

// ProgressHandle bundles the progress store with its database connection so
// commands can close the connection when the run ends.
type ProgressHandle struct {
	Store storage.ProgressStore

	db *sqlx.DB
}

// Close closes the underlying database connection.
func (h *ProgressHandle) Close() error {
	return h.db.Close()
}

// OpenProgress connects to the configured progress database and prepares the
// progress store, creating its schema when missing.
func OpenProgress(cfg config.Interface) (*ProgressHandle, error) {
	db, err := storage.Connect(&cfg.GetStorageConfig().Progress)
	if err != nil {
		return nil, fmt.Errorf("open progress database: %w", err)
	}

	repo, err := storage.NewProgressRepository(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("prepare progress store: %w", err)
	}

	return &ProgressHandle{Store: repo, db: db}, nil
}
