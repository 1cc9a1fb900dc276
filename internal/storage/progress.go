package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/zcrawl/zcrawl/internal/domain"
)

// progressSchema sticks to DDL both supported drivers accept.
const progressSchema = `
CREATE TABLE IF NOT EXISTS crawl_progress (
	category    TEXT PRIMARY KEY,
	run_id      TEXT NOT NULL,
	target_year INTEGER,
	max_items   INTEGER NOT NULL DEFAULT 0,
	cursor      INTEGER NOT NULL DEFAULT 0,
	seen_urls   TEXT NOT NULL DEFAULT '[]',
	updated_at  TIMESTAMP NOT NULL
)`

// ProgressRepository handles database operations for crawl progress.
type ProgressRepository struct {
	db *sqlx.DB
}

var _ ProgressStore = (*ProgressRepository)(nil)

// NewProgressRepository creates a progress repository and ensures its schema
// exists.
func NewProgressRepository(db *sqlx.DB) (*ProgressRepository, error) {
	if _, err := db.Exec(progressSchema); err != nil {
		return nil, fmt.Errorf("failed to create progress schema: %w", err)
	}
	return &ProgressRepository{db: db}, nil
}

// Get returns the stored progress for a category.
func (r *ProgressRepository) Get(ctx context.Context, category string) (*domain.CrawlProgress, error) {
	query := r.db.Rebind(`
		SELECT category, run_id, target_year, max_items, cursor, seen_urls, updated_at
		FROM crawl_progress
		WHERE category = ?
	`)

	var progress domain.CrawlProgress
	if err := r.db.GetContext(ctx, &progress, query, category); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get progress for %s: %w", category, err)
	}
	return &progress, nil
}

// Upsert stores the progress row for its category, replacing any previous
// run's row.
func (r *ProgressRepository) Upsert(ctx context.Context, progress *domain.CrawlProgress) error {
	progress.UpdatedAt = time.Now().UTC()

	query := r.db.Rebind(`
		INSERT INTO crawl_progress (category, run_id, target_year, max_items, cursor, seen_urls, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (category) DO UPDATE SET
			run_id      = excluded.run_id,
			target_year = excluded.target_year,
			max_items   = excluded.max_items,
			cursor      = excluded.cursor,
			seen_urls   = excluded.seen_urls,
			updated_at  = excluded.updated_at
	`)

	_, err := r.db.ExecContext(ctx, query,
		progress.Category, progress.RunID, progress.TargetYear,
		progress.MaxItems, progress.Cursor, progress.SeenURLs, progress.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert progress for %s: %w", progress.Category, err)
	}
	return nil
}

// Delete removes the stored progress for a category.
func (r *ProgressRepository) Delete(ctx context.Context, category string) error {
	query := r.db.Rebind(`DELETE FROM crawl_progress WHERE category = ?`)
	if _, err := r.db.ExecContext(ctx, query, category); err != nil {
		return fmt.Errorf("failed to delete progress for %s: %w", category, err)
	}
	return nil
}
