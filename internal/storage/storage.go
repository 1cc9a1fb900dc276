// Package storage persists crawl output: newline-delimited link files,
// numbered per-category article JSON documents, and the progress database
// behind resumable extraction batches.
package storage

import (
	"context"

	"github.com/zcrawl/zcrawl/internal/domain"
)

// LinkWriter appends discovered URLs to a persistent list.
type LinkWriter interface {
	// Write appends one URL as a line.
	Write(url string) error
	// Close flushes and releases the underlying file.
	Close() error
}

// ArticleWriter persists one article per numbered document.
type ArticleWriter interface {
	// Save writes the article under the given sequence number and returns
	// the path written.
	Save(article *domain.Article, index int) (string, error)
}

// ProgressStore reads and writes crawl progress for resumable batches.
type ProgressStore interface {
	// Get returns the stored progress for a category, or ErrNotFound.
	Get(ctx context.Context, category string) (*domain.CrawlProgress, error)
	// Upsert stores the progress row for its category.
	Upsert(ctx context.Context, progress *domain.CrawlProgress) error
	// Delete removes the stored progress for a category.
	Delete(ctx context.Context, category string) error
}
