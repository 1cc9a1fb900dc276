// Package worker provides a bounded worker pool for crawling multiple
// sources concurrently, one browser session per worker.
package worker

import (
	"errors"
	"time"
)

const (
	// DefaultWorkers is the default number of concurrent source crawls.
	DefaultWorkers = 2

	// DefaultSourceTimeout is the default ceiling on one source's crawl.
	DefaultSourceTimeout = 1 * time.Hour

	// MinWorkers is the minimum allowed pool size.
	MinWorkers = 1

	// MaxWorkers is the maximum allowed pool size. Each worker owns a
	// browser session, so the ceiling stays low.
	MaxWorkers = 16
)

// Config holds configuration for the worker pool.
type Config struct {
	// Workers is the number of sources crawled concurrently.
	Workers int

	// SourceTimeout bounds a single source's crawl. Zero disables the
	// bound.
	SourceTimeout time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Workers:       DefaultWorkers,
		SourceTimeout: DefaultSourceTimeout,
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Workers < MinWorkers {
		return errors.New("worker count must be at least 1")
	}
	if c.Workers > MaxWorkers {
		return errors.New("worker count cannot exceed 16")
	}
	if c.SourceTimeout < 0 {
		return errors.New("source timeout must be non-negative")
	}
	return nil
}
