package common

import (
	"fmt"
	"strings"

	"github.com/zcrawl/zcrawl/internal/config"
	"github.com/zcrawl/zcrawl/internal/logger"
	"github.com/zcrawl/zcrawl/internal/sources"
)

// LoadSources reads the sources file named by the crawler config. Rejected
// entries are logged and skipped; the valid remainder is returned.
func LoadSources(cfg config.Interface, log logger.Interface) ([]sources.Config, error) {
	path := cfg.GetCrawlerConfig().SourceFile
	srcs, issues, err := sources.NewLoader(path).Load()
	if err != nil {
		return nil, fmt.Errorf("load sources from %s: %w", path, err)
	}
	for _, issue := range issues {
		log.Warn("Skipping invalid source",
			"source", issue.Name,
			"error", issue.Err)
	}
	return srcs, nil
}

// EnabledSources filters out sources marked disabled.
func EnabledSources(srcs []sources.Config) []sources.Config {
	enabled := make([]sources.Config, 0, len(srcs))
	for _, src := range srcs {
		if !src.Disabled {
			enabled = append(enabled, src)
		}
	}
	return enabled
}

// FindSource returns the named source, matching case-insensitively.
func FindSource(srcs []sources.Config, name string) (sources.Config, error) {
	for _, src := range srcs {
		if strings.EqualFold(src.Name, name) {
			return src, nil
		}
	}
	return sources.Config{}, fmt.Errorf("%w: %s", ErrSourceNotFound, name)
}
