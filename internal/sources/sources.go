// Package sources manages the registry of crawlable sources: named
// categories, their listing URLs, and the selector sets used to walk their
// markup. Sources load from a YAML file, with a built-in registry covering
// the stock categories when no file exists.
package sources

import (
	"fmt"
	"strings"
	"sync"

	"github.com/zcrawl/zcrawl/internal/config"
	crawlerconfig "github.com/zcrawl/zcrawl/internal/config/crawler"
	"github.com/zcrawl/zcrawl/internal/logger"
)

// Interface defines the read-only view of the source registry.
type Interface interface {
	// GetSources returns all configured sources.
	GetSources() ([]Config, error)
	// FindByName returns the source with the given name.
	FindByName(name string) (*Config, error)
	// Reload re-reads the sources file and replaces the cached registry.
	Reload() error
}

// Sources manages the cached source registry.
type Sources struct {
	path    string
	logger  logger.Interface
	mu      sync.RWMutex
	sources []Config
}

var _ Interface = (*Sources)(nil)

// LoadSources builds the registry from the sources file named in the
// crawler configuration. The logger may be nil.
func LoadSources(cfg config.Interface, log logger.Interface) (*Sources, error) {
	if log == nil {
		log = logger.NewNoOp()
	}
	path := crawlerconfig.DefaultSourceFile
	if crawlerCfg := cfg.GetCrawlerConfig(); crawlerCfg != nil && crawlerCfg.SourceFile != "" {
		path = crawlerCfg.SourceFile
	}

	s := &Sources{path: path, logger: log}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload re-reads the sources file and replaces the cached registry.
func (s *Sources) Reload() error {
	configs, issues, err := NewLoader(s.path).Load()
	if err != nil {
		return fmt.Errorf("load sources from %s: %w", s.path, err)
	}
	for _, issue := range issues {
		s.logger.Warn("Skipping invalid source",
			"source", issue.Name,
			"error", issue.Err)
	}

	s.mu.Lock()
	s.sources = configs
	s.mu.Unlock()

	s.logger.Info("Sources loaded",
		"count", len(configs),
		"file", s.path)
	return nil
}

// GetSources returns a copy of the cached sources.
func (s *Sources) GetSources() ([]Config, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Config, len(s.sources))
	copy(out, s.sources)
	return out, nil
}

// FindByName returns the source with the given name, preferring an exact
// match and falling back to a case-insensitive one.
func (s *Sources) FindByName(name string) (*Config, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.sources) == 0 {
		return nil, ErrNoSources
	}

	names := make([]string, 0, len(s.sources))
	for i := range s.sources {
		names = append(names, s.sources[i].Name)
		if s.sources[i].Name == name {
			cfg := s.sources[i]
			return &cfg, nil
		}
	}
	for i := range s.sources {
		if strings.EqualFold(s.sources[i].Name, name) {
			cfg := s.sources[i]
			return &cfg, nil
		}
	}
	return nil, fmt.Errorf("%w: %s (available: %v)", ErrSourceNotFound, name, names)
}
