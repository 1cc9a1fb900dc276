package sources

import (
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	crawlerconfig "github.com/zcrawl/zcrawl/internal/config/crawler"
)

// sourcesFile represents the structure of a sources YAML file.
type sourcesFile struct {
	Sources []map[string]any `yaml:"sources"`
}

// rawSource is the wire form of a source entry before normalization.
type rawSource struct {
	Name        string    `mapstructure:"name"`
	URL         string    `mapstructure:"url"`
	FeedURL     string    `mapstructure:"feed_url"`
	Method      string    `mapstructure:"method"`
	RateLimit   string    `mapstructure:"rate_limit"`
	TargetYear  int       `mapstructure:"target_year"`
	MaxLinks    int       `mapstructure:"max_links"`
	MaxArticles int       `mapstructure:"max_articles"`
	UserAgent   string    `mapstructure:"user_agent"`
	Time        []string  `mapstructure:"time"`
	Disabled    bool      `mapstructure:"disabled"`
	Selectors   Selectors `mapstructure:"selectors"`
}

// Issue records a source entry rejected during validation.
type Issue struct {
	Name string
	Err  error
}

// Loader reads and validates source configurations from a YAML file.
type Loader struct {
	path string
}

// NewLoader creates a Loader for the given sources file.
func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

// Load returns the valid sources from the file plus one Issue per rejected
// entry. A missing file yields the built-in registry.
func (l *Loader) Load() ([]Config, []Issue, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSources(), nil, nil
		}
		return nil, nil, fmt.Errorf("read sources file: %w", err)
	}

	var file sourcesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, nil, fmt.Errorf("parse sources file: %w", err)
	}
	if len(file.Sources) == 0 {
		return nil, nil, ErrNoSources
	}

	configs := make([]Config, 0, len(file.Sources))
	var issues []Issue
	for i, src := range file.Sources {
		cfg, convErr := convertSource(src)
		if convErr == nil {
			convErr = ValidateConfig(&cfg)
		}
		if convErr != nil {
			issues = append(issues, Issue{Name: entryName(src, i), Err: convErr})
			continue
		}
		cfg.applyDefaults()
		configs = append(configs, cfg)
	}

	if len(configs) == 0 {
		return nil, issues, ErrNoSources
	}
	return configs, issues, nil
}

// convertSource decodes a raw source map into a normalized Config.
func convertSource(src map[string]any) (Config, error) {
	var raw rawSource
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &raw,
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.StringToSliceHookFunc(","),
	})
	if err != nil {
		return Config{}, fmt.Errorf("create decoder: %w", err)
	}
	if err := decoder.Decode(src); err != nil {
		return Config{}, fmt.Errorf("decode source: %w", err)
	}

	cfg := Config{
		Name:        raw.Name,
		URL:         raw.URL,
		FeedURL:     raw.FeedURL,
		Method:      raw.Method,
		RateLimit:   crawlerconfig.DefaultRateLimit,
		TargetYear:  raw.TargetYear,
		MaxLinks:    raw.MaxLinks,
		MaxArticles: raw.MaxArticles,
		UserAgent:   raw.UserAgent,
		Time:        raw.Time,
		Disabled:    raw.Disabled,
		Selectors:   raw.Selectors,
	}
	if raw.RateLimit != "" {
		d, parseErr := crawlerconfig.ParseDelay(raw.RateLimit)
		if parseErr != nil {
			return Config{}, fmt.Errorf("invalid rate_limit: %w", parseErr)
		}
		cfg.RateLimit = d
	}
	return cfg, nil
}

// entryName names a raw entry for diagnostics, falling back to its position.
func entryName(src map[string]any, index int) string {
	if name, ok := src["name"].(string); ok && name != "" {
		return name
	}
	return fmt.Sprintf("entry %d", index+1)
}
