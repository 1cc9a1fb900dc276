package sources

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	crawlerconfig "github.com/zcrawl/zcrawl/internal/config/crawler"
)

var (
	// ErrNoSources indicates no usable sources were found.
	ErrNoSources = errors.New("no sources configured")
	// ErrSourceNotFound indicates the named source is not in the registry.
	ErrSourceNotFound = errors.New("source not found")
	// ErrMissingRequiredField indicates a required field is missing.
	ErrMissingRequiredField = errors.New("missing required field")
	// ErrInvalidSource indicates a source configuration is invalid.
	ErrInvalidSource = errors.New("invalid source")
)

// ValidateConfig checks a source configuration for structural problems.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("%w: nil config", ErrInvalidSource)
	}
	if cfg.Name == "" {
		return fmt.Errorf("%w: name", ErrMissingRequiredField)
	}
	if cfg.URL == "" {
		return fmt.Errorf("%w: url", ErrMissingRequiredField)
	}
	if err := validateURL(cfg.URL); err != nil {
		return fmt.Errorf("%w: url %q: %v", ErrInvalidSource, cfg.URL, err)
	}

	switch cfg.Method {
	case "", crawlerconfig.MethodScroll, crawlerconfig.MethodArticle:
	case crawlerconfig.MethodFeed:
		if cfg.FeedURL == "" {
			return fmt.Errorf("%w: feed method requires feed_url", ErrInvalidSource)
		}
	default:
		return fmt.Errorf("%w: unknown method %q", ErrInvalidSource, cfg.Method)
	}

	if cfg.FeedURL != "" {
		if err := validateURL(cfg.FeedURL); err != nil {
			return fmt.Errorf("%w: feed_url %q: %v", ErrInvalidSource, cfg.FeedURL, err)
		}
	}
	if cfg.RateLimit < 0 {
		return fmt.Errorf("%w: negative rate_limit", ErrInvalidSource)
	}
	for _, t := range cfg.Time {
		if _, err := time.Parse("15:04", t); err != nil {
			return fmt.Errorf("%w: schedule time %q: %v", ErrInvalidSource, t, err)
		}
	}
	return nil
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New("must be an HTTP(S) URL")
	}
	if u.Host == "" {
		return errors.New("missing host")
	}
	return nil
}
