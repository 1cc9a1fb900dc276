// Package crawler provides configuration management for the crawl engines.
// It handles loading, validation, and access to discovery and extraction
// settings such as scroll policy, retries, timeouts, and rate limiting.
package crawler

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Default configuration values
const (
	DefaultUserAgent       = "zcrawl/1.0"
	DefaultRateLimit       = 2 * time.Second
	DefaultMethod          = MethodScroll
	DefaultSourceFile      = "sources.yml"
	DefaultMaxLinks        = 100
	DefaultMaxScrolls      = 50
	DefaultScrollPause     = 2 * time.Second
	DefaultScrollAmount    = 600
	DefaultStagnationLimit = 2
	DefaultWaitTimeout     = 10 * time.Second
	DefaultImageScrolls    = 10
	DefaultImagePause      = 300 * time.Millisecond
	DefaultMaxRetries      = 3
	DefaultRetryDelay      = 2 * time.Second
	DefaultRetryMaxDelay   = 30 * time.Second
	DefaultRetryMultiplier = 2.0
	DefaultWorkers         = 1
	MaxWorkers             = 8
)

// Discovery methods.
const (
	// MethodScroll walks the category page's card containers while scrolling
	MethodScroll = "scroll"
	// MethodArticle walks bare <article> elements while scrolling
	MethodArticle = "article"
	// MethodFeed reads the source's RSS/Atom feed instead of the rendered page
	MethodFeed = "feed"
)

// Config represents the crawl engine configuration.
type Config struct {
	// Method is the default link discovery method (scroll, article, feed)
	Method string `env:"CRAWLER_METHOD" yaml:"method" mapstructure:"method"`
	// SourceFile is the path to the sources definition file
	SourceFile string `env:"CRAWLER_SOURCE_FILE" yaml:"source_file" mapstructure:"source_file"`
	// UserAgent is the user agent presented by the browser session
	UserAgent string `env:"CRAWLER_USER_AGENT" yaml:"user_agent" mapstructure:"user_agent"`
	// MaxLinks caps how many links discovery collects (0 = no cap)
	MaxLinks int `env:"CRAWLER_MAX_LINKS" yaml:"max_links" mapstructure:"max_links"`
	// MaxArticles caps how many articles extraction processes (0 = all)
	MaxArticles int `env:"CRAWLER_MAX_ARTICLES" yaml:"max_articles" mapstructure:"max_articles"`
	// RateLimit is the minimum spacing between article navigations
	RateLimit time.Duration `env:"CRAWLER_RATE_LIMIT" yaml:"rate_limit" mapstructure:"rate_limit"`
	// WaitTimeout bounds every wait for an element to become visible
	WaitTimeout time.Duration `env:"CRAWLER_WAIT_TIMEOUT" yaml:"wait_timeout" mapstructure:"wait_timeout"`
	// Workers is the number of concurrent per-source crawl pipelines
	Workers int `env:"CRAWLER_WORKERS" yaml:"workers" mapstructure:"workers"`
	// Scroll configures the discovery scroll loop
	Scroll ScrollConfig `yaml:"scroll" mapstructure:"scroll"`
	// ImageScroll configures lazy-image coaxing before extraction
	ImageScroll ImageScrollConfig `yaml:"image_scroll" mapstructure:"image_scroll"`
	// Retry configures per-article retry behavior
	Retry RetryConfig `yaml:"retry" mapstructure:"retry"`
}

// ScrollConfig holds the scroll loop settings for link discovery. Each
// iteration scrolls the listing page to its bottom to trigger lazy loading.
type ScrollConfig struct {
	// MaxScrolls caps the number of scroll iterations per category page
	MaxScrolls int `env:"CRAWLER_MAX_SCROLLS" yaml:"max_scrolls" mapstructure:"max_scrolls"`
	// Pause is how long to wait after each scroll for content to load
	Pause time.Duration `env:"CRAWLER_SCROLL_PAUSE" yaml:"pause" mapstructure:"pause"`
	// StagnationLimit stops discovery after this many consecutive scrolls
	// that surface no new links
	StagnationLimit int `env:"CRAWLER_STAGNATION_LIMIT" yaml:"stagnation_limit" mapstructure:"stagnation_limit"`
}

// ImageScrollConfig holds the stepped scrolling used to trigger lazy-loaded
// images on article pages before field extraction.
type ImageScrollConfig struct {
	// Count is the number of scroll steps
	Count int `yaml:"count" mapstructure:"count"`
	// Amount is the pixel distance of each step
	Amount int `yaml:"amount" mapstructure:"amount"`
	// Pause is the settle time after each step
	Pause time.Duration `yaml:"pause" mapstructure:"pause"`
}

// RetryConfig holds per-article retry settings for transient failures.
type RetryConfig struct {
	// MaxRetries is the attempt budget per article, including the first try
	MaxRetries int `env:"CRAWLER_MAX_RETRIES" yaml:"max_retries" mapstructure:"max_retries"`
	// Delay is the backoff before the first retry
	Delay time.Duration `env:"CRAWLER_RETRY_DELAY" yaml:"delay" mapstructure:"delay"`
	// MaxDelay caps the backoff between retries
	MaxDelay time.Duration `yaml:"max_delay" mapstructure:"max_delay"`
	// Multiplier scales the backoff after each failed attempt
	Multiplier float64 `yaml:"multiplier" mapstructure:"multiplier"`
}

// Validate validates the crawl engine configuration.
func (c *Config) Validate() error {
	switch c.Method {
	case MethodScroll, MethodArticle, MethodFeed:
	default:
		return fmt.Errorf("method must be one of %s, %s, %s", MethodScroll, MethodArticle, MethodFeed)
	}
	if c.MaxLinks < 0 {
		return errors.New("max_links must be non-negative")
	}
	if c.MaxArticles < 0 {
		return errors.New("max_articles must be non-negative")
	}
	if c.RateLimit < 0 {
		return errors.New("rate_limit must be non-negative")
	}
	if c.WaitTimeout <= 0 {
		return errors.New("wait_timeout must be positive")
	}
	if c.Workers < 1 || c.Workers > MaxWorkers {
		return fmt.Errorf("workers must be between 1 and %d", MaxWorkers)
	}
	if c.Scroll.MaxScrolls < 1 {
		return errors.New("scroll.max_scrolls must be positive")
	}
	if c.Scroll.Pause < 0 {
		return errors.New("scroll.pause must be non-negative")
	}
	if c.Scroll.StagnationLimit < 1 {
		return errors.New("scroll.stagnation_limit must be positive")
	}
	if c.ImageScroll.Count < 0 {
		return errors.New("image_scroll.count must be non-negative")
	}
	if c.Retry.MaxRetries < 1 {
		return errors.New("retry.max_retries must be positive")
	}
	if c.Retry.Delay < 0 {
		return errors.New("retry.delay must be non-negative")
	}
	return nil
}

// New creates a new crawl engine configuration with the given options.
func New(opts ...Option) *Config {
	cfg := &Config{
		Method:      DefaultMethod,
		SourceFile:  DefaultSourceFile,
		UserAgent:   DefaultUserAgent,
		MaxLinks:    DefaultMaxLinks,
		MaxArticles: 0,
		RateLimit:   DefaultRateLimit,
		WaitTimeout: DefaultWaitTimeout,
		Workers:     DefaultWorkers,
		Scroll: ScrollConfig{
			MaxScrolls:      DefaultMaxScrolls,
			Pause:           DefaultScrollPause,
			StagnationLimit: DefaultStagnationLimit,
		},
		ImageScroll: ImageScrollConfig{
			Count:  DefaultImageScrolls,
			Amount: DefaultScrollAmount,
			Pause:  DefaultImagePause,
		},
		Retry: RetryConfig{
			MaxRetries: DefaultMaxRetries,
			Delay:      DefaultRetryDelay,
			MaxDelay:   DefaultRetryMaxDelay,
			Multiplier: DefaultRetryMultiplier,
		},
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return cfg
}

// Option is a function that configures a crawl engine configuration.
type Option func(*Config)

// WithMethod sets the discovery method.
func WithMethod(method string) Option {
	return func(c *Config) {
		c.Method = method
	}
}

// WithSourceFile sets the sources definition file path.
func WithSourceFile(path string) Option {
	return func(c *Config) {
		c.SourceFile = path
	}
}

// WithUserAgent sets the user agent.
func WithUserAgent(agent string) Option {
	return func(c *Config) {
		c.UserAgent = agent
	}
}

// WithMaxLinks sets the discovery link cap.
func WithMaxLinks(n int) Option {
	return func(c *Config) {
		c.MaxLinks = n
	}
}

// WithMaxArticles sets the extraction article cap.
func WithMaxArticles(n int) Option {
	return func(c *Config) {
		c.MaxArticles = n
	}
}

// WithRateLimit sets the spacing between article navigations.
func WithRateLimit(d time.Duration) Option {
	return func(c *Config) {
		c.RateLimit = d
	}
}

// WithWorkers sets the number of concurrent per-source pipelines.
func WithWorkers(n int) Option {
	return func(c *Config) {
		c.Workers = n
	}
}

// WithScroll sets the scroll loop configuration.
func WithScroll(s ScrollConfig) Option {
	return func(c *Config) {
		c.Scroll = s
	}
}

// WithRetry sets the retry configuration.
func WithRetry(r RetryConfig) Option {
	return func(c *Config) {
		c.Retry = r
	}
}

// ParseDelay parses a delay string into a time.Duration.
// Accepts Go duration strings ("10s", "1m") or bare numbers as seconds ("10", "2.5").
func ParseDelay(delay string) (time.Duration, error) {
	delay = strings.TrimSpace(delay)
	if delay == "" {
		return 0, errors.New("delay cannot be empty")
	}

	duration, err := time.ParseDuration(delay)
	if err != nil {
		// Bare integer as seconds (e.g. "10")
		if n, parseErr := strconv.Atoi(delay); parseErr == nil && n > 0 {
			return time.Duration(n) * time.Second, nil
		}
		// Bare float as seconds (e.g. "2.5")
		if f, parseErr := strconv.ParseFloat(delay, 64); parseErr == nil && f > 0 {
			return time.Duration(f * float64(time.Second)), nil
		}
		return 0, fmt.Errorf("error parsing duration: %w", err)
	}

	if duration <= 0 {
		return 0, errors.New("delay must be positive")
	}

	return duration, nil
}
