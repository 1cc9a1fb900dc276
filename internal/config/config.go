// Package config provides configuration management for the zcrawl
// application. It exposes typed per-concern sections populated from Viper,
// which merges config files, environment variables, and defaults.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/zcrawl/zcrawl/internal/config/app"
	browserconfig "github.com/zcrawl/zcrawl/internal/config/browser"
	crawlerconfig "github.com/zcrawl/zcrawl/internal/config/crawler"
	"github.com/zcrawl/zcrawl/internal/config/logging"
	storageconfig "github.com/zcrawl/zcrawl/internal/config/storage"
)

// Interface defines the interface for configuration management.
type Interface interface {
	// GetAppConfig returns the application configuration.
	GetAppConfig() *app.Config
	// GetCrawlerConfig returns the crawl engine configuration.
	GetCrawlerConfig() *crawlerconfig.Config
	// GetBrowserConfig returns the browser session configuration.
	GetBrowserConfig() *browserconfig.Config
	// GetStorageConfig returns the storage configuration.
	GetStorageConfig() *storageconfig.Config
	// GetLoggingConfig returns the logging configuration.
	GetLoggingConfig() *logging.Config
	// Validate validates the configuration.
	Validate() error
}

// Ensure Config implements Interface
var _ Interface = (*Config)(nil)

// Config represents the application configuration.
type Config struct {
	// App holds application-level configuration
	App *app.Config `yaml:"app" mapstructure:"app"`
	// Crawler holds crawl engine configuration
	Crawler *crawlerconfig.Config `yaml:"crawler" mapstructure:"crawler"`
	// Browser holds browser session configuration
	Browser *browserconfig.Config `yaml:"browser" mapstructure:"browser"`
	// Storage holds output and progress database configuration
	Storage *storageconfig.Config `yaml:"storage" mapstructure:"storage"`
	// Logging holds logging configuration; the section is named "logger"
	// in config files for compatibility with LOG_* environment bindings
	Logging *logging.Config `yaml:"logger" mapstructure:"logger"`
}

// LoadConfig builds the typed configuration from Viper's merged state.
// Viper must already be initialized (config file read, env bound, defaults
// set) before calling this.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParseFailed, err)
	}

	setDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfigInvalid, err)
	}

	return &cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return fmt.Errorf("app: %w", err)
	}
	if err := c.Crawler.Validate(); err != nil {
		return fmt.Errorf("crawler: %w", err)
	}
	if err := c.Browser.Validate(); err != nil {
		return fmt.Errorf("browser: %w", err)
	}
	if err := c.Storage.Validate(); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	return nil
}

// setDefaults applies default values to the config. Nil sections get full
// defaults; partially populated sections get their required zero fields
// filled so a sparse config file still validates.
func setDefaults(cfg *Config) {
	if cfg.App == nil {
		cfg.App = app.New()
	}
	if cfg.Crawler == nil {
		cfg.Crawler = crawlerconfig.New()
	}
	if cfg.Browser == nil {
		cfg.Browser = browserconfig.New()
	}
	if cfg.Storage == nil {
		cfg.Storage = storageconfig.New()
	}
	if cfg.Logging == nil {
		cfg.Logging = logging.New()
	}

	setAppDefaults(cfg.App)
	setCrawlerDefaults(cfg.Crawler)
	setBrowserDefaults(cfg.Browser)
	setStorageDefaults(cfg.Storage)
	setLoggingDefaults(cfg.Logging)
}

func setAppDefaults(a *app.Config) {
	if a.Name == "" {
		a.Name = "zcrawl"
	}
	if a.Version == "" {
		a.Version = "0.1.0"
	}
	if a.Environment == "" {
		a.Environment = "production"
	}
}

func setCrawlerDefaults(c *crawlerconfig.Config) {
	if c.Method == "" {
		c.Method = crawlerconfig.DefaultMethod
	}
	if c.SourceFile == "" {
		c.SourceFile = crawlerconfig.DefaultSourceFile
	}
	if c.UserAgent == "" {
		c.UserAgent = crawlerconfig.DefaultUserAgent
	}
	if c.WaitTimeout == 0 {
		c.WaitTimeout = crawlerconfig.DefaultWaitTimeout
	}
	if c.Workers == 0 {
		c.Workers = crawlerconfig.DefaultWorkers
	}
	if c.Scroll.MaxScrolls == 0 {
		c.Scroll.MaxScrolls = crawlerconfig.DefaultMaxScrolls
	}
	if c.Scroll.Pause == 0 {
		c.Scroll.Pause = crawlerconfig.DefaultScrollPause
	}
	if c.Scroll.StagnationLimit == 0 {
		c.Scroll.StagnationLimit = crawlerconfig.DefaultStagnationLimit
	}
	if c.ImageScroll.Count == 0 {
		c.ImageScroll.Count = crawlerconfig.DefaultImageScrolls
	}
	if c.ImageScroll.Amount == 0 {
		c.ImageScroll.Amount = crawlerconfig.DefaultScrollAmount
	}
	if c.ImageScroll.Pause == 0 {
		c.ImageScroll.Pause = crawlerconfig.DefaultImagePause
	}
	if c.Retry.MaxRetries == 0 {
		c.Retry.MaxRetries = crawlerconfig.DefaultMaxRetries
	}
	if c.Retry.Delay == 0 {
		c.Retry.Delay = crawlerconfig.DefaultRetryDelay
	}
	if c.Retry.MaxDelay == 0 {
		c.Retry.MaxDelay = crawlerconfig.DefaultRetryMaxDelay
	}
	if c.Retry.Multiplier == 0 {
		c.Retry.Multiplier = crawlerconfig.DefaultRetryMultiplier
	}
}

func setBrowserDefaults(b *browserconfig.Config) {
	if b.WindowWidth == 0 {
		b.WindowWidth = browserconfig.DefaultWindowWidth
	}
	if b.WindowHeight == 0 {
		b.WindowHeight = browserconfig.DefaultWindowHeight
	}
	if b.PageLoadTimeout == 0 {
		b.PageLoadTimeout = browserconfig.DefaultPageLoadTimeout
	}
}

func setStorageDefaults(s *storageconfig.Config) {
	if s.LinksDir == "" {
		s.LinksDir = storageconfig.DefaultLinksDir
	}
	if s.ArticlesDir == "" {
		s.ArticlesDir = storageconfig.DefaultArticlesDir
	}
	if s.Progress.Driver == "" {
		s.Progress.Driver = storageconfig.DefaultDriver
	}
	if s.Progress.Driver == "sqlite3" && s.Progress.DSN == "" {
		s.Progress.DSN = storageconfig.DefaultSQLitePath
	}
	if s.Progress.Host == "" {
		s.Progress.Host = storageconfig.DefaultPGHost
	}
	if s.Progress.Port == "" {
		s.Progress.Port = storageconfig.DefaultPGPort
	}
	if s.Progress.User == "" {
		s.Progress.User = storageconfig.DefaultPGUser
	}
	if s.Progress.DBName == "" {
		s.Progress.DBName = storageconfig.DefaultPGDBName
	}
	if s.Progress.SSLMode == "" {
		s.Progress.SSLMode = storageconfig.DefaultPGSSLMode
	}
}

func setLoggingDefaults(l *logging.Config) {
	if l.Level == "" {
		l.Level = logging.DefaultLevel
	}
	if l.Encoding == "" {
		l.Encoding = logging.DefaultEncoding
	}
	if l.Output == "" {
		l.Output = logging.DefaultOutput
	}
	if (l.Output == "file" || l.Output == "both") && l.File == "" {
		l.File = logging.DefaultFile
	}
}

// GetAppConfig returns the application configuration.
func (c *Config) GetAppConfig() *app.Config {
	return c.App
}

// GetCrawlerConfig returns the crawl engine configuration.
func (c *Config) GetCrawlerConfig() *crawlerconfig.Config {
	return c.Crawler
}

// GetBrowserConfig returns the browser session configuration.
func (c *Config) GetBrowserConfig() *browserconfig.Config {
	return c.Browser
}

// GetStorageConfig returns the storage configuration.
func (c *Config) GetStorageConfig() *storageconfig.Config {
	return c.Storage
}

// GetLoggingConfig returns the logging configuration.
func (c *Config) GetLoggingConfig() *logging.Config {
	return c.Logging
}
