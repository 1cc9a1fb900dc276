// Package storage provides configuration for crawl outputs and the
// progress database.
package storage

import (
	"errors"
	"fmt"
)

// Default configuration values
const (
	DefaultLinksDir    = "."
	DefaultArticlesDir = "articles"
	DefaultDriver      = "sqlite3"
	DefaultSQLitePath  = "zcrawl.db"
	DefaultPGHost      = "localhost"
	DefaultPGPort      = "5432"
	DefaultPGUser      = "postgres"
	DefaultPGDBName    = "zcrawl"
	DefaultPGSSLMode   = "disable"
)

// Config represents storage configuration settings.
type Config struct {
	// LinksDir is the directory link list files are written to
	LinksDir string `env:"STORAGE_LINKS_DIR" yaml:"links_dir" mapstructure:"links_dir"`
	// ArticlesDir is the root directory for per-category article JSON files
	ArticlesDir string `env:"STORAGE_ARTICLES_DIR" yaml:"articles_dir" mapstructure:"articles_dir"`
	// Progress configures the progress database
	Progress ProgressConfig `yaml:"progress" mapstructure:"progress"`
}

// ProgressConfig holds connection settings for the progress database.
// sqlite3 is the default and needs only a file path; postgres composes a
// DSN from the remaining fields unless DSN is set explicitly.
type ProgressConfig struct {
	Driver   string `env:"PROGRESS_DRIVER"      yaml:"driver"   mapstructure:"driver"`
	DSN      string `env:"PROGRESS_DSN"         yaml:"dsn"      mapstructure:"dsn"`
	Host     string `env:"PROGRESS_DB_HOST"     yaml:"host"     mapstructure:"host"`
	Port     string `env:"PROGRESS_DB_PORT"     yaml:"port"     mapstructure:"port"`
	User     string `env:"PROGRESS_DB_USER"     yaml:"user"     mapstructure:"user"`
	Password string `env:"PROGRESS_DB_PASSWORD" yaml:"password" mapstructure:"password"`
	DBName   string `env:"PROGRESS_DB_NAME"     yaml:"dbname"   mapstructure:"dbname"`
	SSLMode  string `env:"PROGRESS_DB_SSLMODE"  yaml:"sslmode"  mapstructure:"sslmode"`
}

// Validate validates the storage configuration.
func (c *Config) Validate() error {
	if c.LinksDir == "" {
		return errors.New("links_dir must be specified")
	}
	if c.ArticlesDir == "" {
		return errors.New("articles_dir must be specified")
	}
	return c.Progress.Validate()
}

// Validate validates the progress database configuration.
func (p *ProgressConfig) Validate() error {
	switch p.Driver {
	case "sqlite3", "postgres":
	default:
		return fmt.Errorf("unsupported progress driver: %q", p.Driver)
	}
	if p.Driver == "sqlite3" && p.DSN == "" {
		return errors.New("sqlite3 progress store requires a dsn (database file path)")
	}
	return nil
}

// ConnectionString returns the driver-specific DSN. For postgres an explicit
// DSN wins; otherwise one is composed from the host fields.
func (p *ProgressConfig) ConnectionString() string {
	if p.Driver == "sqlite3" || p.DSN != "" {
		return p.DSN
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.DBName, p.SSLMode)
}

// New creates a new storage configuration with the given options.
func New(opts ...Option) *Config {
	cfg := &Config{
		LinksDir:    DefaultLinksDir,
		ArticlesDir: DefaultArticlesDir,
		Progress: ProgressConfig{
			Driver:  DefaultDriver,
			DSN:     DefaultSQLitePath,
			Host:    DefaultPGHost,
			Port:    DefaultPGPort,
			User:    DefaultPGUser,
			DBName:  DefaultPGDBName,
			SSLMode: DefaultPGSSLMode,
		},
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return cfg
}

// Option is a function that configures a storage configuration.
type Option func(*Config)

// WithLinksDir sets the links output directory.
func WithLinksDir(dir string) Option {
	return func(c *Config) {
		c.LinksDir = dir
	}
}

// WithArticlesDir sets the articles output directory.
func WithArticlesDir(dir string) Option {
	return func(c *Config) {
		c.ArticlesDir = dir
	}
}

// WithProgress sets the progress database configuration.
func WithProgress(p ProgressConfig) Option {
	return func(c *Config) {
		c.Progress = p
	}
}
