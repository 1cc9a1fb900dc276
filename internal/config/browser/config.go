// Package browser provides configuration for the headless browser session.
package browser

import (
	"errors"
	"time"
)

// Default configuration values
const (
	DefaultWindowWidth     = 1920
	DefaultWindowHeight    = 1080
	DefaultPageLoadTimeout = 30 * time.Second
)

// Config represents the browser session configuration.
type Config struct {
	// Headless runs the browser without a visible window
	Headless bool `env:"BROWSER_HEADLESS" yaml:"headless" mapstructure:"headless"`
	// NoSandbox disables the Chrome sandbox (required in most containers)
	NoSandbox bool `env:"BROWSER_NO_SANDBOX" yaml:"no_sandbox" mapstructure:"no_sandbox"`
	// DisableGPU disables GPU acceleration
	DisableGPU bool `env:"BROWSER_DISABLE_GPU" yaml:"disable_gpu" mapstructure:"disable_gpu"`
	// WindowWidth is the viewport width in pixels
	WindowWidth int `yaml:"window_width" mapstructure:"window_width"`
	// WindowHeight is the viewport height in pixels
	WindowHeight int `yaml:"window_height" mapstructure:"window_height"`
	// PageLoadTimeout bounds each page navigation
	PageLoadTimeout time.Duration `env:"BROWSER_PAGE_LOAD_TIMEOUT" yaml:"page_load_timeout" mapstructure:"page_load_timeout"`
	// ExecPath overrides the Chrome binary location (empty = auto-detect)
	ExecPath string `env:"BROWSER_EXEC_PATH" yaml:"exec_path" mapstructure:"exec_path"`
}

// Validate validates the browser configuration.
func (c *Config) Validate() error {
	if c.WindowWidth < 1 {
		return errors.New("window_width must be positive")
	}
	if c.WindowHeight < 1 {
		return errors.New("window_height must be positive")
	}
	if c.PageLoadTimeout <= 0 {
		return errors.New("page_load_timeout must be positive")
	}
	return nil
}

// New creates a new browser configuration with the given options.
func New(opts ...Option) *Config {
	cfg := &Config{
		Headless:        true,
		NoSandbox:       true,
		DisableGPU:      true,
		WindowWidth:     DefaultWindowWidth,
		WindowHeight:    DefaultWindowHeight,
		PageLoadTimeout: DefaultPageLoadTimeout,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return cfg
}

// Option is a function that configures a browser configuration.
type Option func(*Config)

// WithHeadless sets headless mode.
func WithHeadless(headless bool) Option {
	return func(c *Config) {
		c.Headless = headless
	}
}

// WithWindowSize sets the viewport size.
func WithWindowSize(width, height int) Option {
	return func(c *Config) {
		c.WindowWidth = width
		c.WindowHeight = height
	}
}

// WithPageLoadTimeout sets the navigation timeout.
func WithPageLoadTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.PageLoadTimeout = d
	}
}

// WithExecPath sets the Chrome binary location.
func WithExecPath(path string) Option {
	return func(c *Config) {
		c.ExecPath = path
	}
}
