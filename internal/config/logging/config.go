// Package logging provides configuration for application logging.
package logging

import (
	"errors"
	"fmt"

	"github.com/zcrawl/zcrawl/internal/logger"
)

// Default configuration values
const (
	DefaultLevel      = "info"
	DefaultEncoding   = "console"
	DefaultOutput     = "stdout"
	DefaultFile       = "logs/zcrawl.log"
	DefaultCaller     = false
	DefaultStacktrace = false
)

// validLevels defines the accepted logging levels.
var validLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Config holds logging-specific configuration settings.
type Config struct {
	// Level is the logging level (debug, info, warn, error)
	Level string `yaml:"level" mapstructure:"level"`
	// Encoding is the log encoding format (json, console)
	Encoding string `yaml:"encoding" mapstructure:"encoding"`
	// Output is the log output destination (stdout, stderr, file, both)
	Output string `yaml:"output" mapstructure:"output"`
	// File is the log file path (used when output is file or both)
	File string `yaml:"file" mapstructure:"file"`
	// Development enables development-mode formatting
	Development bool `yaml:"development" mapstructure:"development"`
	// Caller enables caller information in logs
	Caller bool `yaml:"caller" mapstructure:"caller"`
	// Stacktrace enables stacktrace in error logs
	Stacktrace bool `yaml:"stacktrace" mapstructure:"stacktrace"`
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Level == "" {
		return errors.New("level must be specified")
	}
	if !validLevels[c.Level] {
		return fmt.Errorf("invalid level: %s", c.Level)
	}

	switch c.Encoding {
	case "json", "console":
	case "":
		return errors.New("encoding must be specified")
	default:
		return fmt.Errorf("invalid encoding: %s", c.Encoding)
	}

	switch c.Output {
	case "stdout", "stderr":
	case "file", "both":
		if c.File == "" {
			return errors.New("file output requires a file path")
		}
	case "":
		return errors.New("output must be specified")
	default:
		return fmt.Errorf("invalid output: %s", c.Output)
	}

	return nil
}

// ToLoggerConfig converts the logging section into the logger package's
// configuration, expanding Output into concrete zap output paths.
func (c *Config) ToLoggerConfig() *logger.Config {
	var paths []string
	switch c.Output {
	case "stderr":
		paths = []string{"stderr"}
	case "file":
		paths = []string{c.File}
	case "both":
		paths = []string{"stdout", c.File}
	default:
		paths = []string{"stdout"}
	}

	return &logger.Config{
		Level:       logger.Level(c.Level),
		Development: c.Development,
		Encoding:    c.Encoding,
		OutputPaths: paths,
	}
}

// New creates a new logging configuration with the given options.
func New(opts ...Option) *Config {
	cfg := &Config{
		Level:      DefaultLevel,
		Encoding:   DefaultEncoding,
		Output:     DefaultOutput,
		Caller:     DefaultCaller,
		Stacktrace: DefaultStacktrace,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return cfg
}

// Option is a function that configures a logging configuration.
type Option func(*Config)

// WithLevel sets the logging level.
func WithLevel(level string) Option {
	return func(c *Config) {
		c.Level = level
	}
}

// WithEncoding sets the log encoding.
func WithEncoding(encoding string) Option {
	return func(c *Config) {
		c.Encoding = encoding
	}
}

// WithOutput sets the log output destination.
func WithOutput(output string) Option {
	return func(c *Config) {
		c.Output = output
	}
}

// WithFile sets the log file path.
func WithFile(file string) Option {
	return func(c *Config) {
		c.File = file
	}
}

// WithDevelopment sets development-mode formatting.
func WithDevelopment(dev bool) Option {
	return func(c *Config) {
		c.Development = dev
	}
}

// WithCaller sets caller information.
func WithCaller(caller bool) Option {
	return func(c *Config) {
		c.Caller = caller
	}
}

// WithStacktrace sets stacktrace in error logs.
func WithStacktrace(st bool) Option {
	return func(c *Config) {
		c.Stacktrace = st
	}
}
