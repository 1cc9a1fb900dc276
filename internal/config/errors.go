// Package config provides configuration management for the zcrawl application.
package config

import (
	"errors"
)

// Common configuration errors
var (
	// ErrConfigInvalid is returned when the configuration is invalid
	ErrConfigInvalid = errors.New("invalid configuration")

	// ErrConfigParseFailed is returned when parsing the configuration fails
	ErrConfigParseFailed = errors.New("failed to parse configuration")
)
