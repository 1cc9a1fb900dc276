package common

import (
	"fmt"

	"github.com/zcrawl/zcrawl/internal/config"
	"github.com/zcrawl/zcrawl/internal/logger"
)

// NewCommandDeps creates CommandDeps by loading config and creating the
// logger. This consolidates the common initialization code every
// subcommand needs.
func NewCommandDeps() (CommandDeps, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return CommandDeps{}, fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(cfg.GetLoggingConfig().ToLoggerConfig())
	if err != nil {
		return CommandDeps{}, fmt.Errorf("create logger: %w", err)
	}

	deps := CommandDeps{
		Logger: log,
		Config: cfg,
	}

	if validateErr := deps.Validate(); validateErr != nil {
		return CommandDeps{}, fmt.Errorf("validate deps: %w", validateErr)
	}

	return deps, nil
}
