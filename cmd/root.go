// Package cmd implements the zcrawl command-line interface.
// It provides the root command and subcommands for link discovery,
// article extraction, and source management.
package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/joho/godotenv"
	"github.com/zcrawl/zcrawl/cmd/collect"
	cmdcrawl "github.com/zcrawl/zcrawl/cmd/crawl"
	"github.com/zcrawl/zcrawl/cmd/links"
	cmdrun "github.com/zcrawl/zcrawl/cmd/run"
	"github.com/zcrawl/zcrawl/cmd/schedule"
	cmdsources "github.com/zcrawl/zcrawl/cmd/sources"
	browserconfig "github.com/zcrawl/zcrawl/internal/config/browser"
	crawlerconfig "github.com/zcrawl/zcrawl/internal/config/crawler"
	storageconfig "github.com/zcrawl/zcrawl/internal/config/storage"
)

var (
	// cfgFile holds the path to the configuration file.
	cfgFile string

	// Debug enables debug mode for all commands
	Debug bool

	// rootCmd represents the root command for the zcrawl CLI.
	rootCmd = &cobra.Command{
		Use:   "zcrawl",
		Short: "A news site crawler",
		Long: `zcrawl discovers article links from news category pages and
extracts the linked articles into per-category JSON files.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
)

// Execute runs the root command
func Execute() error {
	// Load .env file early so environment variables are available
	_ = godotenv.Load()

	// Parse flags early to get debug flag before creating logger
	_ = rootCmd.ParseFlags(os.Args[1:])

	// Initialize configuration
	if err := initConfig(); err != nil {
		return fmt.Errorf("failed to initialize configuration: %w", err)
	}

	// Execute the root command with a fresh context
	return rootCmd.ExecuteContext(context.Background())
}

// init initializes the root command and its subcommands.
func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"",
		"config file (default is ./config.yaml or ./config/config.yaml)",
	)
	rootCmd.PersistentFlags().BoolVar(&Debug, "debug", false, "enable debug mode")

	// Add version command
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("zcrawl version %s\n", viper.GetString("app.version"))
		},
	})

	// Add subcommands
	rootCmd.AddCommand(collect.Command())
	rootCmd.AddCommand(cmdcrawl.Command())
	rootCmd.AddCommand(cmdrun.Command())
	rootCmd.AddCommand(links.Command())
	rootCmd.AddCommand(cmdsources.Command())
	rootCmd.AddCommand(schedule.Command())
}

// initConfig reads in config file and ENV variables if set.
func initConfig() error {
	// Set config file
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")
	}

	// Enable automatic environment variable reading BEFORE setting defaults
	// so environment variables take precedence over defaults
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set defaults (only used if environment variables or config file
	// don't provide values)
	setDefaults()

	// Config file is optional: settings can also come from environment
	// variables or defaults
	if err := viper.ReadInConfig(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Config file not found: %v (using defaults and environment variables)\n", err)
	}

	// Bind command-line flags to Viper
	if err := bindCommandLineFlags(); err != nil {
		return err
	}

	// Map environment variables to config keys
	if err := bindAppEnvVars(); err != nil {
		return err
	}

	// Bind progress database environment variables
	if err := bindProgressEnvVars(); err != nil {
		return err
	}

	// Set development logging settings
	setupDevelopmentLogging()

	return nil
}

// bindCommandLineFlags binds command-line flags to Viper.
func bindCommandLineFlags() error {
	if err := viper.BindPFlag("app.debug", rootCmd.PersistentFlags().Lookup("debug")); err != nil {
		return fmt.Errorf("failed to bind debug flag: %w", err)
	}
	if err := viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config")); err != nil {
		return fmt.Errorf("failed to bind config flag: %w", err)
	}
	return nil
}

// bindAppEnvVars binds application and logger environment variables to config keys.
func bindAppEnvVars() error {
	if err := viper.BindEnv("app.environment", "APP_ENV"); err != nil {
		return fmt.Errorf("failed to bind APP_ENV: %w", err)
	}
	if err := viper.BindEnv("app.debug", "APP_DEBUG"); err != nil {
		return fmt.Errorf("failed to bind APP_DEBUG: %w", err)
	}
	if err := viper.BindEnv("logger.level", "LOG_LEVEL"); err != nil {
		return fmt.Errorf("failed to bind LOG_LEVEL: %w", err)
	}
	if err := viper.BindEnv("logger.encoding", "LOG_FORMAT"); err != nil {
		return fmt.Errorf("failed to bind LOG_FORMAT: %w", err)
	}
	if err := viper.BindEnv("crawler.source_file", "CRAWLER_SOURCE_FILE"); err != nil {
		return fmt.Errorf("failed to bind CRAWLER_SOURCE_FILE: %w", err)
	}
	if err := viper.BindEnv("browser.headless", "BROWSER_HEADLESS"); err != nil {
		return fmt.Errorf("failed to bind BROWSER_HEADLESS: %w", err)
	}
	return nil
}

// bindProgressEnvVars binds progress database environment variables to config keys.
func bindProgressEnvVars() error {
	if err := viper.BindEnv("storage.progress.driver", "PROGRESS_DRIVER"); err != nil {
		return fmt.Errorf("failed to bind PROGRESS_DRIVER: %w", err)
	}
	if err := viper.BindEnv("storage.progress.dsn", "PROGRESS_DSN"); err != nil {
		return fmt.Errorf("failed to bind PROGRESS_DSN: %w", err)
	}
	if err := viper.BindEnv("storage.progress.host", "PROGRESS_DB_HOST"); err != nil {
		return fmt.Errorf("failed to bind PROGRESS_DB_HOST: %w", err)
	}
	if err := viper.BindEnv("storage.progress.port", "PROGRESS_DB_PORT"); err != nil {
		return fmt.Errorf("failed to bind PROGRESS_DB_PORT: %w", err)
	}
	if err := viper.BindEnv("storage.progress.user", "PROGRESS_DB_USER"); err != nil {
		return fmt.Errorf("failed to bind PROGRESS_DB_USER: %w", err)
	}
	if err := viper.BindEnv("storage.progress.password", "PROGRESS_DB_PASSWORD"); err != nil {
		return fmt.Errorf("failed to bind PROGRESS_DB_PASSWORD: %w", err)
	}
	if err := viper.BindEnv("storage.progress.dbname", "PROGRESS_DB_NAME"); err != nil {
		return fmt.Errorf("failed to bind PROGRESS_DB_NAME: %w", err)
	}
	if err := viper.BindEnv("storage.progress.sslmode", "PROGRESS_DB_SSLMODE"); err != nil {
		return fmt.Errorf("failed to bind PROGRESS_DB_SSLMODE: %w", err)
	}
	return nil
}

// setupDevelopmentLogging configures development logging settings based on
// environment and debug flag.
func setupDevelopmentLogging() {
	// Check both the flag variable and Viper to catch the debug flag
	// regardless of how it was supplied
	debugFlag := Debug || viper.GetBool("app.debug")
	isDev := viper.GetString("app.environment") == "development"

	// Only set debug level if explicitly requested via flag or APP_DEBUG
	if debugFlag {
		viper.Set("logger.level", "debug")
	}

	// Development mode switches to human-readable console output but does
	// not change the log level unless debug was requested
	if isDev {
		viper.Set("logger.development", true)
		viper.Set("logger.caller", true)
		viper.Set("logger.encoding", "console")
	}

	// Synchronize global Debug variable with Viper's value
	Debug = debugFlag
}

// setDefaults sets default configuration values
func setDefaults() {
	// App defaults - production safe
	viper.SetDefault("app", map[string]any{
		"name":        "zcrawl",
		"version":     "0.1.0",
		"environment": "production",
		"debug":       false,
	})

	// Logger defaults - production safe
	viper.SetDefault("logger", map[string]any{
		"level":       "info",
		"development": false,
		"encoding":    "console",
		"output":      "stdout",
		"caller":      false,
		"stacktrace":  false,
	})

	// Crawler defaults
	viper.SetDefault("crawler", map[string]any{
		"method":       crawlerconfig.DefaultMethod,
		"source_file":  crawlerconfig.DefaultSourceFile,
		"user_agent":   crawlerconfig.DefaultUserAgent,
		"max_links":    crawlerconfig.DefaultMaxLinks,
		"max_articles": 0,
		"rate_limit":   crawlerconfig.DefaultRateLimit.String(),
		"wait_timeout": crawlerconfig.DefaultWaitTimeout.String(),
		"workers":      crawlerconfig.DefaultWorkers,
		"scroll": map[string]any{
			"max_scrolls":      crawlerconfig.DefaultMaxScrolls,
			"pause":            crawlerconfig.DefaultScrollPause.String(),
			"stagnation_limit": crawlerconfig.DefaultStagnationLimit,
		},
		"image_scroll": map[string]any{
			"count":  crawlerconfig.DefaultImageScrolls,
			"amount": crawlerconfig.DefaultScrollAmount,
			"pause":  crawlerconfig.DefaultImagePause.String(),
		},
		"retry": map[string]any{
			"max_retries": crawlerconfig.DefaultMaxRetries,
			"delay":       crawlerconfig.DefaultRetryDelay.String(),
			"max_delay":   crawlerconfig.DefaultRetryMaxDelay.String(),
			"multiplier":  crawlerconfig.DefaultRetryMultiplier,
		},
	})

	// Browser defaults - headless with the container-safe Chrome flags
	viper.SetDefault("browser", map[string]any{
		"headless":          true,
		"no_sandbox":        true,
		"disable_gpu":       true,
		"window_width":      browserconfig.DefaultWindowWidth,
		"window_height":     browserconfig.DefaultWindowHeight,
		"page_load_timeout": browserconfig.DefaultPageLoadTimeout.String(),
	})

	// Storage defaults - sqlite progress file next to the output dirs
	viper.SetDefault("storage", map[string]any{
		"links_dir":    storageconfig.DefaultLinksDir,
		"articles_dir": storageconfig.DefaultArticlesDir,
		"progress": map[string]any{
			"driver": storageconfig.DefaultDriver,
			"dsn":    storageconfig.DefaultSQLitePath,
		},
	})
}
