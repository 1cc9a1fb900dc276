// Package collect implements the collect command for discovering article
// links from a source's category page or feed.
package collect

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	cmdcommon "github.com/zcrawl/zcrawl/cmd/common"
	crawlerconfig "github.com/zcrawl/zcrawl/internal/config/crawler"
	"github.com/zcrawl/zcrawl/internal/sources"
)

// defaultCategory names ad-hoc URL crawls that belong to no configured source.
const defaultCategory = "general"

// Command returns the collect command for use in the root command.
func Command() *cobra.Command {
	var (
		sourceName string
		rawURL     string
		category   string
		output     string
		method     string
		year       int
		maxLinks   int
		appendTo   bool
		noHeadless bool
	)

	cmd := &cobra.Command{
		Use:   "collect",
		Short: "Collect article links from a category page",
		Long: `Collect article links from a news category page or feed and write
them to a link file, one URL per line.

Specify either --source (a name from the sources file) or --url for an
ad-hoc page. Discovery scrolls the page until the link cap, the year
boundary, or content stagnation stops it.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := cmdcommon.NewCommandDeps()
			if err != nil {
				return fmt.Errorf("failed to initialize dependencies: %w", err)
			}

			src, err := resolveSource(deps, sourceName, rawURL, category)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("year") {
				src.TargetYear = year
			}
			if cmd.Flags().Changed("max-links") {
				src.MaxLinks = maxLinks
			}
			if method != "" {
				src.Method = method
			}
			if src.Method == crawlerconfig.MethodFeed && src.FeedURL == "" {
				src.FeedURL = src.URL
			}

			pipeline := cmdcommon.NewPipeline(deps)
			defer pipeline.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			res, err := pipeline.Discover(ctx, src, cmdcommon.DiscoverOptions{
				OutputPath: output,
				Append:     appendTo,
				NoHeadless: noHeadless,
			})
			if err != nil {
				return err
			}

			fmt.Printf("Collected %d links to %s (%s)\n",
				len(res.Links), res.LinksPath, res.Termination)
			return nil
		},
	}

	cmd.Flags().StringVar(&sourceName, "source", "", "name of a configured source to collect from")
	cmd.Flags().StringVar(&rawURL, "url", "", "category page URL for an ad-hoc crawl")
	cmd.Flags().StringVar(&category, "category", "", "category name for an ad-hoc crawl (default \"general\")")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output link file (default <source>_links.txt in the links dir)")
	cmd.Flags().StringVar(&method, "method", "", "discovery method: scroll, article, or feed")
	cmd.Flags().IntVar(&year, "year", 0, "only collect articles published in this year (0 disables the filter)")
	cmd.Flags().IntVar(&maxLinks, "max-links", 0, "maximum number of links to collect (0 means no cap)")
	cmd.Flags().BoolVar(&appendTo, "append", false, "append to the link file instead of overwriting it")
	cmd.Flags().BoolVar(&noHeadless, "no-headless", false, "run the browser in visible mode")

	return cmd
}

// resolveSource turns the collect flags into a source config: a registry
// lookup for --source, or an ad-hoc entry for --url.
func resolveSource(deps cmdcommon.CommandDeps, sourceName, rawURL, category string) (sources.Config, error) {
	if sourceName == "" && rawURL == "" {
		return sources.Config{}, errors.New("either --source or --url is required")
	}
	if sourceName != "" && rawURL != "" {
		return sources.Config{}, errors.New("--source and --url are mutually exclusive")
	}

	if sourceName != "" {
		srcs, err := cmdcommon.LoadSources(deps.Config, deps.Logger)
		if err != nil {
			return sources.Config{}, err
		}
		return cmdcommon.FindSource(srcs, sourceName)
	}

	if category == "" {
		category = defaultCategory
	}
	src := sources.Config{
		Name:   category,
		URL:    rawURL,
		Method: crawlerconfig.MethodScroll,
	}
	src.Selectors.ApplyDefaults()
	return src, nil
}
