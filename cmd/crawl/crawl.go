// Package crawl implements the crawl command for extracting articles from a
// collected link set.
package crawl

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	cmdcommon "github.com/zcrawl/zcrawl/cmd/common"
	"github.com/zcrawl/zcrawl/internal/sources"
	"github.com/zcrawl/zcrawl/internal/storage"
)

// Command returns the crawl command for use in the root command.
func Command() *cobra.Command {
	var (
		sourceName string
		category   string
		start      int
		maxItems   int
		fresh      bool
		noHeadless bool
	)

	cmd := &cobra.Command{
		Use:   "crawl [links-file]",
		Short: "Extract articles from a link file",
		Long: `Extract the articles listed in a link file into per-category JSON
files, one numbered document per article.

With --source the link file defaults to the source's collected file and
the source's selectors drive extraction. A positional links-file argument
overrides the location. Progress is stored per category, so an interrupted
run resumes past already-processed links; --fresh discards that progress
and restarts from the window's start offset.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := cmdcommon.NewCommandDeps()
			if err != nil {
				return fmt.Errorf("failed to initialize dependencies: %w", err)
			}

			pipeline := cmdcommon.NewPipeline(deps)
			defer pipeline.Close()

			src, err := resolveSource(deps, sourceName, category)
			if err != nil {
				return err
			}

			linksPath := pipeline.LinksPath(src.Name)
			if len(args) == 1 {
				linksPath = args[0]
			}
			links, err := storage.ReadLinks(linksPath)
			if err != nil {
				return err
			}
			if len(links) == 0 {
				deps.Logger.Warn("Link file is empty, nothing to extract", "path", linksPath)
				return nil
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			res, err := pipeline.Extract(ctx, src, links, cmdcommon.ExtractOptions{
				Start:      start,
				Max:        maxItems,
				Fresh:      fresh,
				NoHeadless: noHeadless,
			})
			if err != nil {
				return err
			}

			fmt.Printf("Extracted %d of %d articles to %s (%d failed, %d skipped)\n",
				res.Stats.Extracted, res.Stats.Attempted, res.Dir,
				res.Stats.Failed, res.Stats.Skipped)
			return nil
		},
	}

	cmd.Flags().StringVar(&sourceName, "source", "", "name of the configured source the links belong to")
	cmd.Flags().StringVar(&category, "category", "", "category name for links from an unconfigured source (default \"general\")")
	cmd.Flags().IntVar(&start, "start", 0, "offset into the link list; also the first output file number")
	cmd.Flags().IntVar(&maxItems, "max", 0, "maximum number of articles to extract (0 means all)")
	cmd.Flags().BoolVar(&fresh, "fresh", false, "discard stored progress for the category before running")
	cmd.Flags().BoolVar(&noHeadless, "no-headless", false, "run the browser in visible mode")

	return cmd
}

// resolveSource picks the extraction source: a registry lookup for --source,
// otherwise an ad-hoc category with the stock selectors.
func resolveSource(deps cmdcommon.CommandDeps, sourceName, category string) (sources.Config, error) {
	if sourceName != "" {
		srcs, err := cmdcommon.LoadSources(deps.Config, deps.Logger)
		if err != nil {
			return sources.Config{}, err
		}
		return cmdcommon.FindSource(srcs, sourceName)
	}

	if category == "" {
		category = "general"
	}
	src := sources.Config{Name: category}
	src.Selectors.ApplyDefaults()
	return src, nil
}
