// Package run implements the run command: discovery then extraction for one
// or more sources, fanned out over a bounded worker pool.
package run

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	cmdcommon "github.com/zcrawl/zcrawl/cmd/common"
	"github.com/zcrawl/zcrawl/internal/sources"
	"github.com/zcrawl/zcrawl/internal/worker"
)

// Command returns the run command for use in the root command.
func Command() *cobra.Command {
	var (
		workers    int
		fresh      bool
		noHeadless bool
	)

	cmd := &cobra.Command{
		Use:   "run [source...]",
		Short: "Discover and extract articles for sources",
		Long: `Run the full pipeline for the named sources: collect article links
from each source's category page, then extract every linked article into
per-category JSON files.

With no arguments every enabled source from the sources file runs. Sources
are distributed over a bounded pool of workers, each owning its own
browser sessions; one source failing does not stop the others.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := cmdcommon.NewCommandDeps()
			if err != nil {
				return fmt.Errorf("failed to initialize dependencies: %w", err)
			}

			srcs, err := selectSources(deps, args)
			if err != nil {
				return err
			}
			if len(srcs) == 0 {
				deps.Logger.Warn("No enabled sources to run")
				return nil
			}

			pipeline := cmdcommon.NewPipeline(deps)
			defer pipeline.Close()

			var (
				mu      sync.Mutex
				results = make(map[string]*cmdcommon.RunResult, len(srcs))
			)
			handler := func(ctx context.Context, src sources.Config) error {
				res, runErr := pipeline.RunSource(ctx, src, cmdcommon.RunOptions{
					Fresh:      fresh,
					NoHeadless: noHeadless,
				})
				mu.Lock()
				results[src.Name] = res
				mu.Unlock()
				return runErr
			}

			poolCfg := worker.DefaultConfig()
			if workers > 0 {
				poolCfg.Workers = workers
			} else if cfg := deps.Config.GetCrawlerConfig(); cfg.Workers > 0 {
				poolCfg.Workers = cfg.Workers
			}
			pool, err := worker.NewPool(poolCfg, handler, deps.Logger)
			if err != nil {
				return fmt.Errorf("failed to create worker pool: %w", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			summary := pool.Run(ctx, srcs)
			renderSummary(summary, results)

			if summary.Aborted > 0 {
				return fmt.Errorf("run aborted with %d sources unfinished: %w", summary.Aborted, ctx.Err())
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&workers, "workers", 0, "number of concurrent per-source pipelines (default from config)")
	cmd.Flags().BoolVar(&fresh, "fresh", false, "discard stored progress for each source before running")
	cmd.Flags().BoolVar(&noHeadless, "no-headless", false, "run the browsers in visible mode")

	return cmd
}

// selectSources resolves the run's source list: the named sources, or every
// enabled one when no names are given.
func selectSources(deps cmdcommon.CommandDeps, names []string) ([]sources.Config, error) {
	srcs, err := cmdcommon.LoadSources(deps.Config, deps.Logger)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return cmdcommon.EnabledSources(srcs), nil
	}

	picked := make([]sources.Config, 0, len(names))
	for _, name := range names {
		src, findErr := cmdcommon.FindSource(srcs, name)
		if findErr != nil {
			return nil, findErr
		}
		picked = append(picked, src)
	}
	return picked, nil
}

// renderSummary prints the per-source outcome table.
func renderSummary(summary *worker.Summary, results map[string]*cmdcommon.RunResult) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Source", "Links", "Extracted", "Failed", "Skipped", "Duration", "Status"})

	var totalLinks, totalExtracted, totalFailed, totalSkipped int
	for _, outcome := range summary.Results {
		links, extracted, failed, skipped := 0, 0, 0, 0
		if res := results[outcome.Source]; res != nil {
			if res.Discover != nil {
				links = len(res.Discover.Links)
			}
			if res.Extract != nil && res.Extract.Stats != nil {
				extracted = res.Extract.Stats.Extracted
				failed = res.Extract.Stats.Failed
				skipped = res.Extract.Stats.Skipped
			}
		}
		totalLinks += links
		totalExtracted += extracted
		totalFailed += failed
		totalSkipped += skipped

		status := string(outcome.State)
		if outcome.Err != nil {
			status = fmt.Sprintf("%s: %v", outcome.State, outcome.Err)
		}
		t.AppendRow(table.Row{
			outcome.Source,
			links,
			extracted,
			failed,
			skipped,
			outcome.Duration.Round(time.Millisecond),
			status,
		})
	}
	t.AppendFooter(table.Row{"Total", totalLinks, totalExtracted, totalFailed, totalSkipped, "", ""})
	t.Render()
}
