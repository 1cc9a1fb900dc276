// Package schedule implements the schedule command that runs the full
// per-source pipeline on the sources' configured daily times.
package schedule

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	cmdcommon "github.com/zcrawl/zcrawl/cmd/common"
	"github.com/zcrawl/zcrawl/internal/job"
	"github.com/zcrawl/zcrawl/internal/sources"
)

const (
	// signalChannelBufferSize is the buffer for the shutdown signal channel.
	signalChannelBufferSize = 1
	// defaultShutdownTimeout bounds the wait for in-flight crawls to stop.
	defaultShutdownTimeout = 30 * time.Second
)

// Command returns the schedule command for use in the root command.
func Command() *cobra.Command {
	var (
		list  bool
		now   bool
		fresh bool
	)

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Run sources on their configured schedule",
		Long: `Schedule stays resident and runs the full discover-and-extract
pipeline for every source at the daily times configured in the sources
file. Sources without schedule times are skipped. A trigger that fires
while the same source is still crawling is dropped.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := cmdcommon.NewCommandDeps()
			if err != nil {
				return fmt.Errorf("failed to initialize dependencies: %w", err)
			}

			scheduled, err := scheduledSources(deps)
			if err != nil {
				return err
			}
			if len(scheduled) == 0 {
				deps.Logger.Warn("No sources carry schedule times, nothing to do")
				return nil
			}

			pipeline := cmdcommon.NewPipeline(deps)
			defer pipeline.Close()

			sched, err := job.NewScheduler(func(ctx context.Context, src sources.Config) error {
				_, runErr := pipeline.RunSource(ctx, src, cmdcommon.RunOptions{Fresh: fresh})
				return runErr
			}, deps.Logger)
			if err != nil {
				return err
			}

			for _, src := range scheduled {
				if err := sched.Schedule(src); err != nil {
					return fmt.Errorf("schedule %s: %w", src.Name, err)
				}
			}

			if list {
				renderEntries(sched.Entries())
				return nil
			}

			if now {
				for _, src := range scheduled {
					sched.RunNow(src)
				}
			}

			sched.Start()
			deps.Logger.Info("Scheduler started, waiting for triggers or interrupt",
				"sources", len(scheduled))

			sigChan := make(chan os.Signal, signalChannelBufferSize)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
			sig := <-sigChan
			deps.Logger.Info("Shutdown signal received", "signal", sig.String())

			shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
			defer cancel()
			if err := sched.Stop(shutdownCtx); err != nil {
				return fmt.Errorf("failed to stop scheduler: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&list, "list", false, "print the schedule entries and exit")
	cmd.Flags().BoolVar(&now, "now", false, "run every scheduled source once immediately")
	cmd.Flags().BoolVar(&fresh, "fresh", false, "discard stored progress before each triggered run")

	return cmd
}

// scheduledSources returns the enabled sources that carry schedule times.
func scheduledSources(deps cmdcommon.CommandDeps) ([]sources.Config, error) {
	srcs, err := cmdcommon.LoadSources(deps.Config, deps.Logger)
	if err != nil {
		return nil, err
	}

	scheduled := make([]sources.Config, 0, len(srcs))
	for _, src := range cmdcommon.EnabledSources(srcs) {
		if len(src.Time) > 0 {
			scheduled = append(scheduled, src)
		}
	}
	return scheduled, nil
}

// renderEntries prints the registered triggers with their next fire times.
func renderEntries(entries []job.Entry) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Source", "Cron", "Next Run"})
	for _, e := range entries {
		t.AppendRow(table.Row{e.Source, e.Spec, e.Next.Format("2006-01-02 15:04:05")})
	}
	t.Render()
}
