// Package links implements commands for auditing collected link files.
package links

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	cmdcommon "github.com/zcrawl/zcrawl/cmd/common"
	"github.com/zcrawl/zcrawl/internal/linkcheck"
	"github.com/zcrawl/zcrawl/internal/storage"
)

// Command returns the links command group for use in the root command.
func Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "links",
		Short: "Work with collected link files",
		Long:  `The links command group audits link files produced by collect.`,
	}

	cmd.AddCommand(verifyCommand())
	return cmd
}

// verifyCommand creates the verify subcommand.
func verifyCommand() *cobra.Command {
	var (
		sourceName  string
		delay       time.Duration
		timeout     time.Duration
		parallelism int
	)

	cmd := &cobra.Command{
		Use:   "verify [links-file]",
		Short: "Check a link file for unreachable URLs",
		Long: `Verify fetches every URL in a link file over plain HTTP and reports
the ones that are unreachable or answer with a non-2xx status. Run it on a
collected link set before spending browser time extracting it.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := cmdcommon.NewCommandDeps()
			if err != nil {
				return fmt.Errorf("failed to initialize dependencies: %w", err)
			}

			path, err := resolveLinksPath(deps, sourceName, args)
			if err != nil {
				return err
			}
			urls, err := storage.ReadLinks(path)
			if err != nil {
				return err
			}
			if len(urls) == 0 {
				deps.Logger.Warn("Link file is empty, nothing to verify", "path", path)
				return nil
			}

			checker := linkcheck.New(linkcheck.Config{
				UserAgent:   deps.Config.GetCrawlerConfig().UserAgent,
				Timeout:     timeout,
				Delay:       delay,
				Parallelism: parallelism,
			}, deps.Logger)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			report, err := checker.Check(ctx, urls)
			if err != nil {
				return fmt.Errorf("verify %s: %w", path, err)
			}

			renderReport(report)
			return nil
		},
	}

	cmd.Flags().StringVar(&sourceName, "source", "", "verify the named source's collected link file")
	cmd.Flags().DurationVar(&delay, "delay", linkcheck.DefaultDelay, "delay between requests to the same domain")
	cmd.Flags().DurationVar(&timeout, "timeout", linkcheck.DefaultTimeout, "per-request timeout")
	cmd.Flags().IntVar(&parallelism, "parallelism", linkcheck.DefaultParallelism, "maximum concurrent requests")

	return cmd
}

// resolveLinksPath picks the file to audit: the positional argument, or the
// named source's collected file.
func resolveLinksPath(deps cmdcommon.CommandDeps, sourceName string, args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	if sourceName == "" {
		return "", errors.New("either a links-file argument or --source is required")
	}
	return cmdcommon.LinksPath(deps.Config, sourceName), nil
}

// renderReport prints the audit outcome, one row per broken link.
func renderReport(report *linkcheck.Report) {
	broken := report.BrokenLinks()
	if len(broken) == 0 {
		fmt.Printf("All %d links healthy\n", report.Healthy)
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"URL", "Status", "Error"})
	for _, res := range broken {
		errText := ""
		if res.Err != nil {
			errText = res.Err.Error()
		}
		status := ""
		if res.StatusCode != 0 {
			status = fmt.Sprintf("%d", res.StatusCode)
		}
		t.AppendRow(table.Row{res.URL, status, errText})
	}
	t.Render()
	fmt.Printf("%d healthy, %d broken of %d links\n",
		report.Healthy, report.Broken, len(report.Results))
}
