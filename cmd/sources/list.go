// Package sources provides the sources command implementation. This file
// contains the list command that displays the configured sources in a
// formatted table.
package sources

import (
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/zcrawl/zcrawl/cmd/common"
	internalsources "github.com/zcrawl/zcrawl/internal/sources"
)

// TableRenderer handles the display of source data in a table format
type TableRenderer struct{}

// NewTableRenderer creates a new TableRenderer instance
func NewTableRenderer() *TableRenderer {
	return &TableRenderer{}
}

// RenderTable formats and displays the sources in a table format
func (r *TableRenderer) RenderTable(sources []internalsources.Config) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)

	t.AppendHeader(table.Row{"Name", "URL", "Method", "Year", "Max Links", "Rate Limit", "Schedule", "Enabled"})

	for i := range sources {
		src := &sources[i]
		year := ""
		if src.TargetYear != 0 {
			year = fmt.Sprintf("%d", src.TargetYear)
		}
		t.AppendRow(table.Row{
			src.Name,
			src.URL,
			src.Method,
			year,
			src.MaxLinks,
			src.RateLimit,
			strings.Join(src.Time, " "),
			!src.Disabled,
		})
	}

	t.Render()
}

// NewListCommand creates a new list command
func NewListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all configured sources",
		Long:  `List all crawl sources configured in the sources file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := common.NewCommandDeps()
			if err != nil {
				return fmt.Errorf("failed to get dependencies: %w", err)
			}

			srcs, err := common.LoadSources(deps.Config, deps.Logger)
			if err != nil {
				return fmt.Errorf("failed to load sources: %w", err)
			}
			if len(srcs) == 0 {
				deps.Logger.Info("No sources configured")
				return nil
			}

			NewTableRenderer().RenderTable(srcs)
			return nil
		},
	}
}
