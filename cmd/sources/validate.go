// Package sources provides the sources command implementation. This file
// contains the validate command that checks the sources file for rejected
// entries.
package sources

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zcrawl/zcrawl/cmd/common"
	internalsources "github.com/zcrawl/zcrawl/internal/sources"
)

// NewValidateCommand creates a new validate subcommand for sources.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the sources file",
		Long: `Validate parses the sources file and reports every entry that would
be rejected at crawl time, with the reason.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := common.NewCommandDeps()
			if err != nil {
				return fmt.Errorf("failed to get dependencies: %w", err)
			}

			path := deps.Config.GetCrawlerConfig().SourceFile
			srcs, issues, err := internalsources.NewLoader(path).Load()
			if err != nil {
				return fmt.Errorf("failed to load sources from %s: %w", path, err)
			}

			for _, issue := range issues {
				fmt.Printf("INVALID %s: %v\n", issue.Name, issue.Err)
			}
			fmt.Printf("%d valid, %d invalid\n", len(srcs), len(issues))

			if len(issues) > 0 {
				return fmt.Errorf("sources file %s has %d invalid entries", path, len(issues))
			}
			return nil
		},
	}
}
