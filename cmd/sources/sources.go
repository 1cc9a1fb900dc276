// Package sources provides the sources command implementation.
package sources

import (
	"github.com/spf13/cobra"
)

// Command returns the sources command group for use in the root command.
func Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sources",
		Short: "Manage crawl sources",
		Long:  `The sources command group inspects the configured crawl sources.`,
	}

	cmd.AddCommand(
		NewListCommand(),
		NewValidateCommand(),
	)

	return cmd
}
