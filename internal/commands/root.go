package commands

import (
	"github.com/spf13/cobra"

	"github.com/cleared-dev/midata/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "midata",
		Short:   "Validate, clean and archive midata bank statements",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newRunCommand())
	rootCmd.AddCommand(newValidateCommand())
	rootCmd.AddCommand(newExportCommand())
	rootCmd.AddCommand(newHistoryCommand())

	return rootCmd
}
