package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/midata/internal/runlog"
)

func newHistoryCommand() *cobra.Command {
	var repoDir string
	var account string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show what previous runs did to each statement",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(repoDir, account)
		},
	}

	cmd.Flags().StringVar(&repoDir, "repo", ".", "project directory")
	cmd.Flags().StringVar(&account, "account", "", "only show this account")

	return cmd
}

func runHistory(repoDir, account string) error {
	p, err := loadProject(repoDir)
	if err != nil {
		return err
	}

	entries, err := runlog.Read(p.runLogPath)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tRUN\tACCOUNT\tSTATEMENT\tOUTCOME\tROWS\tDETAILS")
	for _, e := range entries {
		if account != "" && e.Account != account {
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\t%s\n",
			e.Timestamp.Local().Format("2006-01-02 15:04:05"),
			shortID(e.RunID), e.Account, e.Statement, e.Outcome, e.RowsAdded, e.Details)
	}
	return tw.Flush()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
