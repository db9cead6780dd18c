package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/midata/internal/accounts"
	"github.com/cleared-dev/midata/internal/export"
)

func newExportCommand() *cobra.Command {
	var repoDir string
	var out string

	cmd := &cobra.Command{
		Use:   "export <account>",
		Short: "Write an account archive to an Excel workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(repoDir, args[0], out)
		},
	}

	cmd.Flags().StringVar(&repoDir, "repo", ".", "project directory")
	cmd.Flags().StringVar(&out, "out", "", "output file (default exports/<account>.xlsx)")

	return cmd
}

func runExport(repoDir, account, out string) error {
	p, err := loadProject(repoDir)
	if err != nil {
		return err
	}

	dir := p.accountDir(account)
	if _, err := os.Stat(dir); err != nil {
		return fmt.Errorf("account %s: %w", account, err)
	}
	folder, err := accounts.Open(dir, p.layout())
	if err != nil {
		return err
	}
	archive, err := folder.LoadArchive()
	if err != nil {
		return err
	}

	if out == "" {
		out = filepath.Join(p.dir, "exports", account+".xlsx")
	}
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return fmt.Errorf("creating export dir: %w", err)
	}

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("creating export: %w", err)
	}
	defer f.Close()

	if err := export.WriteXLSX(f, archive, account); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing export: %w", err)
	}

	fmt.Printf("Exported %d rows to %s\n", archive.Len(), out)
	return nil
}
