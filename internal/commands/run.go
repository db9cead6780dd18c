package commands

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/midata/internal/archiver"
	"github.com/cleared-dev/midata/internal/gitops"
	"github.com/cleared-dev/midata/internal/logger"
	"github.com/cleared-dev/midata/internal/runlog"
)

func newRunCommand() *cobra.Command {
	var repoDir string
	var account string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Merge new statements into every account archive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runArchive(cmd.Context(), repoDir, account)
		},
	}

	cmd.Flags().StringVar(&repoDir, "repo", ".", "project directory")
	cmd.Flags().StringVar(&account, "account", "", "only archive this account")

	return cmd
}

func runArchive(ctx context.Context, repoDir, account string) error {
	p, err := loadProject(repoDir)
	if err != nil {
		return err
	}

	log, closer, err := logger.New(logger.Options{Level: p.cfg.Log.Level, File: p.logFile})
	if err != nil {
		return err
	}
	defer closer.Close()

	recorder := runlog.NewRecorder()
	reporters := archiver.MultiReporter{archiver.LogReporter{Log: log}}
	if p.cfg.RunLog.Enabled {
		reporters = append(reporters, recorder)
	}

	a := archiver.New(archiver.Options{
		Layout:             p.layout(),
		SkipAccountOnError: p.cfg.Processing.SkipAccountOnError,
	}, reporters)

	log.Info().Str("run_id", recorder.RunID).Str("root", p.dataRoot).Msg("run started")

	var sum archiver.Summary
	var runErr error
	if account != "" {
		if filepath.Base(account) != account {
			return fmt.Errorf("account must be a folder name, got %q", account)
		}
		sum, runErr = a.RunAccount(p.accountDir(account))
	} else {
		sum, runErr = a.Run(ctx, p.dataRoot)
	}

	if p.cfg.RunLog.Enabled {
		if err := recorder.Flush(p.runLogPath); err != nil {
			log.Warn().Err(err).Msg("failed to write run log")
		}
	}
	if runErr != nil {
		return runErr
	}

	if p.cfg.Git.AutoCommit && len(sum.Touched) > 0 {
		if !gitops.IsRepo(p.dir) {
			log.Warn().Str("dir", p.dir).Msg("auto_commit is on but the project is not a git repository")
		} else {
			author := gitops.Author{Name: p.cfg.Git.AuthorName, Email: p.cfg.Git.AuthorEmail}
			msg := gitops.CommitMessage(sum.RowsAdded, len(sum.Touched))
			hash, err := gitops.CommitPaths(p.dir, sum.Touched, msg, author)
			if err != nil {
				return fmt.Errorf("committing archives: %w", err)
			}
			if hash != "" {
				log.Info().Str("commit", hash).Msg("archives committed")
			}
		}
	}

	log.Info().
		Int("accounts", sum.Accounts).
		Int("accounts_failed", sum.AccountsFailed).
		Int("statements_merged", sum.StatementsMerged).
		Int("statements_rejected", sum.StatementsRejected).
		Int("rows_added", sum.RowsAdded).
		Msg("run finished")

	fmt.Printf("Archived %d rows from %d statements across %d accounts (%d statements rejected, %d accounts failed)\n",
		sum.RowsAdded, sum.StatementsMerged, sum.Accounts, sum.StatementsRejected, sum.AccountsFailed)
	return nil
}
