// Package archiver runs the statement pipeline over every account folder:
// each statement is validated, cleaned and merged into the account archive.
package archiver

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/cleared-dev/midata/internal/accounts"
	"github.com/cleared-dev/midata/internal/midata"
)

// Options controls an Archiver.
type Options struct {
	Layout accounts.Layout
	// SkipAccountOnError stops an account at its first rejected statement.
	// Statements merged before it stay in the archive.
	SkipAccountOnError bool
}

// Archiver drives the pipeline and reports every step.
type Archiver struct {
	opts     Options
	reporter Reporter
}

// New creates an Archiver. A nil reporter discards events.
func New(opts Options, reporter Reporter) *Archiver {
	if opts.Layout == (accounts.Layout{}) {
		opts.Layout = accounts.DefaultLayout
	}
	if reporter == nil {
		reporter = MultiReporter(nil)
	}
	return &Archiver{opts: opts, reporter: reporter}
}

// AccountResult describes one processed account.
type AccountResult struct {
	Account     string
	ArchivePath string
	Merged      int
	Rejected    int
	RowsAdded   int
	// Stopped is set when SkipAccountOnError cut the account short.
	Stopped bool
}

// Summary totals a run.
type Summary struct {
	Accounts           int
	AccountsFailed     int
	StatementsMerged   int
	StatementsRejected int
	RowsAdded          int
	// Touched lists archive files that gained rows.
	Touched []string
}

func (s *Summary) add(res AccountResult) {
	s.Accounts++
	s.StatementsMerged += res.Merged
	s.StatementsRejected += res.Rejected
	s.RowsAdded += res.RowsAdded
	if res.RowsAdded > 0 {
		s.Touched = append(s.Touched, res.ArchivePath)
	}
}

// Run archives every account directory under root. A failing account is
// reported and counted but does not stop the run.
func (a *Archiver) Run(ctx context.Context, root string) (Summary, error) {
	var sum Summary

	dirs, err := accounts.Discover(root)
	if err != nil {
		return sum, err
	}

	for _, dir := range dirs {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		res, err := a.ArchiveAccount(dir)
		sum.add(res)
		if err != nil {
			sum.AccountsFailed++
		}
	}
	return sum, nil
}

// RunAccount archives a single account and returns its totals as a Summary.
func (a *Archiver) RunAccount(path string) (Summary, error) {
	var sum Summary
	res, err := a.ArchiveAccount(path)
	sum.add(res)
	if err != nil {
		sum.AccountsFailed++
	}
	return sum, err
}

// ArchiveAccount merges every statement of the account at path into its
// archive. The archive is written after each statement that adds rows.
func (a *Archiver) ArchiveAccount(path string) (AccountResult, error) {
	folder, err := accounts.Open(path, a.opts.Layout)
	if err != nil {
		return a.rejectAccount(AccountResult{Account: filepath.Base(path)}, err)
	}
	res := AccountResult{Account: folder.Name, ArchivePath: folder.ArchivePath}
	a.reporter.Report(Event{Kind: AccountStarted, Account: folder.Name})

	archive, err := folder.LoadArchive()
	if err != nil {
		return a.rejectAccount(res, err)
	}

	stmts, err := folder.Statements()
	if err != nil {
		return a.rejectAccount(res, err)
	}

	for _, stmt := range stmts {
		added, err := a.ArchiveStatement(folder, archive, stmt)
		if err != nil {
			var schemaErr *midata.SchemaError
			if !errors.As(err, &schemaErr) && !isReadError(err) {
				return a.rejectAccount(res, err)
			}
			res.Rejected++
			a.reporter.Report(Event{Kind: StatementRejected, Account: folder.Name, Statement: stmt.Name, Err: err})
			if a.opts.SkipAccountOnError {
				res.Stopped = true
				break
			}
			continue
		}
		res.Merged++
		res.RowsAdded += added
		a.reporter.Report(Event{Kind: StatementMerged, Account: folder.Name, Statement: stmt.Name, RowsAdded: added})
	}

	a.reporter.Report(Event{Kind: AccountFinished, Account: folder.Name, RowsAdded: res.RowsAdded})
	return res, nil
}

// ArchiveStatement runs one statement through validate, clean and merge and
// saves the archive when rows were added. It returns the number of rows
// added. On error the archive is left as it was.
func (a *Archiver) ArchiveStatement(folder *accounts.Folder, archive *midata.Clean, stmt accounts.Statement) (int, error) {
	tbl, err := folder.LoadStatement(stmt.Path)
	if err != nil {
		return 0, &readError{err: err}
	}

	raw, err := midata.NewRaw(tbl)
	if err != nil {
		return 0, err
	}
	clean, err := raw.Clean()
	if err != nil {
		return 0, err
	}

	// archive only changes once the save succeeded.
	merged := midata.CleanFromRows(archive.Rows()...)
	added := midata.MergeInto(merged, clean)
	if added == 0 {
		return 0, nil
	}
	if err := folder.SaveArchive(merged); err != nil {
		return 0, fmt.Errorf("saving archive: %w", err)
	}
	*archive = *merged
	return added, nil
}

func (a *Archiver) rejectAccount(res AccountResult, err error) (AccountResult, error) {
	a.reporter.Report(Event{Kind: AccountRejected, Account: res.Account, Err: err})
	return res, fmt.Errorf("account %s: %w", res.Account, err)
}

// readError marks a statement that could not be read as CSV. It is handled
// like a schema failure: the statement is rejected, the run goes on.
type readError struct {
	err error
}

func (e *readError) Error() string { return e.err.Error() }
func (e *readError) Unwrap() error { return e.err }

func isReadError(err error) bool {
	var re *readError
	return errors.As(err, &re)
}
