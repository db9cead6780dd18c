package archiver

import (
	"errors"

	"github.com/rs/zerolog"

	"github.com/cleared-dev/midata/internal/midata"
)

// EventKind identifies what happened during a run.
type EventKind int

const (
	AccountStarted EventKind = iota
	AccountFinished
	// AccountRejected means the account could not be processed at all, for
	// example because its archive is not a valid clean table.
	AccountRejected
	StatementMerged
	StatementRejected
)

func (k EventKind) String() string {
	switch k {
	case AccountStarted:
		return "account_started"
	case AccountFinished:
		return "account_finished"
	case AccountRejected:
		return "account_rejected"
	case StatementMerged:
		return "merged"
	case StatementRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Event is one step of a run. Statement is empty for account events.
type Event struct {
	Kind      EventKind
	Account   string
	Statement string
	RowsAdded int
	Err       error
}

// Reporter receives run events in order.
type Reporter interface {
	Report(Event)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(Event)

// Report calls f(e).
func (f ReporterFunc) Report(e Event) { f(e) }

// MultiReporter fans each event out to every reporter in order.
type MultiReporter []Reporter

// Report implements Reporter.
func (m MultiReporter) Report(e Event) {
	for _, r := range m {
		if r != nil {
			r.Report(e)
		}
	}
}

// LogReporter writes events to a zerolog logger.
type LogReporter struct {
	Log zerolog.Logger
}

// Report implements Reporter.
func (l LogReporter) Report(e Event) {
	switch e.Kind {
	case AccountStarted:
		l.Log.Info().Str("account", e.Account).Msg("archiving account")
	case AccountFinished:
		l.Log.Info().Str("account", e.Account).Int("rows_added", e.RowsAdded).Msg("account done")
	case AccountRejected:
		l.Log.Error().Err(e.Err).Str("account", e.Account).Msg("account skipped")
	case StatementMerged:
		l.Log.Info().
			Str("account", e.Account).
			Str("statement", e.Statement).
			Int("rows_added", e.RowsAdded).
			Msg("statement merged")
	case StatementRejected:
		ev := l.Log.Warn().Str("account", e.Account).Str("statement", e.Statement)
		var schemaErr *midata.SchemaError
		if errors.As(e.Err, &schemaErr) {
			issues := make([]string, len(schemaErr.Issues))
			for i, is := range schemaErr.Issues {
				issues[i] = is.String()
			}
			ev = ev.Strs("issues", issues)
		}
		ev.Err(e.Err).Msg("statement rejected")
	}
}
