package runlog

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cleared-dev/midata/internal/archiver"
	"github.com/cleared-dev/midata/internal/midata"
)

// Recorder collects run log entries from archiver events. Account start and
// finish events are not recorded.
type Recorder struct {
	RunID string

	mu      sync.Mutex
	now     func() time.Time
	entries []Entry
}

// NewRecorder returns a Recorder with a fresh run ID.
func NewRecorder() *Recorder {
	return &Recorder{RunID: uuid.NewString(), now: time.Now}
}

// Report implements archiver.Reporter.
func (r *Recorder) Report(e archiver.Event) {
	switch e.Kind {
	case archiver.StatementMerged, archiver.StatementRejected, archiver.AccountRejected:
	default:
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, Entry{
		Timestamp: r.now().UTC().Truncate(time.Second),
		RunID:     r.RunID,
		Account:   e.Account,
		Statement: e.Statement,
		Outcome:   e.Kind.String(),
		RowsAdded: e.RowsAdded,
		Details:   details(e.Err),
	})
}

// Entries returns the entries recorded so far.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Entry(nil), r.entries...)
}

// Flush appends the recorded entries to the log at path and clears them.
func (r *Recorder) Flush(path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.entries) == 0 {
		return nil
	}
	if err := Append(path, r.entries); err != nil {
		return err
	}
	r.entries = nil
	return nil
}

func details(err error) string {
	if err == nil {
		return ""
	}
	var schemaErr *midata.SchemaError
	if errors.As(err, &schemaErr) {
		issues := make([]string, len(schemaErr.Issues))
		for i, is := range schemaErr.Issues {
			issues[i] = is.String()
		}
		return strings.Join(issues, "; ")
	}
	return err.Error()
}
