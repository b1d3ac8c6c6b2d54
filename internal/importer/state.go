package importer

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/corpus-merge/internal/courts"
	"github.com/jonathan/corpus-merge/internal/reconcile"
)

// State is where a document ended up in the import state machine
type State string

// Document states. Fetched through Persisted follow the normal path; the
// rest are terminal outcomes that stop a document early.
const (
	StateFetched         State = "fetched"
	StateNormalized      State = "normalized"
	StateCourtResolved   State = "court_resolved"
	StateCourtUnresolved State = "court_unresolved"
	StateMatched         State = "matched"
	StateCreated         State = "created"
	StateReconciled      State = "reconciled"
	StatePersisted       State = "persisted"

	StateUnchanged State = "unchanged"
	StateSkipped   State = "skipped"
	StateAmbiguous State = "ambiguous"
	StateFailed    State = "failed"
)

// Outcome describes what happened to one source document
type Outcome struct {
	Key         string          `json:"key"`
	State       State           `json:"state"`
	ClusterID   int64           `json:"cluster_id,omitempty"`
	Court       courts.Result   `json:"court"`
	Created     bool            `json:"created"`
	Plan        *reconcile.Plan `json:"plan,omitempty"`
	Reviews     int             `json:"reviews"`
	SkipReason  string          `json:"skip_reason,omitempty"`
	Err         error           `json:"-"`
	History     []State         `json:"history"`
	CompletedAt time.Time       `json:"completed_at"`
}

func (o *Outcome) advance(s State) {
	o.State = s
	o.History = append(o.History, s)
}

// DocError records a document that failed
type DocError struct {
	Key   string `json:"key"`
	Error string `json:"error"`
}

const maxReportErrors = 100

// Report summarizes a batch run. It is safe for concurrent use while the
// batch is running.
type Report struct {
	mu sync.Mutex

	RunID           uuid.UUID  `json:"run_id"`
	StartedAt       time.Time  `json:"started_at"`
	FinishedAt      time.Time  `json:"finished_at"`
	Processed       int        `json:"processed"`
	Created         int        `json:"created"`
	Updated         int        `json:"updated"`
	Unchanged       int        `json:"unchanged"`
	Ambiguous       int        `json:"ambiguous"`
	Skipped         int        `json:"skipped"`
	Failed          int        `json:"failed"`
	CourtUnresolved int        `json:"court_unresolved"`
	Reviews         int        `json:"reviews"`
	Errors          []DocError `json:"errors,omitempty"`
}

func newReport(now time.Time) *Report {
	return &Report{RunID: uuid.New(), StartedAt: now}
}

func (r *Report) record(o *Outcome) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.Processed++
	r.Reviews += o.Reviews
	for _, s := range o.History {
		if s == StateCourtUnresolved {
			r.CourtUnresolved++
		}
	}
	switch o.State {
	case StatePersisted:
		if o.Created {
			r.Created++
		} else {
			r.Updated++
		}
	case StateUnchanged:
		r.Unchanged++
	case StateAmbiguous:
		r.Ambiguous++
	case StateSkipped:
		r.Skipped++
	case StateFailed:
		r.Failed++
		if len(r.Errors) < maxReportErrors && o.Err != nil {
			r.Errors = append(r.Errors, DocError{Key: o.Key, Error: o.Err.Error()})
		}
	}
}
