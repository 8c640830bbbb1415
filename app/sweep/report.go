package sweep

import "time"

// State tracks how far a sweep progressed. A Failed report names the step
// that stopped it in Err; StepErrors collect per-candidate problems that did
// not stop the sweep.
type State string

const (
	StateIdle        State = "idle"
	StateQueryBuilt  State = "query_built"
	StateDiscovering State = "discovering"
	StateFiltering   State = "filtering"
	StatePersisting  State = "persisting"
	StateAttributing State = "attributing"
	StateScoring     State = "scoring"
	StateDone        State = "done"
	StateFailed      State = "failed"
)

// Report is the outcome of one sweep of one topic. It is persisted as the
// topic's last_report and surfaced through the API.
type Report struct {
	Topic       string    `json:"topic"`
	State       State     `json:"state"`
	Searched    int       `json:"searched"`     // candidates returned across all providers
	Skipped     int       `json:"skipped"`      // dropped by outlet filter, dedup or relevance gate
	NewMentions int       `json:"new_mentions"` // rows actually inserted
	Err         string    `json:"error,omitempty"`
	StepErrors  []string  `json:"step_errors,omitempty"`
	StartedAt   time.Time `json:"started_at"`
	FinishedAt  time.Time `json:"finished_at"`

	// Retryable is false for failures that cannot heal without a
	// configuration change; those are not worth a retry.
	Retryable bool `json:"-"`
}
