package models

// RunStatus is the terminal state of one acquisition run.
type RunStatus string

const (
	// RunCompleted means the configured page limit was reached.
	RunCompleted RunStatus = "completed"
	// RunExhausted means the listing had no further page.
	RunExhausted RunStatus = "exhausted"
	// RunAborted means the run stopped on a fatal error.
	RunAborted RunStatus = "aborted"
	// RunCancelled means the caller cancelled the run.
	RunCancelled RunStatus = "cancelled"
)

// Succeeded reports whether the run ended normally.
func (s RunStatus) Succeeded() bool {
	return s == RunCompleted || s == RunExhausted
}

// RunResult summarises one acquisition run.
type RunResult struct {
	Status       RunStatus `json:"status"`
	Pages        int       `json:"pages"`
	ItemsVisited int       `json:"items_visited"`
	RecordsSaved int       `json:"records_saved"`
}
