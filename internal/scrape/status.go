package scrape

// Run lifecycle. A run only ever moves Idle -> Running -> one of the
// terminal states.
const (
	StatusIdle      = "idle"
	StatusRunning   = "running"
	StatusStopped   = "stopped"
	StatusCompleted = "completed"
	StatusError     = "error"
)

// RunStatus is what the shell polls and what the status callback carries.
type RunStatus struct {
	Status      string `json:"status"`
	RunID       string `json:"run_id,omitempty"`
	SearchURL   string `json:"search_url,omitempty"`
	StartPage   int    `json:"start_page,omitempty"`
	EndPage     int    `json:"end_page,omitempty"`
	CurrentPage int    `json:"current_page,omitempty"`
	RowsWritten int    `json:"rows_written"`
	OutputPath  string `json:"output_path,omitempty"`
	LastError   string `json:"last_error,omitempty"`
	StartedAt   string `json:"started_at,omitempty"`
	FinishedAt  string `json:"finished_at,omitempty"`
}
