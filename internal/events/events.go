package events

import (
	"encoding/json"
	"time"
)

// Event types published during a run. The shell listens for page_done for
// progress and run_done/run_error for the terminal state.
const (
	TypeRunStarted     = "run_started"
	TypePageStarted    = "page_started"
	TypePageDone       = "page_done"
	TypeCandidateSaved = "candidate_saved"
	TypeChallenge      = "challenge"
	TypeRunDone        = "run_done"
	TypeRunError       = "run_error"
	TypePing           = "ping"
)

type Event struct {
	Type    string          `json:"type"`
	Version int             `json:"v"`
	At      time.Time       `json:"at"`
	RunID   string          `json:"run_id,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func MakeEvent(runID, typ string, v int, data any) string {
	var raw json.RawMessage
	if data != nil {
		b, _ := json.Marshal(data)
		raw = b
	}
	e := Event{
		Type:    typ,
		Version: v,
		At:      time.Now().UTC(),
		RunID:   runID,
		Data:    raw,
	}
	b, _ := json.Marshal(e)
	return string(b)
}
