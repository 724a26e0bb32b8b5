package websocket

import "github.com/goodlyheritage/entrance-portal/internal/exam"

// ─── Events (Server → Client) ───────────────────────────────────────

// TickResponse streams the authoritative countdown to the exam UI.
type TickResponse struct {
	Event            exam.EventType `json:"event"`
	RemainingSeconds int            `json:"remaining_seconds"`
}

// StateResponse announces a lifecycle transition (time-up, submitted,
// cancelled).
type StateResponse struct {
	Event exam.EventType `json:"event"`
	State exam.State     `json:"state"`
}

// ErrorResponse carries a stream-level error before closing.
type ErrorResponse struct {
	Event string `json:"event"`
	Error string `json:"error"`
}
