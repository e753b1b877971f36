package messages

import (
	"weft/internal/engine"
	"weft/sdk/agent"
)

// Bubbletea message types shared between the app and its commands.

// SnapshotMsg carries one reconciled engine snapshot. At most one arrives
// per flush window.
type SnapshotMsg struct {
	Snapshot engine.Snapshot
}

// SessionsLoadedMsg is sent when the session list is loaded
type SessionsLoadedMsg struct {
	Sessions []agent.Session
}

// SessionCreatedMsg is sent when a new session is created
type SessionCreatedMsg struct {
	Session *agent.Session
}

// SessionRenamedMsg is sent after a session title change
type SessionRenamedMsg struct {
	Session *agent.Session
}

// HistoryLoadedMsg is sent when a session's messages are fetched
type HistoryLoadedMsg struct {
	SessionID string
	Messages  []agent.MessageWithParts
}

// StreamClosedMsg is sent when the event stream ends
type StreamClosedMsg struct {
	Err error
}

// SendDoneMsg reports the outcome of a prompt send
type SendDoneMsg struct {
	MessageID string
	Err       error
}

// HealthCheckMsg is sent after the startup health check
type HealthCheckMsg struct {
	Healthy bool
	Err     error
}

// ErrorMsg represents a surfaced error
type ErrorMsg struct {
	Message string
}
