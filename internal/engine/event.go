// Package engine reconciles the server's partially-ordered event stream into
// a single chronological transcript plus derived activity state. It owns no
// transport: raw envelopes come in through Reconciler.HandleEnvelope, and
// presentation layers read immutable Snapshots back out.
package engine

import "time"

// EventKind discriminates decoded events.
type EventKind string

const (
	EventConnected      EventKind = "connected"
	EventSessionStatus  EventKind = "session-status"
	EventSessionIdle    EventKind = "session-idle"
	EventSessionError   EventKind = "session-error"
	EventPartUpdated    EventKind = "part-updated"
	EventMessageUpdated EventKind = "message-updated"
	EventMessageRemoved EventKind = "message-removed"
	EventPartRemoved    EventKind = "part-removed"
)

// StatusKind is a session's run state.
type StatusKind string

const (
	StatusIdle  StatusKind = "idle"
	StatusBusy  StatusKind = "busy"
	StatusRetry StatusKind = "retry"
)

// SessionStatus is replaced wholesale on each session-status event.
type SessionStatus struct {
	Kind          StatusKind
	Attempt       int
	Message       string
	NextAttemptAt time.Time
}

// PartKind is the kind of a message part.
type PartKind string

const (
	PartText      PartKind = "text"
	PartReasoning PartKind = "reasoning"
	PartTool      PartKind = "tool"
	PartSubtask   PartKind = "subtask"
)

// PartUpdate carries the fields of one part-updated event. Pointer fields
// distinguish "absent" from "present but zero": only present fields
// participate in the snapshot merge.
type PartUpdate struct {
	SessionID string
	MessageID string
	PartID    string

	Kind       PartKind // "" when the event did not carry a type
	Text       *string
	Delta      string
	Tool       string
	ToolStatus string // projected from a nested state object when needed
	Input      map[string]interface{}
	Output     *string
	ErrorText  *string
	Title      *string
	RoleHint   string
	TimeStart  *float64
	TimeEnd    *float64
	Synthetic  *bool
	Ignored    *bool
}

// MessageUpdate carries the fields of one message-updated event.
type MessageUpdate struct {
	SessionID   string
	MessageID   string
	Role        string // "" when not revealed
	CreatedAt   *float64
	CompletedAt *float64
}

// Event is the decoded form of a server envelope. Kind selects which of the
// optional payloads is set.
type Event struct {
	Kind      EventKind
	SessionID string

	Status    *SessionStatus // session-status
	ErrorText string         // session-error
	Part      *PartUpdate    // part-updated
	Message   *MessageUpdate // message-updated

	// Removal targets
	MessageID string
	PartID    string
}
