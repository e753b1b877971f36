package agent

import "encoding/json"

// Envelope is a raw SSE event from the server. Properties stays undecoded;
// the reconciliation engine owns interpretation.
type Envelope struct {
	Type       string          `json:"type"`
	Properties json.RawMessage `json:"properties"`

	// Raw is the undecoded event data exactly as it came off the wire,
	// including any {directory, payload} wrapper. Consumers that do their
	// own decoding should prefer it over re-marshaling.
	Raw []byte `json:"-"`
}

// Event type values the server is known to emit. The engine tolerates
// unknown types by dropping them.
const (
	EventServerConnected = "server.connected"
	EventSessionStatus   = "session.status"
	EventSessionIdle     = "session.idle"
	EventSessionError    = "session.error"
	EventMessageUpdated  = "message.updated"
	EventMessageRemoved  = "message.removed"
	EventPartUpdated     = "message.part.updated"
	EventPartRemoved     = "message.part.removed"
)
