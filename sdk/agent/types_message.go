package agent

// MessageTime represents timestamps for a message.
type MessageTime struct {
	Created   float64  `json:"created"`
	Completed *float64 `json:"completed,omitempty"`
}

// ModelInfo identifies a model and provider.
type ModelInfo struct {
	ProviderID string `json:"providerID"`
	ModelID    string `json:"modelID"`
}

// Message represents either a user or assistant message.
// Use the Role field to determine the type.
type Message struct {
	ID        string      `json:"id"`
	SessionID string      `json:"sessionID"`
	Role      string      `json:"role"` // "user" or "assistant"
	Time      MessageTime `json:"time"`

	// Assistant message fields
	ModelID    string  `json:"modelID,omitempty"`
	ProviderID string  `json:"providerID,omitempty"`
	Finish     *string `json:"finish,omitempty"`
}

// IsUser returns true if this is a user message.
func (m *Message) IsUser() bool {
	return m.Role == "user"
}

// IsAssistant returns true if this is an assistant message.
func (m *Message) IsAssistant() bool {
	return m.Role == "assistant"
}

// MessageWithParts combines a message with its parts.
type MessageWithParts struct {
	Info  Message `json:"info"`
	Parts []Part  `json:"parts"`
}
