package agent

// CreateSessionRequest is the request body for creating a session.
type CreateSessionRequest struct {
	ParentID *string `json:"parentID,omitempty"`
	Title    *string `json:"title,omitempty"`
}

// UpdateSessionRequest is the request body for updating a session.
type UpdateSessionRequest struct {
	Title *string `json:"title,omitempty"`
}

// TextPartInput represents text input for a message.
type TextPartInput struct {
	Type string `json:"type"` // "text"
	Text string `json:"text"`
}

// FilePartInput represents a file reference attached to a message.
type FilePartInput struct {
	Type     string  `json:"type"` // "file"
	Mime     string  `json:"mime"`
	URL      string  `json:"url"`
	Filename *string `json:"filename,omitempty"`
}

// PromptRequest is the request body for sending a message. MessageID lets the
// caller pre-assign the user message's id so the optimistic local entry and
// the server's confirmation refer to the same turn.
type PromptRequest struct {
	Parts     []interface{} `json:"parts"` // TextPartInput or FilePartInput
	MessageID *string       `json:"messageID,omitempty"`
	Model     *ModelInfo    `json:"model,omitempty"`
	Agent     *string       `json:"agent,omitempty"`
}
