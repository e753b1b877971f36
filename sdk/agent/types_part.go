package agent

// PartTime represents timestamps for a part.
type PartTime struct {
	Start float64  `json:"start"`
	End   *float64 `json:"end,omitempty"`
}

// ToolState represents the state of a tool execution. Status carries one of
// the server's tool lifecycle states ("input-streaming", "input-available",
// "approval-requested", "approval-responded", "output-available",
// "output-error", "output-denied").
type ToolState struct {
	Status string                 `json:"status"`
	Input  map[string]interface{} `json:"input,omitempty"`
	Output string                 `json:"output,omitempty"`
	Error  string                 `json:"error,omitempty"`
	Title  *string                `json:"title,omitempty"`
	Time   *PartTime              `json:"time,omitempty"`
}

// Part represents any message part. Use the Type field to determine the
// specific kind ("text", "reasoning", "tool", "subtask", "file").
type Part struct {
	ID        string `json:"id"`
	SessionID string `json:"sessionID"`
	MessageID string `json:"messageID"`
	Type      string `json:"type"`

	// Text / reasoning fields
	Text string    `json:"text,omitempty"`
	Time *PartTime `json:"time,omitempty"`

	// Tool fields
	Tool  string     `json:"tool,omitempty"`
	State *ToolState `json:"state,omitempty"`

	// File fields
	Mime     string  `json:"mime,omitempty"`
	URL      string  `json:"url,omitempty"`
	Filename *string `json:"filename,omitempty"`

	// Presentation hints
	Role      string `json:"role,omitempty"`
	Synthetic bool   `json:"synthetic,omitempty"`
	Ignored   bool   `json:"ignored,omitempty"`
}

// IsText returns true if this is a text part.
func (p *Part) IsText() bool {
	return p.Type == "text"
}

// IsReasoning returns true if this is a reasoning part.
func (p *Part) IsReasoning() bool {
	return p.Type == "reasoning"
}

// IsTool returns true if this is a tool part.
func (p *Part) IsTool() bool {
	return p.Type == "tool"
}

// IsFile returns true if this is a file part.
func (p *Part) IsFile() bool {
	return p.Type == "file"
}
