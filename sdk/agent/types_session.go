package agent

// SessionTime represents timestamps for a session.
type SessionTime struct {
	Created  float64  `json:"created"`
	Updated  float64  `json:"updated"`
	Archived *float64 `json:"archived,omitempty"`
}

// Session represents a chat session.
type Session struct {
	ID        string      `json:"id"`
	ProjectID string      `json:"projectID"`
	Directory string      `json:"directory"`
	Title     string      `json:"title"`
	Version   string      `json:"version"`
	Time      SessionTime `json:"time"`
	ParentID  *string     `json:"parentID,omitempty"`
}

// SessionStatus is the wire form of a session's run state.
// Type is one of "idle", "busy" or "retry".
type SessionStatus struct {
	Type    string  `json:"type"`
	Attempt int     `json:"attempt,omitempty"`
	Message string  `json:"message,omitempty"`
	Next    float64 `json:"next,omitempty"`
}
