package engine

// PartSnapshot is the merged state of one part, identified by
// (messageID, partID). Snapshots only ever move forward: incoming fields
// overwrite existing ones when present, absent fields fall through.
type PartSnapshot struct {
	MessageID string
	PartID    string

	Kind      PartKind
	Text      string
	Tool      string
	ToolState string // raw status string as last reported; see ResolveToolStatus
	Input     map[string]interface{}
	Output    string
	ErrorText string
	Title     string
	RoleHint  string
	TimeStart float64
	TimeEnd   float64
	Synthetic bool
	Ignored   bool

	// Seq is the store-wide insertion order, used to order parts within a
	// message and to pick the most recent text part.
	Seq int
}

// partStore holds every message's parts for the active session.
type partStore struct {
	byMessage map[string]map[string]*PartSnapshot
	nextSeq   int
}

func newPartStore() *partStore {
	return &partStore{byMessage: make(map[string]map[string]*PartSnapshot)}
}

// apply merges a part-updated event into the store and returns the snapshot.
func (s *partStore) apply(u *PartUpdate) *PartSnapshot {
	parts := s.byMessage[u.MessageID]
	if parts == nil {
		parts = make(map[string]*PartSnapshot)
		s.byMessage[u.MessageID] = parts
	}

	snap := parts[u.PartID]
	if snap == nil {
		snap = &PartSnapshot{MessageID: u.MessageID, PartID: u.PartID, Seq: s.nextSeq}
		s.nextSeq++
		parts[u.PartID] = snap
	}

	if u.Kind != "" {
		snap.Kind = u.Kind
	}
	if u.Tool != "" {
		snap.Tool = u.Tool
	}
	if u.ToolStatus != "" {
		snap.ToolState = u.ToolStatus
	}
	if u.Input != nil {
		snap.Input = u.Input
	}
	if u.Output != nil {
		snap.Output = *u.Output
	}
	if u.ErrorText != nil {
		snap.ErrorText = *u.ErrorText
	}
	if u.Title != nil {
		snap.Title = *u.Title
	}
	if u.RoleHint != "" {
		snap.RoleHint = u.RoleHint
	}
	if u.TimeStart != nil {
		snap.TimeStart = *u.TimeStart
	}
	if u.TimeEnd != nil {
		snap.TimeEnd = *u.TimeEnd
	}
	if u.Synthetic != nil {
		snap.Synthetic = *u.Synthetic
	}
	if u.Ignored != nil {
		snap.Ignored = *u.Ignored
	}

	snap.Text = mergeText(snap.Text, u)
	return snap
}

// mergeText reconciles a full text field with an incremental delta. Some
// providers stream only deltas, others resend the whole accumulated string
// on every event; a full text that is absent, unchanged, or shorter than
// what we already accumulated is treated as stale and the delta appended
// instead.
func mergeText(prev string, u *PartUpdate) string {
	if u.Delta != "" {
		if u.Text == nil || *u.Text == prev || len(*u.Text) < len(prev) {
			return prev + u.Delta
		}
		return *u.Text
	}
	if u.Text != nil {
		return *u.Text
	}
	return prev
}

// message returns the parts of one message, or nil.
func (s *partStore) message(messageID string) map[string]*PartSnapshot {
	return s.byMessage[messageID]
}

// removePart deletes one part and reports whether the message still has any.
func (s *partStore) removePart(messageID, partID string) bool {
	parts := s.byMessage[messageID]
	if parts == nil {
		return false
	}
	delete(parts, partID)
	if len(parts) == 0 {
		delete(s.byMessage, messageID)
		return false
	}
	return true
}

// removeMessage deletes a message and all its parts.
func (s *partStore) removeMessage(messageID string) {
	delete(s.byMessage, messageID)
}

// clear drops everything.
func (s *partStore) clear() {
	s.byMessage = make(map[string]map[string]*PartSnapshot)
}
