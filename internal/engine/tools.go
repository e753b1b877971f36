package engine

// ToolStatus is the canonical lifecycle of a tool invocation.
type ToolStatus string

const (
	ToolInputStreaming    ToolStatus = "input-streaming"
	ToolInputAvailable    ToolStatus = "input-available"
	ToolApprovalRequested ToolStatus = "approval-requested"
	ToolApprovalResponded ToolStatus = "approval-responded"
	ToolOutputAvailable   ToolStatus = "output-available"
	ToolOutputError       ToolStatus = "output-error"
	ToolOutputDenied      ToolStatus = "output-denied"
)

var canonicalToolStatus = map[string]ToolStatus{
	string(ToolInputStreaming):    ToolInputStreaming,
	string(ToolInputAvailable):    ToolInputAvailable,
	string(ToolApprovalRequested): ToolApprovalRequested,
	string(ToolApprovalResponded): ToolApprovalResponded,
	string(ToolOutputAvailable):   ToolOutputAvailable,
	string(ToolOutputError):       ToolOutputError,
	string(ToolOutputDenied):      ToolOutputDenied,
}

// ResolveToolStatus maps a snapshot's raw state onto the canonical
// lifecycle. Servers that never report a canonical status still resolve
// sensibly from the fields that did arrive.
func ResolveToolStatus(p *PartSnapshot) ToolStatus {
	if st, ok := canonicalToolStatus[p.ToolState]; ok {
		return st
	}
	if p.ErrorText != "" {
		return ToolOutputError
	}
	if p.Output != "" {
		return ToolOutputAvailable
	}
	// Only the provider's "streaming" default promotes on input; any other
	// unrecognized status stays at input-streaming until real signals arrive.
	if p.ToolState == "streaming" && p.Input != nil {
		return ToolInputAvailable
	}
	return ToolInputStreaming
}

// Active reports whether a resolved status still needs attention: the tool
// is streaming input, runnable, or in the approval handshake.
func (s ToolStatus) Active() bool {
	switch s {
	case ToolInputStreaming, ToolInputAvailable, ToolApprovalRequested, ToolApprovalResponded:
		return true
	}
	return false
}

// ToolActivity is one currently-active tool operation.
type ToolActivity struct {
	PartID    string
	MessageID string
	Name      string
	Status    ToolStatus
	Title     string
}

// activeTools scans every tracked message for tool parts in an active state.
// O(total parts), which is fine at flush cadence.
func activeTools(store *partStore) []ToolActivity {
	var out []ToolActivity
	for _, parts := range store.byMessage {
		for _, p := range parts {
			if p.Kind != PartTool || p.Ignored {
				continue
			}
			status := ResolveToolStatus(p)
			if !status.Active() {
				continue
			}
			out = append(out, ToolActivity{
				PartID:    p.PartID,
				MessageID: p.MessageID,
				Name:      p.Tool,
				Status:    status,
				Title:     p.Title,
			})
		}
	}
	// Stable order for presentation and tests.
	sortToolActivities(out, store)
	return out
}

func sortToolActivities(tools []ToolActivity, store *partStore) {
	seq := func(t ToolActivity) int {
		if parts := store.byMessage[t.MessageID]; parts != nil {
			if p := parts[t.PartID]; p != nil {
				return p.Seq
			}
		}
		return 0
	}
	for i := 1; i < len(tools); i++ {
		for j := i; j > 0 && seq(tools[j]) < seq(tools[j-1]); j-- {
			tools[j], tools[j-1] = tools[j-1], tools[j]
		}
	}
}
