package engine

import "time"

// ConnState is the transport connection state as reported by the host.
type ConnState string

const (
	ConnConnecting ConnState = "connecting"
	ConnConnected  ConnState = "connected"
	ConnError      ConnState = "error"
)

// Phase is the single discrete "what is happening right now" value derived
// from all current signals.
type Phase string

const (
	PhaseCreatingSession  Phase = "creating-session"
	PhaseLoadingSession   Phase = "loading-session"
	PhaseIdle             Phase = "idle"
	PhaseDisconnected     Phase = "disconnected"
	PhaseConnecting       Phase = "connecting"
	PhaseAwaitingApproval Phase = "awaiting-approval"
	PhaseRunningTools     Phase = "running-tools"
	PhaseRetrying         Phase = "retrying"
	PhaseStreaming        Phase = "streaming"
	PhaseProcessing       Phase = "processing"
	PhaseQueued           Phase = "queued"
	PhaseComplete         Phase = "complete"
	PhaseReady            Phase = "ready"
)

// PhaseInfo is a phase plus its human-facing labels and a busy flag for
// presentation.
type PhaseInfo struct {
	Phase       Phase
	Label       string
	Description string
	Working     bool
}

// Signals is the input tuple for phase derivation.
type Signals struct {
	CreatingSession    bool
	LoadingSession     bool
	HasActiveSession   bool
	Connection         ConnState
	AwaitingApproval   bool
	ActiveToolCount    int
	Status             StatusKind
	Streaming          bool
	PendingUserMessage bool
	AwaitingResponse   bool
	LastCompletedAt    time.Time
}

// DerivePhase maps a signal tuple to exactly one phase. Rules are evaluated
// in priority order and the first match wins; reordering them changes
// observable behavior, so don't.
func DerivePhase(s Signals) PhaseInfo {
	switch {
	case s.CreatingSession:
		return phase(PhaseCreatingSession, "Creating session", "Setting up a new conversation", true)
	case s.LoadingSession:
		return phase(PhaseLoadingSession, "Loading", "Fetching conversation history", true)
	case !s.HasActiveSession:
		return phase(PhaseIdle, "No session", "Create or select a session to begin", false)
	case s.Connection == ConnError:
		return phase(PhaseDisconnected, "Disconnected", "Lost connection to the agent server", false)
	case s.Connection == ConnConnecting:
		return phase(PhaseConnecting, "Connecting", "Establishing the event stream", true)
	case s.AwaitingApproval:
		return phase(PhaseAwaitingApproval, "Awaiting approval", "A tool call needs your approval", false)
	case s.ActiveToolCount > 0:
		return phase(PhaseRunningTools, "Running tools", "Executing tool calls", true)
	case s.Status == StatusRetry:
		return phase(PhaseRetrying, "Retrying", "The provider hit a transient error; retrying", true)
	case s.Streaming:
		return phase(PhaseStreaming, "Streaming", "The assistant is responding", true)
	case s.Status == StatusBusy:
		return phase(PhaseProcessing, "Processing", "The assistant is working, no output yet", true)
	case s.AwaitingResponse || s.PendingUserMessage:
		return phase(PhaseQueued, "Queued", "Your message is on its way", true)
	case !s.LastCompletedAt.IsZero():
		return phase(PhaseComplete, "Done", "The last turn finished", false)
	default:
		return phase(PhaseReady, "Ready", "Waiting for your input", false)
	}
}

func phase(p Phase, label, desc string, working bool) PhaseInfo {
	return PhaseInfo{Phase: p, Label: label, Description: desc, Working: working}
}
