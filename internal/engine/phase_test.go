package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// connected returns the baseline signals of a healthy, quiet session.
func connected() Signals {
	return Signals{HasActiveSession: true, Connection: ConnConnected, Status: StatusIdle}
}

func TestDerivePhasePriority(t *testing.T) {
	cases := []struct {
		name string
		s    Signals
		want Phase
	}{
		{"creating beats everything", Signals{CreatingSession: true, LoadingSession: true}, PhaseCreatingSession},
		{"loading", Signals{LoadingSession: true, HasActiveSession: true}, PhaseLoadingSession},
		{"no session", Signals{Connection: ConnConnected}, PhaseIdle},
		{"disconnected", func() Signals { s := connected(); s.Connection = ConnError; s.Streaming = true; return s }(), PhaseDisconnected},
		{"connecting", func() Signals { s := connected(); s.Connection = ConnConnecting; return s }(), PhaseConnecting},
		{"approval beats running tools", func() Signals {
			s := connected()
			s.AwaitingApproval = true
			s.ActiveToolCount = 3
			return s
		}(), PhaseAwaitingApproval},
		{"running tools beats streaming", func() Signals {
			s := connected()
			s.ActiveToolCount = 1
			s.Streaming = true
			return s
		}(), PhaseRunningTools},
		{"retry beats streaming", func() Signals {
			s := connected()
			s.Status = StatusRetry
			s.Streaming = true
			return s
		}(), PhaseRetrying},
		{"streaming beats busy", func() Signals {
			s := connected()
			s.Streaming = true
			s.Status = StatusBusy
			return s
		}(), PhaseStreaming},
		{"busy without output", func() Signals { s := connected(); s.Status = StatusBusy; return s }(), PhaseProcessing},
		{"queued on pending send", func() Signals { s := connected(); s.PendingUserMessage = true; return s }(), PhaseQueued},
		{"queued awaiting response", func() Signals { s := connected(); s.AwaitingResponse = true; return s }(), PhaseQueued},
		{"complete after a turn", func() Signals { s := connected(); s.LastCompletedAt = time.Now(); return s }(), PhaseComplete},
		{"ready", connected(), PhaseReady},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := DerivePhase(tc.s)
			assert.Equal(t, tc.want, got.Phase)
			assert.NotEmpty(t, got.Label)
			assert.NotEmpty(t, got.Description)
		})
	}
}

func TestDerivePhaseWorkingFlag(t *testing.T) {
	working := map[Phase]bool{
		PhaseCreatingSession:  true,
		PhaseLoadingSession:   true,
		PhaseIdle:             false,
		PhaseDisconnected:     false,
		PhaseConnecting:       true,
		PhaseAwaitingApproval: false,
		PhaseRunningTools:     true,
		PhaseRetrying:         true,
		PhaseStreaming:        true,
		PhaseProcessing:       true,
		PhaseQueued:           true,
		PhaseComplete:         false,
		PhaseReady:            false,
	}

	// Every phase is reachable and carries the expected busy flag.
	probes := []Signals{
		{CreatingSession: true},
		{LoadingSession: true},
		{Connection: ConnConnected},
		func() Signals { s := connected(); s.Connection = ConnError; return s }(),
		func() Signals { s := connected(); s.Connection = ConnConnecting; return s }(),
		func() Signals { s := connected(); s.AwaitingApproval = true; return s }(),
		func() Signals { s := connected(); s.ActiveToolCount = 1; return s }(),
		func() Signals { s := connected(); s.Status = StatusRetry; return s }(),
		func() Signals { s := connected(); s.Streaming = true; return s }(),
		func() Signals { s := connected(); s.Status = StatusBusy; return s }(),
		func() Signals { s := connected(); s.PendingUserMessage = true; return s }(),
		func() Signals { s := connected(); s.LastCompletedAt = time.Now(); return s }(),
		connected(),
	}

	seen := map[Phase]bool{}
	for _, s := range probes {
		info := DerivePhase(s)
		seen[info.Phase] = true
		assert.Equal(t, working[info.Phase], info.Working, string(info.Phase))
	}
	assert.Len(t, seen, len(working), "every phase must be reachable")
}
