package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// collect returns a batcher whose flushes append into the returned slice
// pointer. Tests drive flushes by hand via flushTimer or close.
func collect(window time.Duration) (*batcher, *[][]*Event) {
	var batches [][]*Event
	b := newBatcher(window, func(batch []*Event) {
		cp := make([]*Event, len(batch))
		copy(cp, batch)
		batches = append(batches, cp)
	})
	return b, &batches
}

func statusEvent(session string, kind StatusKind) *Event {
	return &Event{Kind: EventSessionStatus, SessionID: session, Status: &SessionStatus{Kind: kind}}
}

func partEvent(msg, part string, u PartUpdate) *Event {
	u.MessageID = msg
	u.PartID = part
	return &Event{Kind: EventPartUpdated, Part: &u}
}

func TestBatcherCoalescesStatusPerSession(t *testing.T) {
	b, batches := collect(time.Hour)

	b.enqueue(statusEvent("ses_1", StatusBusy))
	b.enqueue(statusEvent("ses_2", StatusBusy))
	b.enqueue(statusEvent("ses_1", StatusRetry))
	b.enqueue(statusEvent("ses_1", StatusIdle))
	b.close()

	require.Len(t, *batches, 1)
	batch := (*batches)[0]
	require.Len(t, batch, 2, "intermediate statuses for ses_1 collapse")
	assert.Equal(t, "ses_1", batch[0].SessionID)
	assert.Equal(t, StatusIdle, batch[0].Status.Kind, "latest payload wins")
	assert.Equal(t, "ses_2", batch[1].SessionID)
}

func TestBatcherKeepsFirstOccurrencePosition(t *testing.T) {
	b, batches := collect(time.Hour)

	b.enqueue(statusEvent("ses_1", StatusBusy))
	b.enqueue(&Event{Kind: EventSessionIdle, SessionID: "ses_1"})
	b.enqueue(statusEvent("ses_1", StatusRetry))
	b.close()

	batch := (*batches)[0]
	require.Len(t, batch, 2)
	// The status slot stays where the first status arrived, before the idle.
	assert.Equal(t, EventSessionStatus, batch[0].Kind)
	assert.Equal(t, StatusRetry, batch[0].Status.Kind)
	assert.Equal(t, EventSessionIdle, batch[1].Kind)
}

func TestBatcherMergesPartDeltas(t *testing.T) {
	b, batches := collect(time.Hour)

	b.enqueue(partEvent("msg_1", "prt_1", PartUpdate{Kind: PartText, Delta: "Hel"}))
	b.enqueue(partEvent("msg_1", "prt_1", PartUpdate{Delta: "lo"}))
	b.enqueue(partEvent("msg_1", "prt_2", PartUpdate{Kind: PartText, Delta: "other"}))
	b.enqueue(partEvent("msg_1", "prt_1", PartUpdate{Delta: " world"}))
	b.close()

	batch := (*batches)[0]
	require.Len(t, batch, 2, "same part coalesces, distinct parts do not")
	assert.Equal(t, "Hello world", batch[0].Part.Delta, "deltas concatenate across the window")
	assert.Equal(t, PartText, batch[0].Part.Kind, "fields absent in later events survive from earlier ones")
	assert.Equal(t, "other", batch[1].Part.Delta)
}

func TestBatcherFullTextThenDelta(t *testing.T) {
	b, batches := collect(time.Hour)

	b.enqueue(partEvent("msg_1", "prt_1", PartUpdate{Kind: PartText, Text: strp("Hello")}))
	b.enqueue(partEvent("msg_1", "prt_1", PartUpdate{Delta: " world"}))
	b.close()

	batch := (*batches)[0]
	require.Len(t, batch, 1)
	require.NotNil(t, batch[0].Part.Text)
	assert.Equal(t, "Hello world", *batch[0].Part.Text, "a delta after a full text folds into the slot")

	s := newPartStore()
	assert.Equal(t, "Hello world", s.apply(batch[0].Part).Text)
}

func TestBatcherStaleResendAppendsDelta(t *testing.T) {
	b, batches := collect(time.Hour)

	// Providers that resend the accumulated string alongside each delta:
	// an unchanged full text is stale and the delta appends, even when
	// both events land in the same window.
	b.enqueue(partEvent("msg_1", "prt_1", PartUpdate{Kind: PartText, Text: strp("Hel"), Delta: "Hel"}))
	b.enqueue(partEvent("msg_1", "prt_1", PartUpdate{Text: strp("Hel"), Delta: "lo"}))
	b.close()

	batch := (*batches)[0]
	require.Len(t, batch, 1)

	s := newPartStore()
	assert.Equal(t, "Hello", s.apply(batch[0].Part).Text)
}

func TestBatcherMergeNewerFieldsWin(t *testing.T) {
	b, batches := collect(time.Hour)

	early := "partial"
	late := "final output"
	b.enqueue(partEvent("msg_1", "prt_1", PartUpdate{Kind: PartTool, Tool: "bash", ToolStatus: "input-available", Output: &early}))
	b.enqueue(partEvent("msg_1", "prt_1", PartUpdate{ToolStatus: "output-available", Output: &late}))
	b.close()

	batch := (*batches)[0]
	require.Len(t, batch, 1)
	p := batch[0].Part
	assert.Equal(t, "output-available", p.ToolStatus)
	assert.Equal(t, "final output", *p.Output)
	assert.Equal(t, "bash", p.Tool)
}

func TestBatcherFlushesOnWindow(t *testing.T) {
	done := make(chan []*Event, 1)
	b := newBatcher(5*time.Millisecond, func(batch []*Event) {
		done <- batch
	})
	defer b.close()

	b.enqueue(statusEvent("ses_1", StatusBusy))

	select {
	case batch := <-done:
		require.Len(t, batch, 1)
	case <-time.After(time.Second):
		t.Fatal("flush timer never fired")
	}
}

func TestBatcherCloseFlushesSynchronously(t *testing.T) {
	b, batches := collect(time.Hour)

	b.enqueue(statusEvent("ses_1", StatusBusy))
	b.close()

	require.Len(t, *batches, 1, "close must not drop buffered events")

	// After close, enqueue is a no-op.
	b.enqueue(statusEvent("ses_1", StatusIdle))
	b.close()
	assert.Len(t, *batches, 1)
}

func TestBatcherEmptyFlushSkipsApply(t *testing.T) {
	b, batches := collect(time.Hour)
	b.flushTimer()
	b.close()
	assert.Empty(t, *batches)
}
