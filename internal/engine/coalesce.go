package engine

import (
	"sync"
	"time"
)

// DefaultFlushWindow is one frame's worth of batching. Downstream consumers
// observe at most one state transition per window.
const DefaultFlushWindow = 16 * time.Millisecond

// batcher buffers decoded events, collapses redundant ones ("latest wins"
// per dedup key, at the position of the first occurrence), and flushes the
// batch at a bounded cadence.
//
// Independent events keep their arrival order; only same-key events
// coalesce. Part updates merge their deltas as each event arrives, so the
// surviving slot already carries the accumulated text.
type batcher struct {
	mu        sync.Mutex
	window    time.Duration
	queue     []*Event
	spare     []*Event // swap buffer, reused between flushes
	index     map[string]int
	timer     *time.Timer
	lastFlush time.Time
	closed    bool

	// apply receives each non-empty batch exactly once, outside the
	// batcher's lock and never concurrently with itself.
	apply func([]*Event)
}

func newBatcher(window time.Duration, apply func([]*Event)) *batcher {
	if window <= 0 {
		window = DefaultFlushWindow
	}
	return &batcher{
		window:    window,
		index:     make(map[string]int),
		apply:     apply,
		lastFlush: time.Now(),
	}
}

// dedupKey returns the coalescing key for an event, or false when the event
// kind is never deduplicated.
func dedupKey(e *Event) (string, bool) {
	switch e.Kind {
	case EventSessionStatus:
		return "status|" + e.SessionID, true
	case EventPartUpdated:
		return "part|" + e.Part.MessageID + "|" + e.Part.PartID, true
	}
	return "", false
}

// enqueue adds an event to the pending batch and arms the flush timer.
func (b *batcher) enqueue(e *Event) {
	b.mu.Lock()

	if b.closed {
		b.mu.Unlock()
		return
	}

	if key, ok := dedupKey(e); ok {
		if i, pending := b.index[key]; pending {
			// Overwrite the slot in place: the first occurrence keeps its
			// position for ordering, the payload always reflects the latest
			// data.
			if e.Kind == EventPartUpdated {
				e.Part = mergePartUpdate(b.queue[i].Part, e.Part)
			}
			b.queue[i] = e
			b.mu.Unlock()
			return
		}
		b.index[key] = len(b.queue)
	}
	b.queue = append(b.queue, e)

	if b.timer == nil {
		delay := b.window - time.Since(b.lastFlush)
		if delay < 0 {
			delay = 0
		}
		b.timer = time.AfterFunc(delay, b.flushTimer)
	}
	b.mu.Unlock()
}

func (b *batcher) flushTimer() {
	b.mu.Lock()
	b.timer = nil
	batch := b.swapLocked()
	b.mu.Unlock()

	if len(batch) > 0 {
		b.apply(batch)
	}
}

// swapLocked exchanges the live queue for the spare buffer and clears the
// dedup index. Caller holds b.mu.
func (b *batcher) swapLocked() []*Event {
	batch := b.queue
	b.queue = b.spare[:0]
	b.spare = batch
	for k := range b.index {
		delete(b.index, k)
	}
	b.lastFlush = time.Now()
	return batch
}

// close cancels any pending timer and performs one final synchronous flush
// so nothing buffered is lost on teardown.
func (b *batcher) close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	batch := b.swapLocked()
	b.mu.Unlock()

	if len(batch) > 0 {
		b.apply(batch)
	}
}

// mergePartUpdate folds a newer update over a still-pending one. Fields
// present in the newer update win. The text merge rule runs here, as each
// event arrives, against the slot's accumulated string, so a full text
// followed by deltas in the same window survives intact. A slot that has
// only ever seen deltas keeps them concatenated; its base text lives in
// the part store and the store-side merge appends them there.
func mergePartUpdate(old, next *PartUpdate) *PartUpdate {
	merged := *next

	if merged.Kind == "" {
		merged.Kind = old.Kind
	}
	if old.Text != nil {
		resolved := mergeText(*old.Text, next)
		merged.Text = &resolved
		if old.Delta == "" {
			// The window's base text is known, so the resolved string is
			// complete on its own.
			merged.Delta = ""
		} else {
			merged.Delta = old.Delta + next.Delta
		}
	} else {
		merged.Delta = old.Delta + next.Delta
	}
	if merged.Tool == "" {
		merged.Tool = old.Tool
	}
	if merged.ToolStatus == "" {
		merged.ToolStatus = old.ToolStatus
	}
	if merged.Input == nil {
		merged.Input = old.Input
	}
	if merged.Output == nil {
		merged.Output = old.Output
	}
	if merged.ErrorText == nil {
		merged.ErrorText = old.ErrorText
	}
	if merged.Title == nil {
		merged.Title = old.Title
	}
	if merged.RoleHint == "" {
		merged.RoleHint = old.RoleHint
	}
	if merged.TimeStart == nil {
		merged.TimeStart = old.TimeStart
	}
	if merged.TimeEnd == nil {
		merged.TimeEnd = old.TimeEnd
	}
	if merged.Synthetic == nil {
		merged.Synthetic = old.Synthetic
	}
	if merged.Ignored == nil {
		merged.Ignored = old.Ignored
	}
	return &merged
}
