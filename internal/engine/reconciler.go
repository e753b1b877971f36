package engine

import (
	"sync"
	"time"

	"weft/internal/ident"
)

// Message is the presentation-facing copy of a timeline entry.
type Message struct {
	ID        string
	Role      Role
	Text      string
	Timestamp time.Time
	Pending   bool
	Parts     []PartSnapshot
}

// Snapshot is one immutable view of the reconciled conversation. Presentation
// layers receive exactly one Snapshot per flush window.
type Snapshot struct {
	SessionID  string
	Messages   []Message
	Tools      []ToolActivity
	Phase      PhaseInfo
	Status     SessionStatus
	Connection ConnState
	Err        string
}

// Config configures a Reconciler.
type Config struct {
	// Directory filters wrapped envelopes; empty accepts everything.
	Directory string

	// FlushWindow bounds how often downstream state mutates. Zero means
	// DefaultFlushWindow.
	FlushWindow time.Duration

	// OnChange receives a snapshot after every applied batch. Called from
	// internal goroutines; must not call back into the Reconciler.
	OnChange func(Snapshot)

	// IDs generates local message ids. Nil means a fresh generator.
	IDs *ident.Generator
}

// messageMeta is what message-updated events told us about a message that
// may not have surfaced yet.
type messageMeta struct {
	createdAt   time.Time
	completedAt time.Time
}

// Reconciler owns all conversation state for one active session: the part
// store, the timeline, the role cache and the pending-send bookkeeping. All
// mutation goes through one mutex, so the buffer/swap/apply sequence of the
// batcher is a single critical section.
type Reconciler struct {
	mu  sync.Mutex
	cfg Config
	gen *ident.Generator

	batch *batcher

	sessionID string
	parts     *partStore
	timeline  timeline
	roles     map[string]Role
	metas     map[string]*messageMeta

	pendingID string // local id of the optimistic user message, "" when none

	status           SessionStatus
	conn             ConnState
	creating         bool
	loading          bool
	streaming        bool
	awaitingResponse bool
	turnActive       bool
	lastCompleted    time.Time
	errText          string
}

// New creates a Reconciler. Close it when the view goes away.
func New(cfg Config) *Reconciler {
	gen := cfg.IDs
	if gen == nil {
		gen = ident.New()
	}
	r := &Reconciler{
		cfg:    cfg,
		gen:    gen,
		parts:  newPartStore(),
		roles:  make(map[string]Role),
		metas:  make(map[string]*messageMeta),
		status: SessionStatus{Kind: StatusIdle},
		conn:   ConnConnecting,
	}
	r.batch = newBatcher(cfg.FlushWindow, r.applyBatch)
	return r
}

// HandleEnvelope decodes one raw envelope and enqueues the result. Malformed
// or out-of-scope envelopes are dropped silently.
func (r *Reconciler) HandleEnvelope(raw []byte) {
	ev, ok := DecodeEnvelope(raw, r.cfg.Directory)
	if !ok {
		return
	}
	r.Feed(ev)
}

// Feed enqueues an already-decoded event.
func (r *Reconciler) Feed(ev *Event) {
	r.batch.enqueue(ev)
}

// Flush applies everything buffered right now instead of waiting for the
// window timer.
func (r *Reconciler) Flush() {
	r.batch.flushTimer()
}

// Close flushes pending events and stops the batcher. The state remains
// readable afterwards.
func (r *Reconciler) Close() {
	r.batch.close()
}

// SetSession switches the active session: final flush, then one atomic clear
// of part store, timeline, role cache and pending bookkeeping. Nothing leaks
// across sessions.
func (r *Reconciler) SetSession(sessionID string) {
	r.Flush()

	r.mu.Lock()
	r.sessionID = sessionID
	r.parts.clear()
	r.timeline.clear()
	r.roles = make(map[string]Role)
	r.metas = make(map[string]*messageMeta)
	r.pendingID = ""
	r.status = SessionStatus{Kind: StatusIdle}
	r.streaming = false
	r.awaitingResponse = false
	r.turnActive = false
	r.lastCompleted = time.Time{}
	r.errText = ""
	r.creating = false
	r.loading = sessionID != ""
	snap := r.snapshotLocked()
	r.mu.Unlock()

	r.notify(snap)
}

// SetCreating flags that a session is being created.
func (r *Reconciler) SetCreating(creating bool) {
	r.mu.Lock()
	r.creating = creating
	snap := r.snapshotLocked()
	r.mu.Unlock()
	r.notify(snap)
}

// SetLoading flags that the session history is being fetched.
func (r *Reconciler) SetLoading(loading bool) {
	r.mu.Lock()
	r.loading = loading
	snap := r.snapshotLocked()
	r.mu.Unlock()
	r.notify(snap)
}

// SetConnection records the transport's connection state. The engine never
// reconnects on its own; it only reflects what the transport reports.
func (r *Reconciler) SetConnection(state ConnState) {
	r.mu.Lock()
	r.conn = state
	snap := r.snapshotLocked()
	r.mu.Unlock()
	r.notify(snap)
}

// HistoryMessage is one already-persisted message used to hydrate the
// timeline after loading or resuming a session.
type HistoryMessage struct {
	ID          string
	Role        string
	CreatedAt   float64
	CompletedAt float64
	Parts       []*PartUpdate
}

// Hydrate seeds the engine from fetched history, then continues live from
// the event stream.
func (r *Reconciler) Hydrate(history []HistoryMessage) {
	r.mu.Lock()
	for _, h := range history {
		meta := r.meta(h.ID)
		if h.CreatedAt > 0 {
			meta.createdAt = time.UnixMilli(int64(h.CreatedAt))
		}
		if h.CompletedAt > 0 {
			meta.completedAt = time.UnixMilli(int64(h.CompletedAt))
		}
		if role := Role(h.Role); role == RoleUser || role == RoleAssistant {
			if _, cached := r.roles[h.ID]; !cached {
				r.roles[h.ID] = role
			}
		}
		for _, p := range h.Parts {
			r.parts.apply(p)
		}
		r.refreshMessage(h.ID)
	}
	r.loading = false
	snap := r.snapshotLocked()
	r.mu.Unlock()
	r.notify(snap)
}

// PrepareSend inserts an optimistic pending user message and returns its
// locally generated id. The caller passes the same id to the server so the
// confirmation refers to the same turn.
func (r *Reconciler) PrepareSend(text string) string {
	r.mu.Lock()

	// At most one pending user message at a time; a stale one (its send
	// failed without telling us) gives way to the new turn.
	if prev := r.timeline.pendingFor(RoleUser); prev != nil {
		r.timeline.remove(prev.ID)
		delete(r.roles, prev.ID)
	}

	id := r.gen.Next()
	r.timeline.insert(&TimelineMessage{
		ID:        id,
		Role:      RoleUser,
		Text:      text,
		Timestamp: time.Now(),
		Pending:   true,
	})
	r.roles[id] = RoleUser
	r.pendingID = id
	r.awaitingResponse = true
	r.turnActive = true
	r.errText = ""

	snap := r.snapshotLocked()
	r.mu.Unlock()
	r.notify(snap)
	return id
}

// SendFailed rolls back an optimistic send: the pending entry disappears,
// the streaming flags reset, and the error surfaces in the next snapshot.
func (r *Reconciler) SendFailed(id string, err error) {
	r.mu.Lock()
	if r.pendingID == id && id != "" {
		r.timeline.remove(id)
		delete(r.roles, id)
		r.pendingID = ""
	}
	r.awaitingResponse = false
	r.streaming = false
	r.turnActive = false
	if err != nil {
		r.errText = err.Error()
	}
	snap := r.snapshotLocked()
	r.mu.Unlock()
	r.notify(snap)
}

// Snapshot returns the current reconciled view.
func (r *Reconciler) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

// applyBatch mutates state from one flushed batch, then publishes a single
// snapshot. This is the only place server events touch the maps.
func (r *Reconciler) applyBatch(batch []*Event) {
	r.mu.Lock()

	affected := make(map[string]bool)
	for _, ev := range batch {
		r.applyEvent(ev, affected)
	}
	for id := range affected {
		r.refreshMessage(id)
	}

	snap := r.snapshotLocked()
	r.mu.Unlock()
	r.notify(snap)
}

func (r *Reconciler) applyEvent(ev *Event, affected map[string]bool) {
	// Events outside the active session are ignored wholesale.
	if ev.SessionID != "" && r.sessionID != "" && ev.SessionID != r.sessionID {
		return
	}

	switch ev.Kind {
	case EventConnected:
		r.conn = ConnConnected

	case EventSessionStatus:
		r.status = *ev.Status

	case EventSessionIdle:
		r.status = SessionStatus{Kind: StatusIdle}
		r.streaming = false
		r.awaitingResponse = false
		if r.turnActive {
			r.turnActive = false
			r.lastCompleted = time.Now()
		}

	case EventSessionError:
		r.errText = ev.ErrorText
		if r.errText == "" {
			r.errText = "the session reported an error"
		}
		r.status = SessionStatus{Kind: StatusIdle}
		r.streaming = false
		r.awaitingResponse = false
		r.turnActive = false
		// The transcript stays intact; only the pending flag resets.
		if r.pendingID != "" {
			if m := r.timeline.get(r.pendingID); m != nil {
				m.Pending = false
			}
			r.pendingID = ""
		}

	case EventPartUpdated:
		r.parts.apply(ev.Part)
		affected[ev.Part.MessageID] = true

	case EventMessageUpdated:
		r.applyMessageUpdate(ev.Message)
		affected[ev.Message.MessageID] = true

	case EventMessageRemoved:
		r.removeMessage(ev.MessageID)

	case EventPartRemoved:
		hasParts := r.parts.removePart(ev.MessageID, ev.PartID)
		if !hasParts {
			// A message emptied by part removal disappears, unless it still
			// carries text of its own (an optimistic user message does).
			if m := r.timeline.get(ev.MessageID); m != nil && len(m.Parts) > 0 {
				r.removeMessage(ev.MessageID)
				return
			}
		}
		affected[ev.MessageID] = true
	}
}

func (r *Reconciler) applyMessageUpdate(u *MessageUpdate) {
	meta := r.meta(u.MessageID)
	if u.CreatedAt != nil {
		meta.createdAt = time.UnixMilli(int64(*u.CreatedAt))
	}
	if u.CompletedAt != nil {
		meta.completedAt = time.UnixMilli(int64(*u.CompletedAt))
	}

	role := Role(u.Role)
	if role == RoleUser || role == RoleAssistant {
		// Role is immutable once observed; first sighting wins.
		if _, cached := r.roles[u.MessageID]; !cached {
			r.roles[u.MessageID] = role
		}
	}

	// Pending -> confirmed reconciliation: the server revealed its id for
	// the turn we sent optimistically. Remove the pending entry and insert
	// the confirmed one at the server id's sorted position; exactly one
	// entry for the turn survives.
	if role == RoleUser && r.pendingID != "" {
		if u.MessageID == r.pendingID {
			if m := r.timeline.get(r.pendingID); m != nil {
				m.Pending = false
			}
			r.pendingID = ""
		} else {
			var text string
			var ts time.Time
			if prev := r.timeline.get(r.pendingID); prev != nil {
				text = prev.Text
				ts = prev.Timestamp
				r.timeline.remove(r.pendingID)
			}
			delete(r.roles, r.pendingID)
			delete(r.metas, r.pendingID)
			r.pendingID = ""

			if !meta.createdAt.IsZero() {
				ts = meta.createdAt
			}
			r.timeline.insert(&TimelineMessage{
				ID:        u.MessageID,
				Role:      RoleUser,
				Text:      text,
				Timestamp: ts,
				Pending:   false,
			})
		}
	}

	if role == RoleAssistant {
		r.awaitingResponse = false
		r.turnActive = true
	}
	if u.CompletedAt != nil && r.roles[u.MessageID] == RoleAssistant {
		r.streaming = false
		r.turnActive = false
		r.lastCompleted = meta.completedAt
	}
}

func (r *Reconciler) removeMessage(id string) {
	r.timeline.remove(id)
	r.parts.removeMessage(id)
	delete(r.roles, id)
	delete(r.metas, id)
	if r.pendingID == id {
		r.pendingID = ""
	}
}

// refreshMessage re-derives one message's role, text, and visibility from
// the part store.
func (r *Reconciler) refreshMessage(id string) {
	parts := orderedParts(r.parts.message(id))

	role := resolveRole("", r.roles[id], parts)
	if role == RoleUnknown {
		return
	}
	if _, cached := r.roles[id]; !cached {
		r.roles[id] = role
	}

	text := assembleText(parts, role)
	entry := r.timeline.get(id)

	if entry == nil {
		if !surfaceable(role, text, parts) {
			return
		}
		ts := time.Now()
		if meta := r.metas[id]; meta != nil && !meta.createdAt.IsZero() {
			ts = meta.createdAt
		}
		entry = &TimelineMessage{ID: id, Role: role, Timestamp: ts}
		r.timeline.insert(entry)
	}

	entry.Parts = parts
	if len(parts) > 0 || text != "" {
		// Derived text; not independently settable once parts exist. A
		// confirmed user message keeps its optimistic text until a longer
		// server-echoed part replaces it.
		if role == RoleUser && len(entry.Text) > len(text) {
			text = entry.Text
		}
		entry.Text = text
	}

	if role == RoleAssistant {
		r.awaitingResponse = false
		completed := false
		if meta := r.metas[id]; meta != nil && !meta.completedAt.IsZero() {
			completed = true
		}
		if !completed && text != "" {
			r.streaming = true
			r.turnActive = true
		}
	}
}

func (r *Reconciler) meta(id string) *messageMeta {
	m := r.metas[id]
	if m == nil {
		m = &messageMeta{}
		r.metas[id] = m
	}
	return m
}

func (r *Reconciler) snapshotLocked() Snapshot {
	tools := activeTools(r.parts)

	awaitingApproval := false
	for _, t := range tools {
		if t.Status == ToolApprovalRequested {
			awaitingApproval = true
			break
		}
	}

	msgs := make([]Message, 0, len(r.timeline.entries))
	for _, e := range r.timeline.entries {
		m := Message{
			ID:        e.ID,
			Role:      e.Role,
			Text:      e.Text,
			Timestamp: e.Timestamp,
			Pending:   e.Pending,
		}
		if len(e.Parts) > 0 {
			m.Parts = make([]PartSnapshot, len(e.Parts))
			for i, p := range e.Parts {
				m.Parts[i] = *p
			}
		}
		msgs = append(msgs, m)
	}

	info := DerivePhase(Signals{
		CreatingSession:    r.creating,
		LoadingSession:     r.loading,
		HasActiveSession:   r.sessionID != "",
		Connection:         r.conn,
		AwaitingApproval:   awaitingApproval,
		ActiveToolCount:    len(tools),
		Status:             r.status.Kind,
		Streaming:          r.streaming,
		PendingUserMessage: r.pendingID != "",
		AwaitingResponse:   r.awaitingResponse,
		LastCompletedAt:    r.lastCompleted,
	})

	return Snapshot{
		SessionID:  r.sessionID,
		Messages:   msgs,
		Tools:      tools,
		Phase:      info,
		Status:     r.status,
		Connection: r.conn,
		Err:        r.errText,
	}
}

func (r *Reconciler) notify(snap Snapshot) {
	if r.cfg.OnChange != nil {
		r.cfg.OnChange(snap)
	}
}
