package agent_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"weft/sdk/agent"
)

// testServer implements enough of the agent server API to exercise the
// client end to end.
type testServer struct {
	server   *httptest.Server
	sessions map[string]*agent.Session
	prompts  map[string]*agent.PromptRequest // sessionID -> last prompt
	events   []string                        // raw SSE data payloads to emit
	lastDir  string
	mu       sync.RWMutex
}

func newTestServer() *testServer {
	ts := &testServer{
		sessions: make(map[string]*agent.Session),
		prompts:  make(map[string]*agent.PromptRequest),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", ts.handleHealth)
	mux.HandleFunc("/session", ts.handleSessions)
	mux.HandleFunc("/session/", ts.handleSession)
	mux.HandleFunc("/event", ts.handleEvents)

	ts.server = httptest.NewServer(mux)
	return ts
}

func (ts *testServer) Close()      { ts.server.Close() }
func (ts *testServer) URL() string { return ts.server.URL }

func (ts *testServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(agent.HealthResponse{Status: "healthy"})
}

func (ts *testServer) handleSessions(w http.ResponseWriter, r *http.Request) {
	ts.mu.Lock()
	ts.lastDir = r.URL.Query().Get("directory")
	ts.mu.Unlock()

	switch r.Method {
	case http.MethodGet:
		ts.mu.RLock()
		sessions := make([]agent.Session, 0, len(ts.sessions))
		for _, s := range ts.sessions {
			sessions = append(sessions, *s)
		}
		ts.mu.RUnlock()
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(sessions)

	case http.MethodPost:
		var req agent.CreateSessionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		title := "Untitled"
		if req.Title != nil {
			title = *req.Title
		}
		now := agent.Now()

		ts.mu.Lock()
		session := &agent.Session{
			ID:    fmt.Sprintf("ses_%03d", len(ts.sessions)+1),
			Title: title,
			Time:  agent.SessionTime{Created: now, Updated: now},
		}
		ts.sessions[session.ID] = session
		ts.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(session)

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (ts *testServer) handleSession(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/session/")
	parts := strings.Split(rest, "/")
	sessionID := parts[0]

	ts.mu.Lock()
	session, exists := ts.sessions[sessionID]
	ts.mu.Unlock()
	if !exists {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if len(parts) >= 2 {
		switch parts[1] {
		case "message":
			switch r.Method {
			case http.MethodGet:
				json.NewEncoder(w).Encode([]agent.MessageWithParts{})
			case http.MethodPost:
				var req agent.PromptRequest
				if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
					http.Error(w, err.Error(), http.StatusBadRequest)
					return
				}
				ts.mu.Lock()
				ts.prompts[sessionID] = &req
				ts.mu.Unlock()
				json.NewEncoder(w).Encode(map[string]string{"status": "accepted"})
			}
			return
		case "abort":
			// The real server replies with a bare boolean.
			json.NewEncoder(w).Encode(true)
			return
		}
	}

	switch r.Method {
	case http.MethodGet:
		json.NewEncoder(w).Encode(session)
	case http.MethodPatch:
		var req agent.UpdateSessionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		ts.mu.Lock()
		if req.Title != nil {
			session.Title = *req.Title
		}
		ts.mu.Unlock()
		json.NewEncoder(w).Encode(session)
	case http.MethodDelete:
		ts.mu.Lock()
		delete(ts.sessions, sessionID)
		ts.mu.Unlock()
		json.NewEncoder(w).Encode(true)
	}
}

func (ts *testServer) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher := w.(http.Flusher)
	w.Header().Set("Content-Type", "text/event-stream")
	w.WriteHeader(http.StatusOK)
	// Push the headers out even when no events are queued, so Subscribe
	// returns instead of blocking on the buffered response.
	flusher.Flush()

	ts.mu.RLock()
	events := append([]string{}, ts.events...)
	ts.mu.RUnlock()

	for _, data := range events {
		fmt.Fprintf(w, "data: %s\n\n", data)
		flusher.Flush()
	}
	<-r.Context().Done()
}

func TestNewClient(t *testing.T) {
	client := agent.NewClient("http://example.com/",
		agent.WithDirectory("/work"),
		agent.WithTimeout(5*time.Second),
	)
	if client.Directory() != "/work" {
		t.Errorf("Directory() = %q, want /work", client.Directory())
	}
}

func TestHealth(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	client := agent.NewClient(ts.URL())
	health, err := client.Health(context.Background())
	if err != nil {
		t.Fatalf("Health() error = %v", err)
	}
	if health.Status != "healthy" {
		t.Errorf("Status = %q, want healthy", health.Status)
	}
}

func TestSessionOperations(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	client := agent.NewClient(ts.URL(), agent.WithDirectory("/work/project"))
	ctx := context.Background()

	created, err := client.CreateSession(ctx, &agent.CreateSessionRequest{Title: agent.String("My session")})
	if err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}
	if created.Title != "My session" {
		t.Errorf("Title = %q, want My session", created.Title)
	}

	// The working directory must travel as a query parameter.
	ts.mu.RLock()
	dir := ts.lastDir
	ts.mu.RUnlock()
	if dir != "/work/project" {
		t.Errorf("directory query = %q, want /work/project", dir)
	}

	sessions, err := client.ListSessions(ctx)
	if err != nil {
		t.Fatalf("ListSessions() error = %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("len(sessions) = %d, want 1", len(sessions))
	}

	got, err := client.GetSession(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetSession() error = %v", err)
	}
	if got.ID != created.ID {
		t.Errorf("GetSession().ID = %q, want %q", got.ID, created.ID)
	}

	renamed, err := client.UpdateSession(ctx, created.ID, &agent.UpdateSessionRequest{Title: agent.String("Renamed")})
	if err != nil {
		t.Fatalf("UpdateSession() error = %v", err)
	}
	if renamed.Title != "Renamed" {
		t.Errorf("renamed title = %q", renamed.Title)
	}

	if err := client.AbortSession(ctx, created.ID); err != nil {
		t.Fatalf("AbortSession() error = %v", err)
	}

	if err := client.DeleteSession(ctx, created.ID); err != nil {
		t.Fatalf("DeleteSession() error = %v", err)
	}
	if _, err := client.GetSession(ctx, created.ID); err == nil {
		t.Error("GetSession() after delete should fail")
	}
}

func TestSendMessageCarriesMessageID(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	client := agent.NewClient(ts.URL())
	ctx := context.Background()

	session, err := client.CreateSession(ctx, &agent.CreateSessionRequest{})
	if err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}

	req := &agent.PromptRequest{
		Parts:     []interface{}{agent.TextPartInput{Type: "text", Text: "hello"}},
		MessageID: agent.String("msg_local_1"),
	}
	if err := client.SendMessage(ctx, session.ID, req); err != nil {
		t.Fatalf("SendMessage() error = %v", err)
	}

	ts.mu.RLock()
	recorded := ts.prompts[session.ID]
	ts.mu.RUnlock()
	if recorded == nil || recorded.MessageID == nil || *recorded.MessageID != "msg_local_1" {
		t.Errorf("server did not receive the pre-assigned message id: %+v", recorded)
	}
}

func TestSubscribe(t *testing.T) {
	ts := newTestServer()
	ts.events = []string{
		`{"type":"server.connected","properties":{}}`,
		`{"directory":"/work","payload":{"type":"session.idle","properties":{"sessionID":"ses_1"}}}`,
	}
	defer ts.Close()

	client := agent.NewClient(ts.URL())
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	eventCh, _, err := client.Subscribe(ctx)
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	first := <-eventCh
	if first == nil || first.Type != "server.connected" {
		t.Fatalf("first event = %+v, want server.connected", first)
	}
	if len(first.Raw) == 0 {
		t.Error("Raw bytes must be preserved")
	}

	// Directory-wrapped payloads pass through with the raw data intact.
	second := <-eventCh
	if second == nil {
		t.Fatal("second event missing")
	}
	if !strings.Contains(string(second.Raw), `"payload"`) {
		t.Errorf("wrapped raw not preserved: %s", second.Raw)
	}
}

func TestSubscribeCancellation(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	client := agent.NewClient(ts.URL())
	ctx, cancel := context.WithCancel(context.Background())

	eventCh, _, err := client.Subscribe(ctx)
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	cancel()

	select {
	case _, ok := <-eventCh:
		if ok {
			// Drain; channel must close shortly after cancel.
			for range eventCh {
			}
		}
	case <-time.After(2 * time.Second):
		t.Fatal("event channel did not close after cancel")
	}
}

func TestErrorHandling(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	client := agent.NewClient(ts.URL())
	ctx := context.Background()

	if _, err := client.GetSession(ctx, "ses_missing"); err == nil {
		t.Error("GetSession() on unknown id should fail")
	}
	if err := client.SendMessage(ctx, "ses_missing", &agent.PromptRequest{}); err == nil {
		t.Error("SendMessage() on unknown session should fail")
	}
}
