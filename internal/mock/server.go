// Package mock runs an in-process agent server good enough to demo the TUI
// without a real backend: it answers the session endpoints and streams a
// scripted assistant turn over SSE for every prompt.
package mock

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"weft/internal/ident"
	"weft/internal/logger"
)

// Server is the scripted mock agent server.
type Server struct {
	mu       sync.Mutex
	sessions []map[string]interface{}
	subs     map[chan string]struct{}
	ids      *ident.Generator
	srv      *http.Server
	url      string
}

// Start launches the server on a random localhost port and returns its URL.
func Start() (*Server, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("listen: %w", err)
	}

	s := &Server{
		subs: make(map[chan string]struct{}),
		ids:  ident.New(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/event", s.handleEvents)
	mux.HandleFunc("/session", s.handleSessions)
	mux.HandleFunc("/session/", s.handleSession)

	s.srv = &http.Server{Handler: mux}
	s.url = "http://" + ln.Addr().String()

	go func() {
		if err := s.srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			logger.WithError(err, "mock server stopped")
		}
	}()

	return s, nil
}

// URL returns the server's base URL.
func (s *Server) URL() string { return s.url }

// Stop shuts the server down.
func (s *Server) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = s.srv.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]string{"status": "healthy", "version": "mock"})
}

func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.mu.Lock()
		sessions := append([]map[string]interface{}{}, s.sessions...)
		s.mu.Unlock()
		writeJSON(w, sessions)

	case http.MethodPost:
		var req struct {
			Title string `json:"title"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Title == "" {
			req.Title = "New session"
		}

		now := float64(time.Now().UnixMilli())
		session := map[string]interface{}{
			"id":    strings.Replace(s.ids.Next(), "msg_", "ses_", 1),
			"title": req.Title,
			"time":  map[string]interface{}{"created": now, "updated": now},
		}

		s.mu.Lock()
		s.sessions = append(s.sessions, session)
		s.mu.Unlock()

		writeJSON(w, session)

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/session/")
	parts := strings.Split(rest, "/")
	sessionID := parts[0]

	// POST /session/{id}/message starts a scripted turn; everything else is
	// answered with an empty success.
	if len(parts) == 2 && parts[1] == "message" {
		switch r.Method {
		case http.MethodGet:
			writeJSON(w, []interface{}{})
			return
		case http.MethodPost:
			body, _ := readAll(r)
			prompt := gjson.GetBytes(body, "parts.0.text").String()
			clientMsgID := gjson.GetBytes(body, "messageID").String()
			go s.scriptTurn(sessionID, clientMsgID, prompt)
			writeJSON(w, map[string]string{"status": "accepted"})
			return
		}
	}

	switch r.Method {
	case http.MethodGet, http.MethodPatch, http.MethodDelete, http.MethodPost:
		writeJSON(w, map[string]interface{}{"id": sessionID})
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)

	ch := make(chan string, 64)
	s.mu.Lock()
	s.subs[ch] = struct{}{}
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.subs, ch)
		s.mu.Unlock()
	}()

	fmt.Fprintf(w, "data: %s\n\n", envelope("server.connected", nil))
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case data := <-ch:
			fmt.Fprintf(w, "data: %s\n\n", data)
			flusher.Flush()
		}
	}
}

func (s *Server) broadcast(data string) {
	s.mu.Lock()
	for ch := range s.subs {
		select {
		case ch <- data:
		default:
		}
	}
	s.mu.Unlock()
}

// scriptTurn plays one canned assistant response: confirm the user message,
// go busy, stream text word by word, run a fake tool, then complete.
func (s *Server) scriptTurn(sessionID, userMsgID, prompt string) {
	if userMsgID == "" {
		userMsgID = s.ids.Next()
	}
	now := func() float64 { return float64(time.Now().UnixMilli()) }

	s.broadcast(envelope("message.updated", map[string]interface{}{
		"info": map[string]interface{}{
			"id":        userMsgID,
			"sessionID": sessionID,
			"role":      "user",
			"time":      map[string]interface{}{"created": now()},
		},
	}))

	s.broadcast(envelope("session.status", map[string]interface{}{
		"sessionID": sessionID,
		"status":    map[string]interface{}{"type": "busy"},
	}))
	time.Sleep(200 * time.Millisecond)

	assistantID := s.ids.Next()
	s.broadcast(envelope("message.updated", map[string]interface{}{
		"info": map[string]interface{}{
			"id":        assistantID,
			"sessionID": sessionID,
			"role":      "assistant",
			"time":      map[string]interface{}{"created": now()},
		},
	}))

	textPartID := strings.Replace(s.ids.Next(), "msg_", "prt_", 1)
	reply := fmt.Sprintf("You said: %q. Let me check something with a tool.", prompt)
	for _, word := range strings.SplitAfter(reply, " ") {
		s.broadcast(partEnvelope(sessionID, assistantID, textPartID, "text", word, ""))
		time.Sleep(40 * time.Millisecond)
	}

	toolPartID := strings.Replace(s.ids.Next(), "msg_", "prt_", 1)
	s.broadcast(toolEnvelope(sessionID, assistantID, toolPartID, "input-streaming", ""))
	time.Sleep(300 * time.Millisecond)
	s.broadcast(toolEnvelope(sessionID, assistantID, toolPartID, "input-available", ""))
	time.Sleep(300 * time.Millisecond)
	s.broadcast(toolEnvelope(sessionID, assistantID, toolPartID, "output-available", "mock output"))

	for _, word := range strings.SplitAfter(" All done.", " ") {
		s.broadcast(partEnvelope(sessionID, assistantID, textPartID, "text", word, ""))
		time.Sleep(40 * time.Millisecond)
	}

	// One final full-text event, the way providers that resend the whole
	// accumulated string do.
	s.broadcast(partEnvelope(sessionID, assistantID, textPartID, "text", "", reply+" All done."))

	s.broadcast(envelope("message.updated", map[string]interface{}{
		"info": map[string]interface{}{
			"id":        assistantID,
			"sessionID": sessionID,
			"role":      "assistant",
			"time":      map[string]interface{}{"created": now(), "completed": now()},
		},
	}))
	s.broadcast(envelope("session.idle", map[string]interface{}{"sessionID": sessionID}))
}

// envelope builds one {type, properties} event string.
func envelope(eventType string, properties map[string]interface{}) string {
	out, _ := sjson.Set("{}", "type", eventType)
	if properties == nil {
		out, _ = sjson.SetRaw(out, "properties", "{}")
	} else {
		out, _ = sjson.Set(out, "properties", properties)
	}
	return out
}

func partEnvelope(sessionID, messageID, partID, kind, delta, text string) string {
	out := envelope("message.part.updated", map[string]interface{}{
		"part": map[string]interface{}{
			"id":        partID,
			"messageID": messageID,
			"sessionID": sessionID,
			"type":      kind,
		},
	})
	if delta != "" {
		out, _ = sjson.Set(out, "properties.delta", delta)
	}
	if text != "" {
		out, _ = sjson.Set(out, "properties.part.text", text)
	}
	return out
}

func toolEnvelope(sessionID, messageID, partID, status, output string) string {
	out := envelope("message.part.updated", map[string]interface{}{
		"part": map[string]interface{}{
			"id":        partID,
			"messageID": messageID,
			"sessionID": sessionID,
			"type":      "tool",
			"tool":      "lookup",
			"state":     map[string]interface{}{"status": status},
		},
	})
	if output != "" {
		out, _ = sjson.Set(out, "properties.part.state.output", output)
	}
	return out
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func readAll(r *http.Request) ([]byte, error) {
	defer r.Body.Close()
	return io.ReadAll(r.Body)
}
