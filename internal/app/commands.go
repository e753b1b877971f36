package app

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"

	"weft/internal/config"
	"weft/internal/logger"
	"weft/internal/messages"
	"weft/sdk/agent"
)

const requestTimeout = 30 * time.Second

func (m *Model) checkHealth() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		if _, err := m.client.Health(ctx); err != nil {
			return messages.HealthCheckMsg{Healthy: false, Err: err}
		}
		return messages.HealthCheckMsg{Healthy: true}
	}
}

// bootstrap decides between resuming the last session and creating a new
// one, honoring the saved resume preference.
func (m *Model) bootstrap() tea.Cmd {
	return func() tea.Msg {
		pref, err := config.GetResumePreference()
		if err != nil {
			logger.WithError(err, "load resume preference")
		}

		if pref != config.ResumeAlwaysNew {
			if last, err := config.GetLastSession(); err == nil && last != nil {
				ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
				defer cancel()

				if session, err := m.client.GetSession(ctx, last.SessionID); err == nil {
					return messages.SessionCreatedMsg{Session: session}
				}
				logger.Infof("last session %s is gone, creating a new one", last.SessionID)
			}
		}

		return m.createSession()()
	}
}

func (m *Model) createSession() tea.Cmd {
	m.engine.SetCreating(true)
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		session, err := m.client.CreateSession(ctx, &agent.CreateSessionRequest{})
		if err != nil {
			return messages.ErrorMsg{Message: "create session: " + err.Error()}
		}
		return messages.SessionCreatedMsg{Session: session}
	}
}

func (m *Model) loadSessions() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		sessions, err := m.client.ListSessions(ctx)
		if err != nil {
			return messages.ErrorMsg{Message: "list sessions: " + err.Error()}
		}
		return messages.SessionsLoadedMsg{Sessions: sessions}
	}
}

func (m *Model) loadHistory(sessionID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		msgs, err := m.client.ListMessages(ctx, sessionID, nil)
		if err != nil {
			return messages.ErrorMsg{Message: "load messages: " + err.Error()}
		}
		return messages.HistoryLoadedMsg{SessionID: sessionID, Messages: msgs}
	}
}

// sendPrompt registers the optimistic message with the engine, then fires
// the request. The engine id doubles as the server-side message id so the
// confirmation references the same turn.
func (m *Model) sendPrompt(text string) tea.Cmd {
	id := m.engine.PrepareSend(text)
	sessionID := m.session.ID

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		req := &agent.PromptRequest{
			Parts:     []interface{}{agent.TextPartInput{Type: "text", Text: text}},
			MessageID: agent.String(id),
			Model:     m.model,
		}
		if err := m.client.SendMessage(ctx, sessionID, req); err != nil {
			return messages.SendDoneMsg{MessageID: id, Err: err}
		}
		return messages.SendDoneMsg{MessageID: id}
	}
}

// nextSession cycles to the next known session, wrapping around the list.
func (m *Model) nextSession() tea.Cmd {
	if len(m.sessions) == 0 {
		return m.loadSessions()
	}
	idx := 0
	if m.session != nil {
		for i := range m.sessions {
			if m.sessions[i].ID == m.session.ID {
				idx = (i + 1) % len(m.sessions)
				break
			}
		}
	}
	next := m.sessions[idx]
	if m.session != nil && next.ID == m.session.ID {
		return nil
	}
	m.session = &next
	m.engine.SetSession(next.ID)
	m.chat.Clear()
	return m.loadHistory(next.ID)
}

func (m *Model) renameSession(title string) tea.Cmd {
	sessionID := m.session.ID
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		session, err := m.client.UpdateSession(ctx, sessionID, &agent.UpdateSessionRequest{Title: agent.String(title)})
		if err != nil {
			return messages.ErrorMsg{Message: "rename session: " + err.Error()}
		}
		return messages.SessionRenamedMsg{Session: session}
	}
}

func (m *Model) abortSession() tea.Cmd {
	sessionID := m.session.ID
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		if err := m.client.AbortSession(ctx, sessionID); err != nil {
			return messages.ErrorMsg{Message: "abort: " + err.Error()}
		}
		return nil
	}
}

// defaultTitle reports whether a session still carries a server-assigned
// placeholder title.
func defaultTitle(title string) bool {
	switch title {
	case "", "Untitled", "New session":
		return true
	}
	return false
}

// sessionTitle derives a short session title from its first prompt.
func sessionTitle(text string) string {
	title := strings.TrimSpace(text)
	if i := strings.IndexByte(title, '\n'); i >= 0 {
		title = strings.TrimSpace(title[:i])
	}
	const max = 48
	if len(title) > max {
		cut := max
		for cut > 0 && !utf8.RuneStart(title[cut]) {
			cut--
		}
		title = strings.TrimRight(title[:cut], " ") + "..."
	}
	return title
}

// rememberSession persists the active session for resume on next startup.
func (m *Model) rememberSession() {
	if m.session == nil {
		return
	}
	lastText := ""
	if n := len(m.snapshot.Messages); n > 0 {
		lastText = m.snapshot.Messages[n-1].Text
	}
	if err := config.SaveLastSession(m.session.ID, m.session.Title, len(m.snapshot.Messages), lastText); err != nil {
		logger.WithError(err, "save last session")
	}
}
