package app

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"weft/internal/components/spinner"
	"weft/internal/components/toast"
	"weft/internal/engine"
	"weft/internal/logger"
	"weft/internal/messages"
	"weft/sdk/agent"
)

const toastDuration = 4 * time.Second

// Update handles all incoming messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.chat.SetSize(msg.Width, m.chatHeight())
		m.input.SetWidth(msg.Width)
		m.toast.SetWidth(msg.Width)
		m.ready = true
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case messages.SnapshotMsg:
		return m.applySnapshot(msg.Snapshot)

	case messages.HealthCheckMsg:
		if !msg.Healthy {
			cmds = append(cmds, m.notifyError("Server unreachable: "+msg.Err.Error()))
		}
		return m, tea.Batch(cmds...)

	case messages.SessionCreatedMsg:
		m.session = msg.Session
		m.engine.SetCreating(false)
		m.engine.SetSession(msg.Session.ID)
		m.chat.Clear()
		return m, tea.Batch(m.loadHistory(msg.Session.ID), m.loadSessions())

	case messages.HistoryLoadedMsg:
		if m.session == nil || msg.SessionID != m.session.ID {
			return m, nil
		}
		m.engine.Hydrate(historyToEngine(msg))
		return m, nil

	case messages.SessionsLoadedMsg:
		m.sessions = msg.Sessions
		return m, nil

	case messages.SessionRenamedMsg:
		m.session = msg.Session
		return m, m.loadSessions()

	case messages.SendDoneMsg:
		if msg.Err != nil {
			m.engine.SendFailed(msg.MessageID, msg.Err)
			cmds = append(cmds, m.notifyError("Send failed: "+msg.Err.Error()))
		}
		return m, tea.Batch(cmds...)

	case messages.StreamClosedMsg:
		if msg.Err != nil {
			logger.WithError(msg.Err, "event stream error")
		}
		m.engine.SetConnection(engine.ConnError)
		return m, m.retryStream()

	case retryStreamMsg:
		return m, m.startStream()

	case messages.ErrorMsg:
		m.engine.SetCreating(false)
		return m, m.notifyError(msg.Message)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	// Everything else goes to the focused components.
	var cmd tea.Cmd
	m.toast, cmd = m.toast.Update(msg)
	cmds = append(cmds, cmd)
	m.chat, cmd = m.chat.Update(msg)
	cmds = append(cmds, cmd)
	if m.inputFocused {
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

// applySnapshot pushes one engine snapshot into the view.
func (m *Model) applySnapshot(snap engine.Snapshot) (tea.Model, tea.Cmd) {
	prevPhase := m.snapshot.Phase.Phase
	prevErr := m.snapshot.Err
	m.snapshot = snap

	m.chat.SetMessages(snap.Messages)

	var cmds []tea.Cmd
	if snap.Phase.Working {
		m.spinner.SetMessage(snap.Phase.Label)
		if !m.spinner.IsActive() {
			cmds = append(cmds, m.spinner.Start())
		}
	} else {
		m.spinner.Stop()
	}

	if snap.Err != "" && snap.Err != prevErr {
		cmds = append(cmds, m.toast.Add(snap.Err, toast.ToastError, toastDuration))
	}
	if snap.Phase.Phase == engine.PhaseComplete && prevPhase != engine.PhaseComplete {
		m.rememberSession()
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.Close()
		return m, tea.Quit

	case "enter":
		if !m.inputFocused {
			return m, nil
		}
		text := strings.TrimSpace(m.input.Value())
		if text == "" || m.session == nil {
			return m, nil
		}
		m.input.Clear()
		cmds := []tea.Cmd{m.sendPrompt(text)}
		if defaultTitle(m.session.Title) {
			// The first prompt doubles as the session title.
			cmds = append(cmds, m.renameSession(sessionTitle(text)))
		}
		return m, tea.Batch(cmds...)

	case "esc":
		if m.snapshot.Phase.Working {
			return m, m.abortSession()
		}
		return m, nil

	case "ctrl+r":
		return m, m.createSession()

	case "ctrl+o":
		return m, m.nextSession()

	case "ctrl+t":
		m.chat.ToggleThinking()
		return m, nil

	case "ctrl+_":
		m.chat.ToggleMarkdownRendering()
		return m, nil

	case "pgup":
		m.chat.PageUp()
		return m, nil

	case "pgdown":
		m.chat.PageDown()
		return m, nil

	case "ctrl+home":
		m.chat.ScrollToBottom()
		return m, nil
	}

	if m.inputFocused {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) notifyError(text string) tea.Cmd {
	logger.Errorf("%s", text)
	return m.toast.Add(text, toast.ToastError, toastDuration)
}

// historyToEngine converts fetched SDK messages into engine hydration input.
func historyToEngine(msg messages.HistoryLoadedMsg) []engine.HistoryMessage {
	out := make([]engine.HistoryMessage, 0, len(msg.Messages))
	for _, mwp := range msg.Messages {
		h := engine.HistoryMessage{
			ID:        mwp.Info.ID,
			Role:      mwp.Info.Role,
			CreatedAt: mwp.Info.Time.Created,
		}
		if mwp.Info.Time.Completed != nil {
			h.CompletedAt = *mwp.Info.Time.Completed
		}
		for i := range mwp.Parts {
			h.Parts = append(h.Parts, partToUpdate(&mwp.Parts[i]))
		}
		out = append(out, h)
	}
	return out
}

func partToUpdate(p *agent.Part) *engine.PartUpdate {
	u := &engine.PartUpdate{
		SessionID: p.SessionID,
		MessageID: p.MessageID,
		PartID:    p.ID,
		Tool:      p.Tool,
		RoleHint:  p.Role,
	}
	switch p.Type {
	case "text":
		u.Kind = engine.PartText
	case "reasoning":
		u.Kind = engine.PartReasoning
	case "tool":
		u.Kind = engine.PartTool
	case "subtask", "task":
		u.Kind = engine.PartSubtask
	}
	if p.Text != "" {
		u.Text = agent.String(p.Text)
	}
	if p.State != nil {
		u.ToolStatus = p.State.Status
		u.Input = p.State.Input
		if p.State.Output != "" {
			u.Output = agent.String(p.State.Output)
		}
		if p.State.Error != "" {
			u.ErrorText = agent.String(p.State.Error)
		}
		if p.State.Title != nil {
			u.Title = p.State.Title
		}
	}
	if p.Synthetic {
		u.Synthetic = agent.Bool(true)
	}
	if p.Ignored {
		u.Ignored = agent.Bool(true)
	}
	return u
}
