package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"weft/internal/engine"
	"weft/internal/styles"
)

const (
	headerHeight = 1
	inputHeight  = 4
	statusHeight = 1
)

func (m *Model) chatHeight() int {
	h := m.height - headerHeight - inputHeight - statusHeight
	if h < 3 {
		h = 3
	}
	return h
}

// View renders the full screen: header, transcript, input, status bar, with
// toasts overlaid at the top when present.
func (m *Model) View() string {
	if !m.ready {
		return "Starting..."
	}

	sections := []string{
		m.headerView(),
		m.chat.View(),
		m.input.View(),
		m.statusView(),
	}
	view := lipgloss.JoinVertical(lipgloss.Left, sections...)

	if m.toast.HasToasts() {
		view = lipgloss.JoinVertical(lipgloss.Left, m.toast.View(), view)
	}
	return view
}

func (m *Model) headerView() string {
	title := "weft"
	if m.session != nil && m.session.Title != "" {
		title += " · " + m.session.Title
	}
	return styles.Header().Width(m.width).Render(title)
}

func (m *Model) statusView() string {
	snap := m.snapshot

	var left string
	if m.spinner.IsActive() {
		left = m.spinner.View()
	} else {
		left = snap.Phase.Label
	}

	var extras []string
	if n := len(snap.Tools); n > 0 {
		names := make([]string, 0, n)
		for _, t := range snap.Tools {
			names = append(names, t.Name)
		}
		extras = append(extras, fmt.Sprintf("tools: %s", strings.Join(names, ", ")))
	}
	if snap.Status.Kind == engine.StatusRetry && snap.Status.Attempt > 0 {
		extras = append(extras, fmt.Sprintf("attempt %d", snap.Status.Attempt))
	}
	if snap.Connection != engine.ConnConnected {
		extras = append(extras, string(snap.Connection))
	}

	line := left
	if len(extras) > 0 {
		line += "  " + strings.Join(extras, " · ")
	}

	style := styles.StatusBar()
	switch {
	case snap.Connection == engine.ConnError || snap.Err != "":
		style = styles.StatusBarError()
	case snap.Phase.Working:
		style = styles.StatusBarWorking()
	}
	return style.Width(m.width).Render(line)
}
