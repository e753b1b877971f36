package spinner

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"weft/internal/styles"
)

// Style defines the spinner animation style
type Style int

const (
	StyleDots Style = iota
	StyleBraille
	StylePulse
)

var frames = map[Style][]string{
	StyleDots:    {"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
	StyleBraille: {"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"},
	StylePulse:   {"◐", "◓", "◑", "◒"},
}

var intervals = map[Style]time.Duration{
	StyleDots:    80 * time.Millisecond,
	StyleBraille: 80 * time.Millisecond,
	StylePulse:   100 * time.Millisecond,
}

// TickMsg is sent when the spinner should advance
type TickMsg struct {
	ID int
}

// Model represents a spinner component
type Model struct {
	id       int
	style    Style
	frame    int
	active   bool
	message  string
	interval time.Duration
}

var spinnerID int

// New creates a new spinner with the specified style
func New(style Style) Model {
	spinnerID++
	return Model{
		id:       spinnerID,
		style:    style,
		interval: intervals[style],
	}
}

// Update handles spinner messages
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TickMsg:
		if msg.ID != m.id || !m.active {
			return m, nil
		}
		f := frames[m.style]
		m.frame = (m.frame + 1) % len(f)
		return m, m.tick()
	}
	return m, nil
}

// View renders the spinner
func (m Model) View() string {
	if !m.active {
		return ""
	}

	theme := styles.GetCurrentTheme()
	f := frames[m.style]
	spinner := lipgloss.NewStyle().Foreground(theme.Accent).Render(f[m.frame])

	if m.message != "" {
		msg := lipgloss.NewStyle().Foreground(theme.TextSecondary).Render(m.message)
		return spinner + " " + msg
	}
	return spinner
}

// Start begins the spinner animation
func (m *Model) Start() tea.Cmd {
	m.active = true
	m.frame = 0
	return m.tick()
}

// Stop stops the spinner animation
func (m *Model) Stop() {
	m.active = false
}

// IsActive returns whether the spinner is running
func (m Model) IsActive() bool {
	return m.active
}

// SetMessage sets the spinner message
func (m *Model) SetMessage(msg string) {
	m.message = msg
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(time.Time) tea.Msg {
		return TickMsg{ID: m.id}
	})
}
