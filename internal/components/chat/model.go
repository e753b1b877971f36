package chat

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"weft/internal/engine"
)

// Model represents the chat transcript component. It is a pure view over
// engine snapshots: SetMessages replaces the whole transcript each flush.
type Model struct {
	viewport     viewport.Model
	messages     []engine.Message
	width        int
	height       int
	showThinking bool
	atBottom     bool
}

// New creates a new chat model
func New(width, height int) Model {
	vp := viewport.New(width, height)
	vp.SetContent("")

	// If the renderer fails, markdown falls back to plain text.
	_ = InitMarkdown(width)

	return Model{
		viewport: vp,
		width:    width,
		height:   height,
		atBottom: true,
	}
}

// Update handles messages for the chat component
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	m.atBottom = m.viewport.AtBottom()
	return m, cmd
}

// View renders the chat component
func (m Model) View() string {
	return m.viewport.View()
}

// SetMessages replaces the transcript with the given snapshot messages.
func (m *Model) SetMessages(msgs []engine.Message) {
	m.messages = msgs
	m.updateContent()
}

// SetSize updates the chat dimensions
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
	_ = InitMarkdown(width)
	m.updateContent()
}

// updateContent re-renders the viewport. While the reader is at the bottom
// the view follows new output; a scrolled-up reader stays put.
func (m *Model) updateContent() {
	if len(m.messages) == 0 {
		m.viewport.SetContent(emptyState().Render("No messages yet. Say something."))
		return
	}

	var blocks []string
	for _, msg := range m.messages {
		blocks = append(blocks, renderMessage(msg, m.width, m.showThinking))
	}
	m.viewport.SetContent(strings.Join(blocks, "\n\n"))

	if m.atBottom {
		m.viewport.GotoBottom()
	}
}

// Clear clears all messages
func (m *Model) Clear() {
	m.messages = nil
	m.viewport.SetContent("")
	m.atBottom = true
}

// IsEmpty returns true if there are no messages
func (m Model) IsEmpty() bool {
	return len(m.messages) == 0
}

// ScrollUp scrolls up by one line
func (m *Model) ScrollUp() {
	m.viewport.LineUp(1)
	m.atBottom = m.viewport.AtBottom()
}

// ScrollDown scrolls down by one line
func (m *Model) ScrollDown() {
	m.viewport.LineDown(1)
	m.atBottom = m.viewport.AtBottom()
}

// PageUp scrolls up by one page
func (m *Model) PageUp() {
	m.viewport.ViewUp()
	m.atBottom = m.viewport.AtBottom()
}

// PageDown scrolls down by one page
func (m *Model) PageDown() {
	m.viewport.ViewDown()
	m.atBottom = m.viewport.AtBottom()
}

// ScrollToBottom scrolls to the bottom of the chat
func (m *Model) ScrollToBottom() {
	m.viewport.GotoBottom()
	m.atBottom = true
}

// ToggleThinking toggles the display of reasoning content
func (m *Model) ToggleThinking() {
	m.showThinking = !m.showThinking
	m.updateContent()
}

// IsShowingThinking returns true if reasoning content is shown
func (m Model) IsShowingThinking() bool {
	return m.showThinking
}

// ToggleMarkdownRendering toggles markdown rendering and re-renders
func (m *Model) ToggleMarkdownRendering() bool {
	enabled := ToggleMarkdown()
	m.updateContent()
	return enabled
}
