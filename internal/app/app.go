package app

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"weft/internal/components/chat"
	"weft/internal/components/input"
	"weft/internal/components/spinner"
	"weft/internal/components/toast"
	"weft/internal/engine"
	"weft/internal/logger"
	"weft/internal/messages"
	"weft/sdk/agent"
)

// SharedState holds state shared between model copies. Bubbletea copies the
// model on every update, so the program handle lives behind a pointer.
type SharedState struct {
	mu      sync.Mutex
	program *tea.Program
}

// SetProgram sets the program reference
func (s *SharedState) SetProgram(p *tea.Program) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.program = p
}

// GetProgram gets the program reference
func (s *SharedState) GetProgram() *tea.Program {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.program
}

// Model is the main application model. All conversation state lives in the
// reconciliation engine; the model only holds presentation state and the
// latest snapshot.
type Model struct {
	chat    chat.Model
	input   input.Model
	toast   toast.Model
	spinner spinner.Model

	client *agent.Client
	engine *engine.Reconciler
	shared *SharedState

	snapshot engine.Snapshot
	session  *agent.Session
	sessions []agent.Session
	model    *agent.ModelInfo

	width        int
	height       int
	ready        bool
	inputFocused bool

	streamCancel context.CancelFunc
}

// Options configures the app.
type Options struct {
	Client    *agent.Client
	Directory string
	Model     *agent.ModelInfo
}

// New creates the app model and its engine.
func New(opts Options) *Model {
	shared := &SharedState{}

	m := &Model{
		chat:         chat.New(80, 20),
		input:        input.New(80),
		toast:        toast.New(),
		spinner:      spinner.New(spinner.StyleDots),
		client:       opts.Client,
		shared:       shared,
		model:        opts.Model,
		inputFocused: true,
	}

	m.engine = engine.New(engine.Config{
		Directory: opts.Directory,
		OnChange: func(snap engine.Snapshot) {
			if p := shared.GetProgram(); p != nil {
				p.Send(messages.SnapshotMsg{Snapshot: snap})
			}
		},
	})
	m.snapshot = m.engine.Snapshot()

	return m
}

// SetProgram wires the tea program in for engine callbacks and the stream
// pump. Must be called before Run.
func (m *Model) SetProgram(p *tea.Program) {
	m.shared.SetProgram(p)
}

// Init starts the health check, the event stream and session bootstrap.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.input.Init(),
		m.checkHealth(),
		m.startStream(),
		m.bootstrap(),
		m.loadSessions(),
	)
}

// Close tears down the engine and the event stream.
func (m *Model) Close() {
	if m.streamCancel != nil {
		m.streamCancel()
	}
	m.engine.Close()
	logger.Info("app closed")
}
