package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"weft/internal/engine"
	"weft/internal/logger"
	"weft/internal/messages"
)

// startStream opens the SSE subscription and pumps raw envelopes into the
// engine. The engine never reconnects on its own; when the stream dies the
// app flags the connection and schedules a retry.
func (m *Model) startStream() tea.Cmd {
	ctx, cancel := context.WithCancel(context.Background())
	m.streamCancel = cancel
	m.engine.SetConnection(engine.ConnConnecting)

	return func() tea.Msg {
		eventCh, errCh, err := m.client.Subscribe(ctx)
		if err != nil {
			return messages.StreamClosedMsg{Err: err}
		}

		for {
			select {
			case <-ctx.Done():
				return messages.StreamClosedMsg{}
			case err := <-errCh:
				return messages.StreamClosedMsg{Err: err}
			case env, ok := <-eventCh:
				if !ok {
					return messages.StreamClosedMsg{}
				}
				m.engine.HandleEnvelope(env.Raw)
			}
		}
	}
}

// retryStream waits a beat before reopening the stream.
func (m *Model) retryStream() tea.Cmd {
	logger.Info("event stream closed, reconnecting")
	return tea.Tick(2*time.Second, func(time.Time) tea.Msg {
		return retryStreamMsg{}
	})
}

type retryStreamMsg struct{}
