package command

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/atomicstack/sitemap-panel/internal/logging/events"
	"github.com/atomicstack/sitemap-panel/internal/panel"
)

// DefaultTimeout bounds a single item command request.
const DefaultTimeout = 5 * time.Second

// Sender delivers a command value to an item link.
type Sender interface {
	Send(ctx context.Context, link, value string) error
}

// ResultMsg reports the outcome of a dispatched command.
type ResultMsg struct {
	ID      string
	Command panel.Command
	Skipped bool
	Err     error
}

// Bus turns panel commands into Bubble Tea commands that post them to the
// backend.
type Bus struct {
	sender  Sender
	timeout time.Duration
}

// New initialises a command bus. A nil sender skips every command.
func New(sender Sender, timeout time.Duration) *Bus {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Bus{sender: sender, timeout: timeout}
}

// Execute queues cmd. Unchanged values and commands without a link are
// skipped without contacting the backend.
func (b *Bus) Execute(cmd panel.Command) tea.Cmd {
	id := uuid.NewString()
	events.Command.Queue(id, cmd.WidgetID, cmd.Value)
	return func() tea.Msg {
		if b.sender == nil || !cmd.Changed || cmd.Link == "" {
			events.Command.Skip(id, cmd.WidgetID)
			return ResultMsg{ID: id, Command: cmd, Skipped: true}
		}
		ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
		defer cancel()
		if err := b.sender.Send(ctx, cmd.Link, cmd.Value); err != nil {
			events.Command.Error(id, err)
			return ResultMsg{ID: id, Command: cmd, Err: err}
		}
		events.Command.Sent(id, cmd.WidgetID, cmd.Value)
		return ResultMsg{ID: id, Command: cmd}
	}
}
