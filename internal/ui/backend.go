package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/sitemap-panel/internal/backend"
	"github.com/atomicstack/sitemap-panel/internal/data/dispatcher"
	"github.com/atomicstack/sitemap-panel/internal/panel"
)

// waitForBackendEvent runs on a command goroutine: trees are built and
// patches applied there, so touches routed by Update only ever wait for the
// engine's short critical section.
func waitForBackendEvent(w *backend.Watcher, d *dispatcher.Dispatcher) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-w.Events()
		if !ok {
			return backendDoneMsg{}
		}
		return dispatchBackendEvent(d, evt)
	}
}

func dispatchBackendEvent(d *dispatcher.Dispatcher, evt backend.Event) backendEventMsg {
	return backendEventMsg{kind: evt.Kind, result: d.Handle(evt)}
}

// backendEventMsg carries an event already applied to the engine.
type backendEventMsg struct {
	kind   backend.Kind
	result dispatcher.Result
}

type backendDoneMsg struct{}

func (m *Model) handleBackendEventMsg(msg tea.Msg) tea.Cmd {
	eventMsg, ok := msg.(backendEventMsg)
	if !ok {
		return nil
	}
	m.applyBackendResult(eventMsg.kind, eventMsg.result)
	if m.backend != nil {
		return waitForBackendEvent(m.backend, m.dispatcher)
	}
	return nil
}

func (m *Model) handleBackendDoneMsg(msg tea.Msg) tea.Cmd {
	m.backend = nil
	m.live = false
	return nil
}

func (m *Model) applyBackendResult(kind backend.Kind, res dispatcher.Result) {
	if res.Err != nil {
		m.errMsg = fmt.Sprintf("%s: %v", kind, res.Err)
		if kind == backend.KindSubscribed {
			m.live = false
		}
		return
	}
	if res.Dropped {
		m.dropped++
		return
	}
	if res.Subscribed {
		m.live = true
		m.errMsg = ""
	}
	if res.Rebuilt {
		m.sitemap = res.Sitemap
		m.loading = false
		m.errMsg = ""
		if res.Reset {
			m.setInfo("page removed, back to home")
		}
		m.refreshPalette()
	}
	switch res.Redraw.Mode {
	case panel.RedrawFull:
		// A touch may have moved the cursor since the swap.
		if frame, err := m.engine.Frame(); err == nil {
			m.frame = frame
		} else {
			m.frame = res.Frame
		}
	case panel.RedrawCell:
		if res.Identity == m.frame.Identity {
			m.setCell(res.Cell)
		}
	}
}

func (m *Model) setCell(cell panel.Cell) {
	if cell.Index < 0 || cell.Index >= len(m.frame.Cells) {
		return
	}
	cells := append([]panel.Cell(nil), m.frame.Cells...)
	cells[cell.Index] = cell
	m.frame.Cells = cells
}
