package ui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/sitemap-panel/internal/logging/events"
	"github.com/atomicstack/sitemap-panel/internal/panel"
	"github.com/atomicstack/sitemap-panel/internal/ui/command"
)

// point is a terminal cell.
type point struct {
	x int
	y int
}

type flashDoneMsg struct {
	seq int
}

func (m *Model) handleKeyMsg(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	if m.palette != nil {
		return m.handlePaletteKey(key)
	}
	switch key.String() {
	case "ctrl+c", "q":
		return tea.Quit
	case "n", "right", "pgdown":
		return m.tapArrow(panel.ArrowNext)
	case "p", "left", "pgup":
		return m.tapArrow(panel.ArrowPrevious)
	case "b", "backspace", "esc":
		return m.tapArrow(panel.ArrowBack)
	case "r":
		if m.backend != nil {
			m.backend.Refresh("manual")
			m.setInfo("reloading sitemap")
		}
		return nil
	case "/", "g":
		m.openPalette()
		return nil
	case "1", "2", "3", "4", "5", "6":
		return m.tapCell(int(key.Runes[0] - '1'))
	}
	return nil
}

func (m *Model) handleMouseMsg(msg tea.Msg) tea.Cmd {
	ev, ok := msg.(tea.MouseMsg)
	if !ok {
		return nil
	}
	if m.palette != nil {
		switch ev.Button {
		case tea.MouseButtonWheelUp:
			m.palette.MoveCursor(-1)
		case tea.MouseButtonWheelDown:
			m.palette.MoveCursor(1)
		}
		return nil
	}
	switch ev.Button {
	case tea.MouseButtonWheelUp:
		return m.tapArrow(panel.ArrowPrevious)
	case tea.MouseButtonWheelDown:
		return m.tapArrow(panel.ArrowNext)
	}
	switch ev.Action {
	case tea.MouseActionPress:
		if ev.Button == tea.MouseButtonLeft {
			m.press = &point{x: ev.X, y: ev.Y}
		}
	case tea.MouseActionRelease:
		press := m.press
		m.press = nil
		if press == nil {
			return nil
		}
		x, y, ok := m.panelPoint(*press)
		if !ok {
			return nil
		}
		return m.touch(x, y)
	}
	return nil
}

// panelPoint maps the centre of terminal cell p to panel coordinates.
func (m *Model) panelPoint(p point) (int, int, bool) {
	cols, rows := m.size()
	if p.x < 0 || p.y < 0 || p.x >= cols || p.y >= rows {
		return 0, 0, false
	}
	l := m.engine.Layout()
	x := (2*p.x + 1) * l.Width / (2 * cols)
	y := (2*p.y + 1) * l.Height / (2 * rows)
	return x, y, true
}

func (m *Model) tapArrow(arrow int) tea.Cmd {
	r := m.engine.Layout().ArrowRect(arrow)
	return m.touch(r.X+r.W/2, r.Y+r.H/2)
}

func (m *Model) tapCell(index int) tea.Cmd {
	r := m.engine.Layout().CellRect(index)
	return m.touch(r.X+r.W/2, r.Y+r.H/2)
}

// touch routes one touch through the engine, updates the screen and starts
// the highlight flash and any item command.
func (m *Model) touch(x, y int) tea.Cmd {
	previous := m.frame.Identity
	res, err := m.engine.Touch(x, y)
	if err != nil {
		m.noteEngineError("touch", err)
		return nil
	}
	events.Panel.Touch(x, y, res.Touch.Zone.String(), res.Current)
	if res.Current != previous {
		events.Panel.Navigate(previous, res.Current)
	}
	switch res.Redraw.Mode {
	case panel.RedrawFull, panel.RedrawCell:
		m.frame = res.Frame
	}

	cmds := make([]tea.Cmd, 0, 2)
	if !res.Touch.Highlight.Empty() {
		m.flashSeq++
		m.flash = res.Touch.Highlight
		seq := m.flashSeq
		cmds = append(cmds, tea.Tick(flashDuration, func(time.Time) tea.Msg {
			return flashDoneMsg{seq: seq}
		}))
	}
	if res.Command != nil {
		cmds = append(cmds, m.bus.Execute(*res.Command))
	}
	return tea.Batch(cmds...)
}

func (m *Model) handleFlashDoneMsg(msg tea.Msg) tea.Cmd {
	done, ok := msg.(flashDoneMsg)
	if !ok || done.seq != m.flashSeq {
		return nil
	}
	m.flash = panel.Rect{}
	return nil
}

func (m *Model) handleCommandResultMsg(msg tea.Msg) tea.Cmd {
	res, ok := msg.(command.ResultMsg)
	if !ok {
		return nil
	}
	switch {
	case res.Err != nil:
		m.errMsg = fmt.Sprintf("command %s: %v", res.Command.WidgetID, res.Err)
	case !res.Skipped:
		m.setInfo(fmt.Sprintf("sent %s", res.Command.Value))
	}
	return nil
}
