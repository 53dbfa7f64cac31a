package ui

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/sitemap-panel/internal/logging/events"
	"github.com/atomicstack/sitemap-panel/internal/panel"
	uistate "github.com/atomicstack/sitemap-panel/internal/ui/state"
)

const paletteTitle = "Jump to page"

// paletteItems lists every reachable page for the jump palette.
func (m *Model) paletteItems() ([]uistate.Item, error) {
	pages, err := m.engine.Pages()
	if err != nil {
		return nil, err
	}
	items := make([]uistate.Item, 0, len(pages))
	for _, page := range pages {
		label := page.Title
		if label == "" {
			label = page.Identity
		}
		if page.Index > 0 {
			label = fmt.Sprintf("%s (%d)", label, page.Index+1)
		}
		items = append(items, uistate.Item{ID: page.Identity, Label: label, Depth: page.Depth})
	}
	return items, nil
}

func (m *Model) openPalette() {
	items, err := m.paletteItems()
	if err != nil {
		m.noteEngineError("palette", err)
		return
	}
	m.palette = uistate.NewPalette(paletteTitle, items)
	if idx := m.palette.IndexOf(m.frame.Identity); idx >= 0 {
		m.palette.Cursor = idx
	}
	events.Palette.Open(len(items))
}

// refreshPalette re-reads the page list after a rebuild.
func (m *Model) refreshPalette() {
	if m.palette == nil {
		return
	}
	items, err := m.paletteItems()
	if err != nil {
		m.noteEngineError("palette", err)
		return
	}
	m.palette.SetItems(items)
}

func (m *Model) closePalette() {
	m.palette = nil
}

func (m *Model) handlePaletteKey(key tea.KeyMsg) tea.Cmd {
	p := m.palette
	switch key.String() {
	case "ctrl+c":
		return tea.Quit
	case "esc":
		m.closePalette()
		return nil
	case "enter":
		m.choosePalette()
		return nil
	case "up", "ctrl+p":
		p.MoveCursor(-1)
		return nil
	case "down", "ctrl+n":
		p.MoveCursor(1)
		return nil
	case "pgup":
		p.MoveCursorPage(-1, m.paletteRows())
		return nil
	case "pgdown":
		p.MoveCursorPage(1, m.paletteRows())
		return nil
	case "ctrl+u":
		if p.Filter == "" {
			return nil
		}
		p.SetFilter("", 0)
	case "ctrl+w":
		if !p.DeleteFilterWordBackward() {
			return nil
		}
	default:
		switch key.Type {
		case tea.KeyBackspace, tea.KeyCtrlH:
			if !p.DeleteFilterRuneBackward() {
				return nil
			}
		case tea.KeySpace:
			p.InsertFilterText(" ")
		case tea.KeyRunes:
			if key.Alt || !p.InsertFilterText(string(key.Runes)) {
				return nil
			}
		default:
			return nil
		}
	}
	events.Palette.Filter(p.Filter, len(p.Items))
	return nil
}

func (m *Model) choosePalette() {
	item, ok := m.palette.Current()
	m.closePalette()
	if !ok {
		return
	}
	previous := m.frame.Identity
	frame, found, err := m.engine.Navigate(item.ID)
	if err != nil {
		m.noteEngineError("navigate", err)
		return
	}
	if !found {
		m.errMsg = fmt.Sprintf("page %s no longer exists", item.ID)
		return
	}
	events.Palette.Choose(item.ID)
	events.Panel.Navigate(previous, item.ID)
	m.frame = frame
}

func (m *Model) noteEngineError(op string, err error) {
	if errors.Is(err, panel.ErrBusy) {
		events.Panel.Busy(op)
		m.dropped++
		return
	}
	m.errMsg = err.Error()
}
