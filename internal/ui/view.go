package ui

import (
	"fmt"
	"strings"

	"github.com/muesli/reflow/truncate"

	"github.com/atomicstack/sitemap-panel/internal/format/table"
	"github.com/atomicstack/sitemap-panel/internal/panel"
)

const (
	loadingText = "Loading sitemap…"
	helpText    = "n/p/b page  / jump  r reload  q quit"
)

var arrowLabels = [...]string{
	panel.ArrowNext:     "Next >",
	panel.ArrowPrevious: "< Prev",
	panel.ArrowBack:     "^ Back",
}

// View implements tea.Model.
func (m *Model) View() string {
	cols, rows := m.size()
	if cols <= 0 || rows <= 0 {
		return ""
	}
	c := newCanvas(cols, rows, m.engine.Layout())
	if m.loading {
		c.write(area{x1: cols, y0: rows / 2, y1: rows/2 + 1}, 0, loadingText, true, styles.Info)
	} else {
		m.drawFrame(c)
	}
	if !m.flash.Empty() {
		c.restyle(c.scale(m.flash), styles.Flash)
	}
	if m.palette != nil {
		m.drawPalette(c)
	}
	return c.String() + "\n" + m.statusLine(cols)
}

func (m *Model) drawFrame(c *canvas) {
	l := c.layout
	title := c.scale(l.TitleRect())
	c.fill(title, styles.Title)
	c.write(title, 0, m.frame.Title, true, styles.Title)
	if m.frame.Pages > 1 {
		c.write(title, title.height()-1, fmt.Sprintf("%d/%d", m.frame.Index+1, m.frame.Pages), true, styles.PageIndex)
	}

	states := [...]panel.ArrowState{m.frame.Rail.Next, m.frame.Rail.Previous, m.frame.Rail.Back}
	for i, state := range states {
		a := c.scale(l.ArrowRect(i))
		style := styles.ArrowDisabled
		if state == panel.ArrowEnabled {
			style = styles.Arrow
		}
		c.fill(a, style)
		c.write(a, a.height()/2, arrowLabels[i], true, style)
	}

	for _, cell := range m.frame.Cells {
		if cell.Visible {
			m.drawCell(c, cell)
		}
	}
}

func (m *Model) drawCell(c *canvas, cell panel.Cell) {
	l := c.layout
	box := c.scale(cell.Rect)
	c.fill(box, styles.Cell)

	name := cell.Title
	if cell.Icon != "" && box.width() > 20 {
		name = fmt.Sprintf("[%s] %s", cell.Icon, name)
	}
	head := box
	if cell.HasDetail && head.width() > 1 {
		head.x1--
		c.write(area{x0: head.x1, y0: box.y0, x1: box.x1, y1: box.y0 + 1}, 0, ">", false, styles.CellDetail)
	}
	c.write(head, 0, name, false, styles.Cell)

	strip := area{}
	if cell.Control != panel.ControlNone {
		strip = c.scale(l.ControlRect(cell.Index))
	}
	body := box
	if strip.height() > 0 && strip.y0 > body.y0 {
		body.y1 = strip.y0
	}
	if cell.Status != "" {
		row := body.height() / 2
		if row == 0 && body.height() > 1 {
			row = 1
		}
		c.write(body, row, cell.Status, true, styles.CellStatus)
	}

	switch cell.Control {
	case panel.ControlStepper:
		c.fill(strip, styles.Control)
		minus := c.scale(l.HalfControlRect(cell.Index, false))
		plus := c.scale(l.HalfControlRect(cell.Index, true))
		c.write(minus, minus.height()/2, "-", true, styles.Control)
		c.write(plus, plus.height()/2, "+", true, styles.Control)
	case panel.ControlDots:
		c.fill(strip, styles.Control)
		c.write(strip, strip.height()/2, "...", true, styles.Control)
	case panel.ControlDivider:
		c.fill(strip, styles.Control)
		c.write(strip, strip.height()/2, "on/off", true, styles.Control)
	}
}

// paletteRows is the number of list rows the palette box shows.
func (m *Model) paletteRows() int {
	box := paletteBox(m.size())
	if h := box.height() - 2; h > 0 {
		return h
	}
	return 1
}

func paletteBox(cols, rows int) area {
	w := cols * 3 / 4
	if w < 20 {
		w = cols
	}
	h := rows * 3 / 4
	if h < 4 {
		h = rows
	}
	x0 := (cols - w) / 2
	y0 := (rows - h) / 2
	return area{x0: x0, y0: y0, x1: x0 + w, y1: y0 + h}
}

func (m *Model) drawPalette(c *canvas) {
	box := c.clip(paletteBox(c.cols, c.rows))
	c.fill(box, styles.Palette)
	c.write(box, 0, m.palette.Title, true, styles.Palette)

	list := area{x0: box.x0 + 1, y0: box.y0 + 2, x1: box.x1 - 1, y1: box.y1}
	items := m.palette.Visible(list.height())
	if len(items) == 0 {
		msg := "(no pages)"
		if m.palette.Filter != "" {
			msg = fmt.Sprintf("No matches for %q", m.palette.Filter)
		}
		c.write(list, 0, msg, false, styles.Palette)
		return
	}
	rows := make([][]string, len(items))
	for i, item := range items {
		rows[i] = []string{strings.Repeat("  ", item.Depth) + item.Label, item.ID}
	}
	for i, line := range table.Format(rows, nil) {
		style := styles.PaletteItem
		if m.palette.ViewportOffset+i == m.palette.Cursor {
			style = styles.PaletteActive
			c.fill(area{x0: list.x0, y0: list.y0 + i, x1: list.x1, y1: list.y0 + i + 1}, style)
		}
		c.write(list, i, line, false, style)
	}
}

func (m *Model) statusLine(cols int) string {
	if m.palette != nil {
		return m.filterPrompt(cols)
	}
	if m.errMsg != "" {
		return styles.Error.Render(truncate.StringWithTail("Error: "+m.errMsg, uint(cols), "…"))
	}
	parts := make([]string, 0, 4)
	if m.sitemap != "" {
		parts = append(parts, m.sitemap)
	}
	if m.frame.Identity != "" {
		parts = append(parts, m.frame.Identity)
	}
	if m.live {
		parts = append(parts, "live")
	} else {
		parts = append(parts, "offline")
	}
	if info := m.currentInfo(); info != "" {
		parts = append(parts, info)
	} else {
		parts = append(parts, helpText)
	}
	return styles.Status.Render(truncate.StringWithTail(strings.Join(parts, " · "), uint(cols), "…"))
}

func (m *Model) filterPrompt(cols int) string {
	const prompt = "jump> "
	runes := []rune(m.palette.Filter)
	pos := clamp(m.palette.FilterCursor, 0, len(runes))
	char := " "
	after := ""
	if pos < len(runes) {
		char = string(runes[pos])
		after = string(runes[pos+1:])
	}
	m.filterCursor.SetChar(char)
	before := truncate.String(string(runes[:pos]), uint(clamp(cols-len(prompt)-1, 0, cols)))
	return styles.FilterPrompt.Render(prompt) +
		styles.Filter.Render(before) +
		m.filterCursor.View() +
		styles.Filter.Render(after)
}
