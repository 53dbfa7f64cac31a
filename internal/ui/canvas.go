package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/truncate"

	"github.com/atomicstack/sitemap-panel/internal/panel"
)

// glyph is one terminal cell. A zero rune marks the right half of a wide
// rune.
type glyph struct {
	r     rune
	style *lipgloss.Style
}

// area is a half-open block of terminal cells.
type area struct {
	x0, y0, x1, y1 int
}

func (a area) width() int  { return a.x1 - a.x0 }
func (a area) height() int { return a.y1 - a.y0 }

// canvas scales panel geometry onto a grid of terminal cells.
type canvas struct {
	cols   int
	rows   int
	layout panel.Layout
	cells  [][]glyph
}

func newCanvas(cols, rows int, layout panel.Layout) *canvas {
	c := &canvas{cols: cols, rows: rows, layout: layout, cells: make([][]glyph, rows)}
	for y := range c.cells {
		row := make([]glyph, cols)
		for x := range row {
			row[x] = glyph{r: ' '}
		}
		c.cells[y] = row
	}
	return c
}

// scale maps a panel rectangle to the terminal cells it covers. Non-empty
// rectangles always cover at least one cell.
func (c *canvas) scale(r panel.Rect) area {
	if r.Empty() {
		return area{}
	}
	a := area{
		x0: r.X * c.cols / c.layout.Width,
		y0: r.Y * c.rows / c.layout.Height,
		x1: (r.X + r.W) * c.cols / c.layout.Width,
		y1: (r.Y + r.H) * c.rows / c.layout.Height,
	}
	if a.x1 <= a.x0 {
		a.x1 = a.x0 + 1
	}
	if a.y1 <= a.y0 {
		a.y1 = a.y0 + 1
	}
	return c.clip(a)
}

func (c *canvas) clip(a area) area {
	a.x0 = clamp(a.x0, 0, c.cols)
	a.x1 = clamp(a.x1, 0, c.cols)
	a.y0 = clamp(a.y0, 0, c.rows)
	a.y1 = clamp(a.y1, 0, c.rows)
	return a
}

func (c *canvas) fill(a area, style *lipgloss.Style) {
	for y := a.y0; y < a.y1; y++ {
		for x := a.x0; x < a.x1; x++ {
			c.cells[y][x] = glyph{r: ' ', style: style}
		}
	}
}

// restyle recolours a without touching its text.
func (c *canvas) restyle(a area, style *lipgloss.Style) {
	for y := a.y0; y < a.y1; y++ {
		for x := a.x0; x < a.x1; x++ {
			c.cells[y][x].style = style
		}
	}
}

// write puts text on row of a, truncated to the area width and optionally
// centred.
func (c *canvas) write(a area, row int, text string, center bool, style *lipgloss.Style) {
	y := a.y0 + row
	width := a.width()
	if y < a.y0 || y >= a.y1 || width <= 0 || text == "" {
		return
	}
	text = truncate.StringWithTail(text, uint(width), "…")
	x := a.x0
	if center {
		x += (width - runewidth.StringWidth(text)) / 2
	}
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if x+w > a.x1 {
			break
		}
		c.cells[y][x] = glyph{r: r, style: style}
		if w == 2 {
			c.cells[y][x+1] = glyph{style: style}
		}
		x += w
	}
}

// String renders the grid, styling runs of cells that share a style.
func (c *canvas) String() string {
	lines := make([]string, c.rows)
	var run strings.Builder
	for y, row := range c.cells {
		var line strings.Builder
		var current *lipgloss.Style
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if current != nil {
				line.WriteString(current.Render(run.String()))
			} else {
				line.WriteString(run.String())
			}
			run.Reset()
		}
		for _, g := range row {
			if g.style != current {
				flush()
				current = g.style
			}
			if g.r != 0 {
				run.WriteRune(g.r)
			}
		}
		flush()
		lines[y] = line.String()
	}
	return strings.Join(lines, "\n")
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
