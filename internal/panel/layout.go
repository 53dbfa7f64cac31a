package panel

// Rect is a rectangle in panel pixel coordinates.
type Rect struct {
	X, Y, W, H int
}

// Empty reports whether the rectangle covers no area.
func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

// Contains reports whether the point lies inside the rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Intersects reports whether two rectangles overlap.
func (r Rect) Intersects(o Rect) bool {
	if r.Empty() || o.Empty() {
		return false
	}
	return r.X < o.X+o.W && o.X < r.X+r.W && r.Y < o.Y+o.H && o.Y < r.Y+r.H
}

// Layout is the panel geometry. The navigation rail occupies the left
// NavWidth pixels: a title block of NavTitleHeight at the top, then three
// arrows. The element grid starts one Margin right of the rail.
type Layout struct {
	Width          int
	Height         int
	Margin         int
	NavWidth       int
	NavTitleHeight int
	CellSize       int
	ControlHeight  int
}

// DefaultLayout matches a 960x540 e-paper panel.
func DefaultLayout() Layout {
	return Layout{
		Width:          960,
		Height:         540,
		Margin:         5,
		NavWidth:       140,
		NavTitleHeight: 60,
		CellSize:       265,
		ControlHeight:  60,
	}
}

// Normalize fills zero fields from DefaultLayout.
func (l Layout) Normalize() Layout {
	d := DefaultLayout()
	if l.Width <= 0 {
		l.Width = d.Width
	}
	if l.Height <= 0 {
		l.Height = d.Height
	}
	if l.Margin < 0 {
		l.Margin = d.Margin
	}
	if l.NavWidth <= 0 {
		l.NavWidth = d.NavWidth
	}
	if l.NavTitleHeight <= 0 {
		l.NavTitleHeight = d.NavTitleHeight
	}
	if l.CellSize <= 0 {
		l.CellSize = d.CellSize
	}
	if l.ControlHeight <= 0 {
		l.ControlHeight = d.ControlHeight
	}
	return l
}

// arrowAreaHeight is the height of the three-arrow block in the rail.
func (l Layout) arrowAreaHeight() int {
	return l.Height - 2*l.NavTitleHeight
}

func (l Layout) arrowHeight() int {
	return l.arrowAreaHeight() / 3
}

// ArrowRect returns the touch/highlight area of rail arrow i (0 next,
// 1 previous, 2 back).
func (l Layout) ArrowRect(i int) Rect {
	h := l.arrowHeight()
	return Rect{X: 2 * l.Margin, Y: l.NavTitleHeight + h*i, W: l.NavWidth - 4*l.Margin, H: h}
}

// TitleRect is the rail block holding the page title.
func (l Layout) TitleRect() Rect {
	return Rect{X: l.Margin, Y: l.Margin, W: l.NavWidth - l.Margin, H: l.NavTitleHeight - l.Margin}
}

// gridOrigin is the top-left corner of the element grid.
func (l Layout) gridOrigin() (int, int) {
	return l.NavWidth + l.Margin, l.Margin
}

// elementSize is the drawn size of an element inside its cell.
func (l Layout) elementSize() int {
	return l.CellSize - 2*l.Margin
}

// CellRect returns the full cell area of grid slot index.
func (l Layout) CellRect(index int) Rect {
	ox, oy := l.gridOrigin()
	col := index % Cols
	row := index / Cols
	return Rect{X: ox + col*l.CellSize, Y: oy + row*l.CellSize, W: l.CellSize, H: l.CellSize}
}

// ElementRect returns the drawn element box inside the cell.
func (l Layout) ElementRect(index int) Rect {
	cell := l.CellRect(index)
	size := l.elementSize()
	return Rect{X: cell.X + l.Margin, Y: cell.Y + l.Margin, W: size, H: size}
}

// ControlRect returns the bottom control strip of the element box.
func (l Layout) ControlRect(index int) Rect {
	el := l.ElementRect(index)
	return Rect{X: el.X, Y: el.Y + el.H - l.ControlHeight, W: el.W, H: l.ControlHeight}
}

// HalfControlRect returns the left (minus) or right (plus) half of the strip.
func (l Layout) HalfControlRect(index int, right bool) Rect {
	strip := l.ControlRect(index)
	half := strip.W / 2
	if right {
		return Rect{X: strip.X + half, Y: strip.Y, W: half, H: strip.H}
	}
	return Rect{X: strip.X, Y: strip.Y, W: half, H: strip.H}
}
