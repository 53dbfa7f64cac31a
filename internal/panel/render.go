package panel

// ArrowState tells the display whether a rail arrow has a target.
type ArrowState int

const (
	ArrowDisabled ArrowState = iota
	ArrowEnabled
)

func arrowState(id PageID) ArrowState {
	if id == NoPage {
		return ArrowDisabled
	}
	return ArrowEnabled
}

// Rail is the state of the three navigation arrows.
type Rail struct {
	Next     ArrowState
	Previous ArrowState
	Back     ArrowState
}

// Control is the glyph drawn in a cell's control strip.
type Control int

const (
	ControlNone Control = iota
	ControlStepper
	ControlDots
	ControlDivider
)

func controlFor(k Kind) Control {
	switch k {
	case KindSetpoint, KindSlider:
		return ControlStepper
	case KindSelection:
		return ControlDots
	case KindSwitch:
		return ControlDivider
	default:
		return ControlNone
	}
}

// Cell is the draw instruction for one element.
type Cell struct {
	Index     int
	Rect      Rect
	Identity  string
	Title     string
	Icon      string
	Status    string
	Kind      Kind
	HasDetail bool
	Control   Control
	Visible   bool
}

// Frame is the draw instruction for a whole page.
type Frame struct {
	Identity string
	Title    string
	Index    int
	Pages    int
	Rail     Rail
	Cells    []Cell
}

// RedrawMode distinguishes partial from full refreshes.
type RedrawMode int

const (
	RedrawNone RedrawMode = iota
	RedrawCell
	RedrawRail
	RedrawFull
)

func (m RedrawMode) String() string {
	switch m {
	case RedrawCell:
		return "cell"
	case RedrawRail:
		return "rail"
	case RedrawFull:
		return "full"
	default:
		return "none"
	}
}

// Redraw names the region the display has to refresh.
type Redraw struct {
	Mode RedrawMode
	Cell int
	Rect Rect
}

// Render produces the draw instructions for page id. Arrow states are
// computed once here.
func (t *Tree) Render(id PageID, l Layout) Frame {
	page := t.Page(id)
	if page == nil {
		return Frame{}
	}
	frame := Frame{
		Identity: page.Identity,
		Title:    page.Title,
		Index:    page.Index,
		Pages:    t.chainLength(id),
		Rail: Rail{
			Next:     arrowState(page.Next),
			Previous: arrowState(page.Previous),
			Back:     arrowState(t.Back(id)),
		},
		Cells: make([]Cell, 0, page.Len()),
	}
	for i, eid := range page.Elements {
		frame.Cells = append(frame.Cells, t.renderCell(eid, i, l))
	}
	return frame
}

// RenderCell produces the draw instruction for one slot of page id.
func (t *Tree) RenderCell(id PageID, index int, l Layout) (Cell, bool) {
	page := t.Page(id)
	if page == nil || index < 0 || index >= page.Len() {
		return Cell{}, false
	}
	return t.renderCell(page.Elements[index], index, l), true
}

func (t *Tree) renderCell(eid ElementID, index int, l Layout) Cell {
	el := t.Element(eid)
	return Cell{
		Index:     index,
		Rect:      l.ElementRect(index),
		Identity:  el.Identity,
		Title:     el.Title,
		Icon:      el.Icon,
		Status:    el.Status,
		Kind:      el.Kind,
		HasDetail: el.Detail != NoPage,
		Control:   controlFor(el.Kind),
		Visible:   el.Visible,
	}
}

// chainLength counts the pages of the chain id belongs to.
func (t *Tree) chainLength(id PageID) int {
	first := id
	for page := t.Page(first); page != nil && page.Previous != NoPage; page = t.Page(first) {
		first = page.Previous
	}
	return len(t.Chain(first))
}
