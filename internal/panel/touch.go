package panel

// ActionKind is a control action produced by a touch.
type ActionKind int

const (
	ActionNone ActionKind = iota
	ActionIncrement
	ActionDecrement
	ActionToggle
	ActionSelect
)

func (a ActionKind) String() string {
	switch a {
	case ActionIncrement:
		return "increment"
	case ActionDecrement:
		return "decrement"
	case ActionToggle:
		return "toggle"
	case ActionSelect:
		return "select"
	default:
		return "none"
	}
}

// Action is a control action bound to the element it applies to.
type Action struct {
	Kind    ActionKind
	Element ElementID
}

// Zone is the part of the screen a touch landed in.
type Zone int

const (
	ZoneNone Zone = iota
	ZoneRail
	ZoneCell
	ZoneControl
)

func (z Zone) String() string {
	switch z {
	case ZoneRail:
		return "rail"
	case ZoneCell:
		return "cell"
	case ZoneControl:
		return "control"
	default:
		return "none"
	}
}

// Arrow indices on the rail, top to bottom.
const (
	ArrowNext = iota
	ArrowPrevious
	ArrowBack
)

// Touch is the routing result for one touch. Target is NoPage and Action is
// nil when the touch does nothing; Highlight is set whenever the touch
// landed in a live region.
type Touch struct {
	Found     bool
	Page      PageID
	Target    PageID
	Action    *Action
	Highlight Rect
	Zone      Zone
	Cell      int
}

// NoOp reports whether the touch produced neither navigation nor action.
func (t Touch) NoOp() bool { return t.Target == NoPage && t.Action == nil }

// Route resolves a touch at (x, y) on the page identified by current.
func (t *Tree) Route(current string, x, y int, l Layout) Touch {
	out := Touch{Page: NoPage, Target: NoPage, Cell: -1}
	id := t.Find(current)
	if id == NoPage {
		return out
	}
	out.Found = true
	out.Page = id
	if x <= l.NavWidth {
		t.routeRail(&out, x, y, l)
		return out
	}
	t.routeGrid(&out, x, y, l)
	return out
}

func (t *Tree) routeRail(out *Touch, x, y int, l Layout) {
	if x < 0 {
		return
	}
	ry := y - l.NavTitleHeight
	if ry < 0 || ry >= l.arrowAreaHeight() {
		return
	}
	arrow := ry / l.arrowHeight()
	if arrow > ArrowBack {
		return
	}
	out.Zone = ZoneRail
	out.Cell = arrow
	out.Highlight = l.ArrowRect(arrow)
	out.Target = t.arrowTarget(out.Page, arrow)
}

func (t *Tree) arrowTarget(id PageID, arrow int) PageID {
	page := t.Page(id)
	if page == nil {
		return NoPage
	}
	switch arrow {
	case ArrowNext:
		return page.Next
	case ArrowPrevious:
		return page.Previous
	case ArrowBack:
		return t.Back(id)
	}
	return NoPage
}

func (t *Tree) routeGrid(out *Touch, x, y int, l Layout) {
	ox, oy := l.gridOrigin()
	gx, gy := x-ox, y-oy
	if gx < 0 || gy < 0 {
		return
	}
	col, row := gx/l.CellSize, gy/l.CellSize
	if col >= Cols || row >= Rows {
		return
	}
	index := row*Cols + col
	page := t.Page(out.Page)
	if index >= page.Len() {
		return
	}
	eid := page.Elements[index]
	el := t.Element(eid)
	if !el.Visible {
		return
	}

	out.Cell = index
	lx, ly := gx-col*l.CellSize, gy-row*l.CellSize
	if el.Kind.hasControlStrip() && ly >= l.Margin+l.elementSize()-l.ControlHeight {
		out.Zone = ZoneControl
		t.routeControl(out, eid, el, lx, l)
		return
	}

	out.Zone = ZoneCell
	out.Highlight = l.ElementRect(index)
	switch {
	case el.Detail != NoPage:
		out.Target = el.Detail
	case el.Kind == KindChoice:
		out.Action = &Action{Kind: ActionSelect, Element: eid}
		out.Target = t.ChoiceReturn(eid)
	}
}

func (t *Tree) routeControl(out *Touch, eid ElementID, el *Element, lx int, l Layout) {
	out.Highlight = l.ControlRect(out.Cell)
	switch el.Kind {
	case KindSelection:
		out.Target = el.Choices
	case KindSetpoint, KindSlider:
		right := lx >= l.CellSize/2
		out.Highlight = l.HalfControlRect(out.Cell, right)
		kind := ActionDecrement
		if right {
			kind = ActionIncrement
		}
		out.Action = &Action{Kind: kind, Element: eid}
	case KindSwitch:
		out.Action = &Action{Kind: ActionToggle, Element: eid}
	}
}
