// Package panel holds the dashboard tree engine: a paginated page/element
// tree built from a sitemap description, touch routing into navigation and
// control actions, in-place propagation of pushed widget updates, and the
// mapping of control actions onto outbound commands.
//
// Pages and elements live in an arena owned by Tree and reference each other
// by integer keys (PageID, ElementID). Ownership runs downward only: a page
// lists its elements, an element names its detail and choices chains. The
// upward keys (Page.Owner, Element.Host, Page.Previous) are lookups, never
// ownership, so a rebuilt tree can replace the old one wholesale.
package panel

import "github.com/atomicstack/sitemap-panel/internal/sitemap"

// Capacity is the maximum number of elements on a page.
const (
	Capacity = 6
	Rows     = 2
	Cols     = 3
)

// PageID addresses a page inside a Tree.
type PageID int

// ElementID addresses an element inside a Tree.
type ElementID int

// NoPage and NoElement mark absent references.
const (
	NoPage    PageID    = -1
	NoElement ElementID = -1
)

// Kind is the widget type an element renders as.
type Kind int

const (
	KindText Kind = iota
	KindFrame
	KindSelection
	KindChoice
	KindSetpoint
	KindSlider
	KindSwitch
)

var kindNames = map[Kind]string{
	KindText:      "Text",
	KindFrame:     "Frame",
	KindSelection: "Selection",
	KindChoice:    "Choice",
	KindSetpoint:  "Setpoint",
	KindSlider:    "Slider",
	KindSwitch:    "Switch",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Text"
}

// ParseKind classifies a widget type tag. Unknown tags become KindText.
// Choice is synthetic and never parsed from a description.
func ParseKind(tag string) Kind {
	switch tag {
	case "Frame":
		return KindFrame
	case "Selection":
		return KindSelection
	case "Setpoint":
		return KindSetpoint
	case "Slider":
		return KindSlider
	case "Switch":
		return KindSwitch
	default:
		return KindText
	}
}

// hasControlStrip reports whether the bottom strip of the cell is a control
// area rather than part of the navigation area.
func (k Kind) hasControlStrip() bool {
	switch k {
	case KindSelection, KindSetpoint, KindSlider, KindSwitch:
		return true
	default:
		return false
	}
}

// Page is one screen of up to Capacity elements.
type Page struct {
	Identity string
	Title    string
	Index    int
	Elements []ElementID
	Next     PageID
	Previous PageID
	Owner    ElementID
}

// Len returns the number of elements on the page.
func (p *Page) Len() int { return len(p.Elements) }

// Element is a single dashboard cell bound to a widget record.
type Element struct {
	Identity string
	Title    string
	Icon     string
	Status   string
	Visible  bool
	Kind     Kind
	Detail   PageID
	Choices  PageID
	Host     PageID
	Record   *sitemap.Widget
}

// Tree is the arena holding every page and element of one built sitemap.
type Tree struct {
	pages    []Page
	elements []Element
	root     PageID
}

// Root returns the key of the first page of the root chain.
func (t *Tree) Root() PageID {
	if t == nil {
		return NoPage
	}
	return t.root
}

// Page returns the page for id, or nil for NoPage and unknown keys.
func (t *Tree) Page(id PageID) *Page {
	if t == nil || id < 0 || int(id) >= len(t.pages) {
		return nil
	}
	return &t.pages[id]
}

// Element returns the element for id, or nil for NoElement and unknown keys.
func (t *Tree) Element(id ElementID) *Element {
	if t == nil || id < 0 || int(id) >= len(t.elements) {
		return nil
	}
	return &t.elements[id]
}

// PageCount returns the number of pages in the arena.
func (t *Tree) PageCount() int {
	if t == nil {
		return 0
	}
	return len(t.pages)
}

// Identity returns the identity of the page, or "" when it does not exist.
func (t *Tree) Identity(id PageID) string {
	if p := t.Page(id); p != nil {
		return p.Identity
	}
	return ""
}

// Find locates a page by identity. The search is a deterministic pre-order
// walk: the page itself, then each element's choices and detail chains, then
// the next page of the chain. The first match wins.
func (t *Tree) Find(identity string) PageID {
	return t.find(t.Root(), identity)
}

func (t *Tree) find(id PageID, identity string) PageID {
	for id != NoPage {
		page := t.Page(id)
		if page == nil {
			return NoPage
		}
		if page.Identity == identity {
			return id
		}
		for _, eid := range page.Elements {
			el := t.Element(eid)
			if found := t.find(el.Choices, identity); found != NoPage {
				return found
			}
			if found := t.find(el.Detail, identity); found != NoPage {
				return found
			}
		}
		id = page.Next
	}
	return NoPage
}

// Back returns the page one drill-down level up: the page hosting the
// element that owns id's chain. Root chain pages have no back target.
func (t *Tree) Back(id PageID) PageID {
	page := t.Page(id)
	if page == nil {
		return NoPage
	}
	owner := t.Element(page.Owner)
	if owner == nil {
		return NoPage
	}
	return owner.Host
}

// ChoiceReturn returns the page a Choice element navigates back to after a
// selection: choice -> choices page -> Selection element -> its host page.
// This assumes choices chains hang directly off a Selection element.
func (t *Tree) ChoiceReturn(id ElementID) PageID {
	el := t.Element(id)
	if el == nil {
		return NoPage
	}
	return t.Back(el.Host)
}

// Depth counts the drill-down levels between id and the root chain.
func (t *Tree) Depth(id PageID) int {
	depth := 0
	for id = t.Back(id); id != NoPage; id = t.Back(id) {
		depth++
	}
	return depth
}

// Chain returns every page of the chain starting at id, following Next.
func (t *Tree) Chain(id PageID) []PageID {
	var out []PageID
	for page := t.Page(id); page != nil; page = t.Page(page.Next) {
		out = append(out, id)
		id = page.Next
	}
	return out
}

// Walk visits every reachable page in Find order.
func (t *Tree) Walk(fn func(PageID, *Page)) {
	t.walk(t.Root(), fn)
}

func (t *Tree) walk(id PageID, fn func(PageID, *Page)) {
	for id != NoPage {
		page := t.Page(id)
		if page == nil {
			return
		}
		fn(id, page)
		for _, eid := range page.Elements {
			el := t.Element(eid)
			t.walk(el.Choices, fn)
			t.walk(el.Detail, fn)
		}
		id = page.Next
	}
}
