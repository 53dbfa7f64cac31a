package state

// Item is one page offered by the jump palette.
type Item struct {
	// ID is the page identity passed back to the engine.
	ID    string
	Label string
	Depth int
}

// Palette holds the jump list: every item, the filtered view, the query
// being typed and the highlighted row.
type Palette struct {
	Title          string
	Full           []Item
	Items          []Item
	Filter         string
	FilterCursor   int
	Cursor         int
	ViewportOffset int
}

// NewPalette builds a palette over items with the cursor on the first row.
func NewPalette(title string, items []Item) *Palette {
	p := &Palette{Title: title}
	p.SetItems(items)
	return p
}

// SetItems swaps the item list, keeping the highlighted page when it is
// still present.
func (p *Palette) SetItems(items []Item) {
	keep := ""
	if cur, ok := p.Current(); ok {
		keep = cur.ID
	}
	p.Full = append([]Item(nil), items...)
	p.Items = FilterItems(p.Full, p.Filter)
	p.Cursor = 0
	if idx := p.IndexOf(keep); idx >= 0 {
		p.Cursor = idx
	}
	p.ViewportOffset = 0
}

// IndexOf returns the filtered row holding id, or -1.
func (p *Palette) IndexOf(id string) int {
	if id == "" {
		return -1
	}
	for i, item := range p.Items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

// Current returns the highlighted item.
func (p *Palette) Current() (Item, bool) {
	if p == nil || p.Cursor < 0 || p.Cursor >= len(p.Items) {
		return Item{}, false
	}
	return p.Items[p.Cursor], true
}
