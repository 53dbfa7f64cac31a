package panel

import "github.com/atomicstack/sitemap-panel/internal/sitemap"

// Update is the result of applying a pushed patch.
type Update struct {
	Found   bool
	Changed bool
	Redraw  bool
	Page    PageID
	Element ElementID
	Cell    int
}

// Apply merges patch into the element whose identity is widgetID. The search
// walks the page's own elements first, then each element's detail chain, then
// the next page. Redraw is set only when a display field changed and the
// hosting page is the one identified by current. An empty widgetID matches
// nothing.
func (t *Tree) Apply(widgetID string, patch sitemap.Patch, current string) Update {
	out := Update{Page: NoPage, Element: NoElement, Cell: -1}
	if widgetID == "" {
		return out
	}
	page, eid, cell := t.locate(t.Root(), widgetID)
	if eid == NoElement {
		return out
	}
	el := t.Element(eid)
	if el.Record == nil {
		el.Record = &sitemap.Widget{WidgetID: widgetID}
	}
	patch.Merge(el.Record)

	out.Found = true
	out.Page = page
	out.Element = eid
	out.Cell = cell
	out.Changed = derive(el)
	if out.Changed && el.Choices != NoPage {
		for _, id := range t.Chain(el.Choices) {
			t.Page(id).Title = el.Title
		}
	}
	out.Redraw = out.Changed && t.Identity(page) == current
	return out
}

func (t *Tree) locate(id PageID, widgetID string) (PageID, ElementID, int) {
	for id != NoPage {
		page := t.Page(id)
		if page == nil {
			break
		}
		for i, eid := range page.Elements {
			el := t.Element(eid)
			if el.Kind != KindChoice && el.Identity == widgetID {
				return id, eid, i
			}
		}
		for _, eid := range page.Elements {
			if p, e, c := t.locate(t.Element(eid).Detail, widgetID); e != NoElement {
				return p, e, c
			}
		}
		id = page.Next
	}
	return NoPage, NoElement, -1
}
