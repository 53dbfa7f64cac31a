package panel

import (
	"strconv"

	"github.com/atomicstack/sitemap-panel/internal/sitemap"
)

// Build constructs a complete tree from a homepage description. A nil or
// partially malformed description still yields a navigable tree: missing
// fields degrade to empty strings and unknown widget types to KindText.
func Build(home *sitemap.PageDesc) *Tree {
	if home == nil {
		home = &sitemap.PageDesc{}
	}
	b := &builder{tree: &Tree{root: NoPage}}
	chain := b.buildChain(b.widgetsSource(home), NoElement)
	b.tree.root = chain[0]
	return b.tree
}

type builder struct {
	tree *Tree
}

// chainSource describes the records one chain of pages is built from.
type chainSource struct {
	title    string
	count    int
	identity func(index int) string
	element  func(host PageID, index int) ElementID
}

// pageCount returns ceil(count/Capacity), with at least one page so an empty
// source still has something to display.
func pageCount(count int) int {
	pages := (count + Capacity - 1) / Capacity
	if pages < 1 {
		return 1
	}
	return pages
}

// buildChain builds every page of a source and returns them in order, linked
// through Next/Previous.
func (b *builder) buildChain(src chainSource, owner ElementID) []PageID {
	total := pageCount(src.count)
	chain := make([]PageID, 0, total)
	for index := 0; index < total; index++ {
		chain = append(chain, b.buildPage(src, owner, index))
	}
	b.link(chain)
	return chain
}

// buildPage builds the page at index: the records from index*Capacity up to
// Capacity of them, plus everything those records own.
func (b *builder) buildPage(src chainSource, owner ElementID, index int) PageID {
	id := PageID(len(b.tree.pages))
	b.tree.pages = append(b.tree.pages, Page{
		Identity: src.identity(index),
		Title:    src.title,
		Index:    index,
		Next:     NoPage,
		Previous: NoPage,
		Owner:    owner,
	})
	offset := index * Capacity
	n := src.count - offset
	if n > Capacity {
		n = Capacity
	}
	if n < 0 {
		n = 0
	}
	elements := make([]ElementID, 0, n)
	for i := 0; i < n; i++ {
		elements = append(elements, src.element(id, offset+i))
	}
	b.tree.pages[id].Elements = elements
	return id
}

func (b *builder) link(chain []PageID) {
	for i := 1; i < len(chain); i++ {
		b.tree.pages[chain[i-1]].Next = chain[i]
		b.tree.pages[chain[i]].Previous = chain[i-1]
	}
}

func pageSource(desc *sitemap.PageDesc) chainSource {
	return chainSource{
		title: desc.DisplayTitle(),
		count: len(desc.Widgets),
		identity: func(index int) string {
			return desc.ID + "_" + strconv.Itoa(index)
		},
	}
}

func (b *builder) widgetsSource(desc *sitemap.PageDesc) chainSource {
	src := pageSource(desc)
	src.element = func(host PageID, index int) ElementID {
		return b.buildElement(host, desc.Widgets[index])
	}
	return src
}

// nestedSource treats a widget carrying its own widgets (a Frame, typically)
// as the description of its detail pages.
func (b *builder) nestedSource(w *sitemap.Widget) chainSource {
	return chainSource{
		title: sitemap.ParseLabel(w.Label),
		count: len(w.Widgets),
		identity: func(index int) string {
			return w.WidgetID + "_" + strconv.Itoa(index)
		},
		element: func(host PageID, index int) ElementID {
			return b.buildElement(host, w.Widgets[index])
		},
	}
}

func (b *builder) choicesSource(selection ElementID) chainSource {
	sel := b.tree.elements[selection]
	options := sel.Record.StateOptions()
	return chainSource{
		title: sel.Title,
		count: len(options),
		identity: func(index int) string {
			return sel.Identity + "_choices_" + strconv.Itoa(index)
		},
		element: func(host PageID, index int) ElementID {
			return b.buildChoice(host, selection, index)
		},
	}
}

func (b *builder) buildElement(host PageID, w *sitemap.Widget) ElementID {
	id := ElementID(len(b.tree.elements))
	kind := KindText
	if w != nil {
		kind = ParseKind(w.Type)
	}
	b.tree.elements = append(b.tree.elements, Element{
		Kind:    kind,
		Host:    host,
		Record:  w,
		Detail:  NoPage,
		Choices: NoPage,
	})
	derive(&b.tree.elements[id])

	if kind == KindSelection {
		chain := b.buildChain(b.choicesSource(id), id)
		b.tree.elements[id].Choices = chain[0]
	}

	if w == nil {
		return id
	}
	switch {
	case len(w.Widgets) > 0:
		chain := b.buildChain(b.nestedSource(w), id)
		b.tree.elements[id].Detail = chain[0]
	case w.LinkedPage != nil:
		chain := b.buildChain(b.widgetsSource(w.LinkedPage), id)
		b.tree.elements[id].Detail = chain[0]
	}
	return id
}

func (b *builder) buildChoice(host PageID, selection ElementID, index int) ElementID {
	sel := b.tree.elements[selection]
	option := sel.Record.StateOptions()[index]
	title := option.Label
	if title == "" {
		title = option.Key()
	}
	id := ElementID(len(b.tree.elements))
	b.tree.elements = append(b.tree.elements, Element{
		Identity: sel.Identity + "_choice_" + strconv.Itoa(index),
		Title:    title,
		Visible:  true,
		Kind:     KindChoice,
		Host:     host,
		Record:   sel.Record,
		Detail:   NoPage,
		Choices:  NoPage,
	})
	return id
}

// derive recomputes the display fields of an element from its record and
// reports whether any of them changed.
func derive(el *Element) bool {
	w := el.Record
	var identity, icon string
	if w != nil {
		identity = w.WidgetID
		icon = w.Icon
	}
	title := w.Title()
	status := w.Status()
	visible := w.Visible()

	changed := el.Identity != identity ||
		el.Title != title ||
		el.Icon != icon ||
		el.Status != status ||
		el.Visible != visible

	el.Identity = identity
	el.Title = title
	el.Icon = icon
	el.Status = status
	el.Visible = visible
	return changed
}
