package sitemap

import "strings"

// ParseLabel strips a trailing "[state]" hint from a label: "Kitchen [ON]"
// becomes "Kitchen". Labels without a complete bracket pair are only trimmed.
func ParseLabel(label string) string {
	open := strings.LastIndex(label, "[")
	closing := strings.LastIndex(label, "]")
	if open == -1 || closing == -1 {
		return strings.TrimSpace(label)
	}
	return strings.TrimSpace(label[:open])
}

// StateHint returns the bracketed state of a label and whether one was found.
func StateHint(label string) (string, bool) {
	open := strings.LastIndex(label, "[")
	closing := strings.LastIndex(label, "]")
	if open == -1 || closing == -1 || closing < open {
		return "", false
	}
	return strings.TrimSpace(label[open+1 : closing]), true
}

// RawState returns the widget state, falling back to the item state.
func (w *Widget) RawState() (string, bool) {
	if w == nil {
		return "", false
	}
	if w.State != nil {
		return *w.State, true
	}
	if w.Item != nil && w.Item.State != nil {
		return *w.Item.State, true
	}
	return "", false
}

// Title returns the display title of the widget. An empty widget label falls
// back to the item label.
func (w *Widget) Title() string {
	if w == nil {
		return ""
	}
	title := ParseLabel(w.Label)
	if title == "" && w.Item != nil {
		title = ParseLabel(w.Item.Label)
	}
	return title
}

// Status returns the display status: the label's state hint when present,
// otherwise the raw state translated to an option label when one matches.
func (w *Widget) Status() string {
	if w == nil {
		return ""
	}
	if hint, ok := StateHint(w.Label); ok {
		return hint
	}
	state, ok := w.RawState()
	if !ok {
		return ""
	}
	for _, option := range w.Options() {
		if option.Key() == state {
			return option.Label
		}
	}
	return state
}

// DisplayTitle returns the page title; the homepage carries a title, linked pages
// and nested widget groups carry labels.
func (p *PageDesc) DisplayTitle() string {
	if p == nil {
		return ""
	}
	return ParseLabel(p.Label + p.Title)
}
