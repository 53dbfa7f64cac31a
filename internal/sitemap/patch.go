package sitemap

// Patch is a partial widget update pushed by the server. Only non-nil fields
// are applied.
type Patch struct {
	WidgetID   string     `json:"widgetId"`
	Label      *string    `json:"label,omitempty"`
	State      *string    `json:"state,omitempty"`
	Visibility *bool      `json:"visibility,omitempty"`
	Item       *PatchItem `json:"item,omitempty"`
}

// PatchItem carries the item portion of a patch.
type PatchItem struct {
	State *string `json:"state,omitempty"`
}

// Empty reports whether the patch carries no fields at all.
func (p Patch) Empty() bool {
	return p.Label == nil && p.State == nil && p.Visibility == nil && (p.Item == nil || p.Item.State == nil)
}

// Merge writes the patch fields into the widget in place.
func (p Patch) Merge(w *Widget) {
	if w == nil {
		return
	}
	if p.State != nil {
		w.State = StringOf(*p.State)
	}
	if p.Label != nil {
		w.Label = *p.Label
	}
	if p.Visibility != nil {
		v := *p.Visibility
		w.Visibility = &v
	}
	if p.Item != nil && p.Item.State != nil {
		if w.Item == nil {
			w.Item = &Item{}
		}
		w.Item.State = StringOf(*p.Item.State)
	}
}
