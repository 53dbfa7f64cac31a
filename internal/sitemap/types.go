// Package sitemap models the server-side dashboard description: a homepage of
// widgets, nested widgets and linked pages, plus the partial updates pushed for
// individual widgets.
package sitemap

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Sitemap is the top-level document returned for a named sitemap.
type Sitemap struct {
	Name     string    `json:"name" yaml:"name"`
	Label    string    `json:"label" yaml:"label"`
	Link     string    `json:"link" yaml:"link"`
	Homepage *PageDesc `json:"homepage" yaml:"homepage"`
}

// PageDesc describes a page: the homepage or a widget's linked page.
type PageDesc struct {
	ID      string    `json:"id" yaml:"id"`
	Title   string    `json:"title" yaml:"title"`
	Label   string    `json:"label" yaml:"label"`
	Link    string    `json:"link" yaml:"link"`
	Leaf    bool      `json:"leaf" yaml:"leaf"`
	Widgets []*Widget `json:"widgets" yaml:"widgets"`
}

// Widget is one entry of a page. Elements of the panel tree keep a pointer to
// their widget and patches mutate it in place.
type Widget struct {
	WidgetID   string    `json:"widgetId" yaml:"widgetId"`
	Type       string    `json:"type" yaml:"type"`
	Label      string    `json:"label" yaml:"label"`
	Icon       string    `json:"icon" yaml:"icon"`
	State      *string   `json:"state,omitempty" yaml:"state,omitempty"`
	Visibility *bool     `json:"visibility,omitempty" yaml:"visibility,omitempty"`
	Item       *Item     `json:"item,omitempty" yaml:"item,omitempty"`
	Mappings   []Option  `json:"mappings,omitempty" yaml:"mappings,omitempty"`
	Widgets    []*Widget `json:"widgets,omitempty" yaml:"widgets,omitempty"`
	LinkedPage *PageDesc `json:"linkedPage,omitempty" yaml:"linkedPage,omitempty"`
	MinValue   *Number   `json:"minValue,omitempty" yaml:"minValue,omitempty"`
	MaxValue   *Number   `json:"maxValue,omitempty" yaml:"maxValue,omitempty"`
	Step       *Number   `json:"step,omitempty" yaml:"step,omitempty"`
}

// Item is the backing item of a widget.
type Item struct {
	Name               string              `json:"name" yaml:"name"`
	Label              string              `json:"label" yaml:"label"`
	Type               string              `json:"type" yaml:"type"`
	Link               string              `json:"link" yaml:"link"`
	State              *string             `json:"state,omitempty" yaml:"state,omitempty"`
	StateDescription   *StateDescription   `json:"stateDescription,omitempty" yaml:"stateDescription,omitempty"`
	CommandDescription *CommandDescription `json:"commandDescription,omitempty" yaml:"commandDescription,omitempty"`
}

// StateDescription carries bounds and enumerated state options.
type StateDescription struct {
	Minimum  *Number  `json:"minimum,omitempty" yaml:"minimum,omitempty"`
	Maximum  *Number  `json:"maximum,omitempty" yaml:"maximum,omitempty"`
	Step     *Number  `json:"step,omitempty" yaml:"step,omitempty"`
	Pattern  string   `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	ReadOnly bool     `json:"readOnly,omitempty" yaml:"readOnly,omitempty"`
	Options  []Option `json:"options,omitempty" yaml:"options,omitempty"`
}

// CommandDescription lists the commands an item accepts.
type CommandDescription struct {
	CommandOptions []Option `json:"commandOptions,omitempty" yaml:"commandOptions,omitempty"`
}

// Option is a state option (value/label) or a command mapping (command/label).
type Option struct {
	Value   string `json:"value,omitempty" yaml:"value,omitempty"`
	Command string `json:"command,omitempty" yaml:"command,omitempty"`
	Label   string `json:"label" yaml:"label"`
}

// Key returns the value the option matches against: its value, or its command
// when no value is set.
func (o Option) Key() string {
	if o.Value != "" {
		return o.Value
	}
	return o.Command
}

// Number accepts both JSON numbers and numeric strings.
type Number float64

// Float returns the number as float64.
func (n Number) Float() float64 { return float64(n) }

// UnmarshalJSON implements json.Unmarshaler.
func (n *Number) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" || raw == "" {
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = s
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return fmt.Errorf("parse number %q: %w", raw, err)
	}
	*n = Number(v)
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (n *Number) UnmarshalYAML(node *yaml.Node) error {
	v, err := strconv.ParseFloat(strings.TrimSpace(node.Value), 64)
	if err != nil {
		return fmt.Errorf("parse number %q: %w", node.Value, err)
	}
	*n = Number(v)
	return nil
}

// NumberOf is a convenience for building descriptions in code.
func NumberOf(v float64) *Number {
	n := Number(v)
	return &n
}

// StringOf is a convenience for building descriptions in code.
func StringOf(s string) *string {
	return &s
}

// Visible reports whether the widget should be shown.
func (w *Widget) Visible() bool {
	return w == nil || w.Visibility == nil || *w.Visibility
}

// Options returns the list used to map raw states to labels: the widget's
// mappings, falling back to the item's state options.
func (w *Widget) Options() []Option {
	if w == nil {
		return nil
	}
	if len(w.Mappings) > 0 {
		return w.Mappings
	}
	if w.Item != nil && w.Item.StateDescription != nil {
		return w.Item.StateDescription.Options
	}
	return nil
}

// StateOptions returns the item's enumerated state options.
func (w *Widget) StateOptions() []Option {
	if w == nil || w.Item == nil || w.Item.StateDescription == nil {
		return nil
	}
	return w.Item.StateDescription.Options
}

// CommandOptions returns the item's command options.
func (w *Widget) CommandOptions() []Option {
	if w == nil || w.Item == nil || w.Item.CommandDescription == nil {
		return nil
	}
	return w.Item.CommandDescription.CommandOptions
}

// Link returns the item link commands are posted to.
func (w *Widget) Link() string {
	if w == nil || w.Item == nil {
		return ""
	}
	return w.Item.Link
}

// ItemState returns the item's raw state, or "" when unknown.
func (w *Widget) ItemState() string {
	if w == nil || w.Item == nil || w.Item.State == nil {
		return ""
	}
	return *w.Item.State
}
