package panel

import (
	"math"
	"strconv"
	"strings"

	"github.com/atomicstack/sitemap-panel/internal/sitemap"
)

// Default control parameters when neither the widget nor its item says otherwise.
const (
	DefaultStep    = 10
	DefaultMinimum = 0
	DefaultMaximum = 100
)

// Canonical switch states used when a switch has no mapping list.
const (
	StateOn  = "ON"
	StateOff = "OFF"
)

// Command is an outbound value for the item behind a widget.
type Command struct {
	WidgetID string
	Link     string
	Value    string
	Changed  bool
}

// Dispatch maps a control action on an element to the command it sends. It
// reads the element's record and never mutates the tree. The boolean is false
// when the action produces no command.
func Dispatch(el *Element, kind ActionKind) (Command, bool) {
	if el == nil {
		return Command{}, false
	}
	w := el.Record
	var (
		value   string
		changed = true
		ok      bool
	)
	switch kind {
	case ActionToggle:
		value, ok = toggle(w)
	case ActionIncrement:
		value, changed, ok = step(w, 1)
	case ActionDecrement:
		value, changed, ok = step(w, -1)
	case ActionSelect:
		value, ok = selectOption(w, el.Title)
	}
	if !ok {
		return Command{}, false
	}
	return Command{
		WidgetID: widgetID(w),
		Link:     w.Link(),
		Value:    value,
		Changed:  changed,
	}, true
}

func widgetID(w *sitemap.Widget) string {
	if w == nil {
		return ""
	}
	return w.WidgetID
}

// mappingList is the ordered command list a switch cycles through.
func mappingList(w *sitemap.Widget) []sitemap.Option {
	if w == nil {
		return nil
	}
	if len(w.Mappings) > 0 {
		return w.Mappings
	}
	return w.CommandOptions()
}

func toggle(w *sitemap.Widget) (string, bool) {
	options := mappingList(w)
	if len(options) == 0 {
		state, _ := w.RawState()
		if state == "" {
			state = w.Status()
		}
		if strings.EqualFold(state, StateOn) {
			return StateOff, true
		}
		return StateOn, true
	}
	current := w.ItemState()
	for i, option := range options {
		if option.Command == current {
			return options[(i+1)%len(options)].Command, true
		}
	}
	return options[0].Command, true
}

func step(w *sitemap.Widget, direction float64) (string, bool, bool) {
	if w == nil {
		return "", false, false
	}
	var desc *sitemap.StateDescription
	if w.Item != nil {
		desc = w.Item.StateDescription
	}
	increment := pick(w.Step, descField(desc, func(d *sitemap.StateDescription) *sitemap.Number { return d.Step }), DefaultStep)
	minimum := pick(w.MinValue, descField(desc, func(d *sitemap.StateDescription) *sitemap.Number { return d.Minimum }), DefaultMinimum)
	maximum := pick(w.MaxValue, descField(desc, func(d *sitemap.StateDescription) *sitemap.Number { return d.Maximum }), DefaultMaximum)

	state, _ := w.RawState()
	current := leadingNumber(state)
	places := maxInt(decimals(increment), decimals(minimum), decimals(maximum), decimals(current))
	next := roundTo(current+direction*increment, places)
	if next > maximum {
		next = maximum
	}
	if next < minimum {
		next = minimum
	}
	return formatNumber(next, places), next != roundTo(current, places), true
}

func descField(desc *sitemap.StateDescription, get func(*sitemap.StateDescription) *sitemap.Number) *sitemap.Number {
	if desc == nil {
		return nil
	}
	return get(desc)
}

func pick(override, fallback *sitemap.Number, def float64) float64 {
	if override != nil {
		return override.Float()
	}
	if fallback != nil {
		return fallback.Float()
	}
	return def
}

// leadingNumber parses the number a state string starts with ("21.5 °C"
// yields 21.5). Unparseable states count as zero.
func leadingNumber(state string) float64 {
	state = strings.TrimSpace(state)
	end := 0
	for end < len(state) {
		c := state[end]
		if (c >= '0' && c <= '9') || c == '.' || ((c == '-' || c == '+') && end == 0) {
			end++
			continue
		}
		break
	}
	for end > 0 {
		if v, err := strconv.ParseFloat(state[:end], 64); err == nil {
			return v
		}
		end--
	}
	return 0
}

// maxPlaces caps the precision of stepped values.
const maxPlaces = 6

// decimals counts the fractional digits of v's shortest decimal form.
func decimals(v float64) int {
	text := strconv.FormatFloat(v, 'f', -1, 64)
	dot := strings.IndexByte(text, '.')
	if dot < 0 {
		return 0
	}
	if n := len(text) - dot - 1; n < maxPlaces {
		return n
	}
	return maxPlaces
}

func maxInt(values ...int) int {
	out := 0
	for _, v := range values {
		if v > out {
			out = v
		}
	}
	return out
}

func roundTo(v float64, places int) float64 {
	scale := math.Pow10(places)
	return math.Round(v*scale) / scale
}

// formatNumber prints v with at most places fractional digits and no
// trailing zeros, so 60 stays "60" and 21.50 becomes "21.5".
func formatNumber(v float64, places int) string {
	text := strconv.FormatFloat(v, 'f', places, 64)
	if strings.IndexByte(text, '.') >= 0 {
		text = strings.TrimRight(text, "0")
		text = strings.TrimSuffix(text, ".")
	}
	if text == "-0" {
		return "0"
	}
	return text
}

func selectOption(w *sitemap.Widget, title string) (string, bool) {
	if w == nil {
		return "", false
	}
	if w.Item != nil && w.Item.CommandDescription != nil {
		for _, option := range w.Item.CommandDescription.CommandOptions {
			if option.Label == title {
				return option.Command, true
			}
		}
		return "", false
	}
	for _, option := range w.StateOptions() {
		if option.Label == title {
			return option.Key(), true
		}
	}
	return "", false
}
