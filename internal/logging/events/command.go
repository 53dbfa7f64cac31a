package events

import "github.com/atomicstack/sitemap-panel/internal/logging"

type CommandTracer struct{}

type PaletteTracer struct{}

var (
	Command = CommandTracer{}
	Palette = PaletteTracer{}
)

func (CommandTracer) Queue(id, widgetID, value string) {
	logging.Trace("command.queue", map[string]interface{}{"id": id, "widget": widgetID, "value": value})
}

func (CommandTracer) Skip(id, widgetID string) {
	logging.Trace("command.skip", map[string]interface{}{"id": id, "widget": widgetID})
}

func (CommandTracer) Sent(id, widgetID, value string) {
	logging.Trace("command.sent", map[string]interface{}{"id": id, "widget": widgetID, "value": value})
}

func (CommandTracer) Error(id string, err error) {
	if err == nil {
		return
	}
	logging.Trace("command.error", map[string]interface{}{"id": id, "error": err.Error()})
}

func (PaletteTracer) Open(pages int) {
	logging.Trace("palette.open", map[string]interface{}{"pages": pages})
}

func (PaletteTracer) Filter(query string, matches int) {
	logging.Trace("palette.filter", map[string]interface{}{"query": query, "matches": matches})
}

func (PaletteTracer) Choose(identity string) {
	logging.Trace("palette.choose", map[string]interface{}{"page": identity})
}
