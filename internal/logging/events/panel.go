package events

import "github.com/atomicstack/sitemap-panel/internal/logging"

type PanelTracer struct{}

var Panel = PanelTracer{}

func (PanelTracer) Touch(x, y int, zone, current string) {
	logging.Trace("panel.touch", map[string]interface{}{"x": x, "y": y, "zone": zone, "page": current})
}

func (PanelTracer) Navigate(from, to string) {
	logging.Trace("panel.navigate", map[string]interface{}{"from": from, "to": to})
}

func (PanelTracer) Patch(widgetID string, found, redraw bool) {
	logging.Trace("panel.patch", map[string]interface{}{"widget": widgetID, "found": found, "redraw": redraw})
}

func (PanelTracer) Rebuild(sitemap string, pages int, reset bool) {
	logging.Trace("panel.rebuild", map[string]interface{}{"sitemap": sitemap, "pages": pages, "reset": reset})
}

func (PanelTracer) Busy(operation string) {
	logging.Trace("panel.busy", map[string]interface{}{"op": operation})
}
