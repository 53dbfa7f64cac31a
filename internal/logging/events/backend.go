package events

import "github.com/atomicstack/sitemap-panel/internal/logging"

type BackendTracer struct{}

var Backend = BackendTracer{}

func (BackendTracer) Subscribe(location string) {
	logging.Trace("backend.subscribe", map[string]interface{}{"location": location})
}

func (BackendTracer) Message(kind, widgetID string) {
	logging.Trace("backend.message", map[string]interface{}{"kind": kind, "widget": widgetID})
}

func (BackendTracer) Refresh(source string) {
	logging.Trace("backend.refresh", map[string]interface{}{"source": source})
}

func (BackendTracer) Error(kind string, err error) {
	if err == nil {
		return
	}
	logging.Trace("backend.error", map[string]interface{}{"kind": kind, "error": err.Error()})
}
