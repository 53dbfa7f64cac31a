package ui

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/atomicstack/sitemap-panel/internal/backend"
	"github.com/atomicstack/sitemap-panel/internal/panel"
	"github.com/atomicstack/sitemap-panel/internal/sitemap"
)

func TestBackendCommandAppliesEventBeforeUpdate(t *testing.T) {
	data, err := json.Marshal(demoSitemap(""))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	path := filepath.Join(t.TempDir(), "demo.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	w := backend.NewWatcher(backend.NewFileSource(path, 0), backend.Options{})
	defer func() {
		w.Stop()
		for range w.Events() {
		}
	}()

	engine := panel.NewEngine(panel.DefaultLayout(), 50*time.Millisecond)
	m := NewModel(Options{Engine: engine, Watcher: w, Width: 96, Height: 28})
	cmd := m.Init()
	for i := 0; i < 3; i++ {
		msg, ok := cmd().(backendEventMsg)
		if !ok {
			t.Fatalf("expected backend event message")
		}
		if msg.kind != backend.KindSitemap {
			continue
		}
		// The engine already holds the new tree; the model has not seen it.
		frame, err := engine.Frame()
		if err != nil || frame.Identity != "demo_0" {
			t.Fatalf("expected engine on demo_0 before Update, got %q err=%v", frame.Identity, err)
		}
		if m.Frame().Identity != "" {
			t.Fatalf("expected model frame untouched, got %q", m.Frame().Identity)
		}
		m.Update(msg)
		if m.Frame().Identity != "demo_0" {
			t.Fatalf("expected model on demo_0 after Update, got %q", m.Frame().Identity)
		}
		return
	}
	t.Fatalf("sitemap event never arrived")
}

func TestPatchDroppedWhileTouchHoldsEngine(t *testing.T) {
	engine := panel.NewEngine(panel.DefaultLayout(), 10*time.Millisecond)
	h := NewHarness(NewModel(Options{Engine: engine, Width: 96, Height: 28}))
	deliver(h, backend.Event{Kind: backend.KindSitemap, Data: demoSitemap("")})

	release, err := engine.Hold()
	if err != nil {
		t.Fatalf("hold failed: %v", err)
	}
	msg := dispatchBackendEvent(h.Model().dispatcher, backend.Event{Kind: backend.KindPatch, Data: sitemap.Patch{
		WidgetID: "00",
		Item:     &sitemap.PatchItem{State: sitemap.StringOf("ON")},
	}})
	release()

	if !msg.result.Dropped {
		t.Fatalf("expected patch dropped, got %#v", msg.result)
	}
	h.Send(msg)
	if got := h.Model().dropped; got != 1 {
		t.Fatalf("expected 1 dropped event, got %d", got)
	}
	if got := h.Model().Frame().Cells[0].Status; got != "OFF" {
		t.Fatalf("expected status unchanged, got %q", got)
	}
}

func TestStaleResultsFollowTheCursor(t *testing.T) {
	h := loaded(t, nil, "")
	d := h.Model().dispatcher

	patch := dispatchBackendEvent(d, backend.Event{Kind: backend.KindPatch, Data: sitemap.Patch{
		WidgetID: "00",
		Item:     &sitemap.PatchItem{State: sitemap.StringOf("ON")},
	}})
	rebuild := dispatchBackendEvent(d, backend.Event{Kind: backend.KindSitemap, Data: demoSitemap("")})

	// The user moves to the rooms page before the results arrive.
	h.Send(keyRunes("2"))
	h.Send(patch)
	if got := h.Model().Frame().Cells[0].Title; got != "Kitchen" {
		t.Fatalf("expected rooms page cell untouched by home patch, got %q", got)
	}
	h.Send(rebuild)
	if got := h.Model().Frame().Identity; got != "rooms_0" {
		t.Fatalf("expected rebuild to keep the displayed page, got %q", got)
	}
}
