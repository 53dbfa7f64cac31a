package dispatcher

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/atomicstack/sitemap-panel/internal/backend"
	"github.com/atomicstack/sitemap-panel/internal/logging"
	"github.com/atomicstack/sitemap-panel/internal/panel"
	"github.com/atomicstack/sitemap-panel/internal/sitemap"
)

func demo(state string) *sitemap.Sitemap {
	return &sitemap.Sitemap{
		Name: "demo",
		Homepage: &sitemap.PageDesc{ID: "demo", Title: "Demo", Widgets: []*sitemap.Widget{
			{WidgetID: "00", Type: "Switch", Label: "Lamp", Item: &sitemap.Item{State: sitemap.StringOf(state)}},
		}},
	}
}

func TestHandleSitemapRebuilds(t *testing.T) {
	d := New(panel.NewEngine(panel.DefaultLayout(), 50*time.Millisecond))
	res := d.Handle(backend.Event{Kind: backend.KindSitemap, Data: demo("OFF")})
	if !res.Rebuilt || res.Redraw.Mode != panel.RedrawFull || res.Frame.Identity != "demo_0" {
		t.Fatalf("expected rebuild with full redraw, got %#v", res)
	}
	if res.Frame.Cells[0].Status != "OFF" {
		t.Fatalf("expected status OFF, got %q", res.Frame.Cells[0].Status)
	}
}

func TestHandlePatch(t *testing.T) {
	d := New(panel.NewEngine(panel.DefaultLayout(), 50*time.Millisecond))
	d.Handle(backend.Event{Kind: backend.KindSitemap, Data: demo("OFF")})
	res := d.Handle(backend.Event{Kind: backend.KindPatch, Data: sitemap.Patch{
		WidgetID: "00",
		Item:     &sitemap.PatchItem{State: sitemap.StringOf("ON")},
	}})
	if !res.Patched || res.Redraw.Mode != panel.RedrawCell || res.Cell.Status != "ON" || res.Identity != "demo_0" {
		t.Fatalf("expected patched cell redraw, got %#v", res)
	}
	miss := d.Handle(backend.Event{Kind: backend.KindPatch, Data: sitemap.Patch{WidgetID: "99"}})
	if miss.Patched || miss.Redraw.Mode != panel.RedrawNone {
		t.Fatalf("expected miss, got %#v", miss)
	}
}

func TestHandleErrorsAndSubscriptions(t *testing.T) {
	logging.Configure(filepath.Join(t.TempDir(), "panel.log"))
	t.Cleanup(func() { logging.Configure("") })
	d := New(panel.NewEngine(panel.DefaultLayout(), 50*time.Millisecond))
	boom := errors.New("boom")
	if res := d.Handle(backend.Event{Kind: backend.KindSitemap, Err: boom}); res.Err != boom || res.Rebuilt {
		t.Fatalf("expected error result, got %#v", res)
	}
	res := d.Handle(backend.Event{Kind: backend.KindSubscribed, Data: "http://x/rest/sitemaps/events/1"})
	if !res.Subscribed || res.Location == "" {
		t.Fatalf("expected subscription result, got %#v", res)
	}
}

func TestHandleDropsWhileEngineHeld(t *testing.T) {
	engine := panel.NewEngine(panel.DefaultLayout(), 10*time.Millisecond)
	d := New(engine)
	d.Handle(backend.Event{Kind: backend.KindSitemap, Data: demo("OFF")})
	release, err := engine.Hold()
	if err != nil {
		t.Fatalf("hold failed: %v", err)
	}
	res := d.Handle(backend.Event{Kind: backend.KindPatch, Data: sitemap.Patch{
		WidgetID: "00",
		Item:     &sitemap.PatchItem{State: sitemap.StringOf("ON")},
	}})
	release()
	if !res.Dropped || res.Patched || res.Err != nil {
		t.Fatalf("expected dropped patch, got %#v", res)
	}
}
