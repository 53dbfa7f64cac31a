package backend

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/atomicstack/sitemap-panel/internal/openhab"
	"github.com/atomicstack/sitemap-panel/internal/sitemap"
	"github.com/atomicstack/sitemap-panel/internal/testutil"
)

const doc = `{"name":"demo","homepage":{"id":"demo","title":"Demo","widgets":[
	{"widgetId":"00","type":"Switch","label":"Lamp","item":{"link":"x","state":"OFF"}}
]}}`

// waitFor reads events until one of kind arrives.
func waitFor(t *testing.T, w *Watcher, kind Kind, timeout time.Duration) Event {
	t.Helper()
	deadline := time.After(timeout)
	for {
		select {
		case evt, ok := <-w.Events():
			if !ok {
				t.Fatalf("events closed while waiting for %v", kind)
			}
			if evt.Kind == kind {
				return evt
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %v", kind)
		}
	}
}

func stop(t *testing.T, w *Watcher) {
	t.Helper()
	w.Stop()
	done := make(chan struct{})
	go func() {
		for range w.Events() {
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("watcher did not shut down")
	}
}

func TestWatcherAgainstServer(t *testing.T) {
	srv := testutil.NewOpenHAB(t)
	srv.SetSitemap("demo", []byte(doc))
	client, err := openhab.NewClient(srv.URL(), "demo")
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	w := NewWatcher(client, Options{Resubscribe: 10 * time.Millisecond})
	defer stop(t, w)

	first := waitFor(t, w, KindSitemap, 5*time.Second)
	sm, ok := first.Data.(*sitemap.Sitemap)
	if first.Err != nil || !ok || sm.Name != "demo" {
		t.Fatalf("unexpected sitemap event %#v", first)
	}
	if sub := waitFor(t, w, KindSubscribed, 5*time.Second); sub.Err != nil {
		t.Fatalf("subscribe failed: %v", sub.Err)
	}
	if !srv.WaitStreams(1, 5*time.Second) {
		t.Fatalf("stream never connected")
	}

	srv.Push(`{"widgetId":"00","item":{"state":"ON"}}`)
	patchEvt := waitFor(t, w, KindPatch, 5*time.Second)
	patch, ok := patchEvt.Data.(sitemap.Patch)
	if !ok || patch.WidgetID != "00" || *patch.Item.State != "ON" {
		t.Fatalf("unexpected patch event %#v", patchEvt)
	}

	srv.Push(`{"TYPE":"SITEMAP_CHANGED"}`)
	if evt := waitFor(t, w, KindSitemap, 5*time.Second); evt.Err != nil {
		t.Fatalf("reload failed: %v", evt.Err)
	}
}

func TestWatcherReportsFetchErrors(t *testing.T) {
	srv := testutil.NewOpenHAB(t)
	client, err := openhab.NewClient(srv.URL(), "missing")
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	w := NewWatcher(client, Options{Resubscribe: 10 * time.Millisecond})
	defer stop(t, w)
	if evt := waitFor(t, w, KindSitemap, 5*time.Second); evt.Err == nil {
		t.Fatalf("expected fetch error for unknown sitemap")
	}
}

type stubSource struct {
	fetches    atomic.Int32
	subscribes atomic.Int32
	failFirst  bool
}

func (s *stubSource) Sitemap(ctx context.Context) (*sitemap.Sitemap, error) {
	s.fetches.Add(1)
	return &sitemap.Sitemap{Name: "stub", Homepage: &sitemap.PageDesc{ID: "stub"}}, nil
}

func (s *stubSource) Subscribe(ctx context.Context) (string, error) {
	if s.subscribes.Add(1) == 1 && s.failFirst {
		return "", errors.New("refused")
	}
	return "stub", nil
}

func (s *stubSource) Stream(ctx context.Context, location string, fn func(openhab.Message)) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestWatcherRefreshOnRequest(t *testing.T) {
	src := &stubSource{}
	w := NewWatcher(src, Options{})
	defer stop(t, w)
	waitFor(t, w, KindSitemap, 5*time.Second)
	w.Refresh("manual")
	waitFor(t, w, KindSitemap, 5*time.Second)
	if got := src.fetches.Load(); got != 2 {
		t.Fatalf("expected 2 fetches, got %d", got)
	}
}

func TestWatcherPeriodicRefresh(t *testing.T) {
	src := &stubSource{}
	w := NewWatcher(src, Options{Refresh: 20 * time.Millisecond})
	defer stop(t, w)
	for i := 0; i < 3; i++ {
		waitFor(t, w, KindSitemap, 5*time.Second)
	}
}

func TestWatcherResubscribesAfterFailure(t *testing.T) {
	src := &stubSource{failFirst: true}
	w := NewWatcher(src, Options{Resubscribe: 10 * time.Millisecond})
	defer stop(t, w)
	if evt := waitFor(t, w, KindSubscribed, 5*time.Second); evt.Err == nil {
		t.Fatalf("expected first subscribe to fail")
	}
	if evt := waitFor(t, w, KindSubscribed, 5*time.Second); evt.Err != nil || evt.Data != "stub" {
		t.Fatalf("expected second subscribe to succeed, got %#v", evt)
	}
}

func TestFileSourceReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demo.json")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	w := NewWatcher(NewFileSource(path, 20*time.Millisecond), Options{})
	defer stop(t, w)

	waitFor(t, w, KindSitemap, 5*time.Second)
	if sub := waitFor(t, w, KindSubscribed, 5*time.Second); sub.Err != nil {
		t.Fatalf("subscribe failed: %v", sub.Err)
	}

	changed := []byte(`{"name":"changed","homepage":{"id":"demo","widgets":[]}}`)
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if err := os.WriteFile(path, changed, 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
		select {
		case evt := <-w.Events():
			if evt.Kind != KindSitemap {
				continue
			}
			sm, ok := evt.Data.(*sitemap.Sitemap)
			if ok && sm.Name == "changed" {
				return
			}
		case <-time.After(200 * time.Millisecond):
		}
	}
	t.Fatalf("file change never produced a reload")
}

func TestThrottleStopsOnCancel(t *testing.T) {
	th := newThrottle(time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	if !th.wait(ctx) {
		t.Fatalf("expected first slot to be free")
	}
	cancel()
	if th.wait(ctx) {
		t.Fatalf("expected cancelled wait to report false")
	}
}
