package backend

import (
	"context"
	"sync"
	"time"

	"github.com/atomicstack/sitemap-panel/internal/logging/events"
	"github.com/atomicstack/sitemap-panel/internal/openhab"
	"github.com/atomicstack/sitemap-panel/internal/sitemap"
)

// Kind represents the type of data emitted by the backend watcher.
type Kind int

const (
	// KindSitemap carries a freshly fetched *sitemap.Sitemap.
	KindSitemap Kind = iota
	// KindPatch carries a sitemap.Patch pushed for one widget.
	KindPatch
	// KindSubscribed carries the event stream location.
	KindSubscribed
)

func (k Kind) String() string {
	switch k {
	case KindSitemap:
		return "sitemap"
	case KindPatch:
		return "patch"
	case KindSubscribed:
		return "subscribed"
	default:
		return "unknown"
	}
}

// Event conveys updated data or an error from the backend.
type Event struct {
	Kind Kind
	Data interface{}
	Err  error
}

// Source is where sitemaps and pushed updates come from.
type Source interface {
	Sitemap(ctx context.Context) (*sitemap.Sitemap, error)
	Subscribe(ctx context.Context) (string, error)
	Stream(ctx context.Context, location string, fn func(openhab.Message)) error
}

// Options tunes the watcher loops.
type Options struct {
	// Refresh is the interval between full reloads; zero disables them.
	Refresh time.Duration
	// Resubscribe is the minimum interval between subscribe attempts.
	Resubscribe time.Duration
}

const defaultResubscribe = time.Second

// Watcher fetches the sitemap, reloads it periodically or on request, and
// keeps an event subscription open, publishing everything as events.
type Watcher struct {
	source Source
	opts   Options

	ctx    context.Context
	cancel context.CancelFunc

	refresh chan string
	events  chan Event
	wg      sync.WaitGroup
}

// NewWatcher starts the refresh poller and the subscription loop.
func NewWatcher(source Source, opts Options) *Watcher {
	if opts.Resubscribe <= 0 {
		opts.Resubscribe = defaultResubscribe
	}
	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		source:  source,
		opts:    opts,
		ctx:     ctx,
		cancel:  cancel,
		refresh: make(chan string, 1),
		events:  make(chan Event, 16),
	}

	w.wg.Add(2)
	go w.pollSitemap()
	go w.subscribe()

	go func() {
		w.wg.Wait()
		close(w.events)
	}()

	return w
}

// Events returns a channel of backend events.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Refresh asks for an immediate reload. Requests made while one is pending
// collapse into it.
func (w *Watcher) Refresh(reason string) {
	select {
	case w.refresh <- reason:
	default:
	}
}

// Stop cancels the watcher. Loops exit after their current request completes;
// use Wait if a clean drain is required (e.g. in tests).
func (w *Watcher) Stop() {
	w.cancel()
}

// Wait blocks until both loops have exited and the events channel is
// closed. Call after Stop when a clean shutdown is required.
func (w *Watcher) Wait() {
	w.wg.Wait()
}

func (w *Watcher) emit(evt Event) bool {
	select {
	case <-w.ctx.Done():
		return false
	case w.events <- evt:
		return true
	}
}

func (w *Watcher) pollSitemap() {
	defer w.wg.Done()

	fetch := func(reason string) bool {
		events.Backend.Refresh(reason)
		sm, err := w.source.Sitemap(w.ctx)
		if err != nil {
			events.Backend.Error("sitemap", err)
		}
		return w.emit(Event{Kind: KindSitemap, Data: sm, Err: err})
	}

	if !fetch("start") {
		return
	}

	var tick <-chan time.Time
	if w.opts.Refresh > 0 {
		ticker := time.NewTicker(w.opts.Refresh)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-tick:
			if !fetch("interval") {
				return
			}
		case reason := <-w.refresh:
			if !fetch(reason) {
				return
			}
		}
	}
}

func (w *Watcher) subscribe() {
	defer w.wg.Done()

	throttle := newThrottle(w.opts.Resubscribe)
	for throttle.wait(w.ctx) {
		location, err := w.source.Subscribe(w.ctx)
		if err != nil {
			events.Backend.Error("subscribe", err)
			if !w.emit(Event{Kind: KindSubscribed, Err: err}) {
				return
			}
			continue
		}
		events.Backend.Subscribe(location)
		if !w.emit(Event{Kind: KindSubscribed, Data: location}) {
			return
		}
		err = w.source.Stream(w.ctx, location, w.forward)
		if w.ctx.Err() != nil {
			return
		}
		if err != nil {
			events.Backend.Error("stream", err)
		}
	}
}

// forward turns stream messages into events. A changed sitemap is reloaded
// through the refresh poller.
func (w *Watcher) forward(msg openhab.Message) {
	events.Backend.Message(msg.Kind.String(), msg.Patch.WidgetID)
	switch msg.Kind {
	case openhab.MessageWidget:
		w.emit(Event{Kind: KindPatch, Data: msg.Patch})
	case openhab.MessageSitemapChanged:
		w.Refresh("sitemap-changed")
	}
}
