package backend

import (
	"sync"
	"time"
)

// DefaultDebounce coalesces bursts of file writes into one reload.
const DefaultDebounce = 250 * time.Millisecond

// debouncer runs only the last callback of a burst, once the burst has been
// quiet for the configured duration.
type debouncer struct {
	duration time.Duration

	mu    sync.Mutex
	timer *time.Timer
}

func newDebouncer(duration time.Duration) *debouncer {
	if duration <= 0 {
		duration = DefaultDebounce
	}
	return &debouncer{duration: duration}
}

func (d *debouncer) trigger(callback func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.duration, callback)
}

func (d *debouncer) cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
