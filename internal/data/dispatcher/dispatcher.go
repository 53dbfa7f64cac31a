package dispatcher

import (
	"errors"

	"github.com/atomicstack/sitemap-panel/internal/backend"
	"github.com/atomicstack/sitemap-panel/internal/logging"
	"github.com/atomicstack/sitemap-panel/internal/logging/events"
	"github.com/atomicstack/sitemap-panel/internal/panel"
	"github.com/atomicstack/sitemap-panel/internal/sitemap"
)

// Result reports what an event changed on the panel.
type Result struct {
	Rebuilt    bool
	Reset      bool
	Patched    bool
	Subscribed bool
	Dropped    bool
	Redraw     panel.Redraw
	Frame      panel.Frame
	Cell       panel.Cell
	Identity   string
	Sitemap    string
	Location   string
	Err        error
}

// Dispatcher applies backend events to the engine. Trees are built here,
// outside the engine's critical section. Handle is safe to call from a
// background goroutine while touches run on another.
type Dispatcher struct {
	engine *panel.Engine
}

func New(engine *panel.Engine) *Dispatcher {
	return &Dispatcher{engine: engine}
}

func (d *Dispatcher) Handle(evt backend.Event) Result {
	var res Result
	if evt.Err != nil {
		logging.Errorf(evt.Kind.String(), evt.Err)
		res.Err = evt.Err
		return res
	}
	switch evt.Kind {
	case backend.KindSitemap:
		if sm, ok := evt.Data.(*sitemap.Sitemap); ok && sm != nil {
			d.rebuild(sm, &res)
		}
	case backend.KindPatch:
		if patch, ok := evt.Data.(sitemap.Patch); ok {
			d.patch(patch, &res)
		}
	case backend.KindSubscribed:
		if location, ok := evt.Data.(string); ok {
			res.Subscribed = true
			res.Location = location
		}
	}
	return res
}

func (d *Dispatcher) rebuild(sm *sitemap.Sitemap, res *Result) {
	tree := panel.Build(sm.Homepage)
	swap, err := d.engine.Replace(tree)
	if d.dropped("rebuild", err, res) {
		return
	}
	events.Panel.Rebuild(sm.Name, tree.PageCount(), swap.Reset)
	if swap.Reset {
		events.Panel.Navigate(swap.Previous, swap.Current)
	}
	res.Rebuilt = true
	res.Reset = swap.Reset
	res.Sitemap = sm.Name
	res.Frame = swap.Frame
	res.Identity = swap.Current
	res.Redraw = panel.Redraw{Mode: panel.RedrawFull}
}

func (d *Dispatcher) patch(p sitemap.Patch, res *Result) {
	out, err := d.engine.Patch(p)
	if d.dropped("patch", err, res) {
		return
	}
	events.Panel.Patch(p.WidgetID, out.Update.Found, out.Update.Redraw)
	res.Patched = out.Update.Found
	res.Redraw = out.Redraw
	res.Cell = out.Cell
	res.Identity = out.Current
}

func (d *Dispatcher) dropped(op string, err error, res *Result) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, panel.ErrBusy) {
		events.Panel.Busy(op)
		res.Dropped = true
		return true
	}
	res.Err = err
	return true
}
