package panel

import (
	"errors"
	"time"

	"github.com/atomicstack/sitemap-panel/internal/sitemap"
)

// ErrBusy is returned when the engine could not be entered within the wait
// bound. The event is dropped, not queued.
var ErrBusy = errors.New("panel busy")

// DefaultWait bounds how long an event waits for the engine.
const DefaultWait = 250 * time.Millisecond

// Engine owns the live tree and the identity of the displayed page. Every
// operation runs inside one critical section entered with a bounded wait.
// Trees are built by the caller and handed over with Replace, so the section
// is held only for the swap.
type Engine struct {
	sem     chan struct{}
	wait    time.Duration
	layout  Layout
	tree    *Tree
	current string
}

// NewEngine returns an engine with no tree. Touches and patches are no-ops
// until the first Replace.
func NewEngine(layout Layout, wait time.Duration) *Engine {
	if wait <= 0 {
		wait = DefaultWait
	}
	return &Engine{
		sem:    make(chan struct{}, 1),
		wait:   wait,
		layout: layout.Normalize(),
	}
}

// Layout returns the engine geometry.
func (e *Engine) Layout() Layout { return e.layout }

func (e *Engine) enter() error {
	timer := time.NewTimer(e.wait)
	defer timer.Stop()
	select {
	case e.sem <- struct{}{}:
		return nil
	case <-timer.C:
		return ErrBusy
	}
}

func (e *Engine) leave() { <-e.sem }

// Hold enters the critical section on behalf of the caller and returns the
// function that leaves it. Every other operation is dropped with ErrBusy
// while the section is held past their wait bound.
func (e *Engine) Hold() (func(), error) {
	if err := e.enter(); err != nil {
		return nil, err
	}
	return e.leave, nil
}

// Swap describes a root replacement.
type Swap struct {
	Previous string
	Current  string
	Reset    bool
	Frame    Frame
}

// Replace makes t the live tree. The displayed page is kept when its identity
// exists in t; otherwise the cursor resets to the root. Either way the
// display needs a full redraw.
func (e *Engine) Replace(t *Tree) (Swap, error) {
	if err := e.enter(); err != nil {
		return Swap{}, err
	}
	defer e.leave()

	swap := Swap{Previous: e.current}
	e.tree = t
	if e.current == "" || t.Find(e.current) == NoPage {
		e.current = t.Identity(t.Root())
		swap.Reset = swap.Previous != ""
	}
	swap.Current = e.current
	swap.Frame = e.frame()
	return swap, nil
}

// TouchResult is the outcome of one touch.
type TouchResult struct {
	Touch     Touch
	Command   *Command
	Navigated bool
	Current   string
	Redraw    Redraw
	Frame     Frame
}

// Touch routes a touch on the displayed page. Navigation is committed before
// the result is returned; a command is only computed, the caller sends it
// after the section is released.
func (e *Engine) Touch(x, y int) (TouchResult, error) {
	if err := e.enter(); err != nil {
		return TouchResult{}, err
	}
	defer e.leave()

	res := TouchResult{Current: e.current}
	if e.tree == nil {
		res.Touch = Touch{Page: NoPage, Target: NoPage, Cell: -1}
		return res, nil
	}
	touch := e.tree.Route(e.current, x, y, e.layout)
	res.Touch = touch
	if !touch.Found {
		e.current = e.tree.Identity(e.tree.Root())
		res.Current = e.current
		res.Redraw = Redraw{Mode: RedrawFull}
		res.Frame = e.frame()
		return res, nil
	}

	if touch.Action != nil {
		if cmd, ok := Dispatch(e.tree.Element(touch.Action.Element), touch.Action.Kind); ok {
			res.Command = &cmd
		}
	}

	switch {
	case touch.Target != NoPage:
		e.current = e.tree.Identity(touch.Target)
		res.Current = e.current
		res.Navigated = true
		res.Redraw = Redraw{Mode: RedrawFull}
		res.Frame = e.frame()
	case res.Command != nil && !res.Command.Changed:
		res.Redraw = Redraw{Mode: RedrawCell, Cell: touch.Cell, Rect: e.layout.ElementRect(touch.Cell)}
		res.Frame = e.frame()
	}
	return res, nil
}

// PatchResult is the outcome of one pushed patch.
type PatchResult struct {
	Update Update
	Redraw Redraw
	Cell   Cell
	// Current is the displayed page when the patch was applied.
	Current string
}

// Patch applies a pushed widget update to the live tree.
func (e *Engine) Patch(p sitemap.Patch) (PatchResult, error) {
	if err := e.enter(); err != nil {
		return PatchResult{}, err
	}
	defer e.leave()

	if e.tree == nil {
		return PatchResult{Update: Update{Page: NoPage, Element: NoElement, Cell: -1}}, nil
	}
	up := e.tree.Apply(p.WidgetID, p, e.current)
	res := PatchResult{Update: up, Current: e.current}
	if up.Redraw {
		res.Redraw = Redraw{Mode: RedrawCell, Cell: up.Cell, Rect: e.layout.ElementRect(up.Cell)}
		res.Cell, _ = e.tree.RenderCell(up.Page, up.Cell, e.layout)
	}
	return res, nil
}

// Navigate moves the cursor to the page with the given identity.
func (e *Engine) Navigate(identity string) (Frame, bool, error) {
	if err := e.enter(); err != nil {
		return Frame{}, false, err
	}
	defer e.leave()

	if e.tree == nil || e.tree.Find(identity) == NoPage {
		return e.frame(), false, nil
	}
	e.current = identity
	return e.frame(), true, nil
}

// Frame returns the draw instructions for the displayed page.
func (e *Engine) Frame() (Frame, error) {
	if err := e.enter(); err != nil {
		return Frame{}, err
	}
	defer e.leave()
	return e.frame(), nil
}

func (e *Engine) frame() Frame {
	if e.tree == nil {
		return Frame{}
	}
	return e.tree.Render(e.tree.Find(e.current), e.layout)
}

// PageInfo summarizes a reachable page.
type PageInfo struct {
	Identity string
	Title    string
	Index    int
	Depth    int
}

// Pages lists every reachable page in lookup order.
func (e *Engine) Pages() ([]PageInfo, error) {
	if err := e.enter(); err != nil {
		return nil, err
	}
	defer e.leave()
	if e.tree == nil {
		return nil, nil
	}
	var out []PageInfo
	e.tree.Walk(func(id PageID, page *Page) {
		out = append(out, PageInfo{
			Identity: page.Identity,
			Title:    page.Title,
			Index:    page.Index,
			Depth:    e.tree.Depth(id),
		})
	})
	return out, nil
}
