package ui

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/sitemap-panel/internal/backend"
	"github.com/atomicstack/sitemap-panel/internal/logging"
	"github.com/atomicstack/sitemap-panel/internal/openhab"
	"github.com/atomicstack/sitemap-panel/internal/panel"
	"github.com/atomicstack/sitemap-panel/internal/sitemap"
	"github.com/atomicstack/sitemap-panel/internal/testutil"
	"github.com/atomicstack/sitemap-panel/internal/ui/command"
)

func demoSitemap(lampLink string) *sitemap.Sitemap {
	return &sitemap.Sitemap{
		Name: "demo",
		Homepage: &sitemap.PageDesc{ID: "demo", Title: "Demo", Widgets: []*sitemap.Widget{
			{WidgetID: "00", Type: "Switch", Label: "Lamp", Item: &sitemap.Item{Link: lampLink, State: sitemap.StringOf("OFF")}},
			{WidgetID: "01", Type: "Text", Label: "Rooms", LinkedPage: &sitemap.PageDesc{
				ID: "rooms", Title: "Rooms", Widgets: []*sitemap.Widget{
					{WidgetID: "0100", Type: "Text", Label: "Kitchen [21 °C]"},
				},
			}},
		}},
	}
}

func loaded(t *testing.T, bus *command.Bus, link string) *Harness {
	t.Helper()
	h := NewHarness(NewModel(Options{Bus: bus, Width: 96, Height: 28}))
	deliver(h, backend.Event{Kind: backend.KindSitemap, Data: demoSitemap(link)})
	if got := h.Model().Frame().Identity; got != "demo_0" {
		t.Fatalf("expected demo_0 loaded, got %q", got)
	}
	return h
}

// deliver applies evt through the dispatcher the way the backend command
// goroutine does, then hands the result to the model.
func deliver(h *Harness, evt backend.Event) {
	h.Send(dispatchBackendEvent(h.Model().dispatcher, evt))
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestViewShowsLoadingUntilSitemap(t *testing.T) {
	m := NewModel(Options{Width: 96, Height: 28})
	if view := m.View(); !strings.Contains(view, loadingText) {
		t.Fatalf("expected loading text, got:\n%s", view)
	}
}

func TestViewRendersFrame(t *testing.T) {
	h := loaded(t, nil, "")
	view := h.View()
	for _, want := range []string{"Demo", "Lamp", "OFF", "on/off", "Rooms", "Next >", "^ Back", "demo · demo_0"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q in view, got:\n%s", want, view)
		}
	}
	if lines := strings.Split(view, "\n"); len(lines) != 28 {
		t.Fatalf("expected 28 lines, got %d", len(lines))
	}
}

func TestKeysTapCellsAndRail(t *testing.T) {
	h := loaded(t, nil, "")
	h.Send(keyRunes("2"))
	frame := h.Model().Frame()
	if frame.Identity != "rooms_0" || frame.Title != "Rooms" {
		t.Fatalf("expected rooms page, got %#v", frame)
	}
	if frame.Rail.Back != panel.ArrowEnabled {
		t.Fatalf("expected back enabled on detail page")
	}
	if view := h.View(); !strings.Contains(view, "21 °C") {
		t.Fatalf("expected kitchen status, got:\n%s", view)
	}
	h.Send(keyRunes("b"))
	if got := h.Model().Frame().Identity; got != "demo_0" {
		t.Fatalf("expected back on demo_0, got %q", got)
	}
}

func TestMouseClickSendsCommand(t *testing.T) {
	srv := testutil.NewOpenHAB(t)
	client, err := openhab.NewClient(srv.URL(), "demo")
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	h := loaded(t, command.New(client, time.Second), srv.ItemLink("Lamp"))

	// Row 11 column 20 lands in the control strip of the first cell.
	h.Send(tea.MouseMsg{X: 20, Y: 11, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	h.Send(tea.MouseMsg{X: 20, Y: 11, Action: tea.MouseActionRelease})

	cmds := srv.Commands()
	if len(cmds) != 1 || cmds[0].Item != "Lamp" || cmds[0].Value != "ON" {
		t.Fatalf("expected ON posted to Lamp, got %#v", cmds)
	}
	if info := h.Model().currentInfo(); info != "sent ON" {
		t.Fatalf("expected sent info, got %q", info)
	}
	if !h.Model().flash.Empty() {
		t.Fatalf("expected flash cleared after tick")
	}
}

func TestReleaseWithoutPressIsIgnored(t *testing.T) {
	h := loaded(t, nil, "")
	h.Send(tea.MouseMsg{X: 50, Y: 5, Action: tea.MouseActionRelease})
	if got := h.Model().Frame().Identity; got != "demo_0" {
		t.Fatalf("expected no navigation, got %q", got)
	}
}

func TestPatchRedrawsCell(t *testing.T) {
	h := loaded(t, nil, "")
	deliver(h, backend.Event{Kind: backend.KindPatch, Data: sitemap.Patch{
		WidgetID: "00",
		Item:     &sitemap.PatchItem{State: sitemap.StringOf("ON")},
	}})
	if got := h.Model().Frame().Cells[0].Status; got != "ON" {
		t.Fatalf("expected ON status, got %q", got)
	}
}

func TestBackendErrorsReachStatusLine(t *testing.T) {
	logging.Configure(filepath.Join(t.TempDir(), "panel.log"))
	t.Cleanup(func() { logging.Configure("") })
	h := loaded(t, nil, "")
	deliver(h, backend.Event{Kind: backend.KindSubscribed, Err: errTest})
	if view := h.View(); !strings.Contains(view, "Error: subscribed: refused") {
		t.Fatalf("expected error in status line, got:\n%s", view)
	}
	deliver(h, backend.Event{Kind: backend.KindSubscribed, Data: "loc"})
	if view := h.View(); !strings.Contains(view, "live") {
		t.Fatalf("expected live status, got:\n%s", view)
	}
}

func TestPanelPointScaling(t *testing.T) {
	m := NewModel(Options{Width: 96, Height: 28})
	cases := []struct {
		p    point
		x, y int
		ok   bool
	}{
		{point{0, 0}, 5, 10, true},
		{point{95, 26}, 955, 530, true},
		{point{10, 27}, 0, 0, false},
		{point{-1, 3}, 0, 0, false},
	}
	for _, tc := range cases {
		x, y, ok := m.panelPoint(tc.p)
		if ok != tc.ok || x != tc.x || y != tc.y {
			t.Fatalf("point %v: expected (%d,%d,%v), got (%d,%d,%v)", tc.p, tc.x, tc.y, tc.ok, x, y, ok)
		}
	}
}

func TestFlashClearsOnlyLatest(t *testing.T) {
	h := loaded(t, nil, "")
	m := h.Model()
	m.touch(20*10, 230)
	if m.flash.Empty() {
		t.Fatalf("expected flash after touch")
	}
	m.Update(flashDoneMsg{seq: m.flashSeq - 1})
	if m.flash.Empty() {
		t.Fatalf("expected stale flash message ignored")
	}
	m.Update(flashDoneMsg{seq: m.flashSeq})
	if !m.flash.Empty() {
		t.Fatalf("expected flash cleared")
	}
}

func TestWindowSizeFollowsUnlessFixed(t *testing.T) {
	m := NewModel(Options{Height: 20})
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	cols, rows := m.size()
	if cols != 120 || rows != 19 {
		t.Fatalf("expected 120x19, got %dx%d", cols, rows)
	}
}

func TestDetectedTerminalSizeSeedsUnpinnedAxes(t *testing.T) {
	m := NewModel(Options{Width: 100, TermWidth: 132, TermHeight: 43})
	if cols, rows := m.size(); cols != 100 || rows != 42 {
		t.Fatalf("expected 100x42, got %dx%d", cols, rows)
	}
	m.Update(tea.WindowSizeMsg{Width: 90, Height: 30})
	if cols, rows := m.size(); cols != 100 || rows != 29 {
		t.Fatalf("expected window height to replace detected size, got %dx%d", cols, rows)
	}
}

func TestQuitKey(t *testing.T) {
	m := NewModel(Options{})
	_, cmd := m.Update(keyRunes("q"))
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected QuitMsg")
	}
}
