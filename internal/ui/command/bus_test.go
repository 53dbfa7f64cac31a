package command

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/atomicstack/sitemap-panel/internal/openhab"
	"github.com/atomicstack/sitemap-panel/internal/panel"
	"github.com/atomicstack/sitemap-panel/internal/testutil"
)

type recorder struct {
	links  []string
	values []string
	err    error
}

func (r *recorder) Send(ctx context.Context, link, value string) error {
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("expected deadline")
	}
	r.links = append(r.links, link)
	r.values = append(r.values, value)
	return r.err
}

func TestExecuteSends(t *testing.T) {
	rec := &recorder{}
	bus := New(rec, time.Second)
	msg := bus.Execute(panel.Command{WidgetID: "00", Link: "http://oh/rest/items/Lamp", Value: "ON", Changed: true})()
	res, ok := msg.(ResultMsg)
	if !ok || res.Err != nil || res.Skipped || res.ID == "" {
		t.Fatalf("expected sent result, got %#v", msg)
	}
	if len(rec.values) != 1 || rec.values[0] != "ON" || rec.links[0] != "http://oh/rest/items/Lamp" {
		t.Fatalf("unexpected sends %v %v", rec.links, rec.values)
	}
}

func TestExecuteSkipsUnchanged(t *testing.T) {
	rec := &recorder{}
	bus := New(rec, 0)
	cases := []panel.Command{
		{WidgetID: "00", Link: "x", Value: "100", Changed: false},
		{WidgetID: "01", Value: "ON", Changed: true},
	}
	for _, cmd := range cases {
		res := bus.Execute(cmd)().(ResultMsg)
		if !res.Skipped {
			t.Fatalf("expected %s skipped, got %#v", cmd.WidgetID, res)
		}
	}
	if len(rec.values) != 0 {
		t.Fatalf("expected no sends, got %v", rec.values)
	}
	if res := New(nil, 0).Execute(cases[0])().(ResultMsg); !res.Skipped {
		t.Fatalf("expected nil sender to skip")
	}
}

func TestExecuteReportsErrors(t *testing.T) {
	boom := errors.New("boom")
	bus := New(&recorder{err: boom}, time.Second)
	res := bus.Execute(panel.Command{WidgetID: "00", Link: "x", Value: "OFF", Changed: true})().(ResultMsg)
	if !errors.Is(res.Err, boom) {
		t.Fatalf("expected boom, got %v", res.Err)
	}
}

func TestExecuteAgainstServer(t *testing.T) {
	srv := testutil.NewOpenHAB(t)
	client, err := openhab.NewClient(srv.URL(), "demo")
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	bus := New(client, time.Second)
	res := bus.Execute(panel.Command{WidgetID: "00", Link: srv.ItemLink("Lamp"), Value: "ON", Changed: true})().(ResultMsg)
	if res.Err != nil {
		t.Fatalf("send failed: %v", res.Err)
	}
	cmds := srv.Commands()
	if len(cmds) != 1 || cmds[0].Item != "Lamp" || cmds[0].Value != "ON" {
		t.Fatalf("unexpected commands %#v", cmds)
	}
}
