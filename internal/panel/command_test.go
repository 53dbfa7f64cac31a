package panel

import (
	"testing"

	"github.com/atomicstack/sitemap-panel/internal/sitemap"
)

func element(w *sitemap.Widget) *Element {
	tree := Build(home(w))
	return tree.Element(tree.Page(tree.Root()).Elements[0])
}

func TestScenarioSwitchFlip(t *testing.T) {
	el := element(&sitemap.Widget{
		WidgetID: "00",
		Type:     "Switch",
		Item:     &sitemap.Item{Link: "http://oh/rest/items/Lamp", State: sitemap.StringOf("ON")},
	})
	cmd, ok := Dispatch(el, ActionToggle)
	if !ok || cmd.Value != "OFF" || cmd.Link != "http://oh/rest/items/Lamp" || cmd.WidgetID != "00" {
		t.Fatalf("expected OFF to the item link, got %#v ok=%v", cmd, ok)
	}
	el.Record.Item.State = sitemap.StringOf("OFF")
	if cmd, _ := Dispatch(el, ActionToggle); cmd.Value != "ON" {
		t.Fatalf("expected ON, got %q", cmd.Value)
	}
}

func TestSwitchCyclesMappings(t *testing.T) {
	el := element(&sitemap.Widget{
		WidgetID: "00",
		Type:     "Switch",
		Mappings: []sitemap.Option{{Command: "LOW"}, {Command: "MID"}, {Command: "HIGH"}},
		Item:     &sitemap.Item{State: sitemap.StringOf("MID")},
	})
	cases := map[string]string{"LOW": "MID", "MID": "HIGH", "HIGH": "LOW", "UNDEF": "LOW"}
	for state, want := range cases {
		el.Record.Item.State = sitemap.StringOf(state)
		cmd, ok := Dispatch(el, ActionToggle)
		if !ok || cmd.Value != want {
			t.Fatalf("state %s: expected %s, got %q", state, want, cmd.Value)
		}
	}
}

func TestSwitchFallsBackToCommandOptions(t *testing.T) {
	el := element(&sitemap.Widget{
		Type: "Switch",
		Item: &sitemap.Item{
			State:              sitemap.StringOf("UP"),
			CommandDescription: &sitemap.CommandDescription{CommandOptions: []sitemap.Option{{Command: "UP"}, {Command: "DOWN"}}},
		},
	})
	if cmd, _ := Dispatch(el, ActionToggle); cmd.Value != "DOWN" {
		t.Fatalf("expected DOWN, got %q", cmd.Value)
	}
}

func TestScenarioSetpointClamp(t *testing.T) {
	w := &sitemap.Widget{
		WidgetID: "00",
		Type:     "Setpoint",
		MinValue: sitemap.NumberOf(0),
		MaxValue: sitemap.NumberOf(100),
		Step:     sitemap.NumberOf(10),
		Item:     &sitemap.Item{State: sitemap.StringOf("50")},
	}
	el := element(w)
	cmd, ok := Dispatch(el, ActionIncrement)
	if !ok || cmd.Value != "60" || !cmd.Changed {
		t.Fatalf("expected 60 changed, got %#v", cmd)
	}
	w.Item.State = sitemap.StringOf("100")
	cmd, ok = Dispatch(el, ActionIncrement)
	if !ok || cmd.Value != "100" || cmd.Changed {
		t.Fatalf("expected 100 unchanged, got %#v", cmd)
	}
}

func TestStepperDefaultsAndDescription(t *testing.T) {
	w := &sitemap.Widget{
		Type: "Slider",
		Item: &sitemap.Item{
			State: sitemap.StringOf("21.5 °C"),
			StateDescription: &sitemap.StateDescription{
				Minimum: sitemap.NumberOf(21),
				Step:    sitemap.NumberOf(0.5),
			},
		},
	}
	el := element(w)
	if cmd, _ := Dispatch(el, ActionDecrement); cmd.Value != "21" || !cmd.Changed {
		t.Fatalf("expected 21, got %#v", cmd)
	}
	w.Item.State = sitemap.StringOf("21")
	if cmd, _ := Dispatch(el, ActionDecrement); cmd.Value != "21" || cmd.Changed {
		t.Fatalf("expected clamp at description minimum, got %#v", cmd)
	}

	bare := element(&sitemap.Widget{Type: "Slider", Item: &sitemap.Item{State: sitemap.StringOf("95")}})
	if cmd, _ := Dispatch(bare, ActionIncrement); cmd.Value != "100" || !cmd.Changed {
		t.Fatalf("expected default step and maximum, got %#v", cmd)
	}
	unknown := element(&sitemap.Widget{Type: "Slider"})
	if cmd, _ := Dispatch(unknown, ActionIncrement); cmd.Value != "10" {
		t.Fatalf("expected unknown state to count as zero, got %#v", cmd)
	}
}

func TestStepperFractional(t *testing.T) {
	cases := []struct {
		state string
		step  float64
		kind  ActionKind
		want  string
	}{
		{"21.7", 0.1, ActionDecrement, "21.6"},
		{"0.2", 0.1, ActionIncrement, "0.3"},
		{"20.1", 0.2, ActionDecrement, "19.9"},
		{"0.7", 0.1, ActionIncrement, "0.8"},
		{"21.75 °C", 0.5, ActionIncrement, "22.25"},
		{"0.1", 0.1, ActionDecrement, "0"},
	}
	for _, tc := range cases {
		el := element(&sitemap.Widget{
			Type: "Setpoint",
			Step: sitemap.NumberOf(tc.step),
			Item: &sitemap.Item{State: sitemap.StringOf(tc.state)},
		})
		cmd, ok := Dispatch(el, tc.kind)
		if !ok || cmd.Value != tc.want || !cmd.Changed {
			t.Fatalf("state %s step %v: expected %s changed, got %#v", tc.state, tc.step, tc.want, cmd)
		}
	}

	top := element(&sitemap.Widget{
		Type:     "Setpoint",
		Step:     sitemap.NumberOf(0.1),
		MaxValue: sitemap.NumberOf(30),
		Item:     &sitemap.Item{State: sitemap.StringOf("30.0")},
	})
	if cmd, _ := Dispatch(top, ActionIncrement); cmd.Value != "30" || cmd.Changed {
		t.Fatalf("expected 30 unchanged at the maximum, got %#v", cmd)
	}
}

func TestSelectByTitle(t *testing.T) {
	tree := Build(home(selectionWidget("20", 3)))
	sel := tree.Element(tree.Page(tree.Root()).Elements[0])
	choice := tree.Element(tree.Page(sel.Choices).Elements[1])
	cmd, ok := Dispatch(choice, ActionSelect)
	if !ok || cmd.Value != "c1" {
		t.Fatalf("expected c1, got %#v ok=%v", cmd, ok)
	}

	choice.Title = "Not an option"
	if _, ok := Dispatch(choice, ActionSelect); ok {
		t.Fatalf("expected no command without a matching label")
	}
}

func TestSelectFallsBackToStateOptions(t *testing.T) {
	w := selectionWidget("20", 2)
	w.Item.CommandDescription = nil
	tree := Build(home(w))
	sel := tree.Element(tree.Page(tree.Root()).Elements[0])
	choice := tree.Element(tree.Page(sel.Choices).Elements[0])
	if cmd, ok := Dispatch(choice, ActionSelect); !ok || cmd.Value != "v0" {
		t.Fatalf("expected state option value v0, got %#v ok=%v", cmd, ok)
	}
}

func TestDispatchNil(t *testing.T) {
	if _, ok := Dispatch(nil, ActionToggle); ok {
		t.Fatalf("expected no command for nil element")
	}
	if _, ok := Dispatch(element(&sitemap.Widget{Type: "Text"}), ActionNone); ok {
		t.Fatalf("expected no command for ActionNone")
	}
}
