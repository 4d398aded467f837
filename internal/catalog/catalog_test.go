package catalog

import (
	"encoding/json"
	"testing"
)

func TestNewCatalog(t *testing.T) {
	c := New()

	if c.Len() < 70 {
		t.Errorf("expected a full table, got %d entries", c.Len())
	}
	if len(c.All()) != c.Len() {
		t.Errorf("All() returned %d entries, want %d", len(c.All()), c.Len())
	}
}

func TestLookup(t *testing.T) {
	c := New()

	nt, ok := c.Lookup("room.onEnter")
	if !ok {
		t.Fatal("room.onEnter not found")
	}
	if nt.Category != CategoryEvent {
		t.Errorf("expected event category, got %s", nt.Category)
	}
	if len(nt.Inputs) != 0 || len(nt.Outputs) != 1 || nt.Outputs[0] != PortExec {
		t.Errorf("unexpected ports for event node: in=%v out=%v", nt.Inputs, nt.Outputs)
	}

	if _, ok := c.Lookup("no.suchType"); ok {
		t.Error("expected lookup miss for unknown type")
	}
}

func TestCategoryPortContracts(t *testing.T) {
	c := New()

	for _, nt := range c.All() {
		switch nt.Category {
		case CategoryEvent:
			if len(nt.Inputs) != 0 {
				t.Errorf("%s: event node with inbound ports", nt.ID)
			}
		case CategoryCondition:
			if !nt.HasOutput(PortTrue) || !nt.HasOutput(PortFalse) {
				t.Errorf("%s: condition node missing True/False", nt.ID)
			}
		case CategoryAction:
			if !nt.HasInput(PortExec) || !nt.HasOutput(PortExec) {
				t.Errorf("%s: action node missing Exec ports", nt.ID)
			}
		case CategoryFlow:
			if len(nt.Outputs) == 0 {
				t.Errorf("%s: flow node with no outputs", nt.ID)
			}
		default:
			t.Errorf("%s: unknown category %q", nt.ID, nt.Category)
		}
	}
}

func TestParamLookup(t *testing.T) {
	c := New()

	nt, ok := c.Lookup("action.startQuest")
	if !ok {
		t.Fatal("action.startQuest not found")
	}
	p, ok := nt.Param("quest")
	if !ok {
		t.Fatal("quest parameter not declared")
	}
	if p.Kind != KindEntityRef || p.Ref != EntityQuest {
		t.Errorf("unexpected quest param: kind=%s ref=%s", p.Kind, p.Ref)
	}
	if !p.Required {
		t.Error("quest param should be required")
	}
	if _, ok := nt.Param("bogus"); ok {
		t.Error("expected miss for undeclared param")
	}
}

func TestSelectionOptionsNonEmpty(t *testing.T) {
	c := New()
	for _, nt := range c.All() {
		for _, p := range nt.Params {
			if p.Kind == KindSelection && len(p.Options) == 0 {
				t.Errorf("%s param %s: selection with no options", nt.ID, p.Name)
			}
			if p.Kind == KindEntityRef && p.Ref == "" {
				t.Errorf("%s param %s: entityRef with no target kind", nt.ID, p.Name)
			}
		}
	}
}

func TestValueRoundTrip(t *testing.T) {
	cases := []Value{
		TextValue("hello"),
		IntValue(-3),
		DecValue(2.5),
		BoolValue(true),
		SelectionValue(">="),
		RefValue("q1"),
	}

	for _, v := range cases {
		b, err := json.Marshal(v)
		if err != nil {
			t.Fatalf("marshal %v: %v", v, err)
		}
		var got Value
		if err := json.Unmarshal(b, &got); err != nil {
			t.Fatalf("unmarshal %s: %v", b, err)
		}
		if got != v {
			t.Errorf("round trip mismatch: got %+v want %+v", got, v)
		}
	}
}

func TestValueIsEmpty(t *testing.T) {
	if !TextValue("").IsEmpty() {
		t.Error("empty text should be empty")
	}
	if TextValue("x").IsEmpty() {
		t.Error("non-empty text should not be empty")
	}
	if IntValue(0).IsEmpty() {
		t.Error("zero integer is a legitimate value")
	}
	if BoolValue(false).IsEmpty() {
		t.Error("false boolean is a legitimate value")
	}
	if !RefValue("").IsEmpty() {
		t.Error("empty entity ref should be empty")
	}
	if !(Value{}).IsEmpty() {
		t.Error("zero value should be empty")
	}
}
