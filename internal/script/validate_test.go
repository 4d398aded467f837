package script

import (
	"testing"

	"github.com/fableforge/fableengine/internal/catalog"
)

func TestValidateEmptyGraph(t *testing.T) {
	g, cat := newTestGraph(t)

	r := Validate(g, cat)
	if r.HasEvent || r.HasAction || r.Connected {
		t.Errorf("empty graph reported structure: %+v", r)
	}
	if !r.HasErrors() {
		t.Error("empty graph should gate saving")
	}
	if r.IsValid() {
		t.Error("empty graph cannot be valid")
	}
}

func TestValidateCompleteGraph(t *testing.T) {
	g, cat := newTestGraph(t)

	evt, _ := g.AddNode(cat, "room.onEnter", nil)
	msg, _ := g.AddNode(cat, "action.showMessage", map[string]catalog.Value{
		"text": catalog.TextValue("hi"),
	})
	g.AddConnection(cat, evt, catalog.PortExec, msg, catalog.PortExec)

	r := Validate(g, cat)
	if !r.HasEvent || !r.HasAction || !r.Connected {
		t.Errorf("structure not recognized: %+v", r)
	}
	if len(r.Incomplete) != 0 {
		t.Errorf("unexpected incomplete nodes: %+v", r.Incomplete)
	}
	if !r.IsValid() || r.HasErrors() {
		t.Errorf("expected valid report, got %+v", r)
	}
}

func TestValidateDisconnectedIsWarningOnly(t *testing.T) {
	g, cat := newTestGraph(t)

	g.AddNode(cat, "room.onEnter", nil)
	g.AddNode(cat, "action.showMessage", map[string]catalog.Value{
		"text": catalog.TextValue("hi"),
	})

	r := Validate(g, cat)
	if r.Connected {
		t.Error("unconnected event/action reported as connected")
	}
	if r.IsValid() {
		t.Error("disconnected graph cannot be valid")
	}
	if r.HasErrors() {
		t.Error("disconnection is a warning, not a save-gating error")
	}
}

func TestValidateConnectedThroughConditionAndFlow(t *testing.T) {
	g, cat := newTestGraph(t)

	evt, _ := g.AddNode(cat, "room.onEnter", nil)
	cond, _ := g.AddNode(cat, "cond.flagSet", map[string]catalog.Value{
		"flag": catalog.TextValue("seen"),
	})
	seq, _ := g.AddNode(cat, "flow.sequence", nil)
	msg, _ := g.AddNode(cat, "action.showMessage", map[string]catalog.Value{
		"text": catalog.TextValue("hi"),
	})

	g.AddConnection(cat, evt, catalog.PortExec, cond, catalog.PortExec)
	g.AddConnection(cat, cond, catalog.PortFalse, seq, catalog.PortExec)
	g.AddConnection(cat, seq, catalog.PortThen1, msg, catalog.PortExec)

	r := Validate(g, cat)
	if !r.Connected {
		t.Error("path through condition and flow nodes not found")
	}
}

func TestValidateIncompleteNodes(t *testing.T) {
	g, cat := newTestGraph(t)

	evt, _ := g.AddNode(cat, "room.onEnter", nil)
	// startQuest without its required quest ref.
	q, _ := g.AddNode(cat, "action.startQuest", nil)
	g.AddConnection(cat, evt, catalog.PortExec, q, catalog.PortExec)

	r := Validate(g, cat)
	if len(r.Incomplete) != 1 {
		t.Fatalf("expected 1 incomplete node, got %+v", r.Incomplete)
	}
	inc := r.Incomplete[0]
	if inc.NodeID != q {
		t.Errorf("wrong node reported: %s", inc.NodeID)
	}
	if len(inc.Missing) != 1 || inc.Missing[0] != "Quest" {
		t.Errorf("expected missing display name Quest, got %v", inc.Missing)
	}
	if r.IsValid() {
		t.Error("incomplete graph cannot be valid")
	}
	if r.HasErrors() {
		t.Error("incompleteness is a warning, not a save-gating error")
	}
}

func TestValidateUnknownType(t *testing.T) {
	g, cat := newTestGraph(t)

	evt, _ := g.AddNode(cat, "room.onEnter", nil)
	msg, _ := g.AddNode(cat, "action.showMessage", map[string]catalog.Value{
		"text": catalog.TextValue("hi"),
	})
	g.AddConnection(cat, evt, catalog.PortExec, msg, catalog.PortExec)

	// Simulate a persisted node whose type was removed from the catalog.
	n, _ := g.Node(msg)
	n.Type = "action.retired"

	r := Validate(g, cat)
	found := false
	for _, inc := range r.Incomplete {
		if inc.NodeID == msg && inc.Unknown {
			found = true
		}
	}
	if !found {
		t.Errorf("unknown type not reported: %+v", r.Incomplete)
	}
}
