package runtime

import (
	"testing"

	"github.com/fableforge/fableengine/internal/catalog"
	"github.com/fableforge/fableengine/internal/script"
	"github.com/fableforge/fableengine/internal/world"
)

// runCondition builds event -> condition -> True/False marker actions and
// returns which branch fired.
func runCondition(t *testing.T, eng *Engine, cat *catalog.Catalog, st *world.State, condType string, params map[string]catalog.Value) bool {
	t.Helper()

	g := script.NewGraph("s1", "cond", script.OwnerGame, "game")
	evt := mustAddNode(t, g, cat, "game.onStart", nil)
	cond := mustAddNode(t, g, cat, condType, params)
	yes := mustAddNode(t, g, cat, "action.setFlag", map[string]catalog.Value{
		"flag": catalog.TextValue("went_true"), "value": catalog.BoolValue(true),
	})
	no := mustAddNode(t, g, cat, "action.setFlag", map[string]catalog.Value{
		"flag": catalog.TextValue("went_false"), "value": catalog.BoolValue(true),
	})
	mustConnect(t, g, cat, evt, catalog.PortExec, cond)
	mustConnect(t, g, cat, cond, catalog.PortTrue, yes)
	mustConnect(t, g, cat, cond, catalog.PortFalse, no)

	res := eng.ExecuteScript("sess", g, st, "game.onStart")
	if !res.Success {
		t.Fatalf("%s failed: %s", condType, res.ErrorMessage)
	}
	if st.Flag("went_true") == st.Flag("went_false") {
		t.Fatalf("%s fired both or neither branch", condType)
	}
	out := st.Flag("went_true")
	st.SetFlag("went_true", false)
	st.SetFlag("went_false", false)
	return out
}

func TestCounterCompare(t *testing.T) {
	eng, cat := newTestEngine(t, 1)
	st := world.NewState(testDefs())
	st.SetCounter("coins", 5)

	cases := []struct {
		op   string
		val  int
		want bool
	}{
		{"==", 5, true},
		{"!=", 5, false},
		{"<", 10, true},
		{"<=", 5, true},
		{">", 5, false},
		{">=", 5, true},
	}
	for _, tc := range cases {
		got := runCondition(t, eng, cat, st, "cond.counterCompare", map[string]catalog.Value{
			"counter": catalog.TextValue("coins"),
			"op":      catalog.SelectionValue(tc.op),
			"value":   catalog.IntValue(tc.val),
		})
		if got != tc.want {
			t.Errorf("coins(5) %s %d = %v, want %v", tc.op, tc.val, got, tc.want)
		}
	}
}

func TestEntityConditions(t *testing.T) {
	eng, cat := newTestEngine(t, 1)
	st := world.NewState(testDefs())

	if runCondition(t, eng, cat, st, "cond.hasItem", map[string]catalog.Value{
		"object": catalog.RefValue("lamp"),
	}) {
		t.Error("hasItem true before the item was taken")
	}
	st.GiveItem("lamp")
	if !runCondition(t, eng, cat, st, "cond.hasItem", map[string]catalog.Value{
		"object": catalog.RefValue("lamp"),
	}) {
		t.Error("hasItem false after the item was taken")
	}

	if !runCondition(t, eng, cat, st, "cond.playerInRoom", map[string]catalog.Value{
		"room": catalog.RefValue("hall"),
	}) {
		t.Error("playerInRoom false for the start room")
	}

	if !runCondition(t, eng, cat, st, "cond.doorLocked", map[string]catalog.Value{
		"door": catalog.RefValue("gate"),
	}) {
		t.Error("doorLocked false for a locked door")
	}

	if !runCondition(t, eng, cat, st, "cond.npcAlive", map[string]catalog.Value{
		"npc": catalog.RefValue("guard"),
	}) {
		t.Error("npcAlive false for a living NPC")
	}
	st.KillNpc("guard")
	if runCondition(t, eng, cat, st, "cond.npcAlive", map[string]catalog.Value{
		"npc": catalog.RefValue("guard"),
	}) {
		t.Error("npcAlive true for a dead NPC")
	}

	if !runCondition(t, eng, cat, st, "cond.questStatus", map[string]catalog.Value{
		"quest":  catalog.RefValue("q1"),
		"status": catalog.SelectionValue("notStarted"),
	}) {
		t.Error("questStatus notStarted false for a fresh quest")
	}
}

func TestPlayerStatCondition(t *testing.T) {
	eng, cat := newTestEngine(t, 1)
	st := world.NewState(testDefs())

	if !runCondition(t, eng, cat, st, "cond.playerStat", map[string]catalog.Value{
		"stat":  catalog.SelectionValue("hp"),
		"op":    catalog.SelectionValue(">="),
		"value": catalog.IntValue(100),
	}) {
		t.Error("hp >= 100 false at full health")
	}
	st.DamagePlayer(60)
	if !runCondition(t, eng, cat, st, "cond.playerStat", map[string]catalog.Value{
		"stat":  catalog.SelectionValue("hp"),
		"op":    catalog.SelectionValue("<"),
		"value": catalog.IntValue(50),
	}) {
		t.Error("hp < 50 false after heavy damage")
	}
}

func TestRandomChanceExtremes(t *testing.T) {
	eng, cat := newTestEngine(t, 1)
	st := world.NewState(testDefs())

	for i := 0; i < 10; i++ {
		if runCondition(t, eng, cat, st, "cond.randomChance", map[string]catalog.Value{
			"percent": catalog.IntValue(0),
		}) {
			t.Fatal("0% chance came up true")
		}
		if !runCondition(t, eng, cat, st, "cond.randomChance", map[string]catalog.Value{
			"percent": catalog.IntValue(100),
		}) {
			t.Fatal("100% chance came up false")
		}
	}
}

func TestConditionReadsLatestState(t *testing.T) {
	eng, cat := newTestEngine(t, 1)
	st := world.NewState(testDefs())

	params := map[string]catalog.Value{"flag": catalog.TextValue("torch_lit")}
	if runCondition(t, eng, cat, st, "cond.flagSet", params) {
		t.Error("flag read as set before anyone set it")
	}

	// Another subsystem mutates the store between invocations.
	st.SetFlag("torch_lit", true)
	if !runCondition(t, eng, cat, st, "cond.flagSet", params) {
		t.Error("condition did not observe the external mutation")
	}
}
