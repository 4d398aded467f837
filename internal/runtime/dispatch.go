package runtime

import (
	"github.com/fableforge/fableengine/internal/catalog"
	"github.com/fableforge/fableengine/internal/script"
	"github.com/fableforge/fableengine/internal/world"
)

// Dispatcher is the narrow surface the host game calls when a qualifying
// event occurs. It finds the graphs attached to the entity and runs every
// one whose entry points match the event kind.
type Dispatcher struct {
	eng *Engine
	w   *world.World
}

func NewDispatcher(eng *Engine, w *world.World) *Dispatcher {
	return &Dispatcher{eng: eng, w: w}
}

// RunScriptsFor executes every script owned by (ownerKind, ownerID) that has
// an entry point for eventKind, and aggregates their results. Graphs without
// a matching entry point are skipped, not failed; the "missing event entry
// point" failure only applies to a graph the host executes directly.
func (d *Dispatcher) RunScriptsFor(session string, st *world.State, ownerKind script.OwnerKind, ownerID, eventKind string) Result {
	agg := Result{Success: true}
	for _, g := range d.w.ScriptsFor(ownerKind, ownerID) {
		if !hasEntryPoint(g, eventKind) {
			continue
		}
		agg.Merge(d.eng.ExecuteScript(session, g, st, eventKind))
	}
	return agg
}

// RunSingleNode executes one action node of one script out of band, for the
// test console.
func (d *Dispatcher) RunSingleNode(session, scriptID, nodeID string, st *world.State) Result {
	for _, g := range d.w.Scripts {
		if g.ID == scriptID {
			return d.eng.ExecuteSingleAction(session, g, nodeID, st)
		}
	}
	return Result{
		Success:      false,
		ErrKind:      ErrData,
		ErrorMessage: "script not found: " + scriptID,
	}
}

func hasEntryPoint(g *script.Graph, eventKind string) bool {
	for i := range g.Nodes {
		if g.Nodes[i].Category == catalog.CategoryEvent && g.Nodes[i].Type == eventKind {
			return true
		}
	}
	return false
}
