// Package runtime walks behavior graphs in response to game events and
// applies their effects to world state. Execution is single-threaded and
// cooperative; the only deferral is the delay flow node, which captures the
// remaining traversal as a continuation and hands it to the host scheduler.
package runtime

import (
	"fmt"
	"sync"
	"time"

	"github.com/fableforge/fableengine/internal/catalog"
	"github.com/fableforge/fableengine/internal/events"
	"github.com/fableforge/fableengine/internal/script"
	"github.com/fableforge/fableengine/internal/world"
)

// DefaultMaxVisits bounds node visits per execution. Graphs are
// designer-authored and may contain unintended cycles; a legitimate script
// stays far below this.
const DefaultMaxVisits = 512

// Scheduler owns delayed continuations for their lifetime. The engine hands
// a continuation over and never touches it again; cancellation happens
// through the scheduler by session.
type Scheduler interface {
	Schedule(session string, wait time.Duration, resume func())
}

// Engine executes behavior graphs. It holds no per-graph state across calls;
// all mutation goes through the world state passed in.
type Engine struct {
	cat       *catalog.Catalog
	rng       *Rng
	sched     Scheduler
	maxVisits int

	execMu   sync.Mutex
	onResume func(session string, res Result)
}

// NewEngine creates an engine. A nil scheduler makes delay nodes continue
// immediately, which keeps single-shot tools working without a tick loop.
func NewEngine(cat *catalog.Catalog, rng *Rng, sched Scheduler, maxVisits int) *Engine {
	if maxVisits <= 0 {
		maxVisits = DefaultMaxVisits
	}
	return &Engine{cat: cat, rng: rng, sched: sched, maxVisits: maxVisits}
}

// Rng returns the engine's random source, exposed for save/restore.
func (e *Engine) Rng() *Rng { return e.rng }

// ExecLock returns the mutex every host entry point must hold while
// executing scripts or resuming continuations. World state and the random
// source are not safe for concurrent use; broker deliveries, the API
// console, and the tick loop each run on their own goroutines and serialize
// here. The engine does not lock internally: a delay node with no scheduler
// resumes inline, so a caller already holds the lock when that happens.
func (e *Engine) ExecLock() *sync.Mutex { return &e.execMu }

// SetResumeHandler registers a callback invoked with the result of every
// resumed continuation, so the host can deliver late messages.
func (e *Engine) SetResumeHandler(fn func(session string, res Result)) {
	e.onResume = fn
}

// run is the per-execution context: one result, one visit budget.
type run struct {
	e       *Engine
	g       *script.Graph
	st      *world.State
	session string
	res     *Result
	visits  int
}

// ExecuteScript locates every event node matching eventKind and traverses
// from each. A graph with no event node at all fails without touching state;
// a graph whose event nodes all match other kinds is inert, not an error.
func (e *Engine) ExecuteScript(session string, g *script.Graph, st *world.State, eventKind string) Result {
	res := Result{Success: true}

	var entries []*script.Node
	hasEvent := false
	for i := range g.Nodes {
		if g.Nodes[i].Category != catalog.CategoryEvent {
			continue
		}
		hasEvent = true
		if g.Nodes[i].Type == eventKind {
			entries = append(entries, &g.Nodes[i])
		}
	}
	if !hasEvent {
		res.Success = false
		res.ErrKind = ErrStructure
		res.ErrorMessage = "missing event entry point"
		return res
	}
	if len(entries) == 0 {
		events.Emit("debug", "script.inert", "", map[string]interface{}{
			"script": g.ID, "event_kind": eventKind, "session": session,
		})
		return res
	}

	events.Emit("info", "script.started", "", map[string]interface{}{
		"script": g.ID, "event_kind": eventKind, "session": session,
	})

	r := &run{e: e, g: g, st: st, session: session, res: &res}
	for _, entry := range entries {
		conn, ok := g.OutConnection(entry.ID, catalog.PortExec)
		if !ok {
			continue
		}
		if err := r.traverse(conn.ToNode); err != nil {
			r.fail(entry.ID, err)
			break
		}
	}

	if res.Success {
		events.Emit("info", "script.completed", "", map[string]interface{}{
			"script": g.ID, "session": session, "messages": len(res.Messages),
		})
	}
	return res
}

// ExecuteSingleAction applies one action node's effect without graph
// traversal, for interactive testing from the console.
func (e *Engine) ExecuteSingleAction(session string, g *script.Graph, nodeID string, st *world.State) Result {
	res := Result{Success: true}

	n, ok := g.Node(nodeID)
	if !ok {
		res.Success = false
		res.ErrKind = ErrData
		res.ErrorMessage = fmt.Sprintf("node %q not in graph", nodeID)
		return res
	}
	nt, ok := e.cat.Lookup(n.Type)
	if !ok {
		res.Success = false
		res.ErrKind = ErrUnknownType
		res.ErrorMessage = fmt.Sprintf("unknown node type %q", n.Type)
		return res
	}
	if n.Category != catalog.CategoryAction {
		res.Success = false
		res.ErrKind = ErrData
		res.ErrorMessage = fmt.Sprintf("node %q is not an action", nodeID)
		return res
	}

	var missing []string
	for _, p := range nt.Params {
		if !p.Required {
			continue
		}
		v, ok := n.Params[p.Name]
		if !ok || v.IsEmpty() {
			missing = append(missing, p.Display)
		}
	}
	if len(missing) > 0 {
		res.Success = false
		res.ErrKind = ErrData
		res.ErrorMessage = fmt.Sprintf("node %q missing required parameters: %v", nodeID, missing)
		return res
	}

	r := &run{e: e, g: g, st: st, session: session, res: &res}
	if err := r.applyAction(n); err != nil {
		r.fail(nodeID, err)
	}
	return res
}

// fail records a traversal failure on the result, keeping anything already
// emitted, and reports the failing node.
func (r *run) fail(nodeID string, err error) {
	r.res.Success = false
	if ee, ok := err.(*execError); ok {
		r.res.ErrKind = ee.kind
	} else {
		r.res.ErrKind = ErrData
	}
	r.res.ErrorMessage = err.Error()

	events.Emit("error", "node.failed", err.Error(), map[string]interface{}{
		"script": r.g.ID, "node": nodeID, "session": r.session,
	})
	events.Emit("error", "script.failed", err.Error(), map[string]interface{}{
		"script": r.g.ID, "session": r.session,
	})
}

// traverse walks forward from nodeID until the path ends or errors.
func (r *run) traverse(nodeID string) error {
	for nodeID != "" {
		r.visits++
		if r.visits > r.e.maxVisits {
			return &execError{kind: ErrBudget,
				msg: fmt.Sprintf("execution budget exceeded after %d node visits", r.e.maxVisits)}
		}

		n, ok := r.g.Node(nodeID)
		if !ok {
			return dataErrf("connection references missing node %q", nodeID)
		}
		if _, ok := r.e.cat.Lookup(n.Type); !ok {
			return unknownTypeErrf("unknown node type %q on node %q", n.Type, n.ID)
		}

		switch n.Category {
		case catalog.CategoryEvent:
			// A mid-path event node does nothing; follow its exec port.
			nodeID = r.next(n.ID, catalog.PortExec)

		case catalog.CategoryCondition:
			v, err := r.evalCondition(n)
			if err != nil {
				return err
			}
			if v {
				nodeID = r.next(n.ID, catalog.PortTrue)
			} else {
				nodeID = r.next(n.ID, catalog.PortFalse)
			}

		case catalog.CategoryAction:
			if err := r.applyAction(n); err != nil {
				return err
			}
			nodeID = r.next(n.ID, catalog.PortExec)

		case catalog.CategoryFlow:
			next, err := r.flow(n)
			if err != nil {
				return err
			}
			nodeID = next

		default:
			return unknownTypeErrf("node %q has unknown category %q", n.ID, n.Category)
		}
	}
	return nil
}

// next returns the node on the far side of the given outbound port, or empty
// when the port has no connection.
func (r *run) next(nodeID string, port catalog.Port) string {
	if conn, ok := r.g.OutConnection(nodeID, port); ok {
		return conn.ToNode
	}
	return ""
}

// flow handles flow-control nodes. Sequence recurses into each sub-path in
// order; the other kinds reduce to picking the next node.
func (r *run) flow(n *script.Node) (string, error) {
	switch n.Type {
	case "flow.sequence":
		for _, port := range []catalog.Port{catalog.PortThen0, catalog.PortThen1, catalog.PortThen2} {
			target := r.next(n.ID, port)
			if target == "" {
				continue
			}
			if err := r.traverse(target); err != nil {
				return "", err
			}
		}
		return "", nil

	case "flow.branch":
		flag, err := r.textParam(n, "flag")
		if err != nil {
			return "", err
		}
		if r.st.Flag(flag) {
			return r.next(n.ID, catalog.PortTrue), nil
		}
		return r.next(n.ID, catalog.PortFalse), nil

	case "flow.random":
		var targets []string
		for _, port := range []catalog.Port{catalog.PortOut0, catalog.PortOut1, catalog.PortOut2} {
			if t := r.next(n.ID, port); t != "" {
				targets = append(targets, t)
			}
		}
		if len(targets) == 0 {
			return "", nil
		}
		return targets[r.e.rng.Intn(len(targets))], nil

	case "flow.delay":
		secs, err := r.decParam(n, "seconds")
		if err != nil {
			return "", err
		}
		target := r.next(n.ID, catalog.PortExec)
		if target == "" {
			return "", nil
		}
		r.scheduleContinuation(target, time.Duration(secs*float64(time.Second)))
		return "", nil
	}
	return "", unknownTypeErrf("unknown flow node type %q on node %q", n.Type, n.ID)
}

// scheduleContinuation hands the remaining traversal to the scheduler. The
// resumed run gets a fresh visit budget.
func (r *run) scheduleContinuation(target string, wait time.Duration) {
	g, st, session := r.g, r.st, r.session
	e := r.e

	resume := func() {
		events.Emit("info", "delay.resumed", "", map[string]interface{}{
			"script": g.ID, "node": target, "session": session,
		})
		res := Result{Success: true}
		r2 := &run{e: e, g: g, st: st, session: session, res: &res}
		if err := r2.traverse(target); err != nil {
			r2.fail(target, err)
		}
		if e.onResume != nil {
			e.onResume(session, res)
		}
	}

	if e.sched == nil {
		resume()
		return
	}

	events.Emit("info", "delay.scheduled", "", map[string]interface{}{
		"script": g.ID, "node": target, "session": session,
		"wait_ms": wait.Milliseconds(),
	})
	e.sched.Schedule(session, wait, resume)
}
