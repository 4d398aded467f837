package script

import (
	"github.com/fableforge/fableengine/internal/catalog"
)

// IncompleteNode names a node whose required parameters are not all filled
// in, with the missing parameter display names for the diagnostics panel.
type IncompleteNode struct {
	NodeID  string   `json:"node_id"`
	Display string   `json:"display"`
	Missing []string `json:"missing"`
	TypeID  string   `json:"type"`
	Unknown bool     `json:"unknown,omitempty"` // type not in catalog
}

// Report is the validator's output over one graph.
type Report struct {
	HasEvent   bool             `json:"has_event"`
	HasAction  bool             `json:"has_action"`
	Connected  bool             `json:"connected"`
	Incomplete []IncompleteNode `json:"incomplete,omitempty"`
}

// IsValid reports whether the graph is structurally complete and every
// required parameter holds a value.
func (r Report) IsValid() bool {
	return r.HasEvent && r.HasAction && r.Connected && len(r.Incomplete) == 0
}

// HasErrors reports whether the graph is broken enough to gate destructive
// operations such as save. Disconnection and incomplete parameters are
// warnings only.
func (r Report) HasErrors() bool {
	return !r.HasEvent || !r.HasAction
}

// Validate runs the structural and completeness checks over a graph.
func Validate(g *Graph, cat *catalog.Catalog) Report {
	var r Report

	for _, n := range g.Nodes {
		switch n.Category {
		case catalog.CategoryEvent:
			r.HasEvent = true
		case catalog.CategoryAction:
			r.HasAction = true
		}

		nt, ok := cat.Lookup(n.Type)
		if !ok {
			r.Incomplete = append(r.Incomplete, IncompleteNode{
				NodeID:  n.ID,
				Display: n.Type,
				TypeID:  n.Type,
				Unknown: true,
			})
			continue
		}

		var missing []string
		for _, p := range nt.Params {
			if !p.Required {
				continue
			}
			v, present := n.Params[p.Name]
			if !present || v.IsEmpty() {
				missing = append(missing, p.Display)
			}
		}
		if len(missing) > 0 {
			r.Incomplete = append(r.Incomplete, IncompleteNode{
				NodeID:  n.ID,
				Display: nt.Display,
				Missing: missing,
				TypeID:  n.Type,
			})
		}
	}

	r.Connected = eventReachesAction(g)
	return r
}

// eventReachesAction reports whether a directed path over control-flow
// connections leads from some Event node to some Action node.
func eventReachesAction(g *Graph) bool {
	for _, n := range g.Nodes {
		if n.Category != catalog.CategoryEvent {
			continue
		}
		if reachesAction(g, n.ID) {
			return true
		}
	}
	return false
}

func reachesAction(g *Graph, startID string) bool {
	visited := map[string]bool{startID: true}
	queue := []string{startID}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, c := range g.Connections {
			if c.FromNode != current || visited[c.ToNode] {
				continue
			}
			visited[c.ToNode] = true
			if n, ok := g.Node(c.ToNode); ok && n.Category == catalog.CategoryAction {
				return true
			}
			queue = append(queue, c.ToNode)
		}
	}
	return false
}
