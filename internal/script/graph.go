// Package script holds the behavior graph model: typed nodes, typed
// connections, the edit operations the authoring surface calls, and the
// validator that gates saving.
package script

import (
	"fmt"

	"github.com/fableforge/fableengine/internal/catalog"
)

// OwnerKind identifies which world entity a graph is attached to.
type OwnerKind string

const (
	OwnerGame         OwnerKind = "game"
	OwnerRoom         OwnerKind = "room"
	OwnerObject       OwnerKind = "object"
	OwnerNpc          OwnerKind = "npc"
	OwnerDoor         OwnerKind = "door"
	OwnerQuest        OwnerKind = "quest"
	OwnerConversation OwnerKind = "conversation"
)

// Node is one step in a behavior graph. Category is denormalized from the
// node type so validation and traversal don't need a catalog lookup for the
// common dispatch.
type Node struct {
	ID       string                   `json:"id"`
	Type     string                   `json:"type"`
	Category catalog.Category         `json:"category"`
	X        float64                  `json:"x"`
	Y        float64                  `json:"y"`
	Comment  string                   `json:"comment,omitempty"`
	Params   map[string]catalog.Value `json:"params,omitempty"`
}

// Connection is a directed edge from an outbound port to an inbound port.
type Connection struct {
	ID       string       `json:"id"`
	FromNode string       `json:"from_node"`
	FromPort catalog.Port `json:"from_port"`
	ToNode   string       `json:"to_node"`
	ToPort   catalog.Port `json:"to_port"`
}

// Graph is the set of nodes and connections owned by one game entity.
// Persisted as a "script definition" record inside the world document.
type Graph struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	OwnerKind   OwnerKind    `json:"owner_kind"`
	OwnerID     string       `json:"owner_id"`
	Nodes       []Node       `json:"nodes"`
	Connections []Connection `json:"connections"`

	nextNode int
	nextConn int
}

// NewGraph creates an empty graph for the given owner.
func NewGraph(id, name string, ownerKind OwnerKind, ownerID string) *Graph {
	return &Graph{ID: id, Name: name, OwnerKind: ownerKind, OwnerID: ownerID}
}

// Node returns the node with the given ID.
func (g *Graph) Node(id string) (*Node, bool) {
	for i := range g.Nodes {
		if g.Nodes[i].ID == id {
			return &g.Nodes[i], true
		}
	}
	return nil, false
}

// Connection returns the connection with the given ID.
func (g *Graph) Connection(id string) (*Connection, bool) {
	for i := range g.Connections {
		if g.Connections[i].ID == id {
			return &g.Connections[i], true
		}
	}
	return nil, false
}

// OutConnection returns the connection leaving the given node through the
// given port, if any. Ports carry at most one outbound connection.
func (g *Graph) OutConnection(nodeID string, port catalog.Port) (*Connection, bool) {
	for i := range g.Connections {
		c := &g.Connections[i]
		if c.FromNode == nodeID && c.FromPort == port {
			return c, true
		}
	}
	return nil, false
}

// Empty reports whether the graph never received any node. Empty graphs are
// discarded on save.
func (g *Graph) Empty() bool { return len(g.Nodes) == 0 }

// AddNode adds a node of the given catalog type. Declared defaults are
// copied into the parameter map; initial params override them and must match
// the schema.
func (g *Graph) AddNode(cat *catalog.Catalog, typeID string, initial map[string]catalog.Value) (string, error) {
	nt, ok := cat.Lookup(typeID)
	if !ok {
		return "", fmt.Errorf("unknown node type %q", typeID)
	}

	params := make(map[string]catalog.Value)
	for _, p := range nt.Params {
		if p.Default != nil {
			params[p.Name] = *p.Default
		}
	}
	for name, v := range initial {
		p, ok := nt.Param(name)
		if !ok {
			return "", fmt.Errorf("node type %q declares no parameter %q", typeID, name)
		}
		if v.Kind != p.Kind {
			return "", fmt.Errorf("parameter %q wants kind %q, got %q", name, p.Kind, v.Kind)
		}
		params[name] = v
	}

	g.nextNode++
	id := fmt.Sprintf("n%d", g.nextNode)
	g.Nodes = append(g.Nodes, Node{
		ID:       id,
		Type:     nt.ID,
		Category: nt.Category,
		Params:   params,
	})
	return id, nil
}

// RemoveNode removes a node and every connection touching it.
func (g *Graph) RemoveNode(id string) {
	for i := range g.Nodes {
		if g.Nodes[i].ID == id {
			g.Nodes = append(g.Nodes[:i], g.Nodes[i+1:]...)
			break
		}
	}
	kept := g.Connections[:0]
	for _, c := range g.Connections {
		if c.FromNode != id && c.ToNode != id {
			kept = append(kept, c)
		}
	}
	g.Connections = kept
}

// AddConnection links an outbound port of one node to an inbound port of
// another. Both nodes must exist and both ports must be declared by the
// respective node types. An outbound port holds at most one connection; a
// second AddConnection on the same port replaces the first.
func (g *Graph) AddConnection(cat *catalog.Catalog, fromID string, fromPort catalog.Port, toID string, toPort catalog.Port) (string, error) {
	from, ok := g.Node(fromID)
	if !ok {
		return "", fmt.Errorf("source node %q not in graph", fromID)
	}
	to, ok := g.Node(toID)
	if !ok {
		return "", fmt.Errorf("destination node %q not in graph", toID)
	}

	fromType, ok := cat.Lookup(from.Type)
	if !ok {
		return "", fmt.Errorf("source node %q has unknown type %q", fromID, from.Type)
	}
	toType, ok := cat.Lookup(to.Type)
	if !ok {
		return "", fmt.Errorf("destination node %q has unknown type %q", toID, to.Type)
	}
	if !fromType.HasOutput(fromPort) {
		return "", fmt.Errorf("node type %q declares no outbound port %q", from.Type, fromPort)
	}
	if !toType.HasInput(toPort) {
		return "", fmt.Errorf("node type %q declares no inbound port %q", to.Type, toPort)
	}

	if old, ok := g.OutConnection(fromID, fromPort); ok {
		g.RemoveConnection(old.ID)
	}

	g.nextConn++
	id := fmt.Sprintf("c%d", g.nextConn)
	g.Connections = append(g.Connections, Connection{
		ID:       id,
		FromNode: fromID,
		FromPort: fromPort,
		ToNode:   toID,
		ToPort:   toPort,
	})
	return id, nil
}

// RemoveConnection removes the connection with the given ID.
func (g *Graph) RemoveConnection(id string) {
	for i := range g.Connections {
		if g.Connections[i].ID == id {
			g.Connections = append(g.Connections[:i], g.Connections[i+1:]...)
			return
		}
	}
}

// SetParam sets one parameter value on a node, checked against the schema.
func (g *Graph) SetParam(cat *catalog.Catalog, nodeID, name string, v catalog.Value) error {
	n, ok := g.Node(nodeID)
	if !ok {
		return fmt.Errorf("node %q not in graph", nodeID)
	}
	nt, ok := cat.Lookup(n.Type)
	if !ok {
		return fmt.Errorf("node %q has unknown type %q", nodeID, n.Type)
	}
	p, ok := nt.Param(name)
	if !ok {
		return fmt.Errorf("node type %q declares no parameter %q", n.Type, name)
	}
	if v.Kind != p.Kind {
		return fmt.Errorf("parameter %q wants kind %q, got %q", name, p.Kind, v.Kind)
	}
	if n.Params == nil {
		n.Params = make(map[string]catalog.Value)
	}
	n.Params[name] = v
	return nil
}

// SetComment attaches a free-text comment to a node.
func (g *Graph) SetComment(nodeID, comment string) error {
	n, ok := g.Node(nodeID)
	if !ok {
		return fmt.Errorf("node %q not in graph", nodeID)
	}
	n.Comment = comment
	return nil
}

// MoveNode updates a node's layout position. Execution ignores positions.
func (g *Graph) MoveNode(nodeID string, x, y float64) error {
	n, ok := g.Node(nodeID)
	if !ok {
		return fmt.Errorf("node %q not in graph", nodeID)
	}
	n.X, n.Y = x, y
	return nil
}

// Rename sets the graph's display name.
func (g *Graph) Rename(name string) { g.Name = name }

// cloneOffset keeps pasted nodes visibly apart from their originals.
const cloneOffset = 40

// CloneSubgraph copies the given nodes with fresh identifiers. Connections
// with both endpoints inside the set are remapped onto the clones;
// connections crossing the set boundary are dropped. Returns the new node
// IDs, new connection IDs, and the old-to-new ID map.
func (g *Graph) CloneSubgraph(nodeIDs []string) (newNodes, newConns []string, idMap map[string]string) {
	idMap = make(map[string]string, len(nodeIDs))
	inSet := make(map[string]bool, len(nodeIDs))
	for _, id := range nodeIDs {
		inSet[id] = true
	}

	for _, id := range nodeIDs {
		src, ok := g.Node(id)
		if !ok {
			continue
		}
		g.nextNode++
		cloneID := fmt.Sprintf("n%d", g.nextNode)
		idMap[id] = cloneID

		clone := *src
		clone.ID = cloneID
		clone.X += cloneOffset
		clone.Y += cloneOffset
		if src.Params != nil {
			clone.Params = make(map[string]catalog.Value, len(src.Params))
			for k, v := range src.Params {
				clone.Params[k] = v
			}
		}
		g.Nodes = append(g.Nodes, clone)
		newNodes = append(newNodes, cloneID)
	}

	for _, c := range g.Connections {
		if !inSet[c.FromNode] || !inSet[c.ToNode] {
			continue
		}
		g.nextConn++
		id := fmt.Sprintf("c%d", g.nextConn)
		g.Connections = append(g.Connections, Connection{
			ID:       id,
			FromNode: idMap[c.FromNode],
			FromPort: c.FromPort,
			ToNode:   idMap[c.ToNode],
			ToPort:   c.ToPort,
		})
		newConns = append(newConns, id)
	}

	return newNodes, newConns, idMap
}

// Snapshot returns a deep copy of the graph, used by editors for
// full-snapshot undo.
func (g *Graph) Snapshot() *Graph {
	cp := *g
	cp.Nodes = make([]Node, len(g.Nodes))
	for i, n := range g.Nodes {
		cp.Nodes[i] = n
		if n.Params != nil {
			cp.Nodes[i].Params = make(map[string]catalog.Value, len(n.Params))
			for k, v := range n.Params {
				cp.Nodes[i].Params[k] = v
			}
		}
	}
	cp.Connections = append([]Connection(nil), g.Connections...)
	return &cp
}

// Restore replaces the graph's contents with a previously taken snapshot.
func (g *Graph) Restore(snap *Graph) {
	*g = *snap.Snapshot()
}
