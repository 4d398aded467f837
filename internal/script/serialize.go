package script

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Wire format version for persisted script definitions.
const FormatVersion = 1

// definition is the persisted shape of a Graph. The record is embedded in
// the larger world document and is opaque to everything but this package.
type definition struct {
	Version     int          `json:"version"`
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	OwnerKind   OwnerKind    `json:"owner_kind"`
	OwnerID     string       `json:"owner_id"`
	Nodes       []Node       `json:"nodes"`
	Connections []Connection `json:"connections"`
}

// Marshal serializes the graph losslessly.
func Marshal(g *Graph) ([]byte, error) {
	return json.Marshal(definition{
		Version:     FormatVersion,
		ID:          g.ID,
		Name:        g.Name,
		OwnerKind:   g.OwnerKind,
		OwnerID:     g.OwnerID,
		Nodes:       g.Nodes,
		Connections: g.Connections,
	})
}

// Unmarshal restores a graph from its persisted form. The internal ID
// counters are advanced past every persisted identifier so later edits
// cannot collide.
func Unmarshal(data []byte) (*Graph, error) {
	var def definition
	if err := json.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("failed to parse script definition: %w", err)
	}
	if def.Version != FormatVersion {
		return nil, fmt.Errorf("unsupported script definition version: %d", def.Version)
	}

	g := &Graph{
		ID:          def.ID,
		Name:        def.Name,
		OwnerKind:   def.OwnerKind,
		OwnerID:     def.OwnerID,
		Nodes:       def.Nodes,
		Connections: def.Connections,
	}

	seen := make(map[string]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		if seen[n.ID] {
			return nil, fmt.Errorf("duplicate node identifier %q", n.ID)
		}
		seen[n.ID] = true
		g.nextNode = maxCounter(g.nextNode, n.ID, "n")
	}
	for _, c := range g.Connections {
		if !seen[c.FromNode] {
			return nil, fmt.Errorf("connection %q references missing node %q", c.ID, c.FromNode)
		}
		if !seen[c.ToNode] {
			return nil, fmt.Errorf("connection %q references missing node %q", c.ID, c.ToNode)
		}
		g.nextConn = maxCounter(g.nextConn, c.ID, "c")
	}

	return g, nil
}

// maxCounter bumps a counter past an identifier of the form <prefix><n>.
// Identifiers in other shapes (hand-written worlds) leave the counter alone.
func maxCounter(current int, id, prefix string) int {
	if !strings.HasPrefix(id, prefix) {
		return current
	}
	n, err := strconv.Atoi(id[len(prefix):])
	if err != nil || n <= current {
		return current
	}
	return n
}
