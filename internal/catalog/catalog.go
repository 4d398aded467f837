// Package catalog holds the static registry of node types available to
// behavior graphs. The registry is built once at startup from a fixed table
// and is read-only afterwards.
package catalog

import "fmt"

// Category classifies a node type. The set is closed; execution dispatches
// on it.
type Category string

const (
	CategoryEvent     Category = "event"
	CategoryCondition Category = "condition"
	CategoryAction    Category = "action"
	CategoryFlow      Category = "flow"
)

// Port is a named attachment point on a node. Ports are a closed set per
// category rather than free text, so a port name that doesn't exist cannot
// be persisted.
type Port string

const (
	PortExec  Port = "Exec"
	PortTrue  Port = "True"
	PortFalse Port = "False"
	PortThen0 Port = "Then0"
	PortThen1 Port = "Then1"
	PortThen2 Port = "Then2"
	PortOut0  Port = "Out0"
	PortOut1  Port = "Out1"
	PortOut2  Port = "Out2"
)

// EntityKind identifies which world collection an EntityRef parameter
// points into.
type EntityKind string

const (
	EntityRoom   EntityKind = "room"
	EntityObject EntityKind = "object"
	EntityNpc    EntityKind = "npc"
	EntityDoor   EntityKind = "door"
	EntityQuest  EntityKind = "quest"
	EntityFx     EntityKind = "fx"
)

// ParamKind is the data kind of a node parameter.
type ParamKind string

const (
	KindText      ParamKind = "text"
	KindInteger   ParamKind = "integer"
	KindDecimal   ParamKind = "decimal"
	KindBoolean   ParamKind = "boolean"
	KindSelection ParamKind = "selection"
	KindEntityRef ParamKind = "entityRef"
)

// ParamDef declares one parameter of a node type.
type ParamDef struct {
	Name     string     `json:"name"`
	Display  string     `json:"display"`
	Kind     ParamKind  `json:"kind"`
	Required bool       `json:"required"`
	Default  *Value     `json:"default,omitempty"`
	Options  []string   `json:"options,omitempty"` // selection only
	Ref      EntityKind `json:"ref,omitempty"`     // entityRef only
}

// NodeType describes one entry in the catalog.
type NodeType struct {
	ID          string     `json:"id"` // dotted category+name, e.g. "room.onEnter"
	Category    Category   `json:"category"`
	Display     string     `json:"display"`
	Description string     `json:"description"`
	Params      []ParamDef `json:"params"`
	Inputs      []Port     `json:"inputs"`
	Outputs     []Port     `json:"outputs"`
}

// Param returns the declared parameter with the given name.
func (t NodeType) Param(name string) (ParamDef, bool) {
	for _, p := range t.Params {
		if p.Name == name {
			return p, true
		}
	}
	return ParamDef{}, false
}

// HasInput reports whether the type declares the given inbound port.
func (t NodeType) HasInput(p Port) bool { return containsPort(t.Inputs, p) }

// HasOutput reports whether the type declares the given outbound port.
func (t NodeType) HasOutput(p Port) bool { return containsPort(t.Outputs, p) }

func containsPort(ports []Port, p Port) bool {
	for _, q := range ports {
		if q == p {
			return true
		}
	}
	return false
}

// Catalog is the read-only node type registry.
type Catalog struct {
	types map[string]NodeType
	order []string
}

// New builds the catalog from the fixed table. The table is compile-time
// fixed, so an inconsistent entry is a programming error and panics.
func New() *Catalog {
	c := &Catalog{types: make(map[string]NodeType, len(nodeTable))}
	for _, t := range nodeTable {
		if err := checkType(t); err != nil {
			panic(fmt.Sprintf("catalog: bad node type %s: %v", t.ID, err))
		}
		if _, dup := c.types[t.ID]; dup {
			panic(fmt.Sprintf("catalog: duplicate node type %s", t.ID))
		}
		c.types[t.ID] = t
		c.order = append(c.order, t.ID)
	}
	return c
}

// Lookup returns the node type with the given ID.
func (c *Catalog) Lookup(id string) (NodeType, bool) {
	t, ok := c.types[id]
	return t, ok
}

// All returns every node type in table order. Used by editors to build a
// palette.
func (c *Catalog) All() []NodeType {
	out := make([]NodeType, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.types[id])
	}
	return out
}

// Len returns the number of registered node types.
func (c *Catalog) Len() int { return len(c.types) }

// checkType validates a table entry: port sets must match the category
// contract and parameter declarations must be internally consistent.
func checkType(t NodeType) error {
	switch t.Category {
	case CategoryEvent:
		if len(t.Inputs) != 0 {
			return fmt.Errorf("event nodes take no inbound ports")
		}
		if len(t.Outputs) != 1 || t.Outputs[0] != PortExec {
			return fmt.Errorf("event nodes expose a single Exec output")
		}
	case CategoryCondition:
		if len(t.Inputs) != 1 || t.Inputs[0] != PortExec {
			return fmt.Errorf("condition nodes expose a single Exec input")
		}
		if len(t.Outputs) != 2 || t.Outputs[0] != PortTrue || t.Outputs[1] != PortFalse {
			return fmt.Errorf("condition nodes expose True/False outputs")
		}
	case CategoryAction:
		if len(t.Inputs) != 1 || t.Inputs[0] != PortExec {
			return fmt.Errorf("action nodes expose a single Exec input")
		}
		if len(t.Outputs) != 1 || t.Outputs[0] != PortExec {
			return fmt.Errorf("action nodes expose a single Exec output")
		}
	case CategoryFlow:
		if len(t.Inputs) != 1 || t.Inputs[0] != PortExec {
			return fmt.Errorf("flow nodes expose a single Exec input")
		}
		if len(t.Outputs) == 0 {
			return fmt.Errorf("flow nodes need at least one output")
		}
	default:
		return fmt.Errorf("unknown category %q", t.Category)
	}

	seen := map[string]bool{}
	for _, p := range t.Params {
		if p.Name == "" {
			return fmt.Errorf("parameter with empty name")
		}
		if seen[p.Name] {
			return fmt.Errorf("duplicate parameter %q", p.Name)
		}
		seen[p.Name] = true
		switch p.Kind {
		case KindText, KindInteger, KindDecimal, KindBoolean:
		case KindSelection:
			if len(p.Options) == 0 {
				return fmt.Errorf("selection parameter %q has no options", p.Name)
			}
		case KindEntityRef:
			if p.Ref == "" {
				return fmt.Errorf("entityRef parameter %q has no target kind", p.Name)
			}
		default:
			return fmt.Errorf("parameter %q has unknown kind %q", p.Name, p.Kind)
		}
		if p.Default != nil && p.Default.Kind != p.Kind {
			return fmt.Errorf("parameter %q default kind %q does not match %q",
				p.Name, p.Default.Kind, p.Kind)
		}
	}
	return nil
}
