package runtime

import (
	"github.com/fableforge/fableengine/internal/catalog"
	"github.com/fableforge/fableengine/internal/script"
)

// param fetches one parameter value, checked against the node type's schema.
// A required parameter that is absent or empty is a node data error reported
// with the parameter's display name.
func (r *run) param(n *script.Node, name string) (catalog.Value, catalog.ParamDef, error) {
	nt, ok := r.e.cat.Lookup(n.Type)
	if !ok {
		return catalog.Value{}, catalog.ParamDef{}, unknownTypeErrf("unknown node type %q on node %q", n.Type, n.ID)
	}
	pd, ok := nt.Param(name)
	if !ok {
		return catalog.Value{}, catalog.ParamDef{}, dataErrf("node type %q declares no parameter %q", n.Type, name)
	}
	v, ok := n.Params[name]
	if !ok || v.IsEmpty() {
		if pd.Required {
			return catalog.Value{}, pd, dataErrf("node %q missing required parameter %q", n.ID, pd.Display)
		}
		if pd.Default != nil {
			return *pd.Default, pd, nil
		}
		return catalog.Value{Kind: pd.Kind}, pd, nil
	}
	return v, pd, nil
}

func (r *run) textParam(n *script.Node, name string) (string, error) {
	v, _, err := r.param(n, name)
	if err != nil {
		return "", err
	}
	return v.Text, nil
}

func (r *run) intParam(n *script.Node, name string) (int, error) {
	v, _, err := r.param(n, name)
	if err != nil {
		return 0, err
	}
	return v.Int, nil
}

func (r *run) decParam(n *script.Node, name string) (float64, error) {
	v, _, err := r.param(n, name)
	if err != nil {
		return 0, err
	}
	return v.Dec, nil
}

func (r *run) boolParam(n *script.Node, name string) (bool, error) {
	v, _, err := r.param(n, name)
	if err != nil {
		return false, err
	}
	return v.Bool, nil
}

// refParam fetches an entity reference and checks the referenced entity
// still exists; stale references after a world edit are node data errors.
func (r *run) refParam(n *script.Node, name string) (string, error) {
	v, pd, err := r.param(n, name)
	if err != nil {
		return "", err
	}
	id := v.Text
	defs := r.st.Defs()

	exists := false
	switch pd.Ref {
	case catalog.EntityRoom:
		_, exists = defs.Rooms[id]
	case catalog.EntityObject:
		_, exists = defs.Objects[id]
	case catalog.EntityNpc:
		_, exists = defs.Npcs[id]
	case catalog.EntityDoor:
		_, exists = defs.Doors[id]
	case catalog.EntityQuest:
		_, exists = defs.Quests[id]
	case catalog.EntityFx:
		_, exists = defs.Fx[id]
	}
	if !exists {
		return "", dataErrf("node %q parameter %q references unknown %s %q", n.ID, pd.Display, pd.Ref, id)
	}
	return id, nil
}
