package runtime

import (
	"github.com/fableforge/fableengine/internal/script"
	"github.com/fableforge/fableengine/internal/world"
)

// evalCondition evaluates a condition node purely against world state. It
// reads the latest values on every call; other subsystems may have mutated
// the store since the previous node.
func (r *run) evalCondition(n *script.Node) (bool, error) {
	switch n.Type {
	case "cond.flagSet":
		flag, err := r.textParam(n, "flag")
		if err != nil {
			return false, err
		}
		return r.st.Flag(flag), nil

	case "cond.flagClear":
		flag, err := r.textParam(n, "flag")
		if err != nil {
			return false, err
		}
		return !r.st.Flag(flag), nil

	case "cond.counterCompare":
		counter, err := r.textParam(n, "counter")
		if err != nil {
			return false, err
		}
		op, err := r.textParam(n, "op")
		if err != nil {
			return false, err
		}
		value, err := r.intParam(n, "value")
		if err != nil {
			return false, err
		}
		return compareInts(r.st.Counter(counter), op, value, n.ID)

	case "cond.hasItem":
		object, err := r.refParam(n, "object")
		if err != nil {
			return false, err
		}
		return r.st.HasItem(object), nil

	case "cond.itemEquipped":
		object, err := r.refParam(n, "object")
		if err != nil {
			return false, err
		}
		return r.st.IsEquipped(object), nil

	case "cond.playerInRoom":
		room, err := r.refParam(n, "room")
		if err != nil {
			return false, err
		}
		return r.st.Player.Room == room, nil

	case "cond.objectInRoom":
		object, err := r.refParam(n, "object")
		if err != nil {
			return false, err
		}
		room, err := r.refParam(n, "room")
		if err != nil {
			return false, err
		}
		return r.st.ObjectRoom(object) == room, nil

	case "cond.npcInRoom":
		npc, err := r.refParam(n, "npc")
		if err != nil {
			return false, err
		}
		room, err := r.refParam(n, "room")
		if err != nil {
			return false, err
		}
		return r.st.Npcs[npc].Room == room, nil

	case "cond.npcAlive":
		npc, err := r.refParam(n, "npc")
		if err != nil {
			return false, err
		}
		return r.st.NpcAlive(npc), nil

	case "cond.doorOpen":
		door, err := r.refParam(n, "door")
		if err != nil {
			return false, err
		}
		return r.st.DoorOpen(door), nil

	case "cond.doorLocked":
		door, err := r.refParam(n, "door")
		if err != nil {
			return false, err
		}
		return r.st.DoorLocked(door), nil

	case "cond.questStatus":
		quest, err := r.refParam(n, "quest")
		if err != nil {
			return false, err
		}
		status, err := r.textParam(n, "status")
		if err != nil {
			return false, err
		}
		return r.st.QuestStatus(quest) == world.QuestStatus(status), nil

	case "cond.playerStat":
		stat, err := r.textParam(n, "stat")
		if err != nil {
			return false, err
		}
		op, err := r.textParam(n, "op")
		if err != nil {
			return false, err
		}
		value, err := r.intParam(n, "value")
		if err != nil {
			return false, err
		}
		return compareInts(r.st.Stat(stat), op, value, n.ID)

	case "cond.randomChance":
		percent, err := r.intParam(n, "percent")
		if err != nil {
			return false, err
		}
		if percent <= 0 {
			return false, nil
		}
		if percent >= 100 {
			return true, nil
		}
		return r.e.rng.Intn(100) < percent, nil
	}

	return false, unknownTypeErrf("unknown condition type %q on node %q", n.Type, n.ID)
}

func compareInts(a int, op string, b int, nodeID string) (bool, error) {
	switch op {
	case "==":
		return a == b, nil
	case "!=":
		return a != b, nil
	case "<":
		return a < b, nil
	case "<=":
		return a <= b, nil
	case ">":
		return a > b, nil
	case ">=":
		return a >= b, nil
	}
	return false, dataErrf("node %q has unknown comparison operator %q", nodeID, op)
}
