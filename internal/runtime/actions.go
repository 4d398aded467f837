package runtime

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fableforge/fableengine/internal/events"
	"github.com/fableforge/fableengine/internal/script"
	"github.com/fableforge/fableengine/internal/world"
)

// say appends a player-facing message to the result, with template
// placeholders expanded, and emits it for live consumers.
func (r *run) say(text string) {
	msg := interpolate(r.st, text)
	r.res.Messages = append(r.res.Messages, msg)
	events.Emit("info", "message.emitted", msg, map[string]interface{}{
		"script": r.g.ID, "session": r.session,
	})
}

// signal records a typed request for a host sub-system.
func (r *run) signal(s Signal) {
	r.res.Signals = append(r.res.Signals, s)
	events.Emit("info", "signal.emitted", "", map[string]interface{}{
		"kind": string(s.Kind), "target": s.Target, "session": r.session,
	})
}

// applyAction applies one action node's effect to world state.
func (r *run) applyAction(n *script.Node) error {
	switch n.Type {
	case "action.showMessage":
		text, err := r.textParam(n, "text")
		if err != nil {
			return err
		}
		r.say(text)
		return nil

	case "action.setFlag":
		flag, err := r.textParam(n, "flag")
		if err != nil {
			return err
		}
		value, err := r.boolParam(n, "value")
		if err != nil {
			return err
		}
		r.st.SetFlag(flag, value)
		return nil

	case "action.clearFlag":
		flag, err := r.textParam(n, "flag")
		if err != nil {
			return err
		}
		r.st.SetFlag(flag, false)
		return nil

	case "action.setCounter":
		counter, err := r.textParam(n, "counter")
		if err != nil {
			return err
		}
		value, err := r.intParam(n, "value")
		if err != nil {
			return err
		}
		r.st.SetCounter(counter, value)
		return nil

	case "action.incCounter":
		counter, err := r.textParam(n, "counter")
		if err != nil {
			return err
		}
		amount, err := r.intParam(n, "amount")
		if err != nil {
			return err
		}
		r.st.IncCounter(counter, amount)
		return nil

	case "action.giveItem":
		object, err := r.refParam(n, "object")
		if err != nil {
			return err
		}
		return r.stateErr(n, r.st.GiveItem(object))

	case "action.removeItem":
		object, err := r.refParam(n, "object")
		if err != nil {
			return err
		}
		return r.stateErr(n, r.st.RemoveItem(object))

	case "action.equipItem":
		object, err := r.refParam(n, "object")
		if err != nil {
			return err
		}
		return r.stateErr(n, r.st.Equip(object))

	case "action.unequipItem":
		object, err := r.refParam(n, "object")
		if err != nil {
			return err
		}
		return r.stateErr(n, r.st.Unequip(object))

	case "action.movePlayer":
		room, err := r.refParam(n, "room")
		if err != nil {
			return err
		}
		return r.stateErr(n, r.st.MovePlayer(room))

	case "action.moveObject":
		object, err := r.refParam(n, "object")
		if err != nil {
			return err
		}
		room, err := r.refParam(n, "room")
		if err != nil {
			return err
		}
		return r.stateErr(n, r.st.MoveObject(object, room))

	case "action.moveNpc":
		npc, err := r.refParam(n, "npc")
		if err != nil {
			return err
		}
		room, err := r.refParam(n, "room")
		if err != nil {
			return err
		}
		return r.stateErr(n, r.st.MoveNpc(npc, room))

	case "action.openDoor":
		door, err := r.refParam(n, "door")
		if err != nil {
			return err
		}
		return r.stateErr(n, r.st.SetDoor(door, true, false))

	case "action.closeDoor":
		door, err := r.refParam(n, "door")
		if err != nil {
			return err
		}
		return r.stateErr(n, r.st.SetDoor(door, false, r.st.DoorLocked(door)))

	case "action.lockDoor":
		door, err := r.refParam(n, "door")
		if err != nil {
			return err
		}
		return r.stateErr(n, r.st.SetDoor(door, false, true))

	case "action.unlockDoor":
		door, err := r.refParam(n, "door")
		if err != nil {
			return err
		}
		return r.stateErr(n, r.st.SetDoor(door, r.st.DoorOpen(door), false))

	case "action.healPlayer":
		amount, err := r.intParam(n, "amount")
		if err != nil {
			return err
		}
		r.st.HealPlayer(amount)
		r.say(fmt.Sprintf("You recover %d hit points.", amount))
		return nil

	case "action.damagePlayer":
		amount, err := r.intParam(n, "amount")
		if err != nil {
			return err
		}
		r.st.DamagePlayer(amount)
		r.say(fmt.Sprintf("You take %d damage.", amount))
		return nil

	case "action.setPlayerStat":
		stat, err := r.textParam(n, "stat")
		if err != nil {
			return err
		}
		value, err := r.intParam(n, "value")
		if err != nil {
			return err
		}
		r.st.SetStat(stat, value)
		return nil

	case "action.healNpc":
		npc, err := r.refParam(n, "npc")
		if err != nil {
			return err
		}
		amount, err := r.intParam(n, "amount")
		if err != nil {
			return err
		}
		return r.stateErr(n, r.st.HealNpc(npc, amount))

	case "action.damageNpc":
		npc, err := r.refParam(n, "npc")
		if err != nil {
			return err
		}
		amount, err := r.intParam(n, "amount")
		if err != nil {
			return err
		}
		return r.stateErr(n, r.st.DamageNpc(npc, amount))

	case "action.killNpc":
		npc, err := r.refParam(n, "npc")
		if err != nil {
			return err
		}
		return r.stateErr(n, r.st.KillNpc(npc))

	case "action.reviveNpc":
		npc, err := r.refParam(n, "npc")
		if err != nil {
			return err
		}
		return r.stateErr(n, r.st.ReviveNpc(npc))

	case "action.startQuest":
		quest, err := r.refParam(n, "quest")
		if err != nil {
			return err
		}
		if err := r.stateErr(n, r.st.StartQuest(quest)); err != nil {
			return err
		}
		r.say("Quest started: " + r.questName(quest))
		return nil

	case "action.advanceQuest":
		quest, err := r.refParam(n, "quest")
		if err != nil {
			return err
		}
		if err := r.stateErr(n, r.st.AdvanceQuest(quest)); err != nil {
			return err
		}
		if r.st.QuestStatus(quest) == world.QuestCompleted {
			r.say("Quest completed: " + r.questName(quest))
		} else {
			r.say("Quest advanced: " + r.questName(quest))
		}
		return nil

	case "action.completeQuest":
		quest, err := r.refParam(n, "quest")
		if err != nil {
			return err
		}
		if err := r.stateErr(n, r.st.CompleteQuest(quest)); err != nil {
			return err
		}
		r.say("Quest completed: " + r.questName(quest))
		return nil

	case "action.failQuest":
		quest, err := r.refParam(n, "quest")
		if err != nil {
			return err
		}
		if err := r.stateErr(n, r.st.FailQuest(quest)); err != nil {
			return err
		}
		r.say("Quest failed: " + r.questName(quest))
		return nil

	case "action.startCombat":
		npc, err := r.refParam(n, "npc")
		if err != nil {
			return err
		}
		r.signal(Signal{Kind: SignalEnterCombat, Target: npc})
		return nil

	case "action.endCombat":
		r.signal(Signal{Kind: SignalEndCombat})
		return nil

	case "action.startTrade":
		npc, err := r.refParam(n, "npc")
		if err != nil {
			return err
		}
		r.signal(Signal{Kind: SignalEnterTrade, Target: npc})
		return nil

	case "action.startConversation":
		npc, err := r.refParam(n, "npc")
		if err != nil {
			return err
		}
		r.signal(Signal{Kind: SignalEnterConversation, Target: npc})
		return nil

	case "action.playFx":
		fx, err := r.refParam(n, "fx")
		if err != nil {
			return err
		}
		r.signal(Signal{Kind: SignalPlayFx, Target: fx})
		return nil

	case "action.endGame":
		text, err := r.textParam(n, "text")
		if err != nil {
			return err
		}
		victory, err := r.boolParam(n, "victory")
		if err != nil {
			return err
		}
		r.st.GameOver = true
		r.st.Victory = victory
		r.say(text)
		r.signal(Signal{Kind: SignalEndGame, Victory: victory})
		return nil
	}

	return unknownTypeErrf("unknown action type %q on node %q", n.Type, n.ID)
}

// stateErr converts a world-state mutation error into a node data error.
func (r *run) stateErr(n *script.Node, err error) error {
	if err == nil {
		return nil
	}
	return dataErrf("node %q: %v", n.ID, err)
}

func (r *run) questName(questID string) string {
	if q, ok := r.st.Defs().Quests[questID]; ok && q.Name != "" {
		return q.Name
	}
	return questID
}

// interpolate expands {flag:name}, {counter:name}, {stat:name} and {room}
// placeholders in message text against current state.
func interpolate(st *world.State, text string) string {
	if !strings.Contains(text, "{") {
		return text
	}

	var b strings.Builder
	rest := text
	for {
		open := strings.Index(rest, "{")
		if open == -1 {
			b.WriteString(rest)
			break
		}
		end := strings.Index(rest[open:], "}")
		if end == -1 {
			b.WriteString(rest)
			break
		}
		b.WriteString(rest[:open])
		key := rest[open+1 : open+end]
		rest = rest[open+end+1:]

		switch {
		case strings.HasPrefix(key, "flag:"):
			b.WriteString(strconv.FormatBool(st.Flag(strings.TrimPrefix(key, "flag:"))))
		case strings.HasPrefix(key, "counter:"):
			b.WriteString(strconv.Itoa(st.Counter(strings.TrimPrefix(key, "counter:"))))
		case strings.HasPrefix(key, "stat:"):
			b.WriteString(strconv.Itoa(st.Stat(strings.TrimPrefix(key, "stat:"))))
		case key == "room":
			if room, ok := st.Defs().Rooms[st.Player.Room]; ok && room.Name != "" {
				b.WriteString(room.Name)
			} else {
				b.WriteString(st.Player.Room)
			}
		default:
			// Unknown placeholder passes through untouched.
			b.WriteString("{" + key + "}")
		}
	}
	return b.String()
}
