package catalog

// The fixed node type table. Entries are grouped by category; the order here
// is the palette order editors see.

func evt(id, display, desc string) NodeType {
	return NodeType{
		ID: id, Category: CategoryEvent, Display: display, Description: desc,
		Outputs: []Port{PortExec},
	}
}

func cnd(id, display, desc string, params ...ParamDef) NodeType {
	return NodeType{
		ID: id, Category: CategoryCondition, Display: display, Description: desc,
		Params: params,
		Inputs: []Port{PortExec}, Outputs: []Port{PortTrue, PortFalse},
	}
}

func act(id, display, desc string, params ...ParamDef) NodeType {
	return NodeType{
		ID: id, Category: CategoryAction, Display: display, Description: desc,
		Params: params,
		Inputs: []Port{PortExec}, Outputs: []Port{PortExec},
	}
}

func flw(id, display, desc string, outputs []Port, params ...ParamDef) NodeType {
	return NodeType{
		ID: id, Category: CategoryFlow, Display: display, Description: desc,
		Params: params,
		Inputs: []Port{PortExec}, Outputs: outputs,
	}
}

func textP(name, display string, required bool) ParamDef {
	return ParamDef{Name: name, Display: display, Kind: KindText, Required: required}
}

func intP(name, display string, required bool, def int) ParamDef {
	d := IntValue(def)
	return ParamDef{Name: name, Display: display, Kind: KindInteger, Required: required, Default: &d}
}

func decP(name, display string, required bool, def float64) ParamDef {
	d := DecValue(def)
	return ParamDef{Name: name, Display: display, Kind: KindDecimal, Required: required, Default: &d}
}

func boolP(name, display string, def bool) ParamDef {
	d := BoolValue(def)
	return ParamDef{Name: name, Display: display, Kind: KindBoolean, Default: &d}
}

func selP(name, display string, required bool, options ...string) ParamDef {
	return ParamDef{Name: name, Display: display, Kind: KindSelection, Required: required, Options: options}
}

func refP(name, display string, kind EntityKind, required bool) ParamDef {
	return ParamDef{Name: name, Display: display, Kind: KindEntityRef, Required: required, Ref: kind}
}

// Stat names usable by player-stat conditions and actions.
var statOptions = []string{"hp", "max_hp", "strength", "defense", "gold"}

// Comparison operators for counter and stat conditions.
var compareOptions = []string{"==", "!=", "<", "<=", ">", ">="}

// Quest status names, matching world.QuestStatus values.
var questStatusOptions = []string{"notStarted", "inProgress", "completed", "failed"}

var nodeTable = []NodeType{
	// Events: game lifecycle.
	evt("game.onStart", "Game Started", "Fires once when a new game begins."),
	evt("game.onLoad", "Game Loaded", "Fires after a saved game is restored."),
	evt("game.onEnd", "Game Ended", "Fires when the game ends, win or lose."),
	evt("game.onTick", "Time Passes", "Fires on the periodic game tick."),

	// Events: rooms.
	evt("room.onEnter", "Room Entered", "Fires when the player enters the owning room."),
	evt("room.onFirstEnter", "Room First Entered", "Fires only the first time the player enters the owning room."),
	evt("room.onExit", "Room Exited", "Fires when the player leaves the owning room."),
	evt("room.onLook", "Room Examined", "Fires when the player looks around the owning room."),

	// Events: objects.
	evt("object.onTake", "Object Taken", "Fires when the player picks up the owning object."),
	evt("object.onDrop", "Object Dropped", "Fires when the player drops the owning object."),
	evt("object.onUse", "Object Used", "Fires when the player uses the owning object."),
	evt("object.onExamine", "Object Examined", "Fires when the player examines the owning object."),
	evt("object.onRead", "Object Read", "Fires when the player reads the owning object."),

	// Events: doors.
	evt("door.onOpen", "Door Opened", "Fires when the owning door is opened."),
	evt("door.onClose", "Door Closed", "Fires when the owning door is closed."),
	evt("door.onUnlock", "Door Unlocked", "Fires when the owning door is unlocked."),
	evt("door.onLock", "Door Locked", "Fires when the owning door is locked."),

	// Events: NPCs.
	evt("npc.onTalk", "NPC Spoken To", "Fires when the player talks to the owning NPC."),
	evt("npc.onApproach", "NPC Approached", "Fires when the player enters the owning NPC's room."),
	evt("npc.onAttack", "NPC Attacked", "Fires when the player attacks the owning NPC."),
	evt("npc.onGive", "NPC Given Item", "Fires when the player gives any item to the owning NPC."),

	// Events: quests.
	evt("quest.onStart", "Quest Started", "Fires when the owning quest becomes active."),
	evt("quest.onAdvance", "Quest Advanced", "Fires when the owning quest moves to its next stage."),
	evt("quest.onComplete", "Quest Completed", "Fires when the owning quest is completed."),
	evt("quest.onFail", "Quest Failed", "Fires when the owning quest fails."),

	// Events: conversations.
	evt("conversation.onStart", "Conversation Started", "Fires when a conversation with the owning NPC begins."),
	evt("conversation.onEnd", "Conversation Ended", "Fires when a conversation with the owning NPC ends."),

	// Conditions.
	cnd("cond.flagSet", "Flag Is Set", "True when the named flag is set.",
		textP("flag", "Flag", true)),
	cnd("cond.flagClear", "Flag Is Clear", "True when the named flag is not set.",
		textP("flag", "Flag", true)),
	cnd("cond.counterCompare", "Compare Counter", "Compares the named counter against a value.",
		textP("counter", "Counter", true),
		selP("op", "Operator", true, compareOptions...),
		intP("value", "Value", true, 0)),
	cnd("cond.hasItem", "Player Has Item", "True when the object is in the player's inventory.",
		refP("object", "Object", EntityObject, true)),
	cnd("cond.itemEquipped", "Item Is Equipped", "True when the object is equipped by the player.",
		refP("object", "Object", EntityObject, true)),
	cnd("cond.playerInRoom", "Player In Room", "True when the player is in the given room.",
		refP("room", "Room", EntityRoom, true)),
	cnd("cond.objectInRoom", "Object In Room", "True when the object currently lies in the given room.",
		refP("object", "Object", EntityObject, true),
		refP("room", "Room", EntityRoom, true)),
	cnd("cond.npcInRoom", "NPC In Room", "True when the NPC is currently in the given room.",
		refP("npc", "NPC", EntityNpc, true),
		refP("room", "Room", EntityRoom, true)),
	cnd("cond.npcAlive", "NPC Is Alive", "True when the NPC is alive.",
		refP("npc", "NPC", EntityNpc, true)),
	cnd("cond.doorOpen", "Door Is Open", "True when the door is open.",
		refP("door", "Door", EntityDoor, true)),
	cnd("cond.doorLocked", "Door Is Locked", "True when the door is locked.",
		refP("door", "Door", EntityDoor, true)),
	cnd("cond.questStatus", "Quest Status Is", "True when the quest has the given status.",
		refP("quest", "Quest", EntityQuest, true),
		selP("status", "Status", true, questStatusOptions...)),
	cnd("cond.playerStat", "Compare Player Stat", "Compares a player stat against a value.",
		selP("stat", "Stat", true, statOptions...),
		selP("op", "Operator", true, compareOptions...),
		intP("value", "Value", true, 0)),
	cnd("cond.randomChance", "Random Chance", "True with the given percent probability.",
		intP("percent", "Percent", true, 50)),

	// Actions: messages and variables.
	act("action.showMessage", "Show Message", "Shows a message to the player.",
		textP("text", "Text", true)),
	act("action.setFlag", "Set Flag", "Sets or clears the named flag.",
		textP("flag", "Flag", true),
		boolP("value", "Value", true)),
	act("action.clearFlag", "Clear Flag", "Clears the named flag.",
		textP("flag", "Flag", true)),
	act("action.setCounter", "Set Counter", "Sets the named counter to a value.",
		textP("counter", "Counter", true),
		intP("value", "Value", true, 0)),
	act("action.incCounter", "Increment Counter", "Adds an amount to the named counter.",
		textP("counter", "Counter", true),
		intP("amount", "Amount", true, 1)),

	// Actions: inventory and equipment.
	act("action.giveItem", "Give Item", "Puts the object into the player's inventory.",
		refP("object", "Object", EntityObject, true)),
	act("action.removeItem", "Remove Item", "Removes the object from the player's inventory.",
		refP("object", "Object", EntityObject, true)),
	act("action.equipItem", "Equip Item", "Equips an object the player is carrying.",
		refP("object", "Object", EntityObject, true)),
	act("action.unequipItem", "Unequip Item", "Unequips an equipped object.",
		refP("object", "Object", EntityObject, true)),

	// Actions: movement.
	act("action.movePlayer", "Move Player", "Moves the player to a room.",
		refP("room", "Room", EntityRoom, true)),
	act("action.moveObject", "Move Object", "Moves an object to a room.",
		refP("object", "Object", EntityObject, true),
		refP("room", "Room", EntityRoom, true)),
	act("action.moveNpc", "Move NPC", "Moves an NPC to a room.",
		refP("npc", "NPC", EntityNpc, true),
		refP("room", "Room", EntityRoom, true)),

	// Actions: doors.
	act("action.openDoor", "Open Door", "Opens a door.",
		refP("door", "Door", EntityDoor, true)),
	act("action.closeDoor", "Close Door", "Closes a door.",
		refP("door", "Door", EntityDoor, true)),
	act("action.lockDoor", "Lock Door", "Locks a door (and closes it).",
		refP("door", "Door", EntityDoor, true)),
	act("action.unlockDoor", "Unlock Door", "Unlocks a door.",
		refP("door", "Door", EntityDoor, true)),

	// Actions: player state.
	act("action.healPlayer", "Heal Player", "Restores player hit points, clamped to max.",
		intP("amount", "Amount", true, 10)),
	act("action.damagePlayer", "Damage Player", "Removes player hit points, clamped to zero.",
		intP("amount", "Amount", true, 10)),
	act("action.setPlayerStat", "Set Player Stat", "Sets a player stat to a value.",
		selP("stat", "Stat", true, statOptions...),
		intP("value", "Value", true, 0)),

	// Actions: NPC state.
	act("action.healNpc", "Heal NPC", "Restores an NPC's hit points.",
		refP("npc", "NPC", EntityNpc, true),
		intP("amount", "Amount", true, 10)),
	act("action.damageNpc", "Damage NPC", "Removes an NPC's hit points.",
		refP("npc", "NPC", EntityNpc, true),
		intP("amount", "Amount", true, 10)),
	act("action.killNpc", "Kill NPC", "Marks an NPC as dead.",
		refP("npc", "NPC", EntityNpc, true)),
	act("action.reviveNpc", "Revive NPC", "Marks a dead NPC as alive with full hit points.",
		refP("npc", "NPC", EntityNpc, true)),

	// Actions: quests.
	act("action.startQuest", "Start Quest", "Marks a quest as in progress.",
		refP("quest", "Quest", EntityQuest, true)),
	act("action.advanceQuest", "Advance Quest", "Moves a quest to its next stage.",
		refP("quest", "Quest", EntityQuest, true)),
	act("action.completeQuest", "Complete Quest", "Marks a quest as completed.",
		refP("quest", "Quest", EntityQuest, true)),
	act("action.failQuest", "Fail Quest", "Marks a quest as failed.",
		refP("quest", "Quest", EntityQuest, true)),

	// Actions: sub-system requests. These emit typed signals for the host;
	// the engine never resolves combat or trade itself.
	act("action.startCombat", "Start Combat", "Asks the host to begin combat with an NPC.",
		refP("npc", "NPC", EntityNpc, true)),
	act("action.endCombat", "End Combat", "Asks the host to end the current combat."),
	act("action.startTrade", "Start Trade", "Asks the host to open trade with an NPC.",
		refP("npc", "NPC", EntityNpc, true)),
	act("action.startConversation", "Start Conversation", "Asks the host to begin a conversation with an NPC.",
		refP("npc", "NPC", EntityNpc, true)),
	act("action.playFx", "Play Effect", "Asks the host to play an audio/visual effect.",
		refP("fx", "Effect", EntityFx, true)),
	act("action.endGame", "End Game", "Ends the game with a closing message.",
		textP("text", "Closing Text", true),
		boolP("victory", "Victory", true)),

	// Flow.
	flw("flow.sequence", "Sequence", "Fires Then0, Then1, Then2 in order.",
		[]Port{PortThen0, PortThen1, PortThen2}),
	flw("flow.branch", "Branch", "Routes True/False on a previously set flag.",
		[]Port{PortTrue, PortFalse},
		textP("flag", "Flag", true)),
	flw("flow.random", "Random Branch", "Fires one connected output at random.",
		[]Port{PortOut0, PortOut1, PortOut2}),
	flw("flow.delay", "Delay", "Continues after a wait, without blocking.",
		[]Port{PortExec},
		decP("seconds", "Seconds", true, 1)),
}
