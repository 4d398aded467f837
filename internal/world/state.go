package world

import "fmt"

// QuestStatus is the lifecycle state of a quest.
type QuestStatus string

const (
	QuestNotStarted QuestStatus = "notStarted"
	QuestInProgress QuestStatus = "inProgress"
	QuestCompleted  QuestStatus = "completed"
	QuestFailed     QuestStatus = "failed"
)

// PlayerState is the player's mutable state.
type PlayerState struct {
	Room      string
	Inventory []string
	Equipped  []string
	Stats     map[string]int
}

// NpcState is an NPC's mutable state.
type NpcState struct {
	Room  string
	HP    int
	Alive bool
}

// DoorState is a door's mutable state.
type DoorState struct {
	Open   bool
	Locked bool
}

// QuestState is a quest's mutable state.
type QuestState struct {
	Status QuestStatus
	Stage  int
}

// State is the mutable game state. Only Action nodes mutate it during
// script execution; other subsystems (parser commands, combat resolution)
// may mutate it between invocations, so readers always go through the
// accessors rather than caching.
type State struct {
	defs *Definitions

	Flags    map[string]bool
	Counters map[string]int
	Player   PlayerState
	Objects  map[string]string // object ID -> room ID, "" = nowhere
	Npcs     map[string]NpcState
	Doors    map[string]DoorState
	Quests   map[string]QuestState
	Visited  map[string]bool // rooms the player has entered
	GameOver bool
	Victory  bool
}

// Default player hit points when a world doesn't configure stats.
const defaultPlayerHP = 100

// NewState builds a fresh mutable state from world definitions.
func NewState(defs *Definitions) *State {
	s := &State{
		defs:     defs,
		Flags:    map[string]bool{},
		Counters: map[string]int{},
		Player: PlayerState{
			Room:      defs.StartRoom,
			Inventory: []string{},
			Equipped:  []string{},
			Stats: map[string]int{
				"hp":     defaultPlayerHP,
				"max_hp": defaultPlayerHP,
			},
		},
		Objects: map[string]string{},
		Npcs:    map[string]NpcState{},
		Doors:   map[string]DoorState{},
		Quests:  map[string]QuestState{},
		Visited: map[string]bool{},
	}
	for id, o := range defs.Objects {
		s.Objects[id] = o.Location
	}
	for id, n := range defs.Npcs {
		s.Npcs[id] = NpcState{Room: n.Room, HP: n.MaxHP, Alive: true}
	}
	for id, d := range defs.Doors {
		s.Doors[id] = DoorState{Open: d.Open, Locked: d.Locked}
	}
	for id := range defs.Quests {
		s.Quests[id] = QuestState{Status: QuestNotStarted}
	}
	if defs.StartRoom != "" {
		s.Visited[defs.StartRoom] = true
	}
	return s
}

// Defs returns the definitions this state was built from.
func (s *State) Defs() *Definitions { return s.defs }

// Flags and counters.

func (s *State) Flag(name string) bool         { return s.Flags[name] }
func (s *State) SetFlag(name string, v bool)   { s.Flags[name] = v }
func (s *State) Counter(name string) int       { return s.Counters[name] }
func (s *State) SetCounter(name string, v int) { s.Counters[name] = v }
func (s *State) IncCounter(name string, d int) { s.Counters[name] += d }

// Inventory and equipment.

func (s *State) HasItem(objectID string) bool {
	for _, id := range s.Player.Inventory {
		if id == objectID {
			return true
		}
	}
	return false
}

func (s *State) IsEquipped(objectID string) bool {
	for _, id := range s.Player.Equipped {
		if id == objectID {
			return true
		}
	}
	return false
}

// GiveItem puts the object into the player's inventory and removes it from
// the world.
func (s *State) GiveItem(objectID string) error {
	if _, ok := s.defs.Objects[objectID]; !ok {
		return fmt.Errorf("object %q does not exist", objectID)
	}
	if s.HasItem(objectID) {
		return nil
	}
	s.Player.Inventory = append(s.Player.Inventory, objectID)
	s.Objects[objectID] = ""
	return nil
}

// RemoveItem takes the object out of the player's inventory, dropping it in
// the player's current room. Unequips it first if needed.
func (s *State) RemoveItem(objectID string) error {
	if _, ok := s.defs.Objects[objectID]; !ok {
		return fmt.Errorf("object %q does not exist", objectID)
	}
	s.Player.Inventory = removeString(s.Player.Inventory, objectID)
	s.Player.Equipped = removeString(s.Player.Equipped, objectID)
	s.Objects[objectID] = s.Player.Room
	return nil
}

// Equip marks a carried object as equipped. The object is given first if the
// player doesn't carry it, so an equip action is self-sufficient.
func (s *State) Equip(objectID string) error {
	if err := s.GiveItem(objectID); err != nil {
		return err
	}
	if !s.IsEquipped(objectID) {
		s.Player.Equipped = append(s.Player.Equipped, objectID)
	}
	return nil
}

// Unequip clears the equipped mark; the object stays in inventory.
func (s *State) Unequip(objectID string) error {
	if _, ok := s.defs.Objects[objectID]; !ok {
		return fmt.Errorf("object %q does not exist", objectID)
	}
	s.Player.Equipped = removeString(s.Player.Equipped, objectID)
	return nil
}

// Movement.

func (s *State) MovePlayer(roomID string) error {
	if _, ok := s.defs.Rooms[roomID]; !ok {
		return fmt.Errorf("room %q does not exist", roomID)
	}
	s.Player.Room = roomID
	s.Visited[roomID] = true
	return nil
}

func (s *State) MoveObject(objectID, roomID string) error {
	if _, ok := s.defs.Objects[objectID]; !ok {
		return fmt.Errorf("object %q does not exist", objectID)
	}
	if _, ok := s.defs.Rooms[roomID]; !ok {
		return fmt.Errorf("room %q does not exist", roomID)
	}
	s.Player.Inventory = removeString(s.Player.Inventory, objectID)
	s.Player.Equipped = removeString(s.Player.Equipped, objectID)
	s.Objects[objectID] = roomID
	return nil
}

func (s *State) MoveNpc(npcID, roomID string) error {
	ns, ok := s.Npcs[npcID]
	if !ok {
		return fmt.Errorf("npc %q does not exist", npcID)
	}
	if _, ok := s.defs.Rooms[roomID]; !ok {
		return fmt.Errorf("room %q does not exist", roomID)
	}
	ns.Room = roomID
	s.Npcs[npcID] = ns
	return nil
}

// ObjectRoom returns the room an object currently lies in; empty when the
// object is carried or nowhere.
func (s *State) ObjectRoom(objectID string) string { return s.Objects[objectID] }

// Doors.

func (s *State) SetDoor(doorID string, open, locked bool) error {
	if _, ok := s.Doors[doorID]; !ok {
		return fmt.Errorf("door %q does not exist", doorID)
	}
	s.Doors[doorID] = DoorState{Open: open, Locked: locked}
	return nil
}

func (s *State) DoorOpen(doorID string) bool   { return s.Doors[doorID].Open }
func (s *State) DoorLocked(doorID string) bool { return s.Doors[doorID].Locked }

// Player stats.

func (s *State) Stat(name string) int { return s.Player.Stats[name] }

func (s *State) SetStat(name string, v int) { s.Player.Stats[name] = v }

// HealPlayer restores hit points, clamped to max_hp. Returns current HP.
func (s *State) HealPlayer(amount int) int {
	hp := s.Player.Stats["hp"] + amount
	if max := s.Player.Stats["max_hp"]; max > 0 && hp > max {
		hp = max
	}
	s.Player.Stats["hp"] = hp
	return hp
}

// DamagePlayer removes hit points, clamped to zero. Returns remaining HP.
func (s *State) DamagePlayer(amount int) int {
	hp := s.Player.Stats["hp"] - amount
	if hp < 0 {
		hp = 0
	}
	s.Player.Stats["hp"] = hp
	return hp
}

// NPCs.

func (s *State) NpcAlive(npcID string) bool { return s.Npcs[npcID].Alive }

func (s *State) HealNpc(npcID string, amount int) error {
	ns, ok := s.Npcs[npcID]
	if !ok {
		return fmt.Errorf("npc %q does not exist", npcID)
	}
	ns.HP += amount
	if max := s.defs.Npcs[npcID].MaxHP; max > 0 && ns.HP > max {
		ns.HP = max
	}
	s.Npcs[npcID] = ns
	return nil
}

func (s *State) DamageNpc(npcID string, amount int) error {
	ns, ok := s.Npcs[npcID]
	if !ok {
		return fmt.Errorf("npc %q does not exist", npcID)
	}
	ns.HP -= amount
	if ns.HP <= 0 {
		ns.HP = 0
		ns.Alive = false
	}
	s.Npcs[npcID] = ns
	return nil
}

func (s *State) KillNpc(npcID string) error {
	ns, ok := s.Npcs[npcID]
	if !ok {
		return fmt.Errorf("npc %q does not exist", npcID)
	}
	ns.HP = 0
	ns.Alive = false
	s.Npcs[npcID] = ns
	return nil
}

func (s *State) ReviveNpc(npcID string) error {
	ns, ok := s.Npcs[npcID]
	if !ok {
		return fmt.Errorf("npc %q does not exist", npcID)
	}
	ns.HP = s.defs.Npcs[npcID].MaxHP
	ns.Alive = true
	s.Npcs[npcID] = ns
	return nil
}

// Quests.

func (s *State) QuestStatus(questID string) QuestStatus {
	if qs, ok := s.Quests[questID]; ok {
		return qs.Status
	}
	return QuestNotStarted
}

// StartQuest marks a quest in progress. Already-started quests are left
// alone so re-firing entry events is harmless.
func (s *State) StartQuest(questID string) error {
	qs, ok := s.Quests[questID]
	if !ok {
		return fmt.Errorf("quest %q does not exist", questID)
	}
	if qs.Status != QuestNotStarted {
		return nil
	}
	qs.Status = QuestInProgress
	qs.Stage = 1
	s.Quests[questID] = qs
	return nil
}

// AdvanceQuest moves an in-progress quest to its next stage; the final
// stage completes it.
func (s *State) AdvanceQuest(questID string) error {
	qs, ok := s.Quests[questID]
	if !ok {
		return fmt.Errorf("quest %q does not exist", questID)
	}
	if qs.Status != QuestInProgress {
		return nil
	}
	qs.Stage++
	if stages := s.defs.Quests[questID].Stages; stages > 0 && qs.Stage > stages {
		qs.Status = QuestCompleted
		qs.Stage = stages
	}
	s.Quests[questID] = qs
	return nil
}

func (s *State) CompleteQuest(questID string) error {
	return s.setQuestStatus(questID, QuestCompleted)
}

func (s *State) FailQuest(questID string) error {
	return s.setQuestStatus(questID, QuestFailed)
}

func (s *State) setQuestStatus(questID string, status QuestStatus) error {
	qs, ok := s.Quests[questID]
	if !ok {
		return fmt.Errorf("quest %q does not exist", questID)
	}
	qs.Status = status
	s.Quests[questID] = qs
	return nil
}

func removeString(slice []string, v string) []string {
	for i, s := range slice {
		if s == v {
			return append(slice[:i], slice[i+1:]...)
		}
	}
	return slice
}
