// Package world holds the game world: immutable entity definitions, the
// behavior graphs attached to them, and the mutable state the execution
// engine reads and writes.
package world

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/fableforge/fableengine/internal/script"
)

// Room is a location the player can occupy.
type Room struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Exits       map[string]string `json:"exits,omitempty"` // direction -> room ID
}

// Object is a thing that lies in a room or in the player's inventory.
type Object struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Location    string `json:"location"` // starting room, empty = nowhere
	Takeable    bool   `json:"takeable"`
	Equippable  bool   `json:"equippable"`
}

// Npc is a non-player character.
type Npc struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Room  string `json:"room"`
	MaxHP int    `json:"max_hp"`
}

// Door connects two rooms and can be open/closed and locked/unlocked.
type Door struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	Between [2]string `json:"between"`
	Open    bool      `json:"open"`
	Locked  bool      `json:"locked"`
}

// Quest is a multi-stage objective.
type Quest struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Stages      int    `json:"stages"`
}

// Fx names an audio/visual effect the host can play.
type Fx struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Definitions is the immutable part of a loaded world.
type Definitions struct {
	Title     string
	StartRoom string
	Rooms     map[string]Room
	Objects   map[string]Object
	Npcs      map[string]Npc
	Doors     map[string]Door
	Quests    map[string]Quest
	Fx        map[string]Fx
}

// World bundles definitions with the script graphs attached to entities.
// The world model exclusively owns the graph collection; the engine borrows
// one graph at a time.
type World struct {
	Defs    Definitions
	Scripts []*script.Graph

	byOwner map[string][]*script.Graph
}

func ownerKey(kind script.OwnerKind, id string) string {
	return string(kind) + ":" + id
}

// ScriptsFor returns every graph owned by the given entity.
func (w *World) ScriptsFor(kind script.OwnerKind, id string) []*script.Graph {
	return w.byOwner[ownerKey(kind, id)]
}

// AttachScript adds a graph to the world and indexes it by owner.
func (w *World) AttachScript(g *script.Graph) {
	if w.byOwner == nil {
		w.byOwner = make(map[string][]*script.Graph)
	}
	w.Scripts = append(w.Scripts, g)
	key := ownerKey(g.OwnerKind, g.OwnerID)
	w.byOwner[key] = append(w.byOwner[key], g)
}

// DetachScript removes a graph from the world.
func (w *World) DetachScript(id string) {
	for i, g := range w.Scripts {
		if g.ID != id {
			continue
		}
		w.Scripts = append(w.Scripts[:i], w.Scripts[i+1:]...)
		key := ownerKey(g.OwnerKind, g.OwnerID)
		owned := w.byOwner[key]
		for j, og := range owned {
			if og.ID == id {
				w.byOwner[key] = append(owned[:j], owned[j+1:]...)
				break
			}
		}
		return
	}
}

// Wire format version for world documents.
const DocumentVersion = 1

// document is the persisted world shape. Script definitions are embedded as
// raw records so their format stays owned by the script package.
type document struct {
	Version   int               `json:"version"`
	Title     string            `json:"title"`
	StartRoom string            `json:"start_room"`
	Rooms     []Room            `json:"rooms"`
	Objects   []Object          `json:"objects"`
	Npcs      []Npc             `json:"npcs"`
	Doors     []Door            `json:"doors"`
	Quests    []Quest           `json:"quests"`
	Fx        []Fx              `json:"fx"`
	Scripts   []json.RawMessage `json:"scripts"`
}

// Load reads a world document from a file.
func Load(path string) (*World, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read world file: %w", err)
	}
	return Parse(data)
}

// Parse builds a World from a world document.
func Parse(data []byte) (*World, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse world document: %w", err)
	}
	if doc.Version != DocumentVersion {
		return nil, fmt.Errorf("unsupported world document version: %d", doc.Version)
	}

	w := &World{
		Defs: Definitions{
			Title:     doc.Title,
			StartRoom: doc.StartRoom,
			Rooms:     make(map[string]Room, len(doc.Rooms)),
			Objects:   make(map[string]Object, len(doc.Objects)),
			Npcs:      make(map[string]Npc, len(doc.Npcs)),
			Doors:     make(map[string]Door, len(doc.Doors)),
			Quests:    make(map[string]Quest, len(doc.Quests)),
			Fx:        make(map[string]Fx, len(doc.Fx)),
		},
	}
	for _, r := range doc.Rooms {
		w.Defs.Rooms[r.ID] = r
	}
	for _, o := range doc.Objects {
		w.Defs.Objects[o.ID] = o
	}
	for _, n := range doc.Npcs {
		w.Defs.Npcs[n.ID] = n
	}
	for _, d := range doc.Doors {
		w.Defs.Doors[d.ID] = d
	}
	for _, q := range doc.Quests {
		w.Defs.Quests[q.ID] = q
	}
	for _, f := range doc.Fx {
		w.Defs.Fx[f.ID] = f
	}

	for _, raw := range doc.Scripts {
		g, err := script.Unmarshal(raw)
		if err != nil {
			return nil, fmt.Errorf("bad script definition: %w", err)
		}
		w.AttachScript(g)
	}

	return w, nil
}

// Save serializes the world document. Entities are written in ID order so
// saving an unchanged world produces identical, diffable bytes. Graphs that
// never received a node are silently dropped.
func Save(w *World) ([]byte, error) {
	doc := document{
		Version:   DocumentVersion,
		Title:     w.Defs.Title,
		StartRoom: w.Defs.StartRoom,
	}
	for _, r := range w.Defs.Rooms {
		doc.Rooms = append(doc.Rooms, r)
	}
	sort.Slice(doc.Rooms, func(i, j int) bool { return doc.Rooms[i].ID < doc.Rooms[j].ID })
	for _, o := range w.Defs.Objects {
		doc.Objects = append(doc.Objects, o)
	}
	sort.Slice(doc.Objects, func(i, j int) bool { return doc.Objects[i].ID < doc.Objects[j].ID })
	for _, n := range w.Defs.Npcs {
		doc.Npcs = append(doc.Npcs, n)
	}
	sort.Slice(doc.Npcs, func(i, j int) bool { return doc.Npcs[i].ID < doc.Npcs[j].ID })
	for _, d := range w.Defs.Doors {
		doc.Doors = append(doc.Doors, d)
	}
	sort.Slice(doc.Doors, func(i, j int) bool { return doc.Doors[i].ID < doc.Doors[j].ID })
	for _, q := range w.Defs.Quests {
		doc.Quests = append(doc.Quests, q)
	}
	sort.Slice(doc.Quests, func(i, j int) bool { return doc.Quests[i].ID < doc.Quests[j].ID })
	for _, f := range w.Defs.Fx {
		doc.Fx = append(doc.Fx, f)
	}
	sort.Slice(doc.Fx, func(i, j int) bool { return doc.Fx[i].ID < doc.Fx[j].ID })
	for _, g := range w.Scripts {
		if g.Empty() {
			continue
		}
		raw, err := script.Marshal(g)
		if err != nil {
			return nil, fmt.Errorf("failed to serialize script %s: %w", g.ID, err)
		}
		doc.Scripts = append(doc.Scripts, raw)
	}
	return json.MarshalIndent(doc, "", "  ")
}
