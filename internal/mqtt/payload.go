package mqtt

import (
	"encoding/json"
	"fmt"

	"github.com/fableforge/fableengine/internal/script"
)

// GameEventPayload is a v1 inbound game event message: the host tells the
// engine that an event fired against an entity.
type GameEventPayload struct {
	Version int      `json:"version"`
	Session string   `json:"session"`
	Owner   OwnerRef `json:"owner"`
	Event   string   `json:"event"`
}

// OwnerRef names the entity whose scripts should run.
type OwnerRef struct {
	Kind string `json:"kind"`
	ID   string `json:"id"`
}

var ownerKinds = map[string]script.OwnerKind{
	"game":         script.OwnerGame,
	"room":         script.OwnerRoom,
	"object":       script.OwnerObject,
	"npc":          script.OwnerNpc,
	"door":         script.OwnerDoor,
	"quest":        script.OwnerQuest,
	"conversation": script.OwnerConversation,
}

// ParseGameEvent parses and validates a game event payload.
func ParseGameEvent(data []byte) (*GameEventPayload, error) {
	var payload GameEventPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("invalid game event JSON: %w", err)
	}

	if payload.Version != 1 {
		return nil, fmt.Errorf("unsupported game event version: %d", payload.Version)
	}
	if payload.Session == "" {
		return nil, fmt.Errorf("session is required")
	}
	if payload.Event == "" {
		return nil, fmt.Errorf("event is required")
	}
	if _, ok := ownerKinds[payload.Owner.Kind]; !ok {
		return nil, fmt.Errorf("unknown owner kind: %q", payload.Owner.Kind)
	}
	if payload.Owner.Kind != "game" && payload.Owner.ID == "" {
		return nil, fmt.Errorf("owner.id is required for kind %q", payload.Owner.Kind)
	}

	// The game owns itself; a missing ID is normalized.
	if payload.Owner.Kind == "game" && payload.Owner.ID == "" {
		payload.Owner.ID = "game"
	}

	return &payload, nil
}

// OwnerKind returns the typed owner kind. Parse validated it already.
func (p *GameEventPayload) OwnerKind() script.OwnerKind {
	return ownerKinds[p.Owner.Kind]
}

// SessionPayload is a v1 session lifecycle message.
type SessionPayload struct {
	Version      int    `json:"version"`
	Session      string `json:"session"`
	Action       string `json:"action"` // start, heartbeat, end
	HeartbeatSec int    `json:"heartbeat_sec,omitempty"`
}

// ParseSession parses and validates a session lifecycle payload.
func ParseSession(data []byte) (*SessionPayload, error) {
	var payload SessionPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("invalid session JSON: %w", err)
	}

	if payload.Version != 1 {
		return nil, fmt.Errorf("unsupported session version: %d", payload.Version)
	}
	if payload.Session == "" {
		return nil, fmt.Errorf("session is required")
	}
	switch payload.Action {
	case "start", "heartbeat", "end":
	default:
		return nil, fmt.Errorf("unknown session action: %q", payload.Action)
	}

	return &payload, nil
}
