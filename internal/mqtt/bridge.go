package mqtt

import (
	"encoding/json"
	"sync"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/fableforge/fableengine/internal/events"
	"github.com/fableforge/fableengine/internal/runtime"
	"github.com/fableforge/fableengine/internal/script"
	"github.com/fableforge/fableengine/internal/world"
)

// Topics the bridge speaks on.
const (
	TopicEvents   = "fable/events"
	TopicSessions = "fable/sessions"
	TopicMessages = "fable/messages"
	TopicSignals  = "fable/signals"
)

// EventDispatcher is the engine surface the bridge drives.
type EventDispatcher interface {
	RunScriptsFor(session string, st *world.State, ownerKind script.OwnerKind, ownerID, eventKind string) runtime.Result
}

// CancelFunc discards pending continuations for a session.
type CancelFunc func(sessionID string)

// Bridge routes broker traffic to the engine: inbound game events become
// dispatches, dispatch output goes back out as player messages and signals.
type Bridge struct {
	client   *Client
	sessions *SessionRegistry
	disp     EventDispatcher
	st       *world.State
	cancel   CancelFunc

	// Serializes dispatches against every other execution path. Execution is
	// single-threaded by contract and paho delivers on its own goroutines, so
	// the host passes the engine's execution lock here.
	exec *sync.Mutex
}

// NewBridge creates a bridge. exec is the engine's execution lock; cancel
// may be nil when the host has no scheduler.
func NewBridge(client *Client, sessions *SessionRegistry, disp EventDispatcher, st *world.State, exec *sync.Mutex, cancel CancelFunc) *Bridge {
	if exec == nil {
		exec = &sync.Mutex{}
	}
	return &Bridge{
		client:   client,
		sessions: sessions,
		disp:     disp,
		st:       st,
		cancel:   cancel,
		exec:     exec,
	}
}

// Start connects and subscribes to the inbound topics. Returns false when
// the broker is unreachable; the engine keeps working without it.
func (b *Bridge) Start() bool {
	if !b.client.StartWithRetry() {
		return false
	}
	if err := b.client.Subscribe(TopicEvents, b.handleEvent); err != nil {
		events.Emit("error", "system.error", "failed to subscribe to game events", map[string]interface{}{
			"topic": TopicEvents, "error": err.Error(),
		})
		return false
	}
	if err := b.client.Subscribe(TopicSessions, b.handleSession); err != nil {
		events.Emit("error", "system.error", "failed to subscribe to session lifecycle", map[string]interface{}{
			"topic": TopicSessions, "error": err.Error(),
		})
		return false
	}
	return true
}

func (b *Bridge) handleEvent(_ paho.Client, msg paho.Message) {
	payload, err := ParseGameEvent(msg.Payload())
	if err != nil {
		events.Emit("error", "system.error", "bad game event payload", map[string]interface{}{
			"topic": msg.Topic(), "error": err.Error(),
		})
		return
	}

	if !b.sessions.Touch(payload.Session) {
		events.Emit("error", "system.error", "game event for unknown session", map[string]interface{}{
			"session": payload.Session, "event": payload.Event,
		})
		return
	}

	b.exec.Lock()
	res := b.disp.RunScriptsFor(payload.Session, b.st, payload.OwnerKind(), payload.Owner.ID, payload.Event)
	b.exec.Unlock()

	b.PublishResult(payload.Session, res)
}

func (b *Bridge) handleSession(_ paho.Client, msg paho.Message) {
	payload, err := ParseSession(msg.Payload())
	if err != nil {
		events.Emit("error", "system.error", "bad session payload", map[string]interface{}{
			"topic": msg.Topic(), "error": err.Error(),
		})
		return
	}

	switch payload.Action {
	case "start":
		b.sessions.Start(payload.Session, payload.HeartbeatSec)
		events.Emit("info", "session.started", "", map[string]interface{}{
			"session": payload.Session, "heartbeat_sec": payload.HeartbeatSec,
		})
	case "heartbeat":
		if !b.sessions.Touch(payload.Session) {
			events.Emit("error", "system.error", "heartbeat for unknown session", map[string]interface{}{
				"session": payload.Session,
			})
		}
	case "end":
		if b.sessions.End(payload.Session) {
			events.Emit("info", "session.ended", "", map[string]interface{}{
				"session": payload.Session,
			})
			if b.cancel != nil {
				b.cancel(payload.Session)
			}
		}
	}
}

// outboundMessage is the wire shape for player-facing text.
type outboundMessage struct {
	Session string `json:"session"`
	Text    string `json:"text"`
}

// outboundSignal is the wire shape for sub-system requests.
type outboundSignal struct {
	Session string `json:"session"`
	Kind    string `json:"kind"`
	Target  string `json:"target,omitempty"`
	Victory bool   `json:"victory,omitempty"`
}

// PublishResult sends a dispatch result's messages and signals out on the
// broker. Also used for resumed continuations, whose output arrives after
// the original dispatch returned.
func (b *Bridge) PublishResult(session string, res runtime.Result) {
	for _, text := range res.Messages {
		payload, err := json.Marshal(outboundMessage{Session: session, Text: text})
		if err != nil {
			continue
		}
		if err := b.client.Publish(TopicMessages, payload); err != nil {
			events.Emit("error", "system.error", "failed to publish message", map[string]interface{}{
				"topic": TopicMessages, "error": err.Error(),
			})
		}
	}

	for _, sig := range res.Signals {
		payload, err := json.Marshal(outboundSignal{
			Session: session,
			Kind:    string(sig.Kind),
			Target:  sig.Target,
			Victory: sig.Victory,
		})
		if err != nil {
			continue
		}
		topic := TopicSignals + "/" + string(sig.Kind)
		if err := b.client.Publish(topic, payload); err != nil {
			events.Emit("error", "system.error", "failed to publish signal", map[string]interface{}{
				"topic": topic, "error": err.Error(),
			})
		}
	}
}
