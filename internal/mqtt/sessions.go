package mqtt

import (
	"sync"
	"time"
)

// Session holds runtime information about an active play session.
type Session struct {
	ID           string
	StartedAt    time.Time
	LastSeen     time.Time
	HeartbeatSec int
}

// SessionRegistry tracks the play sessions currently driving the engine.
// Pending delay continuations are keyed by session ID, so the registry is
// the authority for which sessions may still resume work.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewSessionRegistry creates a new empty session registry.
func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{
		sessions: make(map[string]*Session),
	}
}

// Start adds or refreshes a session. Restarting an existing session resets
// its clock but is otherwise idempotent.
func (r *SessionRegistry) Start(id string, heartbeatSec int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	r.sessions[id] = &Session{
		ID:           id,
		StartedAt:    now,
		LastSeen:     now,
		HeartbeatSec: heartbeatSec,
	}
}

// Touch refreshes a session's last-seen time. Returns false if the session
// is not registered.
func (r *SessionRegistry) Touch(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return false
	}
	s.LastSeen = time.Now()
	return true
}

// End removes a session. Returns false if it was not registered.
func (r *SessionRegistry) End(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; !ok {
		return false
	}
	delete(r.sessions, id)
	return true
}

// Exists returns true if the session is registered.
func (r *SessionRegistry) Exists(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.sessions[id]
	return ok
}

// Get returns a copy of a session, or nil if not found.
func (r *SessionRegistry) Get(id string) *Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if s, ok := r.sessions[id]; ok {
		cpy := *s
		return &cpy
	}
	return nil
}

// All returns a copy of every registered session.
func (r *SessionRegistry) All() []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		cpy := *s
		result = append(result, &cpy)
	}
	return result
}

// Count returns the number of active sessions.
func (r *SessionRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Clear removes all sessions.
func (r *SessionRegistry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions = make(map[string]*Session)
}
