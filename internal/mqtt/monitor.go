package mqtt

import (
	"sync"
	"time"

	"github.com/fableforge/fableengine/internal/events"
)

// ExpireFunc is called with a session ID when its heartbeat lapses, so the
// host can discard the session's pending continuations.
type ExpireFunc func(sessionID string)

// Monitor expires sessions whose heartbeat has lapsed. A session that went
// quiet must not have delayed continuations resume into it later.
type Monitor struct {
	registry  *SessionRegistry
	tolerance float64 // multiplier for heartbeat interval (e.g., 2.0 = 2x heartbeat)
	onExpire  ExpireFunc
	stopCh    chan struct{}
	wg        sync.WaitGroup
}

// NewMonitor creates a new session monitor.
// tolerance is the multiplier for heartbeat interval before a session is
// considered expired.
func NewMonitor(registry *SessionRegistry, tolerance float64, onExpire ExpireFunc) *Monitor {
	if tolerance <= 1.0 {
		tolerance = 2.0 // default: miss 1 heartbeat
	}
	return &Monitor{
		registry:  registry,
		tolerance: tolerance,
		onExpire:  onExpire,
		stopCh:    make(chan struct{}),
	}
}

// Start begins the background expiry check loop.
func (m *Monitor) Start(checkInterval time.Duration) {
	m.wg.Add(1)
	go m.expiryLoop(checkInterval)
}

// Stop stops the background expiry check loop.
func (m *Monitor) Stop() {
	close(m.stopCh)
	m.wg.Wait()
}

func (m *Monitor) expiryLoop(interval time.Duration) {
	defer m.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stopCh:
			return
		case <-ticker.C:
			m.CheckExpiry()
		}
	}
}

// CheckExpiry expires every session whose heartbeat has lapsed. Exported so
// a host without the background loop can drive it from its own tick.
func (m *Monitor) CheckExpiry() int {
	now := time.Now()
	expired := 0

	for _, s := range m.registry.All() {
		if s.HeartbeatSec <= 0 {
			continue // sessions without a heartbeat never expire
		}
		timeout := time.Duration(float64(s.HeartbeatSec)*m.tolerance) * time.Second
		if now.Sub(s.LastSeen) <= timeout {
			continue
		}

		m.registry.End(s.ID)
		expired++
		events.Emit("warning", "session.expired", "heartbeat timeout", map[string]interface{}{
			"session":     s.ID,
			"last_seen":   s.LastSeen.Format(time.RFC3339),
			"timeout_sec": timeout.Seconds(),
		})
		if m.onExpire != nil {
			m.onExpire(s.ID)
		}
	}
	return expired
}
