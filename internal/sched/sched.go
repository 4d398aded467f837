// Package sched runs delayed continuations off the host tick loop. Tasks are
// keyed by session so tearing a session down discards its pending work.
package sched

import (
	"sort"
	"sync"
	"time"

	"github.com/fableforge/fableengine/internal/events"
)

// Clock abstracts time for tests.
type Clock func() time.Time

type task struct {
	id      int64
	session string
	due     time.Time
	resume  func()
}

// Scheduler holds pending continuations and fires the due ones on each tick.
type Scheduler struct {
	mu     sync.Mutex
	now    Clock
	nextID int64
	tasks  []*task
}

func New(now Clock) *Scheduler {
	if now == nil {
		now = time.Now
	}
	return &Scheduler{now: now}
}

// Schedule registers a continuation to resume once wait has elapsed.
func (s *Scheduler) Schedule(session string, wait time.Duration, resume func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	s.tasks = append(s.tasks, &task{
		id:      s.nextID,
		session: session,
		due:     s.now().Add(wait),
		resume:  resume,
	})
}

// Tick resumes every due continuation, oldest due first, each one run to
// completion before the next starts. Returns the number resumed.
func (s *Scheduler) Tick() int {
	s.mu.Lock()
	now := s.now()

	var due []*task
	kept := s.tasks[:0]
	for _, t := range s.tasks {
		if !t.due.After(now) {
			due = append(due, t)
		} else {
			kept = append(kept, t)
		}
	}
	s.tasks = kept
	s.mu.Unlock()

	sort.Slice(due, func(i, j int) bool {
		if due[i].due.Equal(due[j].due) {
			return due[i].id < due[j].id
		}
		return due[i].due.Before(due[j].due)
	})

	// Resumes run outside the lock so a continuation may schedule further
	// delays.
	for _, t := range due {
		t.resume()
	}
	return len(due)
}

// CancelSession discards every pending continuation for the session without
// resuming it. Returns the number discarded.
func (s *Scheduler) CancelSession(session string) int {
	s.mu.Lock()
	kept := s.tasks[:0]
	cancelled := 0
	for _, t := range s.tasks {
		if t.session == session {
			cancelled++
		} else {
			kept = append(kept, t)
		}
	}
	s.tasks = kept
	s.mu.Unlock()

	if cancelled > 0 {
		events.Emit("info", "delay.cancelled", "", map[string]interface{}{
			"session": session, "count": cancelled,
		})
	}
	return cancelled
}

// CancelAll discards every pending continuation. Used at shutdown.
func (s *Scheduler) CancelAll() int {
	s.mu.Lock()
	n := len(s.tasks)
	s.tasks = nil
	s.mu.Unlock()
	return n
}

// Pending returns the number of continuations waiting to resume.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}
