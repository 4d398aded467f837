package sched

import (
	"testing"
	"time"
)

// fakeClock is a manually advanced time source.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func TestScheduleAndTick(t *testing.T) {
	clock := newFakeClock()
	s := New(clock.Now)

	fired := false
	s.Schedule("sess1", 2*time.Second, func() { fired = true })

	if n := s.Tick(); n != 0 {
		t.Fatalf("expected nothing due immediately, resumed %d", n)
	}
	if fired {
		t.Fatal("continuation resumed before its wait elapsed")
	}

	clock.Advance(time.Second)
	s.Tick()
	if fired {
		t.Fatal("continuation resumed after only 1s of a 2s wait")
	}

	clock.Advance(time.Second)
	if n := s.Tick(); n != 1 {
		t.Fatalf("expected 1 resume, got %d", n)
	}
	if !fired {
		t.Fatal("continuation did not resume after wait elapsed")
	}
	if s.Pending() != 0 {
		t.Errorf("expected no pending tasks, got %d", s.Pending())
	}
}

func TestTickRunsInDueOrder(t *testing.T) {
	clock := newFakeClock()
	s := New(clock.Now)

	var order []string
	s.Schedule("sess1", 3*time.Second, func() { order = append(order, "late") })
	s.Schedule("sess1", 1*time.Second, func() { order = append(order, "early") })
	s.Schedule("sess1", 2*time.Second, func() { order = append(order, "mid") })

	clock.Advance(5 * time.Second)
	if n := s.Tick(); n != 3 {
		t.Fatalf("expected 3 resumes, got %d", n)
	}

	want := []string{"early", "mid", "late"}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("resume order %v, want %v", order, want)
		}
	}
}

func TestTickRunsOneFullyBeforeNext(t *testing.T) {
	clock := newFakeClock()
	s := New(clock.Now)

	var trace []string
	s.Schedule("sess1", time.Second, func() {
		trace = append(trace, "a-start")
		trace = append(trace, "a-end")
	})
	s.Schedule("sess1", time.Second, func() {
		trace = append(trace, "b-start")
		trace = append(trace, "b-end")
	})

	clock.Advance(time.Second)
	s.Tick()

	want := []string{"a-start", "a-end", "b-start", "b-end"}
	for i := range want {
		if trace[i] != want[i] {
			t.Fatalf("trace %v, want %v", trace, want)
		}
	}
}

func TestCancelSession(t *testing.T) {
	clock := newFakeClock()
	s := New(clock.Now)

	fired := false
	s.Schedule("sess1", time.Second, func() { fired = true })
	s.Schedule("sess2", time.Second, func() {})

	if n := s.CancelSession("sess1"); n != 1 {
		t.Fatalf("expected 1 cancelled, got %d", n)
	}

	clock.Advance(2 * time.Second)
	if n := s.Tick(); n != 1 {
		t.Fatalf("expected only sess2's task to resume, got %d", n)
	}
	if fired {
		t.Fatal("cancelled continuation resumed")
	}
}

func TestContinuationCanScheduleMore(t *testing.T) {
	clock := newFakeClock()
	s := New(clock.Now)

	second := false
	s.Schedule("sess1", time.Second, func() {
		s.Schedule("sess1", time.Second, func() { second = true })
	})

	clock.Advance(time.Second)
	s.Tick()
	if s.Pending() != 1 {
		t.Fatalf("expected rescheduled task pending, got %d", s.Pending())
	}

	clock.Advance(time.Second)
	s.Tick()
	if !second {
		t.Fatal("chained continuation did not resume")
	}
}

func TestCancelAll(t *testing.T) {
	clock := newFakeClock()
	s := New(clock.Now)

	s.Schedule("sess1", time.Second, func() {})
	s.Schedule("sess2", time.Second, func() {})

	if n := s.CancelAll(); n != 2 {
		t.Fatalf("expected 2 cancelled, got %d", n)
	}
	if s.Pending() != 0 {
		t.Errorf("expected no pending tasks, got %d", s.Pending())
	}
}
