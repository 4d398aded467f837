package events

import (
	"encoding/json"
	"testing"
	"time"
)

func TestEmitValidatesName(t *testing.T) {
	Clear()

	if _, err := Emit("info", "bogus.event", "nope", nil); err == nil {
		t.Fatal("expected error for unregistered event name")
	}

	b, err := Emit("info", "script.started", "running", map[string]interface{}{
		"script": "s1",
	})
	if err != nil {
		t.Fatalf("Emit failed: %v", err)
	}

	var e Event
	if err := json.Unmarshal(b, &e); err != nil {
		t.Fatalf("emitted event is not valid JSON: %v", err)
	}
	if e.Name != "script.started" {
		t.Errorf("expected event name script.started, got %s", e.Name)
	}
	if e.Fields["script"] != "s1" {
		t.Errorf("expected script field s1, got %v", e.Fields["script"])
	}
}

func TestRingBufferWraps(t *testing.T) {
	rb := NewRingBuffer(4)
	for i := 0; i < 6; i++ {
		rb.Add(Event{Message: string(rune('a' + i))})
	}

	snap := rb.Snapshot()
	if len(snap) != 4 {
		t.Fatalf("expected 4 events after wrap, got %d", len(snap))
	}
	if snap[0].Message != "c" || snap[3].Message != "f" {
		t.Errorf("expected oldest-first order c..f, got %s..%s", snap[0].Message, snap[3].Message)
	}
}

func TestRingBufferPartial(t *testing.T) {
	rb := NewRingBuffer(8)
	rb.Add(Event{Message: "one"})
	rb.Add(Event{Message: "two"})

	snap := rb.Snapshot()
	if len(snap) != 2 {
		t.Fatalf("expected 2 events, got %d", len(snap))
	}
	if snap[0].Message != "one" {
		t.Errorf("expected oldest first, got %s", snap[0].Message)
	}
}

func TestSubscribeReceivesEvents(t *testing.T) {
	Clear()

	sub := Subscribe()
	defer Unsubscribe(sub)

	if _, err := Emit("info", "node.executed", "", map[string]interface{}{"node": "n1"}); err != nil {
		t.Fatalf("Emit failed: %v", err)
	}

	select {
	case e := <-sub:
		if e.Name != "node.executed" {
			t.Errorf("expected node.executed, got %s", e.Name)
		}
	case <-time.After(time.Second):
		t.Fatal("subscriber did not receive event")
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	sub := Subscribe()
	before := SubscriberCount()
	Unsubscribe(sub)
	if SubscriberCount() != before-1 {
		t.Errorf("expected subscriber count to drop by one")
	}

	if _, ok := <-sub; ok {
		t.Error("expected closed channel after unsubscribe")
	}
}

func TestRecentEvents(t *testing.T) {
	Clear()

	for i := 0; i < 5; i++ {
		if _, err := Emit("info", "node.executed", "", nil); err != nil {
			t.Fatalf("Emit failed: %v", err)
		}
	}

	recent := RecentEvents(3)
	if len(recent) != 3 {
		t.Errorf("expected 3 recent events, got %d", len(recent))
	}

	all := RecentEvents(0)
	if len(all) != 5 {
		t.Errorf("expected all 5 events for n=0, got %d", len(all))
	}
}
