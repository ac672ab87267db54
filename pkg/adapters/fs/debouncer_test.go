package fs

import (
	"sync"
	"testing"
	"time"

	"github.com/aretw0/animio/pkg/core"
)

type collector struct {
	mu     sync.Mutex
	events []core.Event
}

func (c *collector) deliver(e core.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, e)
}

func (c *collector) snapshot() []core.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]core.Event(nil), c.events...)
}

func TestDebouncer_CoalescesPerPath(t *testing.T) {
	d := newDebouncer(30 * time.Millisecond)
	c := &collector{}

	d.add(core.Event{Type: core.EventCreate, Path: "/a.json"}, c.deliver)
	d.add(core.Event{Type: core.EventModify, Path: "/a.json"}, c.deliver)
	d.add(core.Event{Type: core.EventModify, Path: "/b.json"}, c.deliver)

	deadline := time.Now().Add(2 * time.Second)
	for len(c.snapshot()) < 2 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	time.Sleep(60 * time.Millisecond)

	got := c.snapshot()
	if len(got) != 2 {
		t.Fatalf("expected 2 events, got %d: %v", len(got), got)
	}
	for _, e := range got {
		if e.Path == "/a.json" && e.Type != core.EventModify {
			t.Errorf("expected the last event of the burst, got %v", e)
		}
	}
	if !d.stopAndWait(time.Second) {
		t.Error("stopAndWait timed out")
	}
}

func TestDebouncer_StopDropsPending(t *testing.T) {
	d := newDebouncer(time.Hour)
	c := &collector{}

	d.add(core.Event{Type: core.EventModify, Path: "/a.json"}, c.deliver)
	if !d.stopAndWait(time.Second) {
		t.Fatal("stopAndWait timed out")
	}
	d.add(core.Event{Type: core.EventModify, Path: "/b.json"}, c.deliver)

	if got := c.snapshot(); len(got) != 0 {
		t.Errorf("expected no deliveries, got %v", got)
	}
}

func TestDebouncer_StaleTimerKeepsNewerEntry(t *testing.T) {
	d := newDebouncer(time.Hour)
	c := &collector{}

	d.add(core.Event{Type: core.EventCreate, Path: "/a.json"}, c.deliver)
	d.mu.Lock()
	first := d.timers["/a.json"]
	d.mu.Unlock()

	d.add(core.Event{Type: core.EventModify, Path: "/a.json"}, c.deliver)

	// A callback of the replaced timer that was already running.
	d.fire("/a.json", first, c.deliver)

	d.mu.Lock()
	current, ok := d.timers["/a.json"]
	d.mu.Unlock()
	if !ok || current == first {
		t.Fatal("newer timer was dropped by the replaced one")
	}
	if got := c.snapshot(); len(got) != 0 {
		t.Errorf("replaced timer delivered %v", got)
	}

	if !d.stopAndWait(time.Second) {
		t.Fatal("stopAndWait could not cancel the newer timer")
	}
	if got := c.snapshot(); len(got) != 0 {
		t.Errorf("expected no deliveries after stop, got %v", got)
	}
}
