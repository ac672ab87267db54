package fs

import (
	"sync"
	"time"

	"github.com/aretw0/animio/pkg/core"
)

// debouncer coalesces bursts of events for the same path. Only the last event
// of a burst is delivered, once the path has been quiet for the delay.
type debouncer struct {
	delay time.Duration

	mu      sync.Mutex
	timers  map[string]*debounceTimer
	pending map[string]core.Event
	stopped bool
	wg      sync.WaitGroup
}

// debounceTimer is one scheduled delivery. Its identity tells a callback
// whether it is still the registered one for its path.
type debounceTimer struct {
	timer *time.Timer
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{
		delay:   delay,
		timers:  make(map[string]*debounceTimer),
		pending: make(map[string]core.Event),
	}
}

// add schedules deliver for e, replacing any pending event for the same path.
func (d *debouncer) add(e core.Event, deliver func(core.Event)) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	d.pending[e.Path] = e
	if t, ok := d.timers[e.Path]; ok && t.timer.Stop() {
		// The stopped timer will never run, so release its slot.
		d.wg.Done()
	}

	d.wg.Add(1)
	t := &debounceTimer{}
	t.timer = time.AfterFunc(d.delay, func() {
		defer d.wg.Done()
		d.fire(e.Path, t, deliver)
	})
	d.timers[e.Path] = t
}

// fire delivers the pending event for path if t is still the timer registered
// for it. A timer that was replaced while its callback was starting does
// nothing; the newer timer owns the event.
func (d *debouncer) fire(path string, t *debounceTimer, deliver func(core.Event)) {
	d.mu.Lock()
	if d.timers[path] != t {
		d.mu.Unlock()
		return
	}
	latest, ok := d.pending[path]
	delete(d.pending, path)
	delete(d.timers, path)
	stopped := d.stopped
	d.mu.Unlock()

	if ok && !stopped {
		deliver(latest)
	}
}

// stopAndWait rejects new events, cancels pending ones and waits up to
// timeout for deliveries already in flight.
func (d *debouncer) stopAndWait(timeout time.Duration) bool {
	d.mu.Lock()
	d.stopped = true
	for path, t := range d.timers {
		if t.timer.Stop() {
			d.wg.Done()
		}
		delete(d.timers, path)
	}
	clear(d.pending)
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}
