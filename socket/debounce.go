package socket

import (
	"sync"
	"time"
)

// DebounceWindow is the fixed flood-suppression window per event type.
const DebounceWindow = 2 * time.Second

// debouncer accepts at most one invocation of each event type per window.
// Duplicate client retries inside the window are dropped without an error
// response, which shields the pairing and move logic from double submits.
type debouncer struct {
	mu     sync.Mutex
	window time.Duration
	last   map[string]time.Time
	now    func() time.Time
}

func newDebouncer(window time.Duration) *debouncer {
	return &debouncer{
		window: window,
		last:   make(map[string]time.Time),
		now:    time.Now,
	}
}

// Allow reports whether an event of this type may run now, and if so starts
// its window.
func (d *debouncer) Allow(event string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	if last, ok := d.last[event]; ok && now.Sub(last) < d.window {
		return false
	}
	d.last[event] = now
	return true
}
