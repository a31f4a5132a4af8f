// Package idle enforces inactivity deadlines. Each tracked key (a
// session id) owns a single pending timer; every qualifying activity
// signal cancels it and arms a fresh one for the full window. When a
// deadline passes, the expiry callback runs exactly once for that key.
package idle

import (
	"sync"
	"time"
)

// DefaultWindow is the inactivity span after which a session is ended.
const DefaultWindow = 5 * time.Minute

// Monitor tracks inactivity deadlines for a set of keys.
type Monitor struct {
	mu       sync.Mutex
	window   time.Duration
	onExpire func(key string)
	timers   map[string]*time.Timer
	closed   bool
}

// NewMonitor creates a monitor that calls onExpire(key) after window of
// inactivity on that key. onExpire runs on a timer goroutine; it must
// not call back into the monitor for the same key synchronously other
// than via Touch or Cancel, which are safe.
func NewMonitor(window time.Duration, onExpire func(key string)) *Monitor {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Monitor{
		window:   window,
		onExpire: onExpire,
		timers:   make(map[string]*time.Timer),
	}
}

// Touch records activity for key: the pending deadline (if any) is
// cancelled and a new one is armed for the full window.
func (m *Monitor) Touch(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return
	}

	if t, ok := m.timers[key]; ok {
		t.Stop()
	}

	var timer *time.Timer
	timer = time.AfterFunc(m.window, func() {
		m.expire(key, timer)
	})
	m.timers[key] = timer
}

// Cancel drops the pending deadline for key with no side effects.
// Cancelling an untracked key is a no-op.
func (m *Monitor) Cancel(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if t, ok := m.timers[key]; ok {
		t.Stop()
		delete(m.timers, key)
	}
}

// Close cancels every pending deadline and rejects further touches.
func (m *Monitor) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	for key, t := range m.timers {
		t.Stop()
		delete(m.timers, key)
	}
}

// Tracked reports whether key currently has a pending deadline.
func (m *Monitor) Tracked(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.timers[key]
	return ok
}

// expire fires the callback for key, unless the deadline was reset or
// cancelled after this timer was scheduled. The identity check against
// the registered timer closes the race between firing and Touch.
func (m *Monitor) expire(key string, timer *time.Timer) {
	m.mu.Lock()
	current, ok := m.timers[key]
	if !ok || current != timer || m.closed {
		m.mu.Unlock()
		return
	}
	delete(m.timers, key)
	m.mu.Unlock()

	m.onExpire(key)
}
