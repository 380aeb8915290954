package ws

import (
	"sync"
	"time"
)

// Fixed-window cap on game intents per session, so one misbehaving client
// cannot flood a room's intent channel. Generous against humans; bots do
// not go through Dispatch.
const (
	intentRateMax    = 60
	intentRateWindow = 10 * time.Second
)

type intentLimiter struct {
	mu     sync.Mutex
	max    int
	window time.Duration
	seen   map[string]*intentWindow
}

type intentWindow struct {
	start time.Time
	count int
}

func newIntentLimiter(max int, window time.Duration) *intentLimiter {
	return &intentLimiter{
		max:    max,
		window: window,
		seen:   make(map[string]*intentWindow),
	}
}

// allow counts one intent against the session's current window.
func (l *intentLimiter) allow(sessionID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	w := l.seen[sessionID]
	if w == nil || now.Sub(w.start) > l.window {
		l.seen[sessionID] = &intentWindow{start: now, count: 1}
		return true
	}
	w.count++
	return w.count <= l.max
}

func (l *intentLimiter) forget(sessionID string) {
	l.mu.Lock()
	delete(l.seen, sessionID)
	l.mu.Unlock()
}

// sweep drops windows that have lapsed; run from the hub's cleanup ticker.
func (l *intentLimiter) sweep() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	for id, w := range l.seen {
		if now.Sub(w.start) > l.window {
			delete(l.seen, id)
		}
	}
}
