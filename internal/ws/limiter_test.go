package ws

import (
	"testing"
	"time"
)

func TestIntentLimiterBlocksOverMax(t *testing.T) {
	l := newIntentLimiter(3, time.Hour)

	for i := 0; i < 3; i++ {
		if !l.allow("s1") {
			t.Fatalf("intent %d inside budget must pass", i+1)
		}
	}
	if l.allow("s1") {
		t.Fatal("intent over budget must be blocked")
	}
	if !l.allow("s2") {
		t.Fatal("budgets are per session")
	}
}

func TestIntentLimiterWindowResets(t *testing.T) {
	l := newIntentLimiter(1, 10*time.Millisecond)

	if !l.allow("s1") {
		t.Fatal("first intent must pass")
	}
	if l.allow("s1") {
		t.Fatal("second intent in window must be blocked")
	}

	// age the window out manually instead of sleeping
	l.mu.Lock()
	l.seen["s1"].start = time.Now().Add(-time.Second)
	l.mu.Unlock()

	if !l.allow("s1") {
		t.Fatal("intent after window lapse must pass")
	}
}

func TestIntentLimiterSweepAndForget(t *testing.T) {
	l := newIntentLimiter(5, 10*time.Millisecond)
	l.allow("stale")
	l.allow("fresh")

	l.mu.Lock()
	l.seen["stale"].start = time.Now().Add(-time.Second)
	l.mu.Unlock()

	l.sweep()
	l.mu.Lock()
	_, staleKept := l.seen["stale"]
	_, freshKept := l.seen["fresh"]
	l.mu.Unlock()
	if staleKept {
		t.Fatal("sweep must drop lapsed windows")
	}
	if !freshKept {
		t.Fatal("sweep must keep live windows")
	}

	l.forget("fresh")
	l.mu.Lock()
	_, kept := l.seen["fresh"]
	l.mu.Unlock()
	if kept {
		t.Fatal("forget must drop the session's window")
	}
}
