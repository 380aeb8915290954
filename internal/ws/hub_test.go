package ws

import (
	"testing"
	"time"

	"github.com/CidyChou/jackaroo-queen-sub001/internal/session"
)

type nullSender struct{}

func (nullSender) Send([]byte) bool { return true }

func newTestHub() *Hub {
	return NewHub(session.NewManager(session.ReconnectWindow), nil, true)
}

// waitFor polls cond until it holds or the deadline lapses; room intents
// are handled asynchronously by the room goroutine.
func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal(msg)
}

func TestSwitchingRoomsFreesOldSeat(t *testing.T) {
	h := newTestHub()
	sess := h.Sessions().Create(nullSender{})

	roomA, seat, err := h.CreateRoom(sess, 3)
	if err != nil {
		t.Fatalf("create room A: %v", err)
	}
	if seat != 0 {
		t.Fatalf("creator seat = %d, want 0", seat)
	}
	waitFor(t, func() bool {
		roomA.mu.RLock()
		defer roomA.mu.RUnlock()
		return roomA.status != StatusWaiting
	}, "room A never started against three bots")

	roomB, _, err := h.CreateRoom(sess, 3)
	if err != nil {
		t.Fatalf("create room B: %v", err)
	}
	if roomB == roomA {
		t.Fatal("expected a second room")
	}

	// the abandoned seat must be handed to the AI so room A keeps playing
	// without the departed session
	waitFor(t, func() bool {
		roomA.mu.RLock()
		defer roomA.mu.RUnlock()
		return roomA.seats[0].SessionID == "" && roomA.seats[0].Bot
	}, "room A seat 0 still owned by the session that moved to room B")

	if sess.RoomCode != roomB.Code {
		t.Fatalf("session attached to %q, want %q", sess.RoomCode, roomB.Code)
	}
}

func TestRejoinOwnRoomRejected(t *testing.T) {
	h := newTestHub()
	sess := h.Sessions().Create(nullSender{})

	room, _, err := h.CreateRoom(sess, 0)
	if err != nil {
		t.Fatalf("create room: %v", err)
	}

	if _, _, err := h.JoinRoom(sess, room.Code, 1); err == nil {
		t.Fatal("taking a second seat in the same room must fail")
	}

	room.mu.RLock()
	defer room.mu.RUnlock()
	if room.seats[0].SessionID != sess.ID {
		t.Fatal("original seat must survive the rejected rejoin")
	}
	if room.seats[1].taken() {
		t.Fatal("no second seat may be taken")
	}
}

func TestJoinStoppedRoomFailsFast(t *testing.T) {
	h := newTestHub()
	creator := h.Sessions().Create(nullSender{})
	room, _, err := h.CreateRoom(creator, 0)
	if err != nil {
		t.Fatalf("create room: %v", err)
	}
	room.stop()

	joiner := h.Sessions().Create(nullSender{})
	done := make(chan error, 1)
	go func() {
		_, _, err := h.JoinRoom(joiner, room.Code, -1)
		done <- err
	}()

	select {
	case err := <-done:
		if err == nil {
			t.Fatal("join to a stopped room must fail")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("join to a stopped room must not hang")
	}
}
