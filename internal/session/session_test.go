package session

import (
	"testing"
	"time"
)

type fakeSender struct {
	sent [][]byte
	ok   bool
}

func (f *fakeSender) Send(data []byte) bool {
	f.sent = append(f.sent, data)
	return f.ok
}

// clockAt pins the manager's clock to a controllable instant.
func clockAt(m *Manager) *time.Time {
	now := time.Unix(1000, 0)
	m.now = func() time.Time { return now }
	return &now
}

func TestCanReconnectLifecycle(t *testing.T) {
	m := NewManager(ReconnectWindow)
	now := clockAt(m)

	s := m.Create(&fakeSender{ok: true})

	if m.CanReconnect(s.ID) {
		t.Fatal("never-disconnected session must not be reconnectable")
	}

	m.Disconnect(s.ID)
	if !m.CanReconnect(s.ID) {
		t.Fatal("freshly disconnected session must be reconnectable")
	}

	// strictly before the window elapses: still eligible
	*now = now.Add(ReconnectWindow - time.Millisecond)
	if !m.CanReconnect(s.ID) {
		t.Fatal("session inside window must be reconnectable")
	}
	if left := m.ReconnectTimeRemaining(s.ID); left != time.Millisecond {
		t.Fatalf("remaining = %v; want 1ms", left)
	}

	// exactly at disconnectedAt + window: expired
	*now = now.Add(time.Millisecond)
	if m.CanReconnect(s.ID) {
		t.Fatal("session must expire exactly at the window boundary")
	}
	if left := m.ReconnectTimeRemaining(s.ID); left != 0 {
		t.Fatalf("remaining = %v; want 0", left)
	}
	if m.Reconnect(s.ID, &fakeSender{ok: true}) {
		t.Fatal("reconnect after expiry must fail")
	}
}

func TestReconnectRestoresRoomAndSeat(t *testing.T) {
	m := NewManager(ReconnectWindow)
	clockAt(m)

	s := m.Create(&fakeSender{ok: true})
	m.Attach(s.ID, "ABC123", 2)

	m.Disconnect(s.ID)
	if got := m.BySeat("ABC123", 2); got == nil || got.ID != s.ID {
		t.Fatal("disconnected session must keep its seat")
	}

	if !m.Reconnect(s.ID, &fakeSender{ok: true}) {
		t.Fatal("reconnect inside window must succeed")
	}
	if m.CanReconnect(s.ID) {
		t.Fatal("already-connected session must not be reconnectable")
	}
	if s.RoomCode != "ABC123" || s.Seat != 2 {
		t.Fatalf("room/seat lost across reconnect: %q seat %d", s.RoomCode, s.Seat)
	}
}

func TestSendGatedOnConnectivity(t *testing.T) {
	m := NewManager(ReconnectWindow)
	clockAt(m)

	sender := &fakeSender{ok: true}
	s := m.Create(sender)

	if !m.Send(s.ID, []byte("hi")) {
		t.Fatal("send to connected session must succeed")
	}

	m.Disconnect(s.ID)
	if m.Send(s.ID, []byte("hi")) {
		t.Fatal("send to disconnected session must report failure")
	}
	if len(sender.sent) != 1 {
		t.Fatalf("delivery attempted while disconnected: %d sends", len(sender.sent))
	}

	if m.Send("no-such-id", []byte("hi")) {
		t.Fatal("send to unknown session must report failure")
	}
}

func TestCreateWithID(t *testing.T) {
	m := NewManager(ReconnectWindow)
	clockAt(m)

	s := m.CreateWithID("issued-ahead", &fakeSender{ok: true})
	if s == nil || s.ID != "issued-ahead" {
		t.Fatalf("pre-issued identity not honored: %+v", s)
	}
	if got := m.Lookup("issued-ahead"); got != s {
		t.Fatal("created session must be registered")
	}

	if m.CreateWithID("issued-ahead", &fakeSender{ok: true}) != nil {
		t.Fatal("taken identity must be rejected")
	}
	if m.CreateWithID("", &fakeSender{ok: true}) != nil {
		t.Fatal("empty identity must be rejected")
	}
}

func TestReapRemovesOnlyExpired(t *testing.T) {
	m := NewManager(ReconnectWindow)
	now := clockAt(m)

	expired := m.Create(&fakeSender{ok: true})
	fresh := m.Create(&fakeSender{ok: true})
	live := m.Create(&fakeSender{ok: true})

	m.Disconnect(expired.ID)
	*now = now.Add(ReconnectWindow)
	m.Disconnect(fresh.ID)

	if n := m.Reap(); n != 1 {
		t.Fatalf("reaped %d; want 1", n)
	}
	if m.Lookup(expired.ID) != nil {
		t.Fatal("expired session must be removed")
	}
	if m.Lookup(fresh.ID) == nil || m.Lookup(live.ID) == nil {
		t.Fatal("unexpired sessions must survive a reap")
	}

	total, connected := m.Count()
	if total != 2 || connected != 1 {
		t.Fatalf("count = (%d,%d); want (2,1)", total, connected)
	}
}
