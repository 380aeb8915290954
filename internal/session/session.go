// Package session maps transport connections to durable player identities.
// A session survives its connection: a disconnect starts a bounded
// reconnection window during which the same identity can resume its room
// and seat, while delivery to it simply fails instead of erroring.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// ReconnectWindow is how long a disconnected session may be resumed.
const ReconnectWindow = 60 * time.Second

type Status string

const (
	StatusConnected    Status = "connected"
	StatusDisconnected Status = "disconnected"
)

// Sender delivers bytes over a live connection. Implemented by the ws
// client; a nil or stale sender makes delivery a no-op failure.
type Sender interface {
	Send(data []byte) bool
}

// Session is one durable player identity. Room and seat stay attached
// across disconnects so the game can keep running underneath.
type Session struct {
	ID             string
	Status         Status
	RoomCode       string
	Seat           int
	DisconnectedAt time.Time

	sender Sender
}

// Manager is the registry of sessions, indexed by session ID and by
// room code + seat. Reconnection expiry is computed lazily on read; there
// is no background sweep, Reap exists for callers that want one.
type Manager struct {
	mu     sync.RWMutex
	byID   map[string]*Session
	byRoom map[string]map[int]string

	window time.Duration
	now    func() time.Time
}

func NewManager(window time.Duration) *Manager {
	if window <= 0 {
		window = ReconnectWindow
	}
	return &Manager{
		byID:   make(map[string]*Session),
		byRoom: make(map[string]map[int]string),
		window: window,
		now:    time.Now,
	}
}

// Create registers a new connected session with a fresh opaque identity.
func (m *Manager) Create(sender Sender) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := &Session{
		ID:     uuid.NewString(),
		Status: StatusConnected,
		Seat:   -1,
		sender: sender,
	}
	m.byID[s.ID] = s
	return s
}

// CreateWithID registers a connected session under an identity issued
// ahead of the connection (guest auth). Fails when the identity is taken.
func (m *Manager) CreateWithID(id string, sender Sender) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if id == "" || m.byID[id] != nil {
		return nil
	}
	s := &Session{
		ID:     id,
		Status: StatusConnected,
		Seat:   -1,
		sender: sender,
	}
	m.byID[id] = s
	return s
}

// Lookup returns the session for an identity, or nil.
func (m *Manager) Lookup(id string) *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.byID[id]
}

// Attach binds a session to a room seat. Connectivity is unaffected.
func (m *Manager) Attach(id, roomCode string, seat int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.byID[id]
	if s == nil {
		return false
	}
	if s.RoomCode != "" {
		m.detachLocked(s)
	}
	s.RoomCode = roomCode
	s.Seat = seat
	seats := m.byRoom[roomCode]
	if seats == nil {
		seats = make(map[int]string)
		m.byRoom[roomCode] = seats
	}
	seats[seat] = id
	return true
}

func (m *Manager) detachLocked(s *Session) {
	if seats := m.byRoom[s.RoomCode]; seats != nil {
		delete(seats, s.Seat)
		if len(seats) == 0 {
			delete(m.byRoom, s.RoomCode)
		}
	}
	s.RoomCode = ""
	s.Seat = -1
}

// BySeat resolves a room seat to its session, or nil.
func (m *Manager) BySeat(roomCode string, seat int) *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if seats := m.byRoom[roomCode]; seats != nil {
		return m.byID[seats[seat]]
	}
	return nil
}

// Disconnect marks the session disconnected and starts its reconnection
// window. Room and seat are kept.
func (m *Manager) Disconnect(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.byID[id]
	if s == nil || s.Status == StatusDisconnected {
		return
	}
	s.Status = StatusDisconnected
	s.DisconnectedAt = m.now()
	s.sender = nil
}

// CanReconnect reports whether the identity may resume: it must be
// disconnected and strictly inside its window. Never-disconnected and
// already-connected sessions both report false.
func (m *Manager) CanReconnect(id string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.canReconnectLocked(m.byID[id])
}

func (m *Manager) canReconnectLocked(s *Session) bool {
	if s == nil || s.Status != StatusDisconnected {
		return false
	}
	return m.now().Sub(s.DisconnectedAt) < m.window
}

// ReconnectTimeRemaining returns how much of the window is left, zero when
// reconnection is not possible. Computed on read, not by a timer.
func (m *Manager) ReconnectTimeRemaining(id string) time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := m.byID[id]
	if s == nil || s.Status != StatusDisconnected {
		return 0
	}
	left := m.window - m.now().Sub(s.DisconnectedAt)
	if left < 0 {
		return 0
	}
	return left
}

// Reconnect resumes a disconnected session on a new connection. Reported
// as a boolean: false outside the window or when already connected.
func (m *Manager) Reconnect(id string, sender Sender) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.byID[id]
	if !m.canReconnectLocked(s) {
		return false
	}
	s.Status = StatusConnected
	s.DisconnectedAt = time.Time{}
	s.sender = sender
	return true
}

// Remove destroys a session, on explicit leave or window expiry.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.byID[id]
	if s == nil {
		return
	}
	m.detachLocked(s)
	delete(m.byID, id)
}

// Send delivers to the session's connection. A disconnected session makes
// this a no-op failure, never a panic that aborts the caller.
func (m *Manager) Send(id string, data []byte) bool {
	m.mu.RLock()
	s := m.byID[id]
	var sender Sender
	if s != nil && s.Status == StatusConnected {
		sender = s.sender
	}
	m.mu.RUnlock()

	if sender == nil {
		return false
	}
	return sender.Send(data)
}

// Count returns total and connected session counts.
func (m *Manager) Count() (total, connected int) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range m.byID {
		total++
		if s.Status == StatusConnected {
			connected++
		}
	}
	return total, connected
}

// Reap removes sessions whose reconnection window has expired and returns
// how many were dropped. Callers decide when; idle expired sessions hold
// memory until reaped or reconnected.
func (m *Manager) Reap() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for id, s := range m.byID {
		if s.Status == StatusDisconnected && m.now().Sub(s.DisconnectedAt) >= m.window {
			m.detachLocked(s)
			delete(m.byID, id)
			n++
		}
	}
	return n
}
