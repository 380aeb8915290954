package ws

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/CidyChou/jackaroo-queen-sub001/internal/domain"
	"github.com/CidyChou/jackaroo-queen-sub001/internal/game"
	"github.com/CidyChou/jackaroo-queen-sub001/internal/logger"
	"github.com/CidyChou/jackaroo-queen-sub001/internal/session"
)

var errRoomNotFound = errors.New("room not found")

// codeAlphabet deliberately drops 0/O/1/I so codes survive being read aloud.
const (
	codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	codeLen      = 6
)

// MatchRecorder persists finished matches. The hub works with a nil
// recorder; persistence is plumbing, not part of the game.
type MatchRecorder interface {
	Record(ctx context.Context, m *domain.Match) error
}

// Hub owns the room registry and the session manager. Rooms serialize
// their own state; the hub only routes.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]*Room
	rng   *rand.Rand

	sessions *session.Manager
	recorder MatchRecorder
	autoPlay bool
	intentRL *intentLimiter
}

func NewHub(sessions *session.Manager, recorder MatchRecorder, autoPlay bool) *Hub {
	return &Hub{
		rooms:    make(map[string]*Room),
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		sessions: sessions,
		recorder: recorder,
		autoPlay: autoPlay,
		intentRL: newIntentLimiter(intentRateMax, intentRateWindow),
	}
}

func (h *Hub) Sessions() *session.Manager { return h.sessions }

// Connect binds a fresh connection to a session: resuming the presented
// identity when it is still inside its reconnection window, creating a new
// one otherwise.
func (h *Hub) Connect(c *Client, presentedID string) (*session.Session, bool) {
	if presentedID != "" {
		if h.sessions.Reconnect(presentedID, c) {
			sess := h.sessions.Lookup(presentedID)
			c.SessionID = sess.ID
			if room := h.room(sess.RoomCode); room != nil {
				room.offer(intent{kind: "reconnect", sessionID: sess.ID})
			}
			return sess, true
		}
		// identity minted by guest auth that never connected; an expired
		// identity falls through to a fresh one
		if sess := h.sessions.CreateWithID(presentedID, c); sess != nil {
			c.SessionID = sess.ID
			return sess, false
		}
	}
	sess := h.sessions.Create(c)
	c.SessionID = sess.ID
	return sess, false
}

func (h *Hub) room(code string) *Room {
	if code == "" {
		return nil
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.rooms[code]
}

func (h *Hub) RoomCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms)
}

// CreateRoom opens a room with the given number of AI seats and seats the
// creator at seat 0.
func (h *Hub) CreateRoom(sess *session.Session, bots int) (*Room, int, error) {
	if bots < 0 || bots >= game.NumSeats {
		bots = 0
	}

	h.mu.Lock()
	code := h.newCodeLocked()
	room := newRoom(code, h, bots, h.rng.Int63())
	h.rooms[code] = room
	h.mu.Unlock()

	metricRoomsActive.Inc()
	go room.Run()

	seat, err := h.join(room, sess, 0)
	return room, seat, err
}

// JoinRoom seats the session in an existing room.
func (h *Hub) JoinRoom(sess *session.Session, code string, seat int) (*Room, int, error) {
	room := h.room(code)
	if room == nil {
		return nil, -1, errRoomNotFound
	}
	got, err := h.join(room, sess, seat)
	return room, got, err
}

func (h *Hub) join(room *Room, sess *session.Session, seat int) (int, error) {
	prev := h.room(sess.RoomCode)

	req := &joinRequest{sess: sess, seat: seat, reply: make(chan joinResult, 1)}
	if !room.offer(intent{kind: "join", join: req}) {
		return -1, errRoomNotFound
	}
	var res joinResult
	select {
	case res = <-req.reply:
	case <-room.closed:
		return -1, errRoomNotFound
	}
	if res.err != nil {
		return res.seat, res.err
	}

	// switching rooms frees the old seat; mid-game it goes to the AI so
	// the room left behind keeps playing
	if prev != nil && prev != room {
		prev.offer(intent{kind: "leave", sessionID: sess.ID})
	}
	return res.seat, nil
}

func (h *Hub) newCodeLocked() string {
	for {
		buf := make([]byte, codeLen)
		for i := range buf {
			buf[i] = codeAlphabet[h.rng.Intn(len(codeAlphabet))]
		}
		code := string(buf)
		if _, exists := h.rooms[code]; !exists {
			return code
		}
	}
}

// Dispatch routes one decoded message from a connected session.
func (h *Hub) Dispatch(sessionID string, msg Message) {
	sess := h.sessions.Lookup(sessionID)
	if sess == nil {
		return
	}

	switch msg.Type {
	case MsgCreateRoom:
		var p CreateRoomPayload
		_ = json.Unmarshal(msg.Payload, &p)
		if _, _, err := h.CreateRoom(sess, p.Bots); err != nil {
			h.sessions.Send(sessionID, encode(MsgError, ErrorPayload{Message: err.Error()}))
		}

	case MsgJoinRoom:
		p := JoinRoomPayload{Seat: -1}
		_ = json.Unmarshal(msg.Payload, &p)
		if _, _, err := h.JoinRoom(sess, p.Code, p.Seat); err != nil {
			h.sessions.Send(sessionID, encode(MsgError, ErrorPayload{Message: err.Error()}))
		}

	case MsgLeaveRoom:
		h.Leave(sessionID)

	default:
		var p IntentPayload
		_ = json.Unmarshal(msg.Payload, &p)
		action, ok := intentAction(msg.Type, p)
		if !ok {
			h.sessions.Send(sessionID, encode(MsgError, ErrorPayload{Message: "unknown message type " + msg.Type}))
			return
		}
		if !h.intentRL.allow(sessionID) {
			metricIntentsBlocked.Inc()
			h.sessions.Send(sessionID, encode(MsgError, ErrorPayload{Message: "rate limit exceeded"}))
			return
		}
		room := h.room(sess.RoomCode)
		if room == nil || !room.offer(intent{kind: "action", sessionID: sessionID, action: action}) {
			h.sessions.Send(sessionID, encode(MsgError, ErrorPayload{Message: "not in a room"}))
			return
		}
	}
}

// OnDisconnect starts the session's reconnection window and tells its room,
// which may hand the seat to trusteeship.
func (h *Hub) OnDisconnect(sessionID string) {
	sess := h.sessions.Lookup(sessionID)
	if sess == nil {
		return
	}
	h.sessions.Disconnect(sessionID)
	logger.Info("session disconnected", "session", sessionID, "room", sess.RoomCode)
	if room := h.room(sess.RoomCode); room != nil {
		room.offer(intent{kind: "disconnect", sessionID: sessionID})
	}
}

// Leave destroys the session after freeing its seat.
func (h *Hub) Leave(sessionID string) {
	sess := h.sessions.Lookup(sessionID)
	if sess == nil {
		return
	}
	if room := h.room(sess.RoomCode); room != nil {
		room.offer(intent{kind: "leave", sessionID: sessionID})
	}
	h.sessions.Remove(sessionID)
	h.intentRL.forget(sessionID)
}

// StartCleanup reaps expired sessions and dead rooms on a ticker.
func (h *Hub) StartCleanup(interval, roomGrace time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for range ticker.C {
			if n := h.sessions.Reap(); n > 0 {
				logger.Info("reaped expired sessions", "count", n)
			}
			h.reapRooms(roomGrace)
			h.intentRL.sweep()
		}
	}()
}

func (h *Hub) reapRooms(grace time.Duration) {
	now := time.Now()
	h.mu.Lock()
	defer h.mu.Unlock()
	for code, room := range h.rooms {
		if room.reapable(now, grace) {
			room.stop()
			delete(h.rooms, code)
			metricRoomsActive.Dec()
			logger.Info("reaped room", "room", code)
		}
	}
}

func (h *Hub) recordMatch(r *Room, winner game.Color) {
	metricGamesCompleted.Inc()
	if h.recorder == nil {
		return
	}
	bots := 0
	for _, s := range r.seats {
		if s.Bot {
			bots++
		}
	}
	m := &domain.Match{
		RoomCode:    r.Code,
		WinnerSeat:  int(winner),
		WinnerColor: winner.String(),
		Turns:       r.g.Turn,
		Bots:        bots,
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := h.recorder.Record(ctx, m); err != nil {
			logger.Error("match record failed", "room", m.RoomCode, "error", err)
		}
	}()
}
