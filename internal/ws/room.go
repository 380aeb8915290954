package ws

import (
	"errors"
	"sync"
	"time"

	"github.com/CidyChou/jackaroo-queen-sub001/internal/game"
	"github.com/CidyChou/jackaroo-queen-sub001/internal/logger"
	"github.com/CidyChou/jackaroo-queen-sub001/internal/session"
)

const (
	StatusWaiting  = "waiting"
	StatusPlaying  = "playing"
	StatusFinished = "finished"
)

// maxAIDrives bounds how many consecutive auto-played input batches one
// intent can trigger; generous enough for an all-bot match to finish.
const maxAIDrives = 10000

type seatState struct {
	SessionID string
	Bot       bool
}

func (s seatState) taken() bool { return s.Bot || s.SessionID != "" }

type joinRequest struct {
	sess  *session.Session
	seat  int // -1 picks the first free seat
	reply chan joinResult
}

type joinResult struct {
	seat int
	err  error
}

type intent struct {
	kind      string // join, action, disconnect, reconnect, leave
	sessionID string
	action    game.Action
	join      *joinRequest
}

// Room owns one match. Its goroutine drains the intent channel one at a
// time, so game-state mutation and the seat-to-session mapping are
// serialized; a rejected intent never leaves partial state behind.
type Room struct {
	Code      string
	hub       *Hub
	g         *game.Game
	status    string
	createdAt time.Time

	// seats and status are written only by the room goroutine; mu lets the
	// hub's cleanup sweep read them safely
	mu    sync.RWMutex
	seats [game.NumSeats]seatState

	intents chan intent
	closed  chan struct{}
}

func newRoom(code string, hub *Hub, bots int, seed int64) *Room {
	r := &Room{
		Code:      code,
		hub:       hub,
		g:         game.New(seed),
		status:    StatusWaiting,
		createdAt: time.Now(),
		intents:   make(chan intent, 32),
		closed:    make(chan struct{}),
	}
	// bots occupy the high seats, humans fill from seat 0
	for i := 0; i < bots && i < game.NumSeats; i++ {
		r.seats[game.NumSeats-1-i].Bot = true
	}
	return r
}

func (r *Room) Run() {
	logger.Info("room started", "room", r.Code)
	for {
		select {
		case in := <-r.intents:
			r.handle(in)
			r.driveAI()
		case <-r.closed:
			logger.Info("room stopped", "room", r.Code)
			return
		}
	}
}

func (r *Room) stop() {
	close(r.closed)
}

// offer queues an intent unless the room has been stopped, so callers
// never block on a reaped room.
func (r *Room) offer(in intent) bool {
	select {
	case r.intents <- in:
		return true
	case <-r.closed:
		return false
	}
}

func (r *Room) handle(in intent) {
	switch in.kind {
	case "join":
		r.handleJoin(in.join)
	case "action":
		r.handleAction(in.sessionID, in.action)
	case "disconnect":
		r.broadcastRoom()
	case "reconnect":
		r.handleReconnect(in.sessionID)
	case "leave":
		r.handleLeave(in.sessionID)
	}
}

func (r *Room) seatOf(sessionID string) int {
	for i, s := range r.seats {
		if !s.Bot && s.SessionID == sessionID {
			return i
		}
	}
	return -1
}

func (r *Room) handleJoin(req *joinRequest) {
	seat := req.seat
	if seat == -1 {
		for i, s := range r.seats {
			if !s.taken() {
				seat = i
				break
			}
		}
	}
	switch {
	case r.seatOf(req.sess.ID) != -1:
		req.reply <- joinResult{err: errors.New("already seated in this room")}
		return
	case r.status != StatusWaiting:
		req.reply <- joinResult{err: errors.New("game already started")}
		return
	case seat < 0 || seat >= game.NumSeats:
		req.reply <- joinResult{err: errors.New("room is full")}
		return
	case r.seats[seat].taken():
		req.reply <- joinResult{err: errors.New("seat is taken")}
		return
	}

	r.mu.Lock()
	r.seats[seat].SessionID = req.sess.ID
	r.mu.Unlock()
	r.hub.sessions.Attach(req.sess.ID, r.Code, seat)
	req.reply <- joinResult{seat: seat}

	logger.Info("player seated", "room", r.Code, "seat", seat, "session", req.sess.ID)
	r.broadcastRoom()

	for _, s := range r.seats {
		if !s.taken() {
			return
		}
	}
	r.start()
}

func (r *Room) start() {
	r.mu.Lock()
	r.status = StatusPlaying
	r.mu.Unlock()
	r.g.Begin()
	logger.Info("game started", "room", r.Code)
	r.broadcastRoom()
	r.broadcastState()
}

func (r *Room) handleAction(sessionID string, action game.Action) {
	seat := r.seatOf(sessionID)
	if seat == -1 {
		r.sendTo(sessionID, encode(MsgError, ErrorPayload{Message: "not seated in this room"}))
		return
	}
	if r.status != StatusPlaying {
		r.sendTo(sessionID, encode(MsgError, ErrorPayload{Field: game.FieldPhase, Message: "game is not running"}))
		return
	}

	if err := r.g.ApplyAction(seat, action); err != nil {
		payload := ErrorPayload{Message: err.Error()}
		var ie *game.IntentError
		if errors.As(err, &ie) {
			payload.Field = ie.Field
		}
		r.sendTo(sessionID, encode(MsgError, payload))
		return
	}

	r.broadcastState()
	r.checkGameOver()
}

// driveAI keeps the match moving while the seat that owes input is a bot,
// or a disconnected human under trusteeship.
func (r *Room) driveAI() {
	for i := 0; i < maxAIDrives; i++ {
		if r.status != StatusPlaying {
			return
		}
		seat := r.g.Active
		if r.g.Phase == game.PhaseOpponentDiscard {
			seat = r.g.DiscardSeat()
		}
		if !r.isAutoPlayed(seat) {
			return
		}

		actions := game.AutoPlayActions(r.g, seat)
		if len(actions) == 0 {
			logger.Error("auto-play produced no input", "room", r.Code, "seat", seat, "phase", r.g.Phase)
			return
		}
		for _, a := range actions {
			if err := r.g.ApplyAction(seat, a); err != nil {
				logger.Error("auto-play rejected", "room", r.Code, "seat", seat, "error", err)
				return
			}
		}
		r.broadcastState()
		if r.checkGameOver() {
			return
		}
	}
}

func (r *Room) isAutoPlayed(seat int) bool {
	s := r.seats[seat]
	if s.Bot {
		return true
	}
	if !r.hub.autoPlay {
		return false
	}
	sess := r.hub.sessions.Lookup(s.SessionID)
	return sess == nil || sess.Status != session.StatusConnected
}

func (r *Room) checkGameOver() bool {
	winner := r.g.Winner()
	if winner == nil {
		return false
	}
	r.mu.Lock()
	r.status = StatusFinished
	r.mu.Unlock()
	seat := int(*winner)
	logger.Info("game over", "room", r.Code, "winner", winner.String(), "turns", r.g.Turn)

	data := encode(MsgGameOver, GameOverPayload{Winner: winner.String(), Seat: seat, Turns: r.g.Turn})
	for _, s := range r.seats {
		if s.SessionID != "" {
			r.hub.sessions.Send(s.SessionID, data)
		}
	}
	r.hub.recordMatch(r, *winner)
	return true
}

func (r *Room) handleReconnect(sessionID string) {
	seat := r.seatOf(sessionID)
	if seat == -1 {
		return
	}
	logger.Info("player reconnected", "room", r.Code, "seat", seat, "session", sessionID)
	r.broadcastRoom()
	if r.status == StatusPlaying {
		r.sendTo(sessionID, encode(MsgState, r.g.SnapshotFor(seat)))
	}
}

// handleLeave frees the seat. Mid-game the seat is handed to the AI for
// good; the session itself is destroyed by the hub.
func (r *Room) handleLeave(sessionID string) {
	seat := r.seatOf(sessionID)
	if seat == -1 {
		return
	}
	r.mu.Lock()
	r.seats[seat].SessionID = ""
	if r.status == StatusPlaying {
		r.seats[seat].Bot = true
	}
	r.mu.Unlock()
	logger.Info("player left", "room", r.Code, "seat", seat)
	r.broadcastRoom()
}

func (r *Room) roomPayload(seat int) RoomPayload {
	p := RoomPayload{Code: r.Code, Seat: seat, Status: r.status}
	for i, s := range r.seats {
		p.Seats[i] = s.taken()
		p.Bots[i] = s.Bot
	}
	return p
}

func (r *Room) broadcastRoom() {
	for i, s := range r.seats {
		if s.SessionID != "" {
			r.hub.sessions.Send(s.SessionID, encode(MsgRoom, r.roomPayload(i)))
		}
	}
}

// broadcastState sends each seat its own view; delivery to disconnected
// seats fails silently and the game does not care.
func (r *Room) broadcastState() {
	for i, s := range r.seats {
		if s.SessionID != "" {
			r.hub.sessions.Send(s.SessionID, encode(MsgState, r.g.SnapshotFor(i)))
		}
	}
}

func (r *Room) sendTo(sessionID string, data []byte) {
	r.hub.sessions.Send(sessionID, data)
}

// reapable reports whether the cleanup sweep may drop this room: nobody
// seated (or the game over) and past the grace age.
func (r *Room) reapable(now time.Time, grace time.Duration) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if now.Sub(r.createdAt) < grace {
		return false
	}
	if r.status == StatusFinished {
		return true
	}
	for _, s := range r.seats {
		if s.SessionID != "" {
			return false
		}
	}
	return true
}
