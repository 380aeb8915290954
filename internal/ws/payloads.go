package ws

import (
	"encoding/json"

	"github.com/CidyChou/jackaroo-queen-sub001/internal/game"
)

// Message is the wire envelope in both directions.
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Encode wraps a payload in the wire envelope for callers outside the
// package (the upgrade handler's welcome message).
func Encode(msgType string, payload any) []byte {
	return encode(msgType, payload)
}

func encode(msgType string, payload any) []byte {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil
	}
	data, err := json.Marshal(Message{Type: msgType, Payload: raw})
	if err != nil {
		return nil
	}
	return data
}

// client -> server

type CreateRoomPayload struct {
	Bots int `json:"bots"` // empty seats to fill with AI players
}

type JoinRoomPayload struct {
	Code string `json:"code"`
	Seat int    `json:"seat"` // -1 picks the first free seat
}

// IntentPayload carries the fields of every game intent; each message type
// reads only the fields it needs.
type IntentPayload struct {
	CardID     int                 `json:"card_id"`
	MarbleID   int                 `json:"marble_id"`
	Target     *game.Position      `json:"target,omitempty"`
	Steps      int                 `json:"steps"`
	Choice     game.DecisionChoice `json:"choice"`
	TargetSeat int                 `json:"target_seat"`
}

// intentAction maps a message type onto the game action vocabulary; ok is
// false for non-intent messages.
func intentAction(msgType string, p IntentPayload) (game.Action, bool) {
	switch msgType {
	case MsgSelectCard:
		return game.Action{Type: game.ActionSelectCard, CardID: p.CardID}, true
	case MsgSelectMarble:
		return game.Action{Type: game.ActionSelectMarble, MarbleID: p.MarbleID}, true
	case MsgSelectTarget:
		return game.Action{Type: game.ActionSelectTarget, Target: p.Target}, true
	case MsgSelectSteps:
		return game.Action{Type: game.ActionSelectSteps, Steps: p.Steps}, true
	case MsgConfirmMove, MsgResolveTurn:
		return game.Action{Type: game.ActionConfirm}, true
	case MsgBurnCard:
		return game.Action{Type: game.ActionBurn, CardID: p.CardID}, true
	case MsgDecideTen:
		return game.Action{Type: game.ActionDecideTen, Choice: p.Choice, TargetSeat: p.TargetSeat}, true
	case MsgDecideRedQ:
		return game.Action{Type: game.ActionDecideRedQueen, Choice: p.Choice, TargetSeat: p.TargetSeat}, true
	case MsgDiscard:
		return game.Action{Type: game.ActionDiscard, CardID: p.CardID}, true
	}
	return game.Action{}, false
}

// server -> client

type WelcomePayload struct {
	SessionID   string `json:"session_id"`
	Token       string `json:"token,omitempty"` // presented on reconnect
	Reconnected bool   `json:"reconnected"`
	RoomCode    string `json:"room_code,omitempty"`
	Seat        int    `json:"seat"`
}

type RoomPayload struct {
	Code   string  `json:"code"`
	Seat   int     `json:"seat"`
	Seats  [4]bool `json:"seats_taken"`
	Bots   [4]bool `json:"bots"`
	Status string  `json:"status"`
}

type ErrorPayload struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

type GameOverPayload struct {
	Winner string `json:"winner"`
	Seat   int    `json:"seat"`
	Turns  int    `json:"turns"`
}
