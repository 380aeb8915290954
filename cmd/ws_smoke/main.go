// Smoke client: dials a running server, opens a room against three AI
// seats, drops the connection mid-game and reconnects with the same
// token, then watches trusteeship and the bots play the match out.
// Requires AUTO_PLAY enabled (the default).
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/websocket"

	"github.com/CidyChou/jackaroo-queen-sub001/internal/game"
	"github.com/CidyChou/jackaroo-queen-sub001/internal/ws"
)

func main() {
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	token := guestToken(port)

	conn := dial(port, token)
	defer conn.Close()

	send(conn, ws.MsgCreateRoom, ws.CreateRoomPayload{Bots: 3})
	send(conn, ws.MsgPing, struct{}{})

	// watch the opening, then drop the connection without leaving
	watch(conn, 5*time.Second)
	_ = conn.Close()
	log.Println("connection dropped, waiting for trusteeship to take the seat")
	time.Sleep(2 * time.Second)

	conn2 := dial(port, token)
	defer conn2.Close()
	watch(conn2, 60*time.Second)
}

func guestToken(port string) string {
	res, err := http.Post(fmt.Sprintf("http://127.0.0.1:%s/api/v1/auth/guest", port), "application/json", nil)
	if err != nil {
		log.Fatalf("guest auth: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		log.Fatalf("guest auth: status %d", res.StatusCode)
	}
	var body struct {
		SessionID string `json:"session_id"`
		Token     string `json:"token"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		log.Fatalf("guest auth decode: %v", err)
	}
	log.Printf("guest session %s", body.SessionID)
	return body.Token
}

func dial(port, token string) *websocket.Conn {
	// 127.0.0.1 to prefer IPv4 (avoid resolving to [::1])
	url := fmt.Sprintf("ws://127.0.0.1:%s/ws?token=%s", port, token)
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		log.Fatalf("dial: %v", err)
	}
	return conn
}

func send(conn *websocket.Conn, msgType string, payload any) {
	raw, _ := json.Marshal(payload)
	data, _ := json.Marshal(ws.Message{Type: msgType, Payload: raw})
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		log.Fatalf("write %s: %v", msgType, err)
	}
}

// watch prints server traffic until the budget runs out or the game ends.
func watch(conn *websocket.Conn, budget time.Duration) {
	deadline := time.Now().Add(budget)
	lastTurn := -1
	for time.Now().Before(deadline) {
		_ = conn.SetReadDeadline(time.Now().Add(3 * time.Second))
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var msg ws.Message
		if json.Unmarshal(raw, &msg) != nil {
			continue
		}
		switch msg.Type {
		case ws.MsgWelcome:
			var p ws.WelcomePayload
			_ = json.Unmarshal(msg.Payload, &p)
			log.Printf("welcome: session=%s reconnected=%v room=%s seat=%d", p.SessionID, p.Reconnected, p.RoomCode, p.Seat)
		case ws.MsgRoom:
			var p ws.RoomPayload
			_ = json.Unmarshal(msg.Payload, &p)
			log.Printf("room %s: status=%s seat=%d", p.Code, p.Status, p.Seat)
		case ws.MsgState:
			var s game.Snapshot
			_ = json.Unmarshal(msg.Payload, &s)
			if s.Turn != lastTurn {
				lastTurn = s.Turn
				log.Printf("turn %d: phase=%s active=%d deck=%d", s.Turn, s.Phase, s.Active, s.DeckRemaining)
			}
		case ws.MsgGameOver:
			var p ws.GameOverPayload
			_ = json.Unmarshal(msg.Payload, &p)
			log.Printf("game over: winner=%s seat=%d turns=%d", p.Winner, p.Seat, p.Turns)
			log.Println("smoke test finished")
			return
		case ws.MsgError:
			var p ws.ErrorPayload
			_ = json.Unmarshal(msg.Payload, &p)
			log.Printf("server error: field=%q message=%q", p.Field, p.Message)
		case ws.MsgPong:
			log.Println("pong")
		}
	}
}
