package ws

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"

	"github.com/CidyChou/jackaroo-queen-sub001/internal/logger"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 30 * time.Second
	pingPeriod = 25 * time.Second
	sendBuffer = 256
)

// Client owns one physical websocket connection on behalf of a session.
// It implements session.Sender; once the connection drops the session
// outlives the client and a reconnecting client takes its place.
type Client struct {
	SessionID string

	conn *websocket.Conn
	send chan []byte
	hub  *Hub
	done chan struct{}
}

func NewClient(sessionID string, conn *websocket.Conn, hub *Hub) *Client {
	return &Client{
		SessionID: sessionID,
		conn:      conn,
		send:      make(chan []byte, sendBuffer),
		hub:       hub,
		done:      make(chan struct{}),
	}
}

// Send queues data for delivery. Reports failure instead of blocking when
// the client is gone or its buffer is full.
func (c *Client) Send(data []byte) bool {
	if data == nil {
		return false
	}
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- data:
		return true
	default:
		logger.Warn("ws send buffer full, dropping message", "session", c.SessionID)
		return false
	}
}

// Run drives both pumps and blocks until the connection closes.
func (c *Client) Run() {
	go c.writePump()
	c.readPump()
}

func (c *Client) readPump() {
	defer func() {
		close(c.done)
		c.hub.OnDisconnect(c.SessionID)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(4096)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debug("ws read error", "session", c.SessionID, "error", err)
			}
			return
		}

		var msg Message
		if err := json.Unmarshal(raw, &msg); err != nil {
			// transport-level fault: log and keep the connection, never
			// let it near game state
			logger.Warn("ws malformed message", "session", c.SessionID, "error", err)
			c.Send(encode(MsgError, ErrorPayload{Message: "malformed message"}))
			continue
		}

		if msg.Type == MsgPing {
			c.Send(encode(MsgPong, struct{}{}))
			continue
		}
		c.hub.Dispatch(c.SessionID, msg)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-c.done:
			return
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
