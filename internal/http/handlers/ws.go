package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/CidyChou/jackaroo-queen-sub001/internal/logger"
	"github.com/CidyChou/jackaroo-queen-sub001/internal/service"
	"github.com/CidyChou/jackaroo-queen-sub001/internal/ws"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// WS upgrades the connection and binds it to a session. A valid token
// resumes the identity it names when still inside the reconnection
// window; anything else gets a fresh identity.
func WS(hub *ws.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		presentedID := ""
		if token := c.Query("token"); token != "" {
			id, err := service.ParseSessionToken(token)
			if err != nil {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
				return
			}
			presentedID = id
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Warn("ws upgrade failed", "error", err)
			return
		}

		client := ws.NewClient("", conn, hub)
		sess, resumed := hub.Connect(client, presentedID)

		welcome := ws.WelcomePayload{
			SessionID:   sess.ID,
			Reconnected: resumed,
			RoomCode:    sess.RoomCode,
			Seat:        sess.Seat,
		}
		if token, err := service.GenerateSessionToken(sess.ID); err == nil {
			welcome.Token = token
		}
		client.Send(ws.Encode(ws.MsgWelcome, welcome))

		client.Run()
	}
}
