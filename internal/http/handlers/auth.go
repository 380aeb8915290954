package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/CidyChou/jackaroo-queen-sub001/internal/service"
)

// GuestAuth mints an identity token ahead of the websocket upgrade. The
// session itself materializes when the socket connects with the token.
func GuestAuth(c *gin.Context) {
	id := uuid.NewString()
	token, err := service.GenerateSessionToken(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"session_id": id, "token": token})
}
