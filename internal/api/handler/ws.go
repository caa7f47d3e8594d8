package handler

import (
	"net/http"

	"pontotaxi/backend/internal/auth"
	"pontotaxi/backend/internal/livehub"
	"pontotaxi/backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The dashboard is served from the same origin in production; tighten
	// this when a separate admin host is introduced.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWebSocket upgrades an authenticated dashboard session to a live
// event stream. Runs after the auth middleware, so the account is known.
func (h *Handler) ServeWebSocket(c *gin.Context) {
	user := auth.UserFrom(c)
	if user == nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization token missing"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to upgrade connection"})
		return
	}

	client := &livehub.WebSocketClient{
		SessionID: uuid.New().String(),
		UserID:    user.ID,
		Conn:      conn,
		Hub:       h.Hub,
		Send:      make(chan models.Event, 256),
		Log:       h.Log,
	}

	h.Hub.RegisterCh <- client
	client.Run()
}
