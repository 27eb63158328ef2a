package websocket

import (
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	"cat-cards-be/internal/workspace"
)

// ServeWs handles a websocket connection for one authenticated user. A client
// may pass a session_id to resume the navigation state of a previous
// connection; otherwise a fresh session is created.
func ServeWs(hub *Hub, sessions *workspace.SessionStore, c *websocket.Conn, userID uuid.UUID) {
	sessionID := c.Query("session_id")
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	client := &Client{
		Hub:    hub,
		Conn:   c,
		UserID: userID,
		Nav:    sessions.Get(sessionID, userID),
		Send:   make(chan []byte, 256),
	}
	client.Hub.register <- client

	// Tell the client which session it got so it can resume after reconnect.
	client.trySend(envelope("session", map[string]string{"session_id": sessionID}))

	go client.writePump()
	client.readPump()
}
