package websocket

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	"cat-cards-be/internal/workspace"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1024
)

// Client is a middleman between one websocket connection and the hub.
type Client struct {
	Hub *Hub

	Conn *websocket.Conn

	UserID uuid.UUID

	// Nav holds this session's folder selection and note list.
	Nav *workspace.Navigator

	// Buffered channel of outbound messages.
	Send chan []byte
}

// inboundMessage is what the browser sends over the socket.
type inboundMessage struct {
	Action   string  `json:"action"`
	FolderID *string `json:"folder_id"`
}

// readPump pumps messages from the websocket connection to the workspace.
func (c *Client) readPump() {
	defer func() {
		c.Hub.unregister <- c
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Hub.logger.Warn("WebSocket", "Unexpected close", map[string]interface{}{"user_id": c.UserID, "error": err.Error()})
			}
			break
		}

		var msg inboundMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			c.trySend(envelope("error", "invalid message"))
			continue
		}
		c.handleMessage(msg)
	}
}

// handleMessage dispatches one inbound action. Fetches run in their own
// goroutine so a slow folder load never blocks the read loop; the navigator's
// token check drops whichever fetch lost the race.
func (c *Client) handleMessage(msg inboundMessage) {
	switch msg.Action {
	case "select_folder":
		var folderID *uuid.UUID
		if msg.FolderID != nil && *msg.FolderID != "" {
			id, err := uuid.Parse(*msg.FolderID)
			if err != nil {
				c.trySend(envelope("error", "invalid folder id"))
				return
			}
			folderID = &id
		}
		go func() {
			snap, applied, err := c.Nav.Select(context.Background(), folderID)
			if !applied {
				return
			}
			if err != nil {
				c.trySend(envelope("error", "failed to load notes"))
				return
			}
			c.trySend(envelope("workspace", snap))
		}()

	case "refresh":
		go func() {
			snap, applied, err := c.Nav.Refresh(context.Background())
			if !applied || err != nil {
				return
			}
			c.trySend(envelope("workspace", snap))
		}()

	default:
		c.trySend(envelope("error", "unknown action"))
	}
}

func (c *Client) trySend(data []byte) {
	select {
	case c.Send <- data:
	default:
	}
}

// writePump pumps messages from the hub to the websocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Drain queued messages into the same frame.
			n := len(c.Send)
			for i := 0; i < n; i++ {
				w.Write(<-c.Send)
			}

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
