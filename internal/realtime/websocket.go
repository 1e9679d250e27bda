package realtime

import (
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// WebSocketConn keeps the websocket dependency out of hub.go.
type WebSocketConn struct {
	Conn *websocket.Conn
}

func NewWebSocketConn(c *websocket.Conn) *WebSocketConn {
	return &WebSocketConn{Conn: c}
}

// Serve registers the connection for the session and pumps hub messages to
// it until the browser goes away.
func (h *Hub) Serve(c *websocket.Conn, sessionID string, userID int64) {
	client := &Client{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		UserID:    userID,
		Conn:      NewWebSocketConn(c),
		Send:      make(chan []byte, 32),
	}

	if !h.RegisterClient(client) {
		return
	}

	pumped := make(chan struct{})
	go func() {
		defer close(pumped)
		// closing the socket also ends the read loop below
		defer c.Close()
		for msg := range client.Send {
			if err := client.Conn.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				h.log.Debug("websocket write", zap.String("client", client.ID), zap.Error(err))
				return
			}
		}
	}()

	// The tab only listens; reads detect the close.
	for {
		if _, _, err := c.ReadMessage(); err != nil {
			break
		}
	}
	h.UnregisterClient(client)
	// c goes back to the websocket pool when Serve returns
	<-pumped
}
