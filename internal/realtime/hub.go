package realtime

import (
	"context"
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"github.com/uep-freelance/freelance_web/internal/metrics"
	"github.com/uep-freelance/freelance_web/internal/models"
	"github.com/uep-freelance/freelance_web/internal/ui"
	"github.com/uep-freelance/freelance_web/internal/view"
)

// Client is one open tab. UserID is 0 while the session is anonymous.
type Client struct {
	ID        string
	SessionID string
	UserID    int64
	Conn      *WebSocketConn
	Send      chan []byte
}

type Hub struct {
	clients    map[string]*Client
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mu         sync.RWMutex
	log        *zap.Logger
	rec        *metrics.Recorder
}

func NewHub(log *zap.Logger, rec *metrics.Recorder) *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		log:        log,
		rec:        rec,
	}
}

// RegisterClient reports false once the hub has stopped.
func (h *Hub) RegisterClient(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) UnregisterClient(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// AlertEvent shows a notification in every matching tab.
type AlertEvent struct {
	Type    string `json:"type"`
	Kind    string `json:"kind"`
	Icon    string `json:"icon"`
	Message string `json:"message"`
}

func NewAlert(kind ui.AlertKind, msg string) AlertEvent {
	return AlertEvent{Type: "alert", Kind: string(kind), Icon: kind.Icon(), Message: msg}
}

type NavState struct {
	LoggedIn    bool   `json:"loggedIn"`
	UserName    string `json:"userName"`
	ShowPostJob bool   `json:"showPostJob"`
	ShowAdmin   bool   `json:"showAdmin"`
}

// NavEvent updates the navigation affordances after a login, logout or
// profile change.
type NavEvent struct {
	Type string   `json:"type"`
	Nav  NavState `json:"nav"`
}

func NewNavEvent(u *models.User) NavEvent {
	n := view.NavFor(u, "")
	return NavEvent{Type: "nav", Nav: NavState{
		LoggedIn:    n.LoggedIn,
		UserName:    n.UserName,
		ShowPostJob: n.ShowPostJob,
		ShowAdmin:   n.ShowAdmin,
	}}
}

func (h *Hub) BroadcastJSON(v any) {
	b, err := json.Marshal(v)
	if err != nil {
		h.log.Error("marshal broadcast payload", zap.Error(err))
		return
	}
	select {
	case h.broadcast <- b:
	default:
		h.log.Warn("broadcast queue full, dropping message")
	}
}

// SendToUser reaches every tab of every session logged in as userID.
func (h *Hub) SendToUser(userID int64, data any) int {
	return h.send(data, func(c *Client) bool { return c.UserID == userID })
}

// SendToSession reaches every tab of one browser session.
func (h *Hub) SendToSession(sessionID string, data any) int {
	return h.send(data, func(c *Client) bool { return c.SessionID == sessionID })
}

func (h *Hub) send(data any, match func(*Client) bool) int {
	payload, err := json.Marshal(data)
	if err != nil {
		h.log.Error("marshal message", zap.Error(err))
		return 0
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	sent := 0
	for _, client := range h.clients {
		if !match(client) {
			continue
		}
		select {
		case client.Send <- payload:
			sent++
		default:
			// send buffer full
		}
	}
	return sent
}

// SyncSession rebinds the session's tabs to u and pushes the new
// navigation. It is registered as the session change callback.
func (h *Hub) SyncSession(_ context.Context, sessionID string, u *models.User) {
	var uid int64
	if u != nil {
		uid = u.ID
	}
	h.mu.Lock()
	for _, c := range h.clients {
		if c.SessionID == sessionID {
			c.UserID = uid
		}
	}
	h.mu.Unlock()
	h.SendToSession(sessionID, NewNavEvent(u))
}

// Notify pushes an alert to the tabs of userID.
func (h *Hub) Notify(userID int64, kind ui.AlertKind, msg string) {
	if h.SendToUser(userID, NewAlert(kind, msg)) > 0 {
		h.rec.CountAlert(string(kind))
	}
}

func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Run serves registrations and broadcasts until ctx ends, then closes every
// client's Send channel. It must be called once.
func (h *Hub) Run(ctx context.Context) {
	defer h.stop()
	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			h.mu.Unlock()
			h.rec.WSConnected(1)
			h.log.Debug("client registered", zap.String("client", client.ID), zap.String("session", client.SessionID))

		case client := <-h.unregister:
			h.mu.Lock()
			if old, ok := h.clients[client.ID]; ok {
				delete(h.clients, client.ID)
				close(old.Send)
				h.rec.WSConnected(-1)
				h.log.Debug("client unregistered", zap.String("client", client.ID))
			}
			h.mu.Unlock()

		case message := <-h.broadcast:
			h.mu.Lock()
			for id, client := range h.clients {
				select {
				case client.Send <- message:
				default:
					close(client.Send)
					delete(h.clients, id)
					h.rec.WSConnected(-1)
				}
			}
			h.mu.Unlock()
		}
	}
}

func (h *Hub) stop() {
	close(h.done)
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, client := range h.clients {
		close(client.Send)
		delete(h.clients, id)
		h.rec.WSConnected(-1)
	}
}
