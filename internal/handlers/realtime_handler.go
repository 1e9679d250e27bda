package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/uep-freelance/freelance_web/internal/middleware"
	"github.com/uep-freelance/freelance_web/internal/models"
	"github.com/uep-freelance/freelance_web/internal/realtime"
)

type RealtimeHandler struct {
	Hub *realtime.Hub
}

func (h *RealtimeHandler) Routes(r fiber.Router) {
	r.Get("/ws", h.Upgrade, websocket.New(h.WebSocketHandler))
}

func (h *RealtimeHandler) Upgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// WebSocketHandler binds the tab to the session set up by the cookie
// middleware.
func (h *RealtimeHandler) WebSocketHandler(c *websocket.Conn) {
	sid, _ := c.Locals(middleware.LocalSessionID).(string)
	if sid == "" {
		c.Close()
		return
	}
	var uid int64
	if u, ok := c.Locals(middleware.LocalUser).(*models.User); ok && u != nil {
		uid = u.ID
	}
	h.Hub.Serve(c, sid, uid)
}
