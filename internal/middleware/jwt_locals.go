package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/uep-freelance/freelance_web/internal/models"
	"github.com/uep-freelance/freelance_web/internal/session"
)

const (
	localHolder = "session"
	LocalUser   = "user"
	localToken  = "token"
)

// AttachUser loads the session's holder, user and token into Locals. It
// must run after SessionCookie.
func AttachUser(m *session.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sid := SessionID(c)
		if sid == "" {
			return fiber.ErrUnauthorized
		}
		h := m.For(sid)
		ctx := c.UserContext()

		u, err := h.CurrentUser(ctx)
		if err != nil {
			return fiber.NewError(fiber.StatusServiceUnavailable, "session storage unavailable")
		}
		tok, err := h.Token(ctx)
		if err != nil {
			return fiber.NewError(fiber.StatusServiceUnavailable, "session storage unavailable")
		}

		c.Locals(localHolder, h)
		c.Locals(LocalUser, u)
		c.Locals(localToken, tok)
		return c.Next()
	}
}

func Holder(c *fiber.Ctx) *session.Holder {
	h, _ := c.Locals(localHolder).(*session.Holder)
	return h
}

// User is nil for anonymous sessions.
func User(c *fiber.Ctx) *models.User {
	u, _ := c.Locals(LocalUser).(*models.User)
	return u
}

func Token(c *fiber.Ctx) string {
	t, _ := c.Locals(localToken).(string)
	return t
}
