package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/uep-freelance/freelance_web/internal/utils"
)

const (
	SessionCookieName = "uep_session"
	LocalSessionID    = "sessionId"
)

// SessionCookie reads the signed session cookie and stores its session id
// in Locals. A missing, expired or forged cookie starts a new session.
func SessionCookie(secret string, expiresMin int, secure bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if claims, err := utils.ParseJWT(secret, c.Cookies(SessionCookieName)); err == nil && claims.SessionID != "" {
			c.Locals(LocalSessionID, claims.SessionID)
			return c.Next()
		}

		sid := uuid.NewString()
		tokenStr, err := utils.SignJWT(secret, utils.Claims{SessionID: sid}, expiresMin)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "cannot start session")
		}
		c.Cookie(&fiber.Cookie{
			Name:     SessionCookieName,
			Value:    tokenStr,
			Path:     "/",
			Expires:  time.Now().Add(time.Duration(expiresMin) * time.Minute),
			HTTPOnly: true,
			Secure:   secure,
			SameSite: fiber.CookieSameSiteLaxMode,
		})
		c.Locals(LocalSessionID, sid)
		return c.Next()
	}
}

func SessionID(c *fiber.Ctx) string {
	sid, _ := c.Locals(LocalSessionID).(string)
	return sid
}
