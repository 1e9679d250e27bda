package middleware

import (
	"slices"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/uep-freelance/freelance_web/internal/models"
	"github.com/uep-freelance/freelance_web/internal/ui"
)

// RequireRoles guards form actions. Anonymous sessions get the login modal;
// a user outside allowed gets denied as an error alert. Both are sent back
// to the page they came from. No roles means any logged in user.
func RequireRoles(denied string, allowed ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u := User(c)
		if u != nil && (len(allowed) == 0 || slices.Contains(allowed, u.Role)) {
			return c.Next()
		}

		h := Holder(c)
		if h == nil {
			return fiber.ErrUnauthorized
		}
		ctx := c.UserContext()
		st, err := h.UI(ctx)
		if err != nil {
			return fiber.NewError(fiber.StatusServiceUnavailable, "session storage unavailable")
		}
		if u == nil {
			st.Modals.Show(ui.LoginModal, nil)
		} else {
			st.Alerts.Push(ui.AlertError, denied, time.Now())
		}
		if err := h.SaveUI(ctx, st); err != nil {
			return fiber.NewError(fiber.StatusServiceUnavailable, "session storage unavailable")
		}
		return c.Redirect(BackTo(c), fiber.StatusSeeOther)
	}
}

// BackTo is the URL of the session's current page.
func BackTo(c *fiber.Ctx) string {
	h := Holder(c)
	if h == nil {
		return "/"
	}
	if p := h.Page(c.UserContext()); p != "" {
		return "/" + p
	}
	return "/"
}
