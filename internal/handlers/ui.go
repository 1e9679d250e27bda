package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/uep-freelance/freelance_web/internal/ui"
)

// UIHandler opens and closes modals and dismisses alerts. The page
// re-renders with the new state after the redirect.
type UIHandler struct {
	*Shell
}

func (h *UIHandler) Routes(r fiber.Router) {
	r.Get("/modals/dismiss", h.Dismiss)
	r.Get("/modals/:name/open", h.Open)
	r.Get("/modals/:name/close", h.Close)
	r.Get("/alerts/:id/dismiss", h.DismissAlert)
}

// modalArgs are the query parameters a modal may carry.
var modalArgs = []string{"jobId", "amount", "next"}

func (h *UIHandler) Open(c *fiber.Ctx) error {
	f, err := h.begin(c)
	if err != nil {
		return err
	}
	name, ok := ui.ParseModal(c.Params("name"))
	if !ok {
		return h.back(f)
	}

	args := map[string]string{}
	for _, k := range modalArgs {
		if v := c.Query(k); v != "" {
			args[k] = v
		}
	}
	// login and register replace each other
	switch name {
	case ui.LoginModal:
		f.st.UI.Modals.Hide(ui.RegisterModal)
	case ui.RegisterModal:
		f.st.UI.Modals.Hide(ui.LoginModal)
	}
	f.st.UI.Modals.Show(name, args)
	return h.back(f)
}

func (h *UIHandler) Close(c *fiber.Ctx) error {
	f, err := h.begin(c)
	if err != nil {
		return err
	}
	if name, ok := ui.ParseModal(c.Params("name")); ok {
		f.st.UI.Modals.Hide(name)
	}
	return h.back(f)
}

// Dismiss is the backdrop click: it closes the focused modal only.
func (h *UIHandler) Dismiss(c *fiber.Ctx) error {
	f, err := h.begin(c)
	if err != nil {
		return err
	}
	f.st.UI.Modals.BackdropClick()
	return h.back(f)
}

// DismissAlert drops one alert before its lifetime ends.
func (h *UIHandler) DismissAlert(c *fiber.Ctx) error {
	f, err := h.begin(c)
	if err != nil {
		return err
	}
	if id, err := strconv.ParseInt(c.Params("id"), 10, 64); err == nil {
		f.st.UI.Alerts.Dismiss(id)
	}
	return h.back(f)
}
