package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/uep-freelance/freelance_web/internal/middleware"
	"github.com/uep-freelance/freelance_web/internal/router"
	"github.com/uep-freelance/freelance_web/internal/session"
	"github.com/uep-freelance/freelance_web/internal/ui"
)

// Shell loads a session's state at the start of a request and writes it
// back before responding.
type Shell struct {
	Router *router.Router
	Log    *zap.Logger
}

// flow is one request's view of its session.
type flow struct {
	c  *fiber.Ctx
	h  *session.Holder
	st *router.State
}

func (f *flow) ctx() context.Context { return f.c.UserContext() }

func (s *Shell) begin(c *fiber.Ctx) (*flow, error) {
	h := middleware.Holder(c)
	if h == nil {
		return nil, fiber.ErrUnauthorized
	}
	ctx := c.UserContext()

	uiState, err := h.UI(ctx)
	if err != nil {
		return nil, s.storageErr(err)
	}
	payments, err := h.Payments(ctx)
	if err != nil {
		return nil, s.storageErr(err)
	}
	st := &router.State{
		User:     middleware.User(c),
		Token:    middleware.Token(c),
		Current:  router.Page(h.Page(ctx)),
		UI:       &uiState,
		Payments: payments,
		Now:      time.Now(),
	}
	return &flow{c: c, h: h, st: st}, nil
}

func (s *Shell) storageErr(err error) error {
	s.Log.Error("session storage", zap.Error(err))
	return fiber.NewError(fiber.StatusServiceUnavailable, "session storage unavailable")
}

// redirect persists the UI state and sends the browser to location.
func (s *Shell) redirect(f *flow, location string) error {
	if err := f.h.SaveUI(f.ctx(), *f.st.UI); err != nil {
		return s.storageErr(err)
	}
	return f.c.Redirect(location, fiber.StatusSeeOther)
}

// back redirects to the page the request came from.
func (s *Shell) back(f *flow) error {
	if f.st.Current == "" {
		return s.redirect(f, "/")
	}
	return s.redirect(f, pageURL(f.st.Current))
}

func (s *Shell) success(f *flow, msg string) {
	s.Router.Notify(f.st, ui.AlertSuccess, msg)
}

func (s *Shell) fail(f *flow, op string, err error) {
	s.Router.Fail(f.st, op, err)
}

func pageURL(p router.Page) string {
	return "/" + string(p)
}
