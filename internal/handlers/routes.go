package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/uep-freelance/freelance_web/internal/metrics"
	"github.com/uep-freelance/freelance_web/internal/middleware"
	"github.com/uep-freelance/freelance_web/internal/realtime"
	"github.com/uep-freelance/freelance_web/internal/router"
	"github.com/uep-freelance/freelance_web/internal/services"
	"github.com/uep-freelance/freelance_web/internal/session"
	"github.com/uep-freelance/freelance_web/internal/validation"
)

type Deps struct {
	Sessions      *session.Manager
	Backend       services.Backend
	Router        *router.Router
	Validator     *validation.Validator
	Hub           *realtime.Hub
	Metrics       *metrics.Recorder
	Log           *zap.Logger
	SessionSecret string
	SessionMin    int
	SecureCookie  bool
}

// Mount registers every route on an app whose Views come from
// view.NewEngine. /healthz and /metrics sit outside the session middleware;
// everything else gets a session.
func Mount(app *fiber.App, d Deps) {
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "mode": d.Backend.Mode()})
	})
	app.Get("/metrics", d.Metrics.Handler())
	app.Get("/favicon.ico", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })

	app.Use(
		middleware.SessionCookie(d.SessionSecret, d.SessionMin, d.SecureCookie),
		middleware.AttachUser(d.Sessions),
	)

	shell := &Shell{Router: d.Router, Log: d.Log}
	(&RealtimeHandler{Hub: d.Hub}).Routes(app)
	(&AuthHandler{Shell: shell, Backend: d.Backend, Validator: d.Validator}).Routes(app)
	(&JobOfferHandler{Shell: shell, Backend: d.Backend, Validator: d.Validator, Hub: d.Hub}).Routes(app)
	(&PaymentHandler{Shell: shell, Backend: d.Backend, Validator: d.Validator, Hub: d.Hub}).Routes(app)
	(&UIHandler{Shell: shell}).Routes(app)
	(&PageHandler{Shell: shell, Mode: d.Backend.Mode()}).Routes(app)
}
