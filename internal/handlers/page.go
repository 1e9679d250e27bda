package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/uep-freelance/freelance_web/internal/apperr"
	"github.com/uep-freelance/freelance_web/internal/middleware"
	"github.com/uep-freelance/freelance_web/internal/router"
	"github.com/uep-freelance/freelance_web/internal/services"
	"github.com/uep-freelance/freelance_web/internal/ui"
	"github.com/uep-freelance/freelance_web/internal/view"
)

const demoBanner = "Demo mode: all data is synthetic and kept only for this browser session."

type PageHandler struct {
	*Shell
	Mode services.Mode
}

func (h *PageHandler) Routes(r fiber.Router) {
	r.Get("/", h.Show)
	r.Get("/:page", h.Show)
}

// Show gates the requested page. A gate that lands elsewhere, or an unknown
// page name, becomes a redirect to the settled page.
func (h *PageHandler) Show(c *fiber.Ctx) error {
	f, err := h.begin(c)
	if err != nil {
		return err
	}
	if f.st.Current == "" && h.Mode == services.ModeDemo {
		h.Router.Notify(f.st, ui.AlertInfo, demoBanner)
	}

	raw := c.Params("page")
	target := router.ParsePage(raw)
	if raw != "" && string(target) != raw {
		return h.settle(f, target)
	}

	tr, doc, err := h.Router.Navigate(f.ctx(), middleware.SessionID(c), f.st, target, router.Query{
		Search:   c.Query("search"),
		Category: c.Query("category"),
		Sort:     c.Query("sort"),
	})
	if apperr.IsCanceled(err) {
		// superseded by a newer navigation of this session
		return c.SendStatus(fiber.StatusNoContent)
	}
	if err != nil {
		h.Log.Error("render page", zap.String("page", string(tr.Page)), zap.Error(err))
		return fiber.ErrInternalServerError
	}
	if doc == nil {
		return h.settle(f, tr.Page)
	}

	for _, jobID := range f.st.Forgotten {
		if err := f.h.ForgetPayment(f.ctx(), jobID); err != nil {
			return h.storageErr(err)
		}
	}
	if err := f.h.SaveUI(f.ctx(), *f.st.UI); err != nil {
		return h.storageErr(err)
	}
	if err := f.h.SetPage(f.ctx(), string(f.st.Current)); err != nil {
		return h.storageErr(err)
	}
	return c.Render(view.Template(doc), doc, view.Layout)
}

// settle records page as current and redirects the browser to it.
func (h *PageHandler) settle(f *flow, page router.Page) error {
	if err := f.h.SetPage(f.ctx(), string(page)); err != nil {
		return h.storageErr(err)
	}
	return h.redirect(f, pageURL(page))
}
