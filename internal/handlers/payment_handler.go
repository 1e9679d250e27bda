package handlers

import (
	"context"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/uep-freelance/freelance_web/internal/apperr"
	"github.com/uep-freelance/freelance_web/internal/middleware"
	"github.com/uep-freelance/freelance_web/internal/models"
	"github.com/uep-freelance/freelance_web/internal/realtime"
	"github.com/uep-freelance/freelance_web/internal/router"
	"github.com/uep-freelance/freelance_web/internal/services"
	"github.com/uep-freelance/freelance_web/internal/ui"
	"github.com/uep-freelance/freelance_web/internal/utils"
	"github.com/uep-freelance/freelance_web/internal/validation"
)

type PaymentHandler struct {
	*Shell
	Backend   services.Backend
	Validator *validation.Validator
	Hub       *realtime.Hub
}

func (h *PaymentHandler) Routes(r fiber.Router) {
	guard := middleware.RequireRoles("Only clients can manage payments", models.RoleClient, models.RoleAdmin)
	r.Post("/payments/escrow", guard, h.CreateEscrow)
	r.Post("/payments/:id/release", guard, h.Release)
	r.Post("/payments/:id/refund", guard, h.Refund)
}

// CreateEscrow charges the mock gateway first and holds the amount in
// escrow only when the charge succeeded.
func (h *PaymentHandler) CreateEscrow(c *fiber.Ctx) error {
	f, err := h.begin(c)
	if err != nil {
		return err
	}

	var form validation.PaymentForm
	if err := c.BodyParser(&form); err != nil {
		h.fail(f, "create escrow", errBadForm)
		return h.back(f)
	}
	charge, escrow, err := h.Validator.Payment(form)
	if err != nil {
		h.fail(f, "create escrow", err)
		return h.back(f)
	}

	res, err := h.Backend.ProcessMockPayment(f.ctx(), charge)
	if err != nil {
		h.fail(f, "process payment", err)
		return h.back(f)
	}
	if !res.Success {
		h.fail(f, "process payment", &apperr.RequestError{Status: fiber.StatusPaymentRequired, Message: res.Message})
		return h.back(f)
	}

	p, err := h.Backend.CreateEscrow(f.ctx(), f.st.Token, escrow)
	if err != nil {
		h.fail(f, "create escrow", err)
		return h.back(f)
	}
	if err := f.h.RememberPayment(f.ctx(), escrow.JobID, p.ID); err != nil {
		return h.storageErr(err)
	}
	h.Log.Info("escrow funded", zap.Int64("job", escrow.JobID), zap.Int64("payment", p.ID), zap.String("transaction", res.TransactionID))
	f.st.UI.Modals.Hide(ui.PaymentModal)
	h.success(f, "Payment of "+utils.FormatPeso(p.Amount)+" is now held in escrow")
	return h.redirect(f, pageURL(router.MyJobs))
}

func (h *PaymentHandler) Release(c *fiber.Ctx) error {
	return h.settle(c, "release payment", h.Backend.ReleasePayment, "Payment released to the freelancer")
}

func (h *PaymentHandler) Refund(c *fiber.Ctx) error {
	return h.settle(c, "refund payment", h.Backend.RefundPayment, "Payment refunded")
}

type settleFunc func(ctx context.Context, token string, paymentID int64) (*models.Payment, error)

func (h *PaymentHandler) settle(c *fiber.Ctx, op string, do settleFunc, done string) error {
	f, err := h.begin(c)
	if err != nil {
		return err
	}
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return fiber.ErrNotFound
	}

	p, err := do(f.ctx(), f.st.Token, id)
	if err != nil {
		h.fail(f, op, err)
		return h.redirect(f, pageURL(router.MyJobs))
	}
	h.success(f, done)
	if p.Status == models.PaymentReleased {
		h.notifyFreelancer(f, p)
	}
	return h.redirect(f, pageURL(router.MyJobs))
}

func (h *PaymentHandler) notifyFreelancer(f *flow, p *models.Payment) {
	props, err := h.Backend.JobProposals(f.ctx(), f.st.Token, p.JobID)
	if err != nil {
		return
	}
	for _, pr := range props {
		if pr.Status == models.ProposalAccepted {
			h.Hub.Notify(pr.StudentID, ui.AlertSuccess, "Payment of "+utils.FormatPeso(p.Amount)+" has been released to you")
		}
	}
}
