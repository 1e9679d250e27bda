package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/uep-freelance/freelance_web/internal/middleware"
	"github.com/uep-freelance/freelance_web/internal/models"
	"github.com/uep-freelance/freelance_web/internal/realtime"
	"github.com/uep-freelance/freelance_web/internal/router"
	"github.com/uep-freelance/freelance_web/internal/services"
	"github.com/uep-freelance/freelance_web/internal/ui"
	"github.com/uep-freelance/freelance_web/internal/validation"
)

// JobOfferHandler posts jobs and moves proposals (offers from students)
// through submission and acceptance.
type JobOfferHandler struct {
	*Shell
	Backend   services.Backend
	Validator *validation.Validator
	Hub       *realtime.Hub
}

func (h *JobOfferHandler) Routes(r fiber.Router) {
	r.Post("/jobs", middleware.RequireRoles("Only clients can post jobs", models.RoleClient, models.RoleAdmin), h.CreateJob)
	r.Post("/jobs/:id/proposals", middleware.RequireRoles("Only students can submit proposals", models.RoleStudent), h.SubmitProposal)
	r.Post("/proposals/:id/accept", middleware.RequireRoles("Only clients can accept proposals", models.RoleClient, models.RoleAdmin), h.AcceptProposal)
}

func (h *JobOfferHandler) CreateJob(c *fiber.Ctx) error {
	f, err := h.begin(c)
	if err != nil {
		return err
	}

	var form validation.JobForm
	if err := c.BodyParser(&form); err != nil {
		h.fail(f, "create job", errBadForm)
		return h.back(f)
	}
	in, err := h.Validator.Job(form, h.Backend.Categories())
	if err != nil {
		h.fail(f, "create job", err)
		return h.back(f)
	}

	job, err := h.Backend.CreateJob(f.ctx(), f.st.Token, in)
	if err != nil {
		h.fail(f, "create job", err)
		return h.back(f)
	}
	h.Log.Info("job posted", zap.Int64("job", job.ID), zap.Int64("client", f.st.User.ID))
	h.success(f, "Job posted successfully!")
	h.Hub.BroadcastJSON(realtime.NewAlert(ui.AlertInfo, "New job posted: "+job.Title))
	return h.redirect(f, pageURL(router.MyJobs))
}

func (h *JobOfferHandler) SubmitProposal(c *fiber.Ctx) error {
	f, err := h.begin(c)
	if err != nil {
		return err
	}
	jobID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return fiber.ErrNotFound
	}

	var form validation.ProposalForm
	if err := c.BodyParser(&form); err != nil {
		h.fail(f, "submit proposal", errBadForm)
		return h.back(f)
	}
	in, err := h.Validator.Proposal(form)
	if err != nil {
		h.fail(f, "submit proposal", err)
		return h.back(f)
	}

	p, err := h.Backend.SubmitProposal(f.ctx(), f.st.Token, jobID, in)
	if err != nil {
		h.fail(f, "submit proposal", err)
		return h.back(f)
	}
	f.st.UI.Modals.Hide(ui.ProposalModal)
	f.st.UI.Modals.Hide(ui.JobModal)
	h.success(f, "Proposal submitted successfully!")

	if job, err := h.Backend.GetJob(f.ctx(), jobID); err == nil {
		h.Hub.Notify(job.ClientID, ui.AlertInfo, "New proposal from "+p.StudentName+" for "+job.Title)
	}
	return h.back(f)
}

func (h *JobOfferHandler) AcceptProposal(c *fiber.Ctx) error {
	f, err := h.begin(c)
	if err != nil {
		return err
	}
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return fiber.ErrNotFound
	}

	p, err := h.Backend.AcceptProposal(f.ctx(), f.st.Token, id)
	if err != nil {
		h.fail(f, "accept proposal", err)
		return h.back(f)
	}
	f.st.UI.Modals.Hide(ui.JobProposalsModal)
	h.success(f, "Proposal accepted! The job is now in progress.")
	if p.StudentID != 0 {
		h.Hub.Notify(p.StudentID, ui.AlertSuccess, "Your proposal was accepted!")
	}
	return h.redirect(f, pageURL(router.MyJobs))
}
