package demo

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/uep-freelance/freelance_web/internal/apperr"
	"github.com/uep-freelance/freelance_web/internal/models"
	"github.com/uep-freelance/freelance_web/internal/services"
	"github.com/uep-freelance/freelance_web/internal/storage"
)

// loadProposals reads the persisted proposal list. Callers hold b.mu.
func (b *Backend) loadProposals(ctx context.Context) ([]models.Proposal, error) {
	var out []models.Proposal
	if err := storage.GetJSON(ctx, b.store, ProposalsKey, &out); err != nil && !isNotFound(err) {
		return nil, fmt.Errorf("load proposals: %w", err)
	}
	return out, nil
}

func (b *Backend) saveProposals(ctx context.Context, proposals []models.Proposal) error {
	if err := storage.SetJSON(ctx, b.store, ProposalsKey, proposals, 0); err != nil {
		return fmt.Errorf("save proposals: %w", err)
	}
	return nil
}

func (b *Backend) SubmitProposal(ctx context.Context, token string, jobID int64, in services.ProposalRequest) (*models.Proposal, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	a, err := b.authenticate(token)
	if err != nil {
		return nil, err
	}
	if !a.user.IsStudent() {
		return nil, reqErr(http.StatusForbidden, "Only students can submit proposals")
	}
	job, err := b.findJob(jobID)
	if err != nil {
		return nil, err
	}
	if !job.IsOpen() {
		return nil, reqErr(http.StatusConflict, "This job is no longer accepting proposals")
	}

	proposals, err := b.loadProposals(ctx)
	if err != nil {
		return nil, err
	}
	var maxID int64
	for _, p := range proposals {
		if p.JobID == jobID && p.StudentID == a.user.ID {
			return nil, &apperr.RequestError{
				Status:  http.StatusConflict,
				Message: apperr.ErrDuplicateProposal.Error(),
				Err:     apperr.ErrDuplicateProposal,
			}
		}
		maxID = max(maxID, p.ID)
	}

	p := models.Proposal{
		ID:             maxID + 1,
		JobID:          jobID,
		StudentID:      a.user.ID,
		StudentName:    a.user.FullName(),
		CoverLetter:    strings.TrimSpace(in.CoverLetter),
		ProposedAmount: in.ProposedAmount,
		EstimatedDays:  in.EstimatedDays,
		PortfolioURL:   strings.TrimSpace(in.PortfolioURL),
		Status:         models.ProposalPending,
		SubmittedAt:    b.now().UTC(),
	}
	if err := b.saveProposals(ctx, append(proposals, p)); err != nil {
		return nil, err
	}
	job.ProposalsCount++

	b.log.Info("demo proposal submitted",
		zap.Int64("proposal_id", p.ID),
		zap.Int64("job_id", jobID),
		zap.Int64("student_id", a.user.ID))
	return &p, nil
}

func (b *Backend) JobProposals(ctx context.Context, token string, jobID int64) ([]models.Proposal, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	a, err := b.authenticate(token)
	if err != nil {
		return nil, err
	}
	job, err := b.findJob(jobID)
	if err != nil {
		return nil, err
	}
	if !canManage(a.user, job) {
		return nil, reqErr(http.StatusForbidden, "You can only view proposals for your own jobs")
	}
	proposals, err := b.loadProposals(ctx)
	if err != nil {
		return nil, err
	}
	var out []models.Proposal
	for _, p := range proposals {
		if p.JobID == jobID {
			out = append(out, p)
		}
	}
	return out, nil
}

// AcceptProposal accepts one pending proposal, rejects the others for the
// same job and moves the job in progress.
func (b *Backend) AcceptProposal(ctx context.Context, token string, proposalID int64) (*models.Proposal, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	a, err := b.authenticate(token)
	if err != nil {
		return nil, err
	}
	proposals, err := b.loadProposals(ctx)
	if err != nil {
		return nil, err
	}
	idx := -1
	for i, p := range proposals {
		if p.ID == proposalID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, reqErr(http.StatusNotFound, "Proposal not found")
	}
	job, err := b.findJob(proposals[idx].JobID)
	if err != nil {
		return nil, err
	}
	if !canManage(a.user, job) {
		return nil, reqErr(http.StatusForbidden, "You can only accept proposals for your own jobs")
	}
	if proposals[idx].Status != models.ProposalPending || !job.IsOpen() {
		return nil, reqErr(http.StatusConflict, "This proposal can no longer be accepted")
	}

	for i := range proposals {
		if proposals[i].JobID != job.ID {
			continue
		}
		if i == idx {
			proposals[i].Status = models.ProposalAccepted
		} else if proposals[i].Status == models.ProposalPending {
			proposals[i].Status = models.ProposalRejected
		}
	}
	if err := b.saveProposals(ctx, proposals); err != nil {
		return nil, err
	}
	job.Status = models.JobStatusInProgress

	accepted := proposals[idx]
	return &accepted, nil
}

func (b *Backend) MyProposals(ctx context.Context, token string) ([]models.Proposal, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	a, err := b.authenticate(token)
	if err != nil {
		return nil, err
	}
	if !a.user.IsStudent() {
		return nil, reqErr(http.StatusForbidden, "Only students can view proposals")
	}
	proposals, err := b.loadProposals(ctx)
	if err != nil {
		return nil, err
	}
	var out []models.Proposal
	for _, p := range proposals {
		if p.StudentID == a.user.ID {
			out = append(out, p)
		}
	}
	return out, nil
}

// acceptedProposal returns the accepted proposal for a job, if any.
func (b *Backend) acceptedProposal(ctx context.Context, jobID int64) (*models.Proposal, error) {
	proposals, err := b.loadProposals(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range proposals {
		if p.JobID == jobID && p.Status == models.ProposalAccepted {
			return &p, nil
		}
	}
	return nil, nil
}
