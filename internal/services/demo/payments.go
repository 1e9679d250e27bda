package demo

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/uep-freelance/freelance_web/internal/models"
	"github.com/uep-freelance/freelance_web/internal/services"
)

func (b *Backend) findPayment(id int64) (*models.Payment, error) {
	for _, p := range b.payments {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, reqErr(http.StatusNotFound, "Payment not found")
}

// ProcessMockPayment always succeeds for a checkout method and a positive
// amount.
func (b *Backend) ProcessMockPayment(_ context.Context, in services.MockPaymentRequest) (*services.MockPaymentResult, error) {
	if in.Method != models.MethodGCash && in.Method != models.MethodPayPal {
		return nil, reqErr(http.StatusBadRequest, "Invalid payment method")
	}
	if !in.Amount.IsPositive() {
		return nil, reqErr(http.StatusBadRequest, "Payment processing failed")
	}
	return &services.MockPaymentResult{
		Success:       true,
		TransactionID: "MOCK-" + strings.ToUpper(uuid.NewString()[:8]),
		Message:       "Payment processed successfully",
	}, nil
}

// CreateEscrow holds the job budget. A job has at most one payment in escrow.
func (b *Backend) CreateEscrow(_ context.Context, token string, in services.EscrowRequest) (*models.Payment, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	a, err := b.authenticate(token)
	if err != nil {
		return nil, err
	}
	job, err := b.findJob(in.JobID)
	if err != nil {
		return nil, err
	}
	if !canManage(a.user, job) {
		return nil, reqErr(http.StatusForbidden, "Only the job owner can fund escrow")
	}
	if !in.Amount.IsPositive() {
		return nil, reqErr(http.StatusBadRequest, "Amount must be greater than zero")
	}
	var maxID int64
	for _, p := range b.payments {
		if p.JobID == job.ID && p.Held() {
			return nil, reqErr(http.StatusConflict, "Payment for this job is already held in escrow")
		}
		maxID = max(maxID, p.ID)
	}

	p := &models.Payment{
		ID:              maxID + 1,
		JobID:           job.ID,
		Amount:          in.Amount,
		Method:          in.Method,
		Status:          models.PaymentHeldInEscrow,
		EscrowAccountID: uuid.NewString(),
		CreatedAt:       b.now().UTC(),
	}
	if err := b.wallet.DebitClient(job.ClientID, p.Amount, p.ID, fmt.Sprintf("Escrow for job #%d", job.ID)); err != nil {
		return nil, fmt.Errorf("debit client: %w", err)
	}
	b.payments = append(b.payments, p)
	b.log.Info("demo escrow held", zap.Int64("payment_id", p.ID), zap.Int64("job_id", job.ID), zap.String("amount", p.Amount.String()))
	out := *p
	return &out, nil
}

// heldPayment loads a payment the caller may settle. Callers hold b.mu.
func (b *Backend) heldPayment(token string, id int64) (*models.Payment, *models.Job, error) {
	a, err := b.authenticate(token)
	if err != nil {
		return nil, nil, err
	}
	p, err := b.findPayment(id)
	if err != nil {
		return nil, nil, err
	}
	job, err := b.findJob(p.JobID)
	if err != nil {
		return nil, nil, err
	}
	if !canManage(a.user, job) {
		return nil, nil, reqErr(http.StatusForbidden, "Only the job owner can settle this payment")
	}
	if !p.Held() {
		return nil, nil, reqErr(http.StatusConflict, "Payment is not held in escrow")
	}
	return p, job, nil
}

// ReleasePayment pays the accepted student and completes the job.
func (b *Backend) ReleasePayment(ctx context.Context, token string, paymentID int64) (*models.Payment, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	p, job, err := b.heldPayment(token, paymentID)
	if err != nil {
		return nil, err
	}
	accepted, err := b.acceptedProposal(ctx, job.ID)
	if err != nil {
		return nil, err
	}
	if accepted == nil {
		return nil, reqErr(http.StatusConflict, "Accept a proposal before releasing payment")
	}
	if err := b.wallet.CreditFreelancer(accepted.StudentID, p.Amount, p.ID, fmt.Sprintf("Payment for job #%d", job.ID)); err != nil {
		return nil, fmt.Errorf("credit freelancer: %w", err)
	}
	now := b.now().UTC()
	p.Status = models.PaymentReleased
	p.ReleasedAt = &now
	job.Status = models.JobStatusCompleted
	out := *p
	return &out, nil
}

// RefundPayment returns the escrow to the client and cancels the job.
func (b *Backend) RefundPayment(_ context.Context, token string, paymentID int64) (*models.Payment, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	p, job, err := b.heldPayment(token, paymentID)
	if err != nil {
		return nil, err
	}
	if err := b.wallet.CreditClient(job.ClientID, p.Amount, p.ID, fmt.Sprintf("Refund for job #%d", job.ID)); err != nil {
		return nil, fmt.Errorf("credit client: %w", err)
	}
	p.Status = models.PaymentRefunded
	job.Status = models.JobStatusCancelled
	out := *p
	return &out, nil
}

func (b *Backend) GetPayment(_ context.Context, token string, paymentID int64) (*models.Payment, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, err := b.authenticate(token); err != nil {
		return nil, err
	}
	p, err := b.findPayment(paymentID)
	if err != nil {
		return nil, err
	}
	out := *p
	return &out, nil
}
