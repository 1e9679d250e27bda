// Package services defines the data access contract shared by the live API
// client and the demo backend.
package services

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/uep-freelance/freelance_web/internal/models"
)

type Mode string

const (
	ModeDemo Mode = "demo"
	ModeLive Mode = "live"
)

// Backend returns decoded payloads on success, *apperr.RequestError on a
// rejected request and *apperr.NetworkError when the transport fails.
// Nothing is retried or cached.
type Backend interface {
	Mode() Mode
	Categories() models.CategorySet

	Login(ctx context.Context, in Credentials) (*AuthResult, error)
	Register(ctx context.Context, in Registration) (*RegisterResult, error)

	ListJobs(ctx context.Context, f JobFilter) ([]models.Job, error)
	GetJob(ctx context.Context, id int64) (*models.Job, error)
	CreateJob(ctx context.Context, token string, in JobRequest) (*models.Job, error)
	MyJobs(ctx context.Context, token string) ([]models.Job, error)

	SubmitProposal(ctx context.Context, token string, jobID int64, in ProposalRequest) (*models.Proposal, error)
	JobProposals(ctx context.Context, token string, jobID int64) ([]models.Proposal, error)
	AcceptProposal(ctx context.Context, token string, proposalID int64) (*models.Proposal, error)
	MyProposals(ctx context.Context, token string) ([]models.Proposal, error)

	ListFreelancers(ctx context.Context) ([]models.Freelancer, error)
	UpdateProfile(ctx context.Context, token string, in ProfileUpdate) (*models.User, error)
	ListUsers(ctx context.Context, token string) ([]models.User, error)
	Dashboard(ctx context.Context, token string) (*models.DashboardStats, error)

	CreateEscrow(ctx context.Context, token string, in EscrowRequest) (*models.Payment, error)
	ReleasePayment(ctx context.Context, token string, paymentID int64) (*models.Payment, error)
	RefundPayment(ctx context.Context, token string, paymentID int64) (*models.Payment, error)
	ProcessMockPayment(ctx context.Context, in MockPaymentRequest) (*MockPaymentResult, error)
	GetPayment(ctx context.Context, token string, paymentID int64) (*models.Payment, error)
}

type Credentials struct {
	Email    string `json:"email" form:"email" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

type AuthResult struct {
	Token string
	User  models.User
}

type Registration struct {
	Email     string `json:"email" form:"email"`
	Password  string `json:"password" form:"password"`
	FirstName string `json:"firstName" form:"firstName"`
	LastName  string `json:"lastName" form:"lastName"`
	Role      string `json:"role" form:"role"`
	Phone     string `json:"phone,omitempty" form:"phone"`
}

// RegisterResult carries Auth when the backend logs the new user in
// directly.
type RegisterResult struct {
	Message string
	Auth    *AuthResult
}

type JobFilter struct {
	Category models.Category
	Search   string
	Status   models.JobStatus
}

type JobRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Budget      decimal.Decimal `json:"budget"`
	Deadline    models.Date     `json:"deadline"`
	Category    models.Category `json:"category"`
	Skills      string          `json:"skills,omitempty"`
}

type ProposalRequest struct {
	CoverLetter    string          `json:"coverLetter"`
	ProposedAmount decimal.Decimal `json:"proposedAmount"`
	EstimatedDays  int             `json:"estimatedDays"`
	PortfolioURL   string          `json:"portfolioUrl,omitempty"`
}

type ProfileUpdate struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
	Bio       string `json:"bio,omitempty"`
	Skills    string `json:"skills,omitempty"`
}

type EscrowRequest struct {
	JobID  int64                `json:"jobId"`
	Amount decimal.Decimal      `json:"amount"`
	Method models.PaymentMethod `json:"method"`
}

type MockPaymentRequest struct {
	Method         models.PaymentMethod `json:"method"`
	AccountDetails string               `json:"accountDetails"`
	Amount         decimal.Decimal      `json:"amount"`
}

type MockPaymentResult struct {
	Success       bool   `json:"success"`
	TransactionID string `json:"transactionId"`
	Message       string `json:"message"`
}
