package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/uep-freelance/freelance_web/internal/apperr"
	"github.com/uep-freelance/freelance_web/internal/listing"
	"github.com/uep-freelance/freelance_web/internal/models"
	"github.com/uep-freelance/freelance_web/internal/services"
)

func (c *Client) Mode() services.Mode            { return services.ModeLive }
func (c *Client) Categories() models.CategorySet { return models.LiveCategories }

// amount sends a decimal as a bare JSON number.
func amount(d decimal.Decimal) json.Number { return json.Number(d.String()) }

type authResponse struct {
	Token     string `json:"token"`
	UserID    int64  `json:"userId"`
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role"`
	Phone     string `json:"phone"`
	Message   string `json:"message"`
}

func (a authResponse) result() (*services.AuthResult, error) {
	role, err := models.ParseRole(a.Role)
	if err != nil {
		return nil, fmt.Errorf("login response: %w", err)
	}
	id := a.UserID
	if id == 0 {
		id = a.ID
	}
	return &services.AuthResult{
		Token: a.Token,
		User: models.User{
			ID:        id,
			Email:     a.Email,
			FirstName: a.FirstName,
			LastName:  a.LastName,
			Role:      role,
			Phone:     a.Phone,
		},
	}, nil
}

func (c *Client) Login(ctx context.Context, in services.Credentials) (*services.AuthResult, error) {
	var out authResponse
	if err := c.do(ctx, call{method: http.MethodPost, path: "/auth/login", body: in, out: &out}); err != nil {
		return nil, err
	}
	if out.Token == "" {
		return nil, &apperr.RequestError{Status: http.StatusUnauthorized, Message: "Login failed"}
	}
	return out.result()
}

// Register returns Auth only when the server answers with a token.
func (c *Client) Register(ctx context.Context, in services.Registration) (*services.RegisterResult, error) {
	role, err := models.ParseRole(in.Role)
	if err != nil {
		return nil, &apperr.RequestError{Status: http.StatusBadRequest, Message: "Please select a valid role"}
	}
	in.Role = strings.ToUpper(string(role))

	var out authResponse
	if err := c.do(ctx, call{method: http.MethodPost, path: "/auth/register", body: in, out: &out}); err != nil {
		return nil, err
	}
	res := &services.RegisterResult{Message: out.Message}
	if res.Message == "" {
		res.Message = "Registration successful! Please log in."
	}
	if out.Token != "" {
		auth, err := out.result()
		if err != nil {
			return nil, err
		}
		res.Auth = auth
	}
	return res, nil
}

func (c *Client) ListJobs(ctx context.Context, f services.JobFilter) ([]models.Job, error) {
	var out []models.Job
	err := c.do(ctx, call{
		method: http.MethodGet,
		path:   "/jobs",
		query:  map[string]string{"category": string(f.Category), "search": f.Search},
		out:    &out,
	})
	if err != nil {
		return nil, err
	}
	if f.Status != "" {
		out = listing.Apply(out, listing.Filter{Status: f.Status})
	}
	return out, nil
}

func (c *Client) GetJob(ctx context.Context, id int64) (*models.Job, error) {
	var out models.Job
	if err := c.do(ctx, call{method: http.MethodGet, path: fmt.Sprintf("/jobs/%d", id), out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

type jobBody struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Budget      json.Number     `json:"budget"`
	Deadline    models.Date     `json:"deadline"`
	Category    models.Category `json:"category"`
	Skills      string          `json:"skills,omitempty"`
}

func (c *Client) CreateJob(ctx context.Context, token string, in services.JobRequest) (*models.Job, error) {
	if err := requireToken(token); err != nil {
		return nil, err
	}
	body := jobBody{
		Title:       in.Title,
		Description: in.Description,
		Budget:      amount(in.Budget),
		Deadline:    in.Deadline,
		Category:    in.Category,
		Skills:      in.Skills,
	}
	var out models.Job
	if err := c.do(ctx, call{method: http.MethodPost, path: "/jobs", token: token, body: body, out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) MyJobs(ctx context.Context, token string) ([]models.Job, error) {
	if err := requireToken(token); err != nil {
		return nil, err
	}
	var out []models.Job
	if err := c.do(ctx, call{method: http.MethodGet, path: "/jobs/my-jobs", token: token, out: &out}); err != nil {
		return nil, err
	}
	return out, nil
}

type proposalBody struct {
	CoverLetter    string      `json:"coverLetter"`
	ProposedAmount json.Number `json:"proposedAmount"`
	EstimatedDays  int         `json:"estimatedDays"`
	PortfolioURL   string      `json:"portfolioUrl,omitempty"`
}

func (c *Client) SubmitProposal(ctx context.Context, token string, jobID int64, in services.ProposalRequest) (*models.Proposal, error) {
	if err := requireToken(token); err != nil {
		return nil, err
	}
	body := proposalBody{
		CoverLetter:    in.CoverLetter,
		ProposedAmount: amount(in.ProposedAmount),
		EstimatedDays:  in.EstimatedDays,
		PortfolioURL:   in.PortfolioURL,
	}
	var out models.Proposal
	path := fmt.Sprintf("/jobs/%d/proposals", jobID)
	if err := c.do(ctx, call{method: http.MethodPost, path: path, token: token, body: body, out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) JobProposals(ctx context.Context, token string, jobID int64) ([]models.Proposal, error) {
	if err := requireToken(token); err != nil {
		return nil, err
	}
	var out []models.Proposal
	path := fmt.Sprintf("/jobs/%d/proposals", jobID)
	if err := c.do(ctx, call{method: http.MethodGet, path: path, token: token, out: &out}); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AcceptProposal(ctx context.Context, token string, proposalID int64) (*models.Proposal, error) {
	if err := requireToken(token); err != nil {
		return nil, err
	}
	var out models.Proposal
	path := fmt.Sprintf("/jobs/proposals/%d/accept", proposalID)
	if err := c.do(ctx, call{method: http.MethodPost, path: path, token: token, out: &out}); err != nil {
		return nil, err
	}
	if out.ID == 0 {
		out.ID = proposalID
		out.Status = models.ProposalAccepted
	}
	return &out, nil
}

func (c *Client) MyProposals(context.Context, string) ([]models.Proposal, error) {
	return nil, fmt.Errorf("my proposals: %w", apperr.ErrUnsupported)
}

func (c *Client) ListFreelancers(ctx context.Context) ([]models.Freelancer, error) {
	var out []models.Freelancer
	if err := c.do(ctx, call{method: http.MethodGet, path: "/freelancers", out: &out}); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) UpdateProfile(ctx context.Context, token string, in services.ProfileUpdate) (*models.User, error) {
	if err := requireToken(token); err != nil {
		return nil, err
	}
	var out models.User
	if err := c.do(ctx, call{method: http.MethodPut, path: "/users/profile", token: token, body: in, out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListUsers(context.Context, string) ([]models.User, error) {
	return nil, fmt.Errorf("list users: %w", apperr.ErrUnsupported)
}

// Dashboard derives the cards from the caller's jobs; the API has no stats
// endpoint. Money is the budget of completed jobs.
func (c *Client) Dashboard(ctx context.Context, token string) (*models.DashboardStats, error) {
	jobs, err := c.MyJobs(ctx, token)
	if err != nil {
		return nil, err
	}
	stats := &models.DashboardStats{Money: decimal.Zero, JobsPosted: len(jobs)}
	for _, j := range jobs {
		switch j.Status {
		case models.JobStatusOpen, models.JobStatusInProgress:
			stats.Active++
		case models.JobStatusCompleted:
			stats.Money = stats.Money.Add(j.Budget)
		}
	}
	return stats, nil
}
