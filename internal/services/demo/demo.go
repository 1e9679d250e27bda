// Package demo is an in-process Backend seeded with synthetic data. Users,
// jobs and payments live in memory; submitted proposals are persisted in
// storage so they survive a restart when Redis is configured.
package demo

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/uep-freelance/freelance_web/internal/apperr"
	"github.com/uep-freelance/freelance_web/internal/listing"
	"github.com/uep-freelance/freelance_web/internal/models"
	"github.com/uep-freelance/freelance_web/internal/services"
	"github.com/uep-freelance/freelance_web/internal/services/wallet"
	"github.com/uep-freelance/freelance_web/internal/storage"
	"github.com/uep-freelance/freelance_web/internal/utils"
)

const ProposalsKey = "uep_proposals"

//go:embed seed.yaml
var defaultSeed []byte

type Config struct {
	Secret      string
	TokenTTLMin int
	// Seed replaces the embedded seed when non-empty.
	Seed []byte
}

type seedUser struct {
	models.User `yaml:",inline"`
	Password    string `yaml:"password"`
}

type seedData struct {
	Users       []seedUser          `yaml:"users"`
	Jobs        []models.Job        `yaml:"jobs"`
	Freelancers []models.Freelancer `yaml:"freelancers"`
}

type account struct {
	user models.User
	hash string
}

type Backend struct {
	cfg    Config
	store  storage.Storage
	wallet *wallet.WalletService
	log    *zap.Logger
	now    func() time.Time

	// mu guards everything below and serializes proposal submission, so the
	// duplicate check and the count increment cannot interleave.
	mu          sync.Mutex
	users       []*account
	jobs        []*models.Job
	freelancers []models.Freelancer
	payments    []*models.Payment
}

var _ services.Backend = (*Backend)(nil)

func New(cfg Config, store storage.Storage, ws *wallet.WalletService, log *zap.Logger) (*Backend, error) {
	raw := cfg.Seed
	if len(raw) == 0 {
		raw = defaultSeed
	}
	var seed seedData
	if err := yaml.Unmarshal(raw, &seed); err != nil {
		return nil, fmt.Errorf("parse demo seed: %w", err)
	}
	if cfg.TokenTTLMin <= 0 {
		cfg.TokenTTLMin = 60 * 24 * 7
	}

	b := &Backend{cfg: cfg, store: store, wallet: ws, log: log, now: time.Now}
	for _, su := range seed.Users {
		hash, err := utils.HashPassword(su.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password for %s: %w", su.Email, err)
		}
		b.users = append(b.users, &account{user: su.User, hash: hash})
	}
	for i := range seed.Jobs {
		j := seed.Jobs[i]
		b.jobs = append(b.jobs, &j)
	}
	b.freelancers = seed.Freelancers

	log.Info("demo backend seeded",
		zap.Int("users", len(b.users)),
		zap.Int("jobs", len(b.jobs)),
		zap.Int("freelancers", len(b.freelancers)))
	return b, nil
}

func (b *Backend) Mode() services.Mode            { return services.ModeDemo }
func (b *Backend) Categories() models.CategorySet { return models.DemoCategories }

func reqErr(status int, msg string) error {
	return &apperr.RequestError{Status: status, Message: msg}
}

func (b *Backend) today() models.Date { return models.NewDate(b.now()) }

// authenticate resolves a bearer token. Callers hold b.mu.
func (b *Backend) authenticate(token string) (*account, error) {
	claims, err := utils.ParseJWT(b.cfg.Secret, token)
	if err != nil {
		return nil, &apperr.RequestError{Status: http.StatusUnauthorized, Message: apperr.ErrUnauthorized.Error(), Err: apperr.ErrUnauthorized}
	}
	for _, a := range b.users {
		if a.user.ID == claims.UserID {
			return a, nil
		}
	}
	return nil, &apperr.RequestError{Status: http.StatusUnauthorized, Message: apperr.ErrUnauthorized.Error(), Err: apperr.ErrUnauthorized}
}

func (b *Backend) issue(a *account) (*services.AuthResult, error) {
	tok, err := utils.SignJWT(b.cfg.Secret, utils.Claims{UserID: a.user.ID, Role: string(a.user.Role)}, b.cfg.TokenTTLMin)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &services.AuthResult{Token: tok, User: a.user}, nil
}

func (b *Backend) Login(_ context.Context, in services.Credentials) (*services.AuthResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	email := strings.TrimSpace(in.Email)
	for _, a := range b.users {
		if strings.EqualFold(a.user.Email, email) && utils.CheckPassword(a.hash, in.Password) {
			return b.issue(a)
		}
	}
	return nil, reqErr(http.StatusUnauthorized, "Invalid email or password. Try: admin@uep.edu.ph / password123")
}

// Register creates the account and logs it in straight away.
func (b *Backend) Register(_ context.Context, in services.Registration) (*services.RegisterResult, error) {
	role, err := models.ParseRole(in.Role)
	if err != nil {
		return nil, reqErr(http.StatusBadRequest, "Please select a valid role")
	}
	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	email := strings.TrimSpace(in.Email)
	var maxID int64
	for _, a := range b.users {
		if strings.EqualFold(a.user.Email, email) {
			return nil, reqErr(http.StatusConflict, "User with this email already exists")
		}
		maxID = max(maxID, a.user.ID)
	}
	a := &account{
		user: models.User{
			ID:        maxID + 1,
			Email:     email,
			FirstName: strings.TrimSpace(in.FirstName),
			LastName:  strings.TrimSpace(in.LastName),
			Role:      role,
			Phone:     strings.TrimSpace(in.Phone),
			CreatedAt: b.today(),
		},
		hash: hash,
	}
	b.users = append(b.users, a)
	auth, err := b.issue(a)
	if err != nil {
		return nil, err
	}
	b.log.Info("demo user registered", zap.Int64("user_id", a.user.ID), zap.String("role", string(role)))
	return &services.RegisterResult{
		Message: fmt.Sprintf("Welcome to UEP Freelance, %s!", a.user.FirstName),
		Auth:    auth,
	}, nil
}

func (b *Backend) ListFreelancers(_ context.Context) ([]models.Freelancer, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]models.Freelancer(nil), b.freelancers...), nil
}

func (b *Backend) UpdateProfile(_ context.Context, token string, in services.ProfileUpdate) (*models.User, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	a, err := b.authenticate(token)
	if err != nil {
		return nil, err
	}
	a.user.FirstName = strings.TrimSpace(in.FirstName)
	a.user.LastName = strings.TrimSpace(in.LastName)
	a.user.Phone = strings.TrimSpace(in.Phone)
	if in.Bio != "" {
		a.user.Bio = strings.TrimSpace(in.Bio)
	}
	if in.Skills != "" {
		a.user.Skills = strings.TrimSpace(in.Skills)
	}
	u := a.user
	return &u, nil
}

func (b *Backend) ListUsers(_ context.Context, token string) ([]models.User, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	a, err := b.authenticate(token)
	if err != nil {
		return nil, err
	}
	if !a.user.IsAdmin() {
		return nil, reqErr(http.StatusForbidden, "Admin access required")
	}
	out := make([]models.User, 0, len(b.users))
	for _, u := range b.users {
		out = append(out, u.user)
	}
	return out, nil
}

// Dashboard reports, for students, pending or accepted proposals, released
// earnings and rating; for clients, open or in-progress jobs, net escrow
// spending and jobs posted; for admins, platform wide figures.
func (b *Backend) Dashboard(ctx context.Context, token string) (*models.DashboardStats, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	a, err := b.authenticate(token)
	if err != nil {
		return nil, err
	}
	u := a.user
	stats := &models.DashboardStats{}
	switch {
	case u.IsStudent():
		proposals, err := b.loadProposals(ctx)
		if err != nil {
			return nil, err
		}
		for _, p := range proposals {
			if p.StudentID == u.ID && p.Status != models.ProposalRejected {
				stats.Active++
			}
		}
		stats.Money = b.wallet.Earnings(u.ID)
		stats.Rating = u.Rating
	case u.IsAdmin():
		for _, j := range b.jobs {
			if j.IsOpen() {
				stats.Active++
			}
		}
		stats.Money = b.wallet.Revenue()
		stats.JobsPosted = len(b.jobs)
	default:
		for _, j := range b.jobs {
			if j.ClientID != u.ID {
				continue
			}
			stats.JobsPosted++
			if j.Status == models.JobStatusOpen || j.Status == models.JobStatusInProgress {
				stats.Active++
			}
		}
		stats.Money = b.wallet.Spent(u.ID)
	}
	return stats, nil
}

func (b *Backend) findJob(id int64) (*models.Job, error) {
	for _, j := range b.jobs {
		if j.ID == id {
			return j, nil
		}
	}
	return nil, reqErr(http.StatusNotFound, "Job not found")
}

func canManage(u models.User, j *models.Job) bool {
	return u.IsAdmin() || j.ClientID == u.ID
}

func (b *Backend) ListJobs(_ context.Context, f services.JobFilter) ([]models.Job, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	all := make([]models.Job, 0, len(b.jobs))
	for _, j := range b.jobs {
		all = append(all, *j)
	}
	return listing.Apply(all, listing.Filter{Search: f.Search, Category: f.Category, Status: f.Status}), nil
}

func (b *Backend) GetJob(_ context.Context, id int64) (*models.Job, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	j, err := b.findJob(id)
	if err != nil {
		return nil, err
	}
	out := *j
	return &out, nil
}

func (b *Backend) CreateJob(_ context.Context, token string, in services.JobRequest) (*models.Job, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	a, err := b.authenticate(token)
	if err != nil {
		return nil, err
	}
	if a.user.IsStudent() {
		return nil, reqErr(http.StatusForbidden, "Only clients can post jobs")
	}
	cat, ok := models.DemoCategories.Normalize(string(in.Category))
	if !ok {
		return nil, reqErr(http.StatusBadRequest, "Please select a valid category")
	}
	deadline := in.Deadline
	if deadline.IsZero() {
		deadline = models.NewDate(b.now().AddDate(0, 0, 30))
	}

	var maxID int64
	for _, j := range b.jobs {
		maxID = max(maxID, j.ID)
	}
	j := &models.Job{
		ID:          maxID + 1,
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Budget:      in.Budget,
		Deadline:    deadline,
		Category:    cat,
		ClientID:    a.user.ID,
		ClientName:  a.user.FullName(),
		Status:      models.JobStatusOpen,
		Skills:      strings.TrimSpace(in.Skills),
		CreatedAt:   b.today(),
	}
	b.jobs = append(b.jobs, j)
	b.log.Info("demo job created", zap.Int64("job_id", j.ID), zap.Int64("client_id", a.user.ID))
	out := *j
	return &out, nil
}

// MyJobs lists the caller's own jobs; administrators see every job that is
// not completed.
func (b *Backend) MyJobs(_ context.Context, token string) ([]models.Job, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	a, err := b.authenticate(token)
	if err != nil {
		return nil, err
	}
	var out []models.Job
	for _, j := range b.jobs {
		if j.ClientID == a.user.ID || (a.user.IsAdmin() && j.Status != models.JobStatusCompleted) {
			out = append(out, *j)
		}
	}
	return out, nil
}

func isNotFound(err error) bool { return errors.Is(err, storage.ErrNotFound) }
