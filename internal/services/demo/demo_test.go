package demo

import (
	"net/http"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/uep-freelance/freelance_web/internal/apperr"
	"github.com/uep-freelance/freelance_web/internal/models"
	"github.com/uep-freelance/freelance_web/internal/services"
	"github.com/uep-freelance/freelance_web/internal/services/wallet"
	"github.com/uep-freelance/freelance_web/internal/storage"
)

func newBackend(t *testing.T, store storage.Storage) *Backend {
	t.Helper()
	if store == nil {
		store = storage.NewMemory()
	}
	b, err := New(Config{Secret: "test-secret"}, store, wallet.NewWalletService(), zap.NewNop())
	require.NoError(t, err)
	return b
}

func login(t *testing.T, b *Backend, email string) string {
	t.Helper()
	res, err := b.Login(t.Context(), services.Credentials{Email: email, Password: "password123"})
	require.NoError(t, err)
	return res.Token
}

func requireStatus(t *testing.T, err error, status int) *apperr.RequestError {
	t.Helper()
	var re *apperr.RequestError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, status, re.Status)
	return re
}

func proposal() services.ProposalRequest {
	return services.ProposalRequest{
		CoverLetter:    "I have built several responsive sites for local shops.",
		ProposedAmount: decimal.NewFromInt(14000),
		EstimatedDays:  14,
	}
}

func TestSeed(t *testing.T) {
	t.Run("Should load the embedded demo data", func(t *testing.T) {
		b := newBackend(t, nil)
		assert.Len(t, b.users, 3)
		assert.Len(t, b.jobs, 5)
		assert.Len(t, b.freelancers, 3)
		assert.Equal(t, models.RoleStudent, b.users[2].user.Role)
		assert.True(t, decimal.NewFromInt(15000).Equal(b.jobs[0].Budget))
		assert.Equal(t, "2024-12-31", b.jobs[0].Deadline.String())
	})

	t.Run("Should reject a malformed seed", func(t *testing.T) {
		_, err := New(Config{Secret: "s", Seed: []byte("users: [")}, storage.NewMemory(), wallet.NewWalletService(), zap.NewNop())
		assert.Error(t, err)
	})
}

func TestLogin(t *testing.T) {
	b := newBackend(t, nil)

	t.Run("Should log demo accounts in", func(t *testing.T) {
		res, err := b.Login(t.Context(), services.Credentials{Email: "admin@uep.edu.ph", Password: "password123"})
		require.NoError(t, err)
		assert.NotEmpty(t, res.Token)
		assert.True(t, res.User.IsAdmin())
	})

	t.Run("Should reject a wrong password", func(t *testing.T) {
		_, err := b.Login(t.Context(), services.Credentials{Email: "admin@uep.edu.ph", Password: "nope"})
		re := requireStatus(t, err, http.StatusUnauthorized)
		assert.Contains(t, re.Message, "Invalid email or password")
	})
}

func TestRegister(t *testing.T) {
	b := newBackend(t, nil)
	reg := services.Registration{
		Email: "pedro@uep.edu.ph", Password: "secret1",
		FirstName: "Pedro", LastName: "Penduko", Role: "CLIENT",
	}

	t.Run("Should create the account and log it in", func(t *testing.T) {
		res, err := b.Register(t.Context(), reg)
		require.NoError(t, err)
		require.NotNil(t, res.Auth)
		assert.Equal(t, int64(4), res.Auth.User.ID)
		assert.True(t, res.Auth.User.IsClient())
		assert.Equal(t, "Welcome to UEP Freelance, Pedro!", res.Message)

		_, err = b.Login(t.Context(), services.Credentials{Email: reg.Email, Password: reg.Password})
		assert.NoError(t, err)
	})

	t.Run("Should reject a taken email", func(t *testing.T) {
		_, err := b.Register(t.Context(), reg)
		requireStatus(t, err, http.StatusConflict)
	})
}

func TestSubmitProposal(t *testing.T) {
	t.Run("Should reject a second proposal for the same job and count once", func(t *testing.T) {
		b := newBackend(t, nil)
		tok := login(t, b, "student@uep.edu.ph")
		before := b.jobs[0].ProposalsCount

		_, err := b.SubmitProposal(t.Context(), tok, 1, proposal())
		require.NoError(t, err)
		_, err = b.SubmitProposal(t.Context(), tok, 1, proposal())
		requireStatus(t, err, http.StatusConflict)
		assert.ErrorIs(t, err, apperr.ErrDuplicateProposal)

		job, err := b.GetJob(t.Context(), 1)
		require.NoError(t, err)
		assert.Equal(t, before+1, job.ProposalsCount)
	})

	t.Run("Should accept exactly one of many concurrent submissions", func(t *testing.T) {
		b := newBackend(t, nil)
		tok := login(t, b, "student@uep.edu.ph")
		before := b.jobs[1].ProposalsCount

		var wg sync.WaitGroup
		errs := make([]error, 8)
		for i := range errs {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, errs[i] = b.SubmitProposal(t.Context(), tok, 2, proposal())
			}()
		}
		wg.Wait()

		ok := 0
		for _, err := range errs {
			if err == nil {
				ok++
			} else {
				assert.ErrorIs(t, err, apperr.ErrDuplicateProposal)
			}
		}
		assert.Equal(t, 1, ok)
		assert.Equal(t, before+1, b.jobs[1].ProposalsCount)
	})

	t.Run("Should keep proposals in storage across restarts", func(t *testing.T) {
		store := storage.NewMemory()
		b := newBackend(t, store)
		_, err := b.SubmitProposal(t.Context(), login(t, b, "student@uep.edu.ph"), 3, proposal())
		require.NoError(t, err)

		again := newBackend(t, store)
		mine, err := again.MyProposals(t.Context(), login(t, again, "student@uep.edu.ph"))
		require.NoError(t, err)
		require.Len(t, mine, 1)
		assert.Equal(t, int64(3), mine[0].JobID)
		assert.Equal(t, "Maria Santos", mine[0].StudentName)
	})

	t.Run("Should only let students submit to open jobs", func(t *testing.T) {
		b := newBackend(t, nil)
		_, err := b.SubmitProposal(t.Context(), login(t, b, "client@uep.edu.ph"), 1, proposal())
		requireStatus(t, err, http.StatusForbidden)

		student := login(t, b, "student@uep.edu.ph")
		_, err = b.SubmitProposal(t.Context(), student, 4, proposal())
		requireStatus(t, err, http.StatusConflict)
		_, err = b.SubmitProposal(t.Context(), student, 99, proposal())
		requireStatus(t, err, http.StatusNotFound)
		_, err = b.SubmitProposal(t.Context(), "garbage", 1, proposal())
		assert.ErrorIs(t, err, apperr.ErrUnauthorized)
	})
}

func TestJobs(t *testing.T) {
	b := newBackend(t, nil)

	t.Run("Should filter listings", func(t *testing.T) {
		jobs, err := b.ListJobs(t.Context(), services.JobFilter{Category: "CONTENT", Status: models.JobStatusOpen})
		require.NoError(t, err)
		require.Len(t, jobs, 1)
		assert.Equal(t, int64(3), jobs[0].ID)
	})

	t.Run("Should create a job for a client", func(t *testing.T) {
		tok := login(t, b, "client@uep.edu.ph")
		job, err := b.CreateJob(t.Context(), tok, services.JobRequest{
			Title:       "Event Poster",
			Description: "Poster for the campus fair with bold typography.",
			Budget:      decimal.NewFromInt(1500),
			Category:    "design",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(6), job.ID)
		assert.Equal(t, models.Category("DESIGN"), job.Category)
		assert.Equal(t, "Juan Dela Cruz", job.ClientName)
		assert.False(t, job.Deadline.IsZero())

		mine, err := b.MyJobs(t.Context(), tok)
		require.NoError(t, err)
		assert.Len(t, mine, 6)
	})

	t.Run("Should refuse students and unknown categories", func(t *testing.T) {
		_, err := b.CreateJob(t.Context(), login(t, b, "student@uep.edu.ph"), services.JobRequest{Category: "WEB"})
		requireStatus(t, err, http.StatusForbidden)
		_, err = b.CreateJob(t.Context(), login(t, b, "client@uep.edu.ph"), services.JobRequest{Category: "MARKETING"})
		requireStatus(t, err, http.StatusBadRequest)
	})

	t.Run("Should show admins every unfinished job", func(t *testing.T) {
		jobs, err := b.MyJobs(t.Context(), login(t, b, "admin@uep.edu.ph"))
		require.NoError(t, err)
		for _, j := range jobs {
			assert.NotEqual(t, models.JobStatusCompleted, j.Status)
		}
	})
}

func TestEscrowFlow(t *testing.T) {
	b := newBackend(t, nil)
	ctx := t.Context()
	client := login(t, b, "client@uep.edu.ph")
	student := login(t, b, "student@uep.edu.ph")

	submitted, err := b.SubmitProposal(ctx, student, 1, proposal())
	require.NoError(t, err)

	payment, err := b.CreateEscrow(ctx, client, services.EscrowRequest{JobID: 1, Amount: decimal.NewFromInt(14000), Method: models.MethodGCash})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentHeldInEscrow, payment.Status)
	assert.NotEmpty(t, payment.EscrowAccountID)

	t.Run("Should hold one payment per job", func(t *testing.T) {
		_, err := b.CreateEscrow(ctx, client, services.EscrowRequest{JobID: 1, Amount: decimal.NewFromInt(1), Method: models.MethodGCash})
		requireStatus(t, err, http.StatusConflict)
	})

	t.Run("Should require an accepted proposal before release", func(t *testing.T) {
		_, err := b.ReleasePayment(ctx, client, payment.ID)
		requireStatus(t, err, http.StatusConflict)
	})

	t.Run("Should accept a proposal and start the job", func(t *testing.T) {
		accepted, err := b.AcceptProposal(ctx, client, submitted.ID)
		require.NoError(t, err)
		assert.Equal(t, models.ProposalAccepted, accepted.Status)
		job, _ := b.GetJob(ctx, 1)
		assert.Equal(t, models.JobStatusInProgress, job.Status)

		list, err := b.JobProposals(ctx, client, 1)
		require.NoError(t, err)
		assert.Len(t, list, 1)
		_, err = b.JobProposals(ctx, student, 1)
		requireStatus(t, err, http.StatusForbidden)
	})

	t.Run("Should release to the student and complete the job", func(t *testing.T) {
		released, err := b.ReleasePayment(ctx, client, payment.ID)
		require.NoError(t, err)
		assert.Equal(t, models.PaymentReleased, released.Status)
		require.NotNil(t, released.ReleasedAt)

		job, _ := b.GetJob(ctx, 1)
		assert.Equal(t, models.JobStatusCompleted, job.Status)

		stats, err := b.Dashboard(ctx, student)
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(14000).Equal(stats.Money))
		assert.Equal(t, 1, stats.Active)
		assert.InDelta(t, 4.8, stats.Rating, 0.001)

		_, err = b.RefundPayment(ctx, client, payment.ID)
		requireStatus(t, err, http.StatusConflict)
	})

	t.Run("Should refund and cancel the job", func(t *testing.T) {
		p, err := b.CreateEscrow(ctx, client, services.EscrowRequest{JobID: 2, Amount: decimal.NewFromInt(5000), Method: models.MethodPayPal})
		require.NoError(t, err)
		refunded, err := b.RefundPayment(ctx, client, p.ID)
		require.NoError(t, err)
		assert.Equal(t, models.PaymentRefunded, refunded.Status)
		job, _ := b.GetJob(ctx, 2)
		assert.Equal(t, models.JobStatusCancelled, job.Status)

		stats, err := b.Dashboard(ctx, client)
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(14000).Equal(stats.Money))

		got, err := b.GetPayment(ctx, client, p.ID)
		require.NoError(t, err)
		assert.Equal(t, models.PaymentRefunded, got.Status)
	})
}

func TestProcessMockPayment(t *testing.T) {
	b := newBackend(t, nil)
	res, err := b.ProcessMockPayment(t.Context(), services.MockPaymentRequest{Method: models.MethodGCash, AccountDetails: "0917", Amount: decimal.NewFromInt(10)})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Contains(t, res.TransactionID, "MOCK-")

	_, err = b.ProcessMockPayment(t.Context(), services.MockPaymentRequest{Method: models.MethodWallet, Amount: decimal.NewFromInt(10)})
	requireStatus(t, err, http.StatusBadRequest)
}

func TestListUsers(t *testing.T) {
	b := newBackend(t, nil)
	users, err := b.ListUsers(t.Context(), login(t, b, "admin@uep.edu.ph"))
	require.NoError(t, err)
	assert.Len(t, users, 3)

	_, err = b.ListUsers(t.Context(), login(t, b, "client@uep.edu.ph"))
	requireStatus(t, err, http.StatusForbidden)
}
