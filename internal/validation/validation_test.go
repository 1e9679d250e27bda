package validation

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uep-freelance/freelance_web/internal/apperr"
	"github.com/uep-freelance/freelance_web/internal/models"
	"github.com/uep-freelance/freelance_web/internal/services"
)

func newValidator() *Validator {
	v := New("@uep.edu.ph")
	v.now = func() time.Time { return time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC) }
	return v
}

func fieldErrors(t *testing.T, err error) apperr.FieldErrors {
	t.Helper()
	var ve *apperr.ValidationError
	require.ErrorAs(t, err, &ve)
	return ve.Fields
}

func TestRegistration(t *testing.T) {
	valid := RegistrationForm{
		Email: "maria@uep.edu.ph", Password: "secret1",
		FirstName: "Maria", LastName: "Santos", Role: "student",
	}

	t.Run("Should accept a campus address", func(t *testing.T) {
		reg, err := newValidator().Registration(valid)
		require.NoError(t, err)
		assert.Equal(t, "maria@uep.edu.ph", reg.Email)
	})

	t.Run("Should reject addresses outside the campus domain", func(t *testing.T) {
		for _, email := range []string{"maria@gmail.com", "maria@uep.edu.ph.evil.com", "not-an-email"} {
			f := valid
			f.Email = email
			_, err := newValidator().Registration(f)
			fe := fieldErrors(t, err)
			assert.Contains(t, fe, "email", email)
			assert.Equal(t, "Must use a valid UEP email address (@uep.edu.ph)", apperr.Message(err), email)
		}
	})

	t.Run("Should enforce the password length", func(t *testing.T) {
		f := valid
		f.Password = "12345"
		_, err := newValidator().Registration(f)
		assert.Equal(t, []string{"Password must be at least 6 characters"}, fieldErrors(t, err)["password"])
	})

	t.Run("Should not allow signing up as administrator", func(t *testing.T) {
		f := valid
		f.Role = "ADMIN"
		_, err := newValidator().Registration(f)
		assert.Contains(t, fieldErrors(t, err), "role")
	})

	t.Run("Should require names", func(t *testing.T) {
		f := valid
		f.FirstName = "  "
		_, err := newValidator().Registration(f)
		assert.Equal(t, "Please fill in all required fields", apperr.Message(err))
	})
}

func TestLogin(t *testing.T) {
	_, err := newValidator().Login(services.Credentials{Email: "a@uep.edu.ph"})
	assert.Equal(t, "Please fill in all fields", apperr.Message(err))

	in, err := newValidator().Login(services.Credentials{Email: " a@uep.edu.ph ", Password: "x"})
	require.NoError(t, err)
	assert.Equal(t, "a@uep.edu.ph", in.Email)
}

func TestJob(t *testing.T) {
	valid := JobForm{
		Title:       "Landing page",
		Description: "A landing page for the campus org fair.",
		Budget:      "2500",
		Deadline:    "2025-03-11",
		Category:    "web development",
	}

	t.Run("Should build the request", func(t *testing.T) {
		req, err := newValidator().Job(valid, models.LiveCategories)
		require.NoError(t, err)
		assert.Equal(t, models.Category("WEB_DEVELOPMENT"), req.Category)
		assert.True(t, decimal.NewFromInt(2500).Equal(req.Budget))
		assert.Equal(t, "2025-03-11", req.Deadline.String())
	})

	t.Run("Should reject a budget below 100", func(t *testing.T) {
		for _, b := range []string{"99", "99.99", "0", "-5"} {
			f := valid
			f.Budget = b
			_, err := newValidator().Job(f, models.LiveCategories)
			assert.Equal(t, []string{"Budget must be at least ₱100"}, fieldErrors(t, err)["budget"], b)
		}
		f := valid
		f.Budget = "100"
		_, err := newValidator().Job(f, models.LiveCategories)
		assert.NoError(t, err)
	})

	t.Run("Should require a deadline after today", func(t *testing.T) {
		f := valid
		f.Deadline = "2025-03-10"
		_, err := newValidator().Job(f, models.LiveCategories)
		assert.Contains(t, fieldErrors(t, err), "deadline")
	})

	t.Run("Should check the category against the active catalog", func(t *testing.T) {
		f := valid
		f.Category = "VIDEO"
		_, err := newValidator().Job(f, models.LiveCategories)
		assert.Contains(t, fieldErrors(t, err), "category")

		_, err = newValidator().Job(f, models.DemoCategories)
		assert.NoError(t, err)
	})

	t.Run("Should enforce title and description lengths", func(t *testing.T) {
		f := valid
		f.Title = "Logo"
		f.Description = "Too short"
		fe := fieldErrors(t, func() error { _, err := newValidator().Job(f, models.LiveCategories); return err }())
		assert.Equal(t, []string{"Job title must be at least 5 characters"}, fe["title"])
		assert.Equal(t, []string{"Description must be at least 20 characters"}, fe["description"])
	})
}

func TestProposal(t *testing.T) {
	t.Run("Should build the request", func(t *testing.T) {
		req, err := newValidator().Proposal(ProposalForm{
			CoverLetter: "I can do this", ProposedAmount: "4500", EstimatedDays: "7",
			PortfolioURL: "https://maria.dev",
		})
		require.NoError(t, err)
		assert.Equal(t, 7, req.EstimatedDays)
		assert.True(t, decimal.NewFromInt(4500).Equal(req.ProposedAmount))
	})

	t.Run("Should reject low amounts, zero days and bad links", func(t *testing.T) {
		_, err := newValidator().Proposal(ProposalForm{
			CoverLetter: "hi", ProposedAmount: "50", EstimatedDays: "0", PortfolioURL: "not a url",
		})
		fe := fieldErrors(t, err)
		assert.Contains(t, fe, "proposedAmount")
		assert.Contains(t, fe, "estimatedDays")
		assert.Contains(t, fe, "portfolioUrl")
	})
}

func TestPayment(t *testing.T) {
	t.Run("Should accept GCash and PayPal only", func(t *testing.T) {
		mock, escrow, err := newValidator().Payment(PaymentForm{JobID: 1, Amount: "5000", Method: "gcash", AccountDetails: "0917 123 4567"})
		require.NoError(t, err)
		assert.Equal(t, models.MethodGCash, mock.Method)
		assert.Equal(t, int64(1), escrow.JobID)

		_, _, err = newValidator().Payment(PaymentForm{JobID: 1, Amount: "5000", Method: "CREDIT_CARD", AccountDetails: "x"})
		assert.Equal(t, "Please select GCash or PayPal", apperr.Message(err))
	})

	t.Run("Should reject a zero amount", func(t *testing.T) {
		_, _, err := newValidator().Payment(PaymentForm{JobID: 1, Amount: "0", Method: "PAYPAL", AccountDetails: "me@example.com"})
		assert.Contains(t, fieldErrors(t, err), "amount")
	})
}

func TestProfile(t *testing.T) {
	_, err := newValidator().Profile(ProfileForm{FirstName: "Maria"})
	assert.Equal(t, "Please fill in first and last name", apperr.Message(err))

	up, err := newValidator().Profile(ProfileForm{FirstName: " Maria ", LastName: "Santos", Phone: "0918"})
	require.NoError(t, err)
	assert.Equal(t, "Maria", up.FirstName)
}
