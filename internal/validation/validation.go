// Package validation checks form input before any request is issued. A
// failure is an *apperr.ValidationError and nothing is sent or stored.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/uep-freelance/freelance_web/internal/apperr"
	"github.com/uep-freelance/freelance_web/internal/models"
	"github.com/uep-freelance/freelance_web/internal/services"
)

var (
	MinBudget       = decimal.NewFromInt(100)
	MinProposal     = decimal.NewFromInt(100)
	minPasswordLen  = 6
	requiredMessage = "Please fill in all required fields"
)

type Validator struct {
	validate    *validator.Validate
	emailDomain string
	now         func() time.Time
}

func New(emailDomain string) *Validator {
	out := &Validator{
		validate:    validator.New(validator.WithRequiredStructEnabled()),
		emailDomain: strings.ToLower(strings.TrimSpace(emailDomain)),
		now:         time.Now,
	}
	out.validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name, _, _ := strings.Cut(f.Tag.Get("form"), ","); name != "" && name != "-" {
			return name
		}
		return f.Name
	})
	_ = out.validate.RegisterValidation("campus_email", func(fl validator.FieldLevel) bool {
		return strings.HasSuffix(strings.ToLower(strings.TrimSpace(fl.Field().String())), out.emailDomain)
	})
	_ = out.validate.RegisterValidation("signup_role", func(fl validator.FieldLevel) bool {
		r, err := models.ParseRole(fl.Field().String())
		return err == nil && r != models.RoleAdmin
	})
	return out
}

func (v *Validator) EmailDomain() string { return v.emailDomain }

// Tomorrow is the earliest accepted job deadline.
func (v *Validator) Tomorrow() models.Date {
	return models.NewDate(v.now().AddDate(0, 0, 1))
}

// check runs the struct tags and maps each failure to a message, looked up
// by "field.tag" and then by "field".
func (v *Validator) check(s any, msgs map[string]string) apperr.FieldErrors {
	fe := apperr.FieldErrors{}
	var verrs validator.ValidationErrors
	if err := v.validate.Struct(s); errors.As(err, &verrs) {
		for _, e := range verrs {
			msg, ok := msgs[e.Field()+"."+e.Tag()]
			if !ok {
				msg = msgs[e.Field()]
			}
			if msg == "" {
				msg = requiredMessage
			}
			fe.Add(e.Field(), msg)
		}
	}
	return fe
}

type RegistrationForm struct {
	Email     string `form:"email" validate:"required,email,campus_email"`
	Password  string `form:"password" validate:"required,min=6"`
	FirstName string `form:"firstName" validate:"required"`
	LastName  string `form:"lastName" validate:"required"`
	Role      string `form:"role" validate:"required,signup_role"`
	Phone     string `form:"phone"`
}

func (v *Validator) Registration(f RegistrationForm) (services.Registration, error) {
	f = RegistrationForm{
		Email:     strings.TrimSpace(f.Email),
		Password:  f.Password,
		FirstName: strings.TrimSpace(f.FirstName),
		LastName:  strings.TrimSpace(f.LastName),
		Role:      strings.TrimSpace(f.Role),
		Phone:     strings.TrimSpace(f.Phone),
	}
	emailMsg := fmt.Sprintf("Must use a valid UEP email address (%s)", v.emailDomain)
	fe := v.check(f, map[string]string{
		"email":            emailMsg,
		"email.required":   "Email is required",
		"password":         fmt.Sprintf("Password must be at least %d characters", minPasswordLen),
		"role.signup_role": "Please select a valid role",
	})
	if err := fe.Err(); err != nil {
		return services.Registration{}, err
	}
	return services.Registration{
		Email:     f.Email,
		Password:  f.Password,
		FirstName: f.FirstName,
		LastName:  f.LastName,
		Role:      f.Role,
		Phone:     f.Phone,
	}, nil
}

func (v *Validator) Login(in services.Credentials) (services.Credentials, error) {
	in.Email = strings.TrimSpace(in.Email)
	fe := v.check(in, map[string]string{
		"email":    "Please fill in all fields",
		"password": "Please fill in all fields",
	})
	return in, fe.Err()
}

type JobForm struct {
	Title       string `form:"title" validate:"required,min=5"`
	Description string `form:"description" validate:"required,min=20"`
	Budget      string `form:"budget" validate:"required"`
	Deadline    string `form:"deadline" validate:"required"`
	Category    string `form:"category" validate:"required"`
	Skills      string `form:"skills"`
}

// Job validates a post-job form against the active category catalog.
func (v *Validator) Job(f JobForm, cats models.CategorySet) (services.JobRequest, error) {
	f.Title = strings.TrimSpace(f.Title)
	f.Description = strings.TrimSpace(f.Description)
	fe := v.check(f, map[string]string{
		"title.required":       "Job title is required",
		"title.min":            "Job title must be at least 5 characters",
		"description.required": "Description is required",
		"description.min":      "Description must be at least 20 characters",
		"budget":               "Budget is required",
		"deadline":             "Deadline is required",
		"category":             "Please select a category",
	})

	req := services.JobRequest{Title: f.Title, Description: f.Description, Skills: strings.TrimSpace(f.Skills)}
	if strings.TrimSpace(f.Budget) != "" {
		budget, err := decimal.NewFromString(strings.TrimSpace(f.Budget))
		switch {
		case err != nil:
			fe.Add("budget", "Budget must be a number")
		case budget.LessThan(MinBudget):
			fe.Add("budget", "Budget must be at least ₱100")
		default:
			req.Budget = budget
		}
	}
	if strings.TrimSpace(f.Deadline) != "" {
		deadline, err := models.ParseDate(f.Deadline)
		switch {
		case err != nil:
			fe.Add("deadline", "Deadline must be a valid date")
		case deadline.Before(v.Tomorrow()):
			fe.Add("deadline", "Deadline must be at least one day in the future")
		default:
			req.Deadline = deadline
		}
	}
	if strings.TrimSpace(f.Category) != "" {
		cat, ok := cats.Normalize(f.Category)
		if !ok {
			fe.Add("category", "Please select a valid category")
		}
		req.Category = cat
	}
	if err := fe.Err(); err != nil {
		return services.JobRequest{}, err
	}
	return req, nil
}

type ProposalForm struct {
	CoverLetter    string `form:"coverLetter" validate:"required"`
	ProposedAmount string `form:"proposedAmount" validate:"required"`
	EstimatedDays  string `form:"estimatedDays" validate:"required"`
	PortfolioURL   string `form:"portfolioUrl" validate:"omitempty,url"`
}

func (v *Validator) Proposal(f ProposalForm) (services.ProposalRequest, error) {
	f.CoverLetter = strings.TrimSpace(f.CoverLetter)
	f.PortfolioURL = strings.TrimSpace(f.PortfolioURL)
	fe := v.check(f, map[string]string{
		"coverLetter":  "Cover letter is required",
		"portfolioUrl": "Portfolio link must be a valid URL",
	})

	req := services.ProposalRequest{CoverLetter: f.CoverLetter, PortfolioURL: f.PortfolioURL}
	if s := strings.TrimSpace(f.ProposedAmount); s != "" {
		amt, err := decimal.NewFromString(s)
		switch {
		case err != nil:
			fe.Add("proposedAmount", "Proposed amount must be a number")
		case amt.LessThan(MinProposal):
			fe.Add("proposedAmount", "Proposed amount must be at least ₱100")
		default:
			req.ProposedAmount = amt
		}
	}
	if s := strings.TrimSpace(f.EstimatedDays); s != "" {
		days, err := strconv.Atoi(s)
		if err != nil || days < 1 {
			fe.Add("estimatedDays", "Estimated days must be at least 1")
		}
		req.EstimatedDays = days
	}
	if err := fe.Err(); err != nil {
		return services.ProposalRequest{}, err
	}
	return req, nil
}

type PaymentForm struct {
	JobID          int64  `form:"jobId" validate:"required"`
	Amount         string `form:"amount" validate:"required"`
	Method         string `form:"method" validate:"required"`
	AccountDetails string `form:"accountDetails" validate:"required"`
}

// Payment validates the escrow checkout form and returns the mock charge and
// the escrow request built from it.
func (v *Validator) Payment(f PaymentForm) (services.MockPaymentRequest, services.EscrowRequest, error) {
	f.AccountDetails = strings.TrimSpace(f.AccountDetails)
	fe := v.check(f, map[string]string{
		"jobId":          "Job is required",
		"amount":         "Amount is required",
		"method":         "Please select a payment method",
		"accountDetails": "Account details are required",
	})

	var amt decimal.Decimal
	if s := strings.TrimSpace(f.Amount); s != "" {
		parsed, err := decimal.NewFromString(s)
		if err != nil || !parsed.IsPositive() {
			fe.Add("amount", "Amount must be greater than zero")
		}
		amt = parsed
	}
	var method models.PaymentMethod
	if strings.TrimSpace(f.Method) != "" {
		m, err := models.ParsePaymentMethod(f.Method)
		if err != nil || (m != models.MethodGCash && m != models.MethodPayPal) {
			fe.Add("method", "Please select GCash or PayPal")
		}
		method = m
	}
	if err := fe.Err(); err != nil {
		return services.MockPaymentRequest{}, services.EscrowRequest{}, err
	}
	return services.MockPaymentRequest{Method: method, AccountDetails: f.AccountDetails, Amount: amt},
		services.EscrowRequest{JobID: f.JobID, Amount: amt, Method: method},
		nil
}

type ProfileForm struct {
	FirstName string `form:"firstName" validate:"required"`
	LastName  string `form:"lastName" validate:"required"`
	Phone     string `form:"phone"`
	Bio       string `form:"bio"`
	Skills    string `form:"skills"`
}

func (v *Validator) Profile(f ProfileForm) (services.ProfileUpdate, error) {
	f.FirstName = strings.TrimSpace(f.FirstName)
	f.LastName = strings.TrimSpace(f.LastName)
	fe := v.check(f, map[string]string{
		"firstName": "Please fill in first and last name",
		"lastName":  "Please fill in first and last name",
	})
	if err := fe.Err(); err != nil {
		return services.ProfileUpdate{}, err
	}
	return services.ProfileUpdate{
		FirstName: f.FirstName,
		LastName:  f.LastName,
		Phone:     strings.TrimSpace(f.Phone),
		Bio:       strings.TrimSpace(f.Bio),
		Skills:    strings.TrimSpace(f.Skills),
	}, nil
}
