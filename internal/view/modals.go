package view

import (
	"github.com/uep-freelance/freelance_web/internal/models"
	"github.com/uep-freelance/freelance_web/internal/utils"
)

type LoginModal struct {
	// Next is the page the user was heading to when prompted.
	Next string
	Demo bool
}

type RegisterModal struct {
	EmailDomain string
	Roles       []Option
}

func NewRegisterModal(domain string) *RegisterModal {
	return &RegisterModal{
		EmailDomain: domain,
		Roles: []Option{
			{Value: string(models.RoleStudent), Label: "Student (Find Work)", Selected: true},
			{Value: string(models.RoleClient), Label: "Client (Hire Talent)"},
		},
	}
}

type JobDetail struct {
	JobCard
	// FullDescription is untruncated.
	FullDescription string
}

type JobModal struct {
	Job        JobDetail
	CanPropose bool
	NeedsLogin bool
	IsOwner    bool
}

func NewJobModal(u *models.User, j *models.Job, cats models.CategorySet) *JobModal {
	return &JobModal{
		Job:        JobDetail{JobCard: NewJobCard(*j, cats), FullDescription: j.Description},
		CanPropose: u.IsStudent() && j.IsOpen(),
		NeedsLogin: u == nil && j.IsOpen(),
		IsOwner:    u != nil && (u.ID == j.ClientID || u.IsAdmin()),
	}
}

type ProposalModal struct {
	JobID         int64
	JobTitle      string
	Budget        string
	DefaultAmount string
	DefaultDays   int
}

func NewProposalModal(j *models.Job) *ProposalModal {
	return &ProposalModal{
		JobID:         j.ID,
		JobTitle:      j.Title,
		Budget:        utils.FormatPeso(j.Budget),
		DefaultAmount: j.Budget.StringFixed(0),
		DefaultDays:   14,
	}
}

type JobProposalsModal struct {
	JobID     int64
	JobTitle  string
	CanAccept bool
	Proposals []ProposalRow
}

func NewJobProposalsModal(j *models.Job, props []models.Proposal) *JobProposalsModal {
	m := &JobProposalsModal{JobID: j.ID, JobTitle: j.Title, CanAccept: j.IsOpen()}
	for _, p := range props {
		m.Proposals = append(m.Proposals, NewProposalRow(p, j.Title))
	}
	return m
}

type PaymentModal struct {
	JobID    int64
	JobTitle string
	Amount   string
	Display  string
	Methods  []Option
}

func NewPaymentModal(j *models.Job, amount string) *PaymentModal {
	m := &PaymentModal{JobID: j.ID, JobTitle: j.Title, Amount: j.Budget.StringFixed(2), Display: utils.FormatPeso(j.Budget)}
	if amount != "" {
		m.Amount = amount
	}
	for i, meth := range models.CheckoutMethods {
		m.Methods = append(m.Methods, Option{Value: string(meth), Label: meth.Label(), Selected: i == 0})
	}
	return m
}
