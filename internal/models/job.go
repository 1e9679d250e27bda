package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type JobStatus string

const (
	JobStatusOpen       JobStatus = "OPEN"
	JobStatusInProgress JobStatus = "IN_PROGRESS"
	JobStatusCompleted  JobStatus = "COMPLETED"
	JobStatusCancelled  JobStatus = "CANCELLED"
)

func (s JobStatus) Label() string {
	switch s {
	case JobStatusOpen:
		return "Open"
	case JobStatusInProgress:
		return "In Progress"
	case JobStatusCompleted:
		return "Completed"
	case JobStatusCancelled:
		return "Cancelled"
	}
	return string(s)
}

// CSSClass maps the status to the badge class, e.g. "status-in-progress".
func (s JobStatus) CSSClass() string {
	return "status-" + strings.ReplaceAll(strings.ToLower(string(s)), "_", "-")
}

func (s *JobStatus) UnmarshalText(b []byte) error {
	*s = JobStatus(strings.ToUpper(strings.TrimSpace(string(b))))
	return nil
}

type Job struct {
	ID             int64           `json:"id" yaml:"id"`
	Title          string          `json:"title" yaml:"title"`
	Description    string          `json:"description" yaml:"description"`
	Budget         decimal.Decimal `json:"budget" yaml:"budget"`
	Deadline       Date            `json:"deadline" yaml:"deadline"`
	Category       Category        `json:"category" yaml:"category"`
	ClientID       int64           `json:"clientId" yaml:"clientId"`
	ClientName     string          `json:"clientName" yaml:"clientName"`
	Status         JobStatus       `json:"status" yaml:"status"`
	ProposalsCount int             `json:"proposalsCount" yaml:"proposalsCount"`
	Skills         string          `json:"skills,omitempty" yaml:"skills"`
	CreatedAt      Date            `json:"createdAt" yaml:"createdAt"`
}

// SkillList splits the comma separated skills field.
func (j Job) SkillList() []string {
	var out []string
	for _, s := range strings.Split(j.Skills, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func (j Job) IsOpen() bool { return j.Status == JobStatusOpen }

type ProposalStatus string

const (
	ProposalPending  ProposalStatus = "PENDING"
	ProposalAccepted ProposalStatus = "ACCEPTED"
	ProposalRejected ProposalStatus = "REJECTED"
)

func (s ProposalStatus) CSSClass() string {
	return "status-" + strings.ToLower(string(s))
}

func (s *ProposalStatus) UnmarshalText(b []byte) error {
	*s = ProposalStatus(strings.ToUpper(strings.TrimSpace(string(b))))
	return nil
}

type Proposal struct {
	ID             int64           `json:"id"`
	JobID          int64           `json:"jobId"`
	StudentID      int64           `json:"studentId"`
	StudentName    string          `json:"studentName"`
	CoverLetter    string          `json:"coverLetter"`
	ProposedAmount decimal.Decimal `json:"proposedAmount"`
	EstimatedDays  int             `json:"estimatedDays"`
	PortfolioURL   string          `json:"portfolioUrl,omitempty"`
	Status         ProposalStatus  `json:"status"`
	SubmittedAt    time.Time       `json:"submittedAt"`
}

// Freelancer is the public listing of a student.
type Freelancer struct {
	ID            int64           `json:"id" yaml:"id"`
	FirstName     string          `json:"firstName" yaml:"firstName"`
	LastName      string          `json:"lastName" yaml:"lastName"`
	Email         string          `json:"email" yaml:"email"`
	Title         string          `json:"title,omitempty" yaml:"title"`
	Skills        string          `json:"skills" yaml:"skills"`
	Rating        float64         `json:"rating" yaml:"rating"`
	HourlyRate    decimal.Decimal `json:"hourlyRate" yaml:"hourlyRate"`
	CompletedJobs int             `json:"completedJobs" yaml:"completedJobs"`
	Bio           string          `json:"bio,omitempty" yaml:"bio"`
}

func (f Freelancer) FullName() string {
	return strings.TrimSpace(f.FirstName + " " + f.LastName)
}

func (f Freelancer) Initials() string {
	return initial(f.FirstName) + initial(f.LastName)
}
