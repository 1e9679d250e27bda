package view

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/uep-freelance/freelance_web/internal/listing"
	"github.com/uep-freelance/freelance_web/internal/models"
	"github.com/uep-freelance/freelance_web/internal/utils"
)

const (
	DescriptionLimit = 150
	DateFormat       = "Jan 2, 2006"
	FeaturedJobs     = 3
)

// Truncate cuts s to limit runes and appends an ellipsis when it did.
func Truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	r := []rune(s)
	return strings.TrimSpace(string(r[:limit])) + "..."
}

func formatDate(d models.Date) string {
	if d.IsZero() {
		return "No deadline"
	}
	return d.Format(DateFormat)
}

type JobCard struct {
	ID             int64
	Title          string
	Description    string
	Budget         string
	Category       string
	Deadline       string
	Posted         string
	ClientName     string
	Status         string
	StatusClass    string
	ProposalsCount int
	Skills         []string
	Open           bool
}

func NewJobCard(j models.Job, cats models.CategorySet) JobCard {
	return JobCard{
		ID:             j.ID,
		Title:          j.Title,
		Description:    Truncate(j.Description, DescriptionLimit),
		Budget:         utils.FormatPeso(j.Budget),
		Category:       cats.Label(j.Category),
		Deadline:       formatDate(j.Deadline),
		Posted:         formatDate(j.CreatedAt),
		ClientName:     j.ClientName,
		Status:         j.Status.Label(),
		StatusClass:    j.Status.CSSClass(),
		ProposalsCount: j.ProposalsCount,
		Skills:         j.SkillList(),
		Open:           j.IsOpen(),
	}
}

func jobCards(jobs []models.Job, cats models.CategorySet) []JobCard {
	out := make([]JobCard, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, NewJobCard(j, cats))
	}
	return out
}

// Placeholder is the static shell shown before data arrives or when the
// fetch failed.
type Placeholder struct {
	Heading string
	Message string
}

type HomePage struct {
	LoggedIn    bool
	Featured    []JobCard
	OpenJobs    int
	Freelancers int
}

func Home(u *models.User, jobs []models.Job, freelancers int, cats models.CategorySet) *HomePage {
	newest := listing.Apply(jobs, listing.Filter{Status: models.JobStatusOpen, Sort: listing.SortNewest})
	p := &HomePage{LoggedIn: u != nil, OpenJobs: len(newest), Freelancers: freelancers}
	if len(newest) > FeaturedJobs {
		newest = newest[:FeaturedJobs]
	}
	p.Featured = jobCards(newest, cats)
	return p
}

type JobsPage struct {
	Jobs       []JobCard
	Search     string
	Category   string
	Sort       string
	Categories []Option
	Sorts      []Option
	CanPropose bool
}

func Jobs(u *models.User, jobs []models.Job, f listing.Filter, cats models.CategorySet) *JobsPage {
	p := &JobsPage{
		Jobs:       jobCards(listing.Apply(jobs, f), cats),
		Search:     f.Search,
		Category:   string(f.Category),
		Sort:       string(f.Sort),
		CanPropose: u.IsStudent(),
	}
	p.Categories = append(p.Categories, Option{Value: "", Label: "All Categories", Selected: f.Category == ""})
	for _, c := range cats {
		p.Categories = append(p.Categories, Option{Value: string(c.Code), Label: c.Label, Selected: c.Code == f.Category})
	}
	for _, k := range listing.SortKeys {
		p.Sorts = append(p.Sorts, Option{Value: string(k), Label: k.Label(), Selected: k == f.Sort})
	}
	return p
}

type FreelancerCard struct {
	ID            int64
	Name          string
	Initials      string
	Title         string
	Rating        string
	CompletedJobs int
	Skills        []string
	Rate          string
	Bio           string
}

type FreelancersPage struct {
	Freelancers []FreelancerCard
}

func Freelancers(list []models.Freelancer) *FreelancersPage {
	p := &FreelancersPage{}
	for _, f := range list {
		title := f.Title
		if title == "" {
			title = "UEP Student Freelancer"
		}
		var skills []string
		for _, s := range strings.Split(f.Skills, ",") {
			if s = strings.TrimSpace(s); s != "" {
				skills = append(skills, s)
			}
		}
		p.Freelancers = append(p.Freelancers, FreelancerCard{
			ID:            f.ID,
			Name:          f.FullName(),
			Initials:      f.Initials(),
			Title:         title,
			Rating:        fmt.Sprintf("%.1f", f.Rating),
			CompletedJobs: f.CompletedJobs,
			Skills:        skills,
			Rate:          utils.FormatPeso(f.HourlyRate) + "/hr",
			Bio:           Truncate(f.Bio, DescriptionLimit),
		})
	}
	return p
}

type PostJobPage struct {
	Categories      []Option
	MinDeadline     string
	DefaultDeadline string
	MinBudget       int
}

func PostJob(cats models.CategorySet, now time.Time) *PostJobPage {
	p := &PostJobPage{
		MinDeadline:     now.AddDate(0, 0, 1).Format(models.DateLayout),
		DefaultDeadline: now.AddDate(0, 0, 30).Format(models.DateLayout),
		MinBudget:       100,
	}
	for _, c := range cats {
		p.Categories = append(p.Categories, Option{Value: string(c.Code), Label: c.Label})
	}
	return p
}

type StatCard struct {
	Label string
	Value string
	Icon  string
}

type ActivityItem struct {
	Icon    string
	Message string
	When    string
}

type Action struct {
	Page  string
	Label string
	Icon  string
}

type DashboardPage struct {
	FirstName string
	RoleLabel string
	Cards     []StatCard
	Activity  []ActivityItem
	Actions   []Action
}

// Dashboard builds the role specific stat cards.
func Dashboard(u *models.User, st *models.DashboardStats, activity []ActivityItem) *DashboardPage {
	if st == nil {
		st = &models.DashboardStats{}
	}
	p := &DashboardPage{FirstName: u.FirstName, RoleLabel: u.Role.Label(), Activity: activity}
	if u.IsStudent() {
		rating := st.Rating
		if rating == 0 {
			rating = u.Rating
		}
		p.Cards = []StatCard{
			{Label: "Active Proposals", Value: fmt.Sprint(st.Active), Icon: "file-alt"},
			{Label: "Total Earnings", Value: utils.FormatPeso(st.Money), Icon: "wallet"},
			{Label: "Rating", Value: fmt.Sprintf("%.1f", rating), Icon: "star"},
		}
		p.Actions = []Action{
			{Page: "jobs", Label: "Browse Jobs", Icon: "search"},
			{Page: "my-proposals", Label: "My Proposals", Icon: "file-alt"},
			{Page: "profile", Label: "Edit Profile", Icon: "user"},
		}
	} else {
		p.Cards = []StatCard{
			{Label: "Active Jobs", Value: fmt.Sprint(st.Active), Icon: "briefcase"},
			{Label: "Total Spent", Value: utils.FormatPeso(st.Money), Icon: "wallet"},
			{Label: "Jobs Posted", Value: fmt.Sprint(st.JobsPosted), Icon: "clipboard-list"},
		}
		p.Actions = []Action{
			{Page: "post-job", Label: "Post a Job", Icon: "plus-circle"},
			{Page: "my-jobs", Label: "My Jobs", Icon: "briefcase"},
			{Page: "freelancers", Label: "Find Talent", Icon: "users"},
		}
	}
	if len(p.Activity) == 0 {
		p.Activity = []ActivityItem{{Icon: "info-circle", Message: "Welcome to UEP Freelance!"}}
	}
	return p
}

// ProposalActivity lists the latest proposals first.
func ProposalActivity(props []models.Proposal, titles map[int64]string, limit int) []ActivityItem {
	var out []ActivityItem
	for i := len(props) - 1; i >= 0 && len(out) < limit; i-- {
		p := props[i]
		title := titles[p.JobID]
		if title == "" {
			title = fmt.Sprintf("job #%d", p.JobID)
		}
		item := ActivityItem{Icon: "paper-plane", Message: "Proposal submitted for " + title}
		switch p.Status {
		case models.ProposalAccepted:
			item = ActivityItem{Icon: "check-circle", Message: "Proposal accepted for " + title}
		case models.ProposalRejected:
			item = ActivityItem{Icon: "times-circle", Message: "Proposal declined for " + title}
		}
		if !p.SubmittedAt.IsZero() {
			item.When = p.SubmittedAt.Format(DateFormat)
		}
		out = append(out, item)
	}
	return out
}

// JobActivity summarizes the client's jobs, newest first.
func JobActivity(jobs []models.Job, limit int) []ActivityItem {
	sorted := listing.Apply(jobs, listing.Filter{Sort: listing.SortNewest})
	var out []ActivityItem
	for _, j := range sorted {
		if len(out) == limit {
			break
		}
		msg := fmt.Sprintf("%s: %d proposal(s)", j.Title, j.ProposalsCount)
		if j.Status != models.JobStatusOpen {
			msg = fmt.Sprintf("%s is %s", j.Title, strings.ToLower(j.Status.Label()))
		}
		out = append(out, ActivityItem{Icon: "briefcase", Message: msg, When: formatDate(j.CreatedAt)})
	}
	return out
}

type UserRow struct {
	Name   string
	Email  string
	Role   string
	Joined string
}

type AdminPage struct {
	TotalUsers     string
	ActiveJobs     int
	TotalJobs      int
	Revenue        string
	UsersAvailable bool
	Users          []UserRow
	Jobs           []JobCard
}

// Admin builds the overview. users is nil when the backend cannot list them.
func Admin(users []models.User, jobs []models.Job, revenue decimal.Decimal, cats models.CategorySet) *AdminPage {
	p := &AdminPage{
		TotalUsers:     "N/A",
		TotalJobs:      len(jobs),
		Revenue:        utils.FormatPesoShort(revenue),
		UsersAvailable: users != nil,
	}
	if users != nil {
		p.TotalUsers = fmt.Sprint(len(users))
	}
	for _, u := range users {
		p.Users = append(p.Users, UserRow{
			Name:   u.FullName(),
			Email:  u.Email,
			Role:   u.Role.Label(),
			Joined: formatDate(u.CreatedAt),
		})
	}
	for _, j := range jobs {
		if j.Status == models.JobStatusOpen || j.Status == models.JobStatusInProgress {
			p.ActiveJobs++
		}
	}
	p.Jobs = jobCards(listing.Apply(jobs, listing.Filter{Sort: listing.SortNewest}), cats)
	return p
}

type PaymentView struct {
	ID          int64
	Amount      string
	Method      string
	Status      string
	StatusClass string
	Held        bool
}

func NewPaymentView(p *models.Payment) *PaymentView {
	if p == nil {
		return nil
	}
	return &PaymentView{
		ID:          p.ID,
		Amount:      utils.FormatPeso(p.Amount),
		Method:      p.Method.Label(),
		Status:      p.Status.Label(),
		StatusClass: p.Status.CSSClass(),
		Held:        p.Held(),
	}
}

type MyJobRow struct {
	JobCard
	Payment *PaymentView
	// CanFund is set for in-progress jobs without a live payment.
	CanFund bool
}

type MyJobsPage struct {
	IsAdmin bool
	Jobs    []MyJobRow
}

func MyJobs(u *models.User, jobs []models.Job, payments map[int64]*models.Payment, cats models.CategorySet) *MyJobsPage {
	p := &MyJobsPage{IsAdmin: u.IsAdmin()}
	for _, j := range listing.Apply(jobs, listing.Filter{Sort: listing.SortNewest}) {
		pay := payments[j.ID]
		row := MyJobRow{JobCard: NewJobCard(j, cats), Payment: NewPaymentView(pay)}
		row.CanFund = j.Status == models.JobStatusInProgress && (pay == nil || pay.Status == models.PaymentFailed)
		p.Jobs = append(p.Jobs, row)
	}
	return p
}

type ProposalRow struct {
	ID            int64
	JobID         int64
	JobTitle      string
	StudentName   string
	CoverLetter   string
	Amount        string
	EstimatedDays int
	PortfolioURL  string
	Status        string
	StatusClass   string
	Submitted     string
	Pending       bool
}

func NewProposalRow(p models.Proposal, jobTitle string) ProposalRow {
	row := ProposalRow{
		ID:            p.ID,
		JobID:         p.JobID,
		JobTitle:      jobTitle,
		StudentName:   p.StudentName,
		CoverLetter:   p.CoverLetter,
		Amount:        utils.FormatPeso(p.ProposedAmount),
		EstimatedDays: p.EstimatedDays,
		PortfolioURL:  p.PortfolioURL,
		Status:        models.FormatCategory(string(p.Status)),
		StatusClass:   p.Status.CSSClass(),
		Pending:       p.Status == models.ProposalPending,
	}
	if !p.SubmittedAt.IsZero() {
		row.Submitted = p.SubmittedAt.Format(DateFormat)
	}
	return row
}

type MyProposalsPage struct {
	Supported bool
	Proposals []ProposalRow
}

// MyProposals lists newest first. props is nil when the backend cannot list
// them.
func MyProposals(props []models.Proposal, titles map[int64]string) *MyProposalsPage {
	p := &MyProposalsPage{Supported: props != nil}
	for i := len(props) - 1; i >= 0; i-- {
		p.Proposals = append(p.Proposals, NewProposalRow(props[i], titles[props[i].JobID]))
	}
	return p
}

type ProfilePage struct {
	FirstName  string
	LastName   string
	Email      string
	Phone      string
	Bio        string
	Skills     string
	Initials   string
	RoleLabel  string
	IsStudent  bool
	Rating     string
	MemberFrom string
}

func Profile(u *models.User) *ProfilePage {
	return &ProfilePage{
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Email:      u.Email,
		Phone:      u.Phone,
		Bio:        u.Bio,
		Skills:     u.Skills,
		Initials:   u.Initials(),
		RoleLabel:  u.Role.Label(),
		IsStudent:  u.IsStudent(),
		Rating:     fmt.Sprintf("%.1f", u.Rating),
		MemberFrom: formatDate(u.CreatedAt),
	}
}

type MessagesPage struct{}

type SettingsPage struct {
	Email string
	Mode  string
}
