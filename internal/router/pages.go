// Package router gates navigation by login and role and drives the
// shell, fetch, patch render of each page.
package router

import (
	"time"

	"github.com/uep-freelance/freelance_web/internal/models"
	"github.com/uep-freelance/freelance_web/internal/ui"
)

type Page string

const (
	Home           Page = "home"
	Jobs           Page = "jobs"
	PostJob        Page = "post-job"
	Dashboard      Page = "dashboard"
	AdminDashboard Page = "admin-dashboard"
	MyJobs         Page = "my-jobs"
	MyProposals    Page = "my-proposals"
	Profile        Page = "profile"
	Messages       Page = "messages"
	Settings       Page = "settings"
	Freelancers    Page = "freelancers"
)

var Pages = []Page{Home, Jobs, PostJob, Dashboard, AdminDashboard, MyJobs, MyProposals, Profile, Messages, Settings, Freelancers}

var titles = map[Page]string{
	Home:           "Home",
	Jobs:           "Find Jobs",
	PostJob:        "Post a Job",
	Dashboard:      "Dashboard",
	AdminDashboard: "Admin Dashboard",
	MyJobs:         "My Jobs",
	MyProposals:    "My Proposals",
	Profile:        "Profile",
	Messages:       "Messages",
	Settings:       "Settings",
	Freelancers:    "Find Talent",
}

// ParsePage maps unknown names to Home.
func ParsePage(s string) Page {
	p := Page(s)
	if _, ok := titles[p]; ok {
		return p
	}
	return Home
}

func (p Page) Title() string { return titles[p] }

type Outcome string

const (
	Allowed       Outcome = "allowed"
	PromptedLogin Outcome = "prompted-login"
	Redirected    Outcome = "redirected"
)

// State is one session's application state. Resolve and Render mutate it;
// the caller persists it afterwards.
type State struct {
	User    *models.User
	Token   string
	Current Page
	UI      *ui.State
	// Payments maps job id to the escrow payment created for it.
	Payments map[int64]int64
	// Forgotten lists jobs whose remembered payment the server no longer
	// knows. Render drops them from Payments; the caller forgets them too.
	Forgotten []int64
	Now       time.Time
}

type Transition struct {
	Requested Page
	Page      Page
	Outcome   Outcome
}

type gate struct {
	login    bool
	allow    func(*models.User) bool
	denied   string
	fallback Page
}

var gates = map[Page]gate{
	PostJob: {
		login:    true,
		allow:    func(u *models.User) bool { return !u.IsStudent() },
		denied:   "Only clients can post jobs",
		fallback: Dashboard,
	},
	AdminDashboard: {
		allow:    (*models.User).IsAdmin,
		denied:   "Admin access required",
		fallback: Home,
	},
	MyProposals: {
		login:    true,
		allow:    (*models.User).IsStudent,
		denied:   "Only students can view proposals",
		fallback: Dashboard,
	},
	Dashboard: {login: true},
	MyJobs:    {login: true},
	Profile:   {login: true},
	Messages:  {login: true},
	Settings:  {login: true},
}

// maxRedirects bounds the fallback chain.
const maxRedirects = 3

// Permits reports whether u may view p without any redirect.
func Permits(u *models.User, p Page) bool {
	g := gates[p]
	if g.login && u == nil {
		return false
	}
	return g.allow == nil || g.allow(u)
}

// Resolve gates a navigation to target. A missing login keeps the current
// page and opens the login modal; a role failure pushes an error alert and
// follows the fallback.
func (r *Router) Resolve(st *State, target Page) Transition {
	tr := Transition{Requested: target, Page: target, Outcome: Allowed}
	for i := 0; i < maxRedirects; i++ {
		g, ok := gates[tr.Page]
		if !ok {
			break
		}
		if g.login && st.User == nil {
			st.UI.Modals.Show(ui.LoginModal, map[string]string{"next": string(target)})
			stay := st.Current
			if stay == "" || !Permits(nil, stay) {
				stay = Home
			}
			tr.Page, tr.Outcome = stay, PromptedLogin
			break
		}
		if g.allow != nil && !g.allow(st.User) {
			r.notify(st, ui.AlertError, g.denied)
			tr.Page, tr.Outcome = g.fallback, Redirected
			continue
		}
		break
	}
	if !Permits(st.User, tr.Page) {
		tr.Page = Home
	}
	r.rec.ObserveNavigation(string(target), string(tr.Outcome))
	return tr
}
