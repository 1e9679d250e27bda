// Package view turns application state and fetched data into a typed view
// tree and renders it through the Fiber html engine, which escapes every user
// supplied field.
package view

import (
	"time"

	"github.com/uep-freelance/freelance_web/internal/models"
	"github.com/uep-freelance/freelance_web/internal/ui"
)

// Document is one full page: the shell around Main plus overlays.
type Document struct {
	Title        string
	Page         string
	Mode         string
	Nav          Nav
	Alerts       []AlertView
	Modals       []ModalView
	ScrollLocked bool
	AlertTTLMS   int64
	Main         any
	// Failed is set when the data fetch failed and Main holds only the shell.
	Failed bool
}

type NavLink struct {
	Page   string
	Label  string
	Icon   string
	Active bool
}

type Nav struct {
	LoggedIn    bool
	UserName    string
	Initials    string
	ShowPostJob bool
	ShowAdmin   bool
	Active      string
	Links       []NavLink
	Menu        []NavLink
}

// NavFor computes the navigation affordances for u: the post-job link is
// hidden from students and the admin link shown to administrators only.
func NavFor(u *models.User, active string) Nav {
	n := Nav{
		LoggedIn:    u != nil,
		ShowPostJob: !u.IsStudent(),
		ShowAdmin:   u.IsAdmin(),
		Active:      active,
	}
	if u != nil {
		n.UserName = u.FirstName
		n.Initials = u.Initials()
	}

	links := []NavLink{
		{Page: "home", Label: "Home", Icon: "home"},
		{Page: "jobs", Label: "Find Jobs", Icon: "search"},
		{Page: "freelancers", Label: "Find Talent", Icon: "users"},
	}
	if n.ShowPostJob {
		links = append(links, NavLink{Page: "post-job", Label: "Post a Job", Icon: "plus-circle"})
	}
	n.Links = markActive(links, active)

	if u == nil {
		return n
	}
	menu := []NavLink{{Page: "dashboard", Label: "Dashboard", Icon: "tachometer-alt"}}
	if u.IsStudent() {
		menu = append(menu, NavLink{Page: "my-proposals", Label: "My Proposals", Icon: "file-alt"})
	} else {
		menu = append(menu, NavLink{Page: "my-jobs", Label: "My Jobs", Icon: "briefcase"})
	}
	menu = append(menu,
		NavLink{Page: "profile", Label: "Profile", Icon: "user"},
		NavLink{Page: "messages", Label: "Messages", Icon: "envelope"},
		NavLink{Page: "settings", Label: "Settings", Icon: "cog"},
	)
	if n.ShowAdmin {
		menu = append(menu, NavLink{Page: "admin-dashboard", Label: "Admin Dashboard", Icon: "user-shield"})
	}
	n.Menu = markActive(menu, active)
	return n
}

func markActive(links []NavLink, active string) []NavLink {
	for i := range links {
		links[i].Active = links[i].Page == active
	}
	return links
}

type AlertView struct {
	ID        int64
	Kind      string
	Icon      string
	Message   string
	// RemainingMS drives the client side auto-dismiss.
	RemainingMS int64
}

func Alerts(q *ui.Alerts, now time.Time, ttl time.Duration) []AlertView {
	vis := q.Visible(now, ttl)
	out := make([]AlertView, 0, len(vis))
	for _, a := range vis {
		out = append(out, AlertView{
			ID:          a.ID,
			Kind:        string(a.Kind),
			Icon:        a.Kind.Icon(),
			Message:     a.Message,
			RemainingMS: a.Remaining(now, ttl).Milliseconds(),
		})
	}
	return out
}

type ModalView struct {
	Name    string
	Focused bool
	Data    any
}

// Option is a <select> entry.
type Option struct {
	Value    string
	Label    string
	Selected bool
}
