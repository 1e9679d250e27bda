package router

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/uep-freelance/freelance_web/internal/apperr"
	"github.com/uep-freelance/freelance_web/internal/listing"
	"github.com/uep-freelance/freelance_web/internal/metrics"
	"github.com/uep-freelance/freelance_web/internal/models"
	"github.com/uep-freelance/freelance_web/internal/services"
	"github.com/uep-freelance/freelance_web/internal/ui"
	"github.com/uep-freelance/freelance_web/internal/view"
)

const activityLimit = 5

// Query carries the jobs page filter controls.
type Query struct {
	Search   string
	Category string
	Sort     string
}

type Router struct {
	backend     services.Backend
	log         *zap.Logger
	rec         *metrics.Recorder
	tracker     *Tracker
	emailDomain string
	alertTTL    time.Duration
}

func New(backend services.Backend, log *zap.Logger, rec *metrics.Recorder, emailDomain string, alertTTL time.Duration) *Router {
	if alertTTL <= 0 {
		alertTTL = ui.DefaultAlertTTL
	}
	return &Router{
		backend:     backend,
		log:         log,
		rec:         rec,
		tracker:     NewTracker(),
		emailDomain: emailDomain,
		alertTTL:    alertTTL,
	}
}

// Begin starts a navigation for the session, cancelling the one in flight.
func (r *Router) Begin(ctx context.Context, sessionID string) (context.Context, func()) {
	return r.tracker.Begin(ctx, sessionID)
}

// Notify queues an alert on the session state.
func (r *Router) Notify(st *State, kind ui.AlertKind, msg string) {
	r.notify(st, kind, msg)
}

func (r *Router) notify(st *State, kind ui.AlertKind, msg string) {
	st.UI.Alerts.Push(kind, msg, st.Now)
	r.rec.CountAlert(string(kind))
}

// Fail logs err and queues its user facing message. Cancellations are
// dropped silently.
func (r *Router) Fail(st *State, op string, err error) {
	if apperr.IsCanceled(err) {
		return
	}
	r.log.Warn("request failed", zap.String("op", op), zap.Error(err))
	r.notify(st, ui.AlertError, apperr.Message(err))
}

// Navigate gates target and renders it when allowed. A prompted or
// redirected transition returns a nil document; the caller shows tr.Page.
func (r *Router) Navigate(ctx context.Context, sessionID string, st *State, target Page, q Query) (Transition, *view.Document, error) {
	tr := r.Resolve(st, target)
	if tr.Outcome != Allowed {
		return tr, nil, nil
	}

	ctx, done := r.Begin(ctx, sessionID)
	defer done()
	doc, err := r.Render(ctx, st, tr.Page, q)
	return tr, doc, err
}

// Render builds the static shell, fetches the page data and patches the
// shell with it. It returns the context error when the navigation was
// superseded; st is then left without the stale page's effects.
func (r *Router) Render(ctx context.Context, st *State, page Page, q Query) (*view.Document, error) {
	if !Permits(st.User, page) {
		page = Home
	}
	start := time.Now()
	defer func() { r.rec.ObserveRender(string(page), time.Since(start)) }()

	doc := r.shell(st, page)

	main, err := r.fetch(ctx, st, page, q)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if err != nil {
		r.Fail(st, "render "+string(page), err)
		doc.Failed = true
	} else {
		doc.Main = main
	}

	if err := r.populateModals(ctx, st, doc); err != nil {
		return nil, err
	}
	doc.Alerts = view.Alerts(&st.UI.Alerts, st.Now, r.alertTTL)
	doc.AlertTTLMS = r.alertTTL.Milliseconds()
	doc.ScrollLocked = st.UI.Modals.ScrollLocked()
	st.Current = page
	return doc, nil
}

func (r *Router) shell(st *State, page Page) *view.Document {
	return &view.Document{
		Title: page.Title(),
		Page:  string(page),
		Mode:  string(r.backend.Mode()),
		Nav:   view.NavFor(st.User, string(page)),
		Main:  &view.Placeholder{Heading: page.Title(), Message: "Loading..."},
	}
}

func (r *Router) fetch(ctx context.Context, st *State, page Page, q Query) (any, error) {
	cats := r.backend.Categories()
	switch page {
	case Home:
		jobs, err := r.backend.ListJobs(ctx, services.JobFilter{Status: models.JobStatusOpen})
		if err != nil {
			return nil, err
		}
		fl, err := r.backend.ListFreelancers(ctx)
		if err != nil {
			return nil, err
		}
		return view.Home(st.User, jobs, len(fl), cats), nil

	case Jobs:
		f := listing.Filter{Search: q.Search, Status: models.JobStatusOpen, Sort: listing.ParseSort(q.Sort)}
		if c, ok := cats.Normalize(q.Category); ok {
			f.Category = c
		}
		jobs, err := r.backend.ListJobs(ctx, services.JobFilter{Category: f.Category, Search: f.Search, Status: f.Status})
		if err != nil {
			return nil, err
		}
		return view.Jobs(st.User, jobs, f, cats), nil

	case Freelancers:
		fl, err := r.backend.ListFreelancers(ctx)
		if err != nil {
			return nil, err
		}
		return view.Freelancers(fl), nil

	case PostJob:
		return view.PostJob(cats, st.Now), nil

	case Dashboard:
		return r.dashboard(ctx, st)

	case AdminDashboard:
		return r.admin(ctx, st)

	case MyJobs:
		jobs, err := r.backend.MyJobs(ctx, st.Token)
		if err != nil {
			return nil, err
		}
		payments, err := r.payments(ctx, st, jobs)
		if err != nil {
			return nil, err
		}
		return view.MyJobs(st.User, jobs, payments, cats), nil

	case MyProposals:
		props, err := r.backend.MyProposals(ctx, st.Token)
		if errors.Is(err, apperr.ErrUnsupported) {
			return view.MyProposals(nil, nil), nil
		}
		if err != nil {
			return nil, err
		}
		titles, err := r.jobTitles(ctx)
		if err != nil {
			return nil, err
		}
		return view.MyProposals(props, titles), nil

	case Profile:
		return view.Profile(st.User), nil

	case Messages:
		return &view.MessagesPage{}, nil

	case Settings:
		return &view.SettingsPage{Email: st.User.Email, Mode: modeLabel(r.backend.Mode())}, nil
	}
	return nil, fmt.Errorf("unknown page %q", page)
}

func modeLabel(m services.Mode) string {
	if m == services.ModeDemo {
		return "Demo data (stored locally)"
	}
	return "Live server"
}

func (r *Router) dashboard(ctx context.Context, st *State) (any, error) {
	stats, err := r.backend.Dashboard(ctx, st.Token)
	if err != nil {
		return nil, err
	}

	var activity []view.ActivityItem
	if st.User.IsStudent() {
		props, err := r.backend.MyProposals(ctx, st.Token)
		switch {
		case errors.Is(err, apperr.ErrUnsupported):
		case err != nil:
			return nil, err
		default:
			titles, err := r.jobTitles(ctx)
			if err != nil {
				return nil, err
			}
			activity = view.ProposalActivity(props, titles, activityLimit)
		}
	} else {
		jobs, err := r.backend.MyJobs(ctx, st.Token)
		if err != nil {
			return nil, err
		}
		activity = view.JobActivity(jobs, activityLimit)
	}
	return view.Dashboard(st.User, stats, activity), nil
}

func (r *Router) admin(ctx context.Context, st *State) (any, error) {
	jobs, err := r.backend.ListJobs(ctx, services.JobFilter{})
	if err != nil {
		return nil, err
	}
	users, err := r.backend.ListUsers(ctx, st.Token)
	if err != nil && !errors.Is(err, apperr.ErrUnsupported) {
		return nil, err
	}
	stats, err := r.backend.Dashboard(ctx, st.Token)
	if err != nil {
		return nil, err
	}
	return view.Admin(users, jobs, stats.Money, r.backend.Categories()), nil
}

func (r *Router) jobTitles(ctx context.Context) (map[int64]string, error) {
	jobs, err := r.backend.ListJobs(ctx, services.JobFilter{})
	if err != nil {
		return nil, err
	}
	out := make(map[int64]string, len(jobs))
	for _, j := range jobs {
		out[j.ID] = j.Title
	}
	return out, nil
}

// payments loads the remembered escrow payment of each listed job. A payment
// the server no longer knows is forgotten and the job listed without one.
func (r *Router) payments(ctx context.Context, st *State, jobs []models.Job) (map[int64]*models.Payment, error) {
	out := make(map[int64]*models.Payment)
	for _, j := range jobs {
		id, ok := st.Payments[j.ID]
		if !ok {
			continue
		}
		p, err := r.backend.GetPayment(ctx, st.Token, id)
		if apperr.IsNotFound(err) {
			r.log.Info("forgetting unknown payment", zap.Int64("job", j.ID), zap.Int64("payment", id))
			delete(st.Payments, j.ID)
			st.Forgotten = append(st.Forgotten, j.ID)
			continue
		}
		if err != nil {
			return nil, err
		}
		out[j.ID] = p
	}
	return out, nil
}

// populateModals fills every open modal. A modal whose data cannot be loaded
// is closed with an error alert.
func (r *Router) populateModals(ctx context.Context, st *State, doc *view.Document) error {
	open := append([]ui.Modal(nil), st.UI.Modals.Open...)
	for _, m := range open {
		data, err := r.modalData(ctx, st, m)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			r.Fail(st, "modal "+string(m.Name), err)
			st.UI.Modals.Hide(m.Name)
			continue
		}
		doc.Modals = append(doc.Modals, view.ModalView{Name: string(m.Name), Data: data})
	}
	if n := len(doc.Modals); n > 0 {
		doc.Modals[n-1].Focused = true
	}
	return nil
}

var errMissingJob = &apperr.RequestError{Status: 404, Message: "Job not found"}

func (r *Router) modalData(ctx context.Context, st *State, m ui.Modal) (any, error) {
	switch m.Name {
	case ui.LoginModal:
		return &view.LoginModal{Next: m.Args["next"], Demo: r.backend.Mode() == services.ModeDemo}, nil
	case ui.RegisterModal:
		return view.NewRegisterModal(r.emailDomain), nil
	}

	id, err := strconv.ParseInt(m.Args["jobId"], 10, 64)
	if err != nil {
		return nil, errMissingJob
	}
	job, err := r.backend.GetJob(ctx, id)
	if err != nil {
		return nil, err
	}

	switch m.Name {
	case ui.JobModal:
		return view.NewJobModal(st.User, job, r.backend.Categories()), nil
	case ui.ProposalModal:
		if !st.User.IsStudent() {
			return nil, &apperr.RequestError{Status: 403, Message: "Only students can submit proposals"}
		}
		return view.NewProposalModal(job), nil
	case ui.JobProposalsModal:
		props, err := r.backend.JobProposals(ctx, st.Token, job.ID)
		if err != nil {
			return nil, err
		}
		return view.NewJobProposalsModal(job, props), nil
	case ui.PaymentModal:
		return view.NewPaymentModal(job, m.Args["amount"]), nil
	}
	return nil, fmt.Errorf("unknown modal %q", m.Name)
}
