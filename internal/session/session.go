// Package session is the per-browser auth state holder. Everything is kept
// in storage under fixed keys, namespaced by the session cookie id.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/uep-freelance/freelance_web/internal/models"
	"github.com/uep-freelance/freelance_web/internal/services"
	"github.com/uep-freelance/freelance_web/internal/storage"
	"github.com/uep-freelance/freelance_web/internal/ui"
)

const (
	KeyToken    = "authToken"
	KeyUser     = "uep_user"
	KeyUI       = "uep_ui"
	KeyPage     = "uep_page"
	KeyPayments = "uep_payments"
)

// ChangeFunc runs after every login, logout and profile save. u is nil after
// logout.
type ChangeFunc func(ctx context.Context, sessionID string, u *models.User)

type Manager struct {
	store   storage.Storage
	backend services.Backend
	ttl     time.Duration

	mu       sync.RWMutex
	onChange []ChangeFunc
}

func NewManager(store storage.Storage, backend services.Backend, ttl time.Duration) *Manager {
	return &Manager{store: store, backend: backend, ttl: ttl}
}

func (m *Manager) OnChange(fn ChangeFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onChange = append(m.onChange, fn)
}

func (m *Manager) Backend() services.Backend { return m.backend }

// For returns the holder of one browser session.
func (m *Manager) For(sessionID string) *Holder {
	return &Holder{m: m, id: sessionID, store: storage.Scoped(m.store, sessionID)}
}

type Holder struct {
	m     *Manager
	id    string
	store storage.Storage
}

func (h *Holder) ID() string { return h.id }

func (h *Holder) notify(ctx context.Context, u *models.User) {
	h.m.mu.RLock()
	fns := append([]ChangeFunc(nil), h.m.onChange...)
	h.m.mu.RUnlock()
	for _, fn := range fns {
		fn(ctx, h.id, u)
	}
}

// CurrentUser returns nil when nobody is logged in.
func (h *Holder) CurrentUser(ctx context.Context) (*models.User, error) {
	var u models.User
	if err := storage.GetJSON(ctx, h.store, KeyUser, &u); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (h *Holder) Token(ctx context.Context) (string, error) {
	tok, err := h.store.Get(ctx, KeyToken)
	if errors.Is(err, storage.ErrNotFound) {
		return "", nil
	}
	return tok, err
}

// Login stores the token and user only when the backend accepts the
// credentials; on failure nothing is written.
func (h *Holder) Login(ctx context.Context, in services.Credentials) (*models.User, error) {
	res, err := h.m.backend.Login(ctx, in)
	if err != nil {
		return nil, err
	}
	if err := h.Adopt(ctx, res); err != nil {
		return nil, err
	}
	return &res.User, nil
}

// Adopt stores an auth result obtained elsewhere, e.g. from registration.
func (h *Holder) Adopt(ctx context.Context, res *services.AuthResult) error {
	if err := h.store.Set(ctx, KeyToken, res.Token, h.m.ttl); err != nil {
		return fmt.Errorf("store token: %w", err)
	}
	if err := storage.SetJSON(ctx, h.store, KeyUser, res.User, h.m.ttl); err != nil {
		_ = h.store.Delete(ctx, KeyToken)
		return fmt.Errorf("store user: %w", err)
	}
	u := res.User
	h.notify(ctx, &u)
	return nil
}

// SaveUser replaces the stored user record after a profile edit.
func (h *Holder) SaveUser(ctx context.Context, u models.User) error {
	if err := storage.SetJSON(ctx, h.store, KeyUser, u, h.m.ttl); err != nil {
		return fmt.Errorf("store user: %w", err)
	}
	h.notify(ctx, &u)
	return nil
}

func (h *Holder) Logout(ctx context.Context) error {
	if err := h.store.Delete(ctx, KeyToken, KeyUser, KeyPayments); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	h.notify(ctx, nil)
	return nil
}

func (h *Holder) IsStudent(ctx context.Context) bool { return h.user(ctx).IsStudent() }
func (h *Holder) IsClient(ctx context.Context) bool  { return h.user(ctx).IsClient() }
func (h *Holder) IsAdmin(ctx context.Context) bool   { return h.user(ctx).IsAdmin() }

func (h *Holder) user(ctx context.Context) *models.User {
	u, _ := h.CurrentUser(ctx)
	return u
}

func (h *Holder) UI(ctx context.Context) (ui.State, error) {
	var st ui.State
	if err := storage.GetJSON(ctx, h.store, KeyUI, &st); err != nil && !errors.Is(err, storage.ErrNotFound) {
		return ui.State{}, err
	}
	return st, nil
}

func (h *Holder) SaveUI(ctx context.Context, st ui.State) error {
	return storage.SetJSON(ctx, h.store, KeyUI, st, h.m.ttl)
}

// Page is the last page rendered for this session, "" before the first.
func (h *Holder) Page(ctx context.Context) string {
	p, err := h.store.Get(ctx, KeyPage)
	if err != nil {
		return ""
	}
	return p
}

func (h *Holder) SetPage(ctx context.Context, page string) error {
	return h.store.Set(ctx, KeyPage, page, h.m.ttl)
}

// Payments maps job ids to the escrow payment funded from this session.
func (h *Holder) Payments(ctx context.Context) (map[int64]int64, error) {
	out := map[int64]int64{}
	if err := storage.GetJSON(ctx, h.store, KeyPayments, &out); err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}
	return out, nil
}

func (h *Holder) RememberPayment(ctx context.Context, jobID, paymentID int64) error {
	all, err := h.Payments(ctx)
	if err != nil {
		return err
	}
	all[jobID] = paymentID
	return h.savePayments(ctx, all)
}

func (h *Holder) ForgetPayment(ctx context.Context, jobID int64) error {
	all, err := h.Payments(ctx)
	if err != nil {
		return err
	}
	delete(all, jobID)
	return h.savePayments(ctx, all)
}

func (h *Holder) savePayments(ctx context.Context, all map[int64]int64) error {
	return storage.SetJSON(ctx, h.store, KeyPayments, all, h.m.ttl)
}
