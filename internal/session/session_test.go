package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/uep-freelance/freelance_web/internal/models"
	"github.com/uep-freelance/freelance_web/internal/services"
	"github.com/uep-freelance/freelance_web/internal/services/demo"
	"github.com/uep-freelance/freelance_web/internal/services/wallet"
	"github.com/uep-freelance/freelance_web/internal/storage"
	"github.com/uep-freelance/freelance_web/internal/ui"
)

func newManager(t *testing.T) (*Manager, *storage.Memory) {
	t.Helper()
	store := storage.NewMemory()
	b, err := demo.New(demo.Config{Secret: "test"}, store, wallet.NewWalletService(), zap.NewNop())
	require.NoError(t, err)
	return NewManager(store, b, time.Hour), store
}

func TestLogin(t *testing.T) {
	t.Run("Should persist token and user and notify", func(t *testing.T) {
		m, store := newManager(t)
		var seen []*models.User
		m.OnChange(func(_ context.Context, sid string, u *models.User) {
			assert.Equal(t, "s1", sid)
			seen = append(seen, u)
		})
		h := m.For("s1")

		u, err := h.Login(t.Context(), services.Credentials{Email: "admin@uep.edu.ph", Password: "password123"})
		require.NoError(t, err)
		assert.True(t, u.IsAdmin())
		assert.True(t, h.IsAdmin(t.Context()))
		assert.False(t, h.IsStudent(t.Context()))

		tok, err := store.Get(t.Context(), "sess:s1:"+KeyToken)
		require.NoError(t, err)
		assert.NotEmpty(t, tok)
		require.Len(t, seen, 1)
		assert.Equal(t, "Admin", seen[0].FirstName)
	})

	t.Run("Should write nothing on failure", func(t *testing.T) {
		m, store := newManager(t)
		called := false
		m.OnChange(func(context.Context, string, *models.User) { called = true })
		h := m.For("s1")

		_, err := h.Login(t.Context(), services.Credentials{Email: "admin@uep.edu.ph", Password: "wrong"})
		require.Error(t, err)
		_, err = store.Get(t.Context(), "sess:s1:"+KeyToken)
		assert.ErrorIs(t, err, storage.ErrNotFound)
		_, err = store.Get(t.Context(), "sess:s1:"+KeyUser)
		assert.ErrorIs(t, err, storage.ErrNotFound)
		assert.False(t, called)
	})
}

func TestLogout(t *testing.T) {
	t.Run("Should clear the persisted token and user record", func(t *testing.T) {
		m, store := newManager(t)
		last := &models.User{}
		m.OnChange(func(_ context.Context, _ string, u *models.User) { last = u })
		h := m.For("s1")

		_, err := h.Login(t.Context(), services.Credentials{Email: "client@uep.edu.ph", Password: "password123"})
		require.NoError(t, err)
		require.NoError(t, h.RememberPayment(t.Context(), 1, 9))
		require.NoError(t, h.Logout(t.Context()))

		for _, k := range []string{KeyToken, KeyUser, KeyPayments} {
			_, err := store.Get(t.Context(), "sess:s1:"+k)
			assert.ErrorIs(t, err, storage.ErrNotFound, k)
		}
		u, err := h.CurrentUser(t.Context())
		require.NoError(t, err)
		assert.Nil(t, u)
		tok, _ := h.Token(t.Context())
		assert.Empty(t, tok)
		assert.Nil(t, last)
	})
}

func TestSessionsAreIsolated(t *testing.T) {
	m, _ := newManager(t)
	_, err := m.For("a").Login(t.Context(), services.Credentials{Email: "student@uep.edu.ph", Password: "password123"})
	require.NoError(t, err)

	u, err := m.For("b").CurrentUser(t.Context())
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestUIAndPageState(t *testing.T) {
	m, _ := newManager(t)
	h := m.For("s1")
	ctx := t.Context()

	st, err := h.UI(ctx)
	require.NoError(t, err)
	assert.Empty(t, st.Alerts.Items)

	st.Alerts.Push(ui.AlertInfo, "hello", time.Now())
	st.Modals.Show(ui.LoginModal, nil)
	require.NoError(t, h.SaveUI(ctx, st))

	got, err := h.UI(ctx)
	require.NoError(t, err)
	require.Len(t, got.Alerts.Items, 1)
	assert.True(t, got.Modals.IsOpen(ui.LoginModal))

	assert.Empty(t, h.Page(ctx))
	require.NoError(t, h.SetPage(ctx, "jobs"))
	assert.Equal(t, "jobs", h.Page(ctx))

	require.NoError(t, h.RememberPayment(ctx, 3, 7))
	require.NoError(t, h.RememberPayment(ctx, 4, 8))
	require.NoError(t, h.ForgetPayment(ctx, 3))
	payments, err := h.Payments(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[int64]int64{4: 8}, payments)
}

func TestSaveUser(t *testing.T) {
	m, _ := newManager(t)
	h := m.For("s1")
	u, err := h.Login(t.Context(), services.Credentials{Email: "student@uep.edu.ph", Password: "password123"})
	require.NoError(t, err)

	u.FirstName = "Mia"
	require.NoError(t, h.SaveUser(t.Context(), *u))
	got, err := h.CurrentUser(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "Mia", got.FirstName)
	assert.True(t, h.IsStudent(t.Context()))
	assert.False(t, h.IsClient(t.Context()))
}
