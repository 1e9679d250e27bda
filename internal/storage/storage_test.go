package storage

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedis(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisFromClient(rdb), mr
}

func TestBackends(t *testing.T) {
	r, _ := newRedis(t)
	backends := map[string]Storage{
		"memory": NewMemory(),
		"redis":  r,
	}
	for name, s := range backends {
		t.Run("Should store and delete values with "+name, func(t *testing.T) {
			ctx := t.Context()
			_, err := s.Get(ctx, "missing")
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, s.Set(ctx, "a", "1", 0))
			require.NoError(t, s.Set(ctx, "b", "2", 0))
			v, err := s.Get(ctx, "a")
			require.NoError(t, err)
			assert.Equal(t, "1", v)

			require.NoError(t, s.Delete(ctx, "a", "b"))
			_, err = s.Get(ctx, "b")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestExpiry(t *testing.T) {
	t.Run("Should expire memory entries", func(t *testing.T) {
		m := NewMemory()
		now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		m.now = func() time.Time { return now }
		require.NoError(t, m.Set(t.Context(), "k", "v", time.Minute))
		now = now.Add(2 * time.Minute)
		_, err := m.Get(t.Context(), "k")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Should expire redis entries", func(t *testing.T) {
		r, mr := newRedis(t)
		require.NoError(t, r.Set(t.Context(), "k", "v", time.Minute))
		mr.FastForward(2 * time.Minute)
		_, err := r.Get(t.Context(), "k")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestScoped(t *testing.T) {
	t.Run("Should isolate sessions sharing one store", func(t *testing.T) {
		ctx := t.Context()
		base := NewMemory()
		a := Scoped(base, "a")
		b := Scoped(base, "b")

		require.NoError(t, a.Set(ctx, "authToken", "tok-a", 0))
		_, err := b.Get(ctx, "authToken")
		assert.ErrorIs(t, err, ErrNotFound)

		raw, err := base.Get(ctx, "sess:a:authToken")
		require.NoError(t, err)
		assert.Equal(t, "tok-a", raw)

		require.NoError(t, a.Delete(ctx, "authToken"))
		_, err = base.Get(ctx, "sess:a:authToken")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Should round trip JSON values", func(t *testing.T) {
		ctx := t.Context()
		s := NewMemory()
		type item struct{ N int }
		require.NoError(t, SetJSON(ctx, s, "x", []item{{1}, {2}}, 0))
		var got []item
		require.NoError(t, GetJSON(ctx, s, "x", &got))
		assert.Equal(t, []item{{1}, {2}}, got)

		require.NoError(t, s.Set(ctx, "bad", "{", 0))
		assert.Error(t, GetJSON(ctx, s, "bad", &got))
	})
}
