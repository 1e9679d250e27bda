package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	t.Run("Should accept every spelling used by the two backends", func(t *testing.T) {
		cases := map[string]Role{
			"student":      RoleStudent,
			"STUDENT":      RoleStudent,
			"ROLE_STUDENT": RoleStudent,
			" ROLE_ADMIN ": RoleAdmin,
			"Client":       RoleClient,
		}
		for in, want := range cases {
			got, err := ParseRole(in)
			require.NoError(t, err, in)
			assert.Equal(t, want, got, in)
		}
	})

	t.Run("Should reject roles outside the closed set", func(t *testing.T) {
		_, err := ParseRole("ROLE_SUPERUSER")
		assert.Error(t, err)
		_, err = ParseRole("")
		assert.Error(t, err)
	})

	t.Run("Should decode and encode roles in JSON", func(t *testing.T) {
		var u User
		require.NoError(t, json.Unmarshal([]byte(`{"id":3,"role":"ROLE_STUDENT"}`), &u))
		assert.True(t, u.IsStudent())

		out, err := json.Marshal(u)
		require.NoError(t, err)
		assert.Contains(t, string(out), `"role":"STUDENT"`)
	})
}

func TestUserPredicates(t *testing.T) {
	t.Run("Should be false for a missing user", func(t *testing.T) {
		var u *User
		assert.False(t, u.IsAdmin())
		assert.False(t, u.IsClient())
		assert.False(t, u.IsStudent())
		assert.Empty(t, u.FullName())
	})

	t.Run("Should derive name helpers", func(t *testing.T) {
		u := &User{FirstName: "maria", LastName: "Santos", Role: RoleStudent}
		assert.Equal(t, "maria Santos", u.FullName())
		assert.Equal(t, "MS", u.Initials())
	})
}

func TestCategorySet(t *testing.T) {
	t.Run("Should normalize codes, labels and loose spellings", func(t *testing.T) {
		got, ok := LiveCategories.Normalize("web-development")
		require.True(t, ok)
		assert.Equal(t, Category("WEB_DEVELOPMENT"), got)

		got, ok = LiveCategories.Normalize("Data Science")
		require.True(t, ok)
		assert.Equal(t, Category("DATA_SCIENCE"), got)

		got, ok = DemoCategories.Normalize("design")
		require.True(t, ok)
		assert.Equal(t, Category("DESIGN"), got)
	})

	t.Run("Should keep the catalogs apart", func(t *testing.T) {
		assert.False(t, DemoCategories.Contains("MARKETING"))
		assert.False(t, LiveCategories.Contains("VIDEO"))
	})

	t.Run("Should fall back to title case for unknown codes", func(t *testing.T) {
		assert.Equal(t, "Mobile Development", DemoCategories.Label("MOBILE_DEVELOPMENT"))
		assert.Equal(t, "Other", FormatCategory(""))
	})
}

func TestDate(t *testing.T) {
	t.Run("Should accept plain dates and timestamps", func(t *testing.T) {
		d, err := ParseDate("2024-12-31")
		require.NoError(t, err)
		assert.Equal(t, "2024-12-31", d.String())

		d, err = ParseDate("2024-01-15T10:20:30")
		require.NoError(t, err)
		assert.Equal(t, "2024-01-15", d.String())
	})

	t.Run("Should round trip through JSON", func(t *testing.T) {
		var j Job
		require.NoError(t, json.Unmarshal([]byte(`{"deadline":"2024-12-20","status":"open","budget":5000}`), &j))
		assert.Equal(t, JobStatusOpen, j.Status)
		assert.Equal(t, "2024-12-20", j.Deadline.String())
		assert.Equal(t, "5000", j.Budget.String())
	})

	t.Run("Should compare calendar days", func(t *testing.T) {
		a := NewDate(time.Date(2024, 1, 1, 23, 0, 0, 0, time.UTC))
		b := NewDate(time.Date(2024, 1, 2, 1, 0, 0, 0, time.UTC))
		assert.True(t, a.Before(b))
		assert.False(t, b.Before(a))
	})
}

func TestStatusClasses(t *testing.T) {
	assert.Equal(t, "status-in-progress", JobStatusInProgress.CSSClass())
	assert.Equal(t, "status-completed", PaymentReleased.CSSClass())
	assert.Equal(t, "Held in Escrow", PaymentHeldInEscrow.Label())

	_, err := ParsePaymentMethod("g cash")
	assert.Error(t, err)
	m, err := ParsePaymentMethod("bank-transfer")
	require.NoError(t, err)
	assert.Equal(t, MethodBankTransfer, m)
}
