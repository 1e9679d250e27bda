package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWT(t *testing.T) {
	t.Run("Should round trip session and user claims", func(t *testing.T) {
		tok, err := SignJWT("secret", Claims{SessionID: "abc", UserID: 3, Role: "student"}, 10)
		require.NoError(t, err)

		claims, err := ParseJWT("secret", tok)
		require.NoError(t, err)
		assert.Equal(t, "abc", claims.SessionID)
		assert.Equal(t, int64(3), claims.UserID)
		assert.Equal(t, "student", claims.Role)
	})

	t.Run("Should reject a token signed with another secret", func(t *testing.T) {
		tok, err := SignJWT("secret", Claims{SessionID: "abc"}, 10)
		require.NoError(t, err)
		_, err = ParseJWT("other", tok)
		assert.Error(t, err)
	})

	t.Run("Should reject expired tokens", func(t *testing.T) {
		tok, err := SignJWT("secret", Claims{SessionID: "abc"}, -1)
		require.NoError(t, err)
		_, err = ParseJWT("secret", tok)
		assert.Error(t, err)
	})
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("password123")
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "password123"))
	assert.False(t, CheckPassword(hash, "password124"))
}

func TestFormatPeso(t *testing.T) {
	assert.Equal(t, "₱15,000", FormatPeso(decimal.NewFromInt(15000)))
	assert.Equal(t, "₱1,250.5", FormatPeso(decimal.RequireFromString("1250.50")))
	assert.Equal(t, "₱0", FormatPeso(decimal.Zero))
	assert.Equal(t, "₱452K", FormatPesoShort(decimal.NewFromInt(452000)))
	assert.Equal(t, "₱8,000", FormatPesoShort(decimal.NewFromInt(8000)))
}
