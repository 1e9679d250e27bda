package apperr

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessage(t *testing.T) {
	t.Run("Should surface the server message verbatim", func(t *testing.T) {
		err := fmt.Errorf("create job: %w", &RequestError{Status: 400, Message: "Budget too low"})
		assert.Equal(t, "Budget too low", Message(err))
	})

	t.Run("Should use a generic text for transport failures", func(t *testing.T) {
		err := &NetworkError{Op: "GET /jobs", Err: errors.New("connection refused")}
		assert.Equal(t, networkMessage, Message(err))
	})

	t.Run("Should report the first validation message in field order", func(t *testing.T) {
		fe := FieldErrors{}
		fe.Add("password", "Password must be at least 6 characters")
		fe.Add("email", "Must use a valid UEP email address (@uep.edu.ph)")
		err := fe.Err()
		require.Error(t, err)
		assert.Equal(t, "Must use a valid UEP email address (@uep.edu.ph)", Message(err))
	})

	t.Run("Should unwrap sentinels carried by request errors", func(t *testing.T) {
		err := &RequestError{Status: 409, Message: ErrDuplicateProposal.Error(), Err: ErrDuplicateProposal}
		assert.True(t, errors.Is(err, ErrDuplicateProposal))
		assert.Equal(t, ErrDuplicateProposal.Error(), Message(err))
	})

	t.Run("Should describe unsupported features", func(t *testing.T) {
		assert.Equal(t, ErrUnsupported.Error(), Message(fmt.Errorf("list users: %w", ErrUnsupported)))
	})
}

func TestFieldErrors(t *testing.T) {
	assert.NoError(t, FieldErrors{}.Err())
	assert.True(t, IsCanceled(fmt.Errorf("fetch: %w", context.Canceled)))
	assert.False(t, IsCanceled(errors.New("boom")))
	assert.True(t, IsNotFound(fmt.Errorf("get payment: %w", &RequestError{Status: 404, Message: "Payment not found"})))
	assert.False(t, IsNotFound(&RequestError{Status: 500}))
}
