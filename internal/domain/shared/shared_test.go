package shared

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldErrors(t *testing.T) {
	errs := FieldErrors{}
	require.NoError(t, errs.OrNil())

	errs.Add("hours", "must be positive")
	errs.Add("hours", "ignored")
	errs.Add("date", "is required")

	err := errs.OrNil()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))
	assert.True(t, IsValidation(err))
	assert.Equal(t, "validation failed: date: is required; hours: must be positive", err.Error())
}

func TestDomainError_Is(t *testing.T) {
	assert.True(t, IsNotFound(ErrStudentNotFound))
	assert.True(t, IsForbidden(ErrSessionNotOwned))
	assert.True(t, IsAlreadyExists(ErrStudentAlreadyExists))
	assert.True(t, IsUnauthorized(ErrInvalidCredentials))
	assert.False(t, IsNotFound(ErrSessionNotOwned))

	wrapped := WrapError("study", "Save", ErrServiceUnavailable, "db down", errors.New("conn refused"))
	assert.True(t, IsRetryable(wrapped))
	assert.Contains(t, wrapped.Error(), "conn refused")
}

func TestParseStudentID(t *testing.T) {
	id, err := ParseStudentID(" 42 ")
	require.NoError(t, err)
	assert.Equal(t, StudentID(42), id)

	for _, raw := range []string{"", "0", "-3", "abc"} {
		_, err := ParseStudentID(raw)
		assert.ErrorIs(t, err, ErrInvalidID, raw)
	}
}

func TestUsername(t *testing.T) {
	assert.Equal(t, "ayse", NormalizeUsername("  Ayse "))
	assert.True(t, IsValidUsername("ayse.k_1"))
	assert.False(t, IsValidUsername("a"))
	assert.False(t, IsValidUsername("_lead"))
	assert.False(t, IsValidUsername("has space"))
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 66.67, Round2(200.0/3))
	assert.Equal(t, 0.0, Round2(0))
}

func TestActor(t *testing.T) {
	student := Actor{StudentID: 7}
	admin := Actor{StudentID: 1, IsAdmin: true}

	assert.True(t, student.CanAccess(7))
	assert.False(t, student.CanAccess(8))
	assert.True(t, admin.CanAccess(8))

	id, err := student.Target(0)
	require.NoError(t, err)
	assert.Equal(t, StudentID(7), id)

	_, err = student.Target(8)
	assert.True(t, IsForbidden(err))

	id, err = admin.Target(8)
	require.NoError(t, err)
	assert.Equal(t, StudentID(8), id)
}
