package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsMatchesCopies(t *testing.T) {
	err := ErrDuplicate.WithMessage("email already in use")
	assert.True(t, errors.Is(err, ErrDuplicate))
	assert.Equal(t, "Email or pseudo already in use", ErrDuplicate.Message)

	wrapped := fmt.Errorf("signup: %w", ErrValidation.WithDetails(map[string]string{"email": "email"}))
	assert.True(t, errors.Is(wrapped, ErrValidation))
	assert.False(t, errors.Is(wrapped, ErrNotFound))
}

func TestIsDistinguishesSameCodeDifferentStatus(t *testing.T) {
	assert.False(t, errors.Is(ErrResetToken, ErrInvalidToken))
	assert.True(t, errors.Is(ErrResetToken, ErrResetToken))
}

func TestFrom(t *testing.T) {
	e, ok := From(fmt.Errorf("wrap: %w", ErrActivityFull))
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, e.Status)
	assert.Equal(t, "ACTIVITY_FULL", e.Code)

	_, ok = From(errors.New("plain"))
	assert.False(t, ok)
}

func TestErrorString(t *testing.T) {
	assert.Equal(t, "GROUP_FULL: Group is full", ErrGroupFull.Error())
}
