package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapErrorToStatusSentinels(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{ErrNotFound, http.StatusNotFound},
		{ErrUnauthorized, http.StatusUnauthorized},
		{ErrInvalidCredentials, http.StatusUnauthorized},
		{ErrForbidden, http.StatusForbidden},
		{ErrBadRequest, http.StatusBadRequest},
		{ErrInvalidInput, http.StatusBadRequest},
		{ErrRateLimitExceeded, http.StatusTooManyRequests},
		{errors.New("anything else"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, MapErrorToStatus(tc.err), tc.err.Error())
	}
}

func TestMapErrorToStatusWrappedSentinel(t *testing.T) {
	wrapped := fmt.Errorf("%w: date cannot be in the past", ErrInvalidInput)
	assert.Equal(t, http.StatusBadRequest, MapErrorToStatus(wrapped))
}

func TestMapErrorToStatusHonorsAppErrorCode(t *testing.T) {
	appErr := New(http.StatusConflict, "appointment slot already taken", nil)
	assert.Equal(t, http.StatusConflict, MapErrorToStatus(appErr))

	// A wrapped AppError still carries its code.
	wrapped := fmt.Errorf("booking failed: %w", appErr)
	assert.Equal(t, http.StatusConflict, MapErrorToStatus(wrapped))

	// Without an explicit code the wrapped sentinel decides.
	noCode := New(0, "", ErrNotFound)
	assert.Equal(t, http.StatusNotFound, MapErrorToStatus(noCode))
}
