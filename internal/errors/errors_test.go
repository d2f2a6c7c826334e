package errors

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_IsMatchesByCode(t *testing.T) {
	err := NotFound("book", "123")

	assert.True(t, Is(err, ErrNotFound))
	assert.False(t, Is(err, ErrConflict))
	assert.Equal(t, `book "123" not found`, err.Error())
}

func TestError_IsMatchesReasonWhenTargetHasOne(t *testing.T) {
	err := Conflict(ReasonDuplicateEmail, "email taken")

	assert.True(t, Is(err, ErrConflict))
	assert.True(t, Is(err, &Error{Code: CodeConflict, Reason: ReasonDuplicateEmail}))
	assert.False(t, Is(err, &Error{Code: CodeConflict, Reason: ReasonDuplicateUsername}))
}

func TestError_WrappedStillMatches(t *testing.T) {
	err := fmt.Errorf("create collection: %w", Validation("bad input"))

	assert.True(t, Is(err, ErrValidation))
	assert.Equal(t, CodeValidation, CodeOf(err))
}

func TestStorage(t *testing.T) {
	t.Run("wraps driver errors", func(t *testing.T) {
		err := Storage(context.DeadlineExceeded)

		assert.True(t, Is(err, ErrStorage))
		assert.True(t, Is(err, context.DeadlineExceeded))
	})

	t.Run("passes domain errors through", func(t *testing.T) {
		inner := NotFound("collection", "scifi")

		assert.Same(t, inner, Storage(inner))
	})

	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, Storage(nil))
	})
}

func TestCode_HTTPStatus(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{CodeValidation, http.StatusBadRequest},
		{CodeNotFound, http.StatusNotFound},
		{CodeConflict, http.StatusConflict},
		{CodeAuth, http.StatusUnauthorized},
		{CodeStorage, http.StatusServiceUnavailable},
		{Code("other"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.code.HTTPStatus())
		})
	}
}
