package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAPIErrorIs(t *testing.T) {
	t.Run("details-carrying copies match the base error", func(t *testing.T) {
		err := ErrNotFound.WithDetails("Offer not found.")
		assert.True(t, errors.Is(err, ErrNotFound))
		assert.False(t, errors.Is(err, ErrConflict))
	})

	t.Run("wrapped errors still match", func(t *testing.T) {
		err := fmt.Errorf("loading offer: %w", ErrForbidden.WithDetails("nope"))
		assert.True(t, errors.Is(err, ErrForbidden))
	})

	t.Run("non-api errors never match", func(t *testing.T) {
		assert.False(t, errors.Is(errors.New("plain"), ErrNotFound))
	})
}

func TestWithDetailsDoesNotMutateBase(t *testing.T) {
	clone := ErrBadRequest.WithDetails("field x is bad")
	assert.Equal(t, "field x is bad", clone.Details)
	assert.Nil(t, ErrBadRequest.Details)
	assert.Equal(t, ErrBadRequest.Code, clone.Code)
	assert.Equal(t, ErrBadRequest.StatusCode, clone.StatusCode)
}
