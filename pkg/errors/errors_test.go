package errors

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromErrorKeepsTypedErrors(t *testing.T) {
	wrapped := Wrap(errors.New("boom"), ErrConflict.Code, ErrConflict.Status, "plan has conflicts")
	got := FromError(wrapped)
	assert.Same(t, wrapped, got)
	assert.Equal(t, http.StatusConflict, got.Status)
	assert.Equal(t, "plan has conflicts: boom", got.Error())
}

func TestFromErrorDefaultsToInternal(t *testing.T) {
	cause := errors.New("db down")
	got := FromError(cause)
	assert.Equal(t, ErrInternal.Code, got.Code)
	assert.ErrorIs(t, got, cause)
	assert.Nil(t, FromError(nil))
}

func TestCloneOverridesMessageOnly(t *testing.T) {
	clone := Clone(ErrDraftExpired, "draft abc not found")
	assert.Equal(t, ErrDraftExpired.Code, clone.Code)
	assert.Equal(t, "draft abc not found", clone.Message)
	assert.Equal(t, "draft expired or unknown", ErrDraftExpired.Message)
	assert.Equal(t, ErrCancelled.Message, Clone(ErrCancelled, "").Message)
}

func TestWithDetailsLeavesOriginalUntouched(t *testing.T) {
	report := map[string]int{"teams": 1}
	err := WithDetails(ErrConflict, "draft has conflicts", report)
	assert.Equal(t, report, err.Details)
	assert.Equal(t, http.StatusConflict, err.Status)
	assert.Nil(t, ErrConflict.Details)
	assert.Nil(t, WithDetails(nil, "x", report))
}
