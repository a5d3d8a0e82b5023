package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandardError_IsMatchesCodeThroughWrapping(t *testing.T) {
	err := fmt.Errorf("load conversation: %w", NewNotFoundError("conversation", "abc"))

	assert.True(t, stderrors.Is(err, ErrNotFound))
	assert.False(t, stderrors.Is(err, ErrValidation))
}

func TestStandardError_UnwrapsCause(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := NewPersistenceFailedError("postgres", cause)

	assert.True(t, stderrors.Is(err, cause))
	assert.True(t, stderrors.Is(err, ErrPersistence))
	assert.Contains(t, err.Error(), "PERSISTENCE_FAILED")
}

func TestAsStandard(t *testing.T) {
	t.Run("keeps standard error", func(t *testing.T) {
		original := NewAuthorizationError("session mismatch")
		got := AsStandard(fmt.Errorf("wrapped: %w", original))
		require.NotNil(t, got)
		assert.Equal(t, ErrCodeAuthorization, got.Code)
	})

	t.Run("wraps plain error as internal", func(t *testing.T) {
		got := AsStandard(stderrors.New("boom"))
		assert.Equal(t, ErrCodeInternal, got.Code)
		assert.Equal(t, "boom", got.Details)
	})
}

func TestSafeMessage_DoesNotLeakDetails(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"validation", NewValidationError("lead name is required"), "Invalid request. Please check your input and try again."},
		{"not found", NewNotFoundError("conversation", "secret-id"), "The requested resource could not be found."},
		{"authorization", NewAuthorizationError("owner=s1 caller=s2"), "You are not allowed to access this conversation."},
		{"internal", stderrors.New("pq: relation does not exist"), "Failed to process your request. Please try again."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SafeMessage(tt.err)
			assert.Equal(t, tt.want, got)
			assert.NotContains(t, got, "secret-id")
		})
	}
	assert.Empty(t, SafeMessage(nil))
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(ErrCodeValidation))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(ErrCodeNotFound))
	assert.Equal(t, http.StatusForbidden, HTTPStatus(ErrCodeAuthorization))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(ErrCodePersistence))
}

func TestConvertToBPMNError(t *testing.T) {
	bpmn := ConvertToBPMNError(NewValidationError("missing text"))
	assert.Equal(t, "VALIDATION_ERROR", bpmn.Code)
	assert.Equal(t, 0, bpmn.Retries)
	assert.Equal(t, "VALIDATION", bpmn.ToErrorVariables()["errorCategory"])

	retryable := ConvertToBPMNError(NewPersistenceFailedError("ledger", stderrors.New("timeout")))
	assert.Equal(t, 3, retryable.Retries)
	assert.True(t, retryable.Retryable)
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "STORAGE", GetErrorCategory(ErrCodePersistence))
	assert.Equal(t, "EXTRACTION", GetErrorCategory(ErrCodeExtraction))
	assert.Equal(t, "OTHER", GetErrorCategory(ErrorCode("SOMETHING_ELSE")))
}
