package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ============================================================================
// ERROR CODES
// ============================================================================

type ErrorCode string

const (
	ErrCodeValidation     ErrorCode = "VALIDATION_ERROR"
	ErrCodeNotFound       ErrorCode = "NOT_FOUND"
	ErrCodeAuthorization  ErrorCode = "AUTHORIZATION_ERROR"
	ErrCodeExtraction     ErrorCode = "EXTRACTION_FAILED"
	ErrCodePersistence    ErrorCode = "PERSISTENCE_FAILED"
	ErrCodeNotification   ErrorCode = "NOTIFICATION_SEND_FAILED"
	ErrCodeInvalidPayload ErrorCode = "INVALID_PAYLOAD"
	ErrCodeInternal       ErrorCode = "INTERNAL_ERROR"
)

// Sentinels for errors.Is. A *StandardError matches the sentinel with the same code.
var (
	ErrValidation    = &StandardError{Code: ErrCodeValidation}
	ErrNotFound      = &StandardError{Code: ErrCodeNotFound}
	ErrAuthorization = &StandardError{Code: ErrCodeAuthorization}
	ErrExtraction    = &StandardError{Code: ErrCodeExtraction}
	ErrPersistence   = &StandardError{Code: ErrCodePersistence}
)

type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	cause     error
}

func (e *StandardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("StandardError[%s]: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Is(target error) bool {
	t, ok := target.(*StandardError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// ============================================================================
// CONSTRUCTORS
// ============================================================================

func NewValidationError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidation,
		Message:   "Request validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewNotFoundError(resource, id string) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotFound,
		Message:   fmt.Sprintf("%s not found", resource),
		Details:   fmt.Sprintf("%s: %s", resource, id),
		Retryable: false,
		Metadata:  map[string]interface{}{"resource": resource, "id": id},
		Timestamp: time.Now().UTC(),
	}
}

func NewAuthorizationError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeAuthorization,
		Message:   "Session is not allowed to access this conversation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewExtractionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeExtraction,
		Message:   "Metadata extraction failed",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

func NewPersistenceFailedError(target string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodePersistence,
		Message:   "Failed to persist record",
		Details:   fmt.Sprintf("target: %s, error: %s", target, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

func NewNotificationSendFailedError(channel string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotification,
		Message:   "Notification delivery failed",
		Details:   fmt.Sprintf("channel: %s, error: %s", channel, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

func NewInvalidPayloadError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidPayload,
		Message:   "Job payload could not be decoded",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

func NewInternalError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// ============================================================================
// CLASSIFICATION HELPERS
// ============================================================================

// AsStandard returns the first *StandardError in err's chain, or wraps err as internal.
func AsStandard(err error) *StandardError {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	return NewInternalError(err)
}

// SafeMessage is the only text about a failure that may leave the process.
func SafeMessage(err error) string {
	if err == nil {
		return ""
	}
	switch AsStandard(err).Code {
	case ErrCodeValidation:
		return "Invalid request. Please check your input and try again."
	case ErrCodeNotFound:
		return "The requested resource could not be found."
	case ErrCodeAuthorization:
		return "You are not allowed to access this conversation."
	default:
		return "Failed to process your request. Please try again."
	}
}

func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeValidation, ErrCodeInvalidPayload:
		return http.StatusBadRequest
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeAuthorization:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodePersistence, ErrCodeNotification:
		return 3
	case ErrCodeInternal:
		return 1
	default:
		return 0
	}
}

func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "VALIDATION") || strings.Contains(codeStr, "PAYLOAD"):
		return "VALIDATION"
	case strings.Contains(codeStr, "NOT_FOUND"):
		return "LOOKUP"
	case strings.Contains(codeStr, "AUTHORIZATION"):
		return "AUTH"
	case strings.Contains(codeStr, "EXTRACTION"):
		return "EXTRACTION"
	case strings.Contains(codeStr, "PERSISTENCE"):
		return "STORAGE"
	case strings.Contains(codeStr, "NOTIFICATION"):
		return "NOTIFICATION"
	default:
		return "OTHER"
	}
}
