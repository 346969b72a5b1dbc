// Package errors provides standardized error handling for remote API calls and client-side validation.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Transport failures: the remote could not be reached at all.
	ErrCodeTransportFailure ErrorCode = "TRANSPORT_FAILURE"
	ErrCodeTimeout          ErrorCode = "TIMEOUT_ERROR"

	// Remote rejections: a non-2xx answer from the remote authority.
	ErrCodeRemoteRejection ErrorCode = "REMOTE_REJECTION"
	ErrCodeAuthentication  ErrorCode = "AUTHENTICATION_ERROR"
	ErrCodeNotFound        ErrorCode = "RESOURCE_NOT_FOUND"

	// Client-side failures; never sent to the remote.
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeDecodeFailed     ErrorCode = "DECODE_FAILED"
	ErrCodeInvalidState     ErrorCode = "INVALID_STATE"

	ErrCodeChatConnectionFailed ErrorCode = "CHAT_CONNECTION_FAILED"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// DefaultMessage is shown when neither the remote nor the transport produced a usable message.
const DefaultMessage = "Something went wrong"

// StandardError represents a structured application error.
type StandardError struct {
	Code       ErrorCode              `json:"code"`
	Message    string                 `json:"message"`
	Details    string                 `json:"details,omitempty"`
	StatusCode int                    `json:"statusCode,omitempty"`
	Retryable  bool                   `json:"retryable"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	Timestamp  time.Time              `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying transport or decode error, if any.
func (e *StandardError) Unwrap() error {
	return e.cause
}

// ==========================
// 2. Error Constructors
// ==========================

// NewTransportFailureError keeps the underlying error text as the user-facing message.
func NewTransportFailureError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeTransportFailure,
		Message:   err.Error(),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewTimeoutError creates a retryable timeout error for the named operation.
func NewTimeoutError(operation string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeTimeout,
		Message:   fmt.Sprintf("Request '%s' timed out", operation),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewRemoteRejectionError builds the error for a non-2xx response. message is the
// body's `message` field; when empty the HTTP status text is used instead.
func NewRemoteRejectionError(statusCode int, message, body string) *StandardError {
	if strings.TrimSpace(message) == "" {
		message = http.StatusText(statusCode)
	}
	if message == "" {
		message = DefaultMessage
	}

	code := ErrCodeRemoteRejection
	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		code = ErrCodeAuthentication
	case http.StatusNotFound:
		code = ErrCodeNotFound
	}

	return &StandardError{
		Code:       code,
		Message:    message,
		Details:    body,
		StatusCode: statusCode,
		Retryable:  statusCode >= 500 || statusCode == http.StatusTooManyRequests,
		Timestamp:  time.Now().UTC(),
	}
}

// NewValidationError creates a client-side validation failure.
func NewValidationError(message, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   message,
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDecodeError is returned when a 2xx body cannot be decoded.
func NewDecodeError(resource string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDecodeFailed,
		Message:   fmt.Sprintf("Unexpected response from %s", resource),
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewInvalidStateError rejects an action that does not apply to the current state.
func NewInvalidStateError(message, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidState,
		Message:   message,
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewAuthenticationError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeAuthentication,
		Message:   "Authentication failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewChatConnectionError(room string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeChatConnectionFailed,
		Message:   "Chat connection failed",
		Details:   fmt.Sprintf("room: %s, error: %s", room, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// ==========================
// 3. Utility Functions
// ==========================

// AsStandard reports whether err is (or wraps) a StandardError.
func AsStandard(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
}

// MessageOf returns the user-facing message carried by err, falling back to
// fallback (or DefaultMessage) when err has nothing usable.
func MessageOf(err error, fallback string) string {
	if fallback == "" {
		fallback = DefaultMessage
	}
	if err == nil {
		return fallback
	}
	if stdErr, ok := AsStandard(err); ok {
		if strings.TrimSpace(stdErr.Message) != "" {
			return stdErr.Message
		}
		return fallback
	}
	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}
	return fallback
}

// IsCode checks whether err carries the given code.
func IsCode(err error, code ErrorCode) bool {
	stdErr, ok := AsStandard(err)
	return ok && stdErr.Code == code
}

// IsValidation is true for client-side validation failures.
func IsValidation(err error) bool {
	return IsCode(err, ErrCodeValidationFailed)
}

// GetErrorCategory returns the taxonomy bucket of the error code.
func GetErrorCategory(code ErrorCode) string {
	switch code {
	case ErrCodeTransportFailure, ErrCodeTimeout, ErrCodeChatConnectionFailed:
		return "TRANSPORT"
	case ErrCodeRemoteRejection, ErrCodeAuthentication, ErrCodeNotFound:
		return "REMOTE"
	case ErrCodeValidationFailed, ErrCodeInvalidState:
		return "VALIDATION"
	case ErrCodeDecodeFailed:
		return "DECODE"
	default:
		return "OTHER"
	}
}
