package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// ErrorCode represents a structured error code
type ErrorCode string

const (
	// Input errors
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"

	// Pipeline stage errors
	ErrCodeFetchFailure     ErrorCode = "FETCH_FAILURE"
	ErrCodeTranscodeFailure ErrorCode = "TRANSCODE_FAILURE"
	ErrCodeDecodeFailure    ErrorCode = "DECODE_FAILURE"
	ErrCodeStorage          ErrorCode = "STORAGE"

	// Configuration and infrastructure errors
	ErrCodeConfigInvalid ErrorCode = "CONFIG_INVALID"
	ErrCodeDatabaseQuery ErrorCode = "DATABASE_QUERY"
	ErrCodeAPIRateLimit  ErrorCode = "API_RATE_LIMIT"
	ErrCodeInternal      ErrorCode = "INTERNAL"
)

// Process exit codes
const (
	ExitFailure      = 1
	ExitInvalidInput = 2
)

// AppError represents a structured application error
type AppError struct {
	Code     ErrorCode              `json:"code"`
	Message  string                 `json:"message"`
	Details  map[string]interface{} `json:"details,omitempty"`
	Cause    error                  `json:"-"`
	HTTPCode int                    `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithDetail adds a detail to the error
func (e *AppError) WithDetail(key string, value interface{}) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// GetHTTPCode returns the appropriate HTTP status code
func (e *AppError) GetHTTPCode() int {
	if e.HTTPCode != 0 {
		return e.HTTPCode
	}
	return getDefaultHTTPCode(e.Code)
}

// ExitCode returns the process exit code for the error
func (e *AppError) ExitCode() int {
	if e.Code == ErrCodeInvalidInput {
		return ExitInvalidInput
	}
	return ExitFailure
}

// New creates a new AppError
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:     code,
		Message:  message,
		HTTPCode: getDefaultHTTPCode(code),
	}
}

// Newf creates a new AppError with formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *AppError {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap wraps an existing error with an AppError
func Wrap(cause error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:     code,
		Message:  message,
		Cause:    cause,
		HTTPCode: getDefaultHTTPCode(code),
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(cause error, code ErrorCode, format string, args ...interface{}) *AppError {
	return Wrap(cause, code, fmt.Sprintf(format, args...))
}

// getDefaultHTTPCode returns the default HTTP status code for an error code
func getDefaultHTTPCode(code ErrorCode) int {
	switch code {
	case ErrCodeInvalidInput:
		return http.StatusBadRequest
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeAPIRateLimit:
		return http.StatusTooManyRequests
	case ErrCodeFetchFailure, ErrCodeTranscodeFailure:
		return http.StatusBadGateway
	case ErrCodeDecodeFailure:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// Common error constructors

// InvalidInput creates an invalid input error
func InvalidInput(input string, reason string) *AppError {
	return New(ErrCodeInvalidInput, fmt.Sprintf("invalid input %q: %s", input, reason)).
		WithDetail("input", input)
}

// NotFound creates a not found error
func NotFound(resource string, id interface{}) *AppError {
	return New(ErrCodeNotFound, fmt.Sprintf("%s not found", resource)).
		WithDetail("resource", resource).
		WithDetail("id", id)
}

// FetchFailure wraps a media fetcher error
func FetchFailure(sourceID string, cause error) *AppError {
	return Wrap(cause, ErrCodeFetchFailure, fmt.Sprintf("failed to fetch media for %s", sourceID)).
		WithDetail("source_id", sourceID)
}

// TranscodeFailure wraps a transcoder error
func TranscodeFailure(path string, cause error) *AppError {
	return Wrap(cause, ErrCodeTranscodeFailure, fmt.Sprintf("failed to transcode %s", path)).
		WithDetail("path", path)
}

// DecodeFailure wraps an audio decoding error
func DecodeFailure(path string, cause error) *AppError {
	return Wrap(cause, ErrCodeDecodeFailure, fmt.Sprintf("failed to decode %s", path)).
		WithDetail("path", path)
}

// StorageError wraps a cache storage error
func StorageError(operation string, path string, cause error) *AppError {
	return Wrap(cause, ErrCodeStorage, fmt.Sprintf("storage %s failed for %s", operation, path)).
		WithDetail("operation", operation).
		WithDetail("path", path)
}

// DatabaseError creates a database error
func DatabaseError(operation string, cause error) *AppError {
	return Wrap(cause, ErrCodeDatabaseQuery, fmt.Sprintf("database %s failed", operation)).
		WithDetail("operation", operation)
}

// ConfigError creates a configuration error
func ConfigError(key string, reason string) *AppError {
	return New(ErrCodeConfigInvalid, fmt.Sprintf("configuration error for '%s': %s", key, reason)).
		WithDetail("key", key).
		WithDetail("reason", reason)
}

// As finds the first AppError in err's chain
func As(err error, target **AppError) bool {
	return stderrors.As(err, target)
}

// Is checks if an error, or any error it wraps, carries a specific code
func Is(err error, code ErrorCode) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// GetCode extracts the error code from an error
func GetCode(err error) ErrorCode {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrCodeInternal
}

// GetHTTPCode extracts the HTTP status code from an error
func GetHTTPCode(err error) int {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.GetHTTPCode()
	}
	return http.StatusInternalServerError
}

// ExitCode extracts the process exit code from an error; nil maps to 0
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.ExitCode()
	}
	return ExitFailure
}
