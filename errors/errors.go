package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// HTTPStatus is the recommended HTTP status code for this error.
	HTTPStatus int `json:"-"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// Fatal reports whether the error must abort startup.
func (e *AppError) Fatal() bool { return IsFatalCode(e.Code) }

// New creates a new AppError.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// --- Constructors ---

// ConfigInvalid creates an AppError for a bad configuration field.
func ConfigInvalid(field, reason string) *AppError {
	details := make(map[string]any)
	if field != "" {
		details["field"] = field
	}
	return &AppError{
		Code: ErrCodeConfigInvalid, Message: fmt.Sprintf("invalid configuration: %s", reason),
		HTTPStatus: http.StatusInternalServerError, Details: details,
	}
}

// RouteConflict creates an AppError for a route name that is already taken.
func RouteConflict(name string) *AppError {
	return &AppError{
		Code: ErrCodeRouteConflict, Message: fmt.Sprintf("route %q is already registered", name),
		HTTPStatus: http.StatusInternalServerError,
		Details:    map[string]any{"name": name},
	}
}

// MetricsBindFailed creates an AppError for a failed metrics attachment.
func MetricsBindFailed(cause error) *AppError {
	return &AppError{
		Code: ErrCodeMetricsBindFailed, Message: "failed to attach metrics collector",
		HTTPStatus: http.StatusInternalServerError, Cause: cause,
	}
}

// BindFailed creates an AppError for a listener that could not bind.
func BindFailed(addr string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeBindFailed, Message: fmt.Sprintf("failed to bind %s", addr),
		HTTPStatus: http.StatusInternalServerError, Cause: cause,
		Details: map[string]any{"addr": addr},
	}
}

// ProbeFailed creates an AppError for a probe that returned an error.
func ProbeFailed(probe string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeProbeFailed, Message: fmt.Sprintf("%s probe failed", probe),
		HTTPStatus: http.StatusInternalServerError, Cause: cause,
		Details: map[string]any{"probe": probe},
	}
}

// Internal creates a new AppError for an internal server error.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "An unexpected error occurred.",
		HTTPStatus: http.StatusInternalServerError, Cause: cause,
	}
}

// --- Inspection ---

// IsAppError checks if an error is an AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// HasCode reports whether err is an AppError with the given code.
func HasCode(err error, code ErrorCode) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == code
}
