package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType classifies an application error
type ErrorType string

const (
	ErrorTypeInvalidRequest   ErrorType = "INVALID_REQUEST"
	ErrorTypeUnauthenticated  ErrorType = "UNAUTHENTICATED"
	ErrorTypeForbidden        ErrorType = "FORBIDDEN"
	ErrorTypeNotFound         ErrorType = "NOT_FOUND"
	ErrorTypeConflict         ErrorType = "CONFLICT"
	ErrorTypeDependentService ErrorType = "DEPENDENT_SERVICE"
	ErrorTypeInternal         ErrorType = "INTERNAL"
)

// AppError carries the error taxonomy surfaced to HTTP handlers. Invariant
// violations (InvalidRequest, Forbidden, NotFound, Conflict) are caller
// errors detected before any mutation; DependentService marks a collaborator
// failure that prevented the primary mutation.
type AppError struct {
	Type       ErrorType `json:"type"`
	Message    string    `json:"message"`
	Cause      error     `json:"-"`
	HTTPStatus int       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithCause wraps an underlying error
func (e *AppError) WithCause(err error) *AppError {
	e.Cause = err
	return e
}

// NewInvalidRequest creates a malformed-input / self-targeting-action error
func NewInvalidRequest(message string) *AppError {
	return &AppError{Type: ErrorTypeInvalidRequest, Message: message, HTTPStatus: http.StatusBadRequest}
}

// NewUnauthenticated creates a missing/invalid-credential error
func NewUnauthenticated(message string) *AppError {
	if message == "" {
		message = "unauthorized"
	}
	return &AppError{Type: ErrorTypeUnauthenticated, Message: message, HTTPStatus: http.StatusUnauthorized}
}

// NewForbidden creates an actor-lacks-rights error
func NewForbidden(message string) *AppError {
	if message == "" {
		message = "forbidden"
	}
	return &AppError{Type: ErrorTypeForbidden, Message: message, HTTPStatus: http.StatusForbidden}
}

// NewNotFound creates a referenced-entity-absent error
func NewNotFound(resource string) *AppError {
	return &AppError{Type: ErrorTypeNotFound, Message: fmt.Sprintf("%s not found", resource), HTTPStatus: http.StatusNotFound}
}

// NewConflict creates a uniqueness/state-invariant violation error
func NewConflict(message string) *AppError {
	return &AppError{Type: ErrorTypeConflict, Message: message, HTTPStatus: http.StatusConflict}
}

// NewDependentService creates a collaborator-failure error
func NewDependentService(message string) *AppError {
	return &AppError{Type: ErrorTypeDependentService, Message: message, HTTPStatus: http.StatusBadGateway}
}

// NewInternal creates a generic internal error with no state leakage
func NewInternal(cause error) *AppError {
	return &AppError{Type: ErrorTypeInternal, Message: "Internal server error", Cause: cause, HTTPStatus: http.StatusInternalServerError}
}

// IsType reports whether err is an AppError of the given type
func IsType(err error, t ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == t
	}
	return false
}

// StatusFor maps any error to the HTTP status to respond with
func StatusFor(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}

// MessageFor maps any error to the client-facing message. Unclassified
// errors never leak internals.
func MessageFor(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "Internal server error"
}
