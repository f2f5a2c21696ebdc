package domain

import (
	"errors"
	"fmt"
)

// Domain errors shared by the service, repository and handler layers
var (
	// ErrUnauthenticated is returned when a request carries no valid session
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrForbidden is returned when the session user lacks the required role
	ErrForbidden = errors.New("forbidden")

	// ErrValidation is returned when form input cannot be coerced
	ErrValidation = errors.New("validation error")

	// ErrNotFound is the base error for unknown references
	ErrNotFound = errors.New("resource not found")

	// ErrTeamNotFound is returned when a mutation names an unknown team
	ErrTeamNotFound = fmt.Errorf("team %w", ErrNotFound)

	// ErrUserNotFound is returned when a username does not exist
	ErrUserNotFound = fmt.Errorf("user %w", ErrNotFound)

	// ErrSessionNotFound is returned when a session id is unknown or expired
	ErrSessionNotFound = fmt.Errorf("session %w", ErrNotFound)

	// ErrStorageUnavailable is returned when the backend cannot be read or written
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrInvalidToken is returned when a session token fails verification
	ErrInvalidToken = errors.New("invalid token")

	// ErrInvalidCredentials is returned when username and password do not match
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError describes a rejected form field
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Unwrap lets errors.Is match ErrValidation
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NewValidationError builds a ValidationError for field
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// ErrorCode is the machine readable code exposed in JSON error bodies
type ErrorCode string

// Error codes
const (
	CodeValidation   ErrorCode = "VALIDATION_ERROR"
	CodeNotFound     ErrorCode = "NOT_FOUND"
	CodeUnavailable  ErrorCode = "STORAGE_UNAVAILABLE"
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"
	CodeForbidden    ErrorCode = "FORBIDDEN"
	CodeInternal     ErrorCode = "INTERNAL_ERROR"
)

// MapErrorToCode converts domain errors to API error codes
func MapErrorToCode(err error) ErrorCode {
	switch {
	case errors.Is(err, ErrValidation):
		return CodeValidation
	case errors.Is(err, ErrNotFound):
		return CodeNotFound
	case errors.Is(err, ErrStorageUnavailable):
		return CodeUnavailable
	case errors.Is(err, ErrUnauthenticated), errors.Is(err, ErrInvalidToken), errors.Is(err, ErrInvalidCredentials):
		return CodeUnauthorized
	case errors.Is(err, ErrForbidden):
		return CodeForbidden
	default:
		return CodeInternal
	}
}
