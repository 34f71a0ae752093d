// Package common defines shared constants and sentinel errors used across
// client and server layers of learnjournal. Callers should use errors.Is to
// match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Validation errors. Concrete failures are reported as *ValidationError.
	ErrValidation = errors.New("validation error")

	// ErrParse is returned when an assistant payload could not be recovered
	// by any of the extraction fallbacks.
	ErrParse = errors.New("failed to parse AI response as JSON")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
)

// ValidationError describes a rejected input field. It matches ErrValidation
// under errors.Is.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError is a shorthand for &ValidationError{Field: field, Message: msg}.
func NewValidationError(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}
