// Package common defines shared constants and sentinel errors used across
// bizdir layers. Callers should use errors.Is / errors.As to match these values.
package common

import (
	"errors"
	"strings"
)

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors.
	ErrorInternal             = errors.New("internal error")
	ErrorInvalidLoginPassword = errors.New("invalid email or password")

	// Authentication errors.
	ErrMissingCredentials = errors.New("missing or invalid authorization header")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")

	// Authorization errors.
	ErrForbidden = errors.New("forbidden")

	// Validation errors. Concrete failures are *ValidationError values.
	ErrValidation = errors.New("validation error")

	// Startup errors.
	ErrMissingSecret = errors.New("jwt signing secret is not configured")
)

// ValidationError carries field-level messages produced while validating or
// persisting a record. It matches ErrValidation with errors.Is.
type ValidationError struct {
	Messages []string
}

// NewValidationError builds a ValidationError from one or more messages.
func NewValidationError(messages ...string) *ValidationError {
	return &ValidationError{Messages: messages}
}

func (e *ValidationError) Error() string {
	if len(e.Messages) == 0 {
		return ErrValidation.Error()
	}
	return ErrValidation.Error() + ": " + strings.Join(e.Messages, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
