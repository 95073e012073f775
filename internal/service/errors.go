// Package service provides business logic for the application.
package service

import (
	"errors"
	"fmt"
)

// Service errors.
var (
	ErrConflict      = errors.New("conflict")
	ErrUsernameTaken = fmt.Errorf("%w: username already exists", ErrConflict)
	ErrEmailTaken    = fmt.Errorf("%w: email already exists", ErrConflict)

	// ErrUnauthorized is returned by Login for every credential failure.
	ErrUnauthorized = errors.New("invalid credentials")
	// ErrUnauthenticated is returned when a bearer token cannot be resolved
	// to an enabled identity.
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("access denied")
	ErrNotFound        = errors.New("not found")
	ErrInvalidInput    = errors.New("invalid input")
)

// ValidationError describes which input field was rejected.
// It matches ErrInvalidInput with errors.Is.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// Unwrap lets errors.Is(err, ErrInvalidInput) succeed.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
