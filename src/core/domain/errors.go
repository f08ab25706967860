package domain

import (
	"errors"
	"fmt"
)

// Domain error types for consistent error handling across the application.
// Validation failures of the form itself are never errors: they live in
// ErrorMap. These sentinels cover bad input at the boundary and the
// directory load.

var (
	// ErrNotFound is returned when a requested resource does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput is returned when an update names an unknown field or
	// carries the wrong kind of value.
	ErrInvalidInput = errors.New("invalid input")

	// ErrCapacity is returned when no more form sessions can be opened.
	ErrCapacity = errors.New("capacity exhausted")

	// ErrDirectoryLoad is the base of every DirectoryLoadError.
	ErrDirectoryLoad = errors.New("country directory load failed")
)

// DomainError wraps a base error with additional context.
type DomainError struct {
	// Base is the underlying error type (e.g., ErrNotFound)
	Base error

	// Message provides human-readable context
	Message string

	// Field indicates which field caused the error (for validation errors)
	Field string
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (field: %s)", e.Base.Error(), e.Message, e.Field)
	}
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Base.Error(), e.Message)
	}
	return e.Base.Error()
}

// Unwrap returns the base error for errors.Is/As support.
func (e *DomainError) Unwrap() error {
	return e.Base
}

// NewNotFoundError creates a not found error with context.
func NewNotFoundError(resource string) *DomainError {
	return &DomainError{
		Base:    ErrNotFound,
		Message: resource,
	}
}

// NewValidationError creates a validation error for a specific field.
func NewValidationError(field, message string) *DomainError {
	return &DomainError{
		Base:    ErrInvalidInput,
		Message: message,
		Field:   field,
	}
}

// DirectoryLoadError reports that the country fetch failed or returned
// data that could not be decoded.
type DirectoryLoadError struct {
	Err error
}

// NewDirectoryLoadError wraps the cause of a failed directory load.
func NewDirectoryLoadError(err error) *DirectoryLoadError {
	return &DirectoryLoadError{Err: err}
}

func (e *DirectoryLoadError) Error() string {
	if e.Err == nil {
		return ErrDirectoryLoad.Error()
	}
	return fmt.Sprintf("%s: %v", ErrDirectoryLoad, e.Err)
}

// Is matches ErrDirectoryLoad.
func (e *DirectoryLoadError) Is(target error) bool {
	return target == ErrDirectoryLoad
}

func (e *DirectoryLoadError) Unwrap() error {
	return e.Err
}

// IsNotFound checks if an error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidationError checks if an error is a validation error.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// NewCapacityError reports that resource has hit its limit.
func NewCapacityError(resource string) *DomainError {
	return &DomainError{
		Base:    ErrCapacity,
		Message: resource,
	}
}

// IsCapacityError checks if an error is a capacity error.
func IsCapacityError(err error) bool {
	return errors.Is(err, ErrCapacity)
}

// IsDirectoryLoadError checks if an error came from a failed directory load.
func IsDirectoryLoadError(err error) bool {
	return errors.Is(err, ErrDirectoryLoad)
}
