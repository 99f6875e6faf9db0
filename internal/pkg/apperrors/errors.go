package apperrors

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// Resource errors
	ErrNotFound = errors.New("resource not found")
	ErrConflict = errors.New("conflict")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrInvalidFormat      = errors.New("invalid token format")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
)

// EntityNotFoundError is raised when a lookup by primary key finds no row.
// Its message is part of the API contract.
type EntityNotFoundError struct {
	Entity string
	ID     any
}

// NewEntityNotFoundError creates the not-found error for entity and id
func NewEntityNotFoundError(entity string, id any) *EntityNotFoundError {
	return &EntityNotFoundError{Entity: entity, ID: id}
}

func (e *EntityNotFoundError) Error() string {
	return fmt.Sprintf("%s with id %v not found", e.Entity, e.ID)
}

// Is makes errors.Is(err, ErrNotFound) hold for every EntityNotFoundError
func (e *EntityNotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewConflictError creates a new custom error for conflict situations with a message
func NewConflictError(message string) error {
	return &CustomError{
		Err:     ErrConflict,
		Message: message,
	}
}

// NewForbiddenError creates a new custom error for permission denied with a message
func NewForbiddenError(message string) error {
	return &CustomError{
		Err:     ErrPermissionDenied,
		Message: message,
	}
}

// NewValidationError creates a validation failure carrying per-field details
func NewValidationError(message string, details map[string]string) *CustomError {
	e := &CustomError{
		Err:     ErrValidationFailed,
		Message: message,
	}
	if len(details) > 0 {
		e.Details = details
	}
	return e
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Details map[string]string
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]string) *CustomError {
	e.Details = details
	return e
}
