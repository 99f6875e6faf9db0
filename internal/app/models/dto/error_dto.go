package dto

import (
	"time"
)

// Error types reported in ErrorResponse.Type
const (
	ErrorTypeEntityNotFound      = "EntityNotFoundException"
	ErrorTypeValidation          = "ValidationException"
	ErrorTypeAccessDenied        = "AccessDeniedException"
	ErrorTypeBadCredentials      = "BadCredentialsException"
	ErrorTypeDataIntegrity       = "DataIntegrityViolationException"
	ErrorTypeInternalServerError = "InternalServerError"
)

// ErrorResponse represents the standard error response structure
type ErrorResponse struct {
	Type      string            `json:"type" example:"EntityNotFoundException"`
	Message   string            `json:"message" example:"Book with id 7 not found"`
	Details   map[string]string `json:"details,omitempty"`
	Timestamp time.Time         `json:"timestamp" example:"2025-04-23T12:01:05.123Z"`
}

// NewErrorResponse creates a standard error response
func NewErrorResponse(errorType, message string) *ErrorResponse {
	return &ErrorResponse{
		Type:      errorType,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// WithDetails adds per-field details to the error
func (e *ErrorResponse) WithDetails(details map[string]string) *ErrorResponse {
	e.Details = details
	return e
}
