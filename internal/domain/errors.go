package domain

import (
	"encoding/json"
	"fmt"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	ErrInternal     ErrorCode = "INTERNAL_ERROR"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrExamNotFound ErrorCode = "EXAM_NOT_FOUND"

	// Generation pipeline errors
	ErrNotConfigured        ErrorCode = "NOT_CONFIGURED"
	ErrTransport            ErrorCode = "TRANSPORT_ERROR"
	ErrNoContentGenerated   ErrorCode = "NO_CONTENT_GENERATED"
	ErrMalformedAIResponse  ErrorCode = "MALFORMED_AI_RESPONSE"
	ErrInvalidExamStructure ErrorCode = "INVALID_EXAM_STRUCTURE"
	ErrModelFetch           ErrorCode = "MODEL_FETCH_ERROR"
	ErrGenerationInProgress ErrorCode = "GENERATION_IN_PROGRESS"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
	})
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Helper functions for common errors
func NewInternalError(message string, err error) *DomainError {
	return NewError(ErrInternal, message, err)
}

func NewInvalidInputError(message string) *DomainError {
	return NewError(ErrInvalidInput, message, nil)
}

func NewExamNotFoundError(examID string) *DomainError {
	return NewError(ErrExamNotFound, fmt.Sprintf("Exam not found with ID: %s", examID), nil)
}

func NewNotConfiguredError() *DomainError {
	return NewError(ErrNotConfigured, "OpenRouter API token not configured", nil)
}

func NewTransportError(message string, err error) *DomainError {
	return NewError(ErrTransport, message, err)
}

func NewNoContentGeneratedError() *DomainError {
	return NewError(ErrNoContentGenerated, "No content generated from OpenRouter API", nil)
}

func NewMalformedAIResponseError(err error) *DomainError {
	return NewError(ErrMalformedAIResponse, "Failed to parse AI-generated content: Invalid JSON format", err)
}

func NewInvalidExamStructureError(message string) *DomainError {
	return NewError(ErrInvalidExamStructure, fmt.Sprintf("AI-generated content validation failed: %s", message), nil)
}

func NewModelFetchError(err error) *DomainError {
	return NewError(ErrModelFetch, "Failed to fetch models from OpenRouter API", err)
}

func NewGenerationInProgressError() *DomainError {
	return NewError(ErrGenerationInProgress, "An exam generation is already in progress", nil)
}
