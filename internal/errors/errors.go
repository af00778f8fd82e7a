// Package errors provides structured error handling with context propagation
// and HTTP status code mapping.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType represents the category of error for metrics and response
// formatting.
type ErrorType string

const (
	// TypeValidation indicates invalid request input (HTTP 400)
	TypeValidation ErrorType = "validation"
	// TypeInputEmpty indicates no text and no audio were supplied (HTTP 400)
	TypeInputEmpty ErrorType = "input_empty"
	// TypeCSVFormat indicates an upload that cannot serve as batch input,
	// such as a missing text column (HTTP 400)
	TypeCSVFormat ErrorType = "csv_format"
	// TypeNotFound indicates an unknown batch or resource (HTTP 404)
	TypeNotFound ErrorType = "not_found"
	// TypeInference indicates model inference failed for a whole request
	// (HTTP 500); per-record failures inside a batch are annotated in the
	// results table instead
	TypeInference ErrorType = "inference"
	// TypeTranscription indicates the speech service failed; retryable,
	// the caller should prompt for a re-record (HTTP 502)
	TypeTranscription ErrorType = "transcription"
	// TypeInternal indicates any other server-side error (HTTP 500)
	TypeInternal ErrorType = "internal"
)

// Error represents a structured error with type, message, and context.
type Error struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// HTTPStatus returns the appropriate HTTP status code for this error type.
func (e *Error) HTTPStatus() int {
	switch e.Type {
	case TypeValidation, TypeInputEmpty, TypeCSVFormat:
		return http.StatusBadRequest
	case TypeNotFound:
		return http.StatusNotFound
	case TypeTranscription:
		return http.StatusBadGateway
	case TypeInference, TypeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// Retryable reports whether the caller can reasonably retry the same
// request, such as re-recording after a transcription failure.
func (e *Error) Retryable() bool {
	return e.Type == TypeTranscription
}

// ValidationError creates a new validation error (HTTP 400).
func ValidationError(message string) *Error {
	return &Error{
		Type:    TypeValidation,
		Message: message,
		Context: make(map[string]any),
	}
}

// InputEmptyError creates a new empty-input error (HTTP 400).
func InputEmptyError(message string) *Error {
	return &Error{
		Type:    TypeInputEmpty,
		Message: message,
		Context: make(map[string]any),
	}
}

// CSVFormatError creates a new CSV format error (HTTP 400).
func CSVFormatError(message string) *Error {
	return &Error{
		Type:    TypeCSVFormat,
		Message: message,
		Context: make(map[string]any),
	}
}

// NotFoundError creates a new not-found error (HTTP 404).
func NotFoundError(message string) *Error {
	return &Error{
		Type:    TypeNotFound,
		Message: message,
		Context: make(map[string]any),
	}
}

// InferenceError creates a new model inference error (HTTP 500).
func InferenceError(message string, cause error) *Error {
	return &Error{
		Type:    TypeInference,
		Message: message,
		Cause:   cause,
		Context: make(map[string]any),
	}
}

// TranscriptionError creates a new transcription error (HTTP 502).
func TranscriptionError(message string, cause error) *Error {
	return &Error{
		Type:    TypeTranscription,
		Message: message,
		Cause:   cause,
		Context: make(map[string]any),
	}
}

// InternalError creates a new internal error (HTTP 500).
func InternalError(message string, cause error) *Error {
	return &Error{
		Type:    TypeInternal,
		Message: message,
		Cause:   cause,
		Context: make(map[string]any),
	}
}

// WithContext adds context fields to the error (chainable).
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// ErrorResponse represents the JSON structure sent to clients.
type ErrorResponse struct {
	Error     string         `json:"error"`
	Type      ErrorType      `json:"type"`
	Retryable bool           `json:"retryable,omitempty"`
	Context   map[string]any `json:"context,omitempty"`
}

// ToResponse converts an Error to an ErrorResponse for JSON serialization.
func (e *Error) ToResponse() ErrorResponse {
	return ErrorResponse{
		Error:     e.Message,
		Type:      e.Type,
		Retryable: e.Retryable(),
		Context:   e.Context,
	}
}

// AsStructuredError converts any error into a structured Error.
// If err is already an *Error, returns it unchanged.
// Otherwise wraps it as an internal error.
func AsStructuredError(err error) *Error {
	if err == nil {
		return nil
	}

	var structuredErr *Error
	if errors.As(err, &structuredErr) {
		return structuredErr
	}

	return InternalError("internal server error", err)
}
