package services

import (
	"errors"
	"fmt"
)

// GenericFailureMessage is the only text clients see for backend and parse failures.
const GenericFailureMessage = "Something went wrong. Please try again."

// ValidationError reports missing or empty input, caught before any backend call.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// BackendError wraps a failed completion, embedding, or fetch call.
type BackendError struct {
	Op  string
	Err error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// MalformedResponseError means the backend answered, but not in the expected shape.
// Raw holds the offending text for logs only.
type MalformedResponseError struct {
	Kind string
	Raw  string
	Err  error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed %s response: %v", e.Kind, e.Err)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func IsBackend(err error) bool {
	var b *BackendError
	return errors.As(err, &b)
}

func IsMalformed(err error) bool {
	var m *MalformedResponseError
	return errors.As(err, &m)
}
