package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors used across all layers.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrValidation    = errors.New("validation error")
	ErrForbidden     = errors.New("forbidden")
	ErrConflict      = errors.New("conflict")
)

// FieldError describes an error for a specific request field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError contains a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	return describe("validation", e.Errors)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Fields returns the errors keyed by field. When a field failed more than once
// the first message is kept.
func (e *ValidationError) Fields() map[string]string {
	return fieldMap(e.Errors)
}

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Errors: []FieldError{{Field: field, Message: message}},
	}
}

// NewValidationErrors creates a ValidationError from multiple field errors.
func NewValidationErrors(errs []FieldError) *ValidationError {
	return &ValidationError{Errors: errs}
}

// AuthorizationError reports that the caller may not act on a resource,
// e.g. paying a debt owned by another user.
type AuthorizationError struct {
	Errors []FieldError
}

func (e *AuthorizationError) Error() string {
	return describe("authorization", e.Errors)
}

func (e *AuthorizationError) Unwrap() error { return ErrForbidden }

// Fields returns the errors keyed by field, first message wins.
func (e *AuthorizationError) Fields() map[string]string {
	return fieldMap(e.Errors)
}

// NewAuthorizationError creates an AuthorizationError for a single field.
func NewAuthorizationError(field, message string) *AuthorizationError {
	return &AuthorizationError{
		Errors: []FieldError{{Field: field, Message: message}},
	}
}

func describe(kind string, errs []FieldError) string {
	if len(errs) == 1 {
		return fmt.Sprintf("%s: %s: %s", kind, errs[0].Field, errs[0].Message)
	}
	return fmt.Sprintf("%s: %d errors", kind, len(errs))
}

func fieldMap(errs []FieldError) map[string]string {
	m := make(map[string]string, len(errs))
	for _, fe := range errs {
		if _, ok := m[fe.Field]; !ok {
			m[fe.Field] = fe.Message
		}
	}
	return m
}
