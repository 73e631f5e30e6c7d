// Package apperror defines the error kinds shared by the service and handler layers.
//
// Every AppError wraps one of the sentinel errors below, so callers branch with
// errors.Is and the HTTP layer maps the kind to a status code. The Field/Fields
// pair carries the client-facing error map: {"email": "Email already exists"}.
package apperror

import (
	"errors"
	"maps"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("Validation Error")
	ErrConflict     = errors.New("conflict")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
)

// AppError is an error the client may see. Err is one of the sentinels
// above, so errors.Is(err, ErrNotFound) works through any wrapping.
type AppError struct {
	Err     error             // sentinel kind
	Message string            // Human-readable error message
	Field   string            // Optional: field causing the error
	Fields  map[string]string // Optional: full field -> message map (validation)
}

func (e *AppError) Error() string {
	if e.Message == "" && len(e.Fields) > 0 {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Body returns the error map sent to clients.
//
// Validation errors return every failing field. Single-field errors return
// {Field: Message}; errors without a field fall back to {"error": Message}.
func (e *AppError) Body() map[string]string {
	if len(e.Fields) > 0 {
		return maps.Clone(e.Fields)
	}
	key := e.Field
	if key == "" {
		key = "error"
	}
	return map[string]string{key: e.Message}
}

// NotFound reports a missing resource as {field: message}.
func NotFound(field, message string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: message,
		Field:   field,
	}
}

// ValidationFailed reports a single rejected field.
func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// Invalid wraps a complete validation error map.
func Invalid(fields map[string]string) *AppError {
	return &AppError{
		Err:    ErrValidation,
		Fields: maps.Clone(fields),
	}
}

// Conflict reports a unique-constraint violation (duplicate email, taken handle).
func Conflict(field, message string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: message,
		Field:   field,
	}
}

// Forbidden returns an AppError indicating the caller does not own the resource.
func Forbidden(field, message string) *AppError {
	return &AppError{
		Err:     ErrForbidden,
		Message: message,
		Field:   field,
	}
}

// Unauthorized reports bad credentials or a missing/invalid token.
func Unauthorized(field, message string) *AppError {
	return &AppError{
		Err:     ErrUnauthorized,
		Message: message,
		Field:   field,
	}
}
