package errors

import (
	stderrors "errors"
	"fmt"
)

// Category represents the type of error.
type Category string

const (
	CategoryLifecycle Category = "lifecycle"
	CategoryRouting   Category = "routing"
	CategoryNetwork   Category = "network"
	CategoryStorage   Category = "storage"
	CategoryConfig    Category = "config"
)

// Error is a structured error with a registry code, a hint, and an optional cause.
type Error struct {
	// Code is a unique error identifier (e.g., "E101").
	Code string

	// Category is the error type (lifecycle, routing, etc.).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation specific to this occurrence.
	Detail string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = e.Code + ": " + msg
	}
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Wrapped
}

// Is reports whether target is an *Error with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code != "" && t.Code == e.Code
}

// WithDetail adds an occurrence-specific explanation to the error.
func (e *Error) WithDetail(format string, args ...any) *Error {
	if len(args) > 0 {
		e.Detail = fmt.Sprintf(format, args...)
	} else {
		e.Detail = format
	}
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *Error) WithSuggestion(s string) *Error {
	e.Suggestion = s
	return e
}

// Wrap wraps another error.
func (e *Error) Wrap(err error) *Error {
	e.Wrapped = err
	return e
}

// New creates an Error from a registered error code.
func New(code string) *Error {
	template, ok := registry[code]
	if !ok {
		return &Error{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &Error{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
	}
}

// Newf creates a new Error with a formatted message (no code).
func Newf(category Category, format string, args ...any) *Error {
	return &Error{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in an Error.
// An error that already is an *Error is returned unchanged.
func FromError(err error, code string) *Error {
	if err == nil {
		return nil
	}
	var fe *Error
	if stderrors.As(err, &fe) {
		return fe
	}
	return New(code).Wrap(err)
}

// IsCode reports whether any error in err's chain is an *Error with code.
func IsCode(err error, code string) bool {
	return stderrors.Is(err, &Error{Code: code})
}

// CodeOf returns the code of the first *Error in err's chain, or "".
func CodeOf(err error) string {
	var fe *Error
	if stderrors.As(err, &fe) {
		return fe.Code
	}
	return ""
}
