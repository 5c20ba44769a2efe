package errors

import (
	"errors"
	"fmt"
)

// Category represents the type of error.
type Category string

const (
	CategoryInvariant Category = "invariant"
	CategoryCommit    Category = "commit"
	CategoryConfig    Category = "config"
	CategoryBlueprint Category = "blueprint"
	CategoryArchive   Category = "archive"
	CategoryInspector Category = "inspector"
)

// TreeError is a structured error with a registered code and the node it
// concerns, if any.
type TreeError struct {
	// Code is a unique error identifier (e.g., "E101").
	Code string

	// Category is the error type (invariant, commit, etc.).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Op is the operation that failed (e.g., "shadow.AppendChild").
	Op string

	// Tag is the tag of the node involved, or 0.
	Tag int32

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *TreeError) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Tag != 0 {
		msg = fmt.Sprintf("%s (tag %d)", msg, e.Tag)
	}
	if e.Wrapped != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Wrapped)
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *TreeError) Unwrap() error {
	return e.Wrapped
}

// Is reports whether target is a *TreeError with the same code.
func (e *TreeError) Is(target error) bool {
	t, ok := target.(*TreeError)
	if !ok {
		return false
	}
	return t.Code != "" && t.Code == e.Code
}

// WithOp records the failing operation.
func (e *TreeError) WithOp(op string) *TreeError {
	e.Op = op
	return e
}

// WithTag records the tag of the node involved.
func (e *TreeError) WithTag(tag int32) *TreeError {
	e.Tag = tag
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *TreeError) WithDetail(d string) *TreeError {
	e.Detail = d
	return e
}

// WithDetailf adds a formatted detailed explanation to the error.
func (e *TreeError) WithDetailf(format string, args ...any) *TreeError {
	e.Detail = fmt.Sprintf(format, args...)
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *TreeError) WithSuggestion(s string) *TreeError {
	e.Suggestion = s
	return e
}

// Wrap wraps another error.
func (e *TreeError) Wrap(err error) *TreeError {
	e.Wrapped = err
	return e
}

// New creates a TreeError from a registered error code.
func New(code string) *TreeError {
	template, ok := registry[code]
	if !ok {
		return &TreeError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &TreeError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		Detail:   template.Detail,
	}
}

// Newf creates a new TreeError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *TreeError {
	return &TreeError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// Invariant creates an invariant-violation error for op. The caller panics
// with the result.
func Invariant(code, op string) *TreeError {
	return New(code).WithOp(op)
}

// FromError wraps a standard error in a TreeError.
func FromError(err error, code string) *TreeError {
	if err == nil {
		return nil
	}
	var te *TreeError
	if errors.As(err, &te) {
		return te
	}
	return New(code).Wrap(err)
}

// AsTreeError extracts a *TreeError from a recovered panic value or an error.
func AsTreeError(v any) (*TreeError, bool) {
	switch x := v.(type) {
	case *TreeError:
		return x, x != nil
	case error:
		var te *TreeError
		if errors.As(x, &te) {
			return te, true
		}
	}
	return nil, false
}

// HasCode reports whether v (an error or recovered panic value) carries code.
func HasCode(v any, code string) bool {
	te, ok := AsTreeError(v)
	return ok && te.Code == code
}
