// Package errors provides structured error handling for featherpmm
package errors

import (
	"errors"
	"runtime"

	stringpool "github.com/ajitpratap0/featherpmm/pkg/strings"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeInternal represents internal system errors
	ErrorTypeInternal ErrorType = "internal"
	// ErrorTypeFile represents file operation errors
	ErrorTypeFile ErrorType = "file"

	// Construction-time errors raised by the typed record model.

	// ErrorTypeUnknownAttribute is raised for a named argument that no
	// attribute group declares
	ErrorTypeUnknownAttribute ErrorType = "unknown_attribute"
	// ErrorTypeTooManyArguments is raised when positional arguments exceed
	// the declared required+defaulted attributes
	ErrorTypeTooManyArguments ErrorType = "too_many_arguments"
	// ErrorTypeMissingRequiredAttribute is raised when a required attribute
	// is left unset after construction
	ErrorTypeMissingRequiredAttribute ErrorType = "missing_required_attribute"
	// ErrorTypeTypeMismatch is raised when a value cannot be coerced to an
	// attribute's declared type
	ErrorTypeTypeMismatch ErrorType = "type_mismatch"

	// Validation-time errors.

	// ErrorTypeFieldCountMismatch is raised when fieldcount disagrees with
	// the actual field list length
	ErrorTypeFieldCountMismatch ErrorType = "field_count_mismatch"
	// ErrorTypeUnsupportedFormatVersion is raised for a pmmversion other
	// than the supported one
	ErrorTypeUnsupportedFormatVersion ErrorType = "unsupported_format_version"
	// ErrorTypeDuplicateFieldName is raised when field names are not unique
	ErrorTypeDuplicateFieldName ErrorType = "duplicate_field_name"
	// ErrorTypeUnknownCanonicalType is raised for a field type outside the
	// closed canonical type set
	ErrorTypeUnknownCanonicalType ErrorType = "unknown_canonical_type"

	// ErrorTypeUnknownStorageType is raised when a table column's storage
	// type has no canonical mapping
	ErrorTypeUnknownStorageType ErrorType = "unknown_storage_type"
	// ErrorTypeTableUnavailable is raised when the host table system cannot
	// supply the table file
	ErrorTypeTableUnavailable ErrorType = "table_unavailable"
)

// Error represents a structured error with context
type Error struct {
	Type    ErrorType
	Message string
	Cause   error
	Details map[string]interface{}
	Stack   []StackFrame
}

// StackFrame represents a single frame in the call stack
type StackFrame struct {
	Function string
	File     string
	Line     int
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return stringpool.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return stringpool.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithDetail adds a key-value detail to the error
func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// New creates a new error with the given type and message
func New(errType ErrorType, message string) *Error {
	return &Error{
		Type:    errType,
		Message: message,
		Stack:   captureStack(2),
	}
}

// Newf creates a new error with a formatted message
func Newf(errType ErrorType, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errType,
		Message: stringpool.Sprintf(format, args...),
		Stack:   captureStack(2),
	}
}

// Wrap wraps an existing error with additional context
func Wrap(err error, errType ErrorType, message string) *Error {
	if err == nil {
		return nil
	}

	// If already our error type, preserve the stack
	var existingErr *Error
	if errors.As(err, &existingErr) {
		return &Error{
			Type:    errType,
			Message: message,
			Cause:   err,
			Stack:   existingErr.Stack,
		}
	}

	return &Error{
		Type:    errType,
		Message: message,
		Cause:   err,
		Stack:   captureStack(2),
	}
}

// IsType checks if the error is of the given type
func IsType(err error, errType ErrorType) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Type == errType
}

// captureStack captures the current call stack
func captureStack(skip int) []StackFrame {
	const maxFrames = 32
	frames := make([]StackFrame, 0, maxFrames)

	for i := skip; i < maxFrames+skip; i++ {
		pc, file, line, ok := runtime.Caller(i)
		if !ok {
			break
		}

		fn := runtime.FuncForPC(pc)
		if fn == nil {
			continue
		}

		frames = append(frames, StackFrame{
			Function: fn.Name(),
			File:     file,
			Line:     line,
		})
	}

	return frames
}
