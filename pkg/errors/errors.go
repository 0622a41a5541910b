// Package errors provides structured error types for idlgraph.
//
// Every failure the pipeline reports carries a machine-readable [Code] so the
// CLI (and any embedding tool) can branch on the failure class without parsing
// messages:
//   - INVALID_*: bad input files, configuration or model documents
//   - *_CYCLE, CIRCULAR_DEPENDENCY: dependency-graph failures
//   - ATTRIBUTE_CONFLICT, ABSTRACT_FIELD_TYPE, MISSING_MAP_MEMBER: transform failures
//   - INTERNAL_ERROR: unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidConfig, "unknown key %q", key)
//	if errors.Is(err, errors.ErrCodeInvalidConfig) {
//	    // Handle configuration error
//	}
//
// Domain packages define richer error types (for example
// depgraph.IllegalCycleError) that implement [Coder]; [GetCode] and [Is]
// recognize them anywhere in a wrapped chain.
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeInvalidModel  Code = "INVALID_MODEL"
	ErrCodeFileNotFound  Code = "FILE_NOT_FOUND"

	// Dependency graph errors
	ErrCodeCircularDependency Code = "CIRCULAR_DEPENDENCY"
	ErrCodeIllegalCycle       Code = "ILLEGAL_CYCLE"
	ErrCodeCrossModuleCycle   Code = "CROSS_MODULE_CYCLE"

	// Transform errors
	ErrCodeAttributeConflict Code = "ATTRIBUTE_CONFLICT"
	ErrCodeAbstractFieldType Code = "ABSTRACT_FIELD_TYPE"
	ErrCodeMissingMapMember  Code = "MISSING_MAP_MEMBER"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Coder is implemented by errors that carry a Code.
type Coder interface {
	ErrorCode() Code
}

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// ErrorCode implements Coder.
func (e *Error) ErrorCode() Code { return e.Code }

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether the outermost coded error in err's chain has the given
// code.
func Is(err error, code Code) bool {
	return err != nil && GetCode(err) == code
}

// GetCode extracts the error code from the first Coder in err's chain.
// Returns empty string if there is none.
func GetCode(err error) Code {
	var c Coder
	if errors.As(err, &c) {
		return c.ErrorCode()
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
