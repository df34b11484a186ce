// Package domainerrors provides coded errors for domain and service layers.
// Services attach a Code describing how a failure should be surfaced;
// transport maps codes to HTTP statuses without inspecting error strings.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code classifies a domain error for callers and transports.
type Code string

const (
	// CodeBadRequest: the request is well-formed but cannot be satisfied
	// (empty cart, below-minimum order).
	CodeBadRequest Code = "bad_request"
	// CodeInvalidInput: malformed input at a trust boundary (unparseable
	// price or stock, empty identifier). The store is left unmodified.
	CodeInvalidInput Code = "invalid_input"
	// CodeNotFound: the target entity does not exist.
	CodeNotFound Code = "not_found"
	// CodeUnauthorized: the caller did not identify itself.
	CodeUnauthorized Code = "unauthorized"
	// CodeConflict: the operation clashes with current state (stale cart
	// line, duplicate open ticket).
	CodeConflict Code = "conflict"
	// CodeForbidden: the caller lacks the capability for the operation.
	CodeForbidden Code = "forbidden"
	// CodeUnavailable: an external collaborator (log sink, gateway) is
	// unreachable; the operation can be retried.
	CodeUnavailable Code = "unavailable"
	// CodeInternal: unexpected failure; details stay out of responses.
	CodeInternal Code = "internal_error"
)

// Error is a coded error with an optional wrapped cause.
type Error struct {
	code  Code
	msg   string
	cause error
}

// New creates a coded error with no underlying cause.
func New(code Code, msg string) *Error {
	return &Error{code: code, msg: msg}
}

// Wrap annotates an underlying error with a code and message. The cause
// remains reachable through errors.Is/errors.As.
func Wrap(err error, code Code, msg string) *Error {
	return &Error{code: code, msg: msg, cause: err}
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.cause)
	}
	return e.msg
}

func (e *Error) Unwrap() error { return e.cause }

// Code returns the classification of this error.
func (e *Error) Code() Code { return e.code }

// Message returns the caller-safe description without the cause chain.
func (e *Error) Message() string { return e.msg }

// HasCode reports whether any error in the chain carries the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.code == code
	}
	return false
}

// CodeOf extracts the code from an error chain, defaulting to CodeInternal
// so unclassified failures never leak details to callers.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.code
	}
	return CodeInternal
}
