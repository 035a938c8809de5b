// Package serrors provides semantic error kinds shared by the scanning layers.
// A kind tells callers how a failure should be treated (rejected input, a
// transport problem, a bad upstream answer) while the message stays human
// readable and the diagnostic keeps whatever raw context was available.
package serrors

import (
	"errors"
	"fmt"
)

// Kind is a marker interface implemented by all semantic error kinds created
// with NewKind. It allows distinguishing semantic kinds from ordinary errors.
type Kind interface {
	error
	isKind()
}

// kind is an unexported implementation of Kind used as a sentinel value for a
// semantic error category.
type kind struct{ s string }

func (k kind) Error() string { return k.s }
func (k kind) isKind()       {}

// NewKind creates a new semantic error kind (a sentinel) with the provided
// name. Kinds are comparable and can be used with errors.Is/As through the
// serrors.Error wrapper.
func NewKind(name string) Kind { return kind{s: name} }

var (
	// ErrValidation indicates a scan request was rejected locally before any
	// network call (missing parameter, malformed address, missing API key).
	ErrValidation = NewKind("VALIDATION")
	// ErrTransport indicates the request never produced an HTTP response:
	// retries on timeout were exhausted or the transport failed outright.
	ErrTransport = NewKind("TRANSPORT")
	// ErrUpstream indicates the scanning service answered but the answer is a
	// failure: a non-200 status, an unreadable body or an embedded failure status.
	ErrUpstream = NewKind("UPSTREAM")
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = NewKind("NOT_FOUND")
	// ErrUnauthorized indicates missing or invalid authentication.
	ErrUnauthorized = NewKind("UNAUTHORIZED")
)

// Error represents a semantic error carrying a kind (sentinel), an optional
// wrapped error, a message and an optional diagnostic. It fully supports
// errors.Is/errors.As and unwrapping.
//
// Error string formatting:
//   - If both msg and err are set: "<msg>: <err>"
//   - If only msg is set: "<msg>"
//   - If only err is set: "<err>"
//   - If neither set: the kind's Error() string.
//
// The diagnostic never takes part in Error(); it is raw context (a truncated
// response body, transport error text) meant for result payloads.
type Error struct {
	kind       Kind  // semantic kind sentinel
	err        error // wrapped error (optional)
	msg        string
	diagnostic string
}

// With constructs a new semantic error with the given kind and an arbitrary
// human-readable message. Use Wrap if you also want to wrap a concrete cause.
func With(k Kind, msgFmt string, args ...any) *Error {
	return &Error{kind: k, msg: fmt.Sprintf(msgFmt, args...)}
}

// Wrap constructs a new semantic error with the given kind, wraps the provided
// cause (err) and allows adding an arbitrary message.
func Wrap(k Kind, err error, msgFmt string, args ...any) *Error {
	return &Error{kind: k, err: err, msg: fmt.Sprintf(msgFmt, args...)}
}

// KindOnly creates a semantic error carrying only the kind without extra
// message or concrete cause.
func KindOnly(k Kind) *Error { return &Error{kind: k} }

// WithDiagnostic returns a copy of e carrying the given diagnostic text.
func (e *Error) WithDiagnostic(diagnostic string) *Error {
	cp := *e
	cp.diagnostic = diagnostic

	return &cp
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e == nil:
		return "<nil>"
	case e.msg != "" && e.err != nil:
		return e.msg + ": " + e.err.Error()
	case e.msg != "":
		return e.msg
	case e.err != nil:
		return e.err.Error()
	default:
		if e.kind != nil {
			return e.kind.Error()
		}

		return "unknown error"
	}
}

// Unwrap returns the wrapped error, enabling errors.Unwrap/Is/As to traverse
// the underlying cause chain.
func (e *Error) Unwrap() error { return e.err }

// Is enables matching against either the semantic kind sentinel or the wrapped
// error in the chain.
func (e *Error) Is(target error) bool {
	if e == nil || target == nil {
		return e == nil && target == nil
	}
	if e.kind != nil && errors.Is(e.kind, target) {
		return true
	}
	if e.err != nil && errors.Is(e.err, target) {
		return true
	}

	return false
}

// As enables type assertions against either the semantic kind sentinel or the
// wrapped error in the chain.
func (e *Error) As(target any) bool {
	if e == nil || target == nil {
		return false
	}
	if e.kind != nil && errors.As(e.kind, target) {
		return true
	}
	if e.err != nil && errors.As(e.err, target) {
		return true
	}

	return false
}

// Kind returns the semantic kind sentinel associated with this error, or nil.
func (e *Error) Kind() Kind { return e.kind }

// Message returns the message attached to this error without the cause.
func (e *Error) Message() string { return e.msg }

// Cause returns the wrapped cause (may be nil).
func (e *Error) Cause() error { return e.err }

// Diagnostic returns the raw diagnostic text attached to this error.
func (e *Error) Diagnostic() string { return e.diagnostic }

// MessageOf returns the semantic message of err when it is (or wraps) an
// *Error, and err.Error() otherwise.
func MessageOf(err error) string {
	var se *Error
	if errors.As(err, &se) && se.msg != "" {
		return se.msg
	}

	return err.Error()
}

// DiagnosticOf returns the diagnostic of err when it is (or wraps) an *Error
// carrying one, and err.Error() otherwise.
func DiagnosticOf(err error) string {
	var se *Error
	if errors.As(err, &se) && se.diagnostic != "" {
		return se.diagnostic
	}

	return err.Error()
}
