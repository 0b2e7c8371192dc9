// Package apperrors defines the error taxonomy shared by the policy,
// workflow and dispatch layers. Every business-rule rejection is one of
// these kinds; the dispatcher converts them into the uniform result shape
// and nothing else should cross the controller boundary.
package apperrors

import "fmt"

type Kind int

const (
	// KindUnauthorized means no verified identity was present.
	KindUnauthorized Kind = iota
	// KindForbidden means the identity lacks the privilege or ownership.
	KindForbidden
	// KindNotFound means the target entity does not exist. Ownership
	// denials reuse this kind so existence is not leaked.
	KindNotFound
	// KindInvalidTransition means a workflow guard rejected the status change.
	KindInvalidTransition
	// KindConflict means a duplicate-resource guard fired.
	KindConflict
	// KindValidation means the input was malformed.
	KindValidation
	// KindStore means the repository or a transaction failed. The detail is
	// logged internally and never surfaced to the caller.
	KindStore
)

type Error struct {
	Kind    Kind
	Message string
	// Detail carries extra data for the caller, e.g. the conflicting tool
	// on a duplicate submission.
	Detail any
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Unauthorized(message string) *Error { return New(KindUnauthorized, message) }

func Forbidden(message string) *Error { return New(KindForbidden, message) }

func NotFound(message string) *Error { return New(KindNotFound, message) }

func InvalidTransition(message string) *Error { return New(KindInvalidTransition, message) }

func Conflict(message string, detail any) *Error {
	return &Error{Kind: KindConflict, Message: message, Detail: detail}
}

func Validation(message string) *Error { return New(KindValidation, message) }

func Store(err error) *Error {
	return &Error{Kind: KindStore, Message: "operation failed", Err: err}
}

// KindOf extracts the taxonomy kind from an error. Unknown errors are
// treated as store failures, keeping the boundary fail-closed.
func KindOf(err error) Kind {
	if e, ok := err.(*Error); ok {
		return e.Kind
	}
	return KindStore
}

// As returns the typed error when err belongs to the taxonomy.
func As(err error) (*Error, bool) {
	e, ok := err.(*Error)
	return e, ok
}
