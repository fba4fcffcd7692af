package triage

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// Kind is the category of a client-side failure. The taxonomy is deliberately
// small: callers render errors to the user and must not need to distinguish a
// DNS failure from a 500. Both are KindConnectionFailed.
type Kind string

const (
	// KindConnectionFailed covers network-level failure (DNS, refused
	// connection) and any non-success HTTP status alike.
	KindConnectionFailed Kind = "CONNECTION_FAILED"

	// KindEmptyInput marks blank required text, rejected at the boundary
	// before any network traffic.
	KindEmptyInput Kind = "EMPTY_INPUT"

	// KindStream marks a streaming-channel failure; it is delivered to the
	// caller's error handler, never thrown across the channel API.
	KindStream Kind = "STREAM_ERROR"

	// KindRequestTimedOut marks a call abandoned at its deadline.
	KindRequestTimedOut Kind = "REQUEST_TIMED_OUT"
)

// Error is the uniform failure record returned by every client call.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Status  int
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %s: %v", e.Kind, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Kind, e.Op, e.Message)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewError builds a typed client error for the given operation.
func NewError(kind Kind, op, message string, err error) *Error {
	return &Error{Kind: kind, Op: op, Message: message, Err: err}
}

// NewHTTPError builds a connection-failed error carrying the response status.
func NewHTTPError(op string, status int, body string) *Error {
	msg := fmt.Sprintf("service returned status %d", status)
	if body != "" {
		msg = fmt.Sprintf("service returned status %d: %s", status, body)
	}
	return &Error{Kind: KindConnectionFailed, Op: op, Message: msg, Status: status}
}

// IsKind reports whether err is a client Error of the given kind.
func IsKind(err error, kind Kind) bool {
	if err == nil {
		return false
	}
	var clientErr *Error
	if errors.As(err, &clientErr) {
		return clientErr.Kind == kind
	}
	return false
}

// UserMessage renders err as a short, user-facing sentence. Unknown errors
// fall back to the connection-problem wording so nothing technical leaks to
// the interface.
func UserMessage(err error) string {
	switch {
	case IsKind(err, KindEmptyInput):
		return "Please enter a description of your symptoms first."
	case IsKind(err, KindRequestTimedOut):
		return "The assessment service took too long to respond. Please try again."
	case IsKind(err, KindStream):
		return "The live chat connection was interrupted."
	default:
		return "Could not reach the assessment service. Please check your connection and try again."
	}
}

// LogError writes a structured record of a client error.
func LogError(logger zerolog.Logger, err *Error) {
	if err == nil {
		return
	}

	event := logger.Error().
		Str("error_kind", string(err.Kind)).
		Str("op", err.Op)

	if err.Status != 0 {
		event = event.Int("status", err.Status)
	}
	if err.Err != nil {
		event = event.Err(err.Err)
	}

	event.Msg(err.Message)
}
