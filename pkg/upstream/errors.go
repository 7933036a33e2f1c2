package upstream

import (
	"errors"
	"fmt"
)

// Failure kinds surfaced by the client. Match them with errors.Is.
var (
	// ErrRateLimited is returned when upstream answered 429 and the retry
	// budget is spent.
	ErrRateLimited = errors.New("upstream rate limit exceeded")

	// ErrNotFound is returned when upstream answered 404.
	ErrNotFound = errors.New("employee not found upstream")

	// ErrUnavailable is returned for connection-level failures.
	ErrUnavailable = errors.New("upstream service unavailable")

	// ErrMalformed is returned when a response body does not decode into the
	// expected envelope.
	ErrMalformed = errors.New("malformed upstream response")

	// ErrUnexpectedStatus is returned for any other non-2xx response.
	ErrUnexpectedStatus = errors.New("unexpected upstream status")
)

// Error describes a failed upstream operation.
type Error struct {
	// Op is the client operation, e.g. "FetchAll".
	Op string

	// Err is the underlying failure, usually one of the sentinel errors.
	Err error

	// Msg is optional additional context.
	Msg string

	// StatusCode is the HTTP status upstream answered with, or 0 when no
	// response was received.
	StatusCode int
}

func (e *Error) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
