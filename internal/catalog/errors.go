package catalog

import (
	"errors"
	"fmt"
)

// Failure kinds. Every error returned by Client.Fetch matches exactly one of
// these with errors.Is.
var (
	// ErrTransport means no response was received.
	ErrTransport = errors.New("transport failure")
	// ErrProtocol means a response arrived but was not a valid envelope.
	ErrProtocol = errors.New("protocol failure")
	// ErrApplication means the envelope reported success=false.
	ErrApplication = errors.New("application failure")
)

// Error describes a failed catalog request.
type Error struct {
	Kind      error
	Op        string // request URL, relative to the service base
	RequestID string
	Status    int // HTTP status; zero for transport failures
	Message   string
	Err       error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%v: %s", e.Kind, e.Op)
	if e.Status >= 300 {
		msg += fmt.Sprintf(" (status %d)", e.Status)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes both the failure kind and the underlying cause.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Kind returns the failure kind of err, or nil when err is not a catalog error.
func Kind(err error) error {
	for _, kind := range []error{ErrTransport, ErrProtocol, ErrApplication} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}
