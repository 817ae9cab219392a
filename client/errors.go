package client

import (
	"fmt"

	types "github.com/agentic-mesh/a2a/types"
)

// TransportError represents a failed network exchange with another agent:
// connection failure, timeout, non-2xx status, or an undecodable reply.
//
// When the remote agent answered with a non-2xx status whose body still
// decoded to an envelope, Envelope carries it so callers can extract the
// structured error even from a failed call.
type TransportError struct {
	URL        string
	StatusCode int
	Envelope   *types.Message
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("a2a transport error: %s returned status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("a2a transport error: %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// NewTransportError creates a TransportError for a network-level failure
func NewTransportError(url string, err error) error {
	return &TransportError{URL: url, Err: err}
}

// NewTransportStatusError creates a TransportError for a non-2xx reply,
// attaching the reply envelope when the body decoded to one.
func NewTransportStatusError(url string, statusCode int, envelope *types.Message) error {
	return &TransportError{URL: url, StatusCode: statusCode, Envelope: envelope}
}
