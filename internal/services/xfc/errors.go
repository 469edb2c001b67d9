package xfc

import (
	"errors"
	"fmt"
)

// ErrNotInitialized is returned when the server answers 404 to a
// user-scoped request, meaning the user has not run init yet.
var ErrNotInitialized = errors.New("user not initialised")

// ServerError represents a non-2xx, non-404 response from the server.
// Message carries the server-supplied error string when the body was
// parseable JSON, and is empty otherwise.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("server returned status %d", e.StatusCode)
}

// ProtocolError represents a 2xx response whose body did not match the
// expected shape for the endpoint.
type ProtocolError struct {
	Endpoint string
	Err      error
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("unexpected response from %s: %v", e.Endpoint, e.Err)
}

func (e *ProtocolError) Unwrap() error {
	return e.Err
}

// NetworkError represents a transport-level failure: the request never
// produced an HTTP response.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return e.Err.Error()
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// IsNetworkError reports whether err (or anything it wraps) is a
// transport failure rather than a server-reported one.
func IsNetworkError(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}
