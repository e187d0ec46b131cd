package api

import "errors"

var (
	// ErrUnavailable indicates the scheduler backend is unreachable.
	ErrUnavailable = errors.New("scheduler backend unavailable")

	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrServer is the generic fallback when a failed response carries
	// no human-readable message.
	ErrServer = errors.New("server reported an error")
)

// Error is a server-reported domain error. The backend's message is
// surfaced to the user verbatim; Message falls back to a generic text
// when the server sent none.
type Error struct {
	Code    string
	Message string
	Details map[string]any
}

func (e *Error) Error() string {
	if e.Message == "" {
		return ErrServer.Error()
	}
	return e.Message
}

// Unwrap lets errors.Is(err, ErrServer) match any server-reported error.
func (e *Error) Unwrap() error {
	return ErrServer
}
