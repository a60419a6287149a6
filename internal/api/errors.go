package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors callers branch on with errors.Is.
var (
	// ErrUnauthorized is returned for a 401 on any authenticated call.
	// Callers must treat it as a session-expired signal, not a local failure.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound is returned when the server reports the target is gone.
	ErrNotFound = errors.New("not found")
)

// StatusError carries the HTTP status and the server's error message,
// extracted from the uniform {"error": text} body.
type StatusError struct {
	Status  int
	Message string
}

// Error returns the server message when present, otherwise the status text.
func (e *StatusError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("server returned %d %s", e.Status, http.StatusText(e.Status))
}

// Unwrap maps well-known statuses onto the package sentinels.
func (e *StatusError) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	}
	return nil
}
