package api

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
)

// Error is a non-2xx answer from the backend. Message holds the "error" (or
// legacy "message") field of the JSON body, when there was one.
type Error struct {
	Status  int
	Message string

	// bearer is set for calls made with the session token; a 401 there means
	// the session is gone.
	bearer bool
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api: %d %s", e.Status, http.StatusText(e.Status))
}

func (e *Error) Is(target error) bool {
	return target == ErrUnauthorized && e.bearer && e.Status == http.StatusUnauthorized
}

// Message returns the backend supplied message carried by err, or fallback
// when err carries none.
func Message(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
