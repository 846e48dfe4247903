package session

import (
	"errors"
	"fmt"
)

// Sentinel errors surfaced by the store and its API client. Callers branch
// with errors.Is; the error text carries the server-provided message when
// one was returned.
var (
	// ErrInvalidCredentials is returned when the server rejects an email
	// and password pair. Recoverable; the user retries.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrSessionExpired is returned when a previously valid token is
	// rejected by the server. The store purges local state automatically.
	ErrSessionExpired = errors.New("session expired")

	// ErrMalformedResponse is returned when the server reports success but
	// omits the token or user record. Treated as a hard failure; the store
	// never proceeds with a partial session.
	ErrMalformedResponse = errors.New("malformed server response")

	// ErrSuperseded is returned to a caller whose request was overtaken by
	// a newer mutating call; its response was discarded.
	ErrSuperseded = errors.New("request superseded")
)

// serverError wraps a sentinel with the human-readable message from the
// server response, falling back to the sentinel text when absent.
func serverError(sentinel error, message string) error {
	if message == "" {
		return sentinel
	}
	return fmt.Errorf("%s: %w", message, sentinel)
}
