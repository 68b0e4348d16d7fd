package client

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrMalformedResponse is returned when the server answers 2xx with a body
// that does not decode into a well-formed document.
var ErrMalformedResponse = errors.New("malformed response from server")

// AuthError means the request was refused because the session is missing,
// invalid or expired. The stored credential should be discarded.
type AuthError struct {
	StatusCode int // 0 when no request was sent because no credential was available
	Message    string
}

func (e *AuthError) Error() string {
	if e.StatusCode == 0 {
		return "not authenticated: " + e.Message
	}
	return fmt.Sprintf("not authenticated (%d): %s", e.StatusCode, e.Message)
}

// NotFoundError means the addressed plan does not exist for this user.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("workout plan %q not found", e.ID)
}

// TransientError covers failures worth retrying later: rate limiting, server
// errors and network failures. The client itself never retries.
type TransientError struct {
	StatusCode int // 0 for network errors
	Err        error
}

func (e *TransientError) Error() string {
	if e.StatusCode == 0 {
		return "temporary failure: " + e.Err.Error()
	}
	return fmt.Sprintf("temporary failure (%d %s): %v", e.StatusCode, http.StatusText(e.StatusCode), e.Err)
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// SessionExpired is published on the session bus whenever the server rejects
// the stored credential.
type SessionExpired struct {
	StatusCode int
	At         time.Time
}
