package domain

import "fmt"

// Operation labels used when a remote call fails.
const (
	OpChat    = "chat"
	OpHealth  = "health"
	OpCleanup = "cleanup"
)

// RemoteCallError is returned by every failed backend call.
// Err is the original failure: a transport error from net/http,
// a *StatusError, or a decode error for a body that is not JSON.
type RemoteCallError struct {
	Operation string
	Err       error
}

func (e *RemoteCallError) Error() string {
	return fmt.Sprintf("remote call failed [%s]: %v", e.Operation, e.Err)
}

func (e *RemoteCallError) Unwrap() error {
	return e.Err
}

// StatusError reports a non-2xx response from the backend.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("backend returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("backend returned status %d: %s", e.StatusCode, e.Body)
}

// ErrValidation indicates a validation error (bad input).
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error on '%s': %s", e.Field, e.Message)
}
