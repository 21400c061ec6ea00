package gateway

import "fmt"

// AuthError means the gateway rejected the session: bad credentials at
// login, or an expired/invalidated session on a later call. Not retryable.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("gateway rejected the session: %s", e.Message)
}

// SubmissionError means a queue request was refused. The Download it covers
// was not created; earlier parts of the same run may already exist.
type SubmissionError struct {
	Name    string
	Message string
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("gateway refused Download %q: %s", e.Name, e.Message)
}

// TransportError wraps a failure to complete a call at all (network error,
// unexpected response). Safe to retry for status polling.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("gateway %s request failed: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
