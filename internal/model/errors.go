// Package model also defines the error taxonomy shared by the dashboard
// core.  Each failure class gets its own type so that callers can branch
// with errors.As and translate them into user-visible outcomes: redirect
// to sign-in, halt bootstrapping, keep the draft for a retry, or show an
// empty timeline with an error indicator.  None of these errors are
// retried automatically anywhere in the core; retry is always a user
// action.
package model

import "fmt"

// AuthenticationError means there is no usable session.  The user is sent
// back to sign-in; the operation is not retried.
type AuthenticationError struct {
	Reason string
}

func (e *AuthenticationError) Error() string {
	return "authentication: " + e.Reason
}

// PersistenceError wraps a user-record read or write failure.  It halts
// bootstrapping; recovery is a user-initiated reload.
type PersistenceError struct {
	Op  string // the store operation that failed
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence: %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// ValidationError rejects a submission before any network call is made.
// Nothing changes anywhere when one is returned.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// AnalysisServiceError is a non-success response from the analysis
// compute service.  The submission failed cleanly: no entry was created
// and the user's draft is preserved.
type AnalysisServiceError struct {
	StatusCode int
	Body       string // response body, truncated
}

func (e *AnalysisServiceError) Error() string {
	return fmt.Sprintf("analysis service returned %d: %s", e.StatusCode, e.Body)
}

// NetworkError is a transport-level failure talking to an external
// capability. Like AnalysisServiceError it is non-destructive.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network: %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// FetchError is a timeline load failure.  The dashboard shows an empty
// timeline with an error indicator; submitting new entries still works.
type FetchError struct {
	StatusCode int // zero when the failure was transport-level
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("journal fetch returned %d", e.StatusCode)
	}
	return fmt.Sprintf("journal fetch: %v", e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }
