// Package errs holds the two error kinds every ledger operation can fail with.
// Domain packages wrap these so callers can match on the kind with errors.Is.
package errs

import "errors"

var (
	// ErrNotFound: a referenced loan, request or user does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidPayload: the request is incompatible with the current state.
	ErrInvalidPayload = errors.New("invalid payload")
)
