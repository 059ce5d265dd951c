// internal/app/lifecycle/errors.go
package lifecycle

import (
	"errors"
	"fmt"
)

// Domain outcomes surfaced to callers. AlreadyApproved and WrongPassword
// are expected business results, not server faults; the HTTP layer maps
// them to client-facing messages and logs them at info.
var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidOperation = errors.New("invalid operation")
	ErrAlreadyApproved  = errors.New("another request for this item and event is already approved")
	ErrWrongPassword    = errors.New("wrong group passcode")
	ErrUnauthenticated  = errors.New("unauthenticated")
)

// PersistenceError wraps a store failure. There is no automatic retry;
// callers re-invoke the whole operation, which is safe for the
// set-semantics array edits but may duplicate document creation.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("lifecycle %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func persistErr(op string, err error) error {
	return &PersistenceError{Op: op, Err: err}
}
