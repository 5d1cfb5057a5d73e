// internal/errors/errors.go
package errors

import (
	"errors"
	"fmt"
)

// InvalidTransitionError signals a relationship-state precondition violation.
// The Reason names the violated precondition and is surfaced verbatim to the
// client, which is expected to refresh its UI state rather than retry.
type InvalidTransitionError struct {
	Reason string
}

func (e *InvalidTransitionError) Error() string { return e.Reason }

// InvalidTransition creates a typed precondition-violation error.
func InvalidTransition(reason string) error {
	return &InvalidTransitionError{Reason: reason}
}

// Precondition reasons surfaced by the state machine and allocator.
const (
	ReasonSelfAction        = "SelfAction"
	ReasonNotParticipant    = "NotParticipant"
	ReasonNotCounterparty   = "NotCounterparty"
	ReasonNotPending        = "NotPending"
	ReasonAlreadyPending    = "AlreadyPending"
	ReasonRematchRejected   = "RematchRejected"
	ReasonBlockedPair       = "BlockedPair"
	ReasonNoUnmatchRecord   = "NoUnmatchRecord"
	ReasonNoBoostBalance    = "NoBoostBalance"
	ReasonBoostActive       = "BoostAlreadyActive"
	ReasonComplimentHandled = "ComplimentAlreadyHandled"
)

// ErrUnauthorized means the request carried no valid caller identity.
var ErrUnauthorized = errors.New("unauthorized")

// ErrNotFound means the referenced record does not exist. A record owned by
// someone else reports the same error so ids cannot be probed.
var ErrNotFound = errors.New("not found")

// StorageError wraps a transient infrastructure failure. The whole request is
// safe to retry: match creation is idempotent and rematch steps are
// status-gated.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string { return fmt.Sprintf("storage: %s: %v", e.Op, e.Err) }
func (e *StorageError) Unwrap() error { return e.Err }

// Storage wraps err as a StorageError, preserving nil.
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}

// IsInvalidTransition reports whether err is a precondition violation.
func IsInvalidTransition(err error) bool {
	var it *InvalidTransitionError
	return errors.As(err, &it)
}
