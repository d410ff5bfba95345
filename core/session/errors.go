package session

import (
	"errors"
	"fmt"

	"github.com/darasa/backoffice/core/meeting"
)

var (
	ErrNotFound = errors.New("session not found")
	// ErrConflict is returned by a Repository when a patch was computed from
	// a stale snapshot; the caller must re-fetch and recompute.
	ErrConflict = errors.New("session was modified concurrently")
)

// InvalidLinkError is returned when the link classifier rejected the input.
type InvalidLinkError struct {
	Category meeting.Category
	Message  string
}

func (err *InvalidLinkError) Error() string {
	return fmt.Sprintf("invalid meeting link (%s): %s", err.Category, err.Message)
}

// InvalidTransitionError is returned when the requested status change is not
// permitted from the current state.
type InvalidTransitionError struct {
	From Status
	To   Status
}

func (err *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot change session status from %s to %s", err.From, err.To)
}

// InvalidCancellationStateError is returned when a cancellation operation is
// called against the wrong case state: adjudicating with no pending case, or
// requesting while one is already pending.
type InvalidCancellationStateError struct {
	Reason string
}

func (err *InvalidCancellationStateError) Error() string { return err.Reason }

// InvalidPenaltyError is returned when a penalty override is negative or
// exceeds the session price.
type InvalidPenaltyError struct {
	Penalty int
	Price   int
}

func (err *InvalidPenaltyError) Error() string {
	return fmt.Sprintf("penalty %d must be between 0 and the session price %d", err.Penalty, err.Price)
}
