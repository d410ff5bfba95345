package session

import (
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/darasa/backoffice/core"
	"github.com/darasa/backoffice/core/meeting"
)

var nowFunc = time.Now // mockable

// transitions is the session state machine: which statuses each status may
// move to. Terminal states have no entry.
var transitions = map[Status][]Status{
	StatusRequested:  {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusCompleted, StatusCancelled},
}

func canTransition(from, to Status) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Decision is an adjudicator's ruling on a pending cancellation case.
type Decision string

const (
	DecisionApproved Decision = "approved"
	DecisionRejected Decision = "rejected"
)

// PenaltyPolicy computes the suggested cancellation penalty for a session at
// the time the cancellation is requested. Implementations must return a value
// in [0, price]; the workflow clamps regardless.
type PenaltyPolicy func(s Session, requestedAt time.Time) int

// AssignMeetingLink classifies rawLink and, when accepted, returns a patch
// storing the canonical URL and (re-)confirming the session. Assigning a link
// to a completed or cancelled session is an error.
func AssignMeetingLink(s Session, rawLink string) (Patch, error) {
	if s.Status.IsTerminal() {
		return Patch{}, &InvalidTransitionError{From: s.Status, To: StatusConfirmed}
	}

	cls := meeting.Classify(rawLink)
	if !cls.IsValid {
		return Patch{}, &InvalidLinkError{Category: cls.Category, Message: cls.Message}
	}

	status := StatusConfirmed
	platform := string(cls.Platform)
	return Patch{
		Status:          &status,
		MeetingLink:     &cls.CanonicalURL,
		MeetingPlatform: &platform,
		UpdatedAt:       nowFunc().UTC(),
	}, nil
}

// SetStatus validates the requested transition and returns a patch applying it.
func SetStatus(s Session, newStatus Status, notes string) (Patch, error) {
	if !newStatus.IsValid() || !canTransition(s.Status, newStatus) {
		return Patch{}, &InvalidTransitionError{From: s.Status, To: newStatus}
	}

	p := Patch{Status: &newStatus, UpdatedAt: nowFunc().UTC()}
	if notes = core.CleanString(notes); notes != "" {
		p.AdminNotes = &notes
	}
	return p, nil
}

// RequestCancellation opens a pending cancellation case with a system-suggested
// penalty/refund split computed by policy. The session status is not changed
// until the case is adjudicated.
func RequestCancellation(s Session, reason string, policy PenaltyPolicy) (Patch, error) {
	if s.Status.IsTerminal() {
		return Patch{}, &InvalidTransitionError{From: s.Status, To: StatusCancelled}
	}
	if s.Cancellation.IsPending() {
		return Patch{}, &InvalidCancellationStateError{Reason: "a cancellation request is already pending"}
	}

	now := nowFunc().UTC()
	price := s.EffectivePrice()
	penalty := 0
	if policy != nil {
		penalty = policy(s, now)
	}
	if penalty < 0 {
		penalty = 0
	}
	if penalty > price {
		penalty = price
	}

	return Patch{
		Cancellation: &CancellationCase{
			RequestedAt:       now,
			Reason:            core.CleanString(reason),
			Status:            CancellationPending,
			CalculatedPenalty: penalty,
			CalculatedRefund:  price - penalty,
		},
		UpdatedAt: now,
	}, nil
}

// AdjudicateCancellation settles a pending cancellation case.
// Approval requires a penalty override in [0, price], cancels the session and
// splits the price into finalPenalty/finalRefund; rejection settles with a
// full refund on record and leaves the session status untouched.
func AdjudicateCancellation(s Session, decision Decision, penaltyOverride int, notes string) (Patch, error) {
	if !s.Cancellation.IsPending() {
		return Patch{}, &InvalidCancellationStateError{Reason: "no pending cancellation request to process"}
	}

	now := nowFunc().UTC()
	price := s.EffectivePrice()

	settled := *s.Cancellation
	settled.ProcessedAt = null.TimeFrom(now)
	if notes = core.CleanString(notes); notes != "" {
		settled.AdminNotes = null.StringFrom(notes)
	}

	p := Patch{Cancellation: &settled, UpdatedAt: now}

	switch decision {
	case DecisionRejected:
		settled.Status = CancellationRejected
		settled.FinalPenalty = null.IntFrom(0)
		settled.FinalRefund = null.IntFrom(price)
	case DecisionApproved:
		if penaltyOverride < 0 || penaltyOverride > price {
			return Patch{}, &InvalidPenaltyError{Penalty: penaltyOverride, Price: price}
		}
		settled.Status = CancellationApproved
		settled.FinalPenalty = null.IntFrom(penaltyOverride)
		settled.FinalRefund = null.IntFrom(price - penaltyOverride)
		cancelled := StatusCancelled
		p.Status = &cancelled
	default:
		return Patch{}, &InvalidCancellationStateError{Reason: "unknown cancellation decision: " + string(decision)}
	}
	return p, nil
}
