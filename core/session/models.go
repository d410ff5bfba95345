package session

import (
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/darasa/backoffice/core"
)

// DefaultPrice is charged when a session was booked without an explicit price.
const DefaultPrice = 299

// Status is a session's lifecycle state.
type Status string

const (
	StatusRequested  Status = "requested"
	StatusConfirmed  Status = "confirmed"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// AllStatuses lists every valid session status.
var AllStatuses = []Status{StatusRequested, StatusConfirmed, StatusInProgress, StatusCompleted, StatusCancelled}

// IsTerminal reports whether no further transition is defined out of s.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

func (s Status) IsValid() bool {
	for _, st := range AllStatuses {
		if s == st {
			return true
		}
	}
	return false
}

// CancellationStatus is the state of a cancellation case.
type CancellationStatus string

const (
	CancellationPending  CancellationStatus = "pending"
	CancellationApproved CancellationStatus = "approved"
	CancellationRejected CancellationStatus = "rejected"
)

// CancellationCase is the settlement record opened when a cancellation is
// requested. It is immutable once Status leaves pending.
type CancellationCase struct {
	RequestedAt       time.Time          `json:"requested_at"` // UTC
	Reason            string             `json:"reason"`
	Status            CancellationStatus `json:"status"`
	CalculatedPenalty int                `json:"calculated_penalty"`
	CalculatedRefund  int                `json:"calculated_refund"`
	FinalPenalty      null.Int           `json:"final_penalty"`
	FinalRefund       null.Int           `json:"final_refund"`
	AdminNotes        null.String        `json:"admin_notes"`
	ProcessedAt       null.Time          `json:"processed_at"`
}

// IsPending reports whether the case still awaits adjudication.
func (c *CancellationCase) IsPending() bool {
	return c != nil && c.Status == CancellationPending
}

// Session is a point-in-time snapshot of a scheduled tutoring session.
// Workflow operations never mutate it; they return a Patch instead.
type Session struct {
	ID              string            `json:"id"`
	StudentID       string            `json:"student_id"`
	StudentEmail    string            `json:"student_email"`
	TutorID         string            `json:"tutor_id"`
	TutorEmail      string            `json:"tutor_email"`
	Subject         string            `json:"subject"`
	ScheduledAt     time.Time         `json:"scheduled_at"`
	DurationMinutes int               `json:"duration_minutes"`
	Status          Status            `json:"status"`
	MeetingLink     null.String       `json:"meeting_link"`
	MeetingPlatform null.String       `json:"meeting_platform"`
	Price           int               `json:"price"`
	Cancellation    *CancellationCase `json:"cancellation,omitempty"`
	Version         int               `json:"version"` // optimistic-concurrency token
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// EffectivePrice returns the session price, falling back to DefaultPrice.
func (s Session) EffectivePrice() int {
	if s.Price > 0 {
		return s.Price
	}
	return DefaultPrice
}

// Patch is an immutable description of the field changes a workflow operation
// intends to apply. Nil fields are left untouched on commit.
type Patch struct {
	Status          *Status
	MeetingLink     *string
	MeetingPlatform *string
	AdminNotes      *string
	Cancellation    *CancellationCase
	UpdatedAt       time.Time
}

// Apply returns a copy of s with the patch applied and the version bumped.
func (p Patch) Apply(s Session) Session {
	if p.Status != nil {
		s.Status = *p.Status
	}
	if p.MeetingLink != nil {
		s.MeetingLink = null.StringFrom(*p.MeetingLink)
	}
	if p.MeetingPlatform != nil {
		s.MeetingPlatform = null.StringFrom(*p.MeetingPlatform)
	}
	if p.Cancellation != nil {
		c := *p.Cancellation
		s.Cancellation = &c
	}
	s.Version++
	s.UpdatedAt = p.UpdatedAt
	return s
}

// NewSession contains information needed to book a new Session.
type NewSession struct {
	StudentID       string    `json:"student_id" validate:"required"`
	StudentEmail    string    `json:"student_email" validate:"omitempty,email"`
	TutorID         string    `json:"tutor_id" validate:"required"`
	TutorEmail      string    `json:"tutor_email" validate:"omitempty,email"`
	Subject         string    `json:"subject" validate:"required"`
	ScheduledAt     time.Time `json:"scheduled_at" validate:"required"`
	DurationMinutes int       `json:"duration_minutes" validate:"omitempty,min=15,max=480"`
	Price           int       `json:"price" validate:"omitempty,min=0"`
}

func (ns *NewSession) Validate() error {
	ns.Subject = core.CleanString(ns.Subject)
	ns.StudentEmail = core.CleanString(ns.StudentEmail, true /* lower */)
	ns.TutorEmail = core.CleanString(ns.TutorEmail, true /* lower */)
	return core.Validate.Struct(ns)
}

// QueryFilter narrows session listings; fields are ANDed.
type QueryFilter struct {
	Status              Status    `query:"status"`
	TutorID             string    `query:"tutor_id"`
	StudentID           string    `query:"student_id"`
	ScheduledFrom       time.Time `query:"scheduled_from"`
	ScheduledTo         time.Time `query:"scheduled_to"`
	PendingCancellation *bool     `query:"pending_cancellation"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Status == "" && qf.TutorID == "" && qf.StudentID == "" &&
		qf.ScheduledFrom.IsZero() && qf.ScheduledTo.IsZero() && qf.PendingCancellation == nil
}
