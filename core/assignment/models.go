package assignment

import (
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/darasa/backoffice/core"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in-progress"
	StatusDelivered  Status = "delivered"
)

var AllStatuses = []Status{StatusPending, StatusInProgress, StatusDelivered}

func (s Status) IsValid() bool {
	for _, st := range AllStatuses {
		if s == st {
			return true
		}
	}
	return false
}

// Assignment is a homework-help request handled through manual review.
type Assignment struct {
	ID           string      `json:"id"`
	StudentID    string      `json:"student_id"`
	StudentEmail string      `json:"student_email"`
	Subject      string      `json:"subject"`
	Description  string      `json:"description"`
	Deadline     time.Time   `json:"deadline"`
	Status       Status      `json:"status"`
	SolutionURL  null.String `json:"solution_url"`
	Price        int         `json:"price"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// NewAssignment contains information needed to register a new Assignment.
type NewAssignment struct {
	StudentID    string    `json:"student_id" validate:"required"`
	StudentEmail string    `json:"student_email" validate:"omitempty,email"`
	Subject      string    `json:"subject" validate:"required"`
	Description  string    `json:"description" validate:"required"`
	Deadline     time.Time `json:"deadline" validate:"required"`
	Price        int       `json:"price" validate:"omitempty,min=0"`
}

func (na *NewAssignment) Validate() error {
	na.Subject = core.CleanString(na.Subject)
	na.Description = core.CleanString(na.Description)
	na.StudentEmail = core.CleanString(na.StudentEmail, true /* lower */)
	return core.Validate.Struct(na)
}

// QueryFilter narrows assignment listings; fields are ANDed.
type QueryFilter struct {
	Status       Status    `query:"status"`
	StudentID    string    `query:"student_id"`
	DeadlineFrom time.Time `query:"deadline_from"`
	DeadlineTo   time.Time `query:"deadline_to"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Status == "" && qf.StudentID == "" && qf.DeadlineFrom.IsZero() && qf.DeadlineTo.IsZero()
}
