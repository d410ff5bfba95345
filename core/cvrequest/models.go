package cvrequest

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

// CVRequest is a CV-tailoring request: the applicant's CV is rewritten by a
// reviewer to target a specific role.
type CVRequest struct {
	ID             string      `json:"id"`
	ApplicantID    string      `json:"applicant_id"`
	ApplicantEmail string      `json:"applicant_email"`
	TargetRole     string      `json:"target_role"`
	Notes          string      `json:"notes"`
	Status         Status      `json:"status"`
	CVURL          string      `json:"cv_url"`
	TailoredCVURL  null.String `json:"tailored_cv_url"`
	Price          int         `json:"price"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// NewCVRequest contains information needed to register a new CVRequest.
type NewCVRequest struct {
	ApplicantID    string `json:"applicant_id" validate:"required"`
	ApplicantEmail string `json:"applicant_email" validate:"omitempty,email"`
	TargetRole     string `json:"target_role" validate:"required"`
	Notes          string `json:"notes"`
	CVURL          string `json:"cv_url" validate:"required,url"`
	Price          int    `json:"price" validate:"omitempty,min=0"`
}

func (nr *NewCVRequest) Validate() error {
	nr.TargetRole = core.CleanString(nr.TargetRole)
	nr.Notes = core.CleanString(nr.Notes)
	nr.ApplicantEmail = core.CleanString(nr.ApplicantEmail, true /* lower */)
	return core.Validate.Struct(nr)
}

// QueryFilter narrows CV request listings; fields are ANDed.
type QueryFilter struct {
	Status      Status `query:"status"`
	ApplicantID string `query:"applicant_id"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Status == "" && qf.ApplicantID == ""
}
