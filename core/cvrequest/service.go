package cvrequest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/mail"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"

	"github.com/darasa/backoffice/core"
)

var (
	ErrNotFound      = errors.New("cv request not found")
	ErrUnknownStatus = errors.New("unknown cv request status")

	nowFunc = time.Now // mockable
)

type (
	Repository interface {
		CreateCVRequest(ctx context.Context, r CVRequest) (CVRequest, error)
		GetCVRequestByID(ctx context.Context, id string) (CVRequest, error)
		QueryAllCVRequests(ctx context.Context) ([]CVRequest, error)
		FilterCVRequests(ctx context.Context, filter QueryFilter) ([]CVRequest, error)
		UpdateCVRequest(ctx context.Context, r CVRequest) (CVRequest, error)
		DeleteCVRequestsByID(ctx context.Context, ids ...string) error
	}

	Service struct {
		repo     Repository
		files    core.FileStorage
		mailSvc  core.EmailService
		activity core.ActivityLog
	}
)

func NewService(repo Repository, files core.FileStorage, mailSvc core.EmailService, activity core.ActivityLog) *Service {
	return &Service{repo: repo, files: files, mailSvc: mailSvc, activity: activity}
}

func (svc *Service) Create(ctx context.Context, nr NewCVRequest) (CVRequest, error) {
	now := nowFunc().UTC()
	r := CVRequest{
		ID:             uuid.NewString(),
		ApplicantID:    nr.ApplicantID,
		ApplicantEmail: nr.ApplicantEmail,
		TargetRole:     nr.TargetRole,
		Notes:          nr.Notes,
		Status:         StatusPending,
		CVURL:          nr.CVURL,
		Price:          nr.Price,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	return svc.repo.CreateCVRequest(ctx, r)
}

func (svc *Service) QueryAll(ctx context.Context) ([]CVRequest, error) {
	return svc.repo.QueryAllCVRequests(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id string) (CVRequest, error) {
	return svc.repo.GetCVRequestByID(ctx, id)
}

func (svc *Service) Filter(ctx context.Context, filter QueryFilter) ([]CVRequest, error) {
	if filter.IsEmpty() {
		return svc.repo.QueryAllCVRequests(ctx)
	}
	return svc.repo.FilterCVRequests(ctx, filter)
}

func (svc *Service) UpdateStatus(ctx context.Context, actorID, id string, status Status) (CVRequest, error) {
	if !status.IsValid() {
		return CVRequest{}, ErrUnknownStatus
	}
	r, err := svc.repo.GetCVRequestByID(ctx, id)
	if err != nil {
		return CVRequest{}, err
	}

	r.Status = status
	r.UpdatedAt = nowFunc().UTC()
	r, err = svc.repo.UpdateCVRequest(ctx, r)
	if err != nil {
		return CVRequest{}, err
	}

	svc.record(ctx, actorID, "cvrequest.status-changed", r.ID, string(status))
	return r, nil
}

// AttachTailoredCV stores the tailored document, patches its public URL onto
// the request and marks it delivered.
func (svc *Service) AttachTailoredCV(ctx context.Context, actorID, id, filename, contentType string, rd io.Reader) (CVRequest, error) {
	r, err := svc.repo.GetCVRequestByID(ctx, id)
	if err != nil {
		return CVRequest{}, err
	}

	url, err := svc.files.Save(ctx, "cvrequests/"+r.ID+"/"+filename, contentType, rd)
	if err != nil {
		return CVRequest{}, err
	}

	r.TailoredCVURL = null.StringFrom(url)
	r.Status = StatusDelivered
	r.UpdatedAt = nowFunc().UTC()
	r, err = svc.repo.UpdateCVRequest(ctx, r)
	if err != nil {
		return CVRequest{}, err
	}

	svc.record(ctx, actorID, "cvrequest.delivered", r.ID, url)
	if svc.mailSvc != nil && r.ApplicantEmail != "" {
		svc.mailSvc.SendMessages(&core.EmailMessage{
			To:          []mail.Address{{Address: r.ApplicantEmail}},
			Subject:     "Your tailored CV is ready",
			TextContent: fmt.Sprintf("Your CV tailored for %q has been delivered.\nDownload: %s", r.TargetRole, url),
		})
	}
	return r, nil
}

func (svc *Service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteCVRequestsByID(ctx, ids...)
}

func (svc *Service) record(ctx context.Context, actorID, action, objectID, detail string) {
	if svc.activity == nil {
		return
	}
	_ = svc.activity.Record(ctx, core.Event{
		ID:         uuid.NewString(),
		ActorID:    actorID,
		Action:     action,
		ObjectType: "cvrequest",
		ObjectID:   objectID,
		Detail:     detail,
		CreatedAt:  nowFunc().UTC(),
	})
}
