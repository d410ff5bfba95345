package assignment

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
	ErrNotFound      = errors.New("assignment not found")
	ErrUnknownStatus = errors.New("unknown assignment status")

	nowFunc = time.Now // mockable
)

type (
	Repository interface {
		CreateAssignment(ctx context.Context, a Assignment) (Assignment, error)
		GetAssignmentByID(ctx context.Context, id string) (Assignment, error)
		QueryAllAssignments(ctx context.Context) ([]Assignment, error)
		// FilterAssignments applies AND operation on available QueryFilter fields.
		FilterAssignments(ctx context.Context, filter QueryFilter) ([]Assignment, error)
		UpdateAssignment(ctx context.Context, a Assignment) (Assignment, error)
		DeleteAssignmentsByID(ctx context.Context, ids ...string) error
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

func (svc *Service) Create(ctx context.Context, na NewAssignment) (Assignment, error) {
	now := nowFunc().UTC()
	a := Assignment{
		ID:           uuid.NewString(),
		StudentID:    na.StudentID,
		StudentEmail: na.StudentEmail,
		Subject:      na.Subject,
		Description:  na.Description,
		Deadline:     na.Deadline.UTC(),
		Status:       StatusPending,
		Price:        na.Price,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	return svc.repo.CreateAssignment(ctx, a)
}

func (svc *Service) QueryAll(ctx context.Context) ([]Assignment, error) {
	return svc.repo.QueryAllAssignments(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Assignment, error) {
	return svc.repo.GetAssignmentByID(ctx, id)
}

func (svc *Service) Filter(ctx context.Context, filter QueryFilter) ([]Assignment, error) {
	if filter.IsEmpty() {
		return svc.repo.QueryAllAssignments(ctx)
	}
	return svc.repo.FilterAssignments(ctx, filter)
}

func (svc *Service) UpdateStatus(ctx context.Context, actorID, id string, status Status) (Assignment, error) {
	if !status.IsValid() {
		return Assignment{}, ErrUnknownStatus
	}
	a, err := svc.repo.GetAssignmentByID(ctx, id)
	if err != nil {
		return Assignment{}, err
	}

	a.Status = status
	a.UpdatedAt = nowFunc().UTC()
	a, err = svc.repo.UpdateAssignment(ctx, a)
	if err != nil {
		return Assignment{}, err
	}

	svc.record(ctx, actorID, "assignment.status-changed", a.ID, string(status))
	return a, nil
}

// AttachSolution stores the uploaded solution document, patches its public URL
// onto the assignment and marks it delivered.
func (svc *Service) AttachSolution(ctx context.Context, actorID, id, filename, contentType string, r io.Reader) (Assignment, error) {
	a, err := svc.repo.GetAssignmentByID(ctx, id)
	if err != nil {
		return Assignment{}, err
	}

	url, err := svc.files.Save(ctx, "assignments/"+a.ID+"/"+filename, contentType, r)
	if err != nil {
		return Assignment{}, err
	}

	a.SolutionURL = null.StringFrom(url)
	a.Status = StatusDelivered
	a.UpdatedAt = nowFunc().UTC()
	a, err = svc.repo.UpdateAssignment(ctx, a)
	if err != nil {
		return Assignment{}, err
	}

	svc.record(ctx, actorID, "assignment.solution-delivered", a.ID, url)
	if svc.mailSvc != nil && a.StudentEmail != "" {
		svc.mailSvc.SendMessages(&core.EmailMessage{
			To:          []mail.Address{{Address: a.StudentEmail}},
			Subject:     "Your assignment solution is ready",
			TextContent: fmt.Sprintf("The solution for %q has been delivered.\nDownload: %s", a.Subject, url),
		})
	}
	return a, nil
}

func (svc *Service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteAssignmentsByID(ctx, ids...)
}

func (svc *Service) record(ctx context.Context, actorID, action, objectID, detail string) {
	if svc.activity == nil {
		return
	}
	_ = svc.activity.Record(ctx, core.Event{
		ID:         uuid.NewString(),
		ActorID:    actorID,
		Action:     action,
		ObjectType: "assignment",
		ObjectID:   objectID,
		Detail:     detail,
		CreatedAt:  nowFunc().UTC(),
	})
}
