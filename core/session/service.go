package session

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/google/uuid"

	"github.com/darasa/backoffice/core"
)

type (
	// Repository owns session persistence. CommitPatch must reject a commit
	// whose expectedVersion no longer matches the stored row with ErrConflict
	// instead of overwriting silently.
	Repository interface {
		CreateSession(ctx context.Context, s Session) (Session, error)
		GetSessionByID(ctx context.Context, id string) (Session, error)
		QueryAllSessions(ctx context.Context) ([]Session, error)
		// FilterSessions applies AND operation on available QueryFilter fields.
		FilterSessions(ctx context.Context, filter QueryFilter) ([]Session, error)
		CommitPatch(ctx context.Context, id string, expectedVersion int, p Patch) (Session, error)
		DeleteSessionsByID(ctx context.Context, ids ...string) error
	}

	Service struct {
		repo     Repository
		mailSvc  core.EmailService
		activity core.ActivityLog
		policy   PenaltyPolicy
	}
)

func NewService(repo Repository, mailSvc core.EmailService, activity core.ActivityLog, policy PenaltyPolicy) *Service {
	if policy == nil {
		policy = TieredPolicy
	}
	return &Service{repo: repo, mailSvc: mailSvc, activity: activity, policy: policy}
}

func (svc *Service) Create(ctx context.Context, ns NewSession) (Session, error) {
	now := nowFunc().UTC()
	s := Session{
		ID:              uuid.NewString(),
		StudentID:       ns.StudentID,
		StudentEmail:    ns.StudentEmail,
		TutorID:         ns.TutorID,
		TutorEmail:      ns.TutorEmail,
		Subject:         ns.Subject,
		ScheduledAt:     ns.ScheduledAt.UTC(),
		DurationMinutes: ns.DurationMinutes,
		Status:          StatusRequested,
		Price:           ns.Price,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if s.Price == 0 {
		s.Price = DefaultPrice
	}
	return svc.repo.CreateSession(ctx, s)
}

func (svc *Service) QueryAll(ctx context.Context) ([]Session, error) {
	return svc.repo.QueryAllSessions(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Session, error) {
	return svc.repo.GetSessionByID(ctx, id)
}

func (svc *Service) Filter(ctx context.Context, filter QueryFilter) ([]Session, error) {
	if filter.IsEmpty() {
		return svc.repo.QueryAllSessions(ctx)
	}
	return svc.repo.FilterSessions(ctx, filter)
}

func (svc *Service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteSessionsByID(ctx, ids...)
}

// AssignLink classifies rawLink against a fresh snapshot and commits the
// resulting patch. The session is (re-)confirmed and both parties notified.
func (svc *Service) AssignLink(ctx context.Context, actorID, id, rawLink string) (Session, error) {
	snapshot, err := svc.repo.GetSessionByID(ctx, id)
	if err != nil {
		return Session{}, err
	}

	patch, err := AssignMeetingLink(snapshot, rawLink)
	if err != nil {
		return Session{}, err
	}

	s, err := svc.repo.CommitPatch(ctx, id, snapshot.Version, patch)
	if err != nil {
		return Session{}, err
	}

	svc.record(ctx, actorID, "session.link-assigned", s.ID, s.MeetingLink.String)
	svc.notify(s, "Your session is confirmed",
		fmt.Sprintf("The %s session on %s is confirmed.\nJoin: %s",
			s.Subject, s.ScheduledAt.Format(time.RFC1123), s.MeetingLink.String))
	return s, nil
}

// UpdateStatus applies a lifecycle transition and commits it.
func (svc *Service) UpdateStatus(ctx context.Context, actorID, id string, newStatus Status, notes string) (Session, error) {
	snapshot, err := svc.repo.GetSessionByID(ctx, id)
	if err != nil {
		return Session{}, err
	}

	patch, err := SetStatus(snapshot, newStatus, notes)
	if err != nil {
		return Session{}, err
	}

	s, err := svc.repo.CommitPatch(ctx, id, snapshot.Version, patch)
	if err != nil {
		return Session{}, err
	}

	svc.record(ctx, actorID, "session.status-changed", s.ID, string(newStatus))
	return s, nil
}

// RequestCancellation opens a pending cancellation case using the configured
// penalty policy for the suggested settlement split.
func (svc *Service) RequestCancellation(ctx context.Context, actorID, id, reason string) (Session, error) {
	snapshot, err := svc.repo.GetSessionByID(ctx, id)
	if err != nil {
		return Session{}, err
	}

	patch, err := RequestCancellation(snapshot, reason, svc.policy)
	if err != nil {
		return Session{}, err
	}

	s, err := svc.repo.CommitPatch(ctx, id, snapshot.Version, patch)
	if err != nil {
		return Session{}, err
	}

	svc.record(ctx, actorID, "session.cancellation-requested", s.ID, reason)
	return s, nil
}

// Adjudicate settles the pending cancellation case; approval cancels the
// session and notifies both parties of the final settlement.
func (svc *Service) Adjudicate(ctx context.Context, actorID, id string, decision Decision, penaltyOverride int, notes string) (Session, error) {
	snapshot, err := svc.repo.GetSessionByID(ctx, id)
	if err != nil {
		return Session{}, err
	}

	patch, err := AdjudicateCancellation(snapshot, decision, penaltyOverride, notes)
	if err != nil {
		return Session{}, err
	}

	s, err := svc.repo.CommitPatch(ctx, id, snapshot.Version, patch)
	if err != nil {
		return Session{}, err
	}

	svc.record(ctx, actorID, "session.cancellation-"+string(decision), s.ID, notes)
	if decision == DecisionApproved {
		c := s.Cancellation
		svc.notify(s, "Your session was cancelled",
			fmt.Sprintf("The %s session on %s was cancelled.\nPenalty: %d, refund: %d.",
				s.Subject, s.ScheduledAt.Format(time.RFC1123), c.FinalPenalty.Int, c.FinalRefund.Int))
	}
	return s, nil
}

func (svc *Service) record(ctx context.Context, actorID, action, objectID, detail string) {
	if svc.activity == nil {
		return
	}
	evt := core.Event{
		ID:         uuid.NewString(),
		ActorID:    actorID,
		Action:     action,
		ObjectType: "session",
		ObjectID:   objectID,
		Detail:     detail,
		CreatedAt:  nowFunc().UTC(),
	}
	// the activity log is advisory; a failed append must not fail the action
	_ = svc.activity.Record(ctx, evt)
}

func (svc *Service) notify(s Session, subject, body string) {
	if svc.mailSvc == nil {
		return
	}
	to := make([]mail.Address, 0, 2)
	if s.StudentEmail != "" {
		to = append(to, mail.Address{Address: s.StudentEmail})
	}
	if s.TutorEmail != "" {
		to = append(to, mail.Address{Address: s.TutorEmail})
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:          to,
		Subject:     subject,
		TextContent: body,
	})
}
