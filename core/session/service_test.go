package session_test

import (
	"context"
	"errors"
	"net/mail"
	"testing"
	"time"

	"github.com/darasa/backoffice/core"
	"github.com/darasa/backoffice/core/session"
	emailsvc "github.com/darasa/backoffice/services/email"
	inmemdb "github.com/darasa/backoffice/storage/database/inmem"
	testutil "github.com/darasa/backoffice/tests"
)

func setup(t *testing.T) (*session.Service, session.Repository, *emailsvc.ConsoleServiceMock) {
	t.Helper()
	conf := &core.Config{
		AppName:          "Darasa Backoffice",
		DefaultFromEmail: mail.Address{Address: "noreply@test.cd"},
	}
	db := inmemdb.Open()
	repo := inmemdb.NewSessionRepository(db)
	mailSvc := emailsvc.NewConsoleServiceMock(conf)
	svc := session.NewService(repo, mailSvc, inmemdb.NewActivityLog(db), nil /* default policy */)
	return svc, repo, mailSvc
}

func TestService_Create(t *testing.T) {
	svc, _, _ := setup(t)
	ctx := context.Background()

	s, err := svc.Create(ctx, session.NewSession{
		StudentID:   "std-1",
		TutorID:     "ttr-1",
		Subject:     "Calculus",
		ScheduledAt: time.Now().Add(48 * time.Hour),
	})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if s.ID == "" {
		t.Error("Create() did not assign an ID")
	}
	if s.Status != session.StatusRequested {
		t.Errorf("Status = %v; want %v", s.Status, session.StatusRequested)
	}
	if s.Price != session.DefaultPrice {
		t.Errorf("Price = %d; want default %d", s.Price, session.DefaultPrice)
	}
}

func TestService_AssignLink(t *testing.T) {
	svc, repo, mailSvc := setup(t)
	ctx := context.Background()

	s := testutil.CreateSession(t, repo, "std-1", "ttr-1", "Calculus", time.Now().Add(48*time.Hour), session.StatusRequested, 300)

	got, err := svc.AssignLink(ctx, "adm-1", s.ID, "https://meet.google.com/abc-defg-hij")
	if err != nil {
		t.Fatalf("AssignLink() failed: %v", err)
	}
	if got.Status != session.StatusConfirmed {
		t.Errorf("Status = %v; want %v", got.Status, session.StatusConfirmed)
	}
	if got.MeetingLink.String != "https://meet.google.com/abc-defg-hij" {
		t.Errorf("MeetingLink = %q", got.MeetingLink.String)
	}
	if got.Version != s.Version+1 {
		t.Errorf("Version = %d; want %d", got.Version, s.Version+1)
	}

	// both parties notified
	sent := mailSvc.SentMessages()
	if len(sent) != 1 {
		t.Fatalf("sent %d messages; want 1", len(sent))
	}
	if len(sent[0].To) != 2 {
		t.Errorf("message has %d recipients; want 2", len(sent[0].To))
	}
}

func TestService_AssignLink_invalidLink(t *testing.T) {
	svc, repo, mailSvc := setup(t)
	ctx := context.Background()

	s := testutil.CreateSession(t, repo, "std-1", "ttr-1", "Calculus", time.Now().Add(48*time.Hour), session.StatusRequested, 300)

	_, err := svc.AssignLink(ctx, "adm-1", s.ID, "http://meet.google.com/abc-defg-hij")
	var linkErr *session.InvalidLinkError
	if !errors.As(err, &linkErr) {
		t.Fatalf("AssignLink() err = %v; want InvalidLinkError", err)
	}
	if len(mailSvc.SentMessages()) != 0 {
		t.Error("no mail should be sent on rejection")
	}

	// snapshot untouched
	refreshed, err := repo.GetSessionByID(ctx, s.ID)
	if err != nil {
		t.Fatalf("GetSessionByID() failed: %v", err)
	}
	if refreshed.Version != s.Version {
		t.Errorf("Version = %d; want unchanged %d", refreshed.Version, s.Version)
	}
}

func TestService_UpdateStatus_conflictOnStaleSnapshot(t *testing.T) {
	svc, repo, _ := setup(t)
	ctx := context.Background()

	s := testutil.CreateSession(t, repo, "std-1", "ttr-1", "Calculus", time.Now().Add(48*time.Hour), session.StatusRequested, 300)

	// concurrent commit bumps the version under the service's feet
	confirmed := session.StatusConfirmed
	if _, err := repo.CommitPatch(ctx, s.ID, s.Version, session.Patch{Status: &confirmed, UpdatedAt: time.Now().UTC()}); err != nil {
		t.Fatalf("CommitPatch() failed: %v", err)
	}

	// the service re-fetches, so this succeeds against the new snapshot
	got, err := svc.UpdateStatus(ctx, "adm-1", s.ID, session.StatusInProgress, "")
	if err != nil {
		t.Fatalf("UpdateStatus() failed: %v", err)
	}
	if got.Version != s.Version+2 {
		t.Errorf("Version = %d; want %d", got.Version, s.Version+2)
	}

	// but a commit computed from the stale snapshot is rejected by the repo
	if _, err = repo.CommitPatch(ctx, s.ID, s.Version, session.Patch{Status: &confirmed, UpdatedAt: time.Now().UTC()}); !errors.Is(err, session.ErrConflict) {
		t.Errorf("stale CommitPatch() err = %v; want ErrConflict", err)
	}
}

func TestService_cancellationLifecycle(t *testing.T) {
	svc, repo, mailSvc := setup(t)
	ctx := context.Background()

	s := testutil.CreateSession(t, repo, "std-1", "ttr-1", "Calculus", time.Now().Add(2*time.Hour), session.StatusConfirmed, 300)

	got, err := svc.RequestCancellation(ctx, "adm-1", s.ID, "student fell ill")
	if err != nil {
		t.Fatalf("RequestCancellation() failed: %v", err)
	}
	c := got.Cancellation
	if !c.IsPending() {
		t.Fatal("cancellation case should be pending")
	}
	// < 6h notice: full penalty suggested
	if c.CalculatedPenalty != 300 || c.CalculatedRefund != 0 {
		t.Errorf("suggested split = %d/%d; want 300/0", c.CalculatedPenalty, c.CalculatedRefund)
	}
	if got.Status != session.StatusConfirmed {
		t.Errorf("Status = %v; requesting must not change it", got.Status)
	}

	got, err = svc.Adjudicate(ctx, "adm-1", s.ID, session.DecisionApproved, 150, "split the difference")
	if err != nil {
		t.Fatalf("Adjudicate() failed: %v", err)
	}
	c = got.Cancellation
	if got.Status != session.StatusCancelled {
		t.Errorf("Status = %v; want %v", got.Status, session.StatusCancelled)
	}
	if c.FinalPenalty.Int != 150 || c.FinalRefund.Int != 150 {
		t.Errorf("final split = %d/%d; want 150/150", c.FinalPenalty.Int, c.FinalRefund.Int)
	}
	if len(mailSvc.SentMessages()) != 1 {
		t.Errorf("sent %d messages; want 1 settlement notification", len(mailSvc.SentMessages()))
	}

	// the settled case cannot be re-adjudicated
	if _, err = svc.Adjudicate(ctx, "adm-1", s.ID, session.DecisionRejected, 0, ""); err == nil {
		t.Error("re-adjudicating a settled case should fail")
	}
}
