package inmemdb

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/darasa/backoffice/core/session"
)

func createSession(t *testing.T, repo session.Repository, status session.Status, scheduledAt time.Time) session.Session {
	t.Helper()
	now := time.Now().UTC()
	s, err := repo.CreateSession(context.Background(), session.Session{
		ID:              uuid.NewString(),
		StudentID:       "std-1",
		TutorID:         "ttr-1",
		Subject:         "Algebra",
		ScheduledAt:     scheduledAt,
		DurationMinutes: 60,
		Status:          status,
		Price:           300,
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	if err != nil {
		t.Fatalf("createSession() failed: %v", err)
	}
	return s
}

func Test_sessionRepository_CommitPatch(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository(Open())
	s := createSession(t, repo, session.StatusRequested, time.Now().Add(48*time.Hour).UTC())

	confirmed := session.StatusConfirmed
	patch := session.Patch{Status: &confirmed, UpdatedAt: time.Now().UTC()}

	got, err := repo.CommitPatch(ctx, s.ID, s.Version, patch)
	if err != nil {
		t.Fatalf("CommitPatch() failed: %v", err)
	}
	if got.Status != session.StatusConfirmed {
		t.Errorf("Status = %v; want %v", got.Status, session.StatusConfirmed)
	}
	if got.Version != s.Version+1 {
		t.Errorf("Version = %d; want %d", got.Version, s.Version+1)
	}

	// a second commit from the same stale snapshot must be rejected
	if _, err = repo.CommitPatch(ctx, s.ID, s.Version, patch); !errors.Is(err, session.ErrConflict) {
		t.Errorf("stale CommitPatch() err = %v; want ErrConflict", err)
	}

	if _, err = repo.CommitPatch(ctx, "nope", 0, patch); !errors.Is(err, session.ErrNotFound) {
		t.Errorf("unknown id CommitPatch() err = %v; want ErrNotFound", err)
	}
}

func Test_sessionRepository_FilterSessions(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository(Open())

	now := time.Now().UTC()
	s1 := createSession(t, repo, session.StatusRequested, now.Add(24*time.Hour))
	s2 := createSession(t, repo, session.StatusConfirmed, now.Add(72*time.Hour))
	_ = createSession(t, repo, session.StatusCompleted, now.Add(-24*time.Hour))

	got, err := repo.FilterSessions(ctx, session.QueryFilter{Status: session.StatusRequested})
	if err != nil {
		t.Fatalf("FilterSessions() failed: %v", err)
	}
	if len(got) != 1 || got[0].ID != s1.ID {
		t.Errorf("status filter returned %d sessions; want [%s]", len(got), s1.ID)
	}

	got, err = repo.FilterSessions(ctx, session.QueryFilter{ScheduledFrom: now.Add(48 * time.Hour)})
	if err != nil {
		t.Fatalf("FilterSessions() failed: %v", err)
	}
	if len(got) != 1 || got[0].ID != s2.ID {
		t.Errorf("scheduled_from filter returned %d sessions; want [%s]", len(got), s2.ID)
	}

	pending := true
	got, err = repo.FilterSessions(ctx, session.QueryFilter{PendingCancellation: &pending})
	if err != nil {
		t.Fatalf("FilterSessions() failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("pending_cancellation filter returned %d sessions; want none", len(got))
	}
}
