package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/darasa/backoffice/core/session"
	"github.com/darasa/backoffice/core/user"
)

func CreateUser(
	t *testing.T,
	repo user.Repository,
	name, uname, email, pwd string,
	roles []string,
	isActive bool,
	createdAt ...time.Time,
) user.User {
	t.Helper()

	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	usr := user.User{
		ID:        uuid.NewString(),
		Name:      name,
		Username:  uname,
		Email:     email,
		Roles:     roles,
		IsActive:  isActive,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

func CreateSession(
	t *testing.T,
	repo session.Repository,
	studentID, tutorID, subject string,
	scheduledAt time.Time,
	status session.Status,
	price int,
	createdAt ...time.Time,
) session.Session {
	t.Helper()

	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	s := session.Session{
		ID:              uuid.NewString(),
		StudentID:       studentID,
		StudentEmail:    studentID + "@test.cd",
		TutorID:         tutorID,
		TutorEmail:      tutorID + "@test.cd",
		Subject:         subject,
		ScheduledAt:     scheduledAt.UTC(),
		DurationMinutes: 60,
		Status:          status,
		Price:           price,
		CreatedAt:       tstamp,
		UpdatedAt:       tstamp,
	}
	s, err := repo.CreateSession(context.Background(), s)
	if err != nil {
		t.Fatalf("CreateSession() failed: %v", err)
	}
	return s
}
