package pgrepos

import (
	"context"
	"database/sql"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/darasa/backoffice/core/session"
)

type sessionRow struct {
	ID              string      `db:"id"`
	StudentID       string      `db:"student_id"`
	StudentEmail    string      `db:"student_email"`
	TutorID         string      `db:"tutor_id"`
	TutorEmail      string      `db:"tutor_email"`
	Subject         string      `db:"subject"`
	ScheduledAt     time.Time   `db:"scheduled_at"`
	DurationMinutes int         `db:"duration_minutes"`
	Status          string      `db:"status"`
	MeetingLink     null.String `db:"meeting_link"`
	MeetingPlatform null.String `db:"meeting_platform"`
	Price           int         `db:"price"`
	Cancellation    []byte      `db:"cancellation"`
	Version         int         `db:"version"`
	CreatedAt       time.Time   `db:"created_at"`
	UpdatedAt       time.Time   `db:"updated_at"`
}

func newSessionRow(s session.Session) (sessionRow, error) {
	row := sessionRow{
		ID:              s.ID,
		StudentID:       s.StudentID,
		StudentEmail:    s.StudentEmail,
		TutorID:         s.TutorID,
		TutorEmail:      s.TutorEmail,
		Subject:         s.Subject,
		ScheduledAt:     s.ScheduledAt,
		DurationMinutes: s.DurationMinutes,
		Status:          string(s.Status),
		MeetingLink:     s.MeetingLink,
		MeetingPlatform: s.MeetingPlatform,
		Price:           s.Price,
		Version:         s.Version,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
	if s.Cancellation != nil {
		data, err := json.Marshal(s.Cancellation)
		if err != nil {
			return sessionRow{}, errors.Wrap(err, "marshalling cancellation case")
		}
		row.Cancellation = data
	}
	return row, nil
}

func (row sessionRow) toSession() (session.Session, error) {
	s := session.Session{
		ID:              row.ID,
		StudentID:       row.StudentID,
		StudentEmail:    row.StudentEmail,
		TutorID:         row.TutorID,
		TutorEmail:      row.TutorEmail,
		Subject:         row.Subject,
		ScheduledAt:     row.ScheduledAt,
		DurationMinutes: row.DurationMinutes,
		Status:          session.Status(row.Status),
		MeetingLink:     row.MeetingLink,
		MeetingPlatform: row.MeetingPlatform,
		Price:           row.Price,
		Version:         row.Version,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}
	if len(row.Cancellation) > 0 {
		var c session.CancellationCase
		if err := json.Unmarshal(row.Cancellation, &c); err != nil {
			return session.Session{}, errors.Wrap(err, "unmarshalling cancellation case")
		}
		s.Cancellation = &c
	}
	return s, nil
}

type sessionRepository struct {
	db *sqlx.DB
}

func NewSessionRepository(db *sqlx.DB) session.Repository {
	return &sessionRepository{db: db}
}

func (repo *sessionRepository) CreateSession(ctx context.Context, s session.Session) (session.Session, error) {
	row, err := newSessionRow(s)
	if err != nil {
		return session.Session{}, err
	}
	_, err = repo.db.NamedExecContext(ctx, `
		INSERT INTO session (
			id, student_id, student_email, tutor_id, tutor_email, subject, scheduled_at,
			duration_minutes, status, meeting_link, meeting_platform, price, cancellation,
			version, created_at, updated_at
		) VALUES (
			:id, :student_id, :student_email, :tutor_id, :tutor_email, :subject, :scheduled_at,
			:duration_minutes, :status, :meeting_link, :meeting_platform, :price, :cancellation,
			:version, :created_at, :updated_at
		)`, row)
	if err != nil {
		return session.Session{}, errors.Wrap(err, "inserting session")
	}
	return s, nil
}

func (repo *sessionRepository) GetSessionByID(ctx context.Context, id string) (session.Session, error) {
	var row sessionRow
	err := repo.db.GetContext(ctx, &row, `SELECT * FROM session WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return session.Session{}, session.ErrNotFound
		}
		return session.Session{}, errors.Wrap(err, "getting session")
	}
	return row.toSession()
}

func (repo *sessionRepository) QueryAllSessions(ctx context.Context) ([]session.Session, error) {
	var rows []sessionRow
	if err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM session ORDER BY created_at`); err != nil {
		return nil, errors.Wrap(err, "querying sessions")
	}
	return toSessions(rows)
}

func (repo *sessionRepository) FilterSessions(ctx context.Context, filter session.QueryFilter) ([]session.Session, error) {
	conds := make([]string, 0, 6)
	args := make([]interface{}, 0, 6)
	arg := func(v interface{}) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if filter.Status != "" {
		conds = append(conds, "status = "+arg(string(filter.Status)))
	}
	if filter.TutorID != "" {
		conds = append(conds, "tutor_id = "+arg(filter.TutorID))
	}
	if filter.StudentID != "" {
		conds = append(conds, "student_id = "+arg(filter.StudentID))
	}
	if !filter.ScheduledFrom.IsZero() {
		conds = append(conds, "scheduled_at >= "+arg(filter.ScheduledFrom))
	}
	if !filter.ScheduledTo.IsZero() {
		conds = append(conds, "scheduled_at <= "+arg(filter.ScheduledTo))
	}
	if filter.PendingCancellation != nil {
		cond := "cancellation IS NOT NULL AND cancellation->>'status' = 'pending'"
		if !*filter.PendingCancellation {
			cond = "(cancellation IS NULL OR cancellation->>'status' <> 'pending')"
		}
		conds = append(conds, cond)
	}

	query := `SELECT * FROM session`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at"

	var rows []sessionRow
	if err := repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "filtering sessions")
	}
	return toSessions(rows)
}

// CommitPatch applies the patch inside a transaction holding a row lock;
// a version mismatch means the caller worked off a stale snapshot.
func (repo *sessionRepository) CommitPatch(ctx context.Context, id string, expectedVersion int, p session.Patch) (session.Session, error) {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return session.Session{}, errors.Wrap(err, "beginning tx")
	}
	defer func() { _ = tx.Rollback() }()

	var row sessionRow
	if err = tx.GetContext(ctx, &row, `SELECT * FROM session WHERE id = $1 FOR UPDATE`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return session.Session{}, session.ErrNotFound
		}
		return session.Session{}, errors.Wrap(err, "getting session")
	}
	if row.Version != expectedVersion {
		return session.Session{}, session.ErrConflict
	}

	s, err := row.toSession()
	if err != nil {
		return session.Session{}, err
	}
	s = p.Apply(s)

	row, err = newSessionRow(s)
	if err != nil {
		return session.Session{}, err
	}
	_, err = tx.NamedExecContext(ctx, `
		UPDATE session SET
			status = :status, meeting_link = :meeting_link, meeting_platform = :meeting_platform,
			cancellation = :cancellation, version = :version, updated_at = :updated_at
		WHERE id = :id`, row)
	if err != nil {
		return session.Session{}, errors.Wrap(err, "updating session")
	}
	if err = tx.Commit(); err != nil {
		return session.Session{}, errors.Wrap(err, "committing tx")
	}
	return s, nil
}

func (repo *sessionRepository) DeleteSessionsByID(ctx context.Context, ids ...string) error {
	query, args, err := sqlx.In(`DELETE FROM session WHERE id IN (?)`, ids)
	if err != nil {
		return errors.Wrap(err, "building delete query")
	}
	if _, err = repo.db.ExecContext(ctx, repo.db.Rebind(query), args...); err != nil {
		return errors.Wrap(err, "deleting sessions")
	}
	return nil
}

func toSessions(rows []sessionRow) ([]session.Session, error) {
	sessions := make([]session.Session, 0, len(rows))
	for _, row := range rows {
		s, err := row.toSession()
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, nil
}
