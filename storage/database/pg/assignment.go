package pgrepos

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/darasa/backoffice/core/assignment"
)

type assignmentRow struct {
	ID           string      `db:"id"`
	StudentID    string      `db:"student_id"`
	StudentEmail string      `db:"student_email"`
	Subject      string      `db:"subject"`
	Description  string      `db:"description"`
	Deadline     time.Time   `db:"deadline"`
	Status       string      `db:"status"`
	SolutionURL  null.String `db:"solution_url"`
	Price        int         `db:"price"`
	CreatedAt    time.Time   `db:"created_at"`
	UpdatedAt    time.Time   `db:"updated_at"`
}

func newAssignmentRow(a assignment.Assignment) assignmentRow {
	return assignmentRow{
		ID:           a.ID,
		StudentID:    a.StudentID,
		StudentEmail: a.StudentEmail,
		Subject:      a.Subject,
		Description:  a.Description,
		Deadline:     a.Deadline,
		Status:       string(a.Status),
		SolutionURL:  a.SolutionURL,
		Price:        a.Price,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

func (row assignmentRow) toAssignment() assignment.Assignment {
	return assignment.Assignment{
		ID:           row.ID,
		StudentID:    row.StudentID,
		StudentEmail: row.StudentEmail,
		Subject:      row.Subject,
		Description:  row.Description,
		Deadline:     row.Deadline,
		Status:       assignment.Status(row.Status),
		SolutionURL:  row.SolutionURL,
		Price:        row.Price,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
}

type assignmentRepository struct {
	db *sqlx.DB
}

func NewAssignmentRepository(db *sqlx.DB) assignment.Repository {
	return &assignmentRepository{db: db}
}

func (repo *assignmentRepository) CreateAssignment(ctx context.Context, a assignment.Assignment) (assignment.Assignment, error) {
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO assignment (
			id, student_id, student_email, subject, description, deadline,
			status, solution_url, price, created_at, updated_at
		) VALUES (
			:id, :student_id, :student_email, :subject, :description, :deadline,
			:status, :solution_url, :price, :created_at, :updated_at
		)`, newAssignmentRow(a))
	if err != nil {
		return assignment.Assignment{}, errors.Wrap(err, "inserting assignment")
	}
	return a, nil
}

func (repo *assignmentRepository) GetAssignmentByID(ctx context.Context, id string) (assignment.Assignment, error) {
	var row assignmentRow
	err := repo.db.GetContext(ctx, &row, `SELECT * FROM assignment WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return assignment.Assignment{}, assignment.ErrNotFound
		}
		return assignment.Assignment{}, errors.Wrap(err, "getting assignment")
	}
	return row.toAssignment(), nil
}

func (repo *assignmentRepository) QueryAllAssignments(ctx context.Context) ([]assignment.Assignment, error) {
	var rows []assignmentRow
	if err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM assignment ORDER BY created_at`); err != nil {
		return nil, errors.Wrap(err, "querying assignments")
	}
	assignments := make([]assignment.Assignment, 0, len(rows))
	for _, row := range rows {
		assignments = append(assignments, row.toAssignment())
	}
	return assignments, nil
}

func (repo *assignmentRepository) FilterAssignments(ctx context.Context, filter assignment.QueryFilter) ([]assignment.Assignment, error) {
	conds := make([]string, 0, 4)
	args := make([]interface{}, 0, 4)
	arg := func(v interface{}) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if filter.Status != "" {
		conds = append(conds, "status = "+arg(string(filter.Status)))
	}
	if filter.StudentID != "" {
		conds = append(conds, "student_id = "+arg(filter.StudentID))
	}
	if !filter.DeadlineFrom.IsZero() {
		conds = append(conds, "deadline >= "+arg(filter.DeadlineFrom))
	}
	if !filter.DeadlineTo.IsZero() {
		conds = append(conds, "deadline <= "+arg(filter.DeadlineTo))
	}

	query := `SELECT * FROM assignment`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at"

	var rows []assignmentRow
	if err := repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "filtering assignments")
	}
	assignments := make([]assignment.Assignment, 0, len(rows))
	for _, row := range rows {
		assignments = append(assignments, row.toAssignment())
	}
	return assignments, nil
}

func (repo *assignmentRepository) UpdateAssignment(ctx context.Context, a assignment.Assignment) (assignment.Assignment, error) {
	res, err := repo.db.NamedExecContext(ctx, `
		UPDATE assignment SET
			status = :status, solution_url = :solution_url, updated_at = :updated_at
		WHERE id = :id`, newAssignmentRow(a))
	if err != nil {
		return assignment.Assignment{}, errors.Wrap(err, "updating assignment")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return assignment.Assignment{}, assignment.ErrNotFound
	}
	return a, nil
}

func (repo *assignmentRepository) DeleteAssignmentsByID(ctx context.Context, ids ...string) error {
	query, args, err := sqlx.In(`DELETE FROM assignment WHERE id IN (?)`, ids)
	if err != nil {
		return errors.Wrap(err, "building delete query")
	}
	if _, err = repo.db.ExecContext(ctx, repo.db.Rebind(query), args...); err != nil {
		return errors.Wrap(err, "deleting assignments")
	}
	return nil
}
