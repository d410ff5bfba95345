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

	"github.com/darasa/backoffice/core/cvrequest"
)

type cvRequestRow struct {
	ID             string      `db:"id"`
	ApplicantID    string      `db:"applicant_id"`
	ApplicantEmail string      `db:"applicant_email"`
	TargetRole     string      `db:"target_role"`
	Notes          string      `db:"notes"`
	Status         string      `db:"status"`
	CVURL          string      `db:"cv_url"`
	TailoredCVURL  null.String `db:"tailored_cv_url"`
	Price          int         `db:"price"`
	CreatedAt      time.Time   `db:"created_at"`
	UpdatedAt      time.Time   `db:"updated_at"`
}

func newCVRequestRow(r cvrequest.CVRequest) cvRequestRow {
	return cvRequestRow{
		ID:             r.ID,
		ApplicantID:    r.ApplicantID,
		ApplicantEmail: r.ApplicantEmail,
		TargetRole:     r.TargetRole,
		Notes:          r.Notes,
		Status:         string(r.Status),
		CVURL:          r.CVURL,
		TailoredCVURL:  r.TailoredCVURL,
		Price:          r.Price,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

func (row cvRequestRow) toCVRequest() cvrequest.CVRequest {
	return cvrequest.CVRequest{
		ID:             row.ID,
		ApplicantID:    row.ApplicantID,
		ApplicantEmail: row.ApplicantEmail,
		TargetRole:     row.TargetRole,
		Notes:          row.Notes,
		Status:         cvrequest.Status(row.Status),
		CVURL:          row.CVURL,
		TailoredCVURL:  row.TailoredCVURL,
		Price:          row.Price,
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}
}

type cvRequestRepository struct {
	db *sqlx.DB
}

func NewCVRequestRepository(db *sqlx.DB) cvrequest.Repository {
	return &cvRequestRepository{db: db}
}

func (repo *cvRequestRepository) CreateCVRequest(ctx context.Context, r cvrequest.CVRequest) (cvrequest.CVRequest, error) {
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO cv_request (
			id, applicant_id, applicant_email, target_role, notes, status,
			cv_url, tailored_cv_url, price, created_at, updated_at
		) VALUES (
			:id, :applicant_id, :applicant_email, :target_role, :notes, :status,
			:cv_url, :tailored_cv_url, :price, :created_at, :updated_at
		)`, newCVRequestRow(r))
	if err != nil {
		return cvrequest.CVRequest{}, errors.Wrap(err, "inserting cv request")
	}
	return r, nil
}

func (repo *cvRequestRepository) GetCVRequestByID(ctx context.Context, id string) (cvrequest.CVRequest, error) {
	var row cvRequestRow
	err := repo.db.GetContext(ctx, &row, `SELECT * FROM cv_request WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return cvrequest.CVRequest{}, cvrequest.ErrNotFound
		}
		return cvrequest.CVRequest{}, errors.Wrap(err, "getting cv request")
	}
	return row.toCVRequest(), nil
}

func (repo *cvRequestRepository) QueryAllCVRequests(ctx context.Context) ([]cvrequest.CVRequest, error) {
	var rows []cvRequestRow
	if err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM cv_request ORDER BY created_at`); err != nil {
		return nil, errors.Wrap(err, "querying cv requests")
	}
	reqs := make([]cvrequest.CVRequest, 0, len(rows))
	for _, row := range rows {
		reqs = append(reqs, row.toCVRequest())
	}
	return reqs, nil
}

func (repo *cvRequestRepository) FilterCVRequests(ctx context.Context, filter cvrequest.QueryFilter) ([]cvrequest.CVRequest, error) {
	conds := make([]string, 0, 2)
	args := make([]interface{}, 0, 2)
	arg := func(v interface{}) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if filter.Status != "" {
		conds = append(conds, "status = "+arg(string(filter.Status)))
	}
	if filter.ApplicantID != "" {
		conds = append(conds, "applicant_id = "+arg(filter.ApplicantID))
	}

	query := `SELECT * FROM cv_request`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at"

	var rows []cvRequestRow
	if err := repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "filtering cv requests")
	}
	reqs := make([]cvrequest.CVRequest, 0, len(rows))
	for _, row := range rows {
		reqs = append(reqs, row.toCVRequest())
	}
	return reqs, nil
}

func (repo *cvRequestRepository) UpdateCVRequest(ctx context.Context, r cvrequest.CVRequest) (cvrequest.CVRequest, error) {
	res, err := repo.db.NamedExecContext(ctx, `
		UPDATE cv_request SET
			status = :status, tailored_cv_url = :tailored_cv_url, updated_at = :updated_at
		WHERE id = :id`, newCVRequestRow(r))
	if err != nil {
		return cvrequest.CVRequest{}, errors.Wrap(err, "updating cv request")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return cvrequest.CVRequest{}, cvrequest.ErrNotFound
	}
	return r, nil
}

func (repo *cvRequestRepository) DeleteCVRequestsByID(ctx context.Context, ids ...string) error {
	query, args, err := sqlx.In(`DELETE FROM cv_request WHERE id IN (?)`, ids)
	if err != nil {
		return errors.Wrap(err, "building delete query")
	}
	if _, err = repo.db.ExecContext(ctx, repo.db.Rebind(query), args...); err != nil {
		return errors.Wrap(err, "deleting cv requests")
	}
	return nil
}
