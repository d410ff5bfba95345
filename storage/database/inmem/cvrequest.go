package inmemdb

import (
	"context"
	"sort"

	"github.com/darasa/backoffice/core/cvrequest"
)

type cvRequestRepository struct {
	db *cvRequestTable
}

func NewCVRequestRepository(db *DB) cvrequest.Repository {
	return &cvRequestRepository{db: db.cvrequest}
}

func (repo *cvRequestRepository) query() []cvrequest.CVRequest {
	reqs := make([]cvrequest.CVRequest, 0, len(repo.db.t))
	for _, r := range repo.db.t {
		reqs = append(reqs, *r)
	}
	sort.Slice(reqs, func(i, j int) bool { return reqs[i].CreatedAt.Before(reqs[j].CreatedAt) })
	return reqs
}

func (repo *cvRequestRepository) CreateCVRequest(_ context.Context, r cvrequest.CVRequest) (cvrequest.CVRequest, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.t[r.ID] = &r
	return r, nil
}

func (repo *cvRequestRepository) GetCVRequestByID(_ context.Context, id string) (cvrequest.CVRequest, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if r, ok := repo.db.t[id]; ok {
		return *r, nil
	}
	return cvrequest.CVRequest{}, cvrequest.ErrNotFound
}

func (repo *cvRequestRepository) QueryAllCVRequests(_ context.Context) ([]cvrequest.CVRequest, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return repo.query(), nil
}

func (repo *cvRequestRepository) FilterCVRequests(_ context.Context, filter cvrequest.QueryFilter) ([]cvrequest.CVRequest, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	matches := make([]cvrequest.CVRequest, 0)
	for _, r := range repo.query() {
		if filter.Status != "" && r.Status != filter.Status {
			continue
		}
		if filter.ApplicantID != "" && r.ApplicantID != filter.ApplicantID {
			continue
		}
		matches = append(matches, r)
	}
	return matches, nil
}

func (repo *cvRequestRepository) UpdateCVRequest(_ context.Context, r cvrequest.CVRequest) (cvrequest.CVRequest, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.t[r.ID]; !ok {
		return cvrequest.CVRequest{}, cvrequest.ErrNotFound
	}
	repo.db.t[r.ID] = &r
	return r, nil
}

func (repo *cvRequestRepository) DeleteCVRequestsByID(_ context.Context, ids ...string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	for _, id := range ids {
		delete(repo.db.t, id)
	}
	return nil
}
