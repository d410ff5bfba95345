package inmemdb

import (
	"context"
	"sort"

	"github.com/darasa/backoffice/core/assignment"
)

type assignmentRepository struct {
	db *assignmentTable
}

func NewAssignmentRepository(db *DB) assignment.Repository {
	return &assignmentRepository{db: db.assignment}
}

func (repo *assignmentRepository) query() []assignment.Assignment {
	assignments := make([]assignment.Assignment, 0, len(repo.db.t))
	for _, a := range repo.db.t {
		assignments = append(assignments, *a)
	}
	sort.Slice(assignments, func(i, j int) bool { return assignments[i].CreatedAt.Before(assignments[j].CreatedAt) })
	return assignments
}

func (repo *assignmentRepository) CreateAssignment(_ context.Context, a assignment.Assignment) (assignment.Assignment, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.t[a.ID] = &a
	return a, nil
}

func (repo *assignmentRepository) GetAssignmentByID(_ context.Context, id string) (assignment.Assignment, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if a, ok := repo.db.t[id]; ok {
		return *a, nil
	}
	return assignment.Assignment{}, assignment.ErrNotFound
}

func (repo *assignmentRepository) QueryAllAssignments(_ context.Context) ([]assignment.Assignment, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return repo.query(), nil
}

func (repo *assignmentRepository) FilterAssignments(_ context.Context, filter assignment.QueryFilter) ([]assignment.Assignment, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	matches := make([]assignment.Assignment, 0)
	for _, a := range repo.query() {
		if filter.Status != "" && a.Status != filter.Status {
			continue
		}
		if filter.StudentID != "" && a.StudentID != filter.StudentID {
			continue
		}
		if !filter.DeadlineFrom.IsZero() && a.Deadline.Before(filter.DeadlineFrom) {
			continue
		}
		if !filter.DeadlineTo.IsZero() && a.Deadline.After(filter.DeadlineTo) {
			continue
		}
		matches = append(matches, a)
	}
	return matches, nil
}

func (repo *assignmentRepository) UpdateAssignment(_ context.Context, a assignment.Assignment) (assignment.Assignment, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.t[a.ID]; !ok {
		return assignment.Assignment{}, assignment.ErrNotFound
	}
	repo.db.t[a.ID] = &a
	return a, nil
}

func (repo *assignmentRepository) DeleteAssignmentsByID(_ context.Context, ids ...string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	for _, id := range ids {
		delete(repo.db.t, id)
	}
	return nil
}
