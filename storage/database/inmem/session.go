package inmemdb

import (
	"context"
	"sort"

	"github.com/darasa/backoffice/core/session"
)

type sessionRepository struct {
	db *sessionTable
}

func NewSessionRepository(db *DB) session.Repository {
	return &sessionRepository{db: db.session}
}

func (repo *sessionRepository) query() []session.Session {
	sessions := make([]session.Session, 0, len(repo.db.t))
	for _, s := range repo.db.t {
		sessions = append(sessions, *s)
	}
	sort.Slice(sessions, func(i, j int) bool { return sessions[i].CreatedAt.Before(sessions[j].CreatedAt) })
	return sessions
}

func (repo *sessionRepository) CreateSession(_ context.Context, s session.Session) (session.Session, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.t[s.ID] = &s
	return s, nil
}

func (repo *sessionRepository) GetSessionByID(_ context.Context, id string) (session.Session, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if s, ok := repo.db.t[id]; ok {
		return *s, nil
	}
	return session.Session{}, session.ErrNotFound
}

func (repo *sessionRepository) QueryAllSessions(_ context.Context) ([]session.Session, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return repo.query(), nil
}

func (repo *sessionRepository) FilterSessions(_ context.Context, filter session.QueryFilter) ([]session.Session, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	matches := make([]session.Session, 0)
	for _, s := range repo.query() {
		if filter.Status != "" && s.Status != filter.Status {
			continue
		}
		if filter.TutorID != "" && s.TutorID != filter.TutorID {
			continue
		}
		if filter.StudentID != "" && s.StudentID != filter.StudentID {
			continue
		}
		if !filter.ScheduledFrom.IsZero() && s.ScheduledAt.Before(filter.ScheduledFrom) {
			continue
		}
		if !filter.ScheduledTo.IsZero() && s.ScheduledAt.After(filter.ScheduledTo) {
			continue
		}
		if filter.PendingCancellation != nil && s.Cancellation.IsPending() != *filter.PendingCancellation {
			continue
		}
		matches = append(matches, s)
	}
	return matches, nil
}

func (repo *sessionRepository) CommitPatch(_ context.Context, id string, expectedVersion int, p session.Patch) (session.Session, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	orig, ok := repo.db.t[id]
	if !ok {
		return session.Session{}, session.ErrNotFound
	}
	if orig.Version != expectedVersion {
		return session.Session{}, session.ErrConflict
	}

	s := p.Apply(*orig)
	repo.db.t[id] = &s
	return s, nil
}

func (repo *sessionRepository) DeleteSessionsByID(_ context.Context, ids ...string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	for _, id := range ids {
		delete(repo.db.t, id)
	}
	return nil
}
