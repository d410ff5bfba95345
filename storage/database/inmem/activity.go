package inmemdb

import (
	"context"

	"github.com/darasa/backoffice/core"
)

type activityLog struct {
	db *activityTable
}

func NewActivityLog(db *DB) core.ActivityLog {
	return &activityLog{db: db.activity}
}

func (l *activityLog) Record(_ context.Context, evt core.Event) error {
	l.db.mutex.Lock()
	defer l.db.mutex.Unlock()
	l.db.t = append(l.db.t, evt)
	return nil
}

// Events returns a copy of everything recorded so far; tests only.
func (l *activityLog) Events() []core.Event {
	l.db.mutex.Lock()
	defer l.db.mutex.Unlock()
	return append([]core.Event(nil), l.db.t...)
}
