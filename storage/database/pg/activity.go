package pgrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/darasa/backoffice/core"
)

type eventRow struct {
	ID         string    `db:"id"`
	ActorID    string    `db:"actor_id"`
	Action     string    `db:"action"`
	ObjectType string    `db:"object_type"`
	ObjectID   string    `db:"object_id"`
	Detail     string    `db:"detail"`
	CreatedAt  time.Time `db:"created_at"`
}

type activityLog struct {
	db *sqlx.DB
}

func NewActivityLog(db *sqlx.DB) core.ActivityLog {
	return &activityLog{db: db}
}

func (l *activityLog) Record(ctx context.Context, evt core.Event) error {
	_, err := l.db.NamedExecContext(ctx, `
		INSERT INTO activity_log (id, actor_id, action, object_type, object_id, detail, created_at)
		VALUES (:id, :actor_id, :action, :object_type, :object_id, :detail, :created_at)`,
		eventRow{
			ID:         evt.ID,
			ActorID:    evt.ActorID,
			Action:     evt.Action,
			ObjectType: evt.ObjectType,
			ObjectID:   evt.ObjectID,
			Detail:     evt.Detail,
			CreatedAt:  evt.CreatedAt,
		})
	return errors.Wrap(err, "recording activity event")
}
