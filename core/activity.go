package core

import (
	"context"
	"time"
)

// Event is a single append-only activity log record.
type Event struct {
	ID         string    `json:"id"`
	ActorID    string    `json:"actor_id"`
	Action     string    `json:"action"`
	ObjectType string    `json:"object_type"`
	ObjectID   string    `json:"object_id"`
	Detail     string    `json:"detail"`
	CreatedAt  time.Time `json:"created_at"` // UTC
}

// ActivityLog is any sink that records admin activity events.
// Records are append-only; they are never updated or deleted.
type ActivityLog interface {
	Record(ctx context.Context, evt Event) error
}
