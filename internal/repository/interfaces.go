package repository

import (
	"context"

	"github.com/rpggio/chunking/internal/domain/activity"
)

// SlotRepository manages named durable storage slots. A slot holds one
// serialized document and is overwritten wholesale on every Put.
type SlotRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
}

// ActivityRepository manages activity log persistence
type ActivityRepository interface {
	Log(ctx context.Context, entry *activity.ActivityEntry) error
	List(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error)
}
