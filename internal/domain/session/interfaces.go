package session

import (
	"context"

	"github.com/rpggio/chunking/internal/domain/activity"
)

// ActivityLogger records intents. Failures are logged and ignored.
type ActivityLogger interface {
	LogActivity(ctx context.Context, entry *activity.ActivityEntry) error
}
