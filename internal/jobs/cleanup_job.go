package job

import (
	"context"
	"log/slog"
	"time"

	"threadflow/internal/kvstore"
)

// CleanupJob removes schedule flags from past days. Today's and
// yesterday's flags are kept so a tick near midnight cannot re-run an
// hour that already executed.
type CleanupJob struct {
	kv kvstore.Store
}

func NewCleanupJob(kv kvstore.Store) *CleanupJob {
	return &CleanupJob{kv: kv}
}

func (j *CleanupJob) RemoveStaleFlags() {
	ctx := context.Background()

	var total int
	for daysAgo := 2; daysAgo <= 14; daysAgo++ {
		day := time.Now().AddDate(0, 0, -daysAgo)
		removed, err := j.kv.DeleteByPrefix(ctx, kvstore.ScheduledDayPrefix(day))
		if err != nil {
			slog.Info(err.Error())
			continue
		}
		total += removed
	}

	if total > 0 {
		slog.Info("removed stale schedule flags", "count", total)
	}
}
