package job

import (
	"context"
	"log/slog"
	"time"

	config "threadflow/configs"
	"threadflow/internal/kvstore"
	"threadflow/internal/models"
	"threadflow/internal/repository"
	"threadflow/internal/service"
)

const (
	RunExecuted        = "executed"
	RunAlreadyExecuted = "already_executed"
	RunNotTime         = "not_time"
	RunDisabled        = "disabled"
	RunError           = "error"
)

// ScheduledPostJob is the minute tick behind the posting schedule. It
// fires the batch when the clock enters one of the configured hours,
// and a per-day-per-hour flag in the key-value store guarantees each
// hour's batch runs at most once even if ticks overlap.
type ScheduledPostJob struct {
	cfg config.Config
	kv  kvstore.Store
	ap  service.AutopostService
	lr  repository.LogRepository
	now func() time.Time
}

func NewScheduledPostJob(
	cfg config.Config,
	kv kvstore.Store,
	ap service.AutopostService,
	lr repository.LogRepository) *ScheduledPostJob {
	return &ScheduledPostJob{
		cfg: cfg,
		kv:  kv,
		ap:  ap,
		lr:  lr,
		now: time.Now,
	}
}

func (j *ScheduledPostJob) CheckAndRun() string {
	ctx := context.Background()

	if !j.cfg.Schedule.Enabled {
		return RunDisabled
	}

	now := j.localNow()
	if !j.isPostingTime(now) {
		return RunNotTime
	}

	// The flag is claimed before the batch starts so that two
	// near-simultaneous ticks cannot both run the same hour.
	key := kvstore.ScheduledKey(now, now.Hour())
	claimed, err := j.kv.SetNX(ctx, key, now.Format(time.RFC3339), 48*time.Hour)
	if err != nil {
		slog.Error("failed to claim schedule flag", "key", key, "error", err.Error())
		return RunError
	}
	if !claimed {
		return RunAlreadyExecuted
	}

	slog.Info("scheduled posting triggered", "hour", now.Hour())

	batch := j.ap.RunScheduledBatch(ctx)
	j.logRun(ctx, now.Hour(), batch)

	return RunExecuted
}

func (j *ScheduledPostJob) isPostingTime(now time.Time) bool {
	if now.Minute() > j.cfg.Schedule.MinuteWindow {
		return false
	}
	for _, hour := range j.cfg.Schedule.PostingHours {
		if now.Hour() == hour {
			return true
		}
	}
	return false
}

func (j *ScheduledPostJob) localNow() time.Time {
	loc, err := time.LoadLocation(j.cfg.Schedule.Timezone)
	if err != nil {
		slog.Info(err.Error())
		return j.now()
	}
	return j.now().In(loc)
}

func (j *ScheduledPostJob) logRun(ctx context.Context, hour int, batch *models.BatchResult) {
	total := batch.TotalSuccess + batch.TotalFailure
	rate := 0
	if total > 0 {
		rate = batch.TotalSuccess * 100 / total
	}

	entry := &models.ScheduledRunLog{
		Timestamp:   time.Now(),
		Hour:        hour,
		Total:       total,
		Success:     batch.TotalSuccess,
		Failure:     batch.TotalFailure,
		SuccessRate: rate,
		Note:        batch.Error,
	}
	if err := j.lr.AppendScheduledRun(ctx, entry); err != nil {
		slog.Info(err.Error())
	}

	slog.Info("scheduled run finished",
		"hour", hour,
		"total", total,
		"success", batch.TotalSuccess,
		"failure", batch.TotalFailure,
		"rate", rate)
}
