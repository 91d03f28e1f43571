package repository

import (
	"context"
	"fmt"
	"time"

	"threadflow/internal/models"
	"threadflow/internal/store"
)

// Logs sheet columns: timestamp, account, content, type, result, postId,
// detail. ScheduledRuns: timestamp, hour, total, success, failure,
// successRate, note. Both are append-only.

type LogRepository interface {
	AppendActivity(ctx context.Context, entry *models.ActivityLog) error
	AppendScheduledRun(ctx context.Context, entry *models.ScheduledRunLog) error
	CountToday(ctx context.Context, now time.Time) (int, error)
	TodaySuccessRate(ctx context.Context, now time.Time) (int, error)
}

type logRepository struct {
	rs store.RowStore
}

func NewLogRepository(rs store.RowStore) LogRepository {
	return &logRepository{rs: rs}
}

func (r *logRepository) AppendActivity(ctx context.Context, entry *models.ActivityLog) error {
	row := []interface{}{
		formatTime(entry.Timestamp),
		entry.Account,
		entry.Content,
		entry.Type,
		entry.Result,
		entry.PostID,
		entry.Detail,
	}
	return r.rs.AppendRow(ctx, store.SheetLogs, row)
}

func (r *logRepository) AppendScheduledRun(ctx context.Context, entry *models.ScheduledRunLog) error {
	row := []interface{}{
		formatTime(entry.Timestamp),
		fmt.Sprintf("%d:00", entry.Hour),
		entry.Total,
		entry.Success,
		entry.Failure,
		fmt.Sprintf("%d%%", entry.SuccessRate),
		entry.Note,
	}
	return r.rs.AppendRow(ctx, store.SheetScheduledRuns, row)
}

func (r *logRepository) CountToday(ctx context.Context, now time.Time) (int, error) {
	rows, err := r.rs.ReadRows(ctx, store.SheetLogs)
	if err != nil {
		return 0, err
	}
	today := now.Format("2006-01-02")
	var count int
	for _, row := range rows {
		if ts := cellTime(row, 0); !ts.IsZero() && ts.Format("2006-01-02") == today {
			count++
		}
	}
	return count, nil
}

func (r *logRepository) TodaySuccessRate(ctx context.Context, now time.Time) (int, error) {
	rows, err := r.rs.ReadRows(ctx, store.SheetLogs)
	if err != nil {
		return 0, err
	}
	today := now.Format("2006-01-02")
	var total, success int
	for _, row := range rows {
		ts := cellTime(row, 0)
		if ts.IsZero() || ts.Format("2006-01-02") != today {
			continue
		}
		total++
		if cellString(row, 4) == models.LogResultSuccess {
			success++
		}
	}
	if total == 0 {
		return 100, nil
	}
	return success * 100 / total, nil
}
