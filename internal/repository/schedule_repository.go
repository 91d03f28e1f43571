package repository

import (
	"context"
	"log/slog"
	"time"

	"threadflow/internal/models"
	"threadflow/internal/store"
)

// Schedule sheet columns: createdAt, accountId, contentId, parentPostId,
// executeTime, status, result.
const (
	scheduleColStatus = 6
	scheduleColResult = 7
)

type ScheduleRepository interface {
	Create(ctx context.Context, reply *models.PendingReply) error
	ListDue(ctx context.Context, now time.Time) ([]*models.PendingReply, error)
	CountPending(ctx context.Context) (int, error)
	MarkDone(ctx context.Context, rowID int, completedAt time.Time) error
}

type scheduleRepository struct {
	rs store.RowStore
}

func NewScheduleRepository(rs store.RowStore) ScheduleRepository {
	return &scheduleRepository{rs: rs}
}

func (r *scheduleRepository) Create(ctx context.Context, reply *models.PendingReply) error {
	row := []interface{}{
		formatTime(time.Now()),
		reply.AccountID,
		reply.ContentID,
		reply.ParentPostID,
		formatTime(reply.ExecuteTime),
		models.ReplyStatusPending,
		"",
	}
	return r.rs.AppendRow(ctx, store.SheetSchedule, row)
}

func (r *scheduleRepository) ListDue(ctx context.Context, now time.Time) ([]*models.PendingReply, error) {
	rows, err := r.rs.ReadRows(ctx, store.SheetSchedule)
	if err != nil {
		return nil, err
	}

	var due []*models.PendingReply
	for i, row := range rows {
		reply := mapPendingReply(row, i+2)
		if reply.Status != models.ReplyStatusPending {
			continue
		}
		if reply.ExecuteTime.After(now) {
			continue
		}
		due = append(due, reply)
	}
	return due, nil
}

func (r *scheduleRepository) CountPending(ctx context.Context) (int, error) {
	rows, err := r.rs.ReadRows(ctx, store.SheetSchedule)
	if err != nil {
		return 0, err
	}
	var count int
	for _, row := range rows {
		if cellString(row, 5) == models.ReplyStatusPending {
			count++
		}
	}
	return count, nil
}

func (r *scheduleRepository) MarkDone(ctx context.Context, rowID int, completedAt time.Time) error {
	if err := r.rs.UpdateCell(ctx, store.SheetSchedule, rowID, scheduleColStatus, models.ReplyStatusDone); err != nil {
		slog.Info(err.Error())
		return err
	}
	return r.rs.UpdateCell(ctx, store.SheetSchedule, rowID, scheduleColResult, formatTime(completedAt))
}

func mapPendingReply(row []interface{}, rowID int) *models.PendingReply {
	return &models.PendingReply{
		RowID:        rowID,
		AccountID:    cellString(row, 1),
		ContentID:    cellString(row, 2),
		ParentPostID: cellString(row, 3),
		ExecuteTime:  cellTime(row, 4),
		Status:       cellString(row, 5),
	}
}
