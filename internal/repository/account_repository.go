package repository

import (
	"context"
	"log/slog"
	"time"

	"threadflow/internal/models"
	"threadflow/internal/store"
)

// Accounts sheet columns: id, username, appId, userId, lastPostTime,
// dailyPostCount, status.
const (
	accountColLastPostTime   = 5
	accountColDailyPostCount = 6
)

type AccountRepository interface {
	ListAll(ctx context.Context) ([]*models.Account, error)
	GetByID(ctx context.Context, accountID string) (*models.Account, error)
	RecordPost(ctx context.Context, accountID string, at time.Time) error
}

type accountRepository struct {
	rs store.RowStore
}

func NewAccountRepository(rs store.RowStore) AccountRepository {
	return &accountRepository{rs: rs}
}

func (r *accountRepository) ListAll(ctx context.Context) ([]*models.Account, error) {
	rows, err := r.rs.ReadRows(ctx, store.SheetAccounts)
	if err != nil {
		return nil, err
	}

	accounts := make([]*models.Account, 0, len(rows))
	for _, row := range rows {
		account := mapAccount(row)
		if account.ID == "" {
			continue
		}
		accounts = append(accounts, account)
	}
	return accounts, nil
}

func (r *accountRepository) GetByID(ctx context.Context, accountID string) (*models.Account, error) {
	accounts, err := r.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, account := range accounts {
		if account.ID == accountID {
			return account, nil
		}
	}
	return nil, nil
}

// RecordPost bumps lastPostTime and dailyPostCount. These are
// observational counters: callers treat failures as non-fatal.
func (r *accountRepository) RecordPost(ctx context.Context, accountID string, at time.Time) error {
	rows, err := r.rs.ReadRows(ctx, store.SheetAccounts)
	if err != nil {
		return err
	}

	for i, row := range rows {
		if cellString(row, 0) != accountID {
			continue
		}
		rowID := i + 2
		if err := r.rs.UpdateCell(ctx, store.SheetAccounts, rowID, accountColLastPostTime, formatTime(at)); err != nil {
			slog.Info(err.Error())
			return err
		}
		count := cellInt(row, 5) + 1
		if err := r.rs.UpdateCell(ctx, store.SheetAccounts, rowID, accountColDailyPostCount, count); err != nil {
			slog.Info(err.Error())
			return err
		}
		return nil
	}
	return nil
}

func mapAccount(row []interface{}) *models.Account {
	return &models.Account{
		ID:             cellString(row, 0),
		Username:       cellString(row, 1),
		AppID:          cellString(row, 2),
		UserID:         cellString(row, 3),
		LastPostTime:   cellTime(row, 4),
		DailyPostCount: cellInt(row, 5),
		Status:         cellString(row, 6),
	}
}
