package repository

import (
	"context"
	"log/slog"

	"threadflow/internal/models"
	"threadflow/internal/store"
)

// Content sheet columns: accountId, id, mainText, usedCount, useImage.
const contentColUsedCount = 4

type ContentRepository interface {
	ListAll(ctx context.Context) ([]*models.Content, error)
	IncrementUsage(ctx context.Context, contentID string) error
}

type contentRepository struct {
	rs store.RowStore
}

func NewContentRepository(rs store.RowStore) ContentRepository {
	return &contentRepository{rs: rs}
}

func (r *contentRepository) ListAll(ctx context.Context) ([]*models.Content, error) {
	rows, err := r.rs.ReadRows(ctx, store.SheetContent)
	if err != nil {
		return nil, err
	}

	items := make([]*models.Content, 0, len(rows))
	for _, row := range rows {
		item := mapContent(row)
		if item.ID == "" {
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

// IncrementUsage bumps usedCount for the first row carrying contentID.
// Observational only, never consulted as a cap.
func (r *contentRepository) IncrementUsage(ctx context.Context, contentID string) error {
	rows, err := r.rs.ReadRows(ctx, store.SheetContent)
	if err != nil {
		return err
	}

	for i, row := range rows {
		if cellString(row, 1) != contentID {
			continue
		}
		count := cellInt(row, 3) + 1
		if err := r.rs.UpdateCell(ctx, store.SheetContent, i+2, contentColUsedCount, count); err != nil {
			slog.Info(err.Error())
			return err
		}
		return nil
	}
	return nil
}

func mapContent(row []interface{}) *models.Content {
	useImage := cellString(row, 4)
	if useImage == "" {
		useImage = "NO"
	}
	return &models.Content{
		AccountID: cellString(row, 0),
		ID:        cellString(row, 1),
		MainText:  cellString(row, 2),
		UsedCount: cellInt(row, 3),
		UseImage:  useImage,
	}
}
