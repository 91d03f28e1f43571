package repository

import (
	"context"

	"threadflow/internal/models"
	"threadflow/internal/store"
)

// Affiliate sheet columns: id, accountId, contentId, description,
// affiliateUrl, callToAction.

type AffiliateRepository interface {
	ListByContentID(ctx context.Context, contentID string) ([]*models.AffiliateContent, error)
}

type affiliateRepository struct {
	rs store.RowStore
}

func NewAffiliateRepository(rs store.RowStore) AffiliateRepository {
	return &affiliateRepository{rs: rs}
}

func (r *affiliateRepository) ListByContentID(ctx context.Context, contentID string) ([]*models.AffiliateContent, error) {
	rows, err := r.rs.ReadRows(ctx, store.SheetAffiliate)
	if err != nil {
		return nil, err
	}

	var items []*models.AffiliateContent
	for _, row := range rows {
		item := mapAffiliate(row)
		if item.ID == "" || item.ContentID != contentID {
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

func mapAffiliate(row []interface{}) *models.AffiliateContent {
	return &models.AffiliateContent{
		ID:           cellString(row, 0),
		AccountID:    cellString(row, 1),
		ContentID:    cellString(row, 2),
		Description:  cellString(row, 3),
		AffiliateURL: cellString(row, 4),
		CallToAction: cellString(row, 5),
	}
}
