package kvstore

import (
	"context"
	"errors"
	"strconv"
	"time"
)

// Store is a small key-value surface over the persistence layer used for
// access tokens, selection histories and scheduled-run idempotency
// flags. SetNX is the only atomic primitive the system needs: it backs
// the per-hour run claim.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	Delete(ctx context.Context, key string) error
	DeleteByPrefix(ctx context.Context, prefix string) (int, error)
	Close() error
}

// ErrNotFound is returned by Get when the key does not exist.
var ErrNotFound = errors.New("kvstore: key not found")

// Key formats shared by services and jobs.
const (
	TokenKeyPrefix            = "TOKEN_"
	ContentHistoryKeyPrefix   = "CONTENT_HISTORY_"
	AffiliateHistoryKeyPrefix = "AFFILIATE_HISTORY_"
	ScheduledKeyPrefix        = "SCHEDULED_"
)

func TokenKey(accountID string) string {
	return TokenKeyPrefix + accountID
}

func ContentHistoryKey(accountID string) string {
	return ContentHistoryKeyPrefix + accountID
}

func AffiliateHistoryKey(accountID, contentID string) string {
	return AffiliateHistoryKeyPrefix + accountID + "_" + contentID
}

// ScheduledKey marks one executed hour for one day: SCHEDULED_2026-08-31_12.
func ScheduledKey(day time.Time, hour int) string {
	return ScheduledDayPrefix(day) + strconv.Itoa(hour)
}

// ScheduledDayPrefix covers every hour flag of one day.
func ScheduledDayPrefix(day time.Time) string {
	return ScheduledKeyPrefix + day.Format("2006-01-02") + "_"
}
