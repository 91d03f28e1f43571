package kvstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_SetGet(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	_, err := s.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Set(ctx, "k", "v", 0))
	value, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", value)

	require.NoError(t, s.Delete(ctx, "k"))
	_, err = s.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_SetNX(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	ok, err := s.SetNX(ctx, "k", "first", 0)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.SetNX(ctx, "k", "second", 0)
	require.NoError(t, err)
	assert.False(t, ok)

	value, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "first", value)
}

func TestMemoryStore_TTL(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", "v", time.Millisecond))
	time.Sleep(5 * time.Millisecond)

	_, err := s.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)

	ok, err := s.SetNX(ctx, "k", "again", 0)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMemoryStore_DeleteByPrefix(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "CONTENT_HISTORY_A1", "[]", 0))
	require.NoError(t, s.Set(ctx, "CONTENT_HISTORY_A2", "[]", 0))
	require.NoError(t, s.Set(ctx, "TOKEN_A1", "x", 0))

	deleted, err := s.DeleteByPrefix(ctx, ContentHistoryKeyPrefix)
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)

	_, err = s.Get(ctx, "TOKEN_A1")
	assert.NoError(t, err)
}

func TestKeyBuilders(t *testing.T) {
	day := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "TOKEN_A1", TokenKey("A1"))
	assert.Equal(t, "CONTENT_HISTORY_A1", ContentHistoryKey("A1"))
	assert.Equal(t, "AFFILIATE_HISTORY_A1_C1", AffiliateHistoryKey("A1", "C1"))
	assert.Equal(t, "SCHEDULED_2026-08-31_12", ScheduledKey(day, 12))
	assert.Equal(t, "SCHEDULED_2026-08-31_", ScheduledDayPrefix(day))
}
