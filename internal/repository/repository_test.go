package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"threadflow/internal/models"
	"threadflow/internal/store"
)

type cellUpdate struct {
	sheet string
	rowID int
	col   int
	value interface{}
}

type fakeRowStore struct {
	sheets   map[string][][]interface{}
	appended map[string][][]interface{}
	updates  []cellUpdate
}

func newFakeRowStore() *fakeRowStore {
	return &fakeRowStore{
		sheets:   make(map[string][][]interface{}),
		appended: make(map[string][][]interface{}),
	}
}

func (f *fakeRowStore) ReadRows(ctx context.Context, sheetName string) ([][]interface{}, error) {
	return f.sheets[sheetName], nil
}

func (f *fakeRowStore) AppendRow(ctx context.Context, sheetName string, row []interface{}) error {
	f.appended[sheetName] = append(f.appended[sheetName], row)
	return nil
}

func (f *fakeRowStore) UpdateCell(ctx context.Context, sheetName string, rowID, col int, value interface{}) error {
	f.updates = append(f.updates, cellUpdate{sheet: sheetName, rowID: rowID, col: col, value: value})
	return nil
}

func TestAccountRepository_ListAll(t *testing.T) {
	rs := newFakeRowStore()
	rs.sheets[store.SheetAccounts] = [][]interface{}{
		{"A1", "alice", "app1", "111", "2026-03-01 10:00:00", float64(3), "active"},
		{"A2", "bob", "app2", "222", "", "0", "paused"},
		{"", "", "", "", "", "", ""},
	}

	accounts, err := NewAccountRepository(rs).ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, accounts, 2)

	assert.Equal(t, "A1", accounts[0].ID)
	assert.Equal(t, "alice", accounts[0].Username)
	assert.Equal(t, "111", accounts[0].UserID)
	assert.Equal(t, 3, accounts[0].DailyPostCount)
	assert.Equal(t, models.AccountStatusActive, accounts[0].Status)
	assert.Equal(t, 2026, accounts[0].LastPostTime.Year())

	assert.True(t, accounts[1].LastPostTime.IsZero())
	assert.Equal(t, models.AccountStatusPaused, accounts[1].Status)
}

func TestAccountRepository_RecordPost(t *testing.T) {
	rs := newFakeRowStore()
	rs.sheets[store.SheetAccounts] = [][]interface{}{
		{"A1", "alice", "app1", "111", "", float64(3), "active"},
		{"A2", "bob", "app2", "222", "", float64(0), "active"},
	}

	at := time.Date(2026, 3, 10, 2, 0, 0, 0, time.UTC)
	require.NoError(t, NewAccountRepository(rs).RecordPost(context.Background(), "A2", at))

	require.Len(t, rs.updates, 2)
	assert.Equal(t, 3, rs.updates[0].rowID)
	assert.Equal(t, 5, rs.updates[0].col)
	assert.Equal(t, at.Format(time.RFC3339), rs.updates[0].value)
	assert.Equal(t, 6, rs.updates[1].col)
	assert.Equal(t, 1, rs.updates[1].value)
}

func TestContentRepository_ListAll(t *testing.T) {
	rs := newFakeRowStore()
	rs.sheets[store.SheetContent] = [][]interface{}{
		{"A1", "C1", "hello world", float64(2), "YES"},
		{"A1", "C2", "no image column"},
	}

	items, err := NewContentRepository(rs).ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "C1", items[0].ID)
	assert.True(t, items[0].WantsImage())
	assert.Equal(t, 2, items[0].UsedCount)

	// Missing useImage cell defaults to NO.
	assert.Equal(t, "NO", items[1].UseImage)
	assert.False(t, items[1].WantsImage())
}

func TestContentRepository_IncrementUsage(t *testing.T) {
	rs := newFakeRowStore()
	rs.sheets[store.SheetContent] = [][]interface{}{
		{"A1", "C1", "hello", float64(2), "NO"},
	}

	require.NoError(t, NewContentRepository(rs).IncrementUsage(context.Background(), "C1"))
	require.Len(t, rs.updates, 1)
	assert.Equal(t, 2, rs.updates[0].rowID)
	assert.Equal(t, 4, rs.updates[0].col)
	assert.Equal(t, 3, rs.updates[0].value)
}

func TestAffiliateRepository_ListByContentID(t *testing.T) {
	rs := newFakeRowStore()
	rs.sheets[store.SheetAffiliate] = [][]interface{}{
		{"AF1", "A1", "C1", "desc one", "https://x", "go"},
		{"AF2", "A2", "C2", "desc two", "https://y", ""},
	}

	matched, err := NewAffiliateRepository(rs).ListByContentID(context.Background(), "C1")
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, "AF1", matched[0].ID)
	assert.Equal(t, "https://x", matched[0].AffiliateURL)
	assert.Equal(t, "go", matched[0].CallToAction)
}

func TestScheduleRepository_ListDue(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	rs := newFakeRowStore()
	rs.sheets[store.SheetSchedule] = [][]interface{}{
		{"2026-03-10T11:00:00Z", "A1", "C1", "P1", "2026-03-10T11:50:00Z", "pending", ""},
		{"2026-03-10T11:00:00Z", "A2", "C2", "P2", "2026-03-10T13:00:00Z", "pending", ""},
		{"2026-03-10T09:00:00Z", "A3", "C3", "P3", "2026-03-10T09:30:00Z", "done", ""},
	}

	due, err := NewScheduleRepository(rs).ListDue(context.Background(), now)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, "A1", due[0].AccountID)
	assert.Equal(t, 2, due[0].RowID)
}

func TestScheduleRepository_MarkDone(t *testing.T) {
	rs := newFakeRowStore()
	repo := NewScheduleRepository(rs)

	require.NoError(t, repo.MarkDone(context.Background(), 4, time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)))
	require.Len(t, rs.updates, 2)
	assert.Equal(t, 6, rs.updates[0].col)
	assert.Equal(t, models.ReplyStatusDone, rs.updates[0].value)
	assert.Equal(t, 7, rs.updates[1].col)
}

func TestLogRepository_TodayCounters(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	rs := newFakeRowStore()
	rs.sheets[store.SheetLogs] = [][]interface{}{
		{"2026-03-10T02:00:00Z", "alice", "C1", "post", "success", "P1", ""},
		{"2026-03-10T05:00:00Z", "bob", "C2", "post", "failure", "", "HTTP 500"},
		{"2026-03-09T22:00:00Z", "carol", "C3", "post", "success", "P3", ""},
	}

	repo := NewLogRepository(rs)

	count, err := repo.CountToday(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	rate, err := repo.TodaySuccessRate(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 50, rate)
}

func TestLogRepository_SuccessRateWithoutRows(t *testing.T) {
	rs := newFakeRowStore()
	rate, err := NewLogRepository(rs).TodaySuccessRate(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, 100, rate)
}
