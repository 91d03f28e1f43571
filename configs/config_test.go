package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg := LoadConfig()

	assert.Equal(t, "https://graph.threads.net/v1.0", cfg.ThreadsAPIBase)
	assert.Equal(t, []int{2, 5, 8, 12, 17, 20, 22, 0}, cfg.Schedule.PostingHours)
	assert.Equal(t, 5, cfg.Schedule.MinuteWindow)
	assert.Equal(t, 30, cfg.Schedule.AccountIntervalSeconds)
	assert.Equal(t, 5, cfg.Selection.RecentContentLimit)
	assert.True(t, cfg.Selection.AvoidRecentContent)
	assert.True(t, cfg.Selection.EnableSharedContent)
	assert.Equal(t, 2, cfg.TextSettleSeconds)
	assert.Equal(t, 3, cfg.ImageSettleSeconds)
	// Posting limits ship disabled.
	assert.Equal(t, -1, cfg.MaxDailyPosts)
	assert.Equal(t, 0, cfg.PostIntervalMinutes)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("POSTING_HOURS", "1,13")
	t.Setenv("SCHEDULE_ENABLED", "false")
	t.Setenv("RECENT_CONTENT_LIMIT", "10")
	t.Setenv("THREADS_API_BASE", "http://localhost:9999")

	cfg := LoadConfig()

	assert.Equal(t, []int{1, 13}, cfg.Schedule.PostingHours)
	assert.False(t, cfg.Schedule.Enabled)
	assert.Equal(t, 10, cfg.Selection.RecentContentLimit)
	assert.Equal(t, "http://localhost:9999", cfg.ThreadsAPIBase)
}
