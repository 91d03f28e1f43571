package models

import "time"

type Account struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	AppID          string    `json:"app_id"`
	UserID         string    `json:"user_id"`
	AccessToken    string    `json:"-"`
	LastPostTime   time.Time `json:"last_post_time"`
	DailyPostCount int       `json:"daily_post_count"`
	Status         string    `json:"status"`
}

const (
	AccountStatusActive = "active"
	AccountStatusPaused = "paused"
	AccountStatusError  = "error"
)
