package models

import "time"

// PendingReply is a row in the Schedule sheet. Row numbers are 1-indexed
// with row 1 holding the header, so RowID >= 2.
type PendingReply struct {
	RowID        int       `json:"row_id"`
	AccountID    string    `json:"account_id"`
	ContentID    string    `json:"content_id"`
	ParentPostID string    `json:"parent_post_id"`
	ExecuteTime  time.Time `json:"execute_time"`
	Status       string    `json:"status"`
}

const (
	ReplyStatusPending = "pending"
	ReplyStatusDone    = "done"
)
