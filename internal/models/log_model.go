package models

import "time"

// ActivityLog is a row in the Logs sheet, append-only.
type ActivityLog struct {
	Timestamp time.Time
	Account   string
	Content   string
	Type      string
	Result    string
	PostID    string
	Detail    string
}

const (
	LogResultSuccess = "success"
	LogResultFailure = "failure"
)

// ScheduledRunLog is a row in the ScheduledRuns sheet summarizing one
// hourly batch.
type ScheduledRunLog struct {
	Timestamp   time.Time
	Hour        int
	Total       int
	Success     int
	Failure     int
	SuccessRate int
	Note        string
}
