package models

import "time"

type PostResult struct {
	Success    bool   `json:"success"`
	PostID     string `json:"post_id,omitempty"`
	CreationID string `json:"creation_id,omitempty"`
	Error      string `json:"error,omitempty"`
	HasImage   bool   `json:"has_image,omitempty"`
	ImageURL   string `json:"image_url,omitempty"`
	ContentID  string `json:"content_id,omitempty"`
}

type ReplyResult struct {
	Success    bool   `json:"success"`
	PostID     string `json:"post_id,omitempty"`
	CreationID string `json:"creation_id,omitempty"`
	Error      string `json:"error,omitempty"`
}

// AccountResult records the outcome of one account's post+reply sequence
// inside a batch. Step identifies where a failed sequence stopped.
type AccountResult struct {
	Account      string `json:"account"`
	Success      bool   `json:"success"`
	Error        string `json:"error,omitempty"`
	Step         string `json:"step,omitempty"`
	MainPostID   string `json:"main_post_id,omitempty"`
	ReplySuccess bool   `json:"reply_success"`
	ReplyPostID  string `json:"reply_post_id,omitempty"`
	ContentID    string `json:"content_id,omitempty"`
	AffiliateID  string `json:"affiliate_id,omitempty"`
}

const (
	StepContentSelection = "content_selection"
	StepMainPost         = "main_post"
	StepReply            = "reply"
	StepException        = "exception"
	StepSkipped          = "policy_skip"
)

type BatchResult struct {
	RunID        string          `json:"run_id"`
	Success      bool            `json:"success"`
	Error        string          `json:"error,omitempty"`
	TotalSuccess int             `json:"total_success"`
	TotalFailure int             `json:"total_failure"`
	Results      []AccountResult `json:"results"`
	Duration     time.Duration   `json:"duration"`
}
