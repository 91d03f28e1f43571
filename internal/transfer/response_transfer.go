package transfer

import "time"

// Response is the uniform envelope returned by every admin endpoint.
type Response struct {
	Success   bool                   `json:"success"`
	Data      interface{}            `json:"data,omitempty"`
	Message   string                 `json:"message,omitempty"`
	Error     string                 `json:"error,omitempty"`
	Timestamp string                 `json:"timestamp"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

func NewResponse(success bool, data interface{}, message string) *Response {
	return &Response{
		Success:   success,
		Data:      data,
		Message:   message,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

func NewErrorResponse(err error, message string) *Response {
	r := NewResponse(false, nil, message)
	if err != nil {
		r.Error = err.Error()
	}
	return r
}

// SystemStatus is the payload of GET /api/status.
type SystemStatus struct {
	ActiveAccounts  int            `json:"active_accounts"`
	AccountDetails  []AccountInfo  `json:"account_details"`
	ContentReady    bool           `json:"content_ready"`
	TodayPostCount  int            `json:"today_post_count"`
	TodaySuccess    int            `json:"today_success_rate"`
	PendingReplies  int            `json:"pending_replies"`
	ScheduleEnabled bool           `json:"schedule_enabled"`
	PostingHours    []int          `json:"posting_hours"`
	Policy          PolicySettings `json:"policy"`
}

type AccountInfo struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Status   string `json:"status"`
	HasToken bool   `json:"has_token"`
}

type PolicySettings struct {
	MaxDailyPosts       int  `json:"max_daily_posts"`
	PostIntervalMinutes int  `json:"post_interval_minutes"`
	RecentContentLimit  int  `json:"recent_content_limit"`
	SharedContent       bool `json:"shared_content"`
}

// SetTokenRequest sets or rotates one account's access token.
type SetTokenRequest struct {
	AccountID   string `json:"account_id"`
	AccessToken string `json:"access_token"`
}

// LoginRequest opens an admin session.
type LoginRequest struct {
	APIKey string `json:"api_key"`
}

// ClearHistoryRequest clears selection history for an account, or for
// one account+content pair when ContentID is set.
type ClearHistoryRequest struct {
	AccountID string `json:"account_id"`
	ContentID string `json:"content_id,omitempty"`
}
