package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	config "threadflow/configs"
	"threadflow/internal/models"
	"threadflow/internal/repository"
)

const genericReplyText = "Check out this recommendation!"

// ThreadsService posts to the Threads graph API. Publishing is a
// two-phase protocol: create a media container, wait for it to settle,
// then publish it by container id.
type ThreadsService interface {
	PostMain(ctx context.Context, account *models.Account, content *models.Content) *models.PostResult
	PostReply(ctx context.Context, account *models.Account, affiliate *models.AffiliateContent, parentPostID string) *models.ReplyResult
}

type threadsService struct {
	cfg    config.Config
	cloud  CloudinaryService
	a      repository.AccountRepository
	c      repository.ContentRepository
	client *http.Client
}

func NewThreadsService(
	cfg config.Config,
	cloud CloudinaryService,
	a repository.AccountRepository,
	c repository.ContentRepository) ThreadsService {
	return &threadsService{
		cfg:    cfg,
		cloud:  cloud,
		a:      a,
		c:      c,
		client: http.DefaultClient,
	}
}

func (s *threadsService) PostMain(ctx context.Context, account *models.Account, content *models.Content) *models.PostResult {
	if account == nil || content == nil {
		return &models.PostResult{Success: false, Error: "account and content are required"}
	}

	payload := map[string]interface{}{
		"text":       content.MainText,
		"media_type": "TEXT",
	}
	settle := time.Duration(s.cfg.TextSettleSeconds) * time.Second

	result := &models.PostResult{ContentID: content.ID}

	if content.WantsImage() {
		upload, err := s.cloud.ImageURLForContent(ctx, content.ID)
		switch {
		case err != nil:
			slog.Info("image upload failed, posting text only", "content_id", content.ID, "error", err.Error())
		case upload == nil:
			slog.Info("no image asset found, posting text only", "content_id", content.ID)
		case !upload.Success:
			slog.Info("image upload rejected, posting text only", "content_id", content.ID, "error", upload.Error)
		default:
			payload["media_type"] = "IMAGE"
			payload["image_url"] = upload.ImageURL
			settle = time.Duration(s.cfg.ImageSettleSeconds) * time.Second
			result.HasImage = true
			result.ImageURL = upload.ImageURL
		}
	}

	postID, creationID, err := s.createAndPublish(ctx, account, payload, settle)
	if err != nil {
		slog.Info(err.Error())
		result.Error = err.Error()
		return result
	}

	result.Success = true
	result.PostID = postID
	result.CreationID = creationID

	s.recordSideEffects(account.ID, content.ID)

	return result
}

func (s *threadsService) PostReply(ctx context.Context, account *models.Account, affiliate *models.AffiliateContent, parentPostID string) *models.ReplyResult {
	if account == nil || affiliate == nil || parentPostID == "" {
		err := errors.New("account, affiliate and parent post id are required")
		slog.Info(err.Error())
		return &models.ReplyResult{Success: false, Error: err.Error()}
	}

	payload := map[string]interface{}{
		"text":        FormatAffiliateReplyText(affiliate),
		"media_type":  "TEXT",
		"reply_to_id": parentPostID,
	}
	settle := time.Duration(s.cfg.TextSettleSeconds) * time.Second

	postID, creationID, err := s.createAndPublish(ctx, account, payload, settle)
	if err != nil {
		slog.Info(err.Error())
		return &models.ReplyResult{Success: false, Error: err.Error()}
	}

	return &models.ReplyResult{Success: true, PostID: postID, CreationID: creationID}
}

// recordSideEffects persists last-post-time and usage counters. Errors
// here are logged and dropped, they must never fail an already
// published post.
func (s *threadsService) recordSideEffects(accountID, contentID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := s.a.RecordPost(ctx, accountID, time.Now()); err != nil {
		slog.Info(err.Error())
	}
	if err := s.c.IncrementUsage(ctx, contentID); err != nil {
		slog.Info(err.Error())
	}
}

func (s *threadsService) createAndPublish(ctx context.Context, account *models.Account, payload map[string]interface{}, settle time.Duration) (postID, creationID string, err error) {
	createURL := fmt.Sprintf("%s/%s/threads", s.cfg.ThreadsAPIBase, account.UserID)
	creationID, err = s.postJSON(ctx, createURL, account.AccessToken, payload)
	if err != nil {
		return "", "", err
	}

	time.Sleep(settle)

	publishURL := fmt.Sprintf("%s/%s/threads_publish", s.cfg.ThreadsAPIBase, account.UserID)
	postID, err = s.postJSON(ctx, publishURL, account.AccessToken, map[string]interface{}{
		"creation_id": creationID,
	})
	if err != nil {
		return "", creationID, err
	}

	return postID, creationID, nil
}

func (s *threadsService) postJSON(ctx context.Context, url, accessToken string, payload map[string]interface{}) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("error marshalling payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(body))
	if err != nil {
		return "", fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("HTTP request error: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("error reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(respBody))
	}

	var result struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("error parsing response: %w", err)
	}
	if result.ID == "" {
		return "", errors.New("response did not contain an id")
	}

	return result.ID, nil
}

// FormatAffiliateReplyText builds the reply body from description, url
// and call to action, separated by blank lines. Missing parts are
// omitted; an entirely empty affiliate yields a generic fallback.
func FormatAffiliateReplyText(affiliate *models.AffiliateContent) string {
	parts := make([]string, 0, 3)
	for _, part := range []string{affiliate.Description, affiliate.AffiliateURL, affiliate.CallToAction} {
		if strings.TrimSpace(part) != "" {
			parts = append(parts, strings.TrimSpace(part))
		}
	}
	if len(parts) == 0 {
		return genericReplyText
	}
	return strings.Join(parts, "\n\n")
}
