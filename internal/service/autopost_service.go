package service

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"

	config "threadflow/configs"
	"threadflow/internal/models"
	"threadflow/internal/repository"
)

// ReplyQueue schedules an affiliate reply for later delivery. The row
// is persisted so a sweep can pick it up even if the delayed task is
// lost.
type ReplyQueue interface {
	EnqueueReply(ctx context.Context, reply *models.PendingReply) error
}

// AutopostService drives the per-account post+reply sequence. Accounts
// are processed one at a time; a failing account is recorded and the
// batch moves on to the next one.
type AutopostService interface {
	RunBatch(ctx context.Context) *models.BatchResult
	RunScheduledBatch(ctx context.Context) *models.BatchResult
	RunSingleAccount(ctx context.Context) (*models.AccountResult, error)
}

type autopostService struct {
	cfg       config.Config
	accounts  AccountService
	selection SelectionService
	threads   ThreadsService
	queue     ReplyQueue
	logs      repository.LogRepository
}

func NewAutopostService(
	cfg config.Config,
	accounts AccountService,
	selection SelectionService,
	threads ThreadsService,
	queue ReplyQueue,
	logs repository.LogRepository) AutopostService {
	return &autopostService{
		cfg:       cfg,
		accounts:  accounts,
		selection: selection,
		threads:   threads,
		queue:     queue,
		logs:      logs,
	}
}

func (s *autopostService) RunBatch(ctx context.Context) *models.BatchResult {
	return s.runBatch(ctx, true)
}

func (s *autopostService) RunScheduledBatch(ctx context.Context) *models.BatchResult {
	return s.runBatch(ctx, false)
}

func (s *autopostService) runBatch(ctx context.Context, inlineReply bool) *models.BatchResult {
	started := time.Now()
	runID := newRunID()

	batch := &models.BatchResult{RunID: runID}

	accounts, err := s.accounts.ListActive(ctx)
	if err != nil {
		slog.Error("failed to load accounts", "run_id", runID, "error", err.Error())
		batch.Error = err.Error()
		batch.Duration = time.Since(started)
		return batch
	}
	if len(accounts) == 0 {
		batch.Error = "no active accounts"
		batch.Duration = time.Since(started)
		return batch
	}

	slog.Info("starting batch", "run_id", runID, "accounts", len(accounts))

	for i, account := range accounts {
		result := s.processAccount(ctx, account, inlineReply)
		batch.Results = append(batch.Results, result)
		if result.Success {
			batch.TotalSuccess++
		} else {
			batch.TotalFailure++
		}

		s.logResult(ctx, &result)

		if i < len(accounts)-1 {
			time.Sleep(time.Duration(s.cfg.Schedule.AccountIntervalSeconds) * time.Second)
		}
	}

	batch.Success = batch.TotalSuccess > 0
	batch.Duration = time.Since(started)

	slog.Info("batch finished",
		"run_id", runID,
		"success", batch.TotalSuccess,
		"failure", batch.TotalFailure,
		"duration", batch.Duration.String())

	return batch
}

func (s *autopostService) RunSingleAccount(ctx context.Context) (*models.AccountResult, error) {
	accounts, err := s.accounts.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	if len(accounts) == 0 {
		return nil, fmt.Errorf("no active accounts")
	}

	account := accounts[rand.Intn(len(accounts))]
	result := s.processAccount(ctx, account, true)
	s.logResult(ctx, &result)

	return &result, nil
}

// processAccount runs one account's full sequence. A panic anywhere in
// the sequence is converted into a failure result so the batch loop
// keeps going.
func (s *autopostService) processAccount(ctx context.Context, account *models.Account, inlineReply bool) (result models.AccountResult) {
	result = models.AccountResult{Account: account.Username}

	defer func() {
		if r := recover(); r != nil {
			slog.Error("panic while processing account", "account", account.Username, "panic", fmt.Sprint(r))
			result.Success = false
			result.Step = models.StepException
			result.Error = fmt.Sprintf("panic: %v", r)
		}
	}()

	if reason := s.policySkipReason(account); reason != "" {
		slog.Info("skipping account", "account", account.Username, "reason", reason)
		result.Step = models.StepSkipped
		result.Error = reason
		return result
	}

	content, err := s.selection.SelectContent(ctx, account.ID)
	if err != nil {
		result.Step = models.StepContentSelection
		result.Error = err.Error()
		return result
	}
	if content == nil {
		result.Step = models.StepContentSelection
		result.Error = "no content available"
		return result
	}
	result.ContentID = content.ID

	post := s.threads.PostMain(ctx, account, content)
	if !post.Success {
		result.Step = models.StepMainPost
		result.Error = post.Error
		return result
	}

	result.Success = true
	result.MainPostID = post.PostID

	if inlineReply {
		s.replyInline(ctx, account, content.ID, post.PostID, &result)
	} else {
		s.replyQueued(ctx, account, content.ID, post.PostID, &result)
	}

	return result
}

// replyInline waits briefly and posts the affiliate reply in the same
// pass. A failed reply never demotes the main post's success.
func (s *autopostService) replyInline(ctx context.Context, account *models.Account, contentID, parentPostID string, result *models.AccountResult) {
	time.Sleep(time.Duration(s.cfg.ReplyWaitSeconds) * time.Second)

	affiliate, err := s.selection.SelectAffiliate(ctx, contentID, account.ID)
	if err != nil {
		slog.Info(err.Error())
		result.Step = models.StepReply
		return
	}
	result.AffiliateID = affiliate.ID

	reply := s.threads.PostReply(ctx, account, affiliate, parentPostID)
	if !reply.Success {
		slog.Info("reply failed", "account", account.Username, "error", reply.Error)
		result.Step = models.StepReply
		return
	}

	result.ReplySuccess = true
	result.ReplyPostID = reply.PostID
}

func (s *autopostService) replyQueued(ctx context.Context, account *models.Account, contentID, parentPostID string, result *models.AccountResult) {
	pending := &models.PendingReply{
		AccountID:    account.ID,
		ContentID:    contentID,
		ParentPostID: parentPostID,
		ExecuteTime:  time.Now().Add(time.Duration(s.cfg.ReplyDelayMinutes) * time.Minute),
		Status:       models.ReplyStatusPending,
	}
	if err := s.queue.EnqueueReply(ctx, pending); err != nil {
		slog.Info("failed to enqueue reply", "account", account.Username, "error", err.Error())
		result.Step = models.StepReply
	}
}

// policySkipReason applies the optional posting limits. Values at or
// below zero disable the corresponding check.
func (s *autopostService) policySkipReason(account *models.Account) string {
	if s.cfg.MaxDailyPosts > 0 && account.DailyPostCount >= s.cfg.MaxDailyPosts {
		return fmt.Sprintf("daily post limit reached (%d)", s.cfg.MaxDailyPosts)
	}
	if s.cfg.PostIntervalMinutes > 0 && !account.LastPostTime.IsZero() {
		elapsed := time.Since(account.LastPostTime)
		if elapsed < time.Duration(s.cfg.PostIntervalMinutes)*time.Minute {
			return fmt.Sprintf("posted %s ago, minimum interval is %dm", elapsed.Round(time.Minute), s.cfg.PostIntervalMinutes)
		}
	}
	return ""
}

func (s *autopostService) logResult(ctx context.Context, result *models.AccountResult) {
	entry := &models.ActivityLog{
		Timestamp: time.Now(),
		Account:   result.Account,
		Content:   result.ContentID,
		Type:      "post",
		Result:    models.LogResultSuccess,
		PostID:    result.MainPostID,
	}
	if !result.Success {
		entry.Result = models.LogResultFailure
		entry.Detail = fmt.Sprintf("step=%s %s", result.Step, result.Error)
	}
	if err := s.logs.AppendActivity(ctx, entry); err != nil {
		slog.Info(err.Error())
	}
}

func newRunID() string {
	id, err := gonanoid.New()
	if err != nil {
		return fmt.Sprintf("run-%d", time.Now().UnixNano())
	}
	return id
}
