package service

import (
	"context"
	"log/slog"
	"time"

	config "threadflow/configs"
	"threadflow/internal/repository"
	"threadflow/internal/transfer"
)

// StatusService builds the operational snapshot served by the admin
// API: account readiness, content availability, today's numbers and
// the active schedule.
type StatusService interface {
	BuildStatus(ctx context.Context) (*transfer.SystemStatus, error)
}

type statusService struct {
	cfg      config.Config
	accounts AccountService
	ar       repository.AccountRepository
	cr       repository.ContentRepository
	sr       repository.ScheduleRepository
	lr       repository.LogRepository
}

func NewStatusService(
	cfg config.Config,
	accounts AccountService,
	ar repository.AccountRepository,
	cr repository.ContentRepository,
	sr repository.ScheduleRepository,
	lr repository.LogRepository) StatusService {
	return &statusService{
		cfg:      cfg,
		accounts: accounts,
		ar:       ar,
		cr:       cr,
		sr:       sr,
		lr:       lr,
	}
}

func (s *statusService) BuildStatus(ctx context.Context) (*transfer.SystemStatus, error) {
	all, err := s.ar.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	active, err := s.accounts.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	withToken := make(map[string]bool, len(active))
	for _, account := range active {
		withToken[account.ID] = true
	}

	details := make([]transfer.AccountInfo, 0, len(all))
	for _, account := range all {
		details = append(details, transfer.AccountInfo{
			ID:       account.ID,
			Username: account.Username,
			Status:   account.Status,
			HasToken: withToken[account.ID],
		})
	}

	status := &transfer.SystemStatus{
		ActiveAccounts:  len(active),
		AccountDetails:  details,
		ScheduleEnabled: s.cfg.Schedule.Enabled,
		PostingHours:    s.cfg.Schedule.PostingHours,
		Policy: transfer.PolicySettings{
			MaxDailyPosts:       s.cfg.MaxDailyPosts,
			PostIntervalMinutes: s.cfg.PostIntervalMinutes,
			RecentContentLimit:  s.cfg.Selection.RecentContentLimit,
			SharedContent:       s.cfg.Selection.EnableSharedContent,
		},
	}

	content, err := s.cr.ListAll(ctx)
	if err != nil {
		slog.Info(err.Error())
	} else {
		for _, item := range content {
			if item.MainText != "" {
				status.ContentReady = true
				break
			}
		}
	}

	now := time.Now()
	if count, err := s.lr.CountToday(ctx, now); err == nil {
		status.TodayPostCount = count
	} else {
		slog.Info(err.Error())
	}
	if rate, err := s.lr.TodaySuccessRate(ctx, now); err == nil {
		status.TodaySuccess = rate
	} else {
		slog.Info(err.Error())
	}
	if pending, err := s.sr.CountPending(ctx); err == nil {
		status.PendingReplies = pending
	} else {
		slog.Info(err.Error())
	}

	return status, nil
}
