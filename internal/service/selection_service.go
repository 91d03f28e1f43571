package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"math/rand"
	"time"

	config "threadflow/configs"
	"threadflow/internal/kvstore"
	"threadflow/internal/models"
	"threadflow/internal/repository"
)

// SelectionService picks the content item and the affiliate item for a
// post. Recency avoidance is a soft preference: if every candidate was
// recently used, selection falls back to the full eligible set rather
// than failing.
type SelectionService interface {
	SelectContent(ctx context.Context, accountID string) (*models.Content, error)
	SelectAffiliate(ctx context.Context, contentID, accountID string) (*models.AffiliateContent, error)
	ClearContentHistory(ctx context.Context, accountID string) error
	ClearAffiliateHistory(ctx context.Context, accountID, contentID string) error
}

type selectionService struct {
	cfg config.Config
	cr  repository.ContentRepository
	af  repository.AffiliateRepository
	kv  kvstore.Store
}

func NewSelectionService(cfg config.Config, cr repository.ContentRepository, af repository.AffiliateRepository, kv kvstore.Store) SelectionService {
	return &selectionService{
		cfg: cfg,
		cr:  cr,
		af:  af,
		kv:  kv,
	}
}

type historyEntry struct {
	SelectedID string `json:"selected_id"`
	Timestamp  int64  `json:"timestamp"`
}

func (s *selectionService) SelectContent(ctx context.Context, accountID string) (*models.Content, error) {
	if accountID == "" {
		return nil, errors.New("account id is required")
	}

	all, err := s.cr.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	eligible := make([]*models.Content, 0, len(all))
	for _, item := range all {
		if item.AccountID == accountID && item.MainText != "" {
			eligible = append(eligible, item)
		}
	}

	shared := false
	if len(eligible) == 0 {
		if !s.cfg.Selection.EnableSharedContent {
			return nil, nil
		}
		eligible = sharedContent(all)
		shared = true
		if len(eligible) == 0 {
			return nil, nil
		}
	}

	recent, err := s.recentSelections(ctx, kvstore.ContentHistoryKey(accountID))
	if err != nil {
		slog.Info(err.Error())
		recent = nil
	}

	selected := pickWithAvoidance(eligible, recent, s.cfg.Selection, func(c *models.Content) string { return c.ID })
	if selected == nil {
		return nil, nil
	}

	picked := *selected
	picked.IsShared = shared
	if shared {
		picked.AccountID = accountID
	}

	if err := s.recordSelection(ctx, kvstore.ContentHistoryKey(accountID), picked.ID); err != nil {
		slog.Info(err.Error())
	}
	return &picked, nil
}

func (s *selectionService) SelectAffiliate(ctx context.Context, contentID, accountID string) (*models.AffiliateContent, error) {
	matched, err := s.af.ListByContentID(ctx, contentID)
	if err != nil {
		slog.Info(err.Error())
		return models.DefaultAffiliate(), nil
	}
	if len(matched) == 0 {
		return models.DefaultAffiliate(), nil
	}

	eligible := make([]*models.AffiliateContent, 0, len(matched))
	for _, item := range matched {
		if item.AccountID == accountID {
			eligible = append(eligible, item)
		}
	}

	shared := false
	if len(eligible) == 0 {
		if !s.cfg.Selection.EnableSharedContent {
			return models.DefaultAffiliate(), nil
		}
		eligible = sharedAffiliates(matched)
		shared = true
		if len(eligible) == 0 {
			return models.DefaultAffiliate(), nil
		}
	}

	recent, err := s.recentSelections(ctx, kvstore.AffiliateHistoryKey(accountID, contentID))
	if err != nil {
		slog.Info(err.Error())
		recent = nil
	}

	selected := pickWithAvoidance(eligible, recent, s.cfg.Selection, func(a *models.AffiliateContent) string { return a.ID })
	if selected == nil {
		return models.DefaultAffiliate(), nil
	}

	picked := *selected
	picked.IsShared = shared
	if shared {
		picked.AccountID = accountID
	}

	if err := s.recordSelection(ctx, kvstore.AffiliateHistoryKey(accountID, contentID), picked.ID); err != nil {
		slog.Info(err.Error())
	}
	return &picked, nil
}

func (s *selectionService) ClearContentHistory(ctx context.Context, accountID string) error {
	if accountID == "" {
		_, err := s.kv.DeleteByPrefix(ctx, kvstore.ContentHistoryKeyPrefix)
		return err
	}
	return s.kv.Delete(ctx, kvstore.ContentHistoryKey(accountID))
}

func (s *selectionService) ClearAffiliateHistory(ctx context.Context, accountID, contentID string) error {
	if accountID == "" {
		_, err := s.kv.DeleteByPrefix(ctx, kvstore.AffiliateHistoryKeyPrefix)
		return err
	}
	if contentID == "" {
		_, err := s.kv.DeleteByPrefix(ctx, kvstore.AffiliateHistoryKeyPrefix+accountID+"_")
		return err
	}
	return s.kv.Delete(ctx, kvstore.AffiliateHistoryKey(accountID, contentID))
}

// pickWithAvoidance filters out recently used ids, falling back to the
// full candidate set when the filter would leave nothing. The random
// pick uses the locked package-level generator; one selection service
// is shared by the handlers, the cron tick and the reply worker.
func pickWithAvoidance[T any](candidates []T, recent []string, sel config.Selection, id func(T) string) T {
	var zero T
	if len(candidates) == 0 {
		return zero
	}

	available := candidates
	if sel.AvoidRecentContent && len(recent) > 0 {
		recentSet := make(map[string]struct{}, len(recent))
		for _, r := range recent {
			recentSet[r] = struct{}{}
		}

		filtered := make([]T, 0, len(candidates))
		for _, c := range candidates {
			if _, ok := recentSet[id(c)]; !ok {
				filtered = append(filtered, c)
			}
		}
		if len(filtered) > 0 {
			available = filtered
		}
	}

	if !sel.EnableRandomSelection {
		return available[0]
	}
	return available[rand.Intn(len(available))]
}

// sharedContent returns one row per content id that appears under more
// than one account.
func sharedContent(all []*models.Content) []*models.Content {
	groups := make(map[string][]*models.Content)
	order := make([]string, 0, len(all))
	for _, item := range all {
		if item.MainText == "" {
			continue
		}
		if _, ok := groups[item.ID]; !ok {
			order = append(order, item.ID)
		}
		groups[item.ID] = append(groups[item.ID], item)
	}

	var shared []*models.Content
	for _, id := range order {
		if len(groups[id]) > 1 {
			shared = append(shared, groups[id][0])
		}
	}
	return shared
}

func sharedAffiliates(matched []*models.AffiliateContent) []*models.AffiliateContent {
	groups := make(map[string][]*models.AffiliateContent)
	order := make([]string, 0, len(matched))
	for _, item := range matched {
		if _, ok := groups[item.ID]; !ok {
			order = append(order, item.ID)
		}
		groups[item.ID] = append(groups[item.ID], item)
	}

	var shared []*models.AffiliateContent
	for _, id := range order {
		if len(groups[id]) > 1 {
			shared = append(shared, groups[id][0])
		}
	}
	return shared
}

func (s *selectionService) recentSelections(ctx context.Context, key string) ([]string, error) {
	raw, err := s.kv.Get(ctx, key)
	if err != nil {
		if errors.Is(err, kvstore.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var history []historyEntry
	if err := json.Unmarshal([]byte(raw), &history); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(history))
	for _, entry := range history {
		ids = append(ids, entry.SelectedID)
	}
	return ids, nil
}

// recordSelection prepends the pick and truncates to the configured
// limit, most-recent first.
func (s *selectionService) recordSelection(ctx context.Context, key, selectedID string) error {
	var history []historyEntry
	if raw, err := s.kv.Get(ctx, key); err == nil {
		if err := json.Unmarshal([]byte(raw), &history); err != nil {
			history = nil
		}
	}

	history = append([]historyEntry{{SelectedID: selectedID, Timestamp: time.Now().UnixMilli()}}, history...)
	if limit := s.cfg.Selection.RecentContentLimit; limit > 0 && len(history) > limit {
		history = history[:limit]
	}

	encoded, err := json.Marshal(history)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, key, string(encoded), 0)
}
