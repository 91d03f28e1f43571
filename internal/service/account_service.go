package service

import (
	"context"
	"errors"
	"log/slog"

	config "threadflow/configs"
	"threadflow/internal/kvstore"
	"threadflow/internal/models"
	"threadflow/internal/repository"
	"threadflow/pkg/utils"
)

// AccountService joins the Accounts sheet with the token store. Tokens
// are encrypted at rest; accounts without a usable token are invisible
// to the posting pipeline.
type AccountService interface {
	ListActive(ctx context.Context) ([]*models.Account, error)
	GetByID(ctx context.Context, accountID string) (*models.Account, error)
	SetToken(ctx context.Context, accountID, accessToken string) error
	RemoveToken(ctx context.Context, accountID string) error
}

type accountService struct {
	cfg config.Config
	ar  repository.AccountRepository
	kv  kvstore.Store
}

func NewAccountService(cfg config.Config, ar repository.AccountRepository, kv kvstore.Store) AccountService {
	return &accountService{cfg: cfg, ar: ar, kv: kv}
}

func (s *accountService) ListActive(ctx context.Context) ([]*models.Account, error) {
	accounts, err := s.ar.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	active := make([]*models.Account, 0, len(accounts))
	for _, account := range accounts {
		if account.Status != models.AccountStatusActive {
			continue
		}
		token, err := s.token(ctx, account.ID)
		if err != nil || token == "" {
			continue
		}
		account.AccessToken = token
		active = append(active, account)
	}
	return active, nil
}

func (s *accountService) GetByID(ctx context.Context, accountID string) (*models.Account, error) {
	account, err := s.ar.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, nil
	}
	token, err := s.token(ctx, account.ID)
	if err == nil {
		account.AccessToken = token
	}
	return account, nil
}

func (s *accountService) SetToken(ctx context.Context, accountID, accessToken string) error {
	if accountID == "" || accessToken == "" {
		err := errors.New("account id and access token are required")
		slog.Info(err.Error())
		return err
	}

	encrypted, err := utils.Encrypt([]byte(accessToken), []byte(s.cfg.SecretKey))
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, kvstore.TokenKey(accountID), encrypted, 0)
}

func (s *accountService) RemoveToken(ctx context.Context, accountID string) error {
	return s.kv.Delete(ctx, kvstore.TokenKey(accountID))
}

func (s *accountService) token(ctx context.Context, accountID string) (string, error) {
	encrypted, err := s.kv.Get(ctx, kvstore.TokenKey(accountID))
	if err != nil {
		if errors.Is(err, kvstore.ErrNotFound) {
			return "", nil
		}
		slog.Info(err.Error())
		return "", err
	}
	return utils.Decrypt(encrypted, []byte(s.cfg.SecretKey))
}
