package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	config "threadflow/configs"
	"threadflow/internal/kvstore"
	"threadflow/internal/models"
)

type listAccountRepo struct {
	accounts []*models.Account
}

func (f *listAccountRepo) ListAll(ctx context.Context) ([]*models.Account, error) {
	return f.accounts, nil
}

func (f *listAccountRepo) GetByID(ctx context.Context, accountID string) (*models.Account, error) {
	for _, account := range f.accounts {
		if account.ID == accountID {
			return account, nil
		}
	}
	return nil, nil
}

func (f *listAccountRepo) RecordPost(ctx context.Context, accountID string, at time.Time) error {
	return nil
}

func accountServiceConfig() config.Config {
	return config.Config{SecretKey: "0123456789abcdef0123456789abcdef"}
}

func TestAccountService_TokenRoundTrip(t *testing.T) {
	kv := kvstore.NewMemoryStore()
	repo := &listAccountRepo{accounts: []*models.Account{
		{ID: "A1", Username: "alice", Status: models.AccountStatusActive},
	}}
	s := NewAccountService(accountServiceConfig(), repo, kv)
	ctx := context.Background()

	require.NoError(t, s.SetToken(ctx, "A1", "plain-token"))

	// The stored value must not be the plaintext token.
	stored, err := kv.Get(ctx, kvstore.TokenKey("A1"))
	require.NoError(t, err)
	assert.NotEqual(t, "plain-token", stored)

	account, err := s.GetByID(ctx, "A1")
	require.NoError(t, err)
	require.NotNil(t, account)
	assert.Equal(t, "plain-token", account.AccessToken)
}

func TestAccountService_SetTokenValidation(t *testing.T) {
	s := NewAccountService(accountServiceConfig(), &listAccountRepo{}, kvstore.NewMemoryStore())

	assert.Error(t, s.SetToken(context.Background(), "", "tok"))
	assert.Error(t, s.SetToken(context.Background(), "A1", ""))
}

func TestAccountService_ListActiveFiltersTokenless(t *testing.T) {
	kv := kvstore.NewMemoryStore()
	repo := &listAccountRepo{accounts: []*models.Account{
		{ID: "A1", Username: "alice", Status: models.AccountStatusActive},
		{ID: "A2", Username: "bob", Status: models.AccountStatusActive},
		{ID: "A3", Username: "carol", Status: models.AccountStatusPaused},
	}}
	s := NewAccountService(accountServiceConfig(), repo, kv)
	ctx := context.Background()

	require.NoError(t, s.SetToken(ctx, "A1", "tok-a1"))
	require.NoError(t, s.SetToken(ctx, "A3", "tok-a3"))

	active, err := s.ListActive(ctx)
	require.NoError(t, err)

	// A2 has no token, A3 is paused.
	require.Len(t, active, 1)
	assert.Equal(t, "A1", active[0].ID)
	assert.Equal(t, "tok-a1", active[0].AccessToken)
}

func TestAccountService_RemoveToken(t *testing.T) {
	kv := kvstore.NewMemoryStore()
	repo := &listAccountRepo{accounts: []*models.Account{
		{ID: "A1", Username: "alice", Status: models.AccountStatusActive},
	}}
	s := NewAccountService(accountServiceConfig(), repo, kv)
	ctx := context.Background()

	require.NoError(t, s.SetToken(ctx, "A1", "tok"))
	require.NoError(t, s.RemoveToken(ctx, "A1"))

	active, err := s.ListActive(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)
}
