package application

import (
	"context"
	"errors"
	"testing"

	"github.com/bnema/smux/internal/domain"
	"github.com/bnema/smux/internal/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCredentialService(t *testing.T) (*CredentialService, *mocks.MockProviderStore, *mocks.MockAccountWriter, *mocks.MockSecretStore) {
	t.Helper()

	providers := mocks.NewMockProviderStore(t)
	accounts := mocks.NewMockAccountWriter(t)
	secrets := mocks.NewMockSecretStore(t)
	return NewCredentialService(providers, accounts, secrets), providers, accounts, secrets
}

func TestCredentialServiceSetKeyActivatesAccount(t *testing.T) {
	t.Parallel()

	service, providers, accounts, secrets := newTestCredentialService(t)

	providers.EXPECT().ListProviders(mockAnyContext()).Return(testProviders(), nil)
	secrets.EXPECT().Put(mockAnyContext(), "relay/trial", "sk-relay").Return(nil)
	accounts.EXPECT().SaveAccount(mockAnyContext(), domain.ProviderID("relay"), domain.Account{
		ID:          "trial",
		DisplayName: "Trial",
		Activation:  domain.Activated,
		SecretRef:   "relay/trial",
	}).Return(nil)

	account, err := service.SetKey(context.Background(), SetKeyRequest{ProviderID: "relay", AccountID: "trial", Secret: "sk-relay"})
	require.NoError(t, err)
	assert.True(t, account.IsActivated())
}

func TestCredentialServiceSetKeyCreatesUnknownAccount(t *testing.T) {
	t.Parallel()

	service, providers, accounts, secrets := newTestCredentialService(t)

	providers.EXPECT().ListProviders(mockAnyContext()).Return(testProviders(), nil)
	secrets.EXPECT().Put(mockAnyContext(), "anthropic/ci", "sk-ci").Return(nil)
	accounts.EXPECT().SaveAccount(mockAnyContext(), domain.ProviderID("anthropic"), domain.Account{
		ID:          "ci",
		DisplayName: "CI robot",
		Activation:  domain.Activated,
		SecretRef:   "anthropic/ci",
	}).Return(nil)

	_, err := service.SetKey(context.Background(), SetKeyRequest{ProviderID: "anthropic", AccountID: "ci", DisplayName: "CI robot", Secret: "sk-ci"})
	require.NoError(t, err)
}

func TestCredentialServiceSetKeyRotationDeletesPreviousSecret(t *testing.T) {
	t.Parallel()

	service, providers, accounts, secrets := newTestCredentialService(t)

	existing := testProviders()
	existing[0].Accounts[1].SecretRef = "legacy/work-key"
	providers.EXPECT().ListProviders(mockAnyContext()).Return(existing, nil)
	secrets.EXPECT().Put(mockAnyContext(), "anthropic/work", "sk-new").Return(nil)
	accounts.EXPECT().SaveAccount(mockAnyContext(), domain.ProviderID("anthropic"), domain.Account{
		ID:          "work",
		DisplayName: "Work",
		Activation:  domain.Activated,
		SecretRef:   "anthropic/work",
	}).Return(nil)
	secrets.EXPECT().Delete(mockAnyContext(), "legacy/work-key").Return(nil)

	_, err := service.SetKey(context.Background(), SetKeyRequest{ProviderID: "anthropic", AccountID: "work", Secret: "sk-new"})
	require.NoError(t, err)
}

func TestCredentialServiceSetKeyRollsBackSecretWhenSaveFails(t *testing.T) {
	t.Parallel()

	service, providers, accounts, secrets := newTestCredentialService(t)

	saveErr := errors.New("disk full")
	providers.EXPECT().ListProviders(mockAnyContext()).Return(testProviders(), nil)
	secrets.EXPECT().Put(mockAnyContext(), "relay/trial", "sk").Return(nil)
	accounts.EXPECT().SaveAccount(mockAnyContext(), domain.ProviderID("relay"), mockAnyContext()).Return(saveErr)
	secrets.EXPECT().Delete(mockAnyContext(), "relay/trial").Return(nil)

	_, err := service.SetKey(context.Background(), SetKeyRequest{ProviderID: "relay", AccountID: "trial", Secret: "sk"})
	require.ErrorIs(t, err, saveErr)
	assert.ErrorContains(t, err, "save account")
}

func TestCredentialServiceSetKeyJoinsRollbackFailures(t *testing.T) {
	t.Parallel()

	service, providers, accounts, secrets := newTestCredentialService(t)

	existing := testProviders()
	existing[0].Accounts[1].SecretRef = "legacy/work-key"
	deleteErr := errors.New("permission denied")
	restoreErr := errors.New("restore failed")

	providers.EXPECT().ListProviders(mockAnyContext()).Return(existing, nil)
	secrets.EXPECT().Put(mockAnyContext(), "anthropic/work", "sk-new").Return(nil)
	accounts.EXPECT().SaveAccount(mockAnyContext(), domain.ProviderID("anthropic"), domain.Account{
		ID:          "work",
		DisplayName: "Work",
		Activation:  domain.Activated,
		SecretRef:   "anthropic/work",
	}).Return(nil).Once()
	secrets.EXPECT().Delete(mockAnyContext(), "legacy/work-key").Return(deleteErr)
	accounts.EXPECT().SaveAccount(mockAnyContext(), domain.ProviderID("anthropic"), existing[0].Accounts[1]).Return(restoreErr).Once()
	secrets.EXPECT().Delete(mockAnyContext(), "anthropic/work").Return(nil)

	_, err := service.SetKey(context.Background(), SetKeyRequest{ProviderID: "anthropic", AccountID: "work", Secret: "sk-new"})
	require.ErrorIs(t, err, deleteErr)
	require.ErrorIs(t, err, restoreErr)
}

func TestCredentialServiceSetKeyValidation(t *testing.T) {
	t.Parallel()

	service, providers, _, _ := newTestCredentialService(t)

	_, err := service.SetKey(context.Background(), SetKeyRequest{ProviderID: "relay", AccountID: "trial", Secret: "  "})
	require.ErrorContains(t, err, "secret is empty")

	providers.EXPECT().ListProviders(mockAnyContext()).Return(testProviders(), nil)
	_, err = service.SetKey(context.Background(), SetKeyRequest{ProviderID: "ghost", AccountID: "x", Secret: "sk"})
	require.ErrorIs(t, err, domain.ErrProviderNotFound)
}
