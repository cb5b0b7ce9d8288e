package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bnema/smux/internal/domain"
	"github.com/bnema/smux/internal/ports"
)

// CredentialService stores account secrets and keeps the account's secret
// ref and activation flag in step with the secret store.
type CredentialService struct {
	providers ports.ProviderStore
	accounts  ports.AccountWriter
	secrets   ports.SecretStore
}

type SetKeyRequest struct {
	ProviderID  domain.ProviderID
	AccountID   domain.AccountID
	DisplayName string
	Secret      string
}

func NewCredentialService(providers ports.ProviderStore, accounts ports.AccountWriter, secrets ports.SecretStore) *CredentialService {
	return &CredentialService{providers: providers, accounts: accounts, secrets: secrets}
}

func SecretRefFor(providerID domain.ProviderID, accountID domain.AccountID) string {
	return string(providerID) + "/" + string(accountID)
}

// SetKey stores the secret, then points the account at it and marks it
// activated. Unknown accounts of a known provider are created. A rotated
// secret replaces the previous one.
func (s *CredentialService) SetKey(ctx context.Context, req SetKeyRequest) (domain.Account, error) {
	if strings.TrimSpace(req.Secret) == "" {
		return domain.Account{}, errors.New("secret is empty")
	}
	if strings.TrimSpace(string(req.AccountID)) == "" {
		return domain.Account{}, errors.New("account id is required")
	}

	providers, err := s.providers.ListProviders(ctx)
	if err != nil {
		return domain.Account{}, fmt.Errorf("list providers: %w", err)
	}
	provider, ok := domain.FindProvider(providers, req.ProviderID)
	if !ok {
		return domain.Account{}, fmt.Errorf("set key for %s: %w", req.ProviderID, domain.ErrProviderNotFound)
	}

	account, ok := provider.Account(req.AccountID)
	if !ok {
		account = domain.Account{ID: req.AccountID, DisplayName: string(req.AccountID)}
	}
	original := account
	if name := strings.TrimSpace(req.DisplayName); name != "" {
		account.DisplayName = name
	}

	previousRef := account.SecretRef
	ref := SecretRefFor(provider.ID, account.ID)

	if err := s.secrets.Put(ctx, ref, req.Secret); err != nil {
		return domain.Account{}, fmt.Errorf("store account secret: %w", err)
	}

	account.SecretRef = ref
	account.Activation = domain.Activated

	if err := s.accounts.SaveAccount(ctx, provider.ID, account); err != nil {
		if ref == previousRef {
			return domain.Account{}, fmt.Errorf("save account: %w", err)
		}
		if rollbackErr := s.secrets.Delete(ctx, ref); rollbackErr != nil {
			return domain.Account{}, fmt.Errorf("save account and rollback stored secret: %w", errors.Join(err, rollbackErr))
		}
		return domain.Account{}, fmt.Errorf("save account: %w", err)
	}

	if previousRef == "" || previousRef == ref {
		return account, nil
	}

	if err := s.secrets.Delete(ctx, previousRef); err != nil {
		var rollbackErr error
		if ok {
			if restoreErr := s.accounts.SaveAccount(ctx, provider.ID, original); restoreErr != nil {
				rollbackErr = errors.Join(rollbackErr, restoreErr)
			}
		}
		if newSecretErr := s.secrets.Delete(ctx, ref); newSecretErr != nil {
			rollbackErr = errors.Join(rollbackErr, newSecretErr)
		}
		if rollbackErr != nil {
			return domain.Account{}, fmt.Errorf("delete previous secret and rollback account update: %w", errors.Join(err, rollbackErr))
		}
		return domain.Account{}, fmt.Errorf("delete previous secret: %w", err)
	}

	return account, nil
}
