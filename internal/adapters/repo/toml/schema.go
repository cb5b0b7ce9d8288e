package toml

import (
	"fmt"

	"github.com/bnema/smux/internal/domain"
)

const currentSchemaVersion = 1

type fileSchema struct {
	Version        int              `toml:"version"`
	ActiveProvider string           `toml:"active_provider,omitempty"`
	ActiveAccount  string           `toml:"active_account,omitempty"`
	Providers      []providerSchema `toml:"providers"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
	for i := range s.Providers {
		for j := range s.Providers[i].Accounts {
			if s.Providers[i].Accounts[j].Activation == "" {
				s.Providers[i].Accounts[j].Activation = string(domain.NotActivated)
			}
		}
	}
}

func (s fileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported providers schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

func (s fileSchema) selection() domain.Selection {
	return domain.Selection{
		ProviderID: domain.ProviderID(s.ActiveProvider),
		AccountID:  domain.AccountID(s.ActiveAccount),
	}
}

func (s *fileSchema) provider(id domain.ProviderID) (*providerSchema, bool) {
	for i := range s.Providers {
		if s.Providers[i].ID == string(id) {
			return &s.Providers[i], true
		}
	}
	return nil, false
}

type providerSchema struct {
	ID             string            `toml:"id"`
	Name           string            `toml:"name"`
	Kind           string            `toml:"kind"`
	Endpoint       string            `toml:"endpoint"`
	DefaultAccount string            `toml:"default_account,omitempty"`
	CredentialEnv  string            `toml:"credential_env,omitempty"`
	Env            map[string]string `toml:"env,omitempty"`
	Accounts       []accountSchema   `toml:"accounts"`
}

type accountSchema struct {
	ID          string `toml:"id"`
	DisplayName string `toml:"display_name"`
	Activation  string `toml:"activation"`
	SecretRef   string `toml:"secret_ref,omitempty"`
}

func toProviderSchema(provider domain.Provider) providerSchema {
	accounts := make([]accountSchema, 0, len(provider.Accounts))
	for _, account := range provider.Accounts {
		accounts = append(accounts, toAccountSchema(account))
	}

	return providerSchema{
		ID:             string(provider.ID),
		Name:           provider.Name,
		Kind:           string(provider.Kind),
		Endpoint:       provider.Endpoint,
		DefaultAccount: string(provider.DefaultAccountID),
		CredentialEnv:  provider.CredentialEnv,
		Env:            provider.Env,
		Accounts:       accounts,
	}
}

func fromProviderSchema(provider providerSchema) domain.Provider {
	accounts := make([]domain.Account, 0, len(provider.Accounts))
	for _, account := range provider.Accounts {
		accounts = append(accounts, fromAccountSchema(account))
	}

	return domain.Provider{
		ID:               domain.ProviderID(provider.ID),
		Name:             provider.Name,
		Kind:             domain.ProviderKind(provider.Kind),
		Endpoint:         provider.Endpoint,
		DefaultAccountID: domain.AccountID(provider.DefaultAccount),
		Env:              provider.Env,
		Accounts:         accounts,
		CredentialEnv:    provider.CredentialEnv,
	}
}

func toAccountSchema(account domain.Account) accountSchema {
	return accountSchema{
		ID:          string(account.ID),
		DisplayName: account.DisplayName,
		Activation:  string(account.Activation),
		SecretRef:   account.SecretRef,
	}
}

func fromAccountSchema(account accountSchema) domain.Account {
	return domain.Account{
		ID:          domain.AccountID(account.ID),
		DisplayName: account.DisplayName,
		Activation:  domain.ActivationState(account.Activation),
		SecretRef:   account.SecretRef,
	}
}
