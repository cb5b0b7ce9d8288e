package domain

import (
	"fmt"
	"strings"
	"time"
)

type ProviderID string
type AccountID string

type ProviderKind string

const (
	ProviderKindOfficial   ProviderKind = "official"
	ProviderKindThirdParty ProviderKind = "third_party"
)

func (k ProviderKind) Label() string {
	switch k {
	case ProviderKindOfficial:
		return "Official"
	case ProviderKindThirdParty:
		return "Third-party"
	default:
		return "Unknown"
	}
}

type ActivationState string

const (
	Activated    ActivationState = "activated"
	NotActivated ActivationState = "not_activated"
)

type Account struct {
	ID          AccountID
	DisplayName string
	Activation  ActivationState
	// SecretRef names the credential in the secret store, if any.
	SecretRef string
}

func (a Account) IsActivated() bool {
	return a.Activation == Activated
}

type Provider struct {
	ID               ProviderID
	Name             string
	Kind             ProviderKind
	Endpoint         string
	DefaultAccountID AccountID
	Env              map[string]string
	Accounts         []Account

	// CredentialEnv names the variable that receives the account secret at spawn.
	CredentialEnv string
}

func (p Provider) Validate() error {
	if strings.TrimSpace(string(p.ID)) == "" {
		return fmt.Errorf("id is required")
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("name is required")
	}
	switch p.Kind {
	case ProviderKindOfficial, ProviderKindThirdParty:
	default:
		return fmt.Errorf("unsupported provider kind %q", p.Kind)
	}

	return nil
}

func (p Provider) Account(id AccountID) (Account, bool) {
	for _, account := range p.Accounts {
		if account.ID == id {
			return account, true
		}
	}
	return Account{}, false
}

// DefaultAccount returns the configured default account, falling back to the
// first listed account.
func (p Provider) DefaultAccount() (Account, bool) {
	if p.DefaultAccountID != "" {
		if account, ok := p.Account(p.DefaultAccountID); ok {
			return account, true
		}
	}
	if len(p.Accounts) == 0 {
		return Account{}, false
	}
	return p.Accounts[0], true
}

func FindProvider(providers []Provider, id ProviderID) (Provider, bool) {
	for _, provider := range providers {
		if provider.ID == id {
			return provider, true
		}
	}
	return Provider{}, false
}

// Selection is the persisted or committed provider/account pair.
type Selection struct {
	ProviderID ProviderID
	AccountID  AccountID
}

func (s Selection) IsZero() bool {
	return s.ProviderID == "" && s.AccountID == ""
}

type ProviderAccountContext struct {
	Selection
	// Stale is set when the last refresh no longer lists the active account.
	Stale bool
}

type Notice struct {
	ProviderID   ProviderID
	ProviderName string
	Kind         ProviderKind
	Endpoint     string
	AccountID    AccountID
	AccountName  string
	NotActivated bool
	At           time.Time
}

func NewNotice(provider Provider, account *Account, at time.Time) Notice {
	n := Notice{
		ProviderID:   provider.ID,
		ProviderName: provider.Name,
		Kind:         provider.Kind,
		Endpoint:     provider.Endpoint,
		At:           at,
	}
	if account != nil {
		n.AccountID = account.ID
		n.AccountName = account.DisplayName
		n.NotActivated = !account.IsActivated()
	}
	return n
}
