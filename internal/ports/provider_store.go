package ports

import (
	"context"

	"github.com/bnema/smux/internal/domain"
)

type ProviderStore interface {
	ListProviders(ctx context.Context) ([]domain.Provider, error)
	ActiveSelection(ctx context.Context) (domain.Selection, error)
	SetActiveProvider(ctx context.Context, id domain.ProviderID) error
	SetActiveAccount(ctx context.Context, providerID domain.ProviderID, accountID domain.AccountID) error
	RefreshAccounts(ctx context.Context) ([]domain.Provider, error)
	// Subscribe signals whenever persisted settings change. The channel is
	// closed when ctx ends.
	Subscribe(ctx context.Context) (<-chan struct{}, error)
}

// AccountWriter persists changes to one account of a provider.
type AccountWriter interface {
	SaveAccount(ctx context.Context, providerID domain.ProviderID, account domain.Account) error
}
