package application

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/bnema/smux/internal/domain"
	"github.com/bnema/smux/internal/logging"
	"github.com/bnema/smux/internal/ports"
)

// ProviderContextService owns the process-wide provider/account selection.
// Switches are serialized: while one is in flight, others fail with
// domain.ErrBusy. Readers always see a fully committed context.
type ProviderContextService struct {
	store    ports.ProviderStore
	clock    ports.Clock
	announce func(domain.Notice)

	switching atomic.Bool

	mu        sync.RWMutex
	current   domain.ProviderAccountContext
	providers []domain.Provider
}

type SwitchResult struct {
	Context  domain.ProviderAccountContext
	Provider domain.Provider
	Account  *domain.Account
	// Warning is set when the selected account is not activated. The switch
	// is committed regardless.
	Warning string
}

type RefreshResult struct {
	Providers []domain.Provider
	Stale     bool
}

type ContextSnapshot struct {
	Context  domain.ProviderAccountContext
	Provider *domain.Provider
	Account  *domain.Account
}

func NewProviderContextService(store ports.ProviderStore, clock ports.Clock, announce func(domain.Notice)) *ProviderContextService {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if announce == nil {
		announce = func(domain.Notice) {}
	}

	return &ProviderContextService{store: store, clock: clock, announce: announce}
}

// Load reads providers and the persisted selection without broadcasting.
func (s *ProviderContextService) Load(ctx context.Context) error {
	providers, err := s.store.ListProviders(ctx)
	if err != nil {
		return fmt.Errorf("list providers: %w", err)
	}
	selection, err := s.store.ActiveSelection(ctx)
	if err != nil {
		return fmt.Errorf("load active selection: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.providers = providers
	s.current = domain.ProviderAccountContext{Selection: selection, Stale: isStale(providers, selection)}
	return nil
}

func (s *ProviderContextService) SwitchProvider(ctx context.Context, providerID domain.ProviderID) (SwitchResult, error) {
	if !s.switching.CompareAndSwap(false, true) {
		return SwitchResult{}, domain.ErrBusy
	}
	defer s.switching.Store(false)

	log := logging.FromContext(ctx)

	providers, err := s.store.ListProviders(ctx)
	if err != nil {
		return SwitchResult{}, fmt.Errorf("list providers: %w", err)
	}

	provider, ok := domain.FindProvider(providers, providerID)
	if !ok {
		return SwitchResult{}, fmt.Errorf("switch provider %s: %w", providerID, domain.ErrProviderNotFound)
	}

	var account *domain.Account
	if candidate, ok := provider.DefaultAccount(); ok {
		account = &candidate
	}

	if err := s.store.SetActiveProvider(ctx, provider.ID); err != nil {
		return SwitchResult{}, fmt.Errorf("persist active provider: %w", err)
	}

	selection := domain.Selection{ProviderID: provider.ID}
	if account != nil {
		selection.AccountID = account.ID
	}

	result := s.commit(providers, provider, account, selection)
	if result.Warning != "" {
		log.Warn().Str("provider_id", string(provider.ID)).Str("account_id", string(selection.AccountID)).Msg(result.Warning)
	}
	log.Info().Str("provider_id", string(provider.ID)).Str("account_id", string(selection.AccountID)).Msg("provider switched")

	return result, nil
}

// SwitchAccount selects accountID under providerID. Callers are expected to
// pass the active provider; a different provider is accepted and becomes
// active with the account.
func (s *ProviderContextService) SwitchAccount(ctx context.Context, providerID domain.ProviderID, accountID domain.AccountID) (SwitchResult, error) {
	if !s.switching.CompareAndSwap(false, true) {
		return SwitchResult{}, domain.ErrBusy
	}
	defer s.switching.Store(false)

	log := logging.FromContext(ctx)

	providers, err := s.store.ListProviders(ctx)
	if err != nil {
		return SwitchResult{}, fmt.Errorf("list providers: %w", err)
	}

	provider, ok := domain.FindProvider(providers, providerID)
	if !ok {
		return SwitchResult{}, fmt.Errorf("switch account %s: %w", accountID, domain.ErrProviderNotFound)
	}
	account, ok := provider.Account(accountID)
	if !ok {
		return SwitchResult{}, fmt.Errorf("switch account %s: %w", accountID, domain.ErrAccountNotFound)
	}

	if err := s.store.SetActiveAccount(ctx, provider.ID, account.ID); err != nil {
		return SwitchResult{}, fmt.Errorf("persist active account: %w", err)
	}

	result := s.commit(providers, provider, &account, domain.Selection{ProviderID: provider.ID, AccountID: account.ID})
	if result.Warning != "" {
		log.Warn().Str("provider_id", string(provider.ID)).Str("account_id", string(account.ID)).Msg(result.Warning)
	}
	log.Info().Str("provider_id", string(provider.ID)).Str("account_id", string(account.ID)).Msg("account switched")

	return result, nil
}

// RefreshAccounts re-reads accounts and activation flags. The selection never
// changes here; a vanished active account only marks the context stale.
func (s *ProviderContextService) RefreshAccounts(ctx context.Context) (RefreshResult, error) {
	providers, err := s.store.RefreshAccounts(ctx)
	if err != nil {
		return RefreshResult{}, fmt.Errorf("refresh accounts: %w", err)
	}

	s.mu.Lock()
	s.providers = providers
	s.current.Stale = isStale(providers, s.current.Selection)
	stale := s.current.Stale
	selection := s.current.Selection
	s.mu.Unlock()

	if stale {
		logging.FromContext(ctx).Warn().
			Str("provider_id", string(selection.ProviderID)).
			Str("account_id", string(selection.AccountID)).
			Msg("active account no longer listed")
	}

	return RefreshResult{Providers: providers, Stale: stale}, nil
}

// Sync adopts a selection persisted by someone else, for example another smux
// process or a hand edit. It reports whether the selection changed. Sync is
// skipped while a switch is in flight since that switch owns the outcome.
func (s *ProviderContextService) Sync(ctx context.Context) (bool, error) {
	if !s.switching.CompareAndSwap(false, true) {
		return false, nil
	}
	defer s.switching.Store(false)

	providers, err := s.store.ListProviders(ctx)
	if err != nil {
		return false, fmt.Errorf("list providers: %w", err)
	}
	selection, err := s.store.ActiveSelection(ctx)
	if err != nil {
		return false, fmt.Errorf("load active selection: %w", err)
	}

	s.mu.Lock()
	changed := selection != s.current.Selection && !selection.IsZero()
	if !changed {
		s.providers = providers
		s.current.Stale = isStale(providers, s.current.Selection)
		s.mu.Unlock()
		return false, nil
	}
	s.mu.Unlock()

	provider, ok := domain.FindProvider(providers, selection.ProviderID)
	if !ok {
		return false, fmt.Errorf("sync provider %s: %w", selection.ProviderID, domain.ErrProviderNotFound)
	}
	var account *domain.Account
	if candidate, ok := provider.Account(selection.AccountID); ok {
		account = &candidate
	}

	s.commit(providers, provider, account, selection)
	logging.FromContext(ctx).Info().
		Str("provider_id", string(selection.ProviderID)).
		Str("account_id", string(selection.AccountID)).
		Msg("adopted persisted selection")

	return true, nil
}

func (s *ProviderContextService) Snapshot() ContextSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := ContextSnapshot{Context: s.current}
	provider, ok := domain.FindProvider(s.providers, s.current.ProviderID)
	if !ok {
		return snapshot
	}
	snapshot.Provider = &provider
	if account, ok := provider.Account(s.current.AccountID); ok {
		snapshot.Account = &account
	}
	return snapshot
}

func (s *ProviderContextService) Providers() []domain.Provider {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]domain.Provider(nil), s.providers...)
}

func (s *ProviderContextService) commit(providers []domain.Provider, provider domain.Provider, account *domain.Account, selection domain.Selection) SwitchResult {
	s.mu.Lock()
	s.providers = providers
	s.current = domain.ProviderAccountContext{Selection: selection, Stale: isStale(providers, selection)}
	committed := s.current
	s.mu.Unlock()

	result := SwitchResult{Context: committed, Provider: provider, Account: account}
	if account != nil && !account.IsActivated() {
		result.Warning = fmt.Sprintf("account %s of %s is not activated", account.DisplayName, provider.Name)
	}

	s.announce(domain.NewNotice(provider, account, s.clock.Now()))

	return result
}

func isStale(providers []domain.Provider, selection domain.Selection) bool {
	if selection.AccountID == "" {
		return false
	}
	provider, ok := domain.FindProvider(providers, selection.ProviderID)
	if !ok {
		return true
	}
	_, ok = provider.Account(selection.AccountID)
	return !ok
}
