package toml

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/bnema/smux/internal/domain"
	"github.com/bnema/smux/internal/ports"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	providersPathKey    = "providers.path"
	providersFileMode   = 0o600
	providersDirMode    = 0o700
	providersConfigDir  = ".smux"
	providersConfigFile = "providers.toml"
	tempFilePattern     = ".providers-*.toml.tmp"
)

// ProviderStore keeps providers, accounts and the active selection in one
// TOML file.
type ProviderStore struct {
	providersPath string
	mu            *sync.RWMutex
}

var (
	lockRegistryMu sync.Mutex
	pathLockMap    = map[string]*sync.RWMutex{}
)

var (
	_ ports.ProviderStore = (*ProviderStore)(nil)
	_ ports.AccountWriter = (*ProviderStore)(nil)
)

func NewProviderStore(cfg *viper.Viper) (*ProviderStore, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}
	cfg.SetDefault(providersPathKey, filepath.Join(homeDir, providersConfigDir, providersConfigFile))

	providersPath := cfg.GetString(providersPathKey)
	if providersPath == "" {
		return nil, errors.New("providers path is empty")
	}
	providersPath, err = normalizeProvidersPath(providersPath)
	if err != nil {
		return nil, err
	}

	return &ProviderStore{providersPath: providersPath, mu: lockForPath(providersPath)}, nil
}

func (s *ProviderStore) Path() string {
	return s.providersPath
}

func (s *ProviderStore) ListProviders(ctx context.Context) ([]domain.Provider, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	file, err := s.readSchema()
	if err != nil {
		return nil, err
	}

	providers := make([]domain.Provider, 0, len(file.Providers))
	for _, entry := range file.Providers {
		provider := fromProviderSchema(entry)
		if err := provider.Validate(); err != nil {
			return nil, fmt.Errorf("provider %q: %w", entry.ID, err)
		}
		providers = append(providers, provider)
	}

	return providers, nil
}

// RefreshAccounts re-reads the file so account lists and activation flags
// edited on disk are picked up.
func (s *ProviderStore) RefreshAccounts(ctx context.Context) ([]domain.Provider, error) {
	return s.ListProviders(ctx)
}

func (s *ProviderStore) ActiveSelection(ctx context.Context) (domain.Selection, error) {
	if err := ctx.Err(); err != nil {
		return domain.Selection{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	file, err := s.readSchema()
	if err != nil {
		return domain.Selection{}, err
	}

	return file.selection(), nil
}

// SetActiveProvider selects the provider and its default account.
func (s *ProviderStore) SetActiveProvider(ctx context.Context, id domain.ProviderID) error {
	return s.update(ctx, func(file *fileSchema) error {
		entry, ok := file.provider(id)
		if !ok {
			return fmt.Errorf("set active provider %s: %w", id, domain.ErrProviderNotFound)
		}

		file.ActiveProvider = entry.ID
		file.ActiveAccount = ""
		if account, ok := fromProviderSchema(*entry).DefaultAccount(); ok {
			file.ActiveAccount = string(account.ID)
		}
		return nil
	})
}

func (s *ProviderStore) SetActiveAccount(ctx context.Context, providerID domain.ProviderID, accountID domain.AccountID) error {
	return s.update(ctx, func(file *fileSchema) error {
		entry, ok := file.provider(providerID)
		if !ok {
			return fmt.Errorf("set active account %s: %w", accountID, domain.ErrProviderNotFound)
		}
		if _, ok := fromProviderSchema(*entry).Account(accountID); !ok {
			return fmt.Errorf("set active account %s: %w", accountID, domain.ErrAccountNotFound)
		}

		file.ActiveProvider = entry.ID
		file.ActiveAccount = string(accountID)
		return nil
	})
}

// SaveAccount inserts or replaces an account of an existing provider.
func (s *ProviderStore) SaveAccount(ctx context.Context, providerID domain.ProviderID, account domain.Account) error {
	return s.update(ctx, func(file *fileSchema) error {
		entry, ok := file.provider(providerID)
		if !ok {
			return fmt.Errorf("save account %s: %w", account.ID, domain.ErrProviderNotFound)
		}

		encoded := toAccountSchema(account)
		for i := range entry.Accounts {
			if entry.Accounts[i].ID == encoded.ID {
				entry.Accounts[i] = encoded
				return nil
			}
		}
		entry.Accounts = append(entry.Accounts, encoded)
		return nil
	})
}

// SaveProvider inserts or replaces a provider definition.
func (s *ProviderStore) SaveProvider(ctx context.Context, provider domain.Provider) error {
	if err := provider.Validate(); err != nil {
		return fmt.Errorf("save provider: %w", err)
	}

	return s.update(ctx, func(file *fileSchema) error {
		encoded := toProviderSchema(provider)
		if entry, ok := file.provider(provider.ID); ok {
			*entry = encoded
			return nil
		}
		file.Providers = append(file.Providers, encoded)
		return nil
	})
}

func (s *ProviderStore) update(ctx context.Context, mutate func(*fileSchema) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := s.readSchema()
	if err != nil {
		return err
	}

	if err := mutate(&file); err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	return s.writeSchema(file)
}

func (s *ProviderStore) readSchema() (fileSchema, error) {
	data, err := os.ReadFile(s.providersPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			file := fileSchema{}
			file.applyDefaults()
			return file, nil
		}
		return fileSchema{}, fmt.Errorf("read providers file: %w", err)
	}

	var file fileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return fileSchema{}, fmt.Errorf("decode providers file: %w", err)
	}
	if err := file.validateVersion(); err != nil {
		return fileSchema{}, err
	}
	file.applyDefaults()

	return file, nil
}

func normalizeProvidersPath(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve providers path: %w", err)
	}

	return filepath.Clean(absPath), nil
}

func lockForPath(path string) *sync.RWMutex {
	lockRegistryMu.Lock()
	defer lockRegistryMu.Unlock()

	if mu, ok := pathLockMap[path]; ok {
		return mu
	}

	mu := &sync.RWMutex{}
	pathLockMap[path] = mu
	return mu
}

func (s *ProviderStore) writeSchema(file fileSchema) error {
	file.applyDefaults()

	if err := os.MkdirAll(filepath.Dir(s.providersPath), providersDirMode); err != nil {
		return fmt.Errorf("create providers directory: %w", err)
	}

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode providers file: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(s.providersPath), tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp providers file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp providers file: %w", err)
	}

	if err := tempFile.Chmod(providersFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp providers file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp providers file: %w", err)
	}

	if err := os.Rename(tempName, s.providersPath); err != nil {
		return fmt.Errorf("replace providers file: %w", err)
	}

	cleanup = false

	return nil
}
