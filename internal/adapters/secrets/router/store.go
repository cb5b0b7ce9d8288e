package router

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bnema/smux/internal/ports"
)

const schemeSeparator = ":"

var errNilFallbackStore = errors.New("fallback secret store is nil")

// Store dispatches on the scheme prefix of a ref, for example "env:API_KEY".
// Refs without a registered scheme go to the fallback store unchanged.
type Store struct {
	fallback ports.SecretStore
	schemes  map[string]ports.SecretStore
}

var _ ports.SecretStore = (*Store)(nil)

func NewStore(fallback ports.SecretStore) (*Store, error) {
	if fallback == nil {
		return nil, errNilFallbackStore
	}
	return &Store{fallback: fallback, schemes: map[string]ports.SecretStore{}}, nil
}

// Handle routes refs prefixed with scheme to store, with the prefix removed.
func (s *Store) Handle(scheme string, store ports.SecretStore) *Store {
	s.schemes[strings.ToLower(scheme)] = store
	return s
}

func (s *Store) Get(ctx context.Context, ref string) (string, error) {
	store, scheme, key := s.resolve(ref)
	value, err := store.Get(ctx, key)
	if err != nil && scheme != "" {
		return "", fmt.Errorf("%s secret: %w", scheme, err)
	}
	return value, err
}

func (s *Store) Put(ctx context.Context, ref string, value string) error {
	store, scheme, key := s.resolve(ref)
	if err := store.Put(ctx, key, value); err != nil {
		if scheme != "" {
			return fmt.Errorf("%s secret: %w", scheme, err)
		}
		return err
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, ref string) error {
	store, scheme, key := s.resolve(ref)
	if err := store.Delete(ctx, key); err != nil {
		if scheme != "" {
			return fmt.Errorf("%s secret: %w", scheme, err)
		}
		return err
	}
	return nil
}

func (s *Store) resolve(ref string) (ports.SecretStore, string, string) {
	prefix, rest, ok := strings.Cut(ref, schemeSeparator)
	if !ok {
		return s.fallback, "", ref
	}

	scheme := strings.ToLower(strings.TrimSpace(prefix))
	store, ok := s.schemes[scheme]
	if !ok {
		return s.fallback, "", ref
	}
	return store, scheme, rest
}
