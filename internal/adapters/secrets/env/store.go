package env

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/bnema/smux/internal/domain"
	"github.com/bnema/smux/internal/ports"
)

var ErrReadOnly = errors.New("environment secrets are read-only")

// Store resolves a ref as the name of an environment variable of the smux
// process itself.
type Store struct {
	lookup func(string) (string, bool)
}

var _ ports.SecretStore = (*Store)(nil)

func NewStore() *Store {
	return &Store{lookup: os.LookupEnv}
}

func (s *Store) Get(ctx context.Context, ref string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := strings.TrimSpace(ref)
	if name == "" {
		return "", errors.New("secret ref is empty")
	}

	value, ok := s.lookup(name)
	if !ok || value == "" {
		return "", fmt.Errorf("environment variable %s: %w", name, domain.ErrSecretNotFound)
	}
	return value, nil
}

func (s *Store) Put(context.Context, string, string) error {
	return ErrReadOnly
}

// Delete is a no-op; the variable belongs to the environment, not to smux.
func (s *Store) Delete(context.Context, string) error {
	return nil
}
