package ports

import "context"

// SecretStore holds account credentials keyed by an account's secret ref.
type SecretStore interface {
	Get(ctx context.Context, ref string) (string, error)
	Put(ctx context.Context, ref string, value string) error
	Delete(ctx context.Context, ref string) error
}
