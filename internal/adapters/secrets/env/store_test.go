package env

import (
	"context"
	"testing"

	"github.com/bnema/smux/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreReadsEnvironment(t *testing.T) {
	t.Setenv("SMUX_TEST_KEY", "sk-from-env")

	got, err := NewStore().Get(context.Background(), " SMUX_TEST_KEY ")
	require.NoError(t, err)
	assert.Equal(t, "sk-from-env", got)
}

func TestStoreMissingVariable(t *testing.T) {
	t.Parallel()

	store := &Store{lookup: func(string) (string, bool) { return "", false }}
	_, err := store.Get(context.Background(), "NOPE")
	require.ErrorIs(t, err, domain.ErrSecretNotFound)

	_, err = store.Get(context.Background(), "")
	require.Error(t, err)
}

func TestStoreIsReadOnly(t *testing.T) {
	t.Parallel()

	store := NewStore()
	require.ErrorIs(t, store.Put(context.Background(), "X", "y"), ErrReadOnly)
	require.NoError(t, store.Delete(context.Background(), "X"))
}
