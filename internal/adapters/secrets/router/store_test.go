package router

import (
	"context"
	"errors"
	"testing"

	portmocks "github.com/bnema/smux/internal/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestStoreRoutesBySchemePrefix(t *testing.T) {
	t.Parallel()

	fallback := portmocks.NewMockSecretStore(t)
	envStore := portmocks.NewMockSecretStore(t)
	store, err := NewStore(fallback)
	require.NoError(t, err)
	store.Handle("env", envStore)

	envStore.EXPECT().Get(mock.Anything, "ANTHROPIC_API_KEY").Return("from-env", nil).Once()
	fallback.EXPECT().Get(mock.Anything, "anthropic/work").Return("from-file", nil).Once()

	value, err := store.Get(context.Background(), "ENV:ANTHROPIC_API_KEY")
	require.NoError(t, err)
	assert.Equal(t, "from-env", value)

	value, err = store.Get(context.Background(), "anthropic/work")
	require.NoError(t, err)
	assert.Equal(t, "from-file", value)
}

func TestStoreUnknownSchemeGoesToFallbackUnchanged(t *testing.T) {
	t.Parallel()

	fallback := portmocks.NewMockSecretStore(t)
	store, err := NewStore(fallback)
	require.NoError(t, err)

	fallback.EXPECT().Put(mock.Anything, "vault:team/key", "v").Return(nil).Once()
	fallback.EXPECT().Delete(mock.Anything, "vault:team/key").Return(nil).Once()

	require.NoError(t, store.Put(context.Background(), "vault:team/key", "v"))
	require.NoError(t, store.Delete(context.Background(), "vault:team/key"))
}

func TestStoreWrapsRoutedErrors(t *testing.T) {
	t.Parallel()

	fallback := portmocks.NewMockSecretStore(t)
	envStore := portmocks.NewMockSecretStore(t)
	store, err := NewStore(fallback)
	require.NoError(t, err)
	store.Handle("env", envStore)

	readOnly := errors.New("read-only")
	envStore.EXPECT().Put(mock.Anything, "KEY", "v").Return(readOnly).Once()

	err = store.Put(context.Background(), "env:KEY", "v")
	require.ErrorIs(t, err, readOnly)
	assert.ErrorContains(t, err, "env secret")
}

func TestNewStoreRequiresFallback(t *testing.T) {
	t.Parallel()

	_, err := NewStore(nil)
	require.ErrorIs(t, err, errNilFallbackStore)
}
