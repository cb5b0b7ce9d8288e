package logging

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{in: "debug", want: zerolog.DebugLevel},
		{in: " WARN ", want: zerolog.WarnLevel},
		{in: "off", want: zerolog.Disabled},
		{in: "", want: zerolog.InfoLevel},
		{in: "verbose", want: zerolog.InfoLevel},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.in, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, ParseLevel(tc.in))
		})
	}
}

func TestNewJSONWritesStructuredFields(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.Format = "json"
	logger := New(cfg, &buf)

	ctx := WithSession(WithComponent(WithContext(context.Background(), logger), "bindings"), "sess_1")
	FromContext(ctx).Info().Msg("attached")

	out := buf.String()
	assert.Contains(t, out, `"component":"bindings"`)
	assert.Contains(t, out, `"session_id":"sess_1"`)
	assert.Contains(t, out, `"message":"attached"`)
}

func TestNewWithFileAppendsToPath(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Format = "json"
	cfg.Path = filepath.Join(t.TempDir(), "logs", "smux.log")

	logger, cleanup, err := NewWithFile(cfg)
	require.NoError(t, err)
	logger.Warn().Msg("hello")
	cleanup()

	data, err := os.ReadFile(cfg.Path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello")
}
