package terminal

import (
	"bytes"
	"os"
	"testing"

	"github.com/bnema/smux/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewWritesThrough(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	view := New(&out)

	n, err := view.Write([]byte("abc"))
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, "abc", out.String())
}

func TestViewMetricsMapExtentToCells(t *testing.T) {
	t.Parallel()

	geometry, err := domain.Fit(domain.Extent{Width: 132, Height: 43}, New(&bytes.Buffer{}).Metrics())
	require.NoError(t, err)
	assert.Equal(t, domain.Geometry{Cols: 132, Rows: 43}, geometry)
}

func TestExtentFailsForNonTerminal(t *testing.T) {
	t.Parallel()

	r, w, err := os.Pipe()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = r.Close()
		_ = w.Close()
	})

	_, err = Extent(int(r.Fd()))
	require.ErrorContains(t, err, "get terminal size")
}
