package application

import (
	"testing"
	"time"

	"github.com/bnema/smux/internal/domain"
	"github.com/bnema/smux/internal/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type plainRenderer struct {
	calls int
}

func (r *plainRenderer) Render(n domain.Notice) []byte {
	r.calls++
	return []byte("[" + n.ProviderName + "]")
}

func TestBroadcasterDeliversToEveryLiveView(t *testing.T) {
	t.Parallel()

	table := NewBindingTable(zerolog.Nop())
	views := map[domain.SessionID]*testutil.RecordingView{}
	for _, id := range []domain.SessionID{"s1", "s2", "s3"} {
		table.Open(id)
		views[id] = testutil.NewRecordingView(testMetrics)
	}
	require.NoError(t, table.AttachView("s1", views["s1"]))
	require.NoError(t, table.AttachView("s3", views["s3"]))

	renderer := &plainRenderer{}
	broadcaster := NewBroadcaster(zerolog.Nop(), renderer, table.Live)

	delivered, err := broadcaster.Broadcast(domain.Notice{ProviderName: "Anthropic", At: time.Now()})
	require.NoError(t, err)

	assert.Equal(t, 2, delivered)
	assert.Equal(t, 1, renderer.calls)
	assert.Equal(t, "[Anthropic]", views["s1"].String())
	assert.Empty(t, views["s2"].String())
	assert.Equal(t, "[Anthropic]", views["s3"].String())
	assert.Zero(t, table.Pending("s2"), "unmounted sessions are not backfilled")
}

func TestBroadcasterIsolatesFailingView(t *testing.T) {
	t.Parallel()

	table := NewBindingTable(zerolog.Nop())
	broken := testutil.NewRecordingView(testMetrics)
	healthy := testutil.NewRecordingView(testMetrics)
	table.Open("s1")
	table.Open("s2")
	require.NoError(t, table.AttachView("s1", broken))
	require.NoError(t, table.AttachView("s2", healthy))
	broken.FailWrites(true)

	broadcaster := NewBroadcaster(zerolog.Nop(), &plainRenderer{}, table.Live)
	delivered, err := broadcaster.Broadcast(domain.Notice{ProviderName: "Relay"})

	require.ErrorIs(t, err, testutil.ErrViewClosed)
	assert.Contains(t, err.Error(), "s1")
	assert.Equal(t, 1, delivered)
	assert.Equal(t, "[Relay]", healthy.String())
}

type panickingView struct{}

func (panickingView) Write([]byte) (int, error)     { panic("view torn down") }
func (panickingView) Metrics() domain.GlyphMetrics { return testMetrics }

func TestBroadcasterSurvivesPanickingView(t *testing.T) {
	t.Parallel()

	table := NewBindingTable(zerolog.Nop())
	healthy := testutil.NewRecordingView(testMetrics)
	table.Open("a")
	table.Open("b")
	require.NoError(t, table.AttachView("a", panickingView{}))
	require.NoError(t, table.AttachView("b", healthy))

	broadcaster := NewBroadcaster(zerolog.Nop(), &plainRenderer{}, table.Live)

	var (
		delivered int
		err       error
	)
	require.NotPanics(t, func() {
		delivered, err = broadcaster.Broadcast(domain.Notice{ProviderName: "Relay"})
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "view torn down")
	assert.Contains(t, err.Error(), "deliver notice to a")
	assert.Equal(t, 1, delivered)
	assert.Equal(t, "[Relay]", healthy.String())
}

func TestBroadcasterWithNoViews(t *testing.T) {
	t.Parallel()

	broadcaster := NewBroadcaster(zerolog.Nop(), &plainRenderer{}, NewBindingTable(zerolog.Nop()).Live)
	delivered, err := broadcaster.Broadcast(domain.Notice{})
	require.NoError(t, err)
	assert.Zero(t, delivered)
}
