package application

import (
	"testing"

	"github.com/bnema/smux/internal/domain"
	"github.com/bnema/smux/internal/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testMetrics = domain.GlyphMetrics{CellWidth: 8, CellHeight: 16}

func frame(id domain.SessionID, payload string) domain.DataFrame {
	return domain.DataFrame{SessionID: id, Payload: []byte(payload)}
}

func TestBindingTableFlushesBufferedOutputInOneWrite(t *testing.T) {
	t.Parallel()

	table := NewBindingTable(zerolog.Nop())
	require.True(t, table.Open("s1"))

	for _, chunk := range []string{"a", "b", "c"} {
		require.NoError(t, table.Route(frame("s1", chunk)))
	}
	assert.Equal(t, 3, table.Pending("s1"))

	view := testutil.NewRecordingView(testMetrics)
	require.NoError(t, table.AttachView("s1", view))

	assert.Equal(t, "abc", view.String())
	assert.Equal(t, 1, view.Writes())
	assert.Zero(t, table.Pending("s1"))

	require.NoError(t, table.Route(frame("s1", "d")))
	assert.Equal(t, "abcd", view.String())
}

func TestBindingTableKeepsOrderAcrossDetachAndReattach(t *testing.T) {
	t.Parallel()

	table := NewBindingTable(zerolog.Nop())
	table.Open("s1")

	first := testutil.NewRecordingView(testMetrics)
	require.NoError(t, table.AttachView("s1", first))
	require.NoError(t, table.Route(frame("s1", "1")))
	require.NoError(t, table.Route(frame("s1", "2")))

	require.NoError(t, table.DetachView("s1"))
	require.NoError(t, table.Route(frame("s1", "3")))
	require.NoError(t, table.Route(frame("s1", "4")))

	second := testutil.NewRecordingView(testMetrics)
	require.NoError(t, table.AttachView("s1", second))
	require.NoError(t, table.Route(frame("s1", "5")))

	assert.Equal(t, "12", first.String())
	assert.Equal(t, "345", second.String())
	assert.Equal(t, "12345", first.String()+second.String())
}

func TestBindingTableAttachErrors(t *testing.T) {
	t.Parallel()

	table := NewBindingTable(zerolog.Nop())
	view := testutil.NewRecordingView(testMetrics)

	err := table.AttachView("missing", view)
	require.ErrorIs(t, err, domain.ErrNotFound)

	table.Open("s1")
	require.Error(t, table.AttachView("s1", nil))
	require.NoError(t, table.AttachView("s1", view))

	err = table.AttachView("s1", testutil.NewRecordingView(testMetrics))
	require.ErrorIs(t, err, domain.ErrAlreadyBound)

	bound, ok := table.View("s1")
	require.True(t, ok)
	assert.Same(t, view, bound)
}

func TestBindingTableFailedFlushKeepsBuffer(t *testing.T) {
	t.Parallel()

	table := NewBindingTable(zerolog.Nop())
	table.Open("s1")
	require.NoError(t, table.Route(frame("s1", "hello")))

	broken := testutil.NewRecordingView(testMetrics)
	broken.FailWrites(true)

	err := table.AttachView("s1", broken)
	require.ErrorIs(t, err, testutil.ErrViewClosed)
	_, bound := table.View("s1")
	assert.False(t, bound)
	assert.Equal(t, 5, table.Pending("s1"))

	healthy := testutil.NewRecordingView(testMetrics)
	require.NoError(t, table.AttachView("s1", healthy))
	assert.Equal(t, "hello", healthy.String())
}

func TestBindingTableWriteFailureDetachesAndBuffers(t *testing.T) {
	t.Parallel()

	table := NewBindingTable(zerolog.Nop())
	table.Open("s1")

	view := testutil.NewRecordingView(testMetrics)
	require.NoError(t, table.AttachView("s1", view))
	view.FailWrites(true)

	err := table.Route(frame("s1", "lost?"))
	require.ErrorIs(t, err, testutil.ErrViewClosed)
	_, bound := table.View("s1")
	assert.False(t, bound)

	next := testutil.NewRecordingView(testMetrics)
	require.NoError(t, table.AttachView("s1", next))
	assert.Equal(t, "lost?", next.String())
}

func TestBindingTableBufferedOutputSurvivesPayloadReuse(t *testing.T) {
	t.Parallel()

	table := NewBindingTable(zerolog.Nop())
	table.Open("s1")

	buf := []byte("a")
	require.NoError(t, table.Route(domain.DataFrame{SessionID: "s1", Payload: buf}))
	buf[0] = 'b'
	require.NoError(t, table.Route(domain.DataFrame{SessionID: "s1", Payload: buf}))

	failing := testutil.NewRecordingView(testMetrics)
	failing.FailWrites(true)
	require.Error(t, table.AttachView("s1", failing))

	buf[0] = 'c'
	view := testutil.NewRecordingView(testMetrics)
	require.NoError(t, table.AttachView("s1", view))
	require.NoError(t, table.DetachView("s1"))

	live := testutil.NewRecordingView(testMetrics)
	require.NoError(t, table.AttachView("s1", live))
	live.FailWrites(true)
	require.Error(t, table.Route(domain.DataFrame{SessionID: "s1", Payload: buf}))
	buf[0] = 'd'

	next := testutil.NewRecordingView(testMetrics)
	require.NoError(t, table.AttachView("s1", next))

	assert.Equal(t, "ab", view.String())
	assert.Equal(t, "c", next.String())
}

func TestBindingTableRouteToUnknownSession(t *testing.T) {
	t.Parallel()

	table := NewBindingTable(zerolog.Nop())
	err := table.Route(frame("ghost", "x"))
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBindingTableReleaseDiscardsPending(t *testing.T) {
	t.Parallel()

	table := NewBindingTable(zerolog.Nop())
	table.Open("s1")
	require.NoError(t, table.Route(frame("s1", "1234")))

	assert.Equal(t, 4, table.Release("s1"))
	assert.False(t, table.Has("s1"))
	assert.Zero(t, table.Release("s1"))
	require.ErrorIs(t, table.DetachView("s1"), domain.ErrNotFound)
}

func TestBindingTableLiveListsMountedViewsInOrder(t *testing.T) {
	t.Parallel()

	table := NewBindingTable(zerolog.Nop())
	for _, id := range []domain.SessionID{"s3", "s1", "s2"} {
		table.Open(id)
	}
	require.NoError(t, table.AttachView("s3", testutil.NewRecordingView(testMetrics)))
	require.NoError(t, table.AttachView("s1", testutil.NewRecordingView(testMetrics)))

	live := table.Live()
	require.Len(t, live, 2)
	assert.Equal(t, domain.SessionID("s1"), live[0].SessionID)
	assert.Equal(t, domain.SessionID("s3"), live[1].SessionID)
}
