package local

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"sync"
	"testing"
	"time"

	"github.com/bnema/smux/internal/domain"
	"github.com/bnema/smux/internal/ports"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu     sync.Mutex
	output map[domain.SessionID]*bytes.Buffer
	exits  map[domain.SessionID]error
	order  []string
}

func newRecordingPublisher() *recordingPublisher {
	return &recordingPublisher{
		output: map[domain.SessionID]*bytes.Buffer{},
		exits:  map[domain.SessionID]error{},
	}
}

func (p *recordingPublisher) PublishFrame(_ context.Context, id domain.SessionID, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	buf, ok := p.output[id]
	if !ok {
		buf = &bytes.Buffer{}
		p.output[id] = buf
	}
	buf.Write(payload)
	p.order = append(p.order, "frame")
	return nil
}

func (p *recordingPublisher) PublishExit(_ context.Context, id domain.SessionID, err error) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.exits[id] = err
	p.order = append(p.order, "exit")
	return nil
}

func (p *recordingPublisher) text(id domain.SessionID) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if buf, ok := p.output[id]; ok {
		return buf.String()
	}
	return ""
}

func (p *recordingPublisher) exited(id domain.SessionID) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.exits[id]
	return ok
}

func (p *recordingPublisher) exitErr(id domain.SessionID) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.exits[id]
}

func newTestBackend(t *testing.T) (*Backend, *recordingPublisher) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	publisher := newRecordingPublisher()
	backend := New(publisher, Options{Logger: zerolog.Nop(), Shell: "/bin/sh"})
	t.Cleanup(func() { _ = backend.Close() })
	return backend, publisher
}

func spawnShell(t *testing.T, backend *Backend, id domain.SessionID, script string, env ...string) {
	t.Helper()
	err := backend.Spawn(context.Background(), ports.SpawnRequest{
		SessionID: id,
		Cwd:       t.TempDir(),
		Command:   []string{"/bin/sh", "-c", script},
		Env:       append([]string{"PATH=" + os.Getenv("PATH")}, env...),
		Geometry:  domain.Geometry{Cols: 80, Rows: 24},
	})
	require.NoError(t, err)
}

func TestBackendPublishesOutputThenExit(t *testing.T) {
	backend, publisher := newTestBackend(t)

	spawnShell(t, backend, "s1", `printf "hello $SMUX_PROVIDER_ID"`, "SMUX_PROVIDER_ID=relay")

	require.Eventually(t, func() bool { return publisher.exited("s1") }, 5*time.Second, 10*time.Millisecond)

	assert.Contains(t, publisher.text("s1"), "hello relay")
	assert.NoError(t, publisher.exitErr("s1"))

	publisher.mu.Lock()
	order := append([]string(nil), publisher.order...)
	publisher.mu.Unlock()
	require.NotEmpty(t, order)
	assert.Equal(t, "exit", order[len(order)-1])
}

func TestBackendReportsNonZeroExit(t *testing.T) {
	backend, publisher := newTestBackend(t)

	spawnShell(t, backend, "s1", "exit 3")

	require.Eventually(t, func() bool { return publisher.exited("s1") }, 5*time.Second, 10*time.Millisecond)

	var exitError *exec.ExitError
	require.ErrorAs(t, publisher.exitErr("s1"), &exitError)
	assert.Equal(t, 3, exitError.ExitCode())

	require.ErrorIs(t, backend.SendInput("s1", []byte("x")), domain.ErrNotFound)
}

func TestBackendSendInputAndResize(t *testing.T) {
	backend, publisher := newTestBackend(t)

	spawnShell(t, backend, "s1", `read line; printf "got:%s " "$line"; read again; stty size`)

	require.NoError(t, backend.SendInput("s1", []byte("ping\n")))
	require.Eventually(t, func() bool {
		return bytes.Contains([]byte(publisher.text("s1")), []byte("got:ping"))
	}, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, backend.Resize("s1", domain.Geometry{Cols: 100, Rows: 40}))
	require.NoError(t, backend.SendInput("s1", []byte("\n")))

	require.Eventually(t, func() bool { return publisher.exited("s1") }, 5*time.Second, 10*time.Millisecond)
	assert.Contains(t, publisher.text("s1"), "40 100")
}

func TestBackendTerminate(t *testing.T) {
	backend, publisher := newTestBackend(t)

	spawnShell(t, backend, "s1", "sleep 30")
	require.NoError(t, backend.Terminate("s1"))

	require.Eventually(t, func() bool { return publisher.exited("s1") }, 5*time.Second, 10*time.Millisecond)

	require.ErrorIs(t, backend.Terminate("s1"), domain.ErrNotFound)
}

func TestBackendRejectsDuplicateAndMissingCommand(t *testing.T) {
	backend, _ := newTestBackend(t)

	spawnShell(t, backend, "s1", "sleep 30")
	err := backend.Spawn(context.Background(), ports.SpawnRequest{SessionID: "s1", Command: []string{"/bin/sh"}})
	require.ErrorContains(t, err, "already has a process")

	err = backend.Spawn(context.Background(), ports.SpawnRequest{SessionID: "s2", Command: []string{"/nonexistent/smux-test-binary"}})
	require.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, backend.Spawn(ctx, ports.SpawnRequest{SessionID: "s3"}), context.Canceled)
}

func TestWinsizeClampsOutOfRangeGeometry(t *testing.T) {
	t.Parallel()

	assert.Equal(t, uint16(65535), winsize(domain.Geometry{Cols: 70000, Rows: 10}).Cols)
	assert.Equal(t, uint16(10), winsize(domain.Geometry{Cols: 70000, Rows: 10}).Rows)
	assert.Equal(t, uint16(1), winsize(domain.Geometry{Cols: -4, Rows: 0}).Cols)
	assert.Equal(t, uint16(1), winsize(domain.Geometry{Cols: -4, Rows: 0}).Rows)
	assert.Equal(t, uint16(120), winsize(domain.Geometry{Cols: 120, Rows: 40}).Cols)
}

func TestWithTermKeepsExplicitTerm(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"TERM=dumb"}, withTerm([]string{"TERM=dumb"}))
	assert.Equal(t, []string{"A=1", "TERM=xterm-256color"}, withTerm([]string{"A=1"}))
}
