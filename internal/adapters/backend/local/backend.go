package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"os/exec"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/bnema/smux/internal/domain"
	"github.com/bnema/smux/internal/ports"
	"github.com/creack/pty"
	"github.com/rs/zerolog"
)

const (
	readBufferSize = 32 * 1024
	// exitDrainTimeout bounds how long output is drained after the process
	// exits. A grandchild holding the terminal open would otherwise keep the
	// exit from ever being reported.
	exitDrainTimeout = 2 * time.Second
)

var defaultGeometry = domain.Geometry{Cols: 80, Rows: 24}

// Publisher receives process output and exits. *application.Bus satisfies it.
type Publisher interface {
	PublishFrame(ctx context.Context, id domain.SessionID, payload []byte) error
	PublishExit(ctx context.Context, id domain.SessionID, err error) error
}

type Options struct {
	Logger zerolog.Logger
	// Shell is run when a spawn request carries no command. Empty falls back
	// to $SHELL, then /bin/sh.
	Shell string
}

// Backend runs each session as a local process attached to a pseudo-terminal.
type Backend struct {
	publisher Publisher
	logger    zerolog.Logger
	shell     string

	ctx    context.Context
	cancel context.CancelFunc

	mu    sync.Mutex
	procs map[domain.SessionID]*process
}

type process struct {
	cmd  *exec.Cmd
	ptmx *os.File
	once sync.Once
}

var _ ports.Backend = (*Backend)(nil)

func New(publisher Publisher, opts Options) *Backend {
	shell := strings.TrimSpace(opts.Shell)
	if shell == "" {
		shell = os.Getenv("SHELL")
	}
	if shell == "" {
		shell = "/bin/sh"
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Backend{
		publisher: publisher,
		logger:    opts.Logger.With().Str("component", "backend").Logger(),
		shell:     shell,
		ctx:       ctx,
		cancel:    cancel,
		procs:     map[domain.SessionID]*process{},
	}
}

// Spawn starts the process and returns once it is running. The process
// outlives ctx; only Terminate or Close stop it.
func (b *Backend) Spawn(ctx context.Context, req ports.SpawnRequest) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := b.ctx.Err(); err != nil {
		return fmt.Errorf("backend closed: %w", err)
	}

	command := req.Command
	if len(command) == 0 {
		command = []string{b.shell}
	}

	b.mu.Lock()
	_, exists := b.procs[req.SessionID]
	b.mu.Unlock()
	if exists {
		return fmt.Errorf("session %s already has a process", req.SessionID)
	}

	cmd := exec.Command(command[0], command[1:]...)
	cmd.Dir = req.Cwd
	cmd.Env = withTerm(req.Env)

	geometry := req.Geometry
	if geometry.Cols < 1 || geometry.Rows < 1 {
		geometry = defaultGeometry
	}

	ptmx, err := pty.StartWithSize(cmd, winsize(geometry))
	if err != nil {
		return fmt.Errorf("start %s: %w", command[0], err)
	}

	proc := &process{cmd: cmd, ptmx: ptmx}
	b.mu.Lock()
	b.procs[req.SessionID] = proc
	b.mu.Unlock()

	b.logger.Debug().
		Str("session_id", string(req.SessionID)).
		Int("pid", cmd.Process.Pid).
		Stringer("geometry", geometry).
		Msg("process started")

	readDone := make(chan struct{})
	go b.readLoop(req.SessionID, proc, readDone)
	go b.waitLoop(req.SessionID, proc, readDone)

	return nil
}

func (b *Backend) SendInput(id domain.SessionID, data []byte) error {
	proc, err := b.lookup(id)
	if err != nil {
		return err
	}
	if _, err := proc.ptmx.Write(data); err != nil {
		return fmt.Errorf("write input to %s: %w", id, err)
	}
	return nil
}

func (b *Backend) Resize(id domain.SessionID, geometry domain.Geometry) error {
	proc, err := b.lookup(id)
	if err != nil {
		return err
	}
	if err := pty.Setsize(proc.ptmx, winsize(geometry)); err != nil {
		return fmt.Errorf("resize %s to %s: %w", id, geometry, err)
	}
	return nil
}

// Terminate hangs up the process. Its exit is still published once it is gone.
func (b *Backend) Terminate(id domain.SessionID) error {
	proc, err := b.lookup(id)
	if err != nil {
		return err
	}
	proc.hangup()
	return nil
}

// Close terminates every process and stops publishing.
func (b *Backend) Close() error {
	b.mu.Lock()
	procs := make([]*process, 0, len(b.procs))
	for _, proc := range b.procs {
		procs = append(procs, proc)
	}
	b.mu.Unlock()

	for _, proc := range procs {
		proc.hangup()
	}
	b.cancel()
	return nil
}

func (b *Backend) lookup(id domain.SessionID) (*process, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	proc, ok := b.procs[id]
	if !ok {
		return nil, fmt.Errorf("process for %s: %w", id, domain.ErrNotFound)
	}
	return proc, nil
}

func (b *Backend) readLoop(id domain.SessionID, proc *process, done chan<- struct{}) {
	defer close(done)

	buf := make([]byte, readBufferSize)
	for {
		n, err := proc.ptmx.Read(buf)
		if n > 0 {
			if pubErr := b.publisher.PublishFrame(b.ctx, id, buf[:n]); pubErr != nil {
				return
			}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, os.ErrClosed) && !errors.Is(err, syscall.EIO) {
				b.logger.Debug().Err(err).Str("session_id", string(id)).Msg("read process output")
			}
			return
		}
	}
}

// waitLoop reports the exit after the remaining output, so a session's
// frames always precede its exit on the bus.
func (b *Backend) waitLoop(id domain.SessionID, proc *process, readDone <-chan struct{}) {
	waitErr := proc.cmd.Wait()

	select {
	case <-readDone:
	case <-time.After(exitDrainTimeout):
	}
	proc.close()
	<-readDone

	b.mu.Lock()
	if b.procs[id] == proc {
		delete(b.procs, id)
	}
	b.mu.Unlock()

	b.logger.Debug().Err(waitErr).Str("session_id", string(id)).Msg("process exited")
	if err := b.publisher.PublishExit(b.ctx, id, waitErr); err != nil {
		b.logger.Debug().Err(err).Str("session_id", string(id)).Msg("publish process exit")
	}
}

func (p *process) hangup() {
	if p.cmd.Process != nil {
		_ = p.cmd.Process.Signal(syscall.SIGHUP)
	}
	p.close()
}

func (p *process) close() {
	p.once.Do(func() {
		_ = p.ptmx.Close()
	})
}

func winsize(g domain.Geometry) *pty.Winsize {
	return &pty.Winsize{Cols: cells(g.Cols), Rows: cells(g.Rows)}
}

// cells clamps a dimension into the kernel's winsize range.
func cells(n int) uint16 {
	return uint16(min(max(n, 1), math.MaxUint16))
}

func withTerm(env []string) []string {
	for _, kv := range env {
		if strings.HasPrefix(kv, "TERM=") {
			return env
		}
	}
	return append(append([]string(nil), env...), "TERM=xterm-256color")
}
