package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/bnema/smux/internal/adapters/backend/local"
	"github.com/bnema/smux/internal/adapters/render/notice"
	"github.com/bnema/smux/internal/adapters/view/terminal"
	"github.com/bnema/smux/internal/application"
	"github.com/bnema/smux/internal/domain"
	"github.com/bnema/smux/internal/logging"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"
)

var errNotATerminal = errors.New("run needs an interactive terminal on stdin")

const inputBufferSize = 4096

func newRunCmd(app *app) *cobra.Command {
	var projectID string

	cmd := &cobra.Command{
		Use:   "run [-- command [args...]]",
		Short: "Run multiplexed sessions in this terminal",
		Long: `Run multiplexed sessions in this terminal.

Each session runs the given command (the configured session command or $SHELL
by default) with the active provider and account in its environment.

Keys after the Ctrl-] prefix:
  c      new session         n / p  next / previous session
  1-9    select session      x      close session
  a      next provider       q      quit
  Ctrl-] send a literal Ctrl-]`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractive(cmd, app, projectID, args)
		},
	}

	cmd.Flags().StringVar(&projectID, "project", "", "Project ID for new sessions (defaults to the working directory name)")

	return cmd
}

func runInteractive(cmd *cobra.Command, app *app, projectID string, command []string) error {
	stdin, ok := cmd.InOrStdin().(*os.File)
	if !ok || !term.IsTerminal(int(stdin.Fd())) {
		return errNotATerminal
	}
	fd := int(stdin.Fd())

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("resolve working directory: %w", err)
	}
	if projectID == "" {
		projectID = filepath.Base(cwd)
	}
	if len(command) == 0 {
		command = app.settings.Command
	}

	logCfg := app.settings.Log
	if logCfg.Path == "" {
		logCfg.Path = filepath.Join(app.settings.Dir, "smux.log")
	}
	logger, closeLog, err := logging.NewWithFile(logCfg)
	if err != nil {
		return err
	}
	defer closeLog()

	out := cmd.OutOrStdout()
	bus := application.NewBus(0)
	backend := local.New(bus, local.Options{Logger: logger})
	defer func() { _ = backend.Close() }()

	controller := application.NewController(backend, bus, app.providers, notice.NewBanner(out), application.ControllerOptions{
		Command:        command,
		BaseEnv:        os.Environ(),
		ResizeDebounce: app.settings.ResizeDebounce,
		PollInterval:   pollInterval(app.settings.PollInterval),
		Clock:          app.clock,
		Logger:         logger,
		Secrets:        app.secretStore,
	})

	state, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("enter raw mode: %w", err)
	}
	defer func() { _ = term.Restore(fd, state) }()

	ctx, cancel := context.WithCancel(logging.WithContext(cmd.Context(), logger))
	defer cancel()

	scr := newScreen(controller, terminal.New(out), application.CreateSessionRequest{
		ProjectID: domain.ProjectID(projectID),
		Cwd:       cwd,
	}, cancel)
	unsubscribe := controller.SubscribeLifecycle(scr.observe)
	defer unsubscribe()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGWINCH, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(signals)

	// The stdin reader cannot be interrupted, so it lives outside the group.
	input := make(chan []byte, 16)
	go readInput(stdin, input)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return controller.Run(gctx) })
	g.Go(func() error { return scr.follow(gctx) })
	g.Go(func() error {
		layoutChanged(gctx, controller, fd)
		if _, err := scr.newSession(gctx); err != nil {
			if gctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("start first session: %w", err)
		}

		for {
			select {
			case <-gctx.Done():
				return nil
			case sig := <-signals:
				if sig == syscall.SIGWINCH {
					layoutChanged(gctx, controller, fd)
					continue
				}
				cancel()
			case data, ok := <-input:
				if !ok {
					cancel()
					continue
				}
				if err := scr.handleInput(gctx, data); err != nil && gctx.Err() == nil {
					logger.Debug().Err(err).Msg("handle input")
				}
			}
		}
	})

	err = g.Wait()
	_ = term.Restore(fd, state)
	_, _ = fmt.Fprintln(out, "\r\n[smux] bye")
	return err
}

func layoutChanged(ctx context.Context, controller *application.Controller, fd int) {
	extent, err := terminal.Extent(fd)
	if err != nil {
		logging.FromContext(ctx).Warn().Err(err).Msg("measure terminal")
		return
	}
	controller.LayoutChanged(extent)
}

func readInput(r io.Reader, out chan<- []byte) {
	defer close(out)

	buf := make([]byte, inputBufferSize)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			out <- append([]byte(nil), buf[:n]...)
		}
		if err != nil {
			return
		}
	}
}

// pollInterval maps the config convention (zero or less is off) onto the
// controller's (negative is off).
func pollInterval(configured time.Duration) time.Duration {
	if configured <= 0 {
		return -1
	}
	return configured
}
