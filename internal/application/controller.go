package application

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/bnema/smux/internal/domain"
	"github.com/bnema/smux/internal/logging"
	"github.com/bnema/smux/internal/mainloop"
	"github.com/bnema/smux/internal/ports"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const DefaultPollInterval = 5 * time.Second

type ControllerOptions struct {
	// Command is what every session runs. Empty lets the backend pick a shell.
	Command []string
	// BaseEnv is the environment inherited by every session.
	BaseEnv        []string
	ResizeDebounce time.Duration
	// PollInterval paces account refreshes. Negative disables polling.
	PollInterval time.Duration
	Clock        ports.Clock
	Logger       zerolog.Logger
	Secrets      ports.SecretStore
}

// Controller is the surface UI collaborators talk to. Its methods are safe
// for concurrent use; all session, binding and resize state is mutated on a
// single main loop started by Run. Lifecycle and notice subscribers run on
// that loop and must not call back into blocking Controller methods.
type Controller struct {
	opts    ControllerOptions
	logger  zerolog.Logger
	loop    *mainloop.Loop
	bus     *Bus
	backend ports.Backend
	store   ports.ProviderStore

	registry    *Registry
	bindings    *BindingTable
	resize      *ResizeCoordinator
	providers   *ProviderContextService
	broadcaster *Broadcaster
	lifecycle   *Feed[domain.LifecycleEvent]
	notices     *Feed[domain.Notice]

	// Owned by the loop.
	spawns map[domain.SessionID]context.CancelFunc
	runCtx context.Context
}

func NewController(backend ports.Backend, bus *Bus, store ports.ProviderStore, renderer ports.NoticeRenderer, opts ControllerOptions) *Controller {
	if opts.Clock == nil {
		opts.Clock = ports.SystemClock{}
	}
	if opts.ResizeDebounce == 0 {
		opts.ResizeDebounce = DefaultResizeDebounce
	}
	if opts.PollInterval == 0 {
		opts.PollInterval = DefaultPollInterval
	}

	c := &Controller{
		opts:    opts,
		logger:  opts.Logger.With().Str("component", "controller").Logger(),
		loop:    mainloop.New(opts.Logger),
		bus:     bus,
		backend: backend,
		store:   store,
		spawns:  map[domain.SessionID]context.CancelFunc{},
		runCtx:  context.Background(),
	}

	c.lifecycle = NewFeed[domain.LifecycleEvent](opts.Logger)
	c.notices = NewFeed[domain.Notice](opts.Logger)
	c.registry = NewRegistry(opts.Clock, c.onLifecycle)
	c.bindings = NewBindingTable(opts.Logger)
	c.resize = NewResizeCoordinator(opts.Logger, backend, c.bindings, c.registry.ActiveID, opts.Clock, opts.ResizeDebounce, func(fn func()) { c.post(fn) })
	c.broadcaster = NewBroadcaster(opts.Logger, renderer, c.bindings.Live)
	c.providers = NewProviderContextService(store, opts.Clock, func(n domain.Notice) {
		c.post(func() { c.broadcast(n) })
	})

	return c
}

// Run drives the controller until ctx ends: the main loop, the bus, the
// settings change feed and the status poller. Live sessions are terminated
// on the way out.
func (c *Controller) Run(ctx context.Context) error {
	ctx = logging.WithContext(ctx, c.logger)
	c.runCtx = ctx

	if err := c.providers.Load(ctx); err != nil {
		return fmt.Errorf("load provider context: %w", err)
	}

	changes, err := c.store.Subscribe(ctx)
	if err != nil {
		c.logger.Warn().Err(err).Msg("settings change feed unavailable")
		changes = nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return c.loop.Run(gctx) })
	g.Go(func() error { return c.pumpBus(gctx) })
	g.Go(func() error { return c.pumpChanges(gctx, changes) })
	g.Go(func() error { return c.poll(gctx) })

	err = g.Wait()
	c.shutdown()

	if ctx.Err() != nil {
		return nil
	}
	return err
}

func (c *Controller) CreateSession(ctx context.Context, req CreateSessionRequest) (domain.Session, error) {
	var (
		session domain.Session
		err     error
	)
	if doErr := c.loop.Do(ctx, func() { session, err = c.createSession(req) }); doErr != nil {
		return domain.Session{}, doErr
	}
	return session, err
}

func (c *Controller) ActivateSession(ctx context.Context, id domain.SessionID) error {
	var err error
	if doErr := c.loop.Do(ctx, func() { err = c.registry.Activate(id) }); doErr != nil {
		return doErr
	}
	return err
}

func (c *Controller) DeleteSession(ctx context.Context, id domain.SessionID) error {
	var err error
	doErr := c.loop.Do(ctx, func() {
		if _, err = c.registry.Delete(id); err == nil {
			go c.terminate(id)
		}
	})
	if doErr != nil {
		return doErr
	}
	return err
}

func (c *Controller) SendInput(ctx context.Context, id domain.SessionID, data []byte) error {
	var err error
	doErr := c.loop.Do(ctx, func() {
		session, getErr := c.registry.Get(id)
		if getErr != nil {
			err = getErr
			return
		}
		if !session.State.Live() {
			err = fmt.Errorf("send input to %s: %w", id, domain.ErrNotFound)
		}
	})
	if doErr != nil {
		return doErr
	}
	if err != nil {
		return err
	}

	if err := c.backend.SendInput(id, data); err != nil {
		return fmt.Errorf("send input to %s: %w", id, err)
	}
	return nil
}

func (c *Controller) AttachView(ctx context.Context, id domain.SessionID, view ports.View) error {
	var err error
	doErr := c.loop.Do(ctx, func() {
		session, getErr := c.registry.Get(id)
		if getErr != nil || !session.State.Live() {
			err = fmt.Errorf("attach view to %s: %w", id, domain.ErrNotFound)
			return
		}
		c.bindings.Open(id)
		if err = c.bindings.AttachView(id, view); err != nil {
			return
		}
		c.resize.ViewAttached(id)
	})
	if doErr != nil {
		return doErr
	}
	return err
}

func (c *Controller) DetachView(ctx context.Context, id domain.SessionID) error {
	var err error
	if doErr := c.loop.Do(ctx, func() { err = c.bindings.DetachView(id) }); doErr != nil {
		return doErr
	}
	return err
}

// Route is the entry point for frames that do not come through the bus.
func (c *Controller) Route(ctx context.Context, frame domain.DataFrame) error {
	var err error
	if doErr := c.loop.Do(ctx, func() { err = c.route(frame) }); doErr != nil {
		return doErr
	}
	return err
}

// LayoutChanged records a new container extent. It never blocks.
func (c *Controller) LayoutChanged(extent domain.Extent) {
	c.post(func() { c.resize.LayoutChanged(extent) })
}

func (c *Controller) Sessions(ctx context.Context) ([]domain.Session, error) {
	var sessions []domain.Session
	if err := c.loop.Do(ctx, func() { sessions = c.registry.List() }); err != nil {
		return nil, err
	}
	return sessions, nil
}

func (c *Controller) Session(ctx context.Context, id domain.SessionID) (domain.Session, error) {
	var (
		session domain.Session
		err     error
	)
	if doErr := c.loop.Do(ctx, func() { session, err = c.registry.Get(id) }); doErr != nil {
		return domain.Session{}, doErr
	}
	return session, err
}

func (c *Controller) ActiveSession(ctx context.Context) (domain.Session, bool, error) {
	var (
		session domain.Session
		ok      bool
	)
	if err := c.loop.Do(ctx, func() { session, ok = c.registry.Active() }); err != nil {
		return domain.Session{}, false, err
	}
	return session, ok, nil
}

func (c *Controller) SwitchProvider(ctx context.Context, id domain.ProviderID) (SwitchResult, error) {
	return c.providers.SwitchProvider(c.withLogger(ctx), id)
}

func (c *Controller) SwitchAccount(ctx context.Context, providerID domain.ProviderID, accountID domain.AccountID) (SwitchResult, error) {
	return c.providers.SwitchAccount(c.withLogger(ctx), providerID, accountID)
}

func (c *Controller) RefreshAccounts(ctx context.Context) (RefreshResult, error) {
	return c.providers.RefreshAccounts(c.withLogger(ctx))
}

func (c *Controller) Context() ContextSnapshot {
	return c.providers.Snapshot()
}

func (c *Controller) Providers() []domain.Provider {
	return c.providers.Providers()
}

func (c *Controller) SubscribeLifecycle(fn func(domain.LifecycleEvent)) (unsubscribe func()) {
	return c.lifecycle.Subscribe(fn)
}

func (c *Controller) SubscribeNotices(fn func(domain.Notice)) (unsubscribe func()) {
	return c.notices.Subscribe(fn)
}

func (c *Controller) createSession(req CreateSessionRequest) (domain.Session, error) {
	session, err := c.registry.Create(req)
	if err != nil {
		return domain.Session{}, fmt.Errorf("create session: %w", err)
	}

	spawnCtx, cancel := context.WithCancel(logging.WithSession(c.runCtx, string(session.ID)))
	c.spawns[session.ID] = cancel

	go c.spawn(spawnCtx, session, c.providers.Snapshot(), c.resize.Current())

	if req.Activate {
		if err := c.registry.Activate(session.ID); err != nil {
			return domain.Session{}, err
		}
	}

	return c.registry.Get(session.ID)
}

// spawn runs off the loop and posts the outcome back to it.
func (c *Controller) spawn(ctx context.Context, session domain.Session, snapshot ContextSnapshot, geometry domain.Geometry) {
	err := c.backend.Spawn(ctx, ports.SpawnRequest{
		SessionID: session.ID,
		Cwd:       session.Cwd,
		Command:   c.opts.Command,
		Env:       c.spawnEnv(ctx, session, snapshot),
		Geometry:  geometry,
	})

	if !c.post(func() { c.onSpawned(session.ID, err) }) && err == nil {
		c.terminate(session.ID)
	}
}

func (c *Controller) onSpawned(id domain.SessionID, spawnErr error) {
	if cancel, ok := c.spawns[id]; ok {
		cancel()
		delete(c.spawns, id)
	}

	session, err := c.registry.Get(id)
	if err != nil || session.State != domain.StateLoading {
		c.logger.Debug().Str("session_id", string(id)).Msg("ignoring late spawn acknowledgment")
		if spawnErr == nil {
			go c.terminate(id)
		}
		return
	}

	if spawnErr != nil {
		c.logger.Warn().Err(spawnErr).Str("session_id", string(id)).Msg("session failed to start")
		c.registry.MarkSpawnFailed(id, spawnErr)
		return
	}

	c.registry.MarkReady(id)
}

func (c *Controller) onLifecycle(event domain.LifecycleEvent) {
	id := event.Session.ID

	switch event.Kind {
	case domain.EventReady:
		c.bindings.Open(id)
	case domain.EventActivated:
		c.resize.SessionActivated(id)
	case domain.EventDestroyed:
		if cancel, ok := c.spawns[id]; ok {
			cancel()
			delete(c.spawns, id)
		}
		if discarded := c.bindings.Release(id); discarded > 0 {
			c.logger.Debug().Str("session_id", string(id)).Int("bytes", discarded).Msg("discarded pending output")
		}
		c.resize.Forget(id)
		if event.Err != nil {
			c.logger.Info().Err(event.Err).Str("session_id", string(id)).Msg("session destroyed")
		}
	}

	c.lifecycle.Publish(event)
}

func (c *Controller) handleEvent(event domain.BackendEvent) {
	switch {
	case event.Frame != nil:
		if err := c.route(*event.Frame); err != nil {
			level := zerolog.WarnLevel
			if errors.Is(err, domain.ErrNotFound) {
				level = zerolog.DebugLevel
			}
			c.logger.WithLevel(level).Err(err).Msg("route frame")
		}
	case event.Exit != nil:
		c.registry.MarkExited(event.Exit.SessionID, event.Exit.Err)
	}
}

func (c *Controller) route(frame domain.DataFrame) error {
	session, err := c.registry.Get(frame.SessionID)
	if err != nil {
		return fmt.Errorf("route frame: %w", err)
	}
	if !session.State.Live() {
		return fmt.Errorf("route frame for %s: %w", frame.SessionID, domain.ErrNotFound)
	}

	// Output can beat the spawn acknowledgment onto the loop.
	c.bindings.Open(frame.SessionID)
	return c.bindings.Route(frame)
}

func (c *Controller) broadcast(notice domain.Notice) {
	if _, err := c.broadcaster.Broadcast(notice); err != nil {
		c.logger.Warn().Err(err).Msg("notice not delivered everywhere")
	}
	c.notices.Publish(notice)
}

func (c *Controller) pumpBus(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-c.bus.Events():
			if err := c.loop.Do(ctx, func() { c.handleEvent(event) }); err != nil {
				return err
			}
		}
	}
}

func (c *Controller) pumpChanges(ctx context.Context, changes <-chan struct{}) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, ok := <-changes:
			if !ok {
				changes = nil
				continue
			}
			if _, err := c.providers.Sync(ctx); err != nil {
				c.logger.Warn().Err(err).Msg("sync provider settings")
			}
		}
	}
}

func (c *Controller) poll(ctx context.Context) error {
	if c.opts.PollInterval < 0 {
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(c.opts.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := c.providers.RefreshAccounts(ctx); err != nil {
				c.logger.Warn().Err(err).Msg("poll account status")
			}
		}
	}
}

// shutdown runs after the loop has stopped, so loop-owned state is safe to read.
func (c *Controller) shutdown() {
	c.resize.Stop()
	for id, cancel := range c.spawns {
		cancel()
		delete(c.spawns, id)
	}
	for _, session := range c.registry.List() {
		c.terminate(session.ID)
	}
}

func (c *Controller) terminate(id domain.SessionID) {
	if err := c.backend.Terminate(id); err != nil {
		c.logger.Debug().Err(err).Str("session_id", string(id)).Msg("terminate session process")
	}
}

func (c *Controller) spawnEnv(ctx context.Context, session domain.Session, snapshot ContextSnapshot) []string {
	env := append([]string(nil), c.opts.BaseEnv...)
	env = append(env,
		"SMUX_SESSION_ID="+string(session.ID),
		"SMUX_PROJECT_ID="+string(session.ProjectID),
	)

	provider := snapshot.Provider
	if provider == nil {
		return env
	}

	env = append(env,
		"SMUX_PROVIDER_ID="+string(provider.ID),
		"SMUX_PROVIDER_ENDPOINT="+provider.Endpoint,
	)
	keys := make([]string, 0, len(provider.Env))
	for key := range provider.Env {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		env = append(env, key+"="+provider.Env[key])
	}

	account := snapshot.Account
	if account == nil {
		return env
	}
	env = append(env, "SMUX_ACCOUNT_ID="+string(account.ID))

	if provider.CredentialEnv == "" || account.SecretRef == "" || c.opts.Secrets == nil {
		return env
	}
	secret, err := c.opts.Secrets.Get(ctx, account.SecretRef)
	if err != nil {
		logging.FromContext(ctx).Warn().Err(err).Str("account_id", string(account.ID)).Msg("resolve account credential")
		return env
	}

	return append(env, provider.CredentialEnv+"="+secret)
}

func (c *Controller) post(fn func()) bool {
	return c.loop.Post(fn)
}

func (c *Controller) withLogger(ctx context.Context) context.Context {
	if zerolog.Ctx(ctx).GetLevel() == zerolog.Disabled {
		return logging.WithContext(ctx, c.logger)
	}
	return ctx
}
