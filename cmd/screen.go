package cmd

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/bnema/smux/internal/application"
	"github.com/bnema/smux/internal/domain"
	"github.com/bnema/smux/internal/logging"
	"github.com/bnema/smux/internal/ports"
)

const (
	screenEventBuffer = 256
	clearScreen       = "\x1b[H\x1b[2J"
)

// sessionController is the part of application.Controller the screen drives.
type sessionController interface {
	CreateSession(ctx context.Context, req application.CreateSessionRequest) (domain.Session, error)
	ActivateSession(ctx context.Context, id domain.SessionID) error
	DeleteSession(ctx context.Context, id domain.SessionID) error
	SendInput(ctx context.Context, id domain.SessionID, data []byte) error
	AttachView(ctx context.Context, id domain.SessionID, view ports.View) error
	DetachView(ctx context.Context, id domain.SessionID) error
	Sessions(ctx context.Context) ([]domain.Session, error)
	ActiveSession(ctx context.Context) (domain.Session, bool, error)
	SwitchProvider(ctx context.Context, id domain.ProviderID) (application.SwitchResult, error)
	Providers() []domain.Provider
	Context() application.ContextSnapshot
}

// screen keeps the host terminal attached to whichever session is active and
// turns prefix commands into controller calls.
type screen struct {
	ctrl     sessionController
	view     ports.View
	template application.CreateSessionRequest
	quit     func()
	events   chan domain.LifecycleEvent
	resync   chan struct{}
	keys     keyReader

	mu       sync.Mutex
	attached domain.SessionID
}

func newScreen(ctrl sessionController, view ports.View, template application.CreateSessionRequest, quit func()) *screen {
	template.Activate = true
	return &screen{
		ctrl:     ctrl,
		view:     view,
		template: template,
		quit:     quit,
		events:   make(chan domain.LifecycleEvent, screenEventBuffer),
		resync:   make(chan struct{}, 1),
	}
}

// observe runs on the controller loop, so it only hands the event over. When
// the buffer is full the event is dropped and follow re-reads the active
// session instead.
func (s *screen) observe(event domain.LifecycleEvent) {
	switch event.Kind {
	case domain.EventActivated, domain.EventDestroyed:
	default:
		return
	}
	select {
	case s.events <- event:
	default:
		select {
		case s.resync <- struct{}{}:
		default:
		}
	}
}

func (s *screen) attachedID() domain.SessionID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attached
}

// follow reacts to lifecycle events until ctx ends.
func (s *screen) follow(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case event := <-s.events:
			if err := s.apply(ctx, event); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				logging.FromContext(ctx).Warn().Err(err).Str("session_id", string(event.Session.ID)).Msg("follow active session")
			}
		case <-s.resync:
			logging.FromContext(ctx).Debug().Msg("lifecycle events dropped, resyncing active session")
			if err := s.resyncActive(ctx); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				logging.FromContext(ctx).Warn().Err(err).Msg("resync active session")
			}
		}
	}
}

// resyncActive discards queued events and attaches to whatever session the
// controller reports as active now.
func (s *screen) resyncActive(ctx context.Context) error {
	for drained := false; !drained; {
		select {
		case <-s.events:
		default:
			drained = true
		}
	}

	session, ok, err := s.ctrl.ActiveSession(ctx)
	if err != nil {
		return fmt.Errorf("read active session: %w", err)
	}
	if ok {
		return s.attach(ctx, session.ID)
	}

	s.mu.Lock()
	s.attached = ""
	s.mu.Unlock()

	sessions, err := s.ctrl.Sessions(ctx)
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		s.quit()
	}
	return nil
}

func (s *screen) apply(ctx context.Context, event domain.LifecycleEvent) error {
	switch event.Kind {
	case domain.EventActivated:
		return s.attach(ctx, event.Session.ID)
	case domain.EventDestroyed:
		return s.destroyed(ctx, event)
	}
	return nil
}

func (s *screen) attach(ctx context.Context, id domain.SessionID) error {
	previous := s.attachedID()
	if previous == id {
		return nil
	}
	if previous != "" {
		if err := s.ctrl.DetachView(ctx, previous); err != nil && !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("detach view from %s: %w", previous, err)
		}
	}

	s.mu.Lock()
	s.attached = ""
	s.mu.Unlock()

	_, _ = s.view.Write([]byte(clearScreen))
	if err := s.ctrl.AttachView(ctx, id, s.view); err != nil {
		return fmt.Errorf("attach view to %s: %w", id, err)
	}

	s.mu.Lock()
	s.attached = id
	s.mu.Unlock()
	return nil
}

func (s *screen) destroyed(ctx context.Context, event domain.LifecycleEvent) error {
	if event.Session.ID != s.attachedID() {
		return nil
	}

	s.mu.Lock()
	s.attached = ""
	s.mu.Unlock()

	if event.Err != nil {
		_, _ = fmt.Fprintf(s.view, "\r\n[smux] %s ended: %v\r\n", event.Session.Name, event.Err)
	}

	sessions, err := s.ctrl.Sessions(ctx)
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		s.quit()
	}
	return nil
}

func (s *screen) newSession(ctx context.Context) (domain.Session, error) {
	return s.ctrl.CreateSession(ctx, s.template)
}

// handleInput forwards session bytes and runs prefix commands in order.
func (s *screen) handleInput(ctx context.Context, p []byte) error {
	var errs []error
	for _, step := range s.keys.feed(p) {
		if step.action == actionNone {
			if id := s.attachedID(); id != "" {
				if err := s.ctrl.SendInput(ctx, id, step.data); err != nil {
					errs = append(errs, err)
				}
			}
			continue
		}
		if err := s.run(ctx, step); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *screen) run(ctx context.Context, step inputStep) error {
	switch step.action {
	case actionNewSession:
		_, err := s.newSession(ctx)
		return err
	case actionNextSession:
		return s.cycle(ctx, 1)
	case actionPrevSession:
		return s.cycle(ctx, -1)
	case actionSelectSession:
		return s.selectIndex(ctx, step.index)
	case actionCloseSession:
		if id := s.attachedID(); id != "" {
			return s.ctrl.DeleteSession(ctx, id)
		}
		return nil
	case actionNextProvider:
		return s.nextProvider(ctx)
	case actionQuit:
		s.quit()
		return nil
	}
	return nil
}

func (s *screen) cycle(ctx context.Context, delta int) error {
	sessions, err := s.ctrl.Sessions(ctx)
	if err != nil || len(sessions) == 0 {
		return err
	}

	current := indexOfSession(sessions, s.attachedID())
	next := (current + delta + len(sessions)) % len(sessions)
	if current < 0 {
		next = 0
	}
	return s.ctrl.ActivateSession(ctx, sessions[next].ID)
}

func (s *screen) selectIndex(ctx context.Context, index int) error {
	sessions, err := s.ctrl.Sessions(ctx)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(sessions) {
		return nil
	}
	return s.ctrl.ActivateSession(ctx, sessions[index].ID)
}

// nextProvider switches to the provider listed after the active one. The
// controller broadcasts the change into every open session.
func (s *screen) nextProvider(ctx context.Context) error {
	providers := s.ctrl.Providers()
	if len(providers) == 0 {
		return nil
	}

	current := s.ctrl.Context().Context.ProviderID
	next := 0
	for i, provider := range providers {
		if provider.ID == current {
			next = (i + 1) % len(providers)
			break
		}
	}

	_, err := s.ctrl.SwitchProvider(ctx, providers[next].ID)
	return err
}

func indexOfSession(sessions []domain.Session, id domain.SessionID) int {
	for i, session := range sessions {
		if session.ID == id {
			return i
		}
	}
	return -1
}
