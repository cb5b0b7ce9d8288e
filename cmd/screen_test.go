package cmd

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/bnema/smux/internal/application"
	"github.com/bnema/smux/internal/domain"
	"github.com/bnema/smux/internal/ports"
	"github.com/bnema/smux/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeController struct {
	mu        sync.Mutex
	sessions  []domain.Session
	attached  map[domain.SessionID]bool
	inputs    map[domain.SessionID]*bytes.Buffer
	activated []domain.SessionID
	active    domain.SessionID
	deleted   []domain.SessionID
	switched  []domain.ProviderID
	providers []domain.Provider
	current   domain.ProviderID
	created   []application.CreateSessionRequest
}

func newFakeController(ids ...domain.SessionID) *fakeController {
	c := &fakeController{
		attached: map[domain.SessionID]bool{},
		inputs:   map[domain.SessionID]*bytes.Buffer{},
	}
	for _, id := range ids {
		c.sessions = append(c.sessions, domain.Session{ID: id, Name: string(id), State: domain.StateReady})
	}
	return c
}

func (c *fakeController) CreateSession(_ context.Context, req application.CreateSessionRequest) (domain.Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.created = append(c.created, req)
	session := domain.Session{ID: domain.SessionID(fmt.Sprintf("new-%d", len(c.created))), State: domain.StateLoading}
	c.sessions = append(c.sessions, session)
	return session, nil
}

func (c *fakeController) ActivateSession(_ context.Context, id domain.SessionID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.activated = append(c.activated, id)
	c.active = id
	return nil
}

func (c *fakeController) DeleteSession(_ context.Context, id domain.SessionID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deleted = append(c.deleted, id)
	for i, session := range c.sessions {
		if session.ID == id {
			c.sessions = append(c.sessions[:i], c.sessions[i+1:]...)
			break
		}
	}
	return nil
}

func (c *fakeController) SendInput(_ context.Context, id domain.SessionID, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	buf, ok := c.inputs[id]
	if !ok {
		buf = &bytes.Buffer{}
		c.inputs[id] = buf
	}
	buf.Write(data)
	return nil
}

func (c *fakeController) AttachView(_ context.Context, id domain.SessionID, _ ports.View) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.attached[id] {
		return domain.ErrAlreadyBound
	}
	c.attached[id] = true
	return nil
}

func (c *fakeController) DetachView(_ context.Context, id domain.SessionID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.attached[id] {
		return domain.ErrNotFound
	}
	delete(c.attached, id)
	return nil
}

func (c *fakeController) Sessions(context.Context) ([]domain.Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.Session(nil), c.sessions...), nil
}

func (c *fakeController) ActiveSession(context.Context) (domain.Session, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, session := range c.sessions {
		if session.ID == c.active {
			return session, true, nil
		}
	}
	return domain.Session{}, false, nil
}

func (c *fakeController) SwitchProvider(_ context.Context, id domain.ProviderID) (application.SwitchResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.switched = append(c.switched, id)
	c.current = id
	return application.SwitchResult{}, nil
}

func (c *fakeController) Providers() []domain.Provider {
	return c.providers
}

func (c *fakeController) Context() application.ContextSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return application.ContextSnapshot{Context: domain.ProviderAccountContext{Selection: domain.Selection{ProviderID: c.current}}}
}

func activated(id domain.SessionID) domain.LifecycleEvent {
	return domain.LifecycleEvent{Kind: domain.EventActivated, Session: domain.Session{ID: id, Name: string(id)}}
}

func TestScreenFollowsActiveSession(t *testing.T) {
	t.Parallel()

	ctrl := newFakeController("s1", "s2")
	view := testutil.NewRecordingView(domain.GlyphMetrics{CellWidth: 1, CellHeight: 1})
	scr := newScreen(ctrl, view, application.CreateSessionRequest{ProjectID: "p"}, func() {})
	ctx := context.Background()

	require.NoError(t, scr.apply(ctx, activated("s1")))
	assert.Equal(t, domain.SessionID("s1"), scr.attachedID())

	require.NoError(t, scr.apply(ctx, activated("s2")))
	assert.Equal(t, domain.SessionID("s2"), scr.attachedID())
	assert.False(t, ctrl.attached["s1"])
	assert.True(t, ctrl.attached["s2"])

	require.NoError(t, scr.handleInput(ctx, []byte("echo hi\r")))
	assert.Equal(t, "echo hi\r", ctrl.inputs["s2"].String())
	assert.NotContains(t, ctrl.inputs, domain.SessionID("s1"))
}

func TestScreenDestroyedAttachedSessionQuitsWhenNoneLeft(t *testing.T) {
	t.Parallel()

	ctrl := newFakeController("s1")
	view := testutil.NewRecordingView(domain.GlyphMetrics{CellWidth: 1, CellHeight: 1})
	quit := 0
	scr := newScreen(ctrl, view, application.CreateSessionRequest{}, func() { quit++ })
	ctx := context.Background()

	require.NoError(t, scr.apply(ctx, activated("s1")))
	require.NoError(t, ctrl.DeleteSession(ctx, "s1"))

	require.NoError(t, scr.apply(ctx, domain.LifecycleEvent{
		Kind:    domain.EventDestroyed,
		Session: domain.Session{ID: "s1", Name: "shell"},
		Err:     fmt.Errorf("%w: exit status 1", domain.ErrProcessExited),
	}))

	assert.Equal(t, 1, quit)
	assert.Empty(t, scr.attachedID())
	assert.Contains(t, view.String(), "[smux] shell ended: process exited: exit status 1")
}

func TestScreenCommands(t *testing.T) {
	t.Parallel()

	ctrl := newFakeController("s1", "s2", "s3")
	ctrl.providers = []domain.Provider{{ID: "anthropic"}, {ID: "relay"}}
	ctrl.current = "relay"
	view := testutil.NewRecordingView(domain.GlyphMetrics{CellWidth: 1, CellHeight: 1})
	quit := 0
	scr := newScreen(ctrl, view, application.CreateSessionRequest{ProjectID: "p", Cwd: "/work"}, func() { quit++ })
	ctx := context.Background()
	require.NoError(t, scr.apply(ctx, activated("s3")))

	require.NoError(t, scr.handleInput(ctx, []byte{prefixKey, 'n'}))
	require.NoError(t, scr.handleInput(ctx, []byte{prefixKey, 'p'}))
	require.NoError(t, scr.handleInput(ctx, []byte{prefixKey, '2'}))
	require.NoError(t, scr.handleInput(ctx, []byte{prefixKey, '9'}))
	assert.Equal(t, []domain.SessionID{"s1", "s2", "s2"}, ctrl.activated)

	require.NoError(t, scr.handleInput(ctx, []byte{prefixKey, 'a'}))
	assert.Equal(t, []domain.ProviderID{"anthropic"}, ctrl.switched)

	require.NoError(t, scr.handleInput(ctx, []byte{prefixKey, 'c'}))
	require.Len(t, ctrl.created, 1)
	assert.True(t, ctrl.created[0].Activate)
	assert.Equal(t, "/work", ctrl.created[0].Cwd)

	require.NoError(t, scr.handleInput(ctx, []byte{prefixKey, 'x'}))
	assert.Equal(t, []domain.SessionID{"s3"}, ctrl.deleted)

	require.NoError(t, scr.handleInput(ctx, []byte{prefixKey, 'q'}))
	assert.Equal(t, 1, quit)
}

func TestScreenObserveIgnoresOtherEvents(t *testing.T) {
	t.Parallel()

	scr := newScreen(newFakeController(), testutil.NewRecordingView(domain.GlyphMetrics{}), application.CreateSessionRequest{}, func() {})

	scr.observe(domain.LifecycleEvent{Kind: domain.EventReady})
	scr.observe(domain.LifecycleEvent{Kind: domain.EventCreated})
	scr.observe(activated("s1"))

	require.Len(t, scr.events, 1)
	assert.Equal(t, domain.EventActivated, (<-scr.events).Kind)
}

func TestScreenFollowStopsWithContext(t *testing.T) {
	t.Parallel()

	scr := newScreen(newFakeController(), testutil.NewRecordingView(domain.GlyphMetrics{}), application.CreateSessionRequest{}, func() {})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.NoError(t, scr.follow(ctx))
}

func TestScreenResyncsAfterDroppedEvents(t *testing.T) {
	t.Parallel()

	ctrl := newFakeController("s1", "s2")
	scr := newScreen(ctrl, testutil.NewRecordingView(domain.GlyphMetrics{CellWidth: 1, CellHeight: 1}), application.CreateSessionRequest{}, func() {})

	for i := 0; i < screenEventBuffer; i++ {
		scr.observe(activated("s1"))
	}
	require.NoError(t, ctrl.ActivateSession(context.Background(), "s2"))
	scr.observe(activated("s2"))
	scr.observe(activated("s2"))
	require.Len(t, scr.resync, 1)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- scr.follow(ctx) }()

	assert.Eventually(t, func() bool {
		return scr.attachedID() == "s2" && len(scr.events) == 0 && len(scr.resync) == 0
	}, time.Second, 5*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
	ctrl.mu.Lock()
	defer ctrl.mu.Unlock()
	assert.True(t, ctrl.attached["s2"])
	assert.False(t, ctrl.attached["s1"])
}

func TestScreenResyncQuitsWhenNoSessionsRemain(t *testing.T) {
	t.Parallel()

	ctrl := newFakeController()
	quit := 0
	scr := newScreen(ctrl, testutil.NewRecordingView(domain.GlyphMetrics{}), application.CreateSessionRequest{}, func() { quit++ })

	require.NoError(t, scr.resyncActive(context.Background()))
	assert.Equal(t, 1, quit)
	assert.Empty(t, scr.attachedID())
}
