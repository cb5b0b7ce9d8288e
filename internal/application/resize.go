package application

import (
	"time"

	"github.com/bnema/smux/internal/domain"
	"github.com/bnema/smux/internal/mainloop"
	"github.com/bnema/smux/internal/ports"
	"github.com/rs/zerolog"
)

const (
	DefaultResizeDebounce = 50 * time.Millisecond
	resizeKey             = "resize-active"
)

var defaultGeometry = domain.Geometry{Cols: 80, Rows: 24}

type resizer interface {
	Resize(id domain.SessionID, geometry domain.Geometry) error
}

type viewLookup interface {
	View(id domain.SessionID) (ports.View, bool)
}

// ResizeCoordinator keeps the active session's backend sized to its view.
// Inactive sessions are never resized. Layout passes only arm a debounce;
// the backend is called from the debounced task on the main loop.
type ResizeCoordinator struct {
	logger    zerolog.Logger
	backend   resizer
	views     viewLookup
	active    func() (domain.SessionID, bool)
	debouncer *mainloop.Debouncer

	extent domain.Extent
	sent   map[domain.SessionID]domain.Geometry
	last   domain.Geometry
}

func NewResizeCoordinator(
	logger zerolog.Logger,
	backend resizer,
	views viewLookup,
	active func() (domain.SessionID, bool),
	clock ports.Clock,
	debounce time.Duration,
	post func(func()),
) *ResizeCoordinator {
	return &ResizeCoordinator{
		logger:    logger.With().Str("component", "resize").Logger(),
		backend:   backend,
		views:     views,
		active:    active,
		debouncer: mainloop.NewDebouncer(clock, debounce, post),
		sent:      map[domain.SessionID]domain.Geometry{},
	}
}

func (c *ResizeCoordinator) LayoutChanged(extent domain.Extent) {
	c.extent = extent
	c.schedule()
}

func (c *ResizeCoordinator) SessionActivated(domain.SessionID) {
	c.schedule()
}

// ViewAttached lets a session that became active before its view mounted
// pick up its geometry.
func (c *ResizeCoordinator) ViewAttached(id domain.SessionID) {
	if active, ok := c.active(); ok && active == id {
		c.schedule()
	}
}

func (c *ResizeCoordinator) Forget(id domain.SessionID) {
	delete(c.sent, id)
}

// Current is the last geometry pushed to any backend, used to size new
// processes before their view reports metrics.
func (c *ResizeCoordinator) Current() domain.Geometry {
	if c.last.Cols == 0 || c.last.Rows == 0 {
		return defaultGeometry
	}
	return c.last
}

func (c *ResizeCoordinator) Stop() {
	c.debouncer.Stop()
}

func (c *ResizeCoordinator) schedule() {
	c.debouncer.Trigger(resizeKey, c.apply)
}

func (c *ResizeCoordinator) apply() {
	id, ok := c.active()
	if !ok {
		return
	}

	view, ok := c.views.View(id)
	if !ok {
		c.logger.Debug().Str("session_id", string(id)).Msg("active session has no view yet")
		return
	}

	geometry, err := domain.Fit(c.extent, view.Metrics())
	if err != nil {
		c.logger.Debug().Err(err).Str("session_id", string(id)).Msg("skip resize until next layout pass")
		return
	}

	if sent, ok := c.sent[id]; ok && sent == geometry {
		return
	}

	if err := c.backend.Resize(id, geometry); err != nil {
		c.logger.Warn().Err(err).Str("session_id", string(id)).Stringer("geometry", geometry).Msg("resize backend")
		return
	}

	c.sent[id] = geometry
	c.last = geometry
}
