package application

import (
	"fmt"
	"strings"

	"github.com/bnema/smux/internal/domain"
	"github.com/bnema/smux/internal/ports"
	"github.com/google/uuid"
)

const sessionIDPrefix = "sess_"

// Registry is the authoritative session table. It is owned by the main loop
// and is not safe for concurrent use.
//
// Destroyed sessions stay in the table as tombstones so late backend
// acknowledgments can be recognised and ignored.
type Registry struct {
	clock ports.Clock
	emit  func(domain.LifecycleEvent)
	newID func() domain.SessionID

	sessions map[domain.SessionID]*domain.Session
	order    []domain.SessionID
	perProj  map[domain.ProjectID]int
	activeID domain.SessionID
	useSeq   uint64
}

func NewRegistry(clock ports.Clock, emit func(domain.LifecycleEvent)) *Registry {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if emit == nil {
		emit = func(domain.LifecycleEvent) {}
	}

	return &Registry{
		clock:    clock,
		emit:     emit,
		newID:    newSessionID,
		sessions: map[domain.SessionID]*domain.Session{},
		perProj:  map[domain.ProjectID]int{},
	}
}

func newSessionID() domain.SessionID {
	return domain.SessionID(sessionIDPrefix + uuid.NewString())
}

type CreateSessionRequest struct {
	ProjectID domain.ProjectID
	Name      string
	Cwd       string
	Temporary bool
	// Activate selects the session as soon as it is created.
	Activate bool
}

func (r *Registry) Create(req CreateSessionRequest) (domain.Session, error) {
	projectID := domain.ProjectID(strings.TrimSpace(string(req.ProjectID)))
	r.perProj[projectID]++

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = fmt.Sprintf("%s #%d", projectID, r.perProj[projectID])
	}

	session := &domain.Session{
		ID:          r.newID(),
		ProjectID:   projectID,
		Name:        name,
		Cwd:         req.Cwd,
		CreatedAt:   r.clock.Now().UTC(),
		State:       domain.StateLoading,
		IsTemporary: req.Temporary,
	}
	if err := session.Validate(); err != nil {
		r.perProj[projectID]--
		return domain.Session{}, err
	}

	r.sessions[session.ID] = session
	r.order = append(r.order, session.ID)
	r.emit(domain.LifecycleEvent{Kind: domain.EventCreated, Session: *session})

	return *session, nil
}

// MarkReady moves a loading session to Ready, or straight to Active when it
// was selected while loading. It reports false for any other state, which
// makes late spawn acknowledgments no-ops.
func (r *Registry) MarkReady(id domain.SessionID) (domain.Session, bool) {
	session, ok := r.sessions[id]
	if !ok || session.State != domain.StateLoading {
		return domain.Session{}, false
	}

	session.State = domain.StateReady
	r.emit(domain.LifecycleEvent{Kind: domain.EventReady, Session: *session})

	if r.activeID == id {
		session.State = domain.StateActive
		r.emit(domain.LifecycleEvent{Kind: domain.EventActivated, Session: *session})
	}

	return *session, true
}

// MarkSpawnFailed destroys a loading session whose process never started.
func (r *Registry) MarkSpawnFailed(id domain.SessionID, cause error) (domain.Session, bool) {
	session, ok := r.sessions[id]
	if !ok || session.State != domain.StateLoading {
		return domain.Session{}, false
	}

	failure := domain.ErrSpawnFailed
	if cause != nil {
		failure = fmt.Errorf("%w: %w", domain.ErrSpawnFailed, cause)
	}

	return r.destroy(session, failure), true
}

// MarkExited destroys a live session whose process died.
func (r *Registry) MarkExited(id domain.SessionID, cause error) (domain.Session, bool) {
	session, ok := r.sessions[id]
	if !ok || !session.State.Live() {
		return domain.Session{}, false
	}

	failure := domain.ErrProcessExited
	if cause != nil {
		failure = fmt.Errorf("%w: %w", domain.ErrProcessExited, cause)
	}

	return r.destroy(session, failure), true
}

func (r *Registry) Activate(id domain.SessionID) error {
	target, ok := r.sessions[id]
	if !ok || !target.State.Live() {
		return fmt.Errorf("activate %s: %w", id, domain.ErrNotFound)
	}
	if r.activeID == id {
		return nil
	}

	r.deactivateCurrent()

	r.useSeq++
	target.LastUsed = r.useSeq
	r.activeID = id

	if target.State == domain.StateLoading {
		return nil
	}

	target.State = domain.StateActive
	r.emit(domain.LifecycleEvent{Kind: domain.EventActivated, Session: *target})

	return nil
}

func (r *Registry) Delete(id domain.SessionID) (domain.Session, error) {
	session, ok := r.sessions[id]
	if !ok || !session.State.Live() {
		return domain.Session{}, fmt.Errorf("delete %s: %w", id, domain.ErrNotFound)
	}

	return r.destroy(session, nil), nil
}

func (r *Registry) Get(id domain.SessionID) (domain.Session, error) {
	session, ok := r.sessions[id]
	if !ok {
		return domain.Session{}, fmt.Errorf("get %s: %w", id, domain.ErrNotFound)
	}
	return *session, nil
}

// List returns live sessions in creation order.
func (r *Registry) List() []domain.Session {
	sessions := make([]domain.Session, 0, len(r.order))
	for _, id := range r.order {
		session := r.sessions[id]
		if !session.State.Live() {
			continue
		}
		sessions = append(sessions, *session)
	}
	return sessions
}

// Active returns the selected session, which may still be loading.
func (r *Registry) Active() (domain.Session, bool) {
	if r.activeID == "" {
		return domain.Session{}, false
	}
	return *r.sessions[r.activeID], true
}

// ActiveID returns the selected session id only once it is Active.
func (r *Registry) ActiveID() (domain.SessionID, bool) {
	if r.activeID == "" {
		return "", false
	}
	if r.sessions[r.activeID].State != domain.StateActive {
		return "", false
	}
	return r.activeID, true
}

func (r *Registry) destroy(session *domain.Session, failure error) domain.Session {
	wasActive := r.activeID == session.ID

	session.State = domain.StateDestroyed
	session.Failure = failure
	if wasActive {
		r.activeID = ""
	}
	r.emit(domain.LifecycleEvent{Kind: domain.EventDestroyed, Session: *session, Err: failure})

	if wasActive {
		if next, ok := r.mostRecentlyUsed(); ok {
			// Cannot fail: mostRecentlyUsed only returns live sessions.
			_ = r.Activate(next)
		}
	}

	return *session
}

func (r *Registry) deactivateCurrent() {
	if r.activeID == "" {
		return
	}
	current := r.sessions[r.activeID]
	r.activeID = ""
	if current.State != domain.StateActive {
		return
	}
	current.State = domain.StateInactive
	r.emit(domain.LifecycleEvent{Kind: domain.EventDeactivated, Session: *current})
}

func (r *Registry) mostRecentlyUsed() (domain.SessionID, bool) {
	var (
		best    domain.SessionID
		bestUse uint64
		found   bool
	)
	for _, id := range r.order {
		session := r.sessions[id]
		if !session.State.Selectable() {
			continue
		}
		if !found || session.LastUsed > bestUse {
			best, bestUse, found = id, session.LastUsed, true
		}
	}
	return best, found
}
