package domain

import (
	"fmt"
	"strings"
	"time"
)

type SessionID string
type ProjectID string

type LifecycleState string

const (
	StateLoading   LifecycleState = "loading"
	StateReady     LifecycleState = "ready"
	StateActive    LifecycleState = "active"
	StateInactive  LifecycleState = "inactive"
	StateDestroyed LifecycleState = "destroyed"
)

// Live reports whether a session in this state still owns a backend process.
func (s LifecycleState) Live() bool {
	switch s {
	case StateLoading, StateReady, StateActive, StateInactive:
		return true
	default:
		return false
	}
}

// Selectable reports whether a session in this state may become active
// through most-recent-use fallback.
func (s LifecycleState) Selectable() bool {
	return s == StateReady || s == StateInactive
}

type Session struct {
	ID          SessionID
	ProjectID   ProjectID
	Name        string
	Cwd         string
	CreatedAt   time.Time
	State       LifecycleState
	IsTemporary bool
	LastUsed    uint64
	Failure     error
}

func (s Session) Validate() error {
	if strings.TrimSpace(string(s.ID)) == "" {
		return fmt.Errorf("id is required")
	}
	if strings.TrimSpace(string(s.ProjectID)) == "" {
		return fmt.Errorf("project id is required")
	}

	return nil
}

type LifecycleEventKind string

const (
	EventCreated     LifecycleEventKind = "created"
	EventReady       LifecycleEventKind = "ready"
	EventActivated   LifecycleEventKind = "activated"
	EventDeactivated LifecycleEventKind = "deactivated"
	EventDestroyed   LifecycleEventKind = "destroyed"
)

type LifecycleEvent struct {
	Kind    LifecycleEventKind
	Session Session
	// Err is set on destroyed events caused by ErrSpawnFailed or ErrProcessExited.
	Err error
}
