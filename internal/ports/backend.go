package ports

import (
	"context"

	"github.com/bnema/smux/internal/domain"
)

type SpawnRequest struct {
	SessionID domain.SessionID
	Cwd       string
	Command   []string
	Env       []string
	Geometry  domain.Geometry
}

// Backend owns the external processes behind sessions. Output and exits are
// published on the event bus handed to the backend at construction.
type Backend interface {
	// Spawn blocks until the process is confirmed started or has failed.
	Spawn(ctx context.Context, req SpawnRequest) error
	SendInput(id domain.SessionID, data []byte) error
	Resize(id domain.SessionID, geometry domain.Geometry) error
	Terminate(id domain.SessionID) error
}
