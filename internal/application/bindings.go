package application

import (
	"bytes"
	"fmt"
	"io"
	"sort"

	"github.com/bnema/smux/internal/domain"
	"github.com/bnema/smux/internal/ports"
	"github.com/rs/zerolog"
)

// BindingTable maps sessions to their mounted views. Output for a session
// without a live view is kept in arrival order until a view attaches. It is
// owned by the main loop and is not safe for concurrent use.
type BindingTable struct {
	logger   zerolog.Logger
	bindings map[domain.SessionID]*binding
}

type binding struct {
	view    ports.View
	pending [][]byte
	size    int
}

type LiveBinding struct {
	SessionID domain.SessionID
	View      ports.View
}

func NewBindingTable(logger zerolog.Logger) *BindingTable {
	return &BindingTable{
		logger:   logger.With().Str("component", "bindings").Logger(),
		bindings: map[domain.SessionID]*binding{},
	}
}

// Open creates an empty binding. It reports false when one already exists.
func (t *BindingTable) Open(id domain.SessionID) bool {
	if _, ok := t.bindings[id]; ok {
		return false
	}
	t.bindings[id] = &binding{}
	return true
}

func (t *BindingTable) Has(id domain.SessionID) bool {
	_, ok := t.bindings[id]
	return ok
}

// AttachView binds view and flushes everything buffered so far in a single
// write. When that write fails the view stays unbound and nothing is lost.
func (t *BindingTable) AttachView(id domain.SessionID, view ports.View) error {
	if view == nil {
		return fmt.Errorf("attach view to %s: view is nil", id)
	}

	b, ok := t.bindings[id]
	if !ok {
		return fmt.Errorf("attach view to %s: %w", id, domain.ErrNotFound)
	}
	if b.view != nil {
		return fmt.Errorf("attach view to %s: %w", id, domain.ErrAlreadyBound)
	}

	if b.size > 0 {
		flushed := b.size
		data := make([]byte, 0, b.size)
		for _, chunk := range b.pending {
			data = append(data, chunk...)
		}

		n, err := writeFull(view, data)
		if err != nil {
			b.pending = [][]byte{data[n:]}
			b.size = len(data) - n
			return fmt.Errorf("flush pending output to %s: %w", id, err)
		}
		b.pending = nil
		b.size = 0

		t.logger.Debug().Str("session_id", string(id)).Int("bytes", flushed).Msg("flushed pending output")
	}

	b.view = view
	return nil
}

// DetachView unbinds the view. Later frames buffer until the next attach.
func (t *BindingTable) DetachView(id domain.SessionID) error {
	b, ok := t.bindings[id]
	if !ok {
		return fmt.Errorf("detach view from %s: %w", id, domain.ErrNotFound)
	}
	b.view = nil
	return nil
}

// Route delivers a frame to the bound view or buffers it. A failing view is
// detached and the unwritten part of the frame is buffered. Buffered bytes are
// copied, so callers may reuse the payload once Route returns.
func (t *BindingTable) Route(frame domain.DataFrame) error {
	b, ok := t.bindings[frame.SessionID]
	if !ok {
		return fmt.Errorf("route frame for %s: %w", frame.SessionID, domain.ErrNotFound)
	}
	if len(frame.Payload) == 0 {
		return nil
	}

	if b.view == nil {
		b.buffer(frame.Payload)
		return nil
	}

	n, err := writeFull(b.view, frame.Payload)
	if err != nil {
		b.view = nil
		b.buffer(frame.Payload[n:])
		return fmt.Errorf("write frame to %s: %w", frame.SessionID, err)
	}

	return nil
}

func (b *binding) buffer(chunk []byte) {
	b.pending = append(b.pending, bytes.Clone(chunk))
	b.size += len(chunk)
}

// Release drops the binding and returns how many buffered bytes were discarded.
func (t *BindingTable) Release(id domain.SessionID) int {
	b, ok := t.bindings[id]
	if !ok {
		return 0
	}
	delete(t.bindings, id)
	return b.size
}

func (t *BindingTable) View(id domain.SessionID) (ports.View, bool) {
	b, ok := t.bindings[id]
	if !ok || b.view == nil {
		return nil, false
	}
	return b.view, true
}

func (t *BindingTable) Pending(id domain.SessionID) int {
	b, ok := t.bindings[id]
	if !ok {
		return 0
	}
	return b.size
}

// Live lists bindings with a mounted view, ordered by session id.
func (t *BindingTable) Live() []LiveBinding {
	live := make([]LiveBinding, 0, len(t.bindings))
	for id, b := range t.bindings {
		if b.view == nil {
			continue
		}
		live = append(live, LiveBinding{SessionID: id, View: b.view})
	}
	sort.Slice(live, func(i, j int) bool { return live[i].SessionID < live[j].SessionID })
	return live
}

func writeFull(w io.Writer, data []byte) (int, error) {
	n, err := w.Write(data)
	if err != nil {
		return n, err
	}
	if n < len(data) {
		return n, io.ErrShortWrite
	}
	return n, nil
}
