package testutil

import (
	"bytes"
	"errors"
	"sync"

	"github.com/bnema/smux/internal/domain"
	"github.com/bnema/smux/internal/ports"
)

var ErrViewClosed = errors.New("view closed")

// RecordingView keeps every write it accepts.
type RecordingView struct {
	mu      sync.Mutex
	buf     bytes.Buffer
	writes  int
	metrics domain.GlyphMetrics
	fail    bool
}

var _ ports.View = (*RecordingView)(nil)

func NewRecordingView(metrics domain.GlyphMetrics) *RecordingView {
	return &RecordingView{metrics: metrics}
}

func (v *RecordingView) Write(p []byte) (int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.fail {
		return 0, ErrViewClosed
	}
	v.writes++
	return v.buf.Write(p)
}

func (v *RecordingView) Metrics() domain.GlyphMetrics {
	return v.metrics
}

func (v *RecordingView) String() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.buf.String()
}

func (v *RecordingView) Writes() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.writes
}

// FailWrites makes every later Write return ErrViewClosed.
func (v *RecordingView) FailWrites(fail bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.fail = fail
}

// Inline runs posted tasks immediately, standing in for the main loop.
func Inline(fn func()) {
	fn()
}
