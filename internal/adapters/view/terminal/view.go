package terminal

import (
	"fmt"
	"io"
	"sync"

	"github.com/bnema/smux/internal/domain"
	"github.com/bnema/smux/internal/ports"
	"golang.org/x/term"
)

// cellMetrics makes a view's extent and geometry the same thing: the host
// terminal already measures itself in cells.
var cellMetrics = domain.GlyphMetrics{CellWidth: 1, CellHeight: 1}

// View mounts a session on the host terminal.
type View struct {
	mu  sync.Mutex
	out io.Writer
}

var _ ports.View = (*View)(nil)

func New(out io.Writer) *View {
	return &View{out: out}
}

func (v *View) Write(p []byte) (int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.out.Write(p)
}

func (v *View) Metrics() domain.GlyphMetrics {
	return cellMetrics
}

// Extent reports the size of the terminal on fd in cells.
func Extent(fd int) (domain.Extent, error) {
	width, height, err := term.GetSize(fd)
	if err != nil {
		return domain.Extent{}, fmt.Errorf("get terminal size: %w", err)
	}
	return domain.Extent{Width: float64(width), Height: float64(height)}, nil
}
