package ports

import (
	"io"

	"github.com/bnema/smux/internal/domain"
)

// View is a mounted terminal surface.
type View interface {
	io.Writer
	Metrics() domain.GlyphMetrics
}

type NoticeRenderer interface {
	Render(notice domain.Notice) []byte
}
