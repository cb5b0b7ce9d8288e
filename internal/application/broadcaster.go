package application

import (
	"errors"
	"fmt"

	"github.com/bnema/smux/internal/domain"
	"github.com/bnema/smux/internal/ports"
	"github.com/rs/zerolog"
)

// Broadcaster writes a rendered notice into every live view. It runs on the
// main loop. Sessions without a mounted view are skipped, not backfilled.
type Broadcaster struct {
	logger   zerolog.Logger
	renderer ports.NoticeRenderer
	live     func() []LiveBinding
}

func NewBroadcaster(logger zerolog.Logger, renderer ports.NoticeRenderer, live func() []LiveBinding) *Broadcaster {
	return &Broadcaster{
		logger:   logger.With().Str("component", "broadcaster").Logger(),
		renderer: renderer,
		live:     live,
	}
}

// Broadcast returns how many views received the notice. A failing or
// panicking view does not stop delivery to the rest; failures are joined into
// the error.
func (b *Broadcaster) Broadcast(notice domain.Notice) (int, error) {
	message := b.renderer.Render(notice)

	var (
		delivered int
		errs      []error
	)
	for _, target := range b.live() {
		if err := deliver(target.View, message); err != nil {
			b.logger.Warn().Err(err).Str("session_id", string(target.SessionID)).Msg("deliver notice")
			errs = append(errs, fmt.Errorf("deliver notice to %s: %w", target.SessionID, err))
			continue
		}
		delivered++
	}

	b.logger.Debug().
		Str("provider_id", string(notice.ProviderID)).
		Int("delivered", delivered).
		Int("failed", len(errs)).
		Msg("notice broadcast")

	return delivered, errors.Join(errs...)
}

func deliver(view ports.View, message []byte) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("view panicked: %v", r)
		}
	}()

	n, err := view.Write(message)
	if err == nil && n < len(message) {
		err = fmt.Errorf("short write (%d of %d bytes)", n, len(message))
	}
	return err
}
