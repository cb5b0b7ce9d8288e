package application

import (
	"context"

	"github.com/bnema/smux/internal/domain"
)

const defaultBusCapacity = 256

// Bus is the single inbound channel shared by every backend process. A
// publisher blocks rather than drop an event, so a producer that publishes a
// session's output sequentially keeps that session's frames in order.
type Bus struct {
	events chan domain.BackendEvent
}

func NewBus(capacity int) *Bus {
	if capacity <= 0 {
		capacity = defaultBusCapacity
	}
	return &Bus{events: make(chan domain.BackendEvent, capacity)}
}

// PublishFrame copies payload, so callers may reuse their read buffer.
func (b *Bus) PublishFrame(ctx context.Context, id domain.SessionID, payload []byte) error {
	frame := domain.DataFrame{SessionID: id, Payload: append([]byte(nil), payload...)}
	return b.publish(ctx, domain.BackendEvent{Frame: &frame})
}

func (b *Bus) PublishExit(ctx context.Context, id domain.SessionID, err error) error {
	return b.publish(ctx, domain.BackendEvent{Exit: &domain.ProcessExit{SessionID: id, Err: err}})
}

func (b *Bus) Events() <-chan domain.BackendEvent {
	return b.events
}

func (b *Bus) publish(ctx context.Context, event domain.BackendEvent) error {
	select {
	case b.events <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
