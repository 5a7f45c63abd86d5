package realtime

import (
	"context"

	"partyline/domain/event"
	"partyline/errors"
)

// Sink is a buffered inbox for one connection. Consume never blocks the
// publisher: when the buffer is full the event is dropped and the connection
// simply misses it, matching the best-effort delivery contract.
type Sink struct {
	Events chan event.DomainEvent
}

func NewSink(bufferSize int) *Sink {
	return &Sink{Events: make(chan event.DomainEvent, bufferSize)}
}

// Consume is called by the registry during Publish. The transport side of the
// connection drains Events and pushes frames to the peer.
func (s *Sink) Consume(ctx context.Context, e event.DomainEvent) error {
	select {
	case s.Events <- e:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return errors.ErrSinkFull
	}
}
