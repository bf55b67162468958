package workers

import (
	"chat-relay/contract"
	"chat-relay/domain/event"
	"context"
	"log/slog"
)

// EventLoop is the single consumer of connection events.
// Running exactly one instance keeps registry mutation and broadcast fan-out
// for one event complete before the next event starts.
type EventLoop struct {
	log     *slog.Logger
	events  chan event.ConnectionEvent
	handler contract.EventHandler
}

func NewEventLoop(log *slog.Logger, events chan event.ConnectionEvent, handler contract.EventHandler) *EventLoop {
	return &EventLoop{log: log, events: events, handler: handler}
}

func (w *EventLoop) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping event loop")
			return nil
		case evt, ok := <-w.events:
			if !ok {
				return nil
			}
			w.handler.Handle(ctx, evt)
		}
	}
}
