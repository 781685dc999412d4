package events

import (
	"context"
	"fmt"
	"log/slog"
)

// Event is an in-process notification published after a successful command.
type Event interface {
	EventName() string
}

// HandlerFunc handles a single published event.
type HandlerFunc func(ctx context.Context, event Event) error

// Dispatcher routes events to their subscribed handlers. Handlers for one
// event run sequentially, each awaited before the next; a handler error
// propagates to the publisher and skips the remaining handlers. There is no
// isolation between handlers, a simplification worth revisiting if the
// fan-out ever grows beyond logging-style side effects.
//
// Subscriptions happen at startup; Publish is safe for concurrent use once
// wiring is done.
type Dispatcher struct {
	logger   *slog.Logger
	handlers map[string][]HandlerFunc
}

// NewDispatcher creates an empty Dispatcher.
func NewDispatcher(logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		logger:   logger,
		handlers: make(map[string][]HandlerFunc),
	}
}

// Subscribe registers a typed handler for its event type.
func Subscribe[TEvent Event](d *Dispatcher, handler func(ctx context.Context, event TEvent) error) {
	var zero TEvent
	name := zero.EventName()
	d.handlers[name] = append(d.handlers[name], func(ctx context.Context, event Event) error {
		typed, ok := event.(TEvent)
		if !ok {
			return fmt.Errorf("events: handler for %s received %T", name, event)
		}
		return handler(ctx, typed)
	})
}

// Publish delivers the event to every subscribed handler in subscription
// order. Publishing an event with no subscribers is a no-op.
func (d *Dispatcher) Publish(ctx context.Context, event Event) error {
	handlers := d.handlers[event.EventName()]
	if len(handlers) == 0 {
		d.logger.Debug("No event handlers registered", slog.String("event", event.EventName()))
		return nil
	}

	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			return fmt.Errorf("handling event %s: %w", event.EventName(), err)
		}
	}
	return nil
}
