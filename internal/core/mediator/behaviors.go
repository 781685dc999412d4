package mediator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/purchase_service_app/internal/apperrors"
	"github.com/SscSPs/purchase_service_app/internal/core/events"
)

// CommandSanitizer normalizes a command's field values and independently
// re-validates the normalized command. A non-empty field error map rejects
// the command before its handler runs.
type CommandSanitizer[TCmd Command] interface {
	Sanitize(cmd TCmd) (TCmd, map[string][]string)
}

// SanitizationBehavior runs the registered sanitizer for a command before
// its handler. Queries and commands without a registered sanitizer pass
// through untouched. Field errors short-circuit the dispatch with a
// RequestValidationError; otherwise the normalized command replaces the
// original for the rest of the chain.
type SanitizationBehavior struct {
	logger     *slog.Logger
	sanitizers map[string]func(req Request) (Request, map[string][]string)
}

// NewSanitizationBehavior creates a SanitizationBehavior with no sanitizers
// registered.
func NewSanitizationBehavior(logger *slog.Logger) *SanitizationBehavior {
	return &SanitizationBehavior{
		logger:     logger,
		sanitizers: make(map[string]func(req Request) (Request, map[string][]string)),
	}
}

// RegisterSanitizer wires a sanitizer for its command type. At most one
// sanitizer per command type; a duplicate is a wiring bug and panics.
func RegisterSanitizer[TCmd Command](b *SanitizationBehavior, sanitizer CommandSanitizer[TCmd]) {
	var zero TCmd
	name := zero.RequestName()
	if _, exists := b.sanitizers[name]; exists {
		panic(fmt.Sprintf("mediator: sanitizer already registered for %s", name))
	}
	b.sanitizers[name] = func(req Request) (Request, map[string][]string) {
		sanitized, fieldErrors := sanitizer.Sanitize(req.(TCmd))
		return sanitized, fieldErrors
	}
}

func (b *SanitizationBehavior) Handle(ctx context.Context, req Request, next Next) (any, error) {
	if _, ok := req.(Command); !ok {
		return next(ctx, req)
	}
	sanitize, ok := b.sanitizers[req.RequestName()]
	if !ok {
		return next(ctx, req)
	}

	sanitized, fieldErrors := sanitize(req)
	if len(fieldErrors) > 0 {
		b.logger.Warn("Command failed sanitization",
			slog.String("command", req.RequestName()),
			slog.Any("field_errors", fieldErrors),
		)
		return nil, apperrors.NewRequestValidationError(fieldErrors)
	}

	return next(ctx, sanitized)
}

// LoggingBehavior logs the start, outcome, and elapsed time of every
// dispatched request. Pure observer: it never alters the request or
// response and never suppresses an error.
type LoggingBehavior struct {
	logger *slog.Logger
}

// NewLoggingBehavior creates a LoggingBehavior writing to the given logger.
func NewLoggingBehavior(logger *slog.Logger) *LoggingBehavior {
	return &LoggingBehavior{logger: logger}
}

func (b *LoggingBehavior) Handle(ctx context.Context, req Request, next Next) (any, error) {
	name := req.RequestName()
	category := "Request"
	switch req.(type) {
	case Command:
		category = "Command"
	case Query:
		category = "Query"
	}

	b.logger.Info("Starting request",
		slog.String("category", category),
		slog.String("request", name),
		slog.Any("payload", req),
	)

	start := time.Now()
	res, err := next(ctx, req)
	elapsed := time.Since(start)

	if err != nil {
		b.logger.Error("Request failed",
			slog.String("category", category),
			slog.String("request", name),
			slog.Duration("elapsed", elapsed),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	b.logger.Info("Request completed",
		slog.String("category", category),
		slog.String("request", name),
		slog.Duration("elapsed", elapsed),
	)
	return res, nil
}

// EventCarrier is implemented by command results that produce follow-up
// events for the dispatcher.
type EventCarrier interface {
	DomainEvents() []events.Event
}

// SideEffectBehavior publishes the events carried by a successful command's
// result, sequentially, inside the same dispatch. A publish error fails the
// overall request even though the handler already completed. Queries and
// results without events pass through untouched.
type SideEffectBehavior struct {
	logger     *slog.Logger
	dispatcher *events.Dispatcher
}

// NewSideEffectBehavior creates a SideEffectBehavior publishing through the
// given dispatcher.
func NewSideEffectBehavior(logger *slog.Logger, dispatcher *events.Dispatcher) *SideEffectBehavior {
	return &SideEffectBehavior{logger: logger, dispatcher: dispatcher}
}

func (b *SideEffectBehavior) Handle(ctx context.Context, req Request, next Next) (any, error) {
	res, err := next(ctx, req)
	if err != nil {
		return nil, err
	}
	if _, ok := req.(Command); !ok {
		return res, nil
	}

	carrier, ok := res.(EventCarrier)
	if !ok {
		return res, nil
	}
	for _, event := range carrier.DomainEvents() {
		b.logger.Info("Publishing command side effect",
			slog.String("command", req.RequestName()),
			slog.String("event", event.EventName()),
		)
		if err := b.dispatcher.Publish(ctx, event); err != nil {
			return nil, err
		}
	}
	return res, nil
}
