package mediator

import (
	"context"
	"fmt"

	"github.com/SscSPs/purchase_service_app/internal/apperrors"
)

// Request is a typed, immutable value describing intent. Every concrete
// request type is associated with exactly one response type and one
// registered handler, keyed by its RequestName.
type Request interface {
	RequestName() string
}

// Command marks requests that change state.
type Command interface {
	Request
	isCommand()
}

// Query marks read-only requests.
type Query interface {
	Request
	isQuery()
}

// CommandBase is embedded by concrete commands to mark them as such.
type CommandBase struct{}

func (CommandBase) isCommand() {}

// QueryBase is embedded by concrete queries to mark them as such.
type QueryBase struct{}

func (QueryBase) isQuery() {}

// Handler processes a single request type.
type Handler[TReq Request, TRes any] interface {
	Handle(ctx context.Context, req TReq) (TRes, error)
}

// Next invokes the remainder of the pipeline with the (possibly replaced)
// request. A behavior that never calls it short-circuits the dispatch.
type Next func(ctx context.Context, req Request) (any, error)

// Behavior is a cross-cutting pipeline step wrapped around every handler.
// Behaviors run in registration order on the way in and reverse order on the
// way out. They may transform the request before calling next, decline to
// call next at all, or observe the response/error after next returns. Errors
// propagate unchanged; the mediator performs no translation.
type Behavior interface {
	Handle(ctx context.Context, req Request, next Next) (any, error)
}

// Mediator dispatches requests to their registered handlers through a fixed
// behavior chain. The registry is built once at startup via Register and is
// read-only afterwards, so dispatch needs no locking.
type Mediator struct {
	behaviors []Behavior
	pipelines map[string]Next
}

// New creates a Mediator with the given behavior chain. The order of the
// arguments is the order behaviors wrap the handler.
func New(behaviors ...Behavior) *Mediator {
	return &Mediator{
		behaviors: behaviors,
		pipelines: make(map[string]Next),
	}
}

// Register wires a handler for its request type, composing the behavior
// chain around it once. Registering the same request type twice is a wiring
// bug and panics at startup.
func Register[TReq Request, TRes any](m *Mediator, handler Handler[TReq, TRes]) {
	var zero TReq
	name := zero.RequestName()
	if _, exists := m.pipelines[name]; exists {
		panic(fmt.Sprintf("mediator: handler already registered for %s", name))
	}

	chain := Next(func(ctx context.Context, req Request) (any, error) {
		typed, ok := req.(TReq)
		if !ok {
			return nil, fmt.Errorf("mediator: handler for %s received %T", name, req)
		}
		return handler.Handle(ctx, typed)
	})
	for i := len(m.behaviors) - 1; i >= 0; i-- {
		behavior := m.behaviors[i]
		next := chain
		chain = func(ctx context.Context, req Request) (any, error) {
			return behavior.Handle(ctx, req, next)
		}
	}

	m.pipelines[name] = chain
}

// Send dispatches a request through its pipeline and returns the typed
// response. It fails with apperrors.ErrHandlerNotRegistered when no handler
// was registered for the request type.
func Send[TRes any](ctx context.Context, m *Mediator, req Request) (TRes, error) {
	var zero TRes

	pipeline, ok := m.pipelines[req.RequestName()]
	if !ok {
		return zero, fmt.Errorf("%w: %s", apperrors.ErrHandlerNotRegistered, req.RequestName())
	}

	res, err := pipeline(ctx, req)
	if err != nil {
		return zero, err
	}

	typed, ok := res.(TRes)
	if !ok {
		return zero, fmt.Errorf("mediator: handler for %s returned %T", req.RequestName(), res)
	}
	return typed, nil
}
