package message

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
)

// Route handles the payload of one message type. A nil error yields a 200
// response carrying the returned value.
type Route func(ctx context.Context, payload json.RawMessage) (any, error)

// Dispatcher routes envelopes to the Route registered for their type.
// Routes are registered once at startup; Handle is safe for concurrent use
// afterwards. Handle always returns a Response: route errors and panics are
// turned into error responses.
type Dispatcher struct {
	routes map[string]Route
	log    *slog.Logger
}

// NewDispatcher creates a Dispatcher with no routes.
func NewDispatcher(log *slog.Logger) *Dispatcher {
	return &Dispatcher{
		routes: make(map[string]Route),
		log:    log.With("component", "dispatcher"),
	}
}

// Register binds typ to route. Registering the same type twice panics.
func (d *Dispatcher) Register(typ string, route Route) {
	if _, dup := d.routes[typ]; dup {
		panic(fmt.Sprintf("message: route %q registered twice", typ))
	}
	d.routes[typ] = route
}

// Handle implements Handler.
func (d *Dispatcher) Handle(ctx context.Context, env Envelope) (resp Response) {
	defer func() {
		if r := recover(); r != nil {
			d.log.ErrorContext(ctx, "route panicked",
				slog.String("type", env.Type),
				slog.Any("panic", r),
			)
			resp = Internal(fmt.Errorf("panic: %v", r))
		}
	}()

	route, ok := d.routes[env.Type]
	if !ok {
		d.log.DebugContext(ctx, "unsupported message type", slog.String("type", env.Type))
		return Unsupported(env.Type)
	}

	result, err := route(ctx, env.Payload)
	if err != nil {
		return PresentError(ctx, d.log, err)
	}

	return Response{Type: env.Type, Status: http.StatusOK, Payload: result}
}

// Unsupported is the response to a message type with no route.
func Unsupported(typ string) Response {
	return Response{
		Type:    TypeError,
		Status:  http.StatusBadRequest,
		Payload: ErrorPayload{Message: fmt.Sprintf("Unsupported function type: %s", typ)},
	}
}
