// Package message implements the typed request/response protocol the worker
// speaks on its queue: envelopes, the dispatcher and the error presenter.
package message

import (
	"context"
	"encoding/json"
)

// Message types understood by the worker.
const (
	TypeAddDebt     = "add"
	TypeDebtPayment = "debt-payment"

	// TypeError is the type of every error response.
	TypeError = "error"
)

// Envelope is an inbound message.
type Envelope struct {
	Type    string          `json:"type"`
	Status  int             `json:"status,omitempty"`
	Payload json.RawMessage `json:"payload"`
}

// Response is the outbound reply to an Envelope. Payload is the handler
// result on success and an ErrorPayload otherwise.
type Response struct {
	Type    string `json:"type"`
	Status  int    `json:"status"`
	Payload any    `json:"payload"`
}

// ErrorPayload is the payload of every non-200 Response.
type ErrorPayload struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// Handler processes one Envelope and always produces a Response.
type Handler interface {
	Handle(ctx context.Context, env Envelope) Response
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, env Envelope) Response

// Handle calls f(ctx, env).
func (f HandlerFunc) Handle(ctx context.Context, env Envelope) Response {
	return f(ctx, env)
}
