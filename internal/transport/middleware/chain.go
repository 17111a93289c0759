// Package middleware wraps message handlers with cross-cutting behavior.
package middleware

import "github.com/heartmarshall/debts-worker/internal/transport/message"

// Middleware is a function that wraps a message.Handler.
type Middleware func(message.Handler) message.Handler

// Chain combines multiple middleware into a single Middleware.
// Middleware are applied in the order given: Chain(mw1, mw2)(handler)
// results in mw1(mw2(handler)), so mw1 executes first (outermost).
func Chain(mws ...Middleware) Middleware {
	return func(final message.Handler) message.Handler {
		for i := len(mws) - 1; i >= 0; i-- {
			final = mws[i](final)
		}
		return final
	}
}
