package middleware

import (
	"context"

	"github.com/google/uuid"

	"github.com/heartmarshall/debts-worker/internal/transport/message"
	"github.com/heartmarshall/debts-worker/pkg/ctxutil"
)

// RequestID keeps a request id already placed in the context by the
// transport (the delivery's message id) or generates one, and records the
// message type.
func RequestID() Middleware {
	return func(next message.Handler) message.Handler {
		return message.HandlerFunc(func(ctx context.Context, env message.Envelope) message.Response {
			if ctxutil.RequestIDFromCtx(ctx) == "" {
				ctx = ctxutil.WithRequestID(ctx, uuid.NewString())
			}
			ctx = ctxutil.WithMessageType(ctx, env.Type)
			return next.Handle(ctx, env)
		})
	}
}
