package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/heartmarshall/debts-worker/internal/transport/message"
	"github.com/heartmarshall/debts-worker/pkg/ctxutil"
)

// Recovery returns middleware that recovers from panics, logs the error
// with a stack trace, and responds with the 500 "Unexpected error" response.
func Recovery(logger *slog.Logger) Middleware {
	return func(next message.Handler) message.Handler {
		return message.HandlerFunc(func(ctx context.Context, env message.Envelope) (resp message.Response) {
			defer func() {
				if r := recover(); r != nil {
					logger.ErrorContext(ctx, "panic recovered",
						slog.Any("error", r),
						slog.String("stack", string(debug.Stack())),
						slog.String("type", env.Type),
						slog.String("request_id", ctxutil.RequestIDFromCtx(ctx)),
					)
					resp = message.Internal(fmt.Errorf("panic: %v", r))
				}
			}()
			return next.Handle(ctx, env)
		})
	}
}
