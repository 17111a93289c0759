package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/heartmarshall/debts-worker/internal/transport/message"
	"github.com/heartmarshall/debts-worker/pkg/ctxutil"
)

// Logger returns middleware that logs each message with type, status,
// duration, and context identifiers (request_id, user_id).
func Logger(logger *slog.Logger) Middleware {
	return func(next message.Handler) message.Handler {
		return message.HandlerFunc(func(ctx context.Context, env message.Envelope) message.Response {
			start := time.Now()

			resp := next.Handle(ctx, env)

			attrs := []slog.Attr{
				slog.String("type", env.Type),
				slog.Int("status", resp.Status),
				slog.Duration("duration", time.Since(start)),
				slog.String("request_id", ctxutil.RequestIDFromCtx(ctx)),
			}
			if userID, ok := ctxutil.UserIDFromCtx(ctx); ok {
				attrs = append(attrs, slog.String("user_id", userID))
			}

			level := slog.LevelInfo
			switch {
			case resp.Status >= 500:
				level = slog.LevelError
			case resp.Status >= 400:
				level = slog.LevelWarn
			}
			logger.LogAttrs(ctx, level, "message.handled", attrs...)

			return resp
		})
	}
}
