package ctxutil

import (
	"context"
	"strings"
)

type ctxKey string

const (
	userIDKey      ctxKey = "user_id"
	requestIDKey   ctxKey = "request_id"
	messageTypeKey ctxKey = "message_type"
)

// WithUserID stores the id of the user a message acts for.
func WithUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, userIDKey, id)
}

// UserIDFromCtx extracts the user ID from the context.
// Returns "" and false if the value is missing, blank, or of the wrong type.
func UserIDFromCtx(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	if !ok || strings.TrimSpace(id) == "" {
		return "", false
	}
	return id, true
}

// WithRequestID stores the request ID in the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromCtx extracts the request ID from the context.
// Returns an empty string if absent.
func RequestIDFromCtx(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// WithMessageType stores the type of the message being processed.
func WithMessageType(ctx context.Context, typ string) context.Context {
	return context.WithValue(ctx, messageTypeKey, typ)
}

// MessageTypeFromCtx extracts the message type from the context.
func MessageTypeFromCtx(ctx context.Context) string {
	typ, _ := ctx.Value(messageTypeKey).(string)
	return typ
}
