package middleware

import (
	"context"
	"net/http"

	"github.com/heartmarshall/debts-worker/internal/transport/message"
)

// okHandler answers every envelope with a 200 echoing its type.
var okHandler = message.HandlerFunc(func(_ context.Context, env message.Envelope) message.Response {
	return message.Response{Type: env.Type, Status: http.StatusOK}
})

func statusHandler(status int) message.Handler {
	return message.HandlerFunc(func(_ context.Context, env message.Envelope) message.Response {
		return message.Response{Type: env.Type, Status: status}
	})
}
