package message

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/heartmarshall/debts-worker/internal/domain"
	"github.com/heartmarshall/debts-worker/pkg/ctxutil"
)

// PresentError maps a handler error to its Response.
//
//	*domain.ValidationError    → 422 "Invalid Fields" + field map
//	*domain.AuthorizationError → 403 "Authentication Error" + field map
//	anything else              → 500 "Unexpected error" + errors.cause
func PresentError(ctx context.Context, log *slog.Logger, err error) Response {
	var (
		ve *domain.ValidationError
		ae *domain.AuthorizationError
	)

	switch {
	case errors.As(err, &ve):
		return errorResponse(http.StatusUnprocessableEntity, "Invalid Fields", ve.Fields())

	case errors.As(err, &ae):
		return errorResponse(http.StatusForbidden, "Authentication Error", ae.Fields())

	default:
		log.ErrorContext(ctx, "unexpected handler error",
			slog.String("error", err.Error()),
			slog.String("type", ctxutil.MessageTypeFromCtx(ctx)),
			slog.String("request_id", ctxutil.RequestIDFromCtx(ctx)),
		)
		return Internal(err)
	}
}

// Internal is the 500 response carrying the raw cause.
func Internal(cause error) Response {
	return errorResponse(http.StatusInternalServerError, "Unexpected error", map[string]string{"cause": cause.Error()})
}

func errorResponse(status int, msg string, fields map[string]string) Response {
	return Response{
		Type:    TypeError,
		Status:  status,
		Payload: ErrorPayload{Message: msg, Errors: fields},
	}
}
