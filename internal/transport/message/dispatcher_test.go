package message

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/debts-worker/internal/domain"
)

func TestDispatcher_RoutesByType(t *testing.T) {
	t.Parallel()

	d := NewDispatcher(slog.Default())
	var got json.RawMessage
	d.Register("add", func(_ context.Context, payload json.RawMessage) (any, error) {
		got = payload
		return map[string]string{"ok": "yes"}, nil
	})

	resp := d.Handle(context.Background(), Envelope{Type: "add", Payload: json.RawMessage(`{"a":1}`)})

	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, "add", resp.Type)
	assert.Equal(t, map[string]string{"ok": "yes"}, resp.Payload)
	assert.JSONEq(t, `{"a":1}`, string(got))
}

func TestDispatcher_UnsupportedType(t *testing.T) {
	t.Parallel()

	d := NewDispatcher(slog.Default())
	called := false
	d.Register("add", func(context.Context, json.RawMessage) (any, error) {
		called = true
		return nil, nil
	})

	resp := d.Handle(context.Background(), Envelope{Type: "transfer"})

	assert.False(t, called)
	assert.Equal(t, http.StatusBadRequest, resp.Status)
	assert.Equal(t, TypeError, resp.Type)
	assert.Equal(t, ErrorPayload{Message: "Unsupported function type: transfer"}, resp.Payload)
}

func TestDispatcher_RoutePanicBecomesInternalError(t *testing.T) {
	t.Parallel()

	d := NewDispatcher(slog.Default())
	d.Register("add", func(context.Context, json.RawMessage) (any, error) {
		panic("nil map write")
	})

	var resp Response
	require.NotPanics(t, func() {
		resp = d.Handle(context.Background(), Envelope{Type: "add", Payload: json.RawMessage(`{}`)})
	})

	assert.Equal(t, http.StatusInternalServerError, resp.Status)
	assert.Equal(t, TypeError, resp.Type)
	assert.Equal(t, ErrorPayload{
		Message: "Unexpected error",
		Errors:  map[string]string{"cause": "panic: nil map write"},
	}, resp.Payload)
}

func TestDispatcher_RegisterTwicePanics(t *testing.T) {
	t.Parallel()

	d := NewDispatcher(slog.Default())
	route := func(context.Context, json.RawMessage) (any, error) { return nil, nil }
	d.Register("add", route)

	assert.Panics(t, func() { d.Register("add", route) })
}

func TestPresentError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
		wantErrors  map[string]string
	}{
		{
			name:        "validation",
			err:         domain.NewValidationError("amount", "Amount is not a number"),
			wantStatus:  http.StatusUnprocessableEntity,
			wantMessage: "Invalid Fields",
			wantErrors:  map[string]string{"amount": "Amount is not a number"},
		},
		{
			name:        "wrapped authorization",
			err:         errors.Join(errors.New("tx"), domain.NewAuthorizationError("debt", "Debt does not belong to the user")),
			wantStatus:  http.StatusForbidden,
			wantMessage: "Authentication Error",
			wantErrors:  map[string]string{"debt": "Debt does not belong to the user"},
		},
		{
			name:        "internal",
			err:         errors.New("connection refused"),
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "Unexpected error",
			wantErrors:  map[string]string{"cause": "connection refused"},
		},
		{
			name:        "bare sentinel is internal",
			err:         domain.ErrConflict,
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "Unexpected error",
			wantErrors:  map[string]string{"cause": "conflict"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			resp := PresentError(context.Background(), slog.Default(), tt.err)

			assert.Equal(t, tt.wantStatus, resp.Status)
			assert.Equal(t, TypeError, resp.Type)
			payload, ok := resp.Payload.(ErrorPayload)
			require.True(t, ok, "payload type %T", resp.Payload)
			assert.Equal(t, tt.wantMessage, payload.Message)
			assert.Equal(t, tt.wantErrors, payload.Errors)
		})
	}
}

func TestResponse_JSONShape(t *testing.T) {
	t.Parallel()

	raw, err := json.Marshal(Unsupported("x"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"error","status":400,"payload":{"message":"Unsupported function type: x"}}`, string(raw))
}
