package middleware

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/heartmarshall/debts-worker/internal/transport/message"
)

// Metrics returns middleware that counts handled messages by type and status
// and observes their processing time. Collectors are registered on reg.
func Metrics(reg prometheus.Registerer) Middleware {
	factory := promauto.With(reg)

	handled := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: "debts_worker",
		Name:      "messages_handled_total",
		Help:      "Messages handled, by message type and response status.",
	}, []string{"type", "status"})

	duration := factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "debts_worker",
		Name:      "message_duration_seconds",
		Help:      "Time spent handling a message.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"type"})

	return func(next message.Handler) message.Handler {
		return message.HandlerFunc(func(ctx context.Context, env message.Envelope) message.Response {
			start := time.Now()
			resp := next.Handle(ctx, env)

			typ := metricType(env.Type)
			handled.WithLabelValues(typ, strconv.Itoa(resp.Status)).Inc()
			duration.WithLabelValues(typ).Observe(time.Since(start).Seconds())

			return resp
		})
	}
}

// metricType bounds label cardinality: unknown types share one label.
func metricType(typ string) string {
	switch typ {
	case message.TypeAddDebt, message.TypeDebtPayment:
		return typ
	default:
		return "unsupported"
	}
}
