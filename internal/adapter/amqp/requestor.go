package amqp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/heartmarshall/debts-worker/internal/transport/message"
)

// directReplyTo is RabbitMQ's pseudo-queue for RPC replies without a
// dedicated reply queue. Replies are delivered with auto-ack on the channel
// that published the request.
const directReplyTo = "amq.rabbitmq.reply-to"

// rpcChannel is the subset of *amqp.Channel used by Requestor.
type rpcChannel interface {
	ConsumeWithContext(ctx context.Context, queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Requestor sends envelopes to other services' queues and waits for the
// reply carrying the same correlation id.
type Requestor struct {
	ch       rpcChannel
	exchange string
	timeout  time.Duration
	replies  <-chan amqp.Delivery
	log      *slog.Logger

	mu      sync.Mutex // guards pending
	pending map[string]chan amqp.Delivery

	pubMu sync.Mutex
}

// NewRequestor starts consuming direct replies on ch. Run must be running
// for Request to receive replies.
func NewRequestor(ctx context.Context, ch rpcChannel, exchange string, timeout time.Duration, log *slog.Logger) (*Requestor, error) {
	replies, err := ch.ConsumeWithContext(ctx, directReplyTo, "", true, true, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("consume %s: %w", directReplyTo, err)
	}

	return &Requestor{
		ch:       ch,
		exchange: exchange,
		timeout:  timeout,
		replies:  replies,
		log:      log.With("component", "requestor"),
		pending:  make(map[string]chan amqp.Delivery),
	}, nil
}

// Run routes replies to waiting callers until ctx is cancelled or the reply
// channel closes.
func (r *Requestor) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-r.replies:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("consume %s: %w", directReplyTo, ErrConnectionClosed)
			}
			r.deliver(d)
		}
	}
}

func (r *Requestor) deliver(d amqp.Delivery) {
	r.mu.Lock()
	wait, ok := r.pending[d.CorrelationId]
	r.mu.Unlock()

	if !ok {
		// Caller already gave up.
		r.log.Warn("reply for unknown correlation id", slog.String("correlation_id", d.CorrelationId))
		return
	}

	select {
	case wait <- d:
	default:
		r.log.Warn("duplicate reply dropped", slog.String("correlation_id", d.CorrelationId))
	}
}

// Request publishes req to queue and returns the correlated reply. The wait
// is bounded by the requestor timeout and by ctx.
func (r *Requestor) Request(ctx context.Context, queue string, req message.Envelope) (message.Envelope, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	body, err := json.Marshal(req)
	if err != nil {
		return message.Envelope{}, fmt.Errorf("marshal request: %w", err)
	}

	corrID := uuid.NewString()
	wait := make(chan amqp.Delivery, 1)

	r.mu.Lock()
	r.pending[corrID] = wait
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		delete(r.pending, corrID)
		r.mu.Unlock()
	}()

	r.pubMu.Lock()
	err = r.ch.PublishWithContext(ctx, r.exchange, queue, false, false, amqp.Publishing{
		ContentType:   "application/json",
		CorrelationId: corrID,
		ReplyTo:       directReplyTo,
		Body:          body,
	})
	r.pubMu.Unlock()
	if err != nil {
		return message.Envelope{}, fmt.Errorf("publish to %s: %w", queue, err)
	}

	select {
	case d := <-wait:
		var reply message.Envelope
		if err := json.Unmarshal(d.Body, &reply); err != nil {
			return message.Envelope{}, fmt.Errorf("decode reply from %s: %w", queue, err)
		}
		return reply, nil
	case <-ctx.Done():
		return message.Envelope{}, fmt.Errorf("await reply from %s: %w", queue, ctx.Err())
	}
}

// Pending returns the number of requests awaiting a reply.
func (r *Requestor) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pending)
}
