package amqp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/debts-worker/internal/transport/message"
	"github.com/heartmarshall/debts-worker/pkg/ctxutil"
)

// deliveryChannel is the subset of *amqp.Channel used by Consumer.
type deliveryChannel interface {
	Qos(prefetchCount, prefetchSize int, global bool) error
	ConsumeWithContext(ctx context.Context, queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// ConsumerConfig holds consumer settings.
type ConsumerConfig struct {
	Queue       string
	Prefetch    int
	Concurrency int
}

// Consumer reads envelopes from a queue, hands them to a message.Handler,
// publishes the response to the delivery's ReplyTo and acks the delivery.
type Consumer struct {
	ch      deliveryChannel
	handler message.Handler
	cfg     ConsumerConfig
	log     *slog.Logger

	pubMu sync.Mutex
}

// NewConsumer creates a Consumer. Call Run to start consuming.
func NewConsumer(ch deliveryChannel, handler message.Handler, cfg ConsumerConfig, log *slog.Logger) *Consumer {
	return &Consumer{
		ch:      ch,
		handler: handler,
		cfg:     cfg,
		log:     log.With("component", "consumer", "queue", cfg.Queue),
	}
}

// Run consumes until ctx is cancelled or the delivery channel closes.
// Cfg.Concurrency workers share one delivery channel; a message already
// being handled runs to completion even after ctx is cancelled.
func (c *Consumer) Run(ctx context.Context) error {
	if err := c.ch.Qos(c.cfg.Prefetch, 0, false); err != nil {
		return fmt.Errorf("set qos: %w", err)
	}

	deliveries, err := c.ch.ConsumeWithContext(ctx, c.cfg.Queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume %s: %w", c.cfg.Queue, err)
	}

	c.log.InfoContext(ctx, "listening for messages", slog.Int("concurrency", c.cfg.Concurrency))

	g, ctx := errgroup.WithContext(ctx)
	for range max(c.cfg.Concurrency, 1) {
		g.Go(func() error {
			for {
				select {
				case <-ctx.Done():
					return nil
				case d, ok := <-deliveries:
					if !ok {
						if ctx.Err() != nil {
							return nil
						}
						return fmt.Errorf("consume %s: %w", c.cfg.Queue, ErrConnectionClosed)
					}
					c.process(context.WithoutCancel(ctx), d)
				}
			}
		})
	}
	return g.Wait()
}

// process handles one delivery. It never returns an error: every outcome is
// a Response, and the delivery is acked once the reply has been sent.
func (c *Consumer) process(ctx context.Context, d amqp.Delivery) {
	ctx = ctxutil.WithRequestID(ctx, requestID(d))

	var resp message.Response
	var env message.Envelope
	if err := json.Unmarshal(d.Body, &env); err != nil {
		c.log.WarnContext(ctx, "malformed message", slog.String("error", err.Error()))
		resp = message.Response{
			Type:    message.TypeError,
			Status:  http.StatusBadRequest,
			Payload: message.ErrorPayload{Message: "Malformed message"},
		}
	} else {
		resp = c.handler.Handle(ctx, env)
	}

	if d.ReplyTo != "" {
		if err := c.reply(ctx, d, resp); err != nil {
			c.log.ErrorContext(ctx, "reply failed",
				slog.String("reply_to", d.ReplyTo),
				slog.String("error", err.Error()),
			)
		}
	}

	if err := d.Ack(false); err != nil {
		c.log.ErrorContext(ctx, "ack failed", slog.String("error", err.Error()))
	}
}

func (c *Consumer) reply(ctx context.Context, d amqp.Delivery, resp message.Response) error {
	body, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("marshal response: %w", err)
	}

	c.pubMu.Lock()
	defer c.pubMu.Unlock()

	return c.ch.PublishWithContext(ctx, "", d.ReplyTo, false, false, amqp.Publishing{
		ContentType:   "application/json",
		CorrelationId: d.CorrelationId,
		Body:          body,
	})
}

func requestID(d amqp.Delivery) string {
	if d.MessageId != "" {
		return d.MessageId
	}
	return d.CorrelationId
}
