// Package amqp connects the worker to RabbitMQ: it consumes the debt queue,
// replies to callers and issues correlated requests to peer services.
package amqp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/heartmarshall/debts-worker/internal/config"
)

// ErrConnectionClosed is returned when the broker connection is gone.
var ErrConnectionClosed = errors.New("amqp connection closed")

// Conn owns the broker connection shared by the consumer and the requestor.
type Conn struct {
	conn *amqp.Connection
	cfg  config.AMQPConfig
	log  *slog.Logger
}

// Dial connects to the broker at cfg.URL.
func Dial(cfg config.AMQPConfig, log *slog.Logger) (*Conn, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("dial amqp: %w", err)
	}
	return &Conn{conn: conn, cfg: cfg, log: log.With("component", "amqp")}, nil
}

// Channel opens a new channel and declares the exchange on it.
func (c *Conn) Channel() (*amqp.Channel, error) {
	ch, err := c.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(c.cfg.Exchange, amqp.ExchangeDirect, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", c.cfg.Exchange, err)
	}
	return ch, nil
}

// DeclareQueue declares queue on ch and binds it to the exchange with the
// queue name as routing key.
func (c *Conn) DeclareQueue(ch *amqp.Channel, queue string) error {
	q, err := ch.QueueDeclare(queue, false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("declare queue %s: %w", queue, err)
	}
	if err := ch.QueueBind(q.Name, q.Name, c.cfg.Exchange, false, nil); err != nil {
		return fmt.Errorf("bind queue %s: %w", queue, err)
	}
	return nil
}

// Ping reports whether the connection is still open.
func (c *Conn) Ping(context.Context) error {
	if c.conn.IsClosed() {
		return ErrConnectionClosed
	}
	return nil
}

// NotifyClose returns a channel that receives the error closing the connection.
func (c *Conn) NotifyClose() <-chan *amqp.Error {
	return c.conn.NotifyClose(make(chan *amqp.Error, 1))
}

// Close closes the connection and every channel opened on it.
func (c *Conn) Close() error {
	if c.conn.IsClosed() {
		return nil
	}
	return c.conn.Close()
}
