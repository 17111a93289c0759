package amqp

import (
	"context"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
)

type published struct {
	Exchange string
	Key      string
	Msg      amqp.Publishing
}

// fakeChannel stands in for *amqp.Channel. Consumed queues all read from
// deliveries; OnPublish runs synchronously inside PublishWithContext.
type fakeChannel struct {
	deliveries chan amqp.Delivery
	QosErr     error
	PublishErr error
	OnPublish  func(p published)

	mu        sync.Mutex
	prefetch  int
	consumed  []string
	published []published
}

func newFakeChannel() *fakeChannel {
	return &fakeChannel{deliveries: make(chan amqp.Delivery, 16)}
}

func (f *fakeChannel) Qos(prefetchCount, _ int, _ bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prefetch = prefetchCount
	return f.QosErr
}

func (f *fakeChannel) ConsumeWithContext(_ context.Context, queue, _ string, _, _, _, _ bool, _ amqp.Table) (<-chan amqp.Delivery, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.consumed = append(f.consumed, queue)
	return f.deliveries, nil
}

func (f *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	p := published{Exchange: exchange, Key: key, Msg: msg}
	f.mu.Lock()
	f.published = append(f.published, p)
	f.mu.Unlock()

	if f.PublishErr != nil {
		return f.PublishErr
	}
	if f.OnPublish != nil {
		f.OnPublish(p)
	}
	return nil
}

func (f *fakeChannel) Published() []published {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]published(nil), f.published...)
}

// fakeAck records acknowledgements of deliveries.
type fakeAck struct {
	mu    sync.Mutex
	acked []uint64
}

func (a *fakeAck) Ack(tag uint64, _ bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.acked = append(a.acked, tag)
	return nil
}

func (a *fakeAck) Nack(uint64, bool, bool) error { return nil }
func (a *fakeAck) Reject(uint64, bool) error     { return nil }

func (a *fakeAck) Acked() []uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]uint64(nil), a.acked...)
}
