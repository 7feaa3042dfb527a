// Package service publishes store events to RabbitMQ. Publishing runs in
// a background goroutine so store mutations never wait on the broker;
// when the buffer is full, events are dropped and counted.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/iliyamo/service-marketplace/internal/queue"
)

// Publisher buffers events and sends them to a durable queue.
type Publisher struct {
	url     string
	queue   string
	log     *zap.Logger
	events  chan queue.Event
	dropped atomic.Int64
}

func NewPublisher(url, queueName string, buffer int, log *zap.Logger) *Publisher {
	if buffer < 1 {
		buffer = 1
	}
	return &Publisher{
		url:    url,
		queue:  queueName,
		log:    log,
		events: make(chan queue.Event, buffer),
	}
}

// Emit enqueues ev without blocking.
func (p *Publisher) Emit(ev queue.Event) {
	select {
	case p.events <- ev:
	default:
		n := p.dropped.Add(1)
		p.log.Warn("event buffer full, dropping event",
			zap.String("kind", string(ev.Kind())),
			zap.Int64("dropped_total", n))
	}
}

// Dropped reports how many events were discarded because the buffer was full.
func (p *Publisher) Dropped() int64 { return p.dropped.Load() }

// Run drains the buffer into the broker until ctx is cancelled. A failed
// publish closes the connection and the event is retried once on the
// next connection.
func (p *Publisher) Run(ctx context.Context) error {
	backoff := time.Second
	var pending *queue.Event
	for {
		conn, ch, err := p.open()
		if err != nil {
			p.log.Warn("rabbitmq: connect failed", zap.Error(err), zap.Duration("retry_in", backoff))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		pending, err = p.pump(ctx, ch, pending)
		_ = ch.Close()
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		p.log.Warn("rabbitmq: publish failed, reconnecting", zap.Error(err))
	}
}

func (p *Publisher) open() (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return nil, nil, fmt.Errorf("dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("channel open: %w", err)
	}
	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, nil, fmt.Errorf("queue declare: %w", err)
	}
	return conn, ch, nil
}

// pump publishes until an error occurs. It returns the event that failed
// so the caller can retry it, unless that event was already a retry.
func (p *Publisher) pump(ctx context.Context, ch *amqp.Channel, retry *queue.Event) (*queue.Event, error) {
	if retry != nil {
		if err := p.publish(ctx, ch, *retry); err != nil {
			p.log.Error("rabbitmq: dropping event after retry", zap.String("kind", string(retry.Kind())), zap.Error(err))
			return nil, err
		}
	}
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case ev := <-p.events:
			if err := p.publish(ctx, ch, ev); err != nil {
				return &ev, err
			}
		}
	}
}

func (p *Publisher) publish(ctx context.Context, ch *amqp.Channel, ev queue.Event) error {
	msg, err := encode(ev)
	if err != nil {
		// an event that cannot be encoded will never succeed; skip it
		p.log.Error("rabbitmq: marshal event failed", zap.Error(err))
		return nil
	}
	return ch.PublishWithContext(ctx, "", p.queue, false, false, msg)
}

func encode(ev queue.Event) (amqp.Publishing, error) {
	body, err := json.Marshal(ev)
	if err != nil {
		return amqp.Publishing{}, err
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Type:         string(ev.Kind()),
		Timestamp:    ev.OccurredAt,
		Body:         body,
	}, nil
}

// LogEmitter writes events to the log instead of a broker. It is used
// when event publishing is disabled.
type LogEmitter struct {
	Log *zap.Logger
}

func (l LogEmitter) Emit(ev queue.Event) {
	l.Log.Debug("domain event",
		zap.String("kind", string(ev.Kind())),
		zap.String("entity_id", ev.EntityID()),
		zap.Time("occurred_at", ev.OccurredAt))
}
