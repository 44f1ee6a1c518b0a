// Package outbox buffers booking events in process and relays them to the
// message broker in the background, so API responses never wait on RabbitMQ.
package outbox

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cockroachdb/errors"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/robertarktes/holidaze-gateway/internal/observability"
)

const (
	DefaultCapacity = 256
	maxRetries      = 3
)

// Sender is the broker side of the relay.
type Sender interface {
	Publish(ctx context.Context, key string, msg amqp.Publishing) error
}

// Outbox is a bounded queue of pending events. A nil *Outbox drops
// everything, which is how the gateway runs without a broker.
type Outbox struct {
	queue  chan Event
	logger observability.Logger
}

func New(capacity int, logger observability.Logger) *Outbox {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Outbox{queue: make(chan Event, capacity), logger: logger}
}

// Enqueue never blocks. It reports false when the event was dropped.
func (o *Outbox) Enqueue(e Event) bool {
	if o == nil {
		return false
	}
	select {
	case o.queue <- e:
		return true
	default:
		observability.EventsPublished.WithLabelValues(e.Type, "dropped").Inc()
		o.logger.WithField("event_type", e.Type).Warn("outbox full, dropping event")
		return false
	}
}

type Publisher struct {
	outbox  *Outbox
	sender  Sender
	logger  observability.Logger
	backoff time.Duration
}

func NewPublisher(outbox *Outbox, sender Sender, logger observability.Logger) *Publisher {
	return &Publisher{outbox: outbox, sender: sender, logger: logger, backoff: time.Second}
}

// Run relays events until ctx is done, then flushes what is already queued
// with a short grace period.
func (p *Publisher) Run(ctx context.Context) {
	p.logger.Info("outbox publisher started")
	for {
		select {
		case <-ctx.Done():
			p.flush()
			return
		case e := <-p.outbox.queue:
			if err := p.publishWithRetry(ctx, e); err != nil {
				p.logger.WithError(err).WithField("event_type", e.Type).Error("failed to publish event after retries")
			}
		}
	}
}

func (p *Publisher) flush() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for {
		select {
		case e := <-p.outbox.queue:
			if err := p.publish(ctx, e); err != nil {
				p.logger.WithError(err).WithField("event_type", e.Type).Error("failed to flush event")
			}
		default:
			return
		}
	}
}

func (p *Publisher) publishWithRetry(ctx context.Context, e Event) error {
	var err error
	for i := 0; i < maxRetries; i++ {
		if err = p.publish(ctx, e); err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(1<<i) * p.backoff):
		}
	}
	return errors.Wrapf(err, "publish %s after %d attempts", e.Type, maxRetries)
}

func (p *Publisher) publish(ctx context.Context, e Event) error {
	body, err := json.Marshal(e)
	if err != nil {
		return errors.Wrap(err, "encode event")
	}
	msg := amqp.Publishing{
		MessageId:    e.ID.String(),
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    e.OccurredAt,
		Type:         e.Type,
		Body:         body,
	}
	if err := p.sender.Publish(ctx, e.Type, msg); err != nil {
		observability.EventsPublished.WithLabelValues(e.Type, "error").Inc()
		return err
	}
	observability.EventsPublished.WithLabelValues(e.Type, "ok").Inc()
	return nil
}
