// Package queue_publisher publishes reservation events to RabbitMQ.
// Errors are returned, not logged, so the caller decides how loud a
// failed publish should be.
package queue_publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	q "github.com/iliyamo/seat-reservation/internal/queue"
)

// defaultDialTimeout applies when the caller's context has no deadline.
const defaultDialTimeout = 30 * time.Second

// Publisher sends events to a durable queue on the default exchange.
// It dials a fresh connection per event; reservation traffic is low and
// this keeps the broker optional at startup.
type Publisher struct {
	URL   string
	Queue string
}

// New returns a Publisher for the given broker URL and queue name.
func New(url, queue string) *Publisher {
	return &Publisher{URL: url, Queue: queue}
}

// Publish marshals event and publishes it as a persistent message.  The
// connection attempt and handshake share the deadline of ctx.  The queue
// is declared on every call, which is idempotent.
func (p *Publisher) Publish(ctx context.Context, event q.ReservationEvent) error {
	conn, err := p.dial(ctx)
	if err != nil {
		return fmt.Errorf("rabbitmq dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("rabbitmq channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(
		p.Queue, // name
		true,    // durable
		false,   // autoDelete
		false,   // exclusive
		false,   // noWait
		nil,     // args
	); err != nil {
		return fmt.Errorf("rabbitmq queue declare %s: %w", p.Queue, err)
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Type:         event.Type,
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", p.Queue, false, false, pub); err != nil {
		return fmt.Errorf("rabbitmq publish: %w", err)
	}
	return nil
}

func (p *Publisher) dial(ctx context.Context) (*amqp.Connection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	timeout := defaultDialTimeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return nil, context.DeadlineExceeded
		}
	}
	return amqp.DialConfig(p.URL, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(timeout),
	})
}
