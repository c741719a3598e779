package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	q "github.com/iliyamo/restaurant-table-reservation/internal/queue"
)

// EventPublisher delivers reservation events.  Implementations must be
// safe for concurrent use.
type EventPublisher interface {
	PublishReservation(ctx context.Context, ev q.ReservationEvent) error
}

// NopPublisher drops every event.  It is used when EVENTS_ENABLED is off.
type NopPublisher struct{}

// PublishReservation implements EventPublisher.
func (NopPublisher) PublishReservation(context.Context, q.ReservationEvent) error { return nil }

// RabbitPublisher publishes reservation events to RabbitMQ, opening a
// connection per event.  Errors are returned to the caller, which logs
// them.  Messages are marked as persistent.
type RabbitPublisher struct {
	URL string
}

// NewRabbitPublisher returns a publisher for the broker at url.
func NewRabbitPublisher(url string) *RabbitPublisher {
	return &RabbitPublisher{URL: url}
}

// PublishReservation sends ev to reservation.confirmed or
// reservation.cancelled depending on its status.
func (p *RabbitPublisher) PublishReservation(ctx context.Context, ev q.ReservationEvent) error {
	conn, err := amqp.Dial(p.URL)
	if err != nil {
		return fmt.Errorf("rabbitmq: dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("rabbitmq: channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	queue := q.QueueFor(ev.Status)
	// Ensure the queue exists (idempotent). Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(
		queue, // name
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,   // args
	); err != nil {
		return fmt.Errorf("rabbitmq: queue declare: %w", err)
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("rabbitmq: marshal event: %w", err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent, // store on disk
		MessageId:    ev.ReservationID,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx,
		"",    // default exchange
		queue, // routing key = queue name
		false, // mandatory
		false, // immediate
		pub,
	); err != nil {
		return fmt.Errorf("rabbitmq: publish: %w", err)
	}
	return nil
}
