package queue

// The consumer listens to the reservation queues and appends one line per
// event to <logDir>/reservation.log.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/labstack/echo/v4"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Consumer drains the reservation queues into a log file.
type Consumer struct {
	URL    string
	LogDir string
	Logger echo.Logger
}

// Run connects to RabbitMQ, declares both reservation queues (durable)
// and consumes them until ctx is cancelled.  Connection failures are
// retried with exponential backoff capped at 30s; a message that cannot
// be handled is rejected without requeue so the loop keeps going.
func (c *Consumer) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(c.URL)
		if err != nil {
			c.Logger.Warnf("reservation-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
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
		backoff = time.Second // reset after successful connect

		err = c.consumeLoop(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.Logger.Warnf("reservation-consumer: consume loop ended: %v; reconnecting", err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(2 * time.Second):
		}
	}
}

func (c *Consumer) consumeLoop(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		c.Logger.Warnf("reservation-consumer: set QoS failed: %v", err)
	}

	var feeds []<-chan amqp.Delivery
	for _, name := range []string{ConfirmedQueue, CancelledQueue} {
		if _, err := ch.QueueDeclare(name, true, false, false, false, nil); err != nil {
			return fmt.Errorf("queue declare %s: %w", name, err)
		}
		msgs, err := ch.Consume(name, "", false, false, false, false, nil)
		if err != nil {
			return fmt.Errorf("queue consume %s: %w", name, err)
		}
		feeds = append(feeds, msgs)
	}

	confirmed, cancelled := feeds[0], feeds[1]
	for {
		var d amqp.Delivery
		var ok bool
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok = <-confirmed:
		case d, ok = <-cancelled:
		}
		if !ok {
			return errors.New("deliveries channel closed")
		}
		if err := HandleMessage(c.LogDir, d.Body); err != nil {
			c.Logger.Errorf("reservation-consumer: handle message failed: %v", err)
			_ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
			continue
		}
		_ = d.Ack(false)
	}
}

// HandleMessage decodes a ReservationEvent and appends it to
// <logDir>/reservation.log, creating the directory when needed.
func HandleMessage(logDir string, body []byte) error {
	var ev ReservationEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if ev.ReservationID == "" {
		return errors.New("event without reservation_id")
	}
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	fpath := filepath.Join(logDir, "reservation.log")
	f, err := os.OpenFile(fpath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(FormatLine(ev)); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}

// FormatLine renders an event as a single human-friendly log line.
func FormatLine(ev ReservationEvent) string {
	return fmt.Sprintf("[%s] Reservation %s | reservation_id=%s | user_id=%s | guest=%q | restaurant=%q | table=%d | seats=%d | when=%s %s | total=%d | deposit=%d | refund=%d\n",
		ev.OccurredAt, ev.Status, ev.ReservationID, ev.UserID, ev.UserName, ev.RestaurantName,
		ev.TableNumber, ev.Seats, ev.Date, ev.Time, ev.PaymentAmount, ev.Deposit, ev.Refund)
}
