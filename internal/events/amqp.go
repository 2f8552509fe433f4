package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

// Client publishes and consumes DatabaseUpdated messages over a durable
// queue bound to a direct exchange.
type Client struct {
	conn         *amqp091.Connection
	channel      *amqp091.Channel
	exchangeName string
	queueName    string
}

func NewClient(url, exchangeName, queueName string) (*Client, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dialing amqp: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("opening channel: %w", err)
	}

	c := &Client{
		conn:         conn,
		channel:      channel,
		exchangeName: exchangeName,
		queueName:    queueName,
	}

	if err := c.setup(); err != nil {
		c.Close()
		return nil, fmt.Errorf("declaring topology: %w", err)
	}

	return c, nil
}

func (c *Client) setup() error {
	if err := c.channel.ExchangeDeclare(c.exchangeName, "direct", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declaring exchange: %w", err)
	}

	if _, err := c.channel.QueueDeclare(c.queueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declaring queue: %w", err)
	}

	// The queue name doubles as the routing key.
	if err := c.channel.QueueBind(c.queueName, c.queueName, c.exchangeName, false, nil); err != nil {
		return fmt.Errorf("binding queue: %w", err)
	}

	return nil
}

func (c *Client) PublishDatabaseUpdated(ctx context.Context, at time.Time) error {
	msg := NewDatabaseUpdated(at)

	body, err := msg.ToJSON()
	if err != nil {
		return fmt.Errorf("encoding message: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = c.channel.PublishWithContext(ctx, c.exchangeName, c.queueName, false, false, amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		MessageId:    msg.ID.String(),
		Timestamp:    time.Now(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publishing message: %w", err)
	}

	slog.DebugContext(ctx, "published database update", "message_id", msg.ID, "at", msg.At)

	return nil
}

// requeueDelay spaces out retries of a failed message.
const requeueDelay = 10 * time.Second

// ConsumeDatabaseUpdated feeds messages to handler until ctx ends. A handler
// error requeues the message once, after requeueDelay; a redelivered message
// that fails again is dropped, as the next database change publishes a fresh
// one. Undecodable messages are dropped.
func (c *Client) ConsumeDatabaseUpdated(ctx context.Context, handler func(context.Context, *DatabaseUpdated) error) error {
	msgs, err := c.channel.Consume(c.queueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("starting consumer: %w", err)
	}

	slog.InfoContext(ctx, "consuming database updates", "queue", c.queueName)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case delivery, ok := <-msgs:
			if !ok {
				return errors.New("amqp delivery channel closed")
			}

			var ackErr error

			switch handle(ctx, delivery.Body, delivery.Redelivered, handler) {
			case ack:
				ackErr = delivery.Ack(false)
			case requeue:
				select {
				case <-ctx.Done():
				case <-time.After(requeueDelay):
				}

				ackErr = delivery.Nack(false, true)
			case drop:
				ackErr = delivery.Nack(false, false)
			}

			if ackErr != nil {
				slog.ErrorContext(ctx, "acknowledging message", "error", ackErr)
			}
		}
	}
}

type outcome int

const (
	ack outcome = iota
	requeue
	drop
)

func handle(ctx context.Context, body []byte, redelivered bool, handler func(context.Context, *DatabaseUpdated) error) outcome {
	msg, err := DatabaseUpdatedFromJSON(body)
	if err != nil {
		slog.ErrorContext(ctx, "dropping malformed message", "error", err)
		return drop
	}

	if err := handler(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "handling database update", "message_id", msg.ID, "redelivered", redelivered, "error", err)

		if redelivered {
			return drop
		}

		return requeue
	}

	return ack
}

func (c *Client) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}

	if c.conn != nil {
		return c.conn.Close()
	}

	return nil
}
