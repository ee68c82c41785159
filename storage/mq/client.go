package mq

import (
	"context"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"Remindly/config"
)

// ExchangeNotify is the topic exchange all dispatch traffic flows through.
// Routing keys equal the per-channel queue names.
const ExchangeNotify = "notify.topic"

// ExchangeNotifyDelayed holds messages until their x-delay elapses, then
// routes them like ExchangeNotify. Requires the rabbitmq_delayed_message_exchange
// plugin.
const ExchangeNotifyDelayed = "notify.delayed"

// QueueName maps a delivery channel to its MQ queue / routing key.
func QueueName(channel string) string {
	return "notify." + channel
}

// Client owns the AMQP connection and a lazily (re)created publish channel.
type Client struct {
	conn *amqp.Connection
	log  *zap.Logger

	pubCh    *amqp.Channel
	pubMutex sync.RWMutex
}

func New(cfg *config.Config, log *zap.Logger) (*Client, error) {
	conn, err := amqp.Dial(cfg.GetRabbitMQURL())
	if err != nil {
		return nil, fmt.Errorf("failed to dial rabbitmq: %w", err)
	}

	c := &Client{conn: conn, log: log}
	if err := c.declareTopology(); err != nil {
		conn.Close()
		return nil, err
	}

	return c, nil
}

// declareTopology sets up the dispatch exchange and one queue per channel.
func (c *Client) declareTopology() error {
	ch, err := c.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open topology channel: %w", err)
	}
	defer ch.Close()

	if err := ch.ExchangeDeclare(
		ExchangeNotify, // name
		"topic",        // kind
		true,           // durable
		false,          // auto-delete
		false,          // internal
		false,          // no-wait
		nil,
	); err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	if err := ch.ExchangeDeclare(
		ExchangeNotifyDelayed,
		"x-delayed-message",
		true,
		false,
		false,
		false,
		amqp.Table{"x-delayed-type": "topic"},
	); err != nil {
		return fmt.Errorf("failed to declare delayed exchange: %w", err)
	}

	for _, channel := range []string{"push", "sms", "email"} {
		queue := QueueName(channel)
		if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
			return fmt.Errorf("failed to declare queue %s: %w", queue, err)
		}
		if err := ch.QueueBind(queue, queue, ExchangeNotify, false, nil); err != nil {
			return fmt.Errorf("failed to bind queue %s: %w", queue, err)
		}
		if err := ch.QueueBind(queue, queue, ExchangeNotifyDelayed, false, nil); err != nil {
			return fmt.Errorf("failed to bind queue %s to delayed exchange: %w", queue, err)
		}
	}

	return nil
}

func (c *Client) Connection() *amqp.Connection {
	return c.conn
}

func (c *Client) Close(ctx context.Context) error {
	if c == nil || c.conn == nil {
		return nil
	}

	done := make(chan error, 1)
	go func() {
		done <- c.conn.Close()
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		return err
	}
}
