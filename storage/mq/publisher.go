package mq

import (
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// getPublisherChannel returns the shared publish channel, recreating it if the
// broker closed it. Read lock first since publishes far outnumber reconnects.
func (c *Client) getPublisherChannel() (*amqp.Channel, error) {
	c.pubMutex.RLock()
	if c.pubCh != nil && !c.pubCh.IsClosed() {
		ch := c.pubCh
		c.pubMutex.RUnlock()
		return ch, nil
	}
	c.pubMutex.RUnlock()

	c.pubMutex.Lock()
	defer c.pubMutex.Unlock()

	if c.pubCh != nil && !c.pubCh.IsClosed() {
		return c.pubCh, nil
	}

	if c.conn == nil {
		return nil, fmt.Errorf("RabbitMQ connection is nil")
	}

	ch, err := c.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open publish channel: %w", err)
	}

	c.pubCh = ch

	go func() {
		closeChan := make(chan *amqp.Error, 1)
		closeChan = ch.NotifyClose(closeChan)
		<-closeChan

		c.pubMutex.Lock()
		c.pubCh = nil
		c.pubMutex.Unlock()

		c.log.Warn("Publisher channel closed, will recreate on next publish",
			zap.String("component", "rabbitmq"),
		)
	}()

	c.log.Info("Publisher channel created",
		zap.String("component", "rabbitmq"),
	)

	return ch, nil
}

// Publish sends a persistent JSON message.
func (c *Client) Publish(exchange, routingKey string, body interface{}) error {
	ch, err := c.getPublisherChannel()
	if err != nil {
		return err
	}

	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	return ch.Publish(
		exchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         bodyBytes,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		},
	)
}

// PublishDelayed sends a persistent JSON message through a delayed-message
// exchange using the x-delay header (milliseconds).
func (c *Client) PublishDelayed(exchange, routingKey string, delay time.Duration, body interface{}) error {
	ch, err := c.getPublisherChannel()
	if err != nil {
		return err
	}

	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	err = ch.Publish(
		exchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        bodyBytes,
			Headers: amqp.Table{
				"x-delay": delay.Milliseconds(),
			},
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish delayed message: %w", err)
	}
	return nil
}
