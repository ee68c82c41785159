// Package queue moves due notifications from the database queue onto the MQ
// and delivers them through channel providers on the consuming side.
package queue

import (
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"Remindly/internal/model"
	"Remindly/pkg/snowflake"
	"Remindly/storage/mq"
	"Remindly/utils"
)

// Producer publishes one dispatch message per due queue entry. Messages are
// routed to the channel queue matching entry.Channel; message ids key the
// consumer-side idempotency marks.
type Producer struct {
	mq  *mq.Client
	log *zap.Logger
}

func NewProducer(client *mq.Client, log *zap.Logger) *Producer {
	return &Producer{mq: client, log: log}
}

func (p *Producer) PublishDispatch(entry *model.QueueEntry) error {
	return p.publish(entry, 0)
}

// PublishDispatchDelayed stages an entry on the broker ahead of its fire
// time; the delayed-message exchange holds it until the delay elapses.
func (p *Producer) PublishDispatchDelayed(entry *model.QueueEntry, delay time.Duration) error {
	return p.publish(entry, delay)
}

func (p *Producer) publish(entry *model.QueueEntry, delay time.Duration) error {
	msgID, err := snowflake.NextID()
	if err != nil {
		return fmt.Errorf("dispatch message id: %w", err)
	}

	msg := model.DispatchMessage{
		MessageID:   strconv.FormatInt(msgID, 10),
		EntryID:     entry.ID,
		ReminderID:  entry.ReminderID,
		SettingID:   entry.NotificationSettingID,
		OwnerID:     entry.OwnerID,
		Channel:     entry.Channel,
		Title:       entry.Title,
		Notes:       entry.Notes,
		DueAt:       utils.FormatInstant(entry.DueAt),
		ScheduledAt: utils.FormatInstant(entry.ScheduledAt),
		Timezone:    entry.Timezone,
	}

	routingKey := mq.QueueName(string(entry.Channel))
	if delay > 0 {
		err = p.mq.PublishDelayed(mq.ExchangeNotifyDelayed, routingKey, delay, msg)
	} else {
		err = p.mq.Publish(mq.ExchangeNotify, routingKey, msg)
	}
	if err != nil {
		return fmt.Errorf("publish dispatch %s: %w", entry.ID, err)
	}

	p.log.Debug("dispatch published",
		zap.String("entry_id", entry.ID),
		zap.String("channel", string(entry.Channel)),
		zap.String("routing_key", routingKey),
		zap.Duration("delay", delay))
	return nil
}
