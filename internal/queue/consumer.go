package queue

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"Remindly/config"
	"Remindly/internal/cache"
	"Remindly/internal/model"
	"Remindly/internal/repository"
	"Remindly/pkg/email"
	"Remindly/pkg/errors"
	"Remindly/pkg/metrics"
	"Remindly/pkg/push"
	"Remindly/pkg/sms"
	"Remindly/storage/mq"
	"Remindly/utils"
)

const (
	processingMarkTTL = 10 * time.Minute
	processedMarkTTL  = 24 * time.Hour
	prefetchCount     = 16
)

// Consumer drains the per-channel MQ queues and hands each message to the
// matching provider. Idempotency marks are keyed by entry id, because the
// dispatch poller republishes an entry on every sweep until it is sent.
type Consumer struct {
	mq        *mq.Client
	marks     *cache.Marks
	queue     *repository.QueueRepository
	reminders *repository.ReminderRepository
	contacts  *repository.ContactRepository
	subs      *repository.SubscriptionRepository

	smsClient sms.Client
	emailProv email.Provider
	pushProv  push.Provider

	metrics *metrics.QueueMetrics
	log     *zap.Logger

	signName     string
	templateCode string
}

func NewConsumer(
	cfg *config.Config,
	client *mq.Client,
	marks *cache.Marks,
	queueRepo *repository.QueueRepository,
	reminders *repository.ReminderRepository,
	contacts *repository.ContactRepository,
	subs *repository.SubscriptionRepository,
	smsClient sms.Client,
	emailProv email.Provider,
	pushProv push.Provider,
	qm *metrics.QueueMetrics,
	log *zap.Logger,
) *Consumer {
	return &Consumer{
		mq:           client,
		marks:        marks,
		queue:        queueRepo,
		reminders:    reminders,
		contacts:     contacts,
		subs:         subs,
		smsClient:    smsClient,
		emailProv:    emailProv,
		pushProv:     pushProv,
		metrics:      qm,
		log:          log,
		signName:     cfg.SMSSignName,
		templateCode: cfg.SMSTemplateCode,
	}
}

// Start launches one blocking consume loop per channel. Each loop exits when
// its AMQP channel closes; errors surface through the returned channel.
func (c *Consumer) Start(ctx context.Context) <-chan error {
	errCh := make(chan error, 3)
	for _, channel := range []model.Channel{model.ChannelPush, model.ChannelSMS, model.ChannelEmail} {
		channel := channel
		go func() {
			errCh <- c.mq.Consume(mq.ConsumeOptions{
				Queue:         mq.QueueName(string(channel)),
				ConsumerTag:   "remindly-" + string(channel),
				PrefetchCount: prefetchCount,
				Handler: func(body []byte) error {
					return c.handle(ctx, channel, body)
				},
			})
		}()
	}
	return errCh
}

func (c *Consumer) handle(ctx context.Context, channel model.Channel, body []byte) error {
	var msg model.DispatchMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		// Malformed payloads can never succeed; drop instead of requeue.
		return &errors.SkipMessageError{Reason: "malformed dispatch message"}
	}
	if msg.Channel != channel {
		return &errors.SkipMessageError{Reason: "message routed to wrong channel queue"}
	}

	won, err := c.marks.TryMarkProcessing(ctx, msg.EntryID, processingMarkTTL)
	if err != nil {
		return fmt.Errorf("idempotency mark: %w", err)
	}
	if !won {
		return &errors.SkipMessageError{Reason: "entry already processed"}
	}

	start := time.Now()
	err = c.deliver(ctx, &msg)
	c.metrics.RecordDispatch(ctx, string(channel), err)
	c.metrics.SendDuration.Record(ctx, time.Since(start).Seconds())
	if err != nil {
		var skip *errors.SkipMessageError
		if stderrors.As(err, &skip) {
			// Undeliverable, not transient: retire the entry so it stops
			// being republished. The setting stays unsent so sibling
			// channels of the same setting are unaffected.
			c.retire(ctx, &msg)
			return err
		}
		if unmarkErr := c.marks.Unmark(ctx, msg.EntryID); unmarkErr != nil {
			c.log.Warn("unmark failed", zap.String("entry_id", msg.EntryID), zap.Error(unmarkErr))
		}
		return err
	}

	c.finish(ctx, &msg)
	return nil
}

// finish retires a delivered entry: flips the queue row, records the sent
// flag on the reminder's setting, and pins the idempotency mark.
func (c *Consumer) finish(ctx context.Context, msg *model.DispatchMessage) {
	c.retire(ctx, msg)
	if err := c.markSettingSent(ctx, msg); err != nil {
		c.log.Error("mark setting sent failed",
			zap.String("reminder_id", msg.ReminderID),
			zap.String("setting_id", msg.SettingID),
			zap.Error(err))
	}
}

// retire stops an entry from being republished without touching the
// reminder's setting state.
func (c *Consumer) retire(ctx context.Context, msg *model.DispatchMessage) {
	if err := c.queue.MarkSent(ctx, msg.EntryID); err != nil {
		c.log.Error("mark entry sent failed",
			zap.String("entry_id", msg.EntryID), zap.Error(err))
	}
	if err := c.marks.MarkProcessed(ctx, msg.EntryID, processedMarkTTL); err != nil {
		c.log.Warn("extend mark failed", zap.String("entry_id", msg.EntryID), zap.Error(err))
	}
}

func (c *Consumer) markSettingSent(ctx context.Context, msg *model.DispatchMessage) error {
	rem, err := c.reminders.GetByID(ctx, msg.ReminderID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil
		}
		return err
	}
	if !rem.MarkSettingSent(msg.SettingID) {
		return nil
	}
	return c.reminders.Save(ctx, rem)
}

func (c *Consumer) deliver(ctx context.Context, msg *model.DispatchMessage) error {
	switch msg.Channel {
	case model.ChannelSMS:
		return c.deliverSMS(ctx, msg)
	case model.ChannelEmail:
		return c.deliverEmail(ctx, msg)
	case model.ChannelPush:
		return c.deliverPush(ctx, msg)
	default:
		return &errors.SkipMessageError{Reason: "unknown channel " + string(msg.Channel)}
	}
}

func (c *Consumer) deliverSMS(ctx context.Context, msg *model.DispatchMessage) error {
	phone, err := c.contacts.GetAddress(ctx, msg.OwnerID, model.ChannelSMS)
	if err != nil {
		if repository.IsNotFound(err) {
			return &errors.SkipMessageError{Reason: "owner has no sms contact"}
		}
		return fmt.Errorf("resolve sms contact: %w", err)
	}

	param, err := json.Marshal(map[string]string{
		"title": msg.Title,
		"time":  c.localDue(msg),
	})
	if err != nil {
		return fmt.Errorf("marshal sms template param: %w", err)
	}
	return c.smsClient.SendSingle(ctx, phone, c.signName, c.templateCode, string(param))
}

func (c *Consumer) deliverEmail(ctx context.Context, msg *model.DispatchMessage) error {
	address, err := c.contacts.GetAddress(ctx, msg.OwnerID, model.ChannelEmail)
	if err != nil {
		if repository.IsNotFound(err) {
			return &errors.SkipMessageError{Reason: "owner has no email contact"}
		}
		return fmt.Errorf("resolve email contact: %w", err)
	}

	body := fmt.Sprintf("Reminder: %s\nDue: %s", msg.Title, c.localDue(msg))
	if msg.Notes != "" {
		body += "\n\n" + msg.Notes
	}
	return c.emailProv.Send(ctx, email.Message{
		To:      address,
		Subject: "Reminder: " + msg.Title,
		Body:    body,
	})
}

func (c *Consumer) deliverPush(ctx context.Context, msg *model.DispatchMessage) error {
	subs, err := c.subs.ListByOwner(ctx, msg.OwnerID)
	if err != nil {
		return fmt.Errorf("list push subscriptions: %w", err)
	}
	if len(subs) == 0 {
		return &errors.SkipMessageError{Reason: "owner has no push subscriptions"}
	}

	delivered := 0
	var lastErr error
	for _, sub := range subs {
		err := c.pushProv.Send(ctx, push.Notification{
			Endpoint: sub.Endpoint,
			Title:    msg.Title,
			Body:     msg.Notes,
		})
		switch {
		case err == nil:
			delivered++
		case stderrors.Is(err, push.ErrEndpointGone):
			// Dead endpoint: drop it so future pushes stop trying.
			if delErr := c.subs.Delete(ctx, sub.ID); delErr != nil {
				c.log.Warn("delete stale subscription failed",
					zap.String("subscription_id", sub.ID), zap.Error(delErr))
			}
		default:
			lastErr = err
		}
	}

	if delivered > 0 {
		return nil
	}
	if lastErr != nil {
		return lastErr
	}
	return &errors.SkipMessageError{Reason: "all push endpoints gone"}
}

// localDue renders the due instant in the reminder's timezone for message
// bodies. Falls back to the wire string when parsing fails.
func (c *Consumer) localDue(msg *model.DispatchMessage) string {
	due, err := utils.ParseInstant(msg.DueAt)
	if err != nil {
		return msg.DueAt
	}
	loc, err := time.LoadLocation(msg.Timezone)
	if err != nil {
		loc = time.UTC
	}
	return due.In(loc).Format("2006-01-02 15:04")
}
