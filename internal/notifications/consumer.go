package notifications

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"

	"playarena/internal/shared/config"
	"playarena/pkg/logger"
)

// Handler reacts to one decoded booking message
type Handler interface {
	Handle(ctx context.Context, msg *Message) error
}

type HandlerFunc func(ctx context.Context, msg *Message) error

func (f HandlerFunc) Handle(ctx context.Context, msg *Message) error { return f(ctx, msg) }

// LogHandler records every lifecycle message in the structured log
func LogHandler() Handler {
	return HandlerFunc(func(ctx context.Context, msg *Message) error {
		logger.GetDefault().InfoWithContext(ctx, "Booking event received", map[string]interface{}{
			"type":        string(msg.Type),
			"booking_id":  msg.BookingID.String(),
			"booking_ref": msg.BookingRef,
			"status":      msg.Status,
			"amount":      msg.Amount,
		})
		return nil
	})
}

// ContactResolver looks up where a user is notified
type ContactResolver interface {
	GetContact(ctx context.Context, userID uuid.UUID) (email, name string, err error)
}

// RecipientHandler resolves the booking owner before handing the message to next.
// Payout messages carry no user and go straight through.
func RecipientHandler(contacts ContactResolver, next Handler) Handler {
	return HandlerFunc(func(ctx context.Context, msg *Message) error {
		if msg.UserID == uuid.Nil {
			return next.Handle(ctx, msg)
		}
		email, name, err := contacts.GetContact(ctx, msg.UserID)
		if err != nil {
			return fmt.Errorf("failed to resolve recipient: %w", err)
		}
		logger.GetDefault().InfoWithContext(ctx, "Notification recipient resolved", map[string]interface{}{
			"booking_id": msg.BookingID.String(),
			"type":       string(msg.Type),
			"email":      email,
			"name":       name,
		})
		return next.Handle(ctx, msg)
	})
}

// Consumer runs a consumer group over the booking topic
type Consumer struct {
	group      sarama.ConsumerGroup
	topics     []string
	handler    Handler
	maxRetries int
	backoff    time.Duration
}

func NewConsumer(cfg config.KafkaConfig, handler Handler) (*Consumer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.ClientID = cfg.ClientID
	saramaConfig.Consumer.Group.Session.Timeout = 30 * time.Second
	saramaConfig.Consumer.Group.Heartbeat.Interval = 3 * time.Second
	saramaConfig.Consumer.Return.Errors = true
	saramaConfig.Consumer.Offsets.Initial = sarama.OffsetNewest
	saramaConfig.Consumer.Offsets.AutoCommit.Enable = true
	saramaConfig.Consumer.Offsets.AutoCommit.Interval = time.Second

	group, err := sarama.NewConsumerGroup(cfg.Brokers, cfg.GroupID, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer group: %w", err)
	}

	return &Consumer{
		group:      group,
		topics:     []string{cfg.Topic},
		handler:    handler,
		maxRetries: 3,
		backoff:    time.Second,
	}, nil
}

// Run blocks until ctx is cancelled or the group is closed. Sarama serves every
// claimed partition from its own goroutine, so partitions are handled in parallel
// and records within one partition stay in order.
func (c *Consumer) Run(ctx context.Context) {
	log := logger.GetDefault()

	go func() {
		for err := range c.group.Errors() {
			log.ErrorWithContext(ctx, "Consumer group error", err, nil)
		}
	}()

	handler := &groupHandler{consumer: c}
	for ctx.Err() == nil {
		err := c.group.Consume(ctx, c.topics, handler)
		if errors.Is(err, sarama.ErrClosedConsumerGroup) {
			return
		}
		if err != nil {
			log.ErrorWithContext(ctx, "Consume failed", err, nil)
			select {
			case <-time.After(c.backoff):
			case <-ctx.Done():
			}
		}
	}
}

func (c *Consumer) Close() error {
	if err := c.group.Close(); err != nil {
		return fmt.Errorf("failed to close consumer group: %w", err)
	}
	return nil
}

// process decodes a record and hands it to the handler with exponential backoff
func (c *Consumer) process(ctx context.Context, value []byte) error {
	msg, err := MessageFromJSON(value)
	if err != nil {
		return fmt.Errorf("failed to unmarshal message: %w", err)
	}

	for attempt := 0; ; attempt++ {
		err = c.handler.Handle(ctx, msg)
		if err == nil || attempt == c.maxRetries {
			return err
		}
		select {
		case <-time.After(c.backoff * time.Duration(1<<attempt)):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

type groupHandler struct {
	consumer *Consumer
}

func (h *groupHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *groupHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *groupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case record, ok := <-claim.Messages():
			if !ok {
				return nil
			}
			if err := h.consumer.process(session.Context(), record.Value); err != nil {
				logger.GetDefault().ErrorWithContext(session.Context(), "Dropping booking event", err, map[string]interface{}{
					"partition": record.Partition,
					"offset":    record.Offset,
				})
			}
			// poison records are logged and skipped so the partition keeps moving
			session.MarkMessage(record, "")
		case <-session.Context().Done():
			return nil
		}
	}
}
