package notifications

import (
	"context"
	"fmt"
	"time"

	"github.com/IBM/sarama"

	"playarena/internal/shared/config"
	"playarena/pkg/logger"
)

// Publisher emits booking lifecycle messages
type Publisher interface {
	Publish(ctx context.Context, msg *Message) error
	Close() error
}

// KafkaPublisher writes messages to a single topic through a sync producer
type KafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
}

// NewKafkaPublisher dials the brokers in cfg
func NewKafkaPublisher(cfg config.KafkaConfig) (*KafkaPublisher, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.ClientID = cfg.ClientID

	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Compression = sarama.CompressionSnappy
	saramaConfig.Producer.Retry.Max = 3
	saramaConfig.Producer.Timeout = 10 * time.Second
	saramaConfig.Producer.Idempotent = true
	saramaConfig.Net.MaxOpenRequests = 1

	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(cfg.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	return NewKafkaPublisherWithProducer(producer, cfg.Topic), nil
}

// NewKafkaPublisherWithProducer wraps an existing producer
func NewKafkaPublisherWithProducer(producer sarama.SyncProducer, topic string) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

func (p *KafkaPublisher) Publish(ctx context.Context, msg *Message) error {
	if !msg.Type.IsValid() {
		return fmt.Errorf("unknown event type %q", msg.Type)
	}

	value, err := msg.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	partition, offset, err := p.producer.SendMessage(&sarama.ProducerMessage{
		Topic:     p.topic,
		Key:       sarama.StringEncoder(msg.PartitionKey()),
		Value:     sarama.ByteEncoder(value),
		Headers:   headers(msg),
		Timestamp: msg.OccurredAt,
	})
	if err != nil {
		return fmt.Errorf("failed to send %s to Kafka: %w", msg.Type, err)
	}

	logger.GetDefault().DebugWithContext(ctx, "Booking event published", map[string]interface{}{
		"type":       string(msg.Type),
		"booking_id": msg.BookingID.String(),
		"partition":  partition,
		"offset":     offset,
	})
	return nil
}

func headers(msg *Message) []sarama.RecordHeader {
	return []sarama.RecordHeader{
		{Key: []byte("event_type"), Value: []byte(msg.Type)},
		{Key: []byte("message_id"), Value: []byte(msg.ID.String())},
		{Key: []byte("booking_id"), Value: []byte(msg.BookingID.String())},
		{Key: []byte("producer"), Value: []byte("playarena-api")},
		{Key: []byte("version"), Value: []byte("1")},
	}
}

func (p *KafkaPublisher) Close() error {
	if p.producer == nil {
		return nil
	}
	if err := p.producer.Close(); err != nil {
		return fmt.Errorf("failed to close Kafka producer: %w", err)
	}
	return nil
}

// NoopPublisher drops every message
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, *Message) error { return nil }
func (NoopPublisher) Close() error                            { return nil }

// NewPublisher returns a Kafka publisher when enabled and a no-op one otherwise
func NewPublisher(cfg config.KafkaConfig) (Publisher, error) {
	if !cfg.Enabled {
		return NoopPublisher{}, nil
	}
	return NewKafkaPublisher(cfg)
}

// PublishSafely logs publish failures instead of returning them. Booking
// state is already committed when lifecycle messages go out.
func PublishSafely(ctx context.Context, p Publisher, msg *Message) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, msg); err != nil {
		logger.GetDefault().ErrorWithContext(ctx, "Failed to publish booking event", err, map[string]interface{}{
			"type":       string(msg.Type),
			"booking_id": msg.BookingID.String(),
		})
	}
}
