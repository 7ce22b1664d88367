package notifications

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"playarena/internal/shared/config"
)

func headerValue(msg *sarama.ProducerMessage, key string) string {
	for _, h := range msg.Headers {
		if string(h.Key) == key {
			return string(h.Value)
		}
	}
	return ""
}

func TestKafkaPublisher_KeysByBookingAndSetsHeaders(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	defer producer.Close()

	msg := NewMessage(EventBookingConfirmed, uuid.New())
	msg.Amount = 1059

	producer.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(pm *sarama.ProducerMessage) error {
		key, err := pm.Key.Encode()
		if err != nil {
			return err
		}
		if string(key) != msg.BookingID.String() {
			return errors.New("message not keyed by booking id")
		}
		if headerValue(pm, "event_type") != string(EventBookingConfirmed) {
			return errors.New("event_type header missing")
		}
		value, err := pm.Value.Encode()
		if err != nil {
			return err
		}
		decoded, err := MessageFromJSON(value)
		if err != nil {
			return err
		}
		if decoded.Amount != 1059 {
			return errors.New("payload amount mismatch")
		}
		return nil
	})

	publisher := NewKafkaPublisherWithProducer(producer, "playarena.bookings")
	require.NoError(t, publisher.Publish(context.Background(), msg))
}

func TestKafkaPublisher_SurfacesSendFailure(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	defer producer.Close()
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	publisher := NewKafkaPublisherWithProducer(producer, "playarena.bookings")
	err := publisher.Publish(context.Background(), NewMessage(EventBookingCreated, uuid.New()))

	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)
}

func TestKafkaPublisher_RejectsUnknownType(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	defer producer.Close()

	publisher := NewKafkaPublisherWithProducer(producer, "playarena.bookings")
	err := publisher.Publish(context.Background(), NewMessage(EventType("booking.lost"), uuid.New()))

	assert.Error(t, err)
}

func TestNewPublisher_DisabledIsNoop(t *testing.T) {
	p, err := NewPublisher(config.KafkaConfig{Enabled: false})

	require.NoError(t, err)
	assert.IsType(t, NoopPublisher{}, p)
	assert.NoError(t, p.Publish(context.Background(), NewMessage(EventBookingCreated, uuid.New())))
}

func TestConsumerProcess_RetriesThenSucceeds(t *testing.T) {
	attempts := 0
	c := &Consumer{
		handler: HandlerFunc(func(ctx context.Context, msg *Message) error {
			attempts++
			if attempts < 3 {
				return errors.New("transient")
			}
			return nil
		}),
		maxRetries: 3,
		backoff:    time.Millisecond,
	}

	value, err := NewMessage(EventPayoutRecorded, uuid.New()).ToJSON()
	require.NoError(t, err)

	require.NoError(t, c.process(context.Background(), value))
	assert.Equal(t, 3, attempts)
}

func TestConsumerProcess_RejectsGarbage(t *testing.T) {
	c := &Consumer{handler: LogHandler(), maxRetries: 1, backoff: time.Millisecond}

	assert.Error(t, c.process(context.Background(), []byte("{not json")))
}

// fakeGroup serves Consume from a scripted list of results
type fakeGroup struct {
	sarama.ConsumerGroup
	results []error
	calls   int
	errs    chan error
}

func (g *fakeGroup) Consume(ctx context.Context, _ []string, _ sarama.ConsumerGroupHandler) error {
	g.calls++
	if g.calls > len(g.results) {
		return sarama.ErrClosedConsumerGroup
	}
	return g.results[g.calls-1]
}

func (g *fakeGroup) Errors() <-chan error { return g.errs }

func TestConsumerRun_StopsWhenGroupClosed(t *testing.T) {
	group := &fakeGroup{results: []error{nil, errors.New("rebalance"), nil}, errs: make(chan error)}
	defer close(group.errs)
	c := &Consumer{group: group, topics: []string{"bookings"}, handler: LogHandler(), backoff: time.Millisecond}

	done := make(chan struct{})
	go func() {
		c.Run(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after the group closed")
	}
	assert.Equal(t, 4, group.calls)
}

type contactBook map[uuid.UUID]string

func (b contactBook) GetContact(_ context.Context, userID uuid.UUID) (string, string, error) {
	email, ok := b[userID]
	if !ok {
		return "", "", errors.New("user not found")
	}
	return email, "Asha Rao", nil
}

func TestRecipientHandler(t *testing.T) {
	known := uuid.New()
	var handled []EventType
	next := HandlerFunc(func(_ context.Context, msg *Message) error {
		handled = append(handled, msg.Type)
		return nil
	})
	handler := RecipientHandler(contactBook{known: "asha@example.com"}, next)
	ctx := context.Background()

	confirmed := NewMessage(EventBookingConfirmed, uuid.New())
	confirmed.UserID = known
	require.NoError(t, handler.Handle(ctx, confirmed))

	require.NoError(t, handler.Handle(ctx, NewMessage(EventPayoutRecorded, uuid.New())))

	stranger := NewMessage(EventBookingFailed, uuid.New())
	stranger.UserID = uuid.New()
	assert.Error(t, handler.Handle(ctx, stranger))

	assert.Equal(t, []EventType{EventBookingConfirmed, EventPayoutRecorded}, handled)
}
