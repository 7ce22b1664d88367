package notifications

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// EventType names a booking lifecycle transition
type EventType string

const (
	EventBookingCreated   EventType = "booking.created"
	EventBookingConfirmed EventType = "booking.confirmed"
	EventBookingFailed    EventType = "booking.failed"
	EventPayoutRecorded   EventType = "payout.recorded"
)

func (t EventType) IsValid() bool {
	switch t {
	case EventBookingCreated, EventBookingConfirmed, EventBookingFailed, EventPayoutRecorded:
		return true
	}
	return false
}

// Message is the payload written to the booking topic
type Message struct {
	ID         uuid.UUID `json:"id"`
	Type       EventType `json:"type"`
	BookingID  uuid.UUID `json:"booking_id"`
	BookingRef string    `json:"booking_ref,omitempty"`
	EventID    uuid.UUID `json:"event_id,omitempty"`
	UserID     uuid.UUID `json:"user_id,omitempty"`
	VendorID   uuid.UUID `json:"vendor_id,omitempty"`
	Status     string    `json:"status,omitempty"`
	Amount     float64   `json:"amount"`
	Currency   string    `json:"currency,omitempty"`
	Reason     string    `json:"reason,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewMessage stamps a message with a fresh id and the current time
func NewMessage(eventType EventType, bookingID uuid.UUID) *Message {
	return &Message{
		ID:         uuid.New(),
		Type:       eventType,
		BookingID:  bookingID,
		OccurredAt: time.Now().UTC(),
	}
}

// PartitionKey keeps every transition of one booking on the same partition
func (m *Message) PartitionKey() string {
	return m.BookingID.String()
}

func (m *Message) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func MessageFromJSON(data []byte) (*Message, error) {
	var m Message
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}
