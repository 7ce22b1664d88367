package bookings

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"playarena/internal/settlement"
)

// Booking is an order against one booking chart
type Booking struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	BookingRef string    `gorm:"type:varchar(30);uniqueIndex;not null" json:"booking_ref"`
	UserID     uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	EventID    uuid.UUID `gorm:"type:uuid;index;not null" json:"event_id"`
	VendorID   uuid.UUID `gorm:"type:uuid;index;not null" json:"vendor_id"`
	ChartID    uuid.UUID `gorm:"type:uuid;index;not null" json:"chart_id"`

	// The chart may be reconciled away later, so its slot is copied here
	ChartDate string `gorm:"type:varchar(10);not null" json:"chart_date"`
	SlotStart string `gorm:"type:varchar(5)" json:"slot_start"`
	SlotEnd   string `gorm:"type:varchar(5)" json:"slot_end"`

	Seats   int        `gorm:"not null" json:"seats"`
	Items   []LineItem `gorm:"type:text;serializer:json" json:"items"`
	Members []Member   `gorm:"type:text;serializer:json" json:"members"`

	Currency            string `gorm:"type:varchar(3);not null" json:"currency"`
	AmountMinor         int64  `gorm:"not null" json:"amount_minor"`
	VendorGSTRegistered bool   `json:"vendor_gst_registered"`

	settlement.Breakdown `gorm:"embedded;embeddedPrefix:settle_"`

	Status           Status     `gorm:"type:varchar(20);not null;index;check:status IN ('pending','success','failed')" json:"status"`
	GatewayOrderID   string     `gorm:"type:varchar(100);index" json:"gateway_order_id"`
	GatewayPaymentID string     `gorm:"type:varchar(100)" json:"gateway_payment_id"`
	FailureReason    string     `gorm:"type:text" json:"failure_reason,omitempty"`
	PaidAt           *time.Time `json:"paid_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LineItem is one priced tier of an order
type LineItem struct {
	TierID     uuid.UUID `json:"tier_id"`
	Name       string    `json:"name"`
	Quantity   int       `json:"quantity"`
	Units      int       `json:"units"`
	UnitAmount float64   `json:"unit_amount"`
	Subtotal   float64   `json:"subtotal"`
}

// Member is one participant on the booking roster
type Member struct {
	Name  string `json:"name" binding:"required,max=100"`
	Age   int    `json:"age,omitempty" binding:"omitempty,min=1,max=120"`
	Phone string `json:"phone,omitempty" binding:"omitempty,max=20"`
}

func (Booking) TableName() string {
	return "bookings"
}

func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

func lineItems(items []OrderItem) []LineItem {
	out := make([]LineItem, 0, len(items))
	for _, item := range items {
		out = append(out, LineItem{
			TierID:     item.TierID,
			Name:       item.Name,
			Quantity:   item.Quantity,
			Units:      item.Units(),
			UnitAmount: item.UnitAmount,
			Subtotal:   item.Subtotal(),
		})
	}
	return out
}
