package bookings

import (
	"time"

	"github.com/google/uuid"

	"playarena/internal/settlement"
)

type ItemRequest struct {
	TierID   uuid.UUID `json:"tier_id" binding:"required"`
	Quantity int       `json:"quantity" binding:"min=0,max=1000"`
}

type CreateOrderRequest struct {
	ChartID uuid.UUID     `json:"chart_id" binding:"required"`
	Items   []ItemRequest `json:"items" binding:"required,min=1,dive"`
	Members []Member      `json:"members" binding:"omitempty,max=100,dive"`
}

type VerifyPaymentRequest struct {
	OrderID   string `json:"order_id" binding:"required"`
	PaymentID string `json:"payment_id" binding:"required"`
	Signature string `json:"signature" binding:"required"`
}

type BookingListQuery struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	Limit    int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Status   Status `form:"status" binding:"omitempty,oneof=pending success failed"`
	EventID  string `form:"event_id" binding:"omitempty,uuid"`
	DateFrom string `form:"date_from" binding:"omitempty,datetime=2006-01-02"`
	DateTo   string `form:"date_to" binding:"omitempty,datetime=2006-01-02"`
}

type BookingResponse struct {
	ID         uuid.UUID  `json:"id"`
	BookingRef string     `json:"booking_ref"`
	UserID     uuid.UUID  `json:"user_id"`
	EventID    uuid.UUID  `json:"event_id"`
	VendorID   uuid.UUID  `json:"vendor_id"`
	ChartID    uuid.UUID  `json:"chart_id"`
	ChartDate  string     `json:"chart_date"`
	SlotStart  string     `json:"slot_start"`
	SlotEnd    string     `json:"slot_end"`
	Seats      int        `json:"seats"`
	Items      []LineItem `json:"items"`
	Members    []Member   `json:"members"`
	Currency   string     `json:"currency"`

	// Settlement is rounded to the currency's minor unit
	Settlement       settlement.Breakdown `json:"settlement"`
	AmountMinor      int64                `json:"amount_minor"`
	Status           Status               `json:"status"`
	GatewayOrderID   string               `json:"gateway_order_id,omitempty"`
	GatewayPaymentID string               `json:"gateway_payment_id,omitempty"`
	FailureReason    string               `json:"failure_reason,omitempty"`
	PaidAt           *time.Time           `json:"paid_at,omitempty"`
	CreatedAt        time.Time            `json:"created_at"`
}

// OrderResponse carries what a checkout needs to collect payment
type OrderResponse struct {
	Booking        BookingResponse `json:"booking"`
	GatewayOrderID string          `json:"gateway_order_id"`
	GatewayKeyID   string          `json:"gateway_key_id,omitempty"`
	AmountMinor    int64           `json:"amount_minor"`
	Currency       string          `json:"currency"`
}

type PaginatedBookings struct {
	Bookings   []BookingResponse `json:"bookings"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
}

func (b *Booking) ToResponse() BookingResponse {
	return BookingResponse{
		ID:               b.ID,
		BookingRef:       b.BookingRef,
		UserID:           b.UserID,
		EventID:          b.EventID,
		VendorID:         b.VendorID,
		ChartID:          b.ChartID,
		ChartDate:        b.ChartDate,
		SlotStart:        b.SlotStart,
		SlotEnd:          b.SlotEnd,
		Seats:            b.Seats,
		Items:            b.Items,
		Members:          b.Members,
		Currency:         b.Currency,
		Settlement:       b.Breakdown.Rounded(),
		AmountMinor:      b.AmountMinor,
		Status:           b.Status,
		GatewayOrderID:   b.GatewayOrderID,
		GatewayPaymentID: b.GatewayPaymentID,
		FailureReason:    b.FailureReason,
		PaidAt:           b.PaidAt,
		CreatedAt:        b.CreatedAt,
	}
}
