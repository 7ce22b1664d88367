package payments

import (
	"time"

	"github.com/google/uuid"
)

type RecordPayoutRequest struct {
	BookingID uuid.UUID  `json:"booking_id" binding:"required"`
	Date      string     `json:"date" binding:"omitempty,datetime=2006-01-02"`
	Mode      PayoutMode `json:"mode" binding:"required,oneof=cash bank_transfer upi cheque"`
	// Amount defaults to the booking's net payable
	Amount    *float64 `json:"amount" binding:"omitempty,gt=0"`
	Reference string   `json:"reference" binding:"max=100"`
	Notes     string   `json:"notes" binding:"max=1000"`
}

type PayoutListQuery struct {
	Page     int        `form:"page" binding:"omitempty,min=1"`
	Limit    int        `form:"limit" binding:"omitempty,min=1,max=100"`
	Mode     PayoutMode `form:"mode" binding:"omitempty,oneof=cash bank_transfer upi cheque"`
	VendorID string     `form:"vendor_id" binding:"omitempty,uuid"`
	From     string     `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To       string     `form:"to" binding:"omitempty,datetime=2006-01-02"`
}

type RolloutResponse struct {
	ID         uuid.UUID  `json:"id"`
	BookingID  uuid.UUID  `json:"booking_id"`
	BookingRef string     `json:"booking_ref,omitempty"`
	VendorID   uuid.UUID  `json:"vendor_id"`
	Date       string     `json:"date"`
	Mode       PayoutMode `json:"mode"`
	Amount     float64    `json:"amount"`
	Reference  string     `json:"reference,omitempty"`
	Notes      string     `json:"notes,omitempty"`
	RecordedBy uuid.UUID  `json:"recorded_by"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

type PaginatedRollouts struct {
	Payouts    []RolloutResponse `json:"payouts"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
}

func (p *PaymentRollout) ToResponse() RolloutResponse {
	return RolloutResponse{
		ID:         p.ID,
		BookingID:  p.BookingID,
		VendorID:   p.VendorID,
		Date:       p.Date,
		Mode:       p.Mode,
		Amount:     p.Amount,
		Reference:  p.Reference,
		Notes:      p.Notes,
		RecordedBy: p.RecordedBy,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}
