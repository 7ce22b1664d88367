package payments

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PayoutMode string

const (
	PayoutModeCash         PayoutMode = "cash"
	PayoutModeBankTransfer PayoutMode = "bank_transfer"
	PayoutModeUPI          PayoutMode = "upi"
	PayoutModeCheque       PayoutMode = "cheque"
)

func (m PayoutMode) IsValid() bool {
	switch m {
	case PayoutModeCash, PayoutModeBankTransfer, PayoutModeUPI, PayoutModeCheque:
		return true
	}
	return false
}

// PaymentRollout records the manual payout of one successful booking to its vendor
type PaymentRollout struct {
	ID         uuid.UUID  `gorm:"primaryKey;type:uuid" json:"id"`
	BookingID  uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex" json:"booking_id"`
	VendorID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"vendor_id"`
	Date       string     `gorm:"type:varchar(10);not null" json:"date"`
	Mode       PayoutMode `gorm:"type:varchar(20);not null" json:"mode"`
	Amount     float64    `gorm:"not null" json:"amount"`
	Reference  string     `gorm:"type:varchar(100)" json:"reference"`
	Notes      string     `gorm:"type:text" json:"notes"`
	RecordedBy uuid.UUID  `gorm:"type:uuid;not null" json:"recorded_by"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func (PaymentRollout) TableName() string {
	return "payment_rollouts"
}

func (p *PaymentRollout) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
