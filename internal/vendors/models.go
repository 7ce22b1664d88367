package vendors

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Vendor is the onboarding application of a user who wants to host events.
// One row per user; a rejected applicant resubmits over the same row.
type Vendor struct {
	ID                uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	UserID            uuid.UUID  `json:"user_id" gorm:"type:uuid;not null;uniqueIndex"`
	BusinessName      string     `json:"business_name" gorm:"size:200;not null"`
	GSTIN             string     `json:"gstin" gorm:"size:15"`
	PAN               string     `json:"pan" gorm:"size:10;not null"`
	BankAccountHolder string     `json:"bank_account_holder" gorm:"size:200;not null"`
	BankAccountNumber string     `json:"-" gorm:"size:34;not null"`
	IFSC              string     `json:"ifsc" gorm:"size:11;not null"`
	Status            Status     `json:"status" gorm:"type:varchar(20);not null;index;check:status IN ('pending','approved','rejected')"`
	RejectionReason   string     `json:"rejection_reason,omitempty" gorm:"type:text"`
	ReviewedBy        *uuid.UUID `json:"reviewed_by,omitempty" gorm:"type:uuid"`
	ReviewedAt        *time.Time `json:"reviewed_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

func (Vendor) TableName() string {
	return "vendors"
}

func (v *Vendor) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	if v.Status == "" {
		v.Status = StatusPending
	}
	return nil
}

// IsGSTRegistered reports whether settlement must apply GST-registered rates
func (v *Vendor) IsGSTRegistered() bool {
	return v.GSTIN != ""
}
