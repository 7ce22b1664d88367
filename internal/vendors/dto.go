package vendors

import (
	"time"

	"github.com/google/uuid"
)

type ApplyRequest struct {
	BusinessName      string `json:"business_name" binding:"required,min=2,max=200"`
	GSTIN             string `json:"gstin" binding:"omitempty,gstin"`
	PAN               string `json:"pan" binding:"required,pan"`
	BankAccountHolder string `json:"bank_account_holder" binding:"required,max=200"`
	BankAccountNumber string `json:"bank_account_number" binding:"required,numeric,min=9,max=18"`
	IFSC              string `json:"ifsc" binding:"required,ifsc"`
}

type RejectRequest struct {
	Reason string `json:"reason" binding:"required,min=5,max=500"`
}

type VendorListQuery struct {
	Page   int    `form:"page" binding:"omitempty,min=1"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Status string `form:"status" binding:"omitempty,oneof=pending approved rejected"`
}

type VendorResponse struct {
	ID                uuid.UUID  `json:"id"`
	UserID            uuid.UUID  `json:"user_id"`
	BusinessName      string     `json:"business_name"`
	GSTIN             string     `json:"gstin,omitempty"`
	GSTRegistered     bool       `json:"gst_registered"`
	PAN               string     `json:"pan"`
	BankAccountHolder string     `json:"bank_account_holder"`
	BankAccountNumber string     `json:"bank_account_number"`
	IFSC              string     `json:"ifsc"`
	Status            Status     `json:"status"`
	RejectionReason   string     `json:"rejection_reason,omitempty"`
	ReviewedBy        *uuid.UUID `json:"reviewed_by,omitempty"`
	ReviewedAt        *time.Time `json:"reviewed_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

type PaginatedVendors struct {
	Vendors    []VendorResponse `json:"vendors"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	TotalPages int              `json:"total_pages"`
}

// ToResponse masks the bank account number to its last four digits
func (v *Vendor) ToResponse() VendorResponse {
	return VendorResponse{
		ID:                v.ID,
		UserID:            v.UserID,
		BusinessName:      v.BusinessName,
		GSTIN:             v.GSTIN,
		GSTRegistered:     v.IsGSTRegistered(),
		PAN:               v.PAN,
		BankAccountHolder: v.BankAccountHolder,
		BankAccountNumber: maskAccount(v.BankAccountNumber),
		IFSC:              v.IFSC,
		Status:            v.Status,
		RejectionReason:   v.RejectionReason,
		ReviewedBy:        v.ReviewedBy,
		ReviewedAt:        v.ReviewedAt,
		CreatedAt:         v.CreatedAt,
		UpdatedAt:         v.UpdatedAt,
	}
}
