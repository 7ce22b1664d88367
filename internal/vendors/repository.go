package vendors

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"playarena/internal/users"
)

var (
	ErrVendorNotFound = errors.New("vendor application not found")
	ErrNotPending     = errors.New("vendor application is not pending review")
)

type Repository interface {
	Create(ctx context.Context, vendor *Vendor) error
	Resubmit(ctx context.Context, vendor *Vendor) error
	GetByID(ctx context.Context, id uuid.UUID) (*Vendor, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*Vendor, error)
	List(ctx context.Context, query VendorListQuery) ([]Vendor, int64, error)
	Approve(ctx context.Context, id, adminID uuid.UUID, at time.Time) error
	Reject(ctx context.Context, id, adminID uuid.UUID, reason string, at time.Time) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, vendor *Vendor) error {
	return r.db.WithContext(ctx).Create(vendor).Error
}

// Resubmit overwrites a rejected application and puts it back in the queue
func (r *repository) Resubmit(ctx context.Context, vendor *Vendor) error {
	result := r.db.WithContext(ctx).Model(&Vendor{}).
		Where("id = ? AND status = ?", vendor.ID, StatusRejected).
		Updates(map[string]interface{}{
			"business_name":       vendor.BusinessName,
			"gstin":               vendor.GSTIN,
			"pan":                 vendor.PAN,
			"bank_account_holder": vendor.BankAccountHolder,
			"bank_account_number": vendor.BankAccountNumber,
			"ifsc":                vendor.IFSC,
			"status":              StatusPending,
			"rejection_reason":    "",
			"reviewed_by":         nil,
			"reviewed_at":         nil,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotPending
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Vendor, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *repository) GetByUserID(ctx context.Context, userID uuid.UUID) (*Vendor, error) {
	return r.first(ctx, "user_id = ?", userID)
}

func (r *repository) first(ctx context.Context, cond string, arg interface{}) (*Vendor, error) {
	var vendor Vendor
	if err := r.db.WithContext(ctx).Where(cond, arg).First(&vendor).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVendorNotFound
		}
		return nil, err
	}
	return &vendor, nil
}

func (r *repository) List(ctx context.Context, query VendorListQuery) ([]Vendor, int64, error) {
	db := r.db.WithContext(ctx).Model(&Vendor{})
	if query.Status != "" {
		db = db.Where("status = ?", query.Status)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var vendors []Vendor
	err := db.Order("created_at ASC").
		Offset((query.Page - 1) * query.Limit).
		Limit(query.Limit).
		Find(&vendors).Error
	if err != nil {
		return nil, 0, err
	}
	return vendors, total, nil
}

// Approve marks the application approved and promotes the owner to VENDOR
// in one transaction.
func (r *repository) Approve(ctx context.Context, id, adminID uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var vendor Vendor
		if err := tx.Where("id = ?", id).First(&vendor).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrVendorNotFound
			}
			return err
		}

		if err := review(tx, id, adminID, StatusApproved, "", at); err != nil {
			return err
		}

		result := tx.Model(&users.User{}).
			Where("id = ? AND role = ?", vendor.UserID, users.RoleUser).
			Update("role", users.RoleVendor)
		return result.Error
	})
}

func (r *repository) Reject(ctx context.Context, id, adminID uuid.UUID, reason string, at time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&Vendor{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrVendorNotFound
		}
		return review(tx, id, adminID, StatusRejected, reason, at)
	})
}

func review(tx *gorm.DB, id, adminID uuid.UUID, status Status, reason string, at time.Time) error {
	result := tx.Model(&Vendor{}).
		Where("id = ? AND status = ?", id, StatusPending).
		Updates(map[string]interface{}{
			"status":           status,
			"rejection_reason": reason,
			"reviewed_by":      adminID,
			"reviewed_at":      at,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotPending
	}
	return nil
}
