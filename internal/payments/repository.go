package payments

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrPayoutNotFound = errors.New("payout not found")

type Repository interface {
	Upsert(ctx context.Context, rollout *PaymentRollout) (*PaymentRollout, error)
	GetByBookingID(ctx context.Context, bookingID uuid.UUID) (*PaymentRollout, error)
	List(ctx context.Context, query PayoutListQuery) ([]PaymentRollout, int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// Upsert keys on booking_id. A second payout for the same booking updates the record.
func (r *repository) Upsert(ctx context.Context, rollout *PaymentRollout) (*PaymentRollout, error) {
	db := r.db.WithContext(ctx)

	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "booking_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"date", "mode", "amount", "reference", "notes", "recorded_by", "updated_at"}),
	}).Create(rollout).Error
	if err != nil {
		return nil, err
	}

	// the conflict path keeps the original id, so reload
	return r.GetByBookingID(ctx, rollout.BookingID)
}

func (r *repository) GetByBookingID(ctx context.Context, bookingID uuid.UUID) (*PaymentRollout, error) {
	var rollout PaymentRollout
	if err := r.db.WithContext(ctx).Where("booking_id = ?", bookingID).First(&rollout).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPayoutNotFound
		}
		return nil, err
	}
	return &rollout, nil
}

func (r *repository) List(ctx context.Context, query PayoutListQuery) ([]PaymentRollout, int64, error) {
	db := r.db.WithContext(ctx).Model(&PaymentRollout{})

	if query.Mode != "" {
		db = db.Where("mode = ?", query.Mode)
	}
	if query.VendorID != "" {
		db = db.Where("vendor_id = ?", query.VendorID)
	}
	if query.From != "" {
		db = db.Where("date >= ?", query.From)
	}
	if query.To != "" {
		db = db.Where("date <= ?", query.To)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rollouts []PaymentRollout
	err := db.Order("date DESC, created_at DESC").
		Offset((query.Page - 1) * query.Limit).
		Limit(query.Limit).
		Find(&rollouts).Error
	if err != nil {
		return nil, 0, err
	}
	return rollouts, total, nil
}
