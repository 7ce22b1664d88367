package reviews

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrReviewNotFound = errors.New("review not found")

type Repository interface {
	Create(ctx context.Context, review *Review) error
	Update(ctx context.Context, review *Review) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*Review, error)
	GetByUserAndEvent(ctx context.Context, userID, eventID uuid.UUID) (*Review, error)
	ListByEvent(ctx context.Context, eventID uuid.UUID, page, limit int) ([]Review, error)
	Summarize(ctx context.Context, eventID uuid.UUID) (Summary, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, review *Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

func (r *repository) Update(ctx context.Context, review *Review) error {
	return r.db.WithContext(ctx).Model(review).
		Select("rating", "comment", "updated_at").
		Updates(review).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&Review{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrReviewNotFound
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Review, error) {
	return r.first(ctx, r.db.Where("id = ?", id))
}

func (r *repository) GetByUserAndEvent(ctx context.Context, userID, eventID uuid.UUID) (*Review, error) {
	return r.first(ctx, r.db.Where("user_id = ? AND event_id = ?", userID, eventID))
}

func (r *repository) first(ctx context.Context, scope *gorm.DB) (*Review, error) {
	var review Review
	if err := scope.WithContext(ctx).First(&review).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return &review, nil
}

func (r *repository) ListByEvent(ctx context.Context, eventID uuid.UUID, page, limit int) ([]Review, error) {
	var reviews []Review
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&reviews).Error
	return reviews, err
}

func (r *repository) Summarize(ctx context.Context, eventID uuid.UUID) (Summary, error) {
	var summary Summary
	err := r.db.WithContext(ctx).Model(&Review{}).
		Select("COALESCE(AVG(rating), 0) AS average, COUNT(*) AS count").
		Where("event_id = ?", eventID).
		Scan(&summary).Error
	return summary, err
}
