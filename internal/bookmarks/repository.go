package bookmarks

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	// Toggle flips the bookmark and reports whether it now exists
	Toggle(ctx context.Context, userID, eventID uuid.UUID) (bool, error)
	Exists(ctx context.Context, userID, eventID uuid.UUID) (bool, error)
	ListByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]BookmarkedEvent, int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Toggle(ctx context.Context, userID, eventID uuid.UUID) (bool, error) {
	var bookmarked bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("user_id = ? AND event_id = ?", userID, eventID).Delete(&Bookmark{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected > 0 {
			return nil
		}
		bookmarked = true
		return tx.Create(&Bookmark{UserID: userID, EventID: eventID}).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// a concurrent toggle created it first
			return true, nil
		}
		return false, err
	}
	return bookmarked, nil
}

func (r *repository) Exists(ctx context.Context, userID, eventID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Bookmark{}).
		Where("user_id = ? AND event_id = ?", userID, eventID).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]BookmarkedEvent, int64, error) {
	db := r.db.WithContext(ctx).Table("bookmarks").
		Joins("JOIN events ON events.id = bookmarks.event_id").
		Where("bookmarks.user_id = ?", userID)

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []BookmarkedEvent
	err := db.Select("events.id AS event_id, events.name, events.city, events.category_slug, events.image_url, events.status, bookmarks.created_at AS bookmarked_at").
		Order("bookmarks.created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Scan(&out).Error
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}
