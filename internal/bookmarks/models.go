package bookmarks

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Bookmark struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_bookmarks_user_event"`
	EventID   uuid.UUID `json:"event_id" gorm:"type:uuid;not null;uniqueIndex:idx_bookmarks_user_event;index"`
	CreatedAt time.Time `json:"created_at"`
}

func (Bookmark) TableName() string {
	return "bookmarks"
}

func (b *Bookmark) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// BookmarkedEvent is a bookmark joined with the event it points at
type BookmarkedEvent struct {
	EventID      uuid.UUID `json:"event_id"`
	Name         string    `json:"name"`
	City         string    `json:"city"`
	CategorySlug string    `json:"category_slug"`
	ImageURL     string    `json:"image_url"`
	Status       string    `json:"status"`
	BookmarkedAt time.Time `json:"bookmarked_at"`
}
