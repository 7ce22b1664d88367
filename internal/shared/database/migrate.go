package database

import (
	"gorm.io/gorm"

	"playarena/internal/bookings"
	"playarena/internal/bookmarks"
	"playarena/internal/categories"
	"playarena/internal/events"
	"playarena/internal/payments"
	"playarena/internal/reviews"
	"playarena/internal/users"
	"playarena/internal/vendors"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&users.User{},
		&vendors.Vendor{},
		&categories.Category{},
		&events.Event{},
		&events.BookingDetailType{},
		&events.BookingChart{},
		&bookings.Booking{},
		&payments.PaymentRollout{},
		&reviews.Review{},
		&bookmarks.Bookmark{},
	)
}
