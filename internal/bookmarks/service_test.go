package bookmarks

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"playarena/internal/events"
	"playarena/internal/schedule"
)

func setup(t *testing.T) (*gorm.DB, Service) {
	t.Helper()
	dsn := fmt.Sprintf("file:bookmarks_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&events.Event{}, &events.BookingChart{}, &events.BookingDetailType{}, &Bookmark{}))
	return db, NewService(NewRepository(db), events.NewRepository(db))
}

func createEvent(t *testing.T, db *gorm.DB, name string) *events.Event {
	t.Helper()
	event := &events.Event{
		VendorID:            uuid.New(),
		Name:                name,
		City:                "Pune",
		CategorySlug:        "badminton",
		Status:              events.StatusPublished,
		Mode:                schedule.ModeSingle,
		StartDate:           "2024-03-02",
		OpeningTime:         "06:00",
		ClosingTime:         "07:00",
		MaximumParticipants: 4,
	}
	require.NoError(t, db.Create(event).Error)
	return event
}

func TestToggle_AddsThenRemoves(t *testing.T) {
	db, svc := setup(t)
	ctx := context.Background()
	user := uuid.New()
	event := createEvent(t, db, "Morning Doubles")

	first, err := svc.Toggle(ctx, user, event.ID)
	require.NoError(t, err)
	assert.True(t, first.Bookmarked)

	second, err := svc.Toggle(ctx, user, event.ID)
	require.NoError(t, err)
	assert.False(t, second.Bookmarked)

	status, err := svc.Status(ctx, user, event.ID)
	require.NoError(t, err)
	assert.False(t, status.Bookmarked)
}

func TestToggle_UnknownEvent(t *testing.T) {
	_, svc := setup(t)

	_, err := svc.Toggle(context.Background(), uuid.New(), uuid.New())

	assert.ErrorIs(t, err, events.ErrEventNotFound)
}

func TestListMine_JoinsEventsAndScopesToUser(t *testing.T) {
	db, svc := setup(t)
	ctx := context.Background()
	user, other := uuid.New(), uuid.New()
	a := createEvent(t, db, "Morning Doubles")
	b := createEvent(t, db, "Evening Singles")

	for _, id := range []uuid.UUID{a.ID, b.ID} {
		_, err := svc.Toggle(ctx, user, id)
		require.NoError(t, err)
	}
	_, err := svc.Toggle(ctx, other, a.ID)
	require.NoError(t, err)

	mine, err := svc.ListMine(ctx, user, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), mine.Total)
	assert.Equal(t, 2, mine.TotalPages)
	require.Len(t, mine.Bookmarks, 1)
	assert.Equal(t, "Pune", mine.Bookmarks[0].City)

	none, err := svc.ListMine(ctx, uuid.New(), 0, 0)
	require.NoError(t, err)
	assert.NotNil(t, none.Bookmarks)
	assert.Equal(t, 20, none.Limit)
}
