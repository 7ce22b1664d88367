package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"playarena/internal/schedule"
	"playarena/pkg/cache"
)

type memoryCache struct {
	data map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: map[string][]byte{}}
}

func (m *memoryCache) Get(_ context.Context, key string, dest interface{}) error {
	raw, ok := m.data[key]
	if !ok {
		return cache.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.data[key] = raw
	return nil
}

func (m *memoryCache) Delete(_ context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func (m *memoryCache) DeletePattern(_ context.Context, pattern string) error {
	prefix := strings.TrimSuffix(pattern, "*")
	for k := range m.data {
		if strings.HasPrefix(k, prefix) {
			delete(m.data, k)
		}
	}
	return nil
}

func (m *memoryCache) GetOrSet(ctx context.Context, key string, ttl time.Duration, fetcher func() (interface{}, error), dest interface{}) error {
	if err := m.Get(ctx, key, dest); err == nil {
		return nil
	}
	data, err := fetcher()
	if err != nil {
		return err
	}
	if err := m.Set(ctx, key, data, ttl); err != nil {
		return err
	}
	return m.Get(ctx, key, dest)
}

func (m *memoryCache) Ping(context.Context) error { return nil }

type stubCategories map[string]bool

func (s stubCategories) IsActiveSlug(_ context.Context, slug string) (bool, error) {
	return s[slug], nil
}

// dependents creates the tables that event deletion cascades into
var dependents = []string{
	"CREATE TABLE bookings (id TEXT PRIMARY KEY, event_id TEXT)",
	"CREATE TABLE payment_rollouts (id TEXT PRIMARY KEY, booking_id TEXT)",
	"CREATE TABLE reviews (id TEXT PRIMARY KEY, event_id TEXT)",
	"CREATE TABLE bookmarks (id TEXT PRIMARY KEY, event_id TEXT)",
}

func setupDB(t *testing.T, withDependents bool) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:events_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Event{}, &BookingChart{}, &BookingDetailType{}))
	if withDependents {
		for _, ddl := range dependents {
			require.NoError(t, db.Exec(ddl).Error)
		}
	}
	return db
}

func newTestService(db *gorm.DB, c cache.Service) Service {
	svc := NewService(NewRepository(db), CacheTTL{})
	if c != nil {
		svc.SetCacheService(c)
	}
	svc.SetCategoryChecker(stubCategories{"badminton": true})
	return svc
}

func courtRequest() CreateEventRequest {
	return CreateEventRequest{
		Name:         "Evening Court Booking",
		CategorySlug: "badminton",
		City:         "Pune",
		Schedule: ScheduleRequest{
			Mode:         schedule.ModeRecurring,
			StartDate:    "2024-01-01",
			EndDate:      "2024-01-08",
			WeekDays:     []string{"MON", "WED"},
			OpeningTime:  "18:00",
			ClosingTime:  "20:00",
			IsHaveSlots:  true,
			SlotDuration: 60,
		},
		MaximumParticipants: 4,
		IsPhysical:          true,
		Tiers:               []TierRequest{{Type: TierSingle, Amount: 500}},
	}
}

func TestCreateEvent_GeneratesCharts(t *testing.T) {
	db := setupDB(t, false)
	svc := newTestService(db, nil)
	ctx := context.Background()
	vendor := uuid.New()

	event, err := svc.CreateEvent(ctx, vendor, courtRequest())
	require.NoError(t, err)
	assert.Equal(t, StatusPending, event.Status)
	assert.Equal(t, "recurring/slotted", event.Kind)
	require.Len(t, event.Tiers, 1)
	assert.Equal(t, DefaultCurrency, event.Tiers[0].Currency)

	// 3 dates x 2 slots
	charts, err := svc.ListCharts(ctx, uuid.MustParse(event.ID), Actor{UserID: vendor})
	require.NoError(t, err)
	require.Len(t, charts, 6)
	assert.Equal(t, "2024-01-01", charts[0].Date)
	assert.Equal(t, schedule.Slot{Start: "18:00", End: "19:00"}, charts[0].Slot)
	assert.Equal(t, "2024-01-08", charts[5].Date)
	require.NotNil(t, charts[0].Remaining)
	assert.Equal(t, 4, *charts[0].Remaining)
}

func TestCreateEvent_RejectsInvalidInput(t *testing.T) {
	svc := newTestService(setupDB(t, false), nil)
	ctx := context.Background()

	req := courtRequest()
	req.Schedule.ClosingTime = "17:00"
	_, err := svc.CreateEvent(ctx, uuid.New(), req)
	assert.ErrorIs(t, err, schedule.ErrInvalidSchedule)

	req = courtRequest()
	req.CategorySlug = "quidditch"
	_, err = svc.CreateEvent(ctx, uuid.New(), req)
	assert.ErrorIs(t, err, ErrInvalidCategory)

	req = courtRequest()
	req.Tiers = []TierRequest{{Type: TierGroup, Amount: 900}}
	_, err = svc.CreateEvent(ctx, uuid.New(), req)
	assert.ErrorIs(t, err, ErrInvalidTier)
}

func TestGetEvent_HidesUnpublishedFromPublic(t *testing.T) {
	svc := newTestService(setupDB(t, false), newMemoryCache())
	ctx := context.Background()
	vendor := uuid.New()

	created, err := svc.CreateEvent(ctx, vendor, courtRequest())
	require.NoError(t, err)
	id := uuid.MustParse(created.ID)

	_, err = svc.GetEvent(ctx, id, Actor{})
	assert.ErrorIs(t, err, ErrEventNotFound)

	_, err = svc.GetEvent(ctx, id, Actor{UserID: vendor})
	assert.NoError(t, err)

	require.NoError(t, svc.UpdateStatus(ctx, id, StatusPublished))

	got, err := svc.GetEvent(ctx, id, Actor{})
	require.NoError(t, err)
	assert.Equal(t, StatusPublished, got.Status)

	list, err := svc.ListEvents(ctx, EventListQuery{City: "pune"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), list.TotalCount)

	list, err = svc.ListEvents(ctx, EventListQuery{Date: "2024-01-02"})
	require.NoError(t, err)
	assert.Equal(t, int64(0), list.TotalCount)
}

func TestUpdateEvent_UnrelatedEditDoesNotReconcile(t *testing.T) {
	db := setupDB(t, false)
	svc := newTestService(db, nil)
	ctx := context.Background()
	vendor := uuid.New()

	created, err := svc.CreateEvent(ctx, vendor, courtRequest())
	require.NoError(t, err)
	id := uuid.MustParse(created.ID)

	var before []BookingChart
	require.NoError(t, db.Where("event_id = ?", id).Order("id").Find(&before).Error)

	name := "Renamed Court"
	sameSchedule := courtRequest().Schedule
	result, err := svc.UpdateEvent(ctx, id, Actor{UserID: vendor}, UpdateEventRequest{Name: &name, Schedule: &sameSchedule})
	require.NoError(t, err)
	assert.False(t, result.Inventory.Reconciled)
	assert.Equal(t, name, result.Event.Name)

	var after []BookingChart
	require.NoError(t, db.Where("event_id = ?", id).Order("id").Find(&after).Error)
	require.Len(t, after, len(before))
	for i := range before {
		assert.Equal(t, before[i].ID, after[i].ID)
	}
}

func TestUpdateEvent_ReconcilesAndKeepsBookings(t *testing.T) {
	db := setupDB(t, false)
	svc := newTestService(db, newMemoryCache())
	ctx := context.Background()
	vendor := uuid.New()

	created, err := svc.CreateEvent(ctx, vendor, courtRequest())
	require.NoError(t, err)
	id := uuid.MustParse(created.ID)

	var booked BookingChart
	require.NoError(t, db.Where("event_id = ? AND date = ? AND slot_start = ?", id, "2024-01-03", "18:00").First(&booked).Error)
	require.NoError(t, db.Model(&booked).Update("booked_seats", 3).Error)

	// drop Mondays, keep Wednesdays, extend by a week
	next := courtRequest().Schedule
	next.WeekDays = []string{"WED"}
	next.EndDate = "2024-01-10"

	result, err := svc.UpdateEvent(ctx, id, Actor{UserID: vendor}, UpdateEventRequest{Schedule: &next})
	require.NoError(t, err)
	assert.True(t, result.Inventory.Reconciled)
	assert.Equal(t, 2, result.Inventory.Created)
	assert.Equal(t, 0, result.Inventory.Updated)
	assert.Equal(t, 4, result.Inventory.Deleted)

	var kept BookingChart
	require.NoError(t, db.Where("id = ?", booked.ID).First(&kept).Error)
	assert.Equal(t, 3, kept.BookedSeats)

	var count int64
	require.NoError(t, db.Model(&BookingChart{}).Where("event_id = ?", id).Count(&count).Error)
	assert.Equal(t, int64(4), count)
}

func TestUpdateEvent_RequiresOwner(t *testing.T) {
	svc := newTestService(setupDB(t, false), nil)
	ctx := context.Background()

	created, err := svc.CreateEvent(ctx, uuid.New(), courtRequest())
	require.NoError(t, err)
	id := uuid.MustParse(created.ID)

	name := "Hijacked"
	_, err = svc.UpdateEvent(ctx, id, Actor{UserID: uuid.New()}, UpdateEventRequest{Name: &name})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.UpdateEvent(ctx, id, Actor{UserID: uuid.New(), IsAdmin: true}, UpdateEventRequest{Name: &name})
	assert.NoError(t, err)
}

func TestToggleChart(t *testing.T) {
	db := setupDB(t, false)
	memo := newMemoryCache()
	svc := newTestService(db, memo)
	ctx := context.Background()
	vendor := uuid.New()

	created, err := svc.CreateEvent(ctx, vendor, courtRequest())
	require.NoError(t, err)
	id := uuid.MustParse(created.ID)

	charts, err := svc.ListCharts(ctx, id, Actor{UserID: vendor})
	require.NoError(t, err)
	chartID := uuid.MustParse(charts[0].ID)

	require.NoError(t, svc.ToggleChart(ctx, id, chartID, Actor{UserID: vendor}, false))

	charts, err = svc.ListCharts(ctx, id, Actor{UserID: vendor})
	require.NoError(t, err)
	assert.False(t, charts[0].IsBookingEnabled)

	err = svc.ToggleChart(ctx, id, uuid.New(), Actor{UserID: vendor}, false)
	assert.ErrorIs(t, err, ErrChartNotFound)
}

func TestDeleteEvent_Cascades(t *testing.T) {
	db := setupDB(t, true)
	svc := newTestService(db, nil)
	ctx := context.Background()
	vendor := uuid.New()

	created, err := svc.CreateEvent(ctx, vendor, courtRequest())
	require.NoError(t, err)
	id := uuid.MustParse(created.ID)

	bookingID := uuid.NewString()
	require.NoError(t, db.Exec("INSERT INTO bookings (id, event_id) VALUES (?, ?)", bookingID, id).Error)
	require.NoError(t, db.Exec("INSERT INTO payment_rollouts (id, booking_id) VALUES (?, ?)", uuid.NewString(), bookingID).Error)
	require.NoError(t, db.Exec("INSERT INTO reviews (id, event_id) VALUES (?, ?)", uuid.NewString(), id).Error)

	require.NoError(t, svc.DeleteEvent(ctx, id, Actor{UserID: vendor}))

	for _, table := range []string{"events", "booking_charts", "booking_detail_types", "bookings", "payment_rollouts", "reviews"} {
		var count int64
		require.NoError(t, db.Table(table).Count(&count).Error)
		assert.Zero(t, count, table)
	}
}

func TestDeleteEvent_RollsBackOnFailure(t *testing.T) {
	// without the dependent tables the first cascade step fails
	db := setupDB(t, false)
	svc := newTestService(db, nil)
	ctx := context.Background()
	vendor := uuid.New()

	created, err := svc.CreateEvent(ctx, vendor, courtRequest())
	require.NoError(t, err)
	id := uuid.MustParse(created.ID)

	require.Error(t, svc.DeleteEvent(ctx, id, Actor{UserID: vendor}))

	var charts int64
	require.NoError(t, db.Model(&BookingChart{}).Where("event_id = ?", id).Count(&charts).Error)
	assert.Equal(t, int64(6), charts)

	_, err = svc.GetEvent(ctx, id, Actor{UserID: vendor})
	assert.NoError(t, err)
}
