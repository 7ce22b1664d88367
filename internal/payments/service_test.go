package payments

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

	"playarena/internal/notifications"
)

type stubBookings map[uuid.UUID]*PayoutTarget

func (s stubBookings) PayoutTarget(_ context.Context, id uuid.UUID) (*PayoutTarget, error) {
	target, ok := s[id]
	if !ok {
		return nil, ErrBookingNotFound
	}
	return target, nil
}

type recordingPublisher struct {
	messages []*notifications.Message
}

func (p *recordingPublisher) Publish(_ context.Context, msg *notifications.Message) error {
	p.messages = append(p.messages, msg)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:payments_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&PaymentRollout{}))
	return db
}

func TestRecordPayout_DefaultsToNetPayableAndUpserts(t *testing.T) {
	db := setupDB(t)
	bookingID := uuid.New()
	vendorID := uuid.New()
	bookings := stubBookings{bookingID: {
		BookingID: bookingID, BookingRef: "PA-20240101-ABCDEF", VendorID: vendorID,
		Succeeded: true, NetPayable: 862.3456, Currency: "INR",
	}}
	publisher := &recordingPublisher{}
	svc := NewService(NewRepository(db), bookings, publisher)
	adminID := uuid.New()

	first, err := svc.RecordPayout(context.Background(), adminID, RecordPayoutRequest{
		BookingID: bookingID, Date: "2024-01-05", Mode: PayoutModeUPI,
	})
	require.NoError(t, err)
	assert.Equal(t, 862.35, first.Amount)
	assert.Equal(t, vendorID, first.VendorID)
	assert.Equal(t, "PA-20240101-ABCDEF", first.BookingRef)

	amount := 800.0
	second, err := svc.RecordPayout(context.Background(), adminID, RecordPayoutRequest{
		BookingID: bookingID, Date: "2024-01-06", Mode: PayoutModeCheque, Amount: &amount, Reference: "CHQ-1",
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, PayoutModeCheque, second.Mode)
	assert.Equal(t, 800.0, second.Amount)

	var count int64
	require.NoError(t, db.Model(&PaymentRollout{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	require.Len(t, publisher.messages, 2)
	assert.Equal(t, notifications.EventPayoutRecorded, publisher.messages[0].Type)
}

func TestRecordPayout_RequiresSuccessfulBooking(t *testing.T) {
	db := setupDB(t)
	pendingID := uuid.New()
	svc := NewService(NewRepository(db), stubBookings{pendingID: {BookingID: pendingID, NetPayable: 10}}, nil)

	_, err := svc.RecordPayout(context.Background(), uuid.New(), RecordPayoutRequest{BookingID: pendingID, Mode: PayoutModeCash})
	assert.ErrorIs(t, err, ErrBookingNotSettled)

	_, err = svc.RecordPayout(context.Background(), uuid.New(), RecordPayoutRequest{BookingID: uuid.New(), Mode: PayoutModeCash})
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestListPayouts_FiltersByMode(t *testing.T) {
	db := setupDB(t)
	repo := NewRepository(db)
	for i, mode := range []PayoutMode{PayoutModeCash, PayoutModeUPI, PayoutModeUPI} {
		_, err := repo.Upsert(context.Background(), &PaymentRollout{
			BookingID: uuid.New(), VendorID: uuid.New(), Date: fmt.Sprintf("2024-01-0%d", i+1),
			Mode: mode, Amount: 100, RecordedBy: uuid.New(),
		})
		require.NoError(t, err)
	}

	result, err := NewService(repo, stubBookings{}, nil).ListPayouts(context.Background(), PayoutListQuery{Mode: PayoutModeUPI, Limit: 1})

	require.NoError(t, err)
	assert.Equal(t, int64(2), result.Total)
	assert.Equal(t, 2, result.TotalPages)
	require.Len(t, result.Payouts, 1)
	assert.Equal(t, "2024-01-03", result.Payouts[0].Date)
}

func TestGetPayout_NotFound(t *testing.T) {
	svc := NewService(NewRepository(setupDB(t)), stubBookings{}, nil)

	_, err := svc.GetPayout(context.Background(), uuid.New())

	assert.ErrorIs(t, err, ErrPayoutNotFound)
}
