package bookings

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"playarena/internal/events"
	"playarena/internal/notifications"
	"playarena/internal/payments"
	"playarena/internal/schedule"
	"playarena/internal/settlement"
)

const (
	testKeySecret     = "key_secret"
	testWebhookSecret = "webhook_secret"
)

type fakeGateway struct {
	mu     sync.Mutex
	orders []int64
	err    error
}

func (g *fakeGateway) CreateOrder(_ context.Context, amountMinor int64, currency, receipt string) (*payments.GatewayOrder, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return nil, g.err
	}
	g.orders = append(g.orders, amountMinor)
	return &payments.GatewayOrder{
		ID:       fmt.Sprintf("order_%d", len(g.orders)),
		Amount:   amountMinor,
		Currency: currency,
		Receipt:  receipt,
		Status:   "created",
	}, nil
}

type recordingPublisher struct {
	types []notifications.EventType
}

func (p *recordingPublisher) Publish(_ context.Context, msg *notifications.Message) error {
	p.types = append(p.types, msg.Type)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

type stubVendors map[uuid.UUID]bool

func (s stubVendors) IsGSTRegistered(_ context.Context, id uuid.UUID) (bool, error) {
	return s[id], nil
}

type invalidations struct {
	events []uuid.UUID
}

func (i *invalidations) InvalidateCharts(_ context.Context, eventID uuid.UUID) {
	i.events = append(i.events, eventID)
}

type fixture struct {
	db        *gorm.DB
	svc       Service
	gateway   *fakeGateway
	publisher *recordingPublisher
	event     *events.Event
	chart     *events.BookingChart
	single    events.BookingDetailType
	group     events.BookingDetailType
}

func setup(t *testing.T, mutate func(*events.Event)) *fixture {
	t.Helper()
	dsn := fmt.Sprintf("file:bookings_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&events.Event{}, &events.BookingChart{}, &events.BookingDetailType{}, &Booking{}))

	event := &events.Event{
		VendorID:            uuid.New(),
		Name:                "Turf Football",
		Status:              events.StatusPublished,
		Mode:                schedule.ModeSingle,
		StartDate:           "2024-03-02",
		OpeningTime:         "18:00",
		ClosingTime:         "19:00",
		MaximumParticipants: 10,
		IsPhysical:          true,
	}
	if mutate != nil {
		mutate(event)
	}
	require.NoError(t, db.Create(event).Error)

	single := events.BookingDetailType{EventID: event.ID, Type: events.TierSingle, Name: "Player", Amount: 500, Currency: "INR"}
	group := events.BookingDetailType{EventID: event.ID, Type: events.TierGroup, Name: "Squad of 5", Amount: 2000, Currency: "INR", Members: 5}
	require.NoError(t, db.Create(&single).Error)
	require.NoError(t, db.Create(&group).Error)

	chart := &events.BookingChart{EventID: event.ID, Date: "2024-03-02", SlotStart: "18:00", SlotEnd: "19:00", IsBookingEnabled: true}
	require.NoError(t, db.Create(chart).Error)

	gateway := &fakeGateway{}
	publisher := &recordingPublisher{}
	svc := NewService(NewRepository(db), events.NewRepository(db), gateway, Options{
		Rates:         settlement.DefaultRateTable(),
		KeyID:         "key_id",
		KeySecret:     testKeySecret,
		WebhookSecret: testWebhookSecret,
	})
	svc.SetPublisher(publisher)
	svc.SetVendorDirectory(stubVendors{})

	return &fixture{db: db, svc: svc, gateway: gateway, publisher: publisher, event: event, chart: chart, single: single, group: group}
}

func (f *fixture) order(qty int) CreateOrderRequest {
	return CreateOrderRequest{ChartID: f.chart.ID, Items: []ItemRequest{{TierID: f.single.ID, Quantity: qty}}}
}

func (f *fixture) bookedSeats(t *testing.T) int {
	t.Helper()
	var chart events.BookingChart
	require.NoError(t, f.db.First(&chart, "id = ?", f.chart.ID).Error)
	return chart.BookedSeats
}

func TestCreateOrder_ReservesSeatsAndOpensGatewayOrder(t *testing.T) {
	f := setup(t, nil)
	userID := uuid.New()
	inv := &invalidations{}
	f.svc.SetChartInvalidator(inv)

	resp, err := f.svc.CreateOrder(context.Background(), userID, f.order(2))

	require.NoError(t, err)
	assert.Equal(t, "order_1", resp.GatewayOrderID)
	assert.Equal(t, int64(105900), resp.AmountMinor)
	assert.Equal(t, []int64{105900}, f.gateway.orders)
	assert.Equal(t, StatusPending, resp.Booking.Status)
	assert.Equal(t, 1059.0, resp.Booking.Settlement.AmountWithTax)
	assert.Regexp(t, `^PA-\d{8}-[A-Z]{6}$`, resp.Booking.BookingRef)
	assert.Equal(t, "2024-03-02", resp.Booking.ChartDate)
	assert.Equal(t, 2, f.bookedSeats(t))
	assert.Equal(t, []uuid.UUID{f.event.ID}, inv.events)
	assert.Equal(t, []notifications.EventType{notifications.EventBookingCreated}, f.publisher.types)
}

func TestCreateOrder_GroupTierPricesWholeGroups(t *testing.T) {
	f := setup(t, nil)
	req := CreateOrderRequest{ChartID: f.chart.ID, Items: []ItemRequest{{TierID: f.group.ID, Quantity: 6}}}

	resp, err := f.svc.CreateOrder(context.Background(), uuid.New(), req)

	require.NoError(t, err)
	assert.Equal(t, 6, resp.Booking.Seats)
	assert.Equal(t, 4000.0, resp.Booking.Settlement.GrossAmount)
	require.Len(t, resp.Booking.Items, 1)
	assert.Equal(t, 2, resp.Booking.Items[0].Units)
}

func TestCreateOrder_CapacityRejectedWithRemaining(t *testing.T) {
	f := setup(t, nil)
	_, err := f.svc.CreateOrder(context.Background(), uuid.New(), f.order(8))
	require.NoError(t, err)

	_, err = f.svc.CreateOrder(context.Background(), uuid.New(), f.order(3))

	var capErr *CapacityError
	require.True(t, errors.As(err, &capErr))
	assert.Equal(t, 2, capErr.Remaining)
	assert.Equal(t, 8, f.bookedSeats(t))
}

// A stale snapshot must still lose against the conditional update.
func TestReserve_StaleSnapshotCannotOversell(t *testing.T) {
	f := setup(t, nil)
	repo := NewRepository(f.db)
	stale := &ChartSnapshot{ID: f.chart.ID, IsBookingEnabled: true, MaximumParticipants: 10}

	newBooking := func(seats int) *Booking {
		ref, err := generateBookingReference()
		require.NoError(t, err)
		return &Booking{
			BookingRef: ref, UserID: uuid.New(), EventID: f.event.ID, VendorID: f.event.VendorID,
			ChartID: f.chart.ID, ChartDate: f.chart.Date, Seats: seats, Currency: "INR", Status: StatusPending,
		}
	}

	require.NoError(t, repo.Reserve(context.Background(), newBooking(6), stale))
	err := repo.Reserve(context.Background(), newBooking(6), stale)

	var capErr *CapacityError
	require.True(t, errors.As(err, &capErr))
	assert.Equal(t, 4, capErr.Remaining)
	assert.Equal(t, 6, f.bookedSeats(t))

	var count int64
	require.NoError(t, f.db.Model(&Booking{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCreateOrder_SubscriptionIgnoresCapacity(t *testing.T) {
	f := setup(t, func(e *events.Event) {
		e.Mode = schedule.ModeMonthlySubscription
		e.MaximumParticipants = 1
	})

	_, err := f.svc.CreateOrder(context.Background(), uuid.New(), f.order(3))

	require.NoError(t, err)
	assert.Equal(t, 3, f.bookedSeats(t))
}

func TestCreateOrder_DisabledChartIsNotFoundClass(t *testing.T) {
	f := setup(t, nil)
	require.NoError(t, f.db.Model(&events.BookingChart{}).Where("id = ?", f.chart.ID).Update("is_booking_enabled", false).Error)

	_, err := f.svc.CreateOrder(context.Background(), uuid.New(), f.order(1))

	assert.ErrorIs(t, err, ErrBookingDisabled)
	assert.True(t, IsNotFound(err))
}

func TestCreateOrder_UnknownChartAndTier(t *testing.T) {
	f := setup(t, nil)

	_, err := f.svc.CreateOrder(context.Background(), uuid.New(), CreateOrderRequest{ChartID: uuid.New(), Items: []ItemRequest{{TierID: f.single.ID, Quantity: 1}}})
	assert.ErrorIs(t, err, ErrChartNotFound)

	_, err = f.svc.CreateOrder(context.Background(), uuid.New(), CreateOrderRequest{ChartID: f.chart.ID, Items: []ItemRequest{{TierID: uuid.New(), Quantity: 1}}})
	assert.ErrorIs(t, err, ErrUnknownTier)
}

func TestCreateOrder_UnpublishedEventRejected(t *testing.T) {
	f := setup(t, func(e *events.Event) { e.Status = events.StatusPending })

	_, err := f.svc.CreateOrder(context.Background(), uuid.New(), f.order(1))

	assert.ErrorIs(t, err, ErrEventNotBookable)
}

func TestCreateOrder_GatewayFailureKeepsPendingBooking(t *testing.T) {
	f := setup(t, nil)
	f.gateway.err = payments.ErrGatewayUnavailable

	_, err := f.svc.CreateOrder(context.Background(), uuid.New(), f.order(2))

	assert.ErrorIs(t, err, ErrGatewayFailed)
	var booking Booking
	require.NoError(t, f.db.First(&booking).Error)
	assert.Equal(t, StatusPending, booking.Status)
	assert.Empty(t, booking.GatewayOrderID)
	assert.Equal(t, 2, f.bookedSeats(t))
}

func TestCreateOrder_UsesVendorRegistration(t *testing.T) {
	f := setup(t, nil)
	f.svc.SetVendorDirectory(stubVendors{f.event.VendorID: true})

	resp, err := f.svc.CreateOrder(context.Background(), uuid.New(), f.order(2))

	require.NoError(t, err)
	expected := settlement.Calculate(1000, true, settlement.DefaultRateTable()).Rounded()
	assert.Equal(t, expected.TCS, resp.Booking.Settlement.TCS)
	assert.Equal(t, expected.NetPayable, resp.Booking.Settlement.NetPayable)
}

func TestVerifyPayment_ValidSignatureConfirms(t *testing.T) {
	f := setup(t, nil)
	userID := uuid.New()
	order, err := f.svc.CreateOrder(context.Background(), userID, f.order(1))
	require.NoError(t, err)

	req := VerifyPaymentRequest{
		OrderID:   order.GatewayOrderID,
		PaymentID: "pay_1",
		Signature: payments.SignPayment(order.GatewayOrderID, "pay_1", testKeySecret),
	}
	booking, err := f.svc.VerifyPayment(context.Background(), Actor{UserID: userID}, req)

	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, booking.Status)
	assert.Equal(t, "pay_1", booking.GatewayPaymentID)
	assert.NotNil(t, booking.PaidAt)
	assert.Contains(t, f.publisher.types, notifications.EventBookingConfirmed)

	_, err = f.svc.VerifyPayment(context.Background(), Actor{UserID: userID}, req)
	assert.ErrorIs(t, err, ErrBookingFinalized)
}

func TestVerifyPayment_BadSignatureLeavesBookingPending(t *testing.T) {
	f := setup(t, nil)
	userID := uuid.New()
	order, err := f.svc.CreateOrder(context.Background(), userID, f.order(1))
	require.NoError(t, err)

	_, err = f.svc.VerifyPayment(context.Background(), Actor{UserID: userID}, VerifyPaymentRequest{
		OrderID: order.GatewayOrderID, PaymentID: "pay_1", Signature: "deadbeef",
	})

	assert.ErrorIs(t, err, payments.ErrInvalidSignature)
	stored, err := f.svc.GetBooking(context.Background(), Actor{UserID: userID}, order.Booking.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, stored.Status)
	assert.NotContains(t, f.publisher.types, notifications.EventBookingFailed)
	assert.Equal(t, 1, f.bookedSeats(t))
}

func TestVerifyPayment_BadSignatureThenCapturedWebhookSucceeds(t *testing.T) {
	f := setup(t, nil)
	userID := uuid.New()
	order, err := f.svc.CreateOrder(context.Background(), userID, f.order(1))
	require.NoError(t, err)

	_, err = f.svc.VerifyPayment(context.Background(), Actor{UserID: userID}, VerifyPaymentRequest{
		OrderID: order.GatewayOrderID, PaymentID: "pay_1", Signature: "garbage",
	})
	require.ErrorIs(t, err, payments.ErrInvalidSignature)

	body := webhookBody(payments.WebhookPaymentCaptured, order.GatewayOrderID, "pay_1")
	require.NoError(t, f.svc.HandleWebhook(context.Background(), body, payments.Sign(body, testWebhookSecret)))

	stored, err := f.svc.GetBooking(context.Background(), Actor{UserID: userID}, order.Booking.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, stored.Status)
	assert.Equal(t, "pay_1", stored.GatewayPaymentID)
}

func TestVerifyPayment_OtherUserForbidden(t *testing.T) {
	f := setup(t, nil)
	order, err := f.svc.CreateOrder(context.Background(), uuid.New(), f.order(1))
	require.NoError(t, err)

	_, err = f.svc.VerifyPayment(context.Background(), Actor{UserID: uuid.New()}, VerifyPaymentRequest{
		OrderID: order.GatewayOrderID, PaymentID: "pay_1", Signature: "x",
	})

	assert.ErrorIs(t, err, ErrForbidden)
}

func webhookBody(event, orderID, paymentID string) []byte {
	return []byte(fmt.Sprintf(`{"event":%q,"payload":{"payment":{"entity":{"id":%q,"order_id":%q,"error_description":"card declined"}}}}`,
		event, paymentID, orderID))
}

func TestHandleWebhook_CapturedThenIdempotent(t *testing.T) {
	f := setup(t, nil)
	userID := uuid.New()
	order, err := f.svc.CreateOrder(context.Background(), userID, f.order(1))
	require.NoError(t, err)

	body := webhookBody(payments.WebhookPaymentCaptured, order.GatewayOrderID, "pay_9")
	sig := payments.Sign(body, testWebhookSecret)

	require.NoError(t, f.svc.HandleWebhook(context.Background(), body, sig))
	require.NoError(t, f.svc.HandleWebhook(context.Background(), body, sig))

	stored, err := f.svc.GetBooking(context.Background(), Actor{UserID: userID}, order.Booking.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, stored.Status)
	assert.Equal(t, "pay_9", stored.GatewayPaymentID)

	// a late failure cannot undo a terminal state
	failed := webhookBody(payments.WebhookPaymentFailed, order.GatewayOrderID, "pay_10")
	require.NoError(t, f.svc.HandleWebhook(context.Background(), failed, payments.Sign(failed, testWebhookSecret)))
	stored, err = f.svc.GetBooking(context.Background(), Actor{UserID: userID}, order.Booking.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, stored.Status)
}

func TestHandleWebhook_PaymentFailed(t *testing.T) {
	f := setup(t, nil)
	userID := uuid.New()
	order, err := f.svc.CreateOrder(context.Background(), userID, f.order(1))
	require.NoError(t, err)

	body := webhookBody(payments.WebhookPaymentFailed, order.GatewayOrderID, "pay_2")
	require.NoError(t, f.svc.HandleWebhook(context.Background(), body, payments.Sign(body, testWebhookSecret)))

	stored, err := f.svc.GetBooking(context.Background(), Actor{UserID: userID}, order.Booking.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, stored.Status)
	assert.Equal(t, "card declined", stored.FailureReason)
}

func TestHandleWebhook_RejectsBadSignature(t *testing.T) {
	f := setup(t, nil)
	body := webhookBody(payments.WebhookPaymentCaptured, "order_1", "pay_1")

	err := f.svc.HandleWebhook(context.Background(), body, payments.Sign(body, "wrong"))

	assert.ErrorIs(t, err, payments.ErrInvalidSignature)
}

func TestPayoutTarget(t *testing.T) {
	f := setup(t, nil)
	userID := uuid.New()
	order, err := f.svc.CreateOrder(context.Background(), userID, f.order(2))
	require.NoError(t, err)

	target, err := f.svc.PayoutTarget(context.Background(), order.Booking.ID)
	require.NoError(t, err)
	assert.False(t, target.Succeeded)
	assert.Equal(t, f.event.VendorID, target.VendorID)
	assert.InDelta(t, settlement.Calculate(1000, false, settlement.DefaultRateTable()).NetPayable, target.NetPayable, 1e-9)

	_, err = f.svc.PayoutTarget(context.Background(), uuid.New())
	assert.ErrorIs(t, err, payments.ErrBookingNotFound)
}

func TestListBookings_ScopedByUserAndVendor(t *testing.T) {
	f := setup(t, nil)
	alice, bob := uuid.New(), uuid.New()
	for _, user := range []uuid.UUID{alice, alice, bob} {
		_, err := f.svc.CreateOrder(context.Background(), user, f.order(1))
		require.NoError(t, err)
	}

	mine, err := f.svc.ListUserBookings(context.Background(), alice, BookingListQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), mine.Total)

	vendor, err := f.svc.ListVendorBookings(context.Background(), f.event.VendorID, BookingListQuery{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), vendor.Total)
	assert.Equal(t, 2, vendor.TotalPages)

	has, err := f.svc.HasSuccessfulBooking(context.Background(), alice, f.event.ID)
	require.NoError(t, err)
	assert.False(t, has)
}
