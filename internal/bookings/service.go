package bookings

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"

	"playarena/internal/events"
	"playarena/internal/notifications"
	"playarena/internal/payments"
	"playarena/internal/settlement"
	"playarena/pkg/logger"
)

var (
	ErrEventNotBookable = errors.New("event is not open for booking")
	ErrUnknownTier      = errors.New("ticket tier does not belong to this event")
	ErrMixedCurrency    = errors.New("order mixes tiers priced in different currencies")
	ErrMembersRequired  = errors.New("team events require a member roster")
	ErrBookingFinalized = errors.New("booking is already finalized")
	ErrForbidden        = errors.New("not allowed to access this booking")
	ErrGatewayFailed    = errors.New("payment gateway order creation failed")
)

// Catalog reads the event side of an order. events.Repository satisfies it.
type Catalog interface {
	GetChart(ctx context.Context, chartID uuid.UUID) (*events.BookingChart, error)
	GetByID(ctx context.Context, id uuid.UUID) (*events.Event, error)
}

// ChartInvalidator drops cached availability. events.Service satisfies it.
type ChartInvalidator interface {
	InvalidateCharts(ctx context.Context, eventID uuid.UUID)
}

// VendorDirectory reports a vendor's tax registration
type VendorDirectory interface {
	IsGSTRegistered(ctx context.Context, vendorUserID uuid.UUID) (bool, error)
}

// Options holds the payment settings of the booking flow
type Options struct {
	Rates         settlement.RateTable
	KeyID         string
	KeySecret     string
	WebhookSecret string
	Currency      string
}

// Actor is the caller of a booking read
type Actor struct {
	UserID  uuid.UUID
	IsAdmin bool
}

type Service interface {
	CreateOrder(ctx context.Context, userID uuid.UUID, req CreateOrderRequest) (*OrderResponse, error)
	VerifyPayment(ctx context.Context, actor Actor, req VerifyPaymentRequest) (*BookingResponse, error)
	HandleWebhook(ctx context.Context, body []byte, signature string) error

	GetBooking(ctx context.Context, actor Actor, id uuid.UUID) (*BookingResponse, error)
	ListUserBookings(ctx context.Context, userID uuid.UUID, query BookingListQuery) (*PaginatedBookings, error)
	ListVendorBookings(ctx context.Context, vendorID uuid.UUID, query BookingListQuery) (*PaginatedBookings, error)
	ListAllBookings(ctx context.Context, query BookingListQuery) (*PaginatedBookings, error)

	HasSuccessfulBooking(ctx context.Context, userID, eventID uuid.UUID) (bool, error)
	PayoutTarget(ctx context.Context, bookingID uuid.UUID) (*payments.PayoutTarget, error)

	SetPublisher(publisher notifications.Publisher)
	SetVendorDirectory(vendors VendorDirectory)
	SetChartInvalidator(invalidator ChartInvalidator)
}

type service struct {
	repo        Repository
	catalog     Catalog
	gateway     payments.Gateway
	opts        Options
	publisher   notifications.Publisher
	vendors     VendorDirectory
	invalidator ChartInvalidator
	now         func() time.Time
}

func NewService(repo Repository, catalog Catalog, gateway payments.Gateway, opts Options) Service {
	if opts.Currency == "" {
		opts.Currency = events.DefaultCurrency
	}
	return &service{
		repo:      repo,
		catalog:   catalog,
		gateway:   gateway,
		opts:      opts,
		publisher: notifications.NoopPublisher{},
		now:       time.Now,
	}
}

func (s *service) SetPublisher(publisher notifications.Publisher) {
	s.publisher = publisher
}

func (s *service) SetVendorDirectory(vendors VendorDirectory) {
	s.vendors = vendors
}

func (s *service) SetChartInvalidator(invalidator ChartInvalidator) {
	s.invalidator = invalidator
}

func (s *service) CreateOrder(ctx context.Context, userID uuid.UUID, req CreateOrderRequest) (*OrderResponse, error) {
	log := logger.GetDefault()

	chart, err := s.catalog.GetChart(ctx, req.ChartID)
	if err != nil {
		if errors.Is(err, events.ErrChartNotFound) {
			return nil, ErrChartNotFound
		}
		return nil, err
	}

	event, err := s.catalog.GetByID(ctx, chart.EventID)
	if err != nil {
		if errors.Is(err, events.ErrEventNotFound) {
			return nil, ErrChartNotFound
		}
		return nil, err
	}
	if event.Status != events.StatusPublished {
		return nil, ErrEventNotBookable
	}
	if event.IsTeamEvent && len(req.Members) == 0 {
		return nil, ErrMembersRequired
	}

	items, currency, err := resolveItems(event, req.Items, s.opts.Currency)
	if err != nil {
		return nil, err
	}

	snapshot := &ChartSnapshot{
		ID:                  chart.ID,
		BookedSeats:         chart.BookedSeats,
		IsBookingEnabled:    chart.IsBookingEnabled,
		MaximumParticipants: event.MaximumParticipants,
		Uncapped:            event.IsSubscription(),
	}

	admission, err := ValidateOrder(snapshot, items)
	if err != nil {
		var capErr *CapacityError
		if errors.As(err, &capErr) {
			log.LogCapacityRejected(ctx, chart.ID.String(), capErr.Requested, capErr.Remaining)
		}
		return nil, err
	}

	gstRegistered, err := s.vendorGSTRegistered(ctx, event.VendorID)
	if err != nil {
		return nil, err
	}
	breakdown := settlement.Calculate(admission.Gross, gstRegistered, s.opts.Rates)

	ref, err := generateBookingReference()
	if err != nil {
		return nil, err
	}

	booking := &Booking{
		BookingRef:          ref,
		UserID:              userID,
		EventID:             event.ID,
		VendorID:            event.VendorID,
		ChartID:             chart.ID,
		ChartDate:           chart.Date,
		SlotStart:           chart.SlotStart,
		SlotEnd:             chart.SlotEnd,
		Seats:               admission.Seats,
		Items:               lineItems(admission.Items),
		Members:             req.Members,
		Currency:            currency,
		AmountMinor:         settlement.MinorUnits(breakdown.AmountWithTax),
		VendorGSTRegistered: gstRegistered,
		Breakdown:           breakdown,
		Status:              StatusPending,
	}

	// the conditional update re-checks capacity, so a concurrent order can still lose here
	if err := s.repo.Reserve(ctx, booking, snapshot); err != nil {
		var capErr *CapacityError
		if errors.As(err, &capErr) {
			log.LogCapacityRejected(ctx, chart.ID.String(), capErr.Requested, capErr.Remaining)
		}
		return nil, err
	}
	s.invalidateCharts(ctx, event.ID)
	log.LogBookingCreated(ctx, booking.ID.String(), chart.ID.String(), userID.String(), booking.Seats)

	// free orders never reach the gateway
	if booking.AmountMinor == 0 {
		s.publish(ctx, notifications.EventBookingCreated, booking)
		if err := s.finalize(ctx, booking, StatusSuccess, "", ""); err != nil {
			return nil, err
		}
		return s.orderResponse(booking), nil
	}

	order, err := s.gateway.CreateOrder(ctx, booking.AmountMinor, booking.Currency, booking.BookingRef)
	if err != nil {
		// the pending booking stays for manual reconciliation
		log.ErrorWithContext(ctx, "Gateway order creation failed", err, map[string]interface{}{
			"booking_id":  booking.ID.String(),
			"booking_ref": booking.BookingRef,
		})
		return nil, fmt.Errorf("%w: %v", ErrGatewayFailed, err)
	}

	if err := s.repo.SetGatewayOrder(ctx, booking.ID, order.ID); err != nil {
		return nil, err
	}
	booking.GatewayOrderID = order.ID

	s.publish(ctx, notifications.EventBookingCreated, booking)
	return s.orderResponse(booking), nil
}

func resolveItems(event *events.Event, requested []ItemRequest, fallbackCurrency string) ([]OrderItem, string, error) {
	tiers := make(map[uuid.UUID]events.BookingDetailType, len(event.Tiers))
	for _, tier := range event.Tiers {
		tiers[tier.ID] = tier
	}

	items := make([]OrderItem, 0, len(requested))
	currency := ""
	for _, req := range requested {
		tier, ok := tiers[req.TierID]
		if !ok {
			return nil, "", ErrUnknownTier
		}
		if req.Quantity == 0 {
			continue
		}
		if currency == "" {
			currency = tier.Currency
		} else if tier.Currency != currency {
			return nil, "", ErrMixedCurrency
		}
		items = append(items, OrderItem{
			TierID:         tier.ID,
			Name:           tier.Name,
			Group:          tier.Type == events.TierGroup,
			MembersPerUnit: tier.Members,
			Quantity:       req.Quantity,
			UnitAmount:     tier.Amount,
		})
	}
	if currency == "" {
		currency = fallbackCurrency
	}
	return items, currency, nil
}

func (s *service) vendorGSTRegistered(ctx context.Context, vendorID uuid.UUID) (bool, error) {
	if s.vendors == nil {
		return false, nil
	}
	return s.vendors.IsGSTRegistered(ctx, vendorID)
}

func (s *service) VerifyPayment(ctx context.Context, actor Actor, req VerifyPaymentRequest) (*BookingResponse, error) {
	booking, err := s.repo.GetByGatewayOrderID(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}
	if booking.UserID != actor.UserID && !actor.IsAdmin {
		return nil, ErrForbidden
	}
	if booking.Status.IsTerminal() {
		return nil, ErrBookingFinalized
	}

	valid := payments.VerifyPaymentSignature(req.OrderID, req.PaymentID, req.Signature, s.opts.KeySecret)
	logger.GetDefault().LogPaymentVerified(ctx, req.OrderID, valid)

	// the caller holds no proof of payment; the signed webhook settles the booking
	if !valid {
		return nil, payments.ErrInvalidSignature
	}

	if err := s.finalize(ctx, booking, StatusSuccess, req.PaymentID, ""); err != nil {
		return nil, err
	}
	resp := booking.ToResponse()
	return &resp, nil
}

func (s *service) HandleWebhook(ctx context.Context, body []byte, signature string) error {
	log := logger.GetDefault()

	if !payments.VerifyWebhookSignature(body, signature, s.opts.WebhookSecret) {
		log.LogPaymentVerified(ctx, "", false)
		return payments.ErrInvalidSignature
	}

	notification, err := payments.ParseWebhook(body)
	if err != nil {
		return fmt.Errorf("invalid webhook payload: %w", err)
	}
	if !notification.Succeeded() && !notification.Failed() {
		return nil
	}

	booking, err := s.repo.GetByGatewayOrderID(ctx, notification.OrderID)
	if err != nil {
		if errors.Is(err, ErrBookingNotFound) {
			log.InfoWithContext(ctx, "Webhook for unknown order ignored", map[string]interface{}{
				"event":            notification.Event,
				"gateway_order_id": notification.OrderID,
			})
			return nil
		}
		return err
	}
	if booking.Status.IsTerminal() {
		return nil
	}

	status, reason := StatusSuccess, ""
	if notification.Failed() {
		status, reason = StatusFailed, notification.Reason
		if reason == "" {
			reason = "payment failed"
		}
	}

	err = s.finalize(ctx, booking, status, notification.PaymentID, reason)
	if errors.Is(err, ErrBookingFinalized) {
		return nil
	}
	return err
}

// finalize applies a terminal status once. Seats booked at admission are kept on failure.
func (s *service) finalize(ctx context.Context, booking *Booking, status Status, paymentID, reason string) error {
	at := s.now()
	changed, err := s.repo.Finalize(ctx, booking.ID, status, paymentID, reason, at)
	if err != nil {
		return err
	}
	if !changed {
		return ErrBookingFinalized
	}

	from := booking.Status
	booking.Status = status
	booking.FailureReason = reason
	if paymentID != "" {
		booking.GatewayPaymentID = paymentID
	}
	if status == StatusSuccess {
		booking.PaidAt = &at
	}

	logger.GetDefault().LogBookingStatusChanged(ctx, booking.ID.String(), string(from), string(status))

	eventType := notifications.EventBookingConfirmed
	if status == StatusFailed {
		eventType = notifications.EventBookingFailed
	}
	s.publish(ctx, eventType, booking)
	return nil
}

func (s *service) publish(ctx context.Context, eventType notifications.EventType, booking *Booking) {
	msg := notifications.NewMessage(eventType, booking.ID)
	msg.BookingRef = booking.BookingRef
	msg.EventID = booking.EventID
	msg.UserID = booking.UserID
	msg.VendorID = booking.VendorID
	msg.Status = string(booking.Status)
	msg.Amount = settlement.Round(booking.AmountWithTax)
	msg.Currency = booking.Currency
	msg.Reason = booking.FailureReason
	notifications.PublishSafely(ctx, s.publisher, msg)
}

func (s *service) invalidateCharts(ctx context.Context, eventID uuid.UUID) {
	if s.invalidator != nil {
		s.invalidator.InvalidateCharts(ctx, eventID)
	}
}

func (s *service) orderResponse(booking *Booking) *OrderResponse {
	return &OrderResponse{
		Booking:        booking.ToResponse(),
		GatewayOrderID: booking.GatewayOrderID,
		GatewayKeyID:   s.opts.KeyID,
		AmountMinor:    booking.AmountMinor,
		Currency:       booking.Currency,
	}
}

func (s *service) GetBooking(ctx context.Context, actor Actor, id uuid.UUID) (*BookingResponse, error) {
	booking, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin && booking.UserID != actor.UserID && booking.VendorID != actor.UserID {
		return nil, ErrForbidden
	}
	resp := booking.ToResponse()
	return &resp, nil
}

func (s *service) ListUserBookings(ctx context.Context, userID uuid.UUID, query BookingListQuery) (*PaginatedBookings, error) {
	return s.list(ctx, query, ListScope{UserID: userID})
}

func (s *service) ListVendorBookings(ctx context.Context, vendorID uuid.UUID, query BookingListQuery) (*PaginatedBookings, error) {
	return s.list(ctx, query, ListScope{VendorID: vendorID})
}

func (s *service) ListAllBookings(ctx context.Context, query BookingListQuery) (*PaginatedBookings, error) {
	return s.list(ctx, query, ListScope{})
}

func (s *service) list(ctx context.Context, query BookingListQuery, scope ListScope) (*PaginatedBookings, error) {
	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 10
	}

	bookings, total, err := s.repo.List(ctx, query, scope)
	if err != nil {
		return nil, err
	}

	out := make([]BookingResponse, 0, len(bookings))
	for i := range bookings {
		out = append(out, bookings[i].ToResponse())
	}

	return &PaginatedBookings{
		Bookings:   out,
		Total:      total,
		Page:       query.Page,
		Limit:      query.Limit,
		TotalPages: CalculateTotalPages(total, query.Limit),
	}, nil
}

func (s *service) HasSuccessfulBooking(ctx context.Context, userID, eventID uuid.UUID) (bool, error) {
	return s.repo.HasSuccessfulBooking(ctx, userID, eventID)
}

// PayoutTarget exposes a booking to the payout ledger
func (s *service) PayoutTarget(ctx context.Context, bookingID uuid.UUID) (*payments.PayoutTarget, error) {
	booking, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, ErrBookingNotFound) {
			return nil, payments.ErrBookingNotFound
		}
		return nil, err
	}
	return &payments.PayoutTarget{
		BookingID:  booking.ID,
		BookingRef: booking.BookingRef,
		VendorID:   booking.VendorID,
		Succeeded:  booking.Status == StatusSuccess,
		NetPayable: booking.NetPayable,
		Currency:   booking.Currency,
	}, nil
}

// generateBookingReference returns PA-YYYYMMDD- followed by six random letters
func generateBookingReference() (string, error) {
	timestamp := time.Now().Format("20060102")

	const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	randomPart := make([]byte, 6)

	for i := range randomPart {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(letters))))
		if err != nil {
			return "", err
		}
		randomPart[i] = letters[num.Int64()]
	}

	return fmt.Sprintf("PA-%s-%s", timestamp, string(randomPart)), nil
}
