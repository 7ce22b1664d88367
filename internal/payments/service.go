package payments

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"

	"playarena/internal/notifications"
	"playarena/pkg/logger"
)

var (
	ErrBookingNotFound   = errors.New("booking not found")
	ErrBookingNotSettled = errors.New("payout requires a successful booking")
	ErrInvalidAmount     = errors.New("payout amount must be positive")
)

// PayoutTarget is the booking data a payout needs
type PayoutTarget struct {
	BookingID  uuid.UUID
	BookingRef string
	VendorID   uuid.UUID
	Succeeded  bool
	NetPayable float64
	Currency   string
}

// BookingLookup resolves payout targets. It returns ErrBookingNotFound for unknown ids.
type BookingLookup interface {
	PayoutTarget(ctx context.Context, bookingID uuid.UUID) (*PayoutTarget, error)
}

type Service interface {
	RecordPayout(ctx context.Context, adminID uuid.UUID, req RecordPayoutRequest) (*RolloutResponse, error)
	GetPayout(ctx context.Context, bookingID uuid.UUID) (*RolloutResponse, error)
	ListPayouts(ctx context.Context, query PayoutListQuery) (*PaginatedRollouts, error)
}

type service struct {
	repo      Repository
	bookings  BookingLookup
	publisher notifications.Publisher
}

func NewService(repo Repository, bookings BookingLookup, publisher notifications.Publisher) Service {
	if publisher == nil {
		publisher = notifications.NoopPublisher{}
	}
	return &service{repo: repo, bookings: bookings, publisher: publisher}
}

func (s *service) RecordPayout(ctx context.Context, adminID uuid.UUID, req RecordPayoutRequest) (*RolloutResponse, error) {
	target, err := s.bookings.PayoutTarget(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}
	if !target.Succeeded {
		return nil, ErrBookingNotSettled
	}

	amount := math.Round(target.NetPayable*100) / 100
	if req.Amount != nil {
		amount = *req.Amount
	}
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	date := req.Date
	if date == "" {
		date = time.Now().Format(time.DateOnly)
	}

	rollout, err := s.repo.Upsert(ctx, &PaymentRollout{
		BookingID:  target.BookingID,
		VendorID:   target.VendorID,
		Date:       date,
		Mode:       req.Mode,
		Amount:     amount,
		Reference:  req.Reference,
		Notes:      req.Notes,
		RecordedBy: adminID,
	})
	if err != nil {
		return nil, err
	}

	logger.GetDefault().LogPayoutRecorded(ctx, rollout.BookingID.String(), adminID.String(), rollout.Amount)

	msg := notifications.NewMessage(notifications.EventPayoutRecorded, rollout.BookingID)
	msg.BookingRef = target.BookingRef
	msg.VendorID = target.VendorID
	msg.Amount = rollout.Amount
	msg.Currency = target.Currency
	msg.Status = string(rollout.Mode)
	notifications.PublishSafely(ctx, s.publisher, msg)

	resp := rollout.ToResponse()
	resp.BookingRef = target.BookingRef
	return &resp, nil
}

func (s *service) GetPayout(ctx context.Context, bookingID uuid.UUID) (*RolloutResponse, error) {
	rollout, err := s.repo.GetByBookingID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	resp := rollout.ToResponse()
	return &resp, nil
}

func (s *service) ListPayouts(ctx context.Context, query PayoutListQuery) (*PaginatedRollouts, error) {
	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 20
	}

	rollouts, total, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, err
	}

	payouts := make([]RolloutResponse, 0, len(rollouts))
	for i := range rollouts {
		payouts = append(payouts, rollouts[i].ToResponse())
	}

	return &PaginatedRollouts{
		Payouts:    payouts,
		Total:      total,
		Page:       query.Page,
		Limit:      query.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(query.Limit))),
	}, nil
}
