package bookings

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"playarena/internal/events"
)

var ErrBookingNotFound = errors.New("booking not found")

// ListScope narrows a listing to one user or one vendor
type ListScope struct {
	UserID   uuid.UUID
	VendorID uuid.UUID
}

type Repository interface {
	// Reserve books seats on the chart and inserts the pending booking in one transaction
	Reserve(ctx context.Context, booking *Booking, chart *ChartSnapshot) error
	GetByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	GetByGatewayOrderID(ctx context.Context, orderID string) (*Booking, error)
	SetGatewayOrder(ctx context.Context, id uuid.UUID, orderID string) error
	// Finalize moves a pending booking to a terminal status. It reports false
	// when the booking was no longer pending.
	Finalize(ctx context.Context, id uuid.UUID, status Status, paymentID, reason string, at time.Time) (bool, error)
	List(ctx context.Context, query BookingListQuery, scope ListScope) ([]Booking, int64, error)
	HasSuccessfulBooking(ctx context.Context, userID, eventID uuid.UUID) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Reserve(ctx context.Context, booking *Booking, chart *ChartSnapshot) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		update := tx.Model(&events.BookingChart{}).
			Where("id = ? AND is_booking_enabled = ?", chart.ID, true)
		if !chart.Uncapped {
			update = update.Where("booked_seats + ? <= ?", booking.Seats, chart.MaximumParticipants)
		}

		result := update.UpdateColumns(map[string]interface{}{
			"booked_seats": gorm.Expr("booked_seats + ?", booking.Seats),
			"updated_at":   time.Now(),
		})
		if result.Error != nil {
			return fmt.Errorf("failed to reserve seats: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return rejection(tx, chart, booking.Seats)
		}

		if err := tx.Create(booking).Error; err != nil {
			return fmt.Errorf("failed to create booking: %w", err)
		}
		return nil
	})
}

// rejection explains why the conditional update matched no row
func rejection(tx *gorm.DB, chart *ChartSnapshot, requested int) error {
	var current events.BookingChart
	if err := tx.Where("id = ?", chart.ID).First(&current).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrChartNotFound
		}
		return err
	}
	if !current.IsBookingEnabled {
		return ErrBookingDisabled
	}
	remaining := chart.MaximumParticipants - current.BookedSeats
	if remaining < 0 {
		remaining = 0
	}
	return &CapacityError{Requested: requested, Remaining: remaining}
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	var booking Booking
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&booking).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &booking, nil
}

func (r *repository) GetByGatewayOrderID(ctx context.Context, orderID string) (*Booking, error) {
	var booking Booking
	if err := r.db.WithContext(ctx).Where("gateway_order_id = ?", orderID).First(&booking).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &booking, nil
}

func (r *repository) SetGatewayOrder(ctx context.Context, id uuid.UUID, orderID string) error {
	result := r.db.WithContext(ctx).Model(&Booking{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"gateway_order_id": orderID, "updated_at": time.Now()})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrBookingNotFound
	}
	return nil
}

func (r *repository) Finalize(ctx context.Context, id uuid.UUID, status Status, paymentID, reason string, at time.Time) (bool, error) {
	updates := map[string]interface{}{
		"status":         status,
		"failure_reason": reason,
		"updated_at":     at,
	}
	if paymentID != "" {
		updates["gateway_payment_id"] = paymentID
	}
	if status == StatusSuccess {
		updates["paid_at"] = at
	}

	result := r.db.WithContext(ctx).Model(&Booking{}).
		Where("id = ? AND status = ?", id, StatusPending).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repository) List(ctx context.Context, query BookingListQuery, scope ListScope) ([]Booking, int64, error) {
	baseQuery := r.db.WithContext(ctx).Model(&Booking{})
	if scope.UserID != uuid.Nil {
		baseQuery = baseQuery.Where("user_id = ?", scope.UserID)
	}
	if scope.VendorID != uuid.Nil {
		baseQuery = baseQuery.Where("vendor_id = ?", scope.VendorID)
	}
	baseQuery = applyFilters(baseQuery, query)

	var totalCount int64
	if err := baseQuery.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	var bookings []Booking
	err := baseQuery.
		Order("created_at DESC").
		Offset((query.Page - 1) * query.Limit).
		Limit(query.Limit).
		Find(&bookings).Error
	return bookings, totalCount, err
}

func (r *repository) HasSuccessfulBooking(ctx context.Context, userID, eventID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Booking{}).
		Where("user_id = ? AND event_id = ? AND status = ?", userID, eventID, StatusSuccess).
		Count(&count).Error
	return count > 0, err
}

func applyFilters(query *gorm.DB, filters BookingListQuery) *gorm.DB {
	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}

	if filters.EventID != "" {
		if eventID, err := uuid.Parse(filters.EventID); err == nil {
			query = query.Where("event_id = ?", eventID)
		}
	}

	// date filters apply to the booked slot date, not the order time
	if filters.DateFrom != "" {
		query = query.Where("chart_date >= ?", filters.DateFrom)
	}
	if filters.DateTo != "" {
		query = query.Where("chart_date <= ?", filters.DateTo)
	}

	return query
}

func CalculateTotalPages(totalCount int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int(math.Ceil(float64(totalCount) / float64(limit)))
}
