package bookings

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrChartNotFound   = errors.New("booking chart not found")
	ErrBookingDisabled = errors.New("booking is disabled for this slot")
	ErrEmptyOrder      = errors.New("order must request at least one ticket")
	ErrInvalidQuantity = errors.New("ticket quantity cannot be negative")
)

// IsNotFound reports the not-found class: a missing chart or one closed for booking
func IsNotFound(err error) bool {
	return errors.Is(err, ErrChartNotFound) || errors.Is(err, ErrBookingDisabled)
}

// CapacityError rejects an order that would overbook a chart
type CapacityError struct {
	Requested int
	Remaining int
}

func (e *CapacityError) Error() string {
	if e.Remaining <= 0 {
		return "no seats remaining for this slot"
	}
	return fmt.Sprintf("only %d seats remaining, requested %d", e.Remaining, e.Requested)
}

// ChartSnapshot is the state of one booking chart at validation time
type ChartSnapshot struct {
	ID                  uuid.UUID
	BookedSeats         int
	IsBookingEnabled    bool
	MaximumParticipants int
	// Uncapped charts belong to monthly subscriptions
	Uncapped bool
}

// Remaining is the number of seats still open, or -1 when uncapped
func (c *ChartSnapshot) Remaining() int {
	if c.Uncapped {
		return -1
	}
	if left := c.MaximumParticipants - c.BookedSeats; left > 0 {
		return left
	}
	return 0
}

// OrderItem is one requested tier resolved against the event's pricing
type OrderItem struct {
	TierID         uuid.UUID
	Name           string
	Group          bool
	MembersPerUnit int
	Quantity       int
	UnitAmount     float64
}

// Units is the number of priced units. Group tiers sell whole groups.
func (i OrderItem) Units() int {
	if i.Group && i.MembersPerUnit > 1 {
		return (i.Quantity + i.MembersPerUnit - 1) / i.MembersPerUnit
	}
	return i.Quantity
}

func (i OrderItem) Subtotal() float64 {
	return i.UnitAmount * float64(i.Units())
}

// Admission is an accepted order
type Admission struct {
	Seats int
	Gross float64
	Items []OrderItem
}

// ValidateOrder decides whether items can be booked on chart. Seat counts use
// raw quantities, group tiers included.
func ValidateOrder(chart *ChartSnapshot, items []OrderItem) (Admission, error) {
	if chart == nil {
		return Admission{}, ErrChartNotFound
	}
	if !chart.IsBookingEnabled {
		return Admission{}, ErrBookingDisabled
	}

	admission := Admission{Items: make([]OrderItem, 0, len(items))}
	for _, item := range items {
		if item.Quantity < 0 {
			return Admission{}, ErrInvalidQuantity
		}
		if item.Quantity == 0 {
			continue
		}
		admission.Seats += item.Quantity
		admission.Gross += item.Subtotal()
		admission.Items = append(admission.Items, item)
	}

	if admission.Seats == 0 {
		return Admission{}, ErrEmptyOrder
	}

	if !chart.Uncapped && chart.BookedSeats+admission.Seats > chart.MaximumParticipants {
		return Admission{}, &CapacityError{Requested: admission.Seats, Remaining: chart.Remaining()}
	}

	return admission, nil
}
