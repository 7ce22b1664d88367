package bookings

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openChart(booked, max int) *ChartSnapshot {
	return &ChartSnapshot{ID: uuid.New(), BookedSeats: booked, IsBookingEnabled: true, MaximumParticipants: max}
}

func single(qty int, amount float64) OrderItem {
	return OrderItem{TierID: uuid.New(), Quantity: qty, UnitAmount: amount}
}

func TestValidateOrder_MissingChart(t *testing.T) {
	_, err := ValidateOrder(nil, []OrderItem{single(1, 100)})

	assert.ErrorIs(t, err, ErrChartNotFound)
	assert.True(t, IsNotFound(err))
}

func TestValidateOrder_DisabledChart(t *testing.T) {
	chart := openChart(0, 10)
	chart.IsBookingEnabled = false

	_, err := ValidateOrder(chart, []OrderItem{single(1, 100)})

	assert.ErrorIs(t, err, ErrBookingDisabled)
	assert.True(t, IsNotFound(err))
}

func TestValidateOrder_EmptyOrder(t *testing.T) {
	_, err := ValidateOrder(openChart(0, 10), []OrderItem{single(0, 100), single(0, 50)})

	assert.ErrorIs(t, err, ErrEmptyOrder)
	assert.False(t, IsNotFound(err))
}

func TestValidateOrder_NegativeQuantity(t *testing.T) {
	_, err := ValidateOrder(openChart(0, 10), []OrderItem{single(-1, 100)})

	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestValidateOrder_CapacityMessageStatesRemaining(t *testing.T) {
	_, err := ValidateOrder(openChart(7, 10), []OrderItem{single(2, 100), single(2, 100)})

	var capErr *CapacityError
	require.True(t, errors.As(err, &capErr))
	assert.Equal(t, 3, capErr.Remaining)
	assert.Equal(t, 4, capErr.Requested)
	assert.Contains(t, err.Error(), "only 3 seats remaining")
}

func TestValidateOrder_FullChart(t *testing.T) {
	_, err := ValidateOrder(openChart(10, 10), []OrderItem{single(1, 100)})

	var capErr *CapacityError
	require.True(t, errors.As(err, &capErr))
	assert.Equal(t, 0, capErr.Remaining)
	assert.Contains(t, err.Error(), "no seats remaining")
}

func TestValidateOrder_ExactFitAdmitted(t *testing.T) {
	admission, err := ValidateOrder(openChart(6, 10), []OrderItem{single(4, 250)})

	require.NoError(t, err)
	assert.Equal(t, 4, admission.Seats)
	assert.Equal(t, 1000.0, admission.Gross)
}

func TestValidateOrder_SubscriptionIsUncapped(t *testing.T) {
	chart := openChart(500, 10)
	chart.Uncapped = true

	admission, err := ValidateOrder(chart, []OrderItem{single(3, 1500)})

	require.NoError(t, err)
	assert.Equal(t, 3, admission.Seats)
	assert.Equal(t, -1, chart.Remaining())
}

func TestValidateOrder_GroupTierCountsRawSeatsAndPricesWholeGroups(t *testing.T) {
	group := OrderItem{TierID: uuid.New(), Group: true, MembersPerUnit: 4, Quantity: 5, UnitAmount: 1000}

	admission, err := ValidateOrder(openChart(0, 10), []OrderItem{group})

	require.NoError(t, err)
	assert.Equal(t, 5, admission.Seats)
	assert.Equal(t, 2, group.Units())
	assert.Equal(t, 2000.0, admission.Gross)
}

func TestValidateOrder_DropsZeroQuantityLines(t *testing.T) {
	admission, err := ValidateOrder(openChart(0, 10), []OrderItem{single(0, 100), single(2, 100)})

	require.NoError(t, err)
	assert.Len(t, admission.Items, 1)
}

// Sequential admissions against one chart never exceed its capacity.
func TestValidateOrder_AdmittedSumNeverExceedsCapacity(t *testing.T) {
	chart := openChart(0, 10)
	admitted := 0
	for _, qty := range []int{3, 4, 2, 5, 1, 1} {
		admission, err := ValidateOrder(chart, []OrderItem{single(qty, 10)})
		if err != nil {
			continue
		}
		chart.BookedSeats += admission.Seats
		admitted += admission.Seats
	}

	assert.Equal(t, 10, admitted)
}
