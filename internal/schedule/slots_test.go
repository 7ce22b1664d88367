package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func weekDayOfDate(t *testing.T, date string) string {
	t.Helper()
	d, err := time.Parse(DateLayout, date)
	require.NoError(t, err)
	return WeekDayOf(d)
}

func TestGenerateSlots_TwentyMinuteWindow(t *testing.T) {
	slots, err := GenerateSlots("09:00", "10:00", 20, false)

	require.NoError(t, err)
	assert.Equal(t, []Slot{
		{Start: "09:00", End: "09:20"},
		{Start: "09:20", End: "09:40"},
		{Start: "09:40", End: "10:00"},
	}, slots)
}

func TestGenerateSlots_LastSlotClippedToWindow(t *testing.T) {
	slots, err := GenerateSlots("09:00", "10:10", 30, false)

	require.NoError(t, err)
	require.Len(t, slots, 3)
	assert.Equal(t, Slot{Start: "10:00", End: "10:10"}, slots[2])
}

func TestGenerateSlots_CountIsCeilOfWindowOverDuration(t *testing.T) {
	cases := []struct {
		opening, closing string
		duration         int
	}{
		{"06:00", "22:00", 45},
		{"00:00", "24:00", 7},
		{"13:15", "13:40", 5},
		{"08:00", "08:01", 60},
	}

	for _, c := range cases {
		from, err := ParseClock(c.opening)
		require.NoError(t, err)
		to, err := ParseClock(c.closing)
		require.NoError(t, err)

		slots, err := GenerateSlots(c.opening, c.closing, c.duration, false)
		require.NoError(t, err)

		length := to - from
		want := (length + c.duration - 1) / c.duration
		assert.Len(t, slots, want, "%s-%s every %d", c.opening, c.closing, c.duration)
		assert.Equal(t, c.opening, slots[0].Start)
	}
}

func TestGenerateSlots_TwentyFourHourWindowEndsAtMidnightSentinel(t *testing.T) {
	slots, err := GenerateSlots("", "", 60, true)

	require.NoError(t, err)
	require.Len(t, slots, 24)
	assert.Equal(t, Slot{Start: "00:00", End: "01:00"}, slots[0])
	assert.Equal(t, Slot{Start: "23:00", End: "24:00"}, slots[23])
	for _, s := range slots {
		assert.NotEqual(t, "00:00", s.End)
	}
}

func TestGenerateSlots_EndIs2400OnlyWhenWindowReachesMidnight(t *testing.T) {
	slots, err := GenerateSlots("20:00", "23:30", 90, false)
	require.NoError(t, err)
	assert.Equal(t, "23:30", slots[len(slots)-1].End)

	slots, err = GenerateSlots("20:00", "24:00", 90, false)
	require.NoError(t, err)
	assert.Equal(t, "24:00", slots[len(slots)-1].End)
}

func TestGenerateSlots_RejectsShortDuration(t *testing.T) {
	_, err := GenerateSlots("09:00", "10:00", 4, false)
	assert.ErrorIs(t, err, ErrSlotDurationTooShort)

	_, err = GenerateSlots("09:00", "10:00", 0, false)
	assert.ErrorIs(t, err, ErrSlotDurationTooShort)
}

func TestGenerateSlots_RejectsInvertedWindow(t *testing.T) {
	_, err := GenerateSlots("10:00", "09:00", 15, false)
	assert.ErrorIs(t, err, ErrTimeWindow)
}

func TestParseClock(t *testing.T) {
	m, err := ParseClock("24:00")
	require.NoError(t, err)
	assert.Equal(t, 1440, m)

	m, err = ParseClock("07:05")
	require.NoError(t, err)
	assert.Equal(t, 425, m)

	for _, bad := range []string{"7:05", "24:01", "12:60", "ab:cd", "", "12-30"} {
		_, err := ParseClock(bad)
		assert.ErrorIs(t, err, ErrInvalidTime, bad)
	}
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "00:00", FormatClock(0))
	assert.Equal(t, "09:05", FormatClock(545))
	assert.Equal(t, "24:00", FormatClock(1440))
}
