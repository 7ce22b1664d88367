package schedule

import (
	"fmt"
	"strconv"
	"strings"
)

const minutesPerDay = 24 * 60

// ParseClock converts "HH:MM" to minutes since midnight. "24:00" is
// accepted as the end of the day.
func ParseClock(value string) (int, error) {
	parts := strings.Split(strings.TrimSpace(value), ":")
	if len(parts) != 2 || len(parts[0]) != 2 || len(parts[1]) != 2 {
		return 0, ErrInvalidTime
	}

	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, ErrInvalidTime
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, ErrInvalidTime
	}

	if hours == 24 && minutes == 0 {
		return minutesPerDay, nil
	}
	if hours < 0 || hours > 23 || minutes < 0 || minutes > 59 {
		return 0, ErrInvalidTime
	}
	return hours*60 + minutes, nil
}

// FormatClock renders minutes since midnight as "HH:MM". Midnight of the
// following day renders as "24:00" so a closing slot never reads "00:00".
func FormatClock(minutes int) string {
	if minutes >= minutesPerDay {
		return EndOfDay
	}
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// GenerateSlots slices the opening..closing window into consecutive slots
// of durationMinutes. The last slot is clipped to the window end. When
// is24Hours is set the window is the whole day and opening/closing are ignored.
func GenerateSlots(opening, closing string, durationMinutes int, is24Hours bool) ([]Slot, error) {
	if durationMinutes < MinSlotDuration {
		return nil, ErrSlotDurationTooShort
	}

	from, to := 0, minutesPerDay
	if !is24Hours {
		var err error
		if from, err = ParseClock(opening); err != nil {
			return nil, err
		}
		if to, err = ParseClock(closing); err != nil {
			return nil, err
		}
		if to <= from {
			return nil, ErrTimeWindow
		}
	}

	slots := make([]Slot, 0, (to-from+durationMinutes-1)/durationMinutes)
	for start := from; start < to; start += durationMinutes {
		end := start + durationMinutes
		if end > to {
			end = to
		}
		slots = append(slots, Slot{Start: FormatClock(start), End: FormatClock(end)})
	}
	return slots, nil
}
