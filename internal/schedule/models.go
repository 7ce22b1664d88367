package schedule

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Mode is the scheduling mode of an event. An event has exactly one.
type Mode string

const (
	ModeSingle              Mode = "single"
	ModeRecurring           Mode = "recurring"
	ModeMonthlySubscription Mode = "monthly_subscription"
)

// IsValid checks if the mode is one of the known scheduling modes
func (m Mode) IsValid() bool {
	switch m {
	case ModeSingle, ModeRecurring, ModeMonthlySubscription:
		return true
	}
	return false
}

func (m Mode) String() string {
	return string(m)
}

// Window describes how a bookable day is divided.
type Window string

const (
	WindowFixed   Window = "fixed"   // one entry spanning opening..closing
	WindowSlotted Window = "slotted" // one entry per sub-day slot
)

const (
	DateLayout = "2006-01-02"

	// MinSlotDuration is the shortest auto-sliced slot, in minutes.
	MinSlotDuration = 5

	// MaxRangeDays bounds recurring inventory generation.
	MaxRangeDays = 370

	EndOfDay = "24:00"
)

var (
	ErrInvalidSchedule = errors.New("invalid schedule")

	ErrInvalidMode          = fmt.Errorf("%w: unknown scheduling mode", ErrInvalidSchedule)
	ErrInvalidDate          = fmt.Errorf("%w: dates must use YYYY-MM-DD", ErrInvalidSchedule)
	ErrDateRange            = fmt.Errorf("%w: end date must not be before start date", ErrInvalidSchedule)
	ErrDateRangeTooLong     = fmt.Errorf("%w: date range must not exceed %d days", ErrInvalidSchedule, MaxRangeDays)
	ErrNoWeekDays           = fmt.Errorf("%w: select at least one week day", ErrInvalidSchedule)
	ErrInvalidWeekDay       = fmt.Errorf("%w: week days must be one of MON,TUE,WED,THU,FRI,SAT,SUN", ErrInvalidSchedule)
	ErrInvalidTime          = fmt.Errorf("%w: times must use HH:MM", ErrInvalidSchedule)
	ErrTimeWindow           = fmt.Errorf("%w: closing time must be after opening time", ErrInvalidSchedule)
	ErrSlotDurationTooShort = fmt.Errorf("%w: slot duration must be at least %d minutes", ErrInvalidSchedule, MinSlotDuration)
	ErrInvalidSlot          = fmt.Errorf("%w: slot end must be after slot start", ErrInvalidSchedule)
	ErrNoSlots              = fmt.Errorf("%w: slotted events need slots or a slot duration", ErrInvalidSchedule)
)

var weekDayOrder = []string{"SUN", "MON", "TUE", "WED", "THU", "FRI", "SAT"}

// Slot is a time sub-window within a day. End may be "24:00".
type Slot struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Signature is the stable key of a slot, e.g. "09:00-09:20".
func (s Slot) Signature() string {
	return s.Start + "-" + s.End
}

// Config is the scheduling part of an event configuration.
type Config struct {
	Mode         Mode     `json:"mode"`
	StartDate    string   `json:"start_date"`
	EndDate      string   `json:"end_date"`
	WeekDays     []string `json:"week_days"`
	OpeningTime  string   `json:"opening_time"`
	ClosingTime  string   `json:"closing_time"`
	IsHaveSlots  bool     `json:"is_have_slots"`
	Slots        []Slot   `json:"slots"`
	SlotDuration int      `json:"slot_duration"`
	Is24Hours    bool     `json:"is_24_hours"`
}

// Entry is one candidate booking chart unit.
type Entry struct {
	Date string `json:"date"`
	Slot Slot   `json:"slot"`
}

// Key identifies an entry by date and slot signature.
func (e Entry) Key() string {
	return e.Date + "|" + e.Slot.Signature()
}

// Kind is the scheduling variant of an event: one mode crossed with one
// window layout.
type Kind struct {
	Mode   Mode   `json:"mode"`
	Window Window `json:"window"`
}

func (k Kind) String() string {
	return string(k.Mode) + "/" + string(k.Window)
}

// Kind maps the configuration flags to exactly one variant.
func (c Config) Kind() Kind {
	return Kind{Mode: c.Mode, Window: c.Window()}
}

// Window reports whether days are split into slots.
func (c Config) Window() Window {
	if c.IsHaveSlots {
		return WindowSlotted
	}
	return WindowFixed
}

// IsSubscription reports whether bookings against this schedule are uncapped.
func (c Config) IsSubscription() bool {
	return c.Mode == ModeMonthlySubscription
}

// Normalize upper-cases week days and drops duplicates, keeping calendar order.
func (c Config) Normalize() Config {
	seen := make(map[string]bool, len(c.WeekDays))
	for _, d := range c.WeekDays {
		seen[strings.ToUpper(strings.TrimSpace(d))] = true
	}
	days := make([]string, 0, len(seen))
	for _, d := range weekDayOrder {
		if seen[d] {
			days = append(days, d)
		}
	}
	c.WeekDays = days
	return c
}

// Validate rejects configurations that cannot produce inventory.
func (c Config) Validate() error {
	if !c.Mode.IsValid() {
		return ErrInvalidMode
	}

	start, err := time.Parse(DateLayout, c.StartDate)
	if err != nil {
		return ErrInvalidDate
	}

	if c.Mode != ModeSingle {
		end, err := time.Parse(DateLayout, c.EndDate)
		if err != nil {
			return ErrInvalidDate
		}
		if end.Before(start) {
			return ErrDateRange
		}
		if end.Sub(start) > MaxRangeDays*24*time.Hour {
			return ErrDateRangeTooLong
		}
	}

	for _, d := range c.WeekDays {
		if !IsWeekDay(d) {
			return ErrInvalidWeekDay
		}
	}
	if c.Mode == ModeRecurring && len(c.WeekDays) == 0 {
		return ErrNoWeekDays
	}

	if _, _, err := c.window(); err != nil {
		return err
	}

	if c.SlotDuration < 0 || (c.SlotDuration > 0 && c.SlotDuration < MinSlotDuration) {
		return ErrSlotDurationTooShort
	}

	if c.IsHaveSlots {
		if len(c.Slots) == 0 && c.SlotDuration == 0 {
			return ErrNoSlots
		}
		for _, s := range c.Slots {
			from, err := ParseClock(s.Start)
			if err != nil {
				return err
			}
			to, err := ParseClock(s.End)
			if err != nil {
				return err
			}
			if to <= from {
				return ErrInvalidSlot
			}
		}
	}

	return nil
}

// window returns the opening and closing minute of the day.
func (c Config) window() (int, int, error) {
	if c.Is24Hours {
		return 0, minutesPerDay, nil
	}
	open, err := ParseClock(c.OpeningTime)
	if err != nil {
		return 0, 0, err
	}
	closing, err := ParseClock(c.ClosingTime)
	if err != nil {
		return 0, 0, err
	}
	if closing <= open {
		return 0, 0, ErrTimeWindow
	}
	return open, closing, nil
}

// WindowSlot returns the overall opening..closing window as a slot.
func (c Config) WindowSlot() Slot {
	if c.Is24Hours {
		return Slot{Start: "00:00", End: EndOfDay}
	}
	return Slot{Start: c.OpeningTime, End: c.ClosingTime}
}

// IsWeekDay checks a three-letter weekday abbreviation such as "MON".
func IsWeekDay(day string) bool {
	day = strings.ToUpper(strings.TrimSpace(day))
	for _, d := range weekDayOrder {
		if d == day {
			return true
		}
	}
	return false
}

// WeekDayOf returns the abbreviation of t's weekday.
func WeekDayOf(t time.Time) string {
	return weekDayOrder[t.Weekday()]
}
