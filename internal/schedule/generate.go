package schedule

import "time"

// Generate derives the ordered list of bookable (date, slot) entries for a
// configuration. Dates ascend and, within a date, slots keep their
// configured order. It performs no I/O.
func Generate(cfg Config) ([]Entry, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.Normalize()

	dates, err := Dates(cfg)
	if err != nil {
		return nil, err
	}
	slots, err := DaySlots(cfg)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(dates)*len(slots))
	for _, date := range dates {
		for _, slot := range slots {
			entries = append(entries, Entry{Date: date, Slot: slot})
		}
	}
	return entries, nil
}

// Dates lists the calendar dates the configuration makes bookable.
func Dates(cfg Config) ([]string, error) {
	start, err := time.Parse(DateLayout, cfg.StartDate)
	if err != nil {
		return nil, ErrInvalidDate
	}
	if cfg.Mode == ModeSingle {
		return []string{start.Format(DateLayout)}, nil
	}

	end, err := time.Parse(DateLayout, cfg.EndDate)
	if err != nil {
		return nil, ErrInvalidDate
	}

	// subscriptions without a week day selection run every day
	allDays := cfg.Mode == ModeMonthlySubscription && len(cfg.WeekDays) == 0
	selected := make(map[string]bool, len(cfg.WeekDays))
	for _, d := range cfg.WeekDays {
		selected[d] = true
	}

	var dates []string
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		if allDays || selected[WeekDayOf(day)] {
			dates = append(dates, day.Format(DateLayout))
		}
	}
	return dates, nil
}

// DaySlots returns the slots every bookable date is crossed with. A fixed
// window yields the single opening..closing slot.
func DaySlots(cfg Config) ([]Slot, error) {
	if !cfg.IsHaveSlots {
		return []Slot{cfg.WindowSlot()}, nil
	}
	if len(cfg.Slots) > 0 {
		slots := make([]Slot, len(cfg.Slots))
		copy(slots, cfg.Slots)
		return slots, nil
	}
	return GenerateSlots(cfg.OpeningTime, cfg.ClosingTime, cfg.SlotDuration, cfg.Is24Hours)
}
