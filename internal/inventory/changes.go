package inventory

import (
	"time"

	"playarena/internal/schedule"
)

// Signature summarises the scheduling-relevant shape of an inventory.
type Signature struct {
	Dates       map[string]bool
	WeekDays    map[string]bool
	Slots       map[string]bool
	OpeningTime string
	ClosingTime string
}

// SignatureOf derives a signature from persisted charts.
func SignatureOf(charts []Chart) Signature {
	entries := make([]schedule.Entry, len(charts))
	for i, c := range charts {
		entries[i] = schedule.Entry{Date: c.Date, Slot: c.Slot}
	}
	return signatureOfEntries(entries)
}

func signatureOfEntries(entries []schedule.Entry) Signature {
	sig := Signature{
		Dates:    make(map[string]bool),
		WeekDays: make(map[string]bool),
		Slots:    make(map[string]bool),
	}

	opening, closing := -1, -1
	for _, e := range entries {
		sig.Dates[e.Date] = true
		if d, err := time.Parse(schedule.DateLayout, e.Date); err == nil {
			sig.WeekDays[schedule.WeekDayOf(d)] = true
		}
		sig.Slots[e.Slot.Signature()] = true

		if from, err := schedule.ParseClock(e.Slot.Start); err == nil && (opening < 0 || from < opening) {
			opening = from
		}
		if to, err := schedule.ParseClock(e.Slot.End); err == nil && to > closing {
			closing = to
		}
	}

	if opening >= 0 {
		sig.OpeningTime = schedule.FormatClock(opening)
	}
	if closing >= 0 {
		sig.ClosingTime = schedule.FormatClock(closing)
	}
	return sig
}

// Equal compares every axis of two signatures.
func (s Signature) Equal(other Signature) bool {
	return sameSet(s.Dates, other.Dates) &&
		sameSet(s.WeekDays, other.WeekDays) &&
		sameSet(s.Slots, other.Slots) &&
		s.OpeningTime == other.OpeningTime &&
		s.ClosingTime == other.ClosingTime
}

// NeedsReconcile reports whether cfg would produce inventory with a
// different date set, weekday set, slot set or time window than the
// persisted charts. Unrelated event edits therefore cause no churn.
func NeedsReconcile(persisted []Chart, cfg schedule.Config) (bool, error) {
	generated, err := schedule.Generate(cfg)
	if err != nil {
		return false, err
	}
	if len(persisted) == 0 {
		return len(generated) > 0, nil
	}
	return !SignatureOf(persisted).Equal(signatureOfEntries(generated)), nil
}

func sameSet(a, b map[string]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if !b[k] {
			return false
		}
	}
	return true
}
