package inventory

import (
	"github.com/google/uuid"

	"playarena/internal/schedule"
)

// Chart is a persisted booking chart entry as the merger sees it.
type Chart struct {
	ID               uuid.UUID     `json:"id"`
	Date             string        `json:"date"`
	Slot             schedule.Slot `json:"slot"`
	BookedSeats      int           `json:"booked_seats"`
	IsBookingEnabled bool          `json:"is_booking_enabled"`
}

// HasIdentity reports whether the chart already exists in storage.
func (c Chart) HasIdentity() bool {
	return c.ID != uuid.Nil
}

func (c Chart) key() string {
	return schedule.Entry{Date: c.Date, Slot: c.Slot}.Key()
}

// Plan is the keyed diff between generated inventory and what is stored.
type Plan struct {
	// Reconciled is the full inventory to persist, in generation order.
	Reconciled []Chart `json:"reconciled"`
	// Creates are reconciled entries without an identity yet.
	Creates []Chart `json:"creates"`
	// Updates are matched entries whose date or slot moved.
	Updates []Chart `json:"updates"`
	// Deletes are persisted entries that nothing generated matched.
	Deletes []Chart `json:"deletes"`
}

// IsNoop reports whether applying the plan would change nothing.
func (p Plan) IsNoop() bool {
	return len(p.Creates) == 0 && len(p.Updates) == 0 && len(p.Deletes) == 0
}

// Merge reconciles freshly generated entries against persisted charts.
//
// Exact (date, slot) matches are resolved first and carry identity,
// booked seats and the enabled flag. Remaining entries fall back to a
// match on date alone, which carries identity and counters from the
// date-matched chart so shifted slot definitions do not reset bookings.
// Every persisted chart is claimed at most once.
func Merge(generated []schedule.Entry, persisted []Chart) Plan {
	byKey := make(map[string][]int, len(persisted))
	byDate := make(map[string][]int, len(persisted))
	for i, c := range persisted {
		byKey[c.key()] = append(byKey[c.key()], i)
		byDate[c.Date] = append(byDate[c.Date], i)
	}

	claimed := make([]bool, len(persisted))
	matchOf := make([]int, len(generated))
	for i := range matchOf {
		matchOf[i] = -1
	}

	claim := func(candidates []int) int {
		for _, idx := range candidates {
			if !claimed[idx] {
				claimed[idx] = true
				return idx
			}
		}
		return -1
	}

	// exact matches take priority over date fallbacks
	for i, e := range generated {
		matchOf[i] = claim(byKey[e.Key()])
	}
	for i, e := range generated {
		if matchOf[i] < 0 {
			matchOf[i] = claim(byDate[e.Date])
		}
	}

	plan := Plan{Reconciled: make([]Chart, 0, len(generated))}
	for i, e := range generated {
		chart := Chart{Date: e.Date, Slot: e.Slot, IsBookingEnabled: true}

		if idx := matchOf[i]; idx >= 0 {
			prev := persisted[idx]
			chart.ID = prev.ID
			chart.BookedSeats = prev.BookedSeats
			chart.IsBookingEnabled = prev.IsBookingEnabled
			if prev.key() != chart.key() {
				plan.Updates = append(plan.Updates, chart)
			}
		} else {
			plan.Creates = append(plan.Creates, chart)
		}

		plan.Reconciled = append(plan.Reconciled, chart)
	}

	for i, c := range persisted {
		if !claimed[i] {
			plan.Deletes = append(plan.Deletes, c)
		}
	}

	return plan
}
