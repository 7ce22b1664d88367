package analytics

import (
	"time"

	"github.com/google/uuid"
)

// Dashboard & Overview Models

type Dashboard struct {
	Bookings    BookingOverview       `json:"bookings"`
	Revenue     RevenueOverview       `json:"revenue"`
	Payouts     PayoutOverview        `json:"payouts"`
	Events      map[string]int64      `json:"events_by_status"`
	Users       map[string]int64      `json:"users_by_role,omitempty"`
	TopEvents   []EventPerformance    `json:"top_events"`
	Categories  []CategoryPerformance `json:"categories,omitempty"`
	DailyTrend  []DailyMetric         `json:"daily_trend"`
	WindowDays  int                   `json:"window_days"`
	GeneratedAt time.Time             `json:"generated_at"`
}

type BookingOverview struct {
	Total   int64 `json:"total"`
	Pending int64 `json:"pending"`
	Success int64 `json:"success"`
	Failed  int64 `json:"failed"`
	// Seats counts only successful bookings
	Seats int64 `json:"seats"`
}

// RevenueOverview sums the settlement columns of successful bookings
type RevenueOverview struct {
	Gross          float64 `json:"gross"`
	Collected      float64 `json:"collected"`
	ConvenienceFee float64 `json:"convenience_fee"`
	GST            float64 `json:"gst"`
	TDS            float64 `json:"tds"`
	TCS            float64 `json:"tcs"`
	NetCommission  float64 `json:"net_commission"`
	NetPayable     float64 `json:"net_payable"`
}

type PayoutOverview struct {
	Recorded    int64   `json:"recorded"`
	PaidOut     float64 `json:"paid_out"`
	Outstanding float64 `json:"outstanding"`
}

type EventPerformance struct {
	EventID  uuid.UUID `json:"event_id"`
	Name     string    `json:"name"`
	Bookings int64     `json:"bookings"`
	Seats    int64     `json:"seats"`
	Gross    float64   `json:"gross"`
}

type CategoryPerformance struct {
	Slug     string  `json:"slug"`
	Bookings int64   `json:"bookings"`
	Gross    float64 `json:"gross"`
}

// DailyMetric is keyed by the play date of the booked slot
type DailyMetric struct {
	Date     string  `json:"date"`
	Bookings int64   `json:"bookings"`
	Gross    float64 `json:"gross"`
}

// Scope narrows every aggregate to one vendor when VendorID is set
type Scope struct {
	VendorID *uuid.UUID
}
