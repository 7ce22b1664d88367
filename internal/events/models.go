package events

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"playarena/internal/inventory"
	"playarena/internal/schedule"
)

// Event is a vendor-owned listing together with its scheduling configuration
type Event struct {
	ID           uuid.UUID   `json:"id" gorm:"type:uuid;primaryKey"`
	VendorID     uuid.UUID   `json:"vendor_id" gorm:"type:uuid;not null;index"`
	Name         string      `json:"name" gorm:"not null;size:255"`
	Description  string      `json:"description" gorm:"type:text"`
	CategorySlug string      `json:"category_slug" gorm:"size:100;index"`
	City         string      `json:"city" gorm:"size:100;index"`
	Address      string      `json:"address" gorm:"size:500"`
	ImageURL     string      `json:"image_url" gorm:"size:500"`
	Status       EventStatus `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`

	Mode         schedule.Mode `json:"mode" gorm:"type:varchar(30);not null"`
	StartDate    string        `json:"start_date" gorm:"type:varchar(10);not null"`
	EndDate      string        `json:"end_date" gorm:"type:varchar(10)"`
	WeekDays     StringList    `json:"week_days" gorm:"type:text"`
	OpeningTime  string        `json:"opening_time" gorm:"type:varchar(5)"`
	ClosingTime  string        `json:"closing_time" gorm:"type:varchar(5)"`
	IsHaveSlots  bool          `json:"is_have_slots"`
	Slots        SlotList      `json:"slots" gorm:"type:text"`
	SlotDuration int           `json:"slot_duration"`
	Is24Hours    bool          `json:"is_24_hours"`

	// MaximumParticipants caps booked seats per chart, except for subscriptions
	MaximumParticipants int  `json:"maximum_participants" gorm:"not null"`
	IsTeamEvent         bool `json:"is_team_event"`
	TeamSize            int  `json:"team_size"`

	IsOnline      bool `json:"is_online"`
	IsHomeService bool `json:"is_home_service"`
	IsPhysical    bool `json:"is_physical"`

	Tiers []BookingDetailType `json:"tiers" gorm:"foreignKey:EventID"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Event) TableName() string {
	return "events"
}

func (e *Event) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// Schedule extracts the scheduling configuration of the event
func (e *Event) Schedule() schedule.Config {
	return schedule.Config{
		Mode:         e.Mode,
		StartDate:    e.StartDate,
		EndDate:      e.EndDate,
		WeekDays:     []string(e.WeekDays),
		OpeningTime:  e.OpeningTime,
		ClosingTime:  e.ClosingTime,
		IsHaveSlots:  e.IsHaveSlots,
		Slots:        []schedule.Slot(e.Slots),
		SlotDuration: e.SlotDuration,
		Is24Hours:    e.Is24Hours,
	}
}

// SetSchedule copies a normalized configuration onto the event
func (e *Event) SetSchedule(cfg schedule.Config) {
	e.Mode = cfg.Mode
	e.StartDate = cfg.StartDate
	e.EndDate = cfg.EndDate
	e.WeekDays = StringList(cfg.WeekDays)
	e.OpeningTime = cfg.OpeningTime
	e.ClosingTime = cfg.ClosingTime
	e.IsHaveSlots = cfg.IsHaveSlots
	e.Slots = SlotList(cfg.Slots)
	e.SlotDuration = cfg.SlotDuration
	e.Is24Hours = cfg.Is24Hours
}

func (e *Event) IsSubscription() bool {
	return e.Mode == schedule.ModeMonthlySubscription
}

// BookingChart is one bookable (date, slot) unit of an event
type BookingChart struct {
	ID               uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	EventID          uuid.UUID `json:"event_id" gorm:"type:uuid;not null;index:idx_booking_charts_event_date"`
	Date             string    `json:"date" gorm:"type:varchar(10);not null;index:idx_booking_charts_event_date"`
	SlotStart        string    `json:"slot_start" gorm:"type:varchar(5);not null"`
	SlotEnd          string    `json:"slot_end" gorm:"type:varchar(5);not null"`
	BookedSeats      int       `json:"booked_seats" gorm:"not null;default:0;check:booked_seats >= 0"`
	IsBookingEnabled bool      `json:"is_booking_enabled" gorm:"not null"`
	CreatedAt        time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt        time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (BookingChart) TableName() string {
	return "booking_charts"
}

func (c *BookingChart) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (c *BookingChart) Slot() schedule.Slot {
	return schedule.Slot{Start: c.SlotStart, End: c.SlotEnd}
}

// ToInventory converts the row to the merger's view of a chart
func (c *BookingChart) ToInventory() inventory.Chart {
	return inventory.Chart{
		ID:               c.ID,
		Date:             c.Date,
		Slot:             c.Slot(),
		BookedSeats:      c.BookedSeats,
		IsBookingEnabled: c.IsBookingEnabled,
	}
}

func chartFromInventory(eventID uuid.UUID, c inventory.Chart) BookingChart {
	return BookingChart{
		ID:               c.ID,
		EventID:          eventID,
		Date:             c.Date,
		SlotStart:        c.Slot.Start,
		SlotEnd:          c.Slot.End,
		BookedSeats:      c.BookedSeats,
		IsBookingEnabled: c.IsBookingEnabled,
	}
}

// BookingDetailType is a ticket tier of an event
type BookingDetailType struct {
	ID      uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	EventID uuid.UUID `json:"event_id" gorm:"type:uuid;not null;index"`
	Type    TierType  `json:"type" gorm:"type:varchar(20);not null"`
	Name    string    `json:"name" gorm:"size:100"`
	Amount  float64   `json:"amount" gorm:"not null;check:amount >= 0"`
	// Currency is an ISO 4217 code
	Currency string `json:"currency" gorm:"type:varchar(3);not null;default:'INR'"`
	// Members is the group size a group tier admits per unit
	Members        int       `json:"members"`
	DurationMonths int       `json:"duration_months"`
	CreatedAt      time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (BookingDetailType) TableName() string {
	return "booking_detail_types"
}

func (t *BookingDetailType) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
