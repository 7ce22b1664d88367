package events

import (
	"strconv"

	"playarena/internal/schedule"
)

type ScheduleRequest struct {
	Mode         schedule.Mode   `json:"mode" binding:"required,oneof=single recurring monthly_subscription"`
	StartDate    string          `json:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate      string          `json:"end_date" binding:"omitempty,datetime=2006-01-02"`
	WeekDays     []string        `json:"week_days" binding:"omitempty,dive,len=3"`
	OpeningTime  string          `json:"opening_time" binding:"omitempty,len=5"`
	ClosingTime  string          `json:"closing_time" binding:"omitempty,len=5"`
	IsHaveSlots  bool            `json:"is_have_slots"`
	Slots        []schedule.Slot `json:"slots" binding:"omitempty,dive"`
	SlotDuration int             `json:"slot_duration" binding:"omitempty,min=0,max=1440"`
	Is24Hours    bool            `json:"is_24_hours"`
}

func (r ScheduleRequest) Config() schedule.Config {
	return schedule.Config{
		Mode:         r.Mode,
		StartDate:    r.StartDate,
		EndDate:      r.EndDate,
		WeekDays:     r.WeekDays,
		OpeningTime:  r.OpeningTime,
		ClosingTime:  r.ClosingTime,
		IsHaveSlots:  r.IsHaveSlots,
		Slots:        r.Slots,
		SlotDuration: r.SlotDuration,
		Is24Hours:    r.Is24Hours,
	}
}

type TierRequest struct {
	Type           TierType `json:"type" binding:"required,oneof=single group package subscription"`
	Name           string   `json:"name" binding:"max=100"`
	Amount         float64  `json:"amount" binding:"min=0"`
	Currency       string   `json:"currency" binding:"omitempty,len=3"`
	Members        int      `json:"members" binding:"omitempty,min=1,max=1000"`
	DurationMonths int      `json:"duration_months" binding:"omitempty,min=1,max=36"`
}

type CreateEventRequest struct {
	Name                string          `json:"name" binding:"required,min=3,max=255"`
	Description         string          `json:"description" binding:"max=5000"`
	CategorySlug        string          `json:"category_slug" binding:"omitempty,max=100"`
	City                string          `json:"city" binding:"omitempty,max=100"`
	Address             string          `json:"address" binding:"omitempty,max=500"`
	ImageURL            string          `json:"image_url" binding:"omitempty,url"`
	Schedule            ScheduleRequest `json:"schedule" binding:"required"`
	MaximumParticipants int             `json:"maximum_participants" binding:"required,min=1,max=100000"`
	IsTeamEvent         bool            `json:"is_team_event"`
	TeamSize            int             `json:"team_size" binding:"omitempty,min=1,max=100"`
	IsOnline            bool            `json:"is_online"`
	IsHomeService       bool            `json:"is_home_service"`
	IsPhysical          bool            `json:"is_physical"`
	Tiers               []TierRequest   `json:"tiers" binding:"required,min=1,dive"`
}

type UpdateEventRequest struct {
	Name                *string          `json:"name" binding:"omitempty,min=3,max=255"`
	Description         *string          `json:"description" binding:"omitempty,max=5000"`
	CategorySlug        *string          `json:"category_slug" binding:"omitempty,max=100"`
	City                *string          `json:"city" binding:"omitempty,max=100"`
	Address             *string          `json:"address" binding:"omitempty,max=500"`
	ImageURL            *string          `json:"image_url" binding:"omitempty,url"`
	Schedule            *ScheduleRequest `json:"schedule"`
	MaximumParticipants *int             `json:"maximum_participants" binding:"omitempty,min=1,max=100000"`
	IsTeamEvent         *bool            `json:"is_team_event"`
	TeamSize            *int             `json:"team_size" binding:"omitempty,min=1,max=100"`
	IsOnline            *bool            `json:"is_online"`
	IsHomeService       *bool            `json:"is_home_service"`
	IsPhysical          *bool            `json:"is_physical"`
	// Tiers, when present, replaces every tier of the event
	Tiers []TierRequest `json:"tiers" binding:"omitempty,dive"`
}

type UpdateStatusRequest struct {
	Status EventStatus `json:"status" binding:"required,oneof=pending published unpublished"`
}

type ToggleChartRequest struct {
	IsBookingEnabled *bool `json:"is_booking_enabled" binding:"required"`
}

type EventListQuery struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	Limit    int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Search   string `form:"search"`
	Category string `form:"category"`
	City     string `form:"city"`
	Date     string `form:"date" binding:"omitempty,datetime=2006-01-02"`
	Mode     string `form:"mode" binding:"omitempty,oneof=single recurring monthly_subscription"`
	IsOnline *bool  `form:"is_online"`
	// Status is honoured only on vendor and admin listings
	Status string `form:"status" binding:"omitempty,oneof=pending published unpublished"`
}

// cacheKey renders the filters in a stable order
func (q EventListQuery) cacheKey() string {
	online := ""
	if q.IsOnline != nil {
		if *q.IsOnline {
			online = "true"
		} else {
			online = "false"
		}
	}
	return "page=" + strconv.Itoa(q.Page) + "&limit=" + strconv.Itoa(q.Limit) +
		"&search=" + q.Search + "&category=" + q.Category + "&city=" + q.City +
		"&date=" + q.Date + "&mode=" + q.Mode + "&online=" + online
}
