package events

import (
	"time"

	"playarena/internal/schedule"
)

type TierResponse struct {
	ID             string   `json:"id"`
	Type           TierType `json:"type"`
	Name           string   `json:"name"`
	Amount         float64  `json:"amount"`
	Currency       string   `json:"currency"`
	Members        int      `json:"members,omitempty"`
	DurationMonths int      `json:"duration_months,omitempty"`
}

type EventResponse struct {
	ID                  string          `json:"id"`
	VendorID            string          `json:"vendor_id"`
	Name                string          `json:"name"`
	Description         string          `json:"description"`
	CategorySlug        string          `json:"category_slug"`
	City                string          `json:"city"`
	Address             string          `json:"address"`
	ImageURL            string          `json:"image_url"`
	Status              EventStatus     `json:"status"`
	Kind                string          `json:"kind"`
	Schedule            schedule.Config `json:"schedule"`
	MaximumParticipants int             `json:"maximum_participants"`
	IsTeamEvent         bool            `json:"is_team_event"`
	TeamSize            int             `json:"team_size"`
	IsOnline            bool            `json:"is_online"`
	IsHomeService       bool            `json:"is_home_service"`
	IsPhysical          bool            `json:"is_physical"`
	Tiers               []TierResponse  `json:"tiers"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

type ChartResponse struct {
	ID               string        `json:"id"`
	Date             string        `json:"date"`
	Slot             schedule.Slot `json:"slot"`
	BookedSeats      int           `json:"booked_seats"`
	IsBookingEnabled bool          `json:"is_booking_enabled"`
	// Remaining is nil for subscriptions, which are uncapped
	Remaining *int `json:"remaining"`
}

type PaginatedEvents struct {
	Events     []EventResponse `json:"events"`
	TotalCount int64           `json:"total_count"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int             `json:"total_pages"`
}

// ReconcileResponse summarises an inventory reconciliation after an update
type ReconcileResponse struct {
	Reconciled bool `json:"reconciled"`
	Created    int  `json:"created"`
	Updated    int  `json:"updated"`
	Deleted    int  `json:"deleted"`
}

type UpdateEventResponse struct {
	Event     EventResponse     `json:"event"`
	Inventory ReconcileResponse `json:"inventory"`
}

func (e *Event) ToResponse() EventResponse {
	tiers := make([]TierResponse, len(e.Tiers))
	for i, t := range e.Tiers {
		tiers[i] = t.ToResponse()
	}

	cfg := e.Schedule()
	return EventResponse{
		ID:                  e.ID.String(),
		VendorID:            e.VendorID.String(),
		Name:                e.Name,
		Description:         e.Description,
		CategorySlug:        e.CategorySlug,
		City:                e.City,
		Address:             e.Address,
		ImageURL:            e.ImageURL,
		Status:              e.Status,
		Kind:                cfg.Kind().String(),
		Schedule:            cfg,
		MaximumParticipants: e.MaximumParticipants,
		IsTeamEvent:         e.IsTeamEvent,
		TeamSize:            e.TeamSize,
		IsOnline:            e.IsOnline,
		IsHomeService:       e.IsHomeService,
		IsPhysical:          e.IsPhysical,
		Tiers:               tiers,
		CreatedAt:           e.CreatedAt,
		UpdatedAt:           e.UpdatedAt,
	}
}

func (t *BookingDetailType) ToResponse() TierResponse {
	return TierResponse{
		ID:             t.ID.String(),
		Type:           t.Type,
		Name:           t.Name,
		Amount:         t.Amount,
		Currency:       t.Currency,
		Members:        t.Members,
		DurationMonths: t.DurationMonths,
	}
}

func (c *BookingChart) ToResponse(event *Event) ChartResponse {
	resp := ChartResponse{
		ID:               c.ID.String(),
		Date:             c.Date,
		Slot:             c.Slot(),
		BookedSeats:      c.BookedSeats,
		IsBookingEnabled: c.IsBookingEnabled,
	}
	if !event.IsSubscription() {
		remaining := event.MaximumParticipants - c.BookedSeats
		if remaining < 0 {
			remaining = 0
		}
		resp.Remaining = &remaining
	}
	return resp
}
