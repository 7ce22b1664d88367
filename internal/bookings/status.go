package bookings

// Status is the payment state of a booking
type Status string

const (
	StatusPending Status = "pending"
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusSuccess, StatusFailed:
		return true
	}
	return false
}

func (s Status) String() string {
	return string(s)
}

// IsTerminal reports whether the booking can no longer change state
func (s Status) IsTerminal() bool {
	return s == StatusSuccess || s == StatusFailed
}
