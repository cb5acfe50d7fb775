package model

// Stats is the admin dashboard aggregate. It is derived from current state
// on each request and never persisted.
type Stats struct {
	ActiveCodesByRole map[Role]int64 `json:"active_codes_by_role"`
	ConfirmedBookings int64          `json:"confirmed_bookings"`
}
