package domain

import "time"

// LotAvailability is the current state of one parking lot as reported by the
// store.
type LotAvailability struct {
	ParkingLotID    string `json:"parking_lot_id"`
	Name            string `json:"name,omitempty"`
	AvailableSpaces int    `json:"available_spaces"`
	TotalSpaces     int    `json:"total_spaces"`
}

// AvailabilitySnapshot is the pull-path answer to get_parking_availability.
type AvailabilitySnapshot struct {
	Lots []LotAvailability `json:"lots"`
}

// BookingSnapshot is the pull-path answer to get_booking_status, scoped to
// the requesting subject's own bookings.
type BookingSnapshot struct {
	BookingID    string     `json:"booking_id"`
	ParkingLotID string     `json:"parking_lot_id"`
	Status       string     `json:"status"`
	StartsAt     *time.Time `json:"starts_at,omitempty"`
	EndsAt       *time.Time `json:"ends_at,omitempty"`
}

// StatsSnapshot aggregates store-side counters for the admin live_stats pull.
type StatsSnapshot struct {
	ActiveBookings  int     `json:"active_bookings"`
	AvailableSpaces int     `json:"available_spaces"`
	TodayRevenue    float64 `json:"today_revenue"`
}

// ConnectionStats is the live connection summary merged into live_stats and
// exposed to domain services.
type ConnectionStats struct {
	Total        int `json:"total"`
	AdminsOnline int `json:"admins_online"`
}

// LiveStatsPayload is the full live_stats event payload: store aggregates
// plus the in-process connection counters.
type LiveStatsPayload struct {
	StatsSnapshot
	Connections ConnectionStats `json:"connections"`
}
