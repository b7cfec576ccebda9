package domain

import "errors"

// ErrMissingBookingID rejects booking-status queries that omit the booking
// id before anything reaches the store.
var ErrMissingBookingID = errors.New("booking_id is required")

// Client-initiated message actions carried over the websocket.
const (
	ActionSubscribe       = "subscribe"
	ActionUnsubscribe     = "unsubscribe"
	ActionGetAvailability = "get_parking_availability"
	ActionGetBooking      = "get_booking_status"
	ActionGetLiveStats    = "get_live_stats"
	ActionPing            = "ping"
)

// Command is an inbound client message. Every variant maps to exactly one
// handler; unknown actions produce an error event, never a disconnect.
type Command struct {
	Action       string `json:"action"`
	Room         string `json:"room,omitempty"`
	Kind         string `json:"kind,omitempty"`
	ParkingLotID string `json:"parking_lot_id,omitempty"`
	BookingID    string `json:"booking_id,omitempty"`
}
