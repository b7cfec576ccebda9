package domain

import "time"

// EventKind identifies an outbound event pushed to websocket clients.
type EventKind string

const (
	EventConnected      EventKind = "connected"
	EventSubscribed     EventKind = "subscribed"
	EventUnsubscribed   EventKind = "unsubscribed"
	EventParkingUpdated EventKind = "parking_updated"
	EventBookingUpdated EventKind = "booking_updated"
	EventPaymentUpdated EventKind = "payment_updated"
	EventNotification   EventKind = "notification"
	EventAnnouncement   EventKind = "system_announcement"
	EventLiveStats      EventKind = "live_stats"
	EventAvailability   EventKind = "parking_availability"
	EventBookingStatus  EventKind = "booking_status"
	EventPong           EventKind = "pong"
	EventError          EventKind = "error"
)

// Event is the immutable message fanned out to subscriber connections.
// It is never mutated after construction; each recipient gets the same
// serialized form enqueued exactly once.
type Event struct {
	Kind      EventKind `json:"type"`
	Payload   any       `json:"payload,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewEvent stamps the event with the emission time in UTC.
func NewEvent(kind EventKind, payload any) *Event {
	return &Event{Kind: kind, Payload: payload, Timestamp: time.Now().UTC()}
}

// ConnectedPayload acknowledges a successful admission.
type ConnectedPayload struct {
	ConnectionID string   `json:"connection_id"`
	SubjectID    string   `json:"subject_id"`
	Role         Role     `json:"role"`
	Topics       []string `json:"topics"`
}

// SubscriptionPayload acknowledges a subscribe or unsubscribe.
type SubscriptionPayload struct {
	Room string `json:"room"`
}

// AvailabilityPayload describes a parking-lot availability change.
type AvailabilityPayload struct {
	ParkingLotID    string `json:"parking_lot_id"`
	AvailableSpaces int    `json:"available_spaces"`
	Reason          string `json:"reason,omitempty"`
}

// BookingPayload describes a booking state change.
type BookingPayload struct {
	BookingID string         `json:"booking_id"`
	Status    string         `json:"status"`
	Data      map[string]any `json:"data,omitempty"`
}

// PaymentPayload describes a payment state change.
type PaymentPayload struct {
	PaymentID string         `json:"payment_id"`
	Status    string         `json:"status"`
	Data      map[string]any `json:"data,omitempty"`
}

// AnnouncementPayload is a system-wide broadcast.
type AnnouncementPayload struct {
	Message  string `json:"message"`
	Severity string `json:"severity"`
}

// ErrorPayload is returned to a single client after a protocol-level error.
// Protocol errors never terminate the connection.
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
