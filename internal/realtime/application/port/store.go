package port

import (
	"context"
	"errors"

	"parkeoWs/internal/realtime/domain"
)

var (
	// ErrSubjectNotFound means the token was valid but the subject no longer
	// exists in the store. Connections presenting such a token are rejected.
	ErrSubjectNotFound = errors.New("subject not found")
	// ErrBookingNotFound covers both a missing booking and a booking owned by
	// someone else; the store does not distinguish the two for non-admins.
	ErrBookingNotFound = errors.New("booking not found")
	// ErrStoreForbidden means the store rejected the forwarded credential.
	ErrStoreForbidden = errors.New("store rejected credentials")
)

// SubjectDirectory resolves the current role of a subject. Consulted once per
// handshake; the result is cached on the connection for its lifetime.
type SubjectDirectory interface {
	RoleBySubject(ctx context.Context, token, subjectID string) (domain.Role, error)
}

// StoreReader is the full read surface the core consumes from the external
// data store. All calls forward the requesting client's own bearer token so
// the store applies its usual access rules.
type StoreReader interface {
	SubjectDirectory
	// ParkingAvailability returns counts for one lot, or for every lot when
	// lotID is empty.
	ParkingAvailability(ctx context.Context, token, lotID string) (*domain.AvailabilitySnapshot, error)
	// BookingStatus returns one booking scoped to the given subject.
	BookingStatus(ctx context.Context, token, subjectID, bookingID string) (*domain.BookingSnapshot, error)
	// LiveStats returns platform-wide aggregates; the store enforces that the
	// token belongs to an admin.
	LiveStats(ctx context.Context, token string) (*domain.StatsSnapshot, error)
}

// Broadcaster is the fan-out surface the notifier composes. Implemented by
// the websocket hub; every call is a non-blocking enqueue.
type Broadcaster interface {
	SendToTopic(topic string, ev *domain.Event)
	SendToSubject(subjectID string, ev *domain.Event)
	BroadcastAll(ev *domain.Event)
	Stats() domain.ConnectionStats
}
