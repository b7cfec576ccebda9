package transport

import (
	"context"
	"errors"
	"strings"

	"parkeoWs/internal/realtime/application/usecase"
	"parkeoWs/internal/realtime/domain"
	"parkeoWs/internal/realtime/infrastructure"
)

// NewPullRouter maps the client pull messages onto the snapshot provider.
// Replies go to the requester only; nothing here is broadcast.
func NewPullRouter(snapshots *usecase.SnapshotUseCase, hub *infrastructure.Hub) infrastructure.PullFunc {
	return func(ctx context.Context, c *infrastructure.Client, cmd domain.Command) (*domain.Event, error) {
		switch cmd.Action {
		case domain.ActionGetAvailability:
			snap, err := snapshots.Availability(ctx, c.Token(), strings.TrimSpace(cmd.ParkingLotID))
			if err != nil {
				return nil, err
			}
			return domain.NewEvent(domain.EventAvailability, snap), nil
		case domain.ActionGetBooking:
			bookingID := strings.TrimSpace(cmd.BookingID)
			if bookingID == "" {
				return nil, domain.ErrMissingBookingID
			}
			snap, err := snapshots.Booking(ctx, c.Token(), c.SubjectID(), bookingID)
			if err != nil {
				return nil, err
			}
			return domain.NewEvent(domain.EventBookingStatus, snap), nil
		case domain.ActionGetLiveStats:
			// Gated on the registry-cached role; the store double-checks the
			// forwarded token on its side.
			if c.Role() != domain.RoleAdmin {
				return nil, domain.ErrForbiddenTopic
			}
			snap, err := snapshots.LiveStats(ctx, c.Token())
			if err != nil {
				return nil, err
			}
			return domain.NewEvent(domain.EventLiveStats, domain.LiveStatsPayload{
				StatsSnapshot: *snap,
				Connections:   hub.Stats(),
			}), nil
		default:
			return nil, errors.New("unsupported query: " + cmd.Action)
		}
	}
}
