package transport

import (
	"context"
	"errors"
	"testing"
	"time"

	"parkeoWs/internal/realtime/application/usecase"
	"parkeoWs/internal/realtime/domain"
	"parkeoWs/internal/realtime/infrastructure"
)

type stubStore struct {
	bookingCalls int
}

func (s *stubStore) RoleBySubject(_ context.Context, _, _ string) (domain.Role, error) {
	return domain.RoleUser, nil
}

func (s *stubStore) ParkingAvailability(_ context.Context, _, _ string) (*domain.AvailabilitySnapshot, error) {
	return &domain.AvailabilitySnapshot{}, nil
}

func (s *stubStore) BookingStatus(_ context.Context, _, _, _ string) (*domain.BookingSnapshot, error) {
	s.bookingCalls++
	return &domain.BookingSnapshot{}, nil
}

func (s *stubStore) LiveStats(_ context.Context, _ string) (*domain.StatsSnapshot, error) {
	return &domain.StatsSnapshot{}, nil
}

func TestPullBookingStatusRequiresBookingID(t *testing.T) {
	store := &stubStore{}
	snapshots := usecase.NewSnapshotUseCase(store, time.Second)
	defer snapshots.Stop()
	hub := infrastructure.NewHub()
	pulls := NewPullRouter(snapshots, hub)
	c := infrastructure.NewClient(hub, nil, "u1", domain.RoleUser, "tok", 4, nil)

	for _, bookingID := range []string{"", "   "} {
		_, err := pulls(context.Background(), c, domain.Command{Action: domain.ActionGetBooking, BookingID: bookingID})
		if !errors.Is(err, domain.ErrMissingBookingID) {
			t.Fatalf("booking id %q: expected ErrMissingBookingID, got %v", bookingID, err)
		}
	}
	if store.bookingCalls != 0 {
		t.Fatalf("store consulted despite missing booking id: %d calls", store.bookingCalls)
	}

	ev, err := pulls(context.Background(), c, domain.Command{Action: domain.ActionGetBooking, BookingID: "b1"})
	if err != nil {
		t.Fatalf("valid booking query failed: %v", err)
	}
	if ev.Kind != domain.EventBookingStatus {
		t.Fatalf("unexpected reply kind %s", ev.Kind)
	}
	if store.bookingCalls != 1 {
		t.Fatalf("expected exactly one store read, got %d", store.bookingCalls)
	}
}
