package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"parkeoWs/internal/realtime/application/port"
	"parkeoWs/internal/realtime/domain"
)

type fakeStore struct {
	fakeDirectory
	availability      *domain.AvailabilitySnapshot
	booking           *domain.BookingSnapshot
	stats             *domain.StatsSnapshot
	availabilityCalls int
	bookingCalls      int
	statsCalls        int
	err               error
}

func (f *fakeStore) ParkingAvailability(context.Context, string, string) (*domain.AvailabilitySnapshot, error) {
	f.availabilityCalls++
	return f.availability, f.err
}

func (f *fakeStore) BookingStatus(_ context.Context, _, subjectID, bookingID string) (*domain.BookingSnapshot, error) {
	f.bookingCalls++
	if f.err != nil {
		return nil, f.err
	}
	if f.booking == nil || f.booking.BookingID != bookingID {
		return nil, port.ErrBookingNotFound
	}
	return f.booking, nil
}

func (f *fakeStore) LiveStats(context.Context, string) (*domain.StatsSnapshot, error) {
	f.statsCalls++
	return f.stats, f.err
}

func TestAvailabilityIsCachedWithinTTL(t *testing.T) {
	store := &fakeStore{availability: &domain.AvailabilitySnapshot{
		Lots: []domain.LotAvailability{{ParkingLotID: "lot-1", AvailableSpaces: 4}},
	}}
	uc := NewSnapshotUseCase(store, time.Minute)
	defer uc.Stop()

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		snap, err := uc.Availability(ctx, "tok", "lot-1")
		if err != nil {
			t.Fatalf("Availability: %v", err)
		}
		if len(snap.Lots) != 1 || snap.Lots[0].AvailableSpaces != 4 {
			t.Fatalf("unexpected snapshot: %+v", snap)
		}
	}
	if store.availabilityCalls != 1 {
		t.Fatalf("expected single store read, got %d", store.availabilityCalls)
	}
}

func TestAvailabilityCacheIsPerLot(t *testing.T) {
	store := &fakeStore{availability: &domain.AvailabilitySnapshot{}}
	uc := NewSnapshotUseCase(store, time.Minute)
	defer uc.Stop()

	ctx := context.Background()
	if _, err := uc.Availability(ctx, "tok", "lot-1"); err != nil {
		t.Fatalf("Availability lot-1: %v", err)
	}
	if _, err := uc.Availability(ctx, "tok", "lot-2"); err != nil {
		t.Fatalf("Availability lot-2: %v", err)
	}
	if store.availabilityCalls != 2 {
		t.Fatalf("expected per-lot cache keys, got %d reads", store.availabilityCalls)
	}
}

func TestAvailabilityErrorsAreNotCached(t *testing.T) {
	store := &fakeStore{err: errors.New("store down")}
	uc := NewSnapshotUseCase(store, time.Minute)
	defer uc.Stop()

	ctx := context.Background()
	if _, err := uc.Availability(ctx, "tok", "lot-1"); err == nil {
		t.Fatal("expected error")
	}
	store.err = nil
	store.availability = &domain.AvailabilitySnapshot{}
	if _, err := uc.Availability(ctx, "tok", "lot-1"); err != nil {
		t.Fatalf("recovery read failed: %v", err)
	}
	if store.availabilityCalls != 2 {
		t.Fatalf("expected retry to reach store, got %d reads", store.availabilityCalls)
	}
}

func TestBookingAlwaysHitsStore(t *testing.T) {
	store := &fakeStore{booking: &domain.BookingSnapshot{BookingID: "b1", Status: "confirmed"}}
	uc := NewSnapshotUseCase(store, time.Minute)
	defer uc.Stop()

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		snap, err := uc.Booking(ctx, "tok", "u1", "b1")
		if err != nil {
			t.Fatalf("Booking: %v", err)
		}
		if snap.Status != "confirmed" {
			t.Fatalf("unexpected status: %s", snap.Status)
		}
	}
	if store.bookingCalls != 2 {
		t.Fatalf("booking reads must not be cached, got %d calls", store.bookingCalls)
	}
}

func TestBookingUnknownIDPropagatesNotFound(t *testing.T) {
	store := &fakeStore{}
	uc := NewSnapshotUseCase(store, time.Minute)
	defer uc.Stop()

	if _, err := uc.Booking(context.Background(), "tok", "u1", "nope"); !errors.Is(err, port.ErrBookingNotFound) {
		t.Fatalf("expected ErrBookingNotFound, got %v", err)
	}
}

func TestLiveStatsCached(t *testing.T) {
	store := &fakeStore{stats: &domain.StatsSnapshot{ActiveBookings: 12, AvailableSpaces: 80, TodayRevenue: 410.5}}
	uc := NewSnapshotUseCase(store, time.Minute)
	defer uc.Stop()

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		snap, err := uc.LiveStats(ctx, "tok")
		if err != nil {
			t.Fatalf("LiveStats: %v", err)
		}
		if snap.ActiveBookings != 12 {
			t.Fatalf("unexpected stats: %+v", snap)
		}
	}
	if store.statsCalls != 1 {
		t.Fatalf("expected cached stats, got %d reads", store.statsCalls)
	}
}
