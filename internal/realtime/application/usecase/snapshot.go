package usecase

import (
	"context"
	"time"

	"github.com/jellydator/ttlcache/v3"

	"parkeoWs/internal/realtime/application/port"
	"parkeoWs/internal/realtime/domain"
)

// SnapshotUseCase is the state snapshot provider behind the client pull
// messages. It sits on the request path only, never the push path. Store
// reads that are the same for every requester (availability, aggregate
// stats) go through a short TTL cache so a burst of pulls does not hammer
// the REST API; booking lookups are per-subject and always hit the store.
type SnapshotUseCase struct {
	Store port.StoreReader
	cache *ttlcache.Cache[string, any]
}

func NewSnapshotUseCase(store port.StoreReader, ttl time.Duration) *SnapshotUseCase {
	if ttl <= 0 {
		ttl = 5 * time.Second
	}
	cache := ttlcache.New[string, any](
		ttlcache.WithTTL[string, any](ttl),
		ttlcache.WithDisableTouchOnHit[string, any](),
	)
	go cache.Start()
	return &SnapshotUseCase{Store: store, cache: cache}
}

// Stop terminates the cache janitor.
func (uc *SnapshotUseCase) Stop() {
	uc.cache.Stop()
}

// Availability answers get_parking_availability for one lot or all lots.
func (uc *SnapshotUseCase) Availability(ctx context.Context, token, lotID string) (*domain.AvailabilitySnapshot, error) {
	key := "availability:" + lotID
	if item := uc.cache.Get(key); item != nil {
		if snap, ok := item.Value().(*domain.AvailabilitySnapshot); ok {
			return snap, nil
		}
	}
	snap, err := uc.Store.ParkingAvailability(ctx, token, lotID)
	if err != nil {
		return nil, err
	}
	uc.cache.Set(key, snap, ttlcache.DefaultTTL)
	return snap, nil
}

// Booking answers get_booking_status scoped to the requester's own bookings.
func (uc *SnapshotUseCase) Booking(ctx context.Context, token, subjectID, bookingID string) (*domain.BookingSnapshot, error) {
	return uc.Store.BookingStatus(ctx, token, subjectID, bookingID)
}

// LiveStats answers get_live_stats with store aggregates.
func (uc *SnapshotUseCase) LiveStats(ctx context.Context, token string) (*domain.StatsSnapshot, error) {
	const key = "live-stats"
	if item := uc.cache.Get(key); item != nil {
		if snap, ok := item.Value().(*domain.StatsSnapshot); ok {
			return snap, nil
		}
	}
	snap, err := uc.Store.LiveStats(ctx, token)
	if err != nil {
		return nil, err
	}
	uc.cache.Set(key, snap, ttlcache.DefaultTTL)
	return snap, nil
}
