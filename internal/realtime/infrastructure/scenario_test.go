package infrastructure

import (
	"testing"

	"parkeoWs/internal/realtime/application/usecase"
	"parkeoWs/internal/realtime/domain"
)

// End-to-end over the in-process pieces: notifier → hub → connection queue.

func TestAvailabilityBroadcastScenario(t *testing.T) {
	hub := NewHub()
	notifier := usecase.NewNotifyUseCase(hub)

	a := newTestClient(hub, "u1", domain.RoleUser, 8)
	hub.Attach(a)
	if err := hub.Subscribe(a, "resource:lot-42"); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	notifier.AvailabilityChanged("lot-42", 17, "booking_created")

	if queueLen(a) != 1 {
		t.Fatalf("expected exactly one delivery, got %d", queueLen(a))
	}
	ev := drainEvent(t, a)
	if ev.Kind != domain.EventParkingUpdated {
		t.Fatalf("unexpected kind: %s", ev.Kind)
	}
	payload := ev.Payload.(map[string]any)
	if payload["available_spaces"] != float64(17) {
		t.Fatalf("unexpected available_spaces: %v", payload["available_spaces"])
	}
	if payload["parking_lot_id"] != "lot-42" {
		t.Fatalf("unexpected lot id: %v", payload["parking_lot_id"])
	}
}

func TestGlobalFeedSubscriberSeesEveryLot(t *testing.T) {
	hub := NewHub()
	notifier := usecase.NewNotifyUseCase(hub)

	dashboard := newTestClient(hub, "ops", domain.RoleAdmin, 8)
	hub.Attach(dashboard)
	if err := hub.Subscribe(dashboard, domain.TopicGlobalResourceFeed); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	notifier.AvailabilityChanged("lot-1", 3, "booking_created")
	notifier.AvailabilityChanged("lot-2", 9, "booking_cancelled")

	if queueLen(dashboard) != 2 {
		t.Fatalf("expected both lot updates on the global feed, got %d", queueLen(dashboard))
	}
}

func TestBookingChangeReachesOwnerDevicesAndAdmins(t *testing.T) {
	hub := NewHub()
	notifier := usecase.NewNotifyUseCase(hub)

	phone := newTestClient(hub, "u1", domain.RoleUser, 8)
	laptop := newTestClient(hub, "u1", domain.RoleUser, 8)
	admin := newTestClient(hub, "a1", domain.RoleAdmin, 8)
	bystander := newTestClient(hub, "u2", domain.RoleUser, 8)
	for _, c := range []*Client{phone, laptop, admin, bystander} {
		hub.Attach(c)
	}

	notifier.BookingChanged("u1", "b7", "confirmed", nil)

	for name, c := range map[string]*Client{"phone": phone, "laptop": laptop, "admin": admin} {
		if queueLen(c) != 1 {
			t.Fatalf("%s: expected 1 event, got %d", name, queueLen(c))
		}
	}
	if queueLen(bystander) != 0 {
		t.Fatalf("bystander received a foreign booking update")
	}
}

func TestStaleRoleUntilReconnect(t *testing.T) {
	hub := NewHub()

	// Connected as a regular user; promoted in the store afterwards. The
	// registry-cached role keeps the admin topic out of reach until a new
	// connection is admitted with the fresh role.
	c := newTestClient(hub, "u1", domain.RoleUser, 8)
	hub.Attach(c)
	if subs := hub.SubscribersOf(domain.TopicRoleAdmin); len(subs) != 0 {
		t.Fatalf("user on admin topic: %v", subs)
	}

	hub.Detach(c)
	promoted := newTestClient(hub, "u1", domain.RoleAdmin, 8)
	id := hub.Attach(promoted)

	subs := hub.SubscribersOf(domain.TopicRoleAdmin)
	if len(subs) != 1 || subs[0] != id {
		t.Fatalf("promoted reconnect missing from admin topic: %v", subs)
	}
}
