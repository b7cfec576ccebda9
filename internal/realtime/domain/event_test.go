package domain

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestNewEventStampsUTC(t *testing.T) {
	before := time.Now().UTC()
	ev := NewEvent(EventParkingUpdated, AvailabilityPayload{ParkingLotID: "lot-1", AvailableSpaces: 3})
	after := time.Now().UTC()

	if ev.Kind != EventParkingUpdated {
		t.Fatalf("unexpected kind: %s", ev.Kind)
	}
	if ev.Timestamp.Location() != time.UTC {
		t.Fatalf("timestamp not UTC: %v", ev.Timestamp.Location())
	}
	if ev.Timestamp.Before(before) || ev.Timestamp.After(after) {
		t.Fatalf("timestamp %v outside [%v, %v]", ev.Timestamp, before, after)
	}
}

func TestEventSerializesISOTimestamp(t *testing.T) {
	ev := &Event{
		Kind:      EventAnnouncement,
		Payload:   AnnouncementPayload{Message: "maintenance at noon", Severity: "warning"},
		Timestamp: time.Date(2025, time.March, 9, 14, 30, 0, 0, time.UTC),
	}
	data, err := json.Marshal(ev)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, `"timestamp":"2025-03-09T14:30:00Z"`) {
		t.Fatalf("expected RFC3339 timestamp, got %s", out)
	}
	if !strings.Contains(out, `"type":"system_announcement"`) {
		t.Fatalf("expected type field, got %s", out)
	}
}

func TestChangeEventNormalize(t *testing.T) {
	ev := &ChangeEvent{Entity: " booking ", SubjectID: " u1 ", ResourceID: "b9\n", Status: " confirmed"}
	ev.Normalize()
	if ev.Entity != "booking" || ev.SubjectID != "u1" || ev.ResourceID != "b9" || ev.Status != "confirmed" {
		t.Fatalf("normalize left padding: %+v", ev)
	}
	if ev.Severity != "info" {
		t.Fatalf("expected default severity info, got %q", ev.Severity)
	}
}
