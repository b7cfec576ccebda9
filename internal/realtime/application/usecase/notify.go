package usecase

import (
	"log/slog"

	"parkeoWs/internal/realtime/application/port"
	"parkeoWs/internal/realtime/domain"
)

// NotifyUseCase is the surface the CRUD/payments side calls when state
// changes. Every method is fire-and-forget: it enqueues on the matching
// connections and returns without waiting for delivery, and per-recipient
// failures never reach the caller.
type NotifyUseCase struct {
	hub port.Broadcaster
}

func NewNotifyUseCase(hub port.Broadcaster) *NotifyUseCase {
	return &NotifyUseCase{hub: hub}
}

// AvailabilityChanged pushes the new count to the lot's resource topic and
// the global availability feed.
func (uc *NotifyUseCase) AvailabilityChanged(lotID string, newCount int, reason string) {
	ev := domain.NewEvent(domain.EventParkingUpdated, domain.AvailabilityPayload{
		ParkingLotID:    lotID,
		AvailableSpaces: newCount,
		Reason:          reason,
	})
	uc.hub.SendToTopic(domain.ResourceTopic(lotID), ev)
	uc.hub.SendToTopic(domain.TopicGlobalResourceFeed, ev)
	slog.Debug("notify: availability changed", slog.String("lotId", lotID), slog.Int("spaces", newCount), slog.String("reason", reason))
}

// BookingChanged informs the owning subject on all devices, plus online
// admins.
func (uc *NotifyUseCase) BookingChanged(subjectID, bookingID, status string, payload map[string]any) {
	ev := domain.NewEvent(domain.EventBookingUpdated, domain.BookingPayload{
		BookingID: bookingID,
		Status:    status,
		Data:      payload,
	})
	uc.hub.SendToSubject(subjectID, ev)
	uc.hub.SendToTopic(domain.TopicRoleAdmin, ev)
	slog.Debug("notify: booking changed", slog.String("subjectId", subjectID), slog.String("bookingId", bookingID), slog.String("status", status))
}

// PaymentChanged informs the owning subject only.
func (uc *NotifyUseCase) PaymentChanged(subjectID, paymentID, status string, payload map[string]any) {
	ev := domain.NewEvent(domain.EventPaymentUpdated, domain.PaymentPayload{
		PaymentID: paymentID,
		Status:    status,
		Data:      payload,
	})
	uc.hub.SendToSubject(subjectID, ev)
	slog.Debug("notify: payment changed", slog.String("subjectId", subjectID), slog.String("paymentId", paymentID), slog.String("status", status))
}

// Generic delivers an ad-hoc notification to one subject.
func (uc *NotifyUseCase) Generic(subjectID string, payload map[string]any) {
	uc.hub.SendToSubject(subjectID, domain.NewEvent(domain.EventNotification, payload))
	slog.Debug("notify: generic", slog.String("subjectId", subjectID))
}

// Announce broadcasts a system-wide announcement to every connection.
func (uc *NotifyUseCase) Announce(message, severity string) {
	if severity == "" {
		severity = "info"
	}
	uc.hub.BroadcastAll(domain.NewEvent(domain.EventAnnouncement, domain.AnnouncementPayload{
		Message:  message,
		Severity: severity,
	}))
	slog.Info("notify: announcement", slog.String("severity", severity))
}

// ConnectionStats reports live connection counts.
func (uc *NotifyUseCase) ConnectionStats() domain.ConnectionStats {
	return uc.hub.Stats()
}
