// Package handler bridges broker change events onto the notifier. One
// handler per stream; registration happens at startup in cmd/server.
package handler

import (
	"context"
	"errors"

	"parkeoWs/internal/realtime/application/usecase"
	"parkeoWs/internal/realtime/domain"
)

// Broker topics published by the CRUD and payments services.
const (
	TopicAvailabilityChanged = "parking.availability.changed"
	TopicBookingChanged      = "booking.status.changed"
	TopicPaymentChanged      = "payment.status.changed"
	TopicNotificationCreated = "notification.created"
	TopicSystemAnnouncement  = "system.announcement"
)

var errMissingField = errors.New("change event missing required field")

// AvailabilityHandler fans parking-lot availability changes out to the lot's
// resource topic and the global feed.
type AvailabilityHandler struct {
	Notifier *usecase.NotifyUseCase
}

func (h *AvailabilityHandler) Topic() string { return TopicAvailabilityChanged }

func (h *AvailabilityHandler) Handle(_ context.Context, ev *domain.ChangeEvent) error {
	if ev.ResourceID == "" {
		return errMissingField
	}
	h.Notifier.AvailabilityChanged(ev.ResourceID, ev.AvailableSpaces, ev.Reason)
	return nil
}

// BookingHandler informs the booking owner and online admins.
type BookingHandler struct {
	Notifier *usecase.NotifyUseCase
}

func (h *BookingHandler) Topic() string { return TopicBookingChanged }

func (h *BookingHandler) Handle(_ context.Context, ev *domain.ChangeEvent) error {
	if ev.SubjectID == "" || ev.ResourceID == "" {
		return errMissingField
	}
	h.Notifier.BookingChanged(ev.SubjectID, ev.ResourceID, ev.Status, ev.Data)
	return nil
}

// PaymentHandler informs the paying subject only.
type PaymentHandler struct {
	Notifier *usecase.NotifyUseCase
}

func (h *PaymentHandler) Topic() string { return TopicPaymentChanged }

func (h *PaymentHandler) Handle(_ context.Context, ev *domain.ChangeEvent) error {
	if ev.SubjectID == "" || ev.ResourceID == "" {
		return errMissingField
	}
	h.Notifier.PaymentChanged(ev.SubjectID, ev.ResourceID, ev.Status, ev.Data)
	return nil
}

// NotificationHandler delivers ad-hoc per-subject notifications.
type NotificationHandler struct {
	Notifier *usecase.NotifyUseCase
}

func (h *NotificationHandler) Topic() string { return TopicNotificationCreated }

func (h *NotificationHandler) Handle(_ context.Context, ev *domain.ChangeEvent) error {
	if ev.SubjectID == "" {
		return errMissingField
	}
	h.Notifier.Generic(ev.SubjectID, ev.Data)
	return nil
}

// AnnouncementHandler broadcasts to everyone.
type AnnouncementHandler struct {
	Notifier *usecase.NotifyUseCase
}

func (h *AnnouncementHandler) Topic() string { return TopicSystemAnnouncement }

func (h *AnnouncementHandler) Handle(_ context.Context, ev *domain.ChangeEvent) error {
	if ev.Message == "" {
		return errMissingField
	}
	h.Notifier.Announce(ev.Message, ev.Severity)
	return nil
}
