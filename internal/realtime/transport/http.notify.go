package transport

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"parkeoWs/internal/realtime/application/usecase"
	"parkeoWs/internal/realtime/infrastructure"
)

// The internal REST surface mirrors the notifier one-to-one so domain
// services that do not publish to the broker (batch jobs, webhooks from the
// payment gateway) can still push updates. Calls are fire-and-forget: 202 is
// returned once the fan-out is enqueued, regardless of how many subscribers
// were reachable.

type availabilityRequest struct {
	ParkingLotID    string `json:"parking_lot_id"`
	AvailableSpaces int    `json:"available_spaces"`
	Reason          string `json:"reason"`
}

type bookingRequest struct {
	SubjectID string         `json:"subject_id"`
	BookingID string         `json:"booking_id"`
	Status    string         `json:"status"`
	Data      map[string]any `json:"data"`
}

type paymentRequest struct {
	SubjectID string         `json:"subject_id"`
	PaymentID string         `json:"payment_id"`
	Status    string         `json:"status"`
	Data      map[string]any `json:"data"`
}

type genericRequest struct {
	SubjectID string         `json:"subject_id"`
	Data      map[string]any `json:"data"`
}

type announceRequest struct {
	Message  string `json:"message"`
	Severity string `json:"severity"`
}

func accepted(c echo.Context) error {
	return c.JSON(http.StatusAccepted, map[string]any{"accepted": true})
}

func NewAvailabilityNotifyHandler(notifier *usecase.NotifyUseCase) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req availabilityRequest
		if err := c.Bind(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
		}
		if strings.TrimSpace(req.ParkingLotID) == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "parking_lot_id is required")
		}
		notifier.AvailabilityChanged(req.ParkingLotID, req.AvailableSpaces, req.Reason)
		return accepted(c)
	}
}

func NewBookingNotifyHandler(notifier *usecase.NotifyUseCase) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req bookingRequest
		if err := c.Bind(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
		}
		if strings.TrimSpace(req.SubjectID) == "" || strings.TrimSpace(req.BookingID) == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "subject_id and booking_id are required")
		}
		notifier.BookingChanged(req.SubjectID, req.BookingID, req.Status, req.Data)
		return accepted(c)
	}
}

func NewPaymentNotifyHandler(notifier *usecase.NotifyUseCase) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req paymentRequest
		if err := c.Bind(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
		}
		if strings.TrimSpace(req.SubjectID) == "" || strings.TrimSpace(req.PaymentID) == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "subject_id and payment_id are required")
		}
		notifier.PaymentChanged(req.SubjectID, req.PaymentID, req.Status, req.Data)
		return accepted(c)
	}
}

func NewGenericNotifyHandler(notifier *usecase.NotifyUseCase) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req genericRequest
		if err := c.Bind(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
		}
		if strings.TrimSpace(req.SubjectID) == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "subject_id is required")
		}
		notifier.Generic(req.SubjectID, req.Data)
		return accepted(c)
	}
}

func NewAnnounceHandler(notifier *usecase.NotifyUseCase) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req announceRequest
		if err := c.Bind(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
		}
		if strings.TrimSpace(req.Message) == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "message is required")
		}
		notifier.Announce(req.Message, req.Severity)
		slog.Info("announce accepted", slog.String("severity", req.Severity))
		return accepted(c)
	}
}

// NewConnectionsHandler reports connection stats plus per-connection
// metadata for the ops dashboard.
func NewConnectionsHandler(hub *infrastructure.Hub) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{
			"stats":       hub.Stats(),
			"connections": hub.Connections(),
		})
	}
}
