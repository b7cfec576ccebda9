package transport

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"parkeoWs/internal/realtime/application/port"
	"parkeoWs/internal/realtime/application/usecase"
	"parkeoWs/internal/realtime/domain"
	"parkeoWs/internal/realtime/infrastructure"
	"parkeoWs/internal/shared/auth"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// NewWebsocketHandler exposes GET /ws. The credential arrives in the
// Authorization header or the token query parameter; admission happens
// before the upgrade so a rejected client gets a proper HTTP status instead
// of a half-open socket.
func NewWebsocketHandler(
	hub *infrastructure.Hub,
	connectUC *usecase.ConnectUseCase,
	pulls infrastructure.PullFunc,
	sendBuffer int,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		peerIP := c.RealIP()
		token := auth.ExtractToken(c.Request(), "token")

		sess, err := connectUC.Execute(c.Request().Context(), token)
		if err != nil {
			slog.Warn("ws admission rejected", slog.String("ip", peerIP), slog.Any("error", err))
			switch {
			case errors.Is(err, auth.ErrMissingToken):
				return echo.NewHTTPError(http.StatusUnauthorized, "missing token")
			case errors.Is(err, auth.ErrInvalidToken):
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			case errors.Is(err, port.ErrSubjectNotFound):
				return echo.NewHTTPError(http.StatusForbidden, "subject not found")
			default:
				return echo.NewHTTPError(http.StatusBadGateway, "identity check failed")
			}
		}

		conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
		if err != nil {
			slog.Error("ws upgrade failed", slog.String("ip", peerIP), slog.Any("error", err))
			return err
		}

		client := infrastructure.NewClient(hub, conn, sess.SubjectID, sess.Role, sess.Token, sendBuffer, pulls)
		connID := hub.Attach(client)

		go client.WritePump()
		go client.ReadPump()

		topics := []string{domain.SubjectTopic(sess.SubjectID)}
		if sess.Role == domain.RoleAdmin {
			topics = append(topics, domain.TopicRoleAdmin)
		}
		client.SendEvent(domain.NewEvent(domain.EventConnected, domain.ConnectedPayload{
			ConnectionID: connID,
			SubjectID:    sess.SubjectID,
			Role:         sess.Role,
			Topics:       topics,
		}))

		slog.Info("ws connected",
			slog.String("connId", connID),
			slog.String("subjectId", sess.SubjectID),
			slog.String("role", string(sess.Role)),
			slog.String("ip", peerIP),
		)
		return nil
	}
}
