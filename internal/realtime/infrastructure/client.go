package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"parkeoWs/internal/realtime/application/port"
	"parkeoWs/internal/realtime/domain"
)

var (
	// ErrQueueFull means the recipient's outbound queue had no room; the
	// event is dropped for that one connection and fan-out continues.
	ErrQueueFull = errors.New("outbound queue full")
	// ErrConnectionClosed means the recipient was already closing.
	ErrConnectionClosed = errors.New("connection closed")
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
	maxMsgSize = 1 << 16
	pullWait   = 10 * time.Second
)

// PullFunc resolves a client-initiated query (availability, booking status,
// live stats) into a single response event for the requester only.
type PullFunc func(ctx context.Context, c *Client, cmd domain.Command) (*domain.Event, error)

// Client is one live websocket connection. Its lifecycle runs handshake →
// admission → active pumps → close; admission happens before the pumps
// start, and Detach guarantees registry and index removal on any exit path.
type Client struct {
	hub   *Hub
	conn  *websocket.Conn
	pulls PullFunc

	send       chan []byte
	sendMu     sync.RWMutex
	closed     bool
	closeTm    *time.Timer
	writerDone chan struct{}

	id          string
	subjectID   string
	role        domain.Role
	token       string
	connectedAt time.Time

	drainGrace time.Duration
}

// NewClient builds a client around an upgraded connection. The buffer bounds
// the outbound queue; a full queue rejects new events rather than blocking
// the dispatcher.
func NewClient(hub *Hub, conn *websocket.Conn, subjectID string, role domain.Role, token string, buf int, pulls PullFunc) *Client {
	if buf <= 0 {
		buf = 16
	}
	return &Client{
		hub:        hub,
		conn:       conn,
		pulls:      pulls,
		send:       make(chan []byte, buf),
		writerDone: make(chan struct{}),
		subjectID:  subjectID,
		role:       role,
		token:      token,
		drainGrace: 3 * time.Second,
	}
}

func (c *Client) ID() string             { return c.id }
func (c *Client) SubjectID() string      { return c.subjectID }
func (c *Client) Role() domain.Role      { return c.role }
func (c *Client) Token() string          { return c.token }
func (c *Client) ConnectedAt() time.Time { return c.connectedAt }

// SendEvent serializes and enqueues the event for this connection only.
// Failures are logged and isolated; callers never block on the remote peer.
func (c *Client) SendEvent(ev *domain.Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		slog.Error("websocket marshal error", slog.Any("error", err))
		return
	}
	if err := c.enqueue(data); err != nil {
		slog.Warn("websocket enqueue dropped event",
			slog.String("connId", c.id),
			slog.String("subjectId", c.subjectID),
			slog.String("kind", string(ev.Kind)),
			slog.Any("error", err),
		)
	}
}

// enqueue appends to the bounded outbound queue without blocking.
func (c *Client) enqueue(data []byte) error {
	c.sendMu.RLock()
	defer c.sendMu.RUnlock()
	if c.closed {
		return ErrConnectionClosed
	}
	select {
	case c.send <- data:
		return nil
	default:
		return ErrQueueFull
	}
}

// close stops accepting enqueues and lets the write pump drain what is
// already buffered. If the drain stalls past the grace period the transport
// is torn down underneath it.
func (c *Client) close() {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
	c.closeTm = time.AfterFunc(c.drainGrace, func() {
		if c.conn != nil {
			_ = c.conn.Close()
		}
	})
}

// stopDrainTimer disarms the force-close timer once the pump has finished.
// The read holds sendMu because close() assigns the timer under the same
// lock; observing the closed send channel alone is not enough ordering.
func (c *Client) stopDrainTimer() {
	c.sendMu.RLock()
	tm := c.closeTm
	c.sendMu.RUnlock()
	if tm != nil {
		tm.Stop()
	}
}

// WritePump drains the outbound queue to the wire in enqueue order and keeps
// the connection alive with pings. It exits once the queue is closed and
// drained, or on the first write error.
func (c *Client) WritePump() {
	ping := time.NewTicker(pingPeriod)
	defer func() {
		ping.Stop()
		c.stopDrainTimer()
		_ = c.conn.Close()
		close(c.writerDone)
	}()

	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
				_ = c.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				slog.Warn("websocket write error", slog.String("connId", c.id), slog.Any("error", err))
				return
			}
		case <-ping.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				slog.Warn("websocket ping error", slog.String("connId", c.id), slog.Any("error", err))
				return
			}
		}
	}
}

// ReadPump consumes inbound client messages until the transport fails or the
// peer disconnects, then detaches the connection. Malformed messages are a
// protocol-level error answered on this connection only; they never
// terminate it.
func (c *Client) ReadPump() {
	defer c.hub.Detach(c)

	c.conn.SetReadLimit(maxMsgSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				slog.Debug("websocket read error", slog.String("connId", c.id), slog.Any("error", err))
			}
			return
		}
		var cmd domain.Command
		if err := json.Unmarshal(raw, &cmd); err != nil {
			c.sendError("bad_request", "malformed message")
			continue
		}
		c.handleCommand(cmd)
	}
}

func (c *Client) handleCommand(cmd domain.Command) {
	switch cmd.Action {
	case domain.ActionSubscribe:
		if err := c.hub.Subscribe(c, cmd.Room); err != nil {
			c.sendError(subscribeErrorCode(err), err.Error())
			return
		}
		c.SendEvent(domain.NewEvent(domain.EventSubscribed, domain.SubscriptionPayload{Room: cmd.Room}))
	case domain.ActionUnsubscribe:
		c.hub.Unsubscribe(c, cmd.Room)
		c.SendEvent(domain.NewEvent(domain.EventUnsubscribed, domain.SubscriptionPayload{Room: cmd.Room}))
	case domain.ActionPing:
		c.SendEvent(domain.NewEvent(domain.EventPong, nil))
	case domain.ActionGetAvailability, domain.ActionGetBooking, domain.ActionGetLiveStats:
		c.handlePull(cmd)
	default:
		c.sendError("unknown_action", "unknown action: "+cmd.Action)
	}
}

func (c *Client) handlePull(cmd domain.Command) {
	if c.pulls == nil {
		c.sendError("query_failed", "queries unavailable")
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), pullWait)
	defer cancel()
	ev, err := c.pulls(ctx, c, cmd)
	if err != nil {
		c.sendError(pullErrorCode(err), err.Error())
		return
	}
	c.SendEvent(ev)
}

func (c *Client) sendError(code, message string) {
	c.SendEvent(domain.NewEvent(domain.EventError, domain.ErrorPayload{Code: code, Message: message}))
}

func pullErrorCode(err error) string {
	switch {
	case errors.Is(err, domain.ErrMissingBookingID):
		return "bad_request"
	case errors.Is(err, port.ErrBookingNotFound):
		return "not_found"
	case errors.Is(err, port.ErrStoreForbidden), errors.Is(err, domain.ErrForbiddenTopic):
		return "forbidden"
	default:
		return "query_failed"
	}
}

func subscribeErrorCode(err error) string {
	switch {
	case errors.Is(err, domain.ErrForbiddenTopic):
		return "forbidden_topic"
	case errors.Is(err, domain.ErrInvalidTopic):
		return "invalid_topic"
	default:
		return "subscribe_failed"
	}
}
